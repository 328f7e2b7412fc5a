// Copyright (C) 2024 Lattice Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package table

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/latticedb/lattice/region"
)

// MemoryBlockDescriptor locates a table's byte range within a shared
// buffer without copying any data.
type MemoryBlockDescriptor struct {
	Address uint32
	Size    uint32
}

// TableDescriptor carries enough information to reconstruct a Table
// view over a shared region without copying. ID is a per-descriptor
// identifier used to attribute worker error replies and log lines to
// the table a scan ran over.
type TableDescriptor struct {
	ID     uuid.UUID
	Block  MemoryBlockDescriptor
	Digest [32]byte
}

// Describe builds a TableDescriptor for t, suitable for handing to a
// worker over the scan protocol.
func (t *Table) Describe() TableDescriptor {
	return TableDescriptor{
		ID: uuid.New(),
		Block: MemoryBlockDescriptor{
			Address: uint32(t.reg.Address()),
			Size:    uint32(t.reg.Size()),
		},
		Digest: t.hdr.Digest(),
	}
}

// Open reconstructs a Table view over desc's byte range within buf,
// without copying. It verifies the header digest matches desc.Digest,
// catching a worker being handed a stale or mismatched descriptor.
func Open(buf []byte, desc TableDescriptor) (*Table, error) {
	full := region.FromBytes(buf)
	sub, err := full.SubRegion(int(desc.Block.Address), int(desc.Block.Size))
	if err != nil {
		return nil, fmt.Errorf("table: opening descriptor: %w", err)
	}
	tbl, err := New(sub)
	if err != nil {
		return nil, err
	}
	if got := tbl.hdr.Digest(); got != desc.Digest {
		return nil, fmt.Errorf("table: header digest mismatch for descriptor %s", desc.ID)
	}
	return tbl, nil
}
