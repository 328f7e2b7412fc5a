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

package header

import (
	"golang.org/x/crypto/blake2b"
)

// Digest returns a blake2b-256 digest over the header's immutable
// byte image: the preamble (excluding the mutable rowCount field),
// the column records, and the string blob. It does not cover row
// payload bytes, which may still be growing concurrently while a
// worker is holding this digest. A TableDescriptor can carry a Digest
// so a worker sanity-checks it was handed the schema it expects
// before compiling a filter against it.
func (h *Header) Digest() [32]byte {
	buf := h.reg.Bytes()[:h.dataLength]
	// zero out the mutable rowCount field in a scratch copy so the
	// digest is stable regardless of how many rows have been added.
	scratch := make([]byte, len(buf))
	copy(scratch, buf)
	for i := 0; i < 4; i++ {
		scratch[offRowCount+i] = 0
	}
	return blake2b.Sum256(scratch)
}
