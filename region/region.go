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

// Package region implements ByteRegion: a borrowed or owned span of
// bytes with a base address, optionally backed by shared memory so
// that it can be handed across process boundaries without copying.
package region

import (
	"encoding/binary"
	"fmt"
)

// Region is a byte-addressable span. It may be a subregion sharing a
// buffer with another Region, in which case freeing it is a no-op:
// only the owner (the Region returned by New, NewShared or OpenShared)
// actually releases the backing memory. A Region from FromBytes has no
// owner, and freeing it is a no-op as well.
type Region struct {
	buf      []byte // the full backing buffer
	address  int    // offset of this region's start within buf
	size     int    // length of this region
	owner    *backing
}

// backing tracks how a buffer was obtained so Free can release it
// through the right path (munmap vs. letting the GC reclaim a slice).
type backing struct {
	release func([]byte) error
	freed   bool
}

// FromBytes wraps an existing, already-allocated byte slice as a
// Region without copying. Its lifetime is managed by the caller (the
// external allocator); Free is a no-op.
func FromBytes(buf []byte) *Region {
	return &Region{buf: buf, address: 0, size: len(buf), owner: nil}
}

// Address returns the offset of this region's start within its
// backing buffer.
func (r *Region) Address() int { return r.address }

// Size returns the length of this region in bytes.
func (r *Region) Size() int { return r.size }

// Bytes returns the full byte span of the region.
func (r *Region) Bytes() []byte {
	return r.buf[r.address : r.address+r.size]
}

// SubRegion returns a Region over [offset, offset+size) within r,
// sharing the same backing buffer. Freeing a subregion never releases
// the shared buffer; only freeing the owning Region does.
func (r *Region) SubRegion(offset, size int) (*Region, error) {
	if offset < 0 || size < 0 || offset+size > r.size {
		return nil, fmt.Errorf("region: subregion [%d,%d) out of bounds of size %d", offset, offset+size, r.size)
	}
	return &Region{buf: r.buf, address: r.address + offset, size: size, owner: nil}, nil
}

// Free releases the region's backing memory. It is the caller's
// responsibility to ensure no Table, Row, or ByteString built over
// this region is used afterward.
func (r *Region) Free() error {
	if r.owner == nil || r.owner.freed {
		return nil
	}
	r.owner.freed = true
	return r.owner.release(r.buf)
}

// U32 reads a little-endian uint32 at byte offset off within the
// region. It is a plain, non-atomic load: callers touching a field
// that may be concurrently mutated (e.g. a row count or cursor) must
// use AtomicLoadU32/AtomicAddU32/AtomicStoreU32 instead.
func (r *Region) U32(off int) uint32 {
	return binary.LittleEndian.Uint32(r.Bytes()[off:])
}
