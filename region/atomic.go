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

package region

import (
	"sync/atomic"
	"unsafe"
)

// AtomicLoadU32 atomically loads the u32 at byte offset off. off must
// be 4-byte aligned; the header and indices layouts guarantee this.
func (r *Region) AtomicLoadU32(off int) uint32 {
	p := r.u32ptr(off)
	return atomic.LoadUint32(p)
}

// AtomicStoreU32 atomically stores v at byte offset off.
func (r *Region) AtomicStoreU32(off int, v uint32) {
	p := r.u32ptr(off)
	atomic.StoreUint32(p, v)
}

// AtomicAddU32 atomically adds delta to the u32 at byte offset off
// and returns the value as it was *before* the add, matching the
// "returns the prior value so the caller owns the claimed range"
// contract used by both Header.AddRows and the scan loop's cursor
// fetch-add.
func (r *Region) AtomicAddU32(off int, delta uint32) (old uint32) {
	p := r.u32ptr(off)
	return atomic.AddUint32(p, delta) - delta
}

func (r *Region) u32ptr(off int) *uint32 {
	b := r.Bytes()
	return (*uint32)(unsafe.Pointer(&b[off]))
}
