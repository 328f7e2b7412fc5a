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

//go:build linux || darwin

package region

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// New allocates a size-byte region backed by an anonymous MAP_SHARED
// mapping. The mapping has no file descriptor, so it cannot be passed
// to a separate OS process over ipc.SendTable; NewShared (Linux) builds
// a memfd-backed region that can. On platforms without mmap, see
// region_other.go.
func New(size int) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("region: size must be positive, got %d", size)
	}
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("region: mmap: %w", err)
	}
	return &Region{
		buf:     buf,
		address: 0,
		size:    size,
		owner: &backing{release: func(b []byte) error {
			return unix.Munmap(b)
		}},
	}, nil
}
