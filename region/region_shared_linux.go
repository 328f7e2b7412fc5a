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

//go:build linux

package region

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// NewShared allocates a size-byte region backed by a memfd, suitable
// for handing its file descriptor to a separate OS process (see the
// ipc package) rather than only to goroutines in the same address
// space. The returned *os.File is the caller's to pass across a unix
// socket; closing it does not unmap the region.
func NewShared(size int) (*Region, *os.File, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("region: size must be positive, got %d", size)
	}
	fd, err := unix.MemfdCreate("lattice-table", 0)
	if err != nil {
		return nil, nil, fmt.Errorf("region: memfd_create: %w", err)
	}
	file := os.NewFile(uintptr(fd), "lattice-table")
	if err := file.Truncate(int64(size)); err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("region: truncating memfd: %w", err)
	}
	buf, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("region: mmap: %w", err)
	}
	reg := &Region{
		buf:     buf,
		address: 0,
		size:    size,
		owner: &backing{release: func(b []byte) error {
			return unix.Munmap(b)
		}},
	}
	return reg, file, nil
}

// OpenShared reconstructs a Region over a memfd received from another
// process (e.g. via ipc.RecvTable), of the given size.
func OpenShared(file *os.File, size int) (*Region, error) {
	buf, err := unix.Mmap(int(file.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("region: mmap shared fd: %w", err)
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
