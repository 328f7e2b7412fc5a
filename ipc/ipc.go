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

//go:build linux || netbsd || openbsd || solaris || freebsd || aix || darwin || dragonfly

// Package ipc hands a shared table region to a worker running in a
// separate OS process, passing the region's backing file descriptor
// out-of-band over a unix(7) control socket (SCM_RIGHTS) alongside a
// small encoded message giving its size. The in-process worker.Pool is
// the default transport; this package is the cross-process analogue,
// for a coordinator and worker that do not share an address space.
package ipc

import (
	"encoding/binary"
	"fmt"
	"net"
	"os"

	"github.com/latticedb/lattice/usock"
)

// SendTable writes the byte length of a region to dst, then passes
// file, the descriptor backing that region's shared memory, as an
// out-of-band control message. The receiving process reconstructs the
// region with RecvTable.
func SendTable(dst *net.UnixConn, file *os.File, size int) error {
	var head [8]byte
	binary.LittleEndian.PutUint64(head[:], uint64(size))
	_, err := usock.WriteWithFile(dst, head[:], file)
	if err != nil {
		return fmt.Errorf("ipc: sending table: %w", err)
	}
	return nil
}

// RecvTable reads a size header and its accompanying file descriptor
// from src, returning an *os.File the caller can mmap to reconstruct
// the shared region.
func RecvTable(src *net.UnixConn) (*os.File, int, error) {
	var head [8]byte
	n, f, err := usock.ReadWithFile(src, head[:])
	if err != nil {
		return nil, 0, fmt.Errorf("ipc: receiving table: %w", err)
	}
	if n != len(head) {
		if f != nil {
			f.Close()
		}
		return nil, 0, fmt.Errorf("ipc: receiving table: short header read (%d bytes)", n)
	}
	if f == nil {
		return nil, 0, fmt.Errorf("ipc: receiving table: no file descriptor attached")
	}
	size := int(binary.LittleEndian.Uint64(head[:]))
	return f, size, nil
}
