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

package ipc

import (
	"testing"

	"github.com/latticedb/lattice/region"
	"github.com/latticedb/lattice/usock"
)

func TestSendRecvTableRoundTrip(t *testing.T) {
	const size = 4096
	reg, file, err := region.NewShared(size)
	if err != nil {
		t.Fatal(err)
	}
	defer reg.Free()
	defer file.Close()

	reg.Bytes()[0] = 0xab
	reg.Bytes()[size-1] = 0xcd

	left, right, err := usock.SocketPair()
	if err != nil {
		t.Fatal(err)
	}
	defer left.Close()
	defer right.Close()

	done := make(chan error, 1)
	go func() {
		done <- SendTable(left, file, size)
	}()

	recvFile, recvSize, err := RecvTable(right)
	if err != nil {
		t.Fatal(err)
	}
	defer recvFile.Close()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if recvSize != size {
		t.Fatalf("recvSize = %d, want %d", recvSize, size)
	}

	recvReg, err := region.OpenShared(recvFile, recvSize)
	if err != nil {
		t.Fatal(err)
	}
	defer recvReg.Free()

	if recvReg.Bytes()[0] != 0xab || recvReg.Bytes()[size-1] != 0xcd {
		t.Fatal("received region does not share the sender's memory")
	}
}
