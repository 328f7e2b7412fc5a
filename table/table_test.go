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
	"errors"
	"testing"

	"github.com/latticedb/lattice/coltype"
	"github.com/latticedb/lattice/header"
	"github.com/latticedb/lattice/region"
	"github.com/latticedb/lattice/row"
)

func newS1(t *testing.T) *Table {
	t.Helper()
	reg, err := region.New(4096)
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := EmptyFromColumns([]header.ColumnDescriptor{
		{Name: "id", Type: coltype.Uint32, ByteSize: 4},
		{Name: "name", Type: coltype.ByteString, ByteSize: 16},
	}, reg)
	if err != nil {
		t.Fatal(err)
	}
	old, err := tbl.AddRows(3)
	if err != nil {
		t.Fatal(err)
	}
	rows := []struct {
		id   uint32
		name string
	}{{1, "Ada"}, {2, "Bob"}, {3, "Cid"}}
	for i, r := range rows {
		rw, err := tbl.GetBinaryRow(old + uint32(i))
		if err != nil {
			t.Fatal(err)
		}
		idAcc, _ := rw.Accessor("id")
		idAcc.Set(uint32(r.id))
		nameAcc, _ := rw.Accessor("name")
		nameAcc.Set(r.name)
	}
	return tbl
}

func TestTableS1(t *testing.T) {
	tbl := newS1(t)
	defer tbl.Destroy()

	if tbl.RowCount() != 3 {
		t.Fatalf("rowCount = %d, want 3", tbl.RowCount())
	}
	r, err := tbl.GetRow(1)
	if err != nil {
		t.Fatal(err)
	}
	nameAcc, _ := r.Accessor("name")
	if got := nameAcc.Get().(string); got != "Bob" {
		t.Fatalf("getRow(1).name = %q, want Bob", got)
	}
}

func TestForEach(t *testing.T) {
	tbl := newS1(t)
	defer tbl.Destroy()

	var names []string
	err := tbl.ForEach(func(r *row.Row) error {
		nameAcc, _ := r.Accessor("name")
		names = append(names, nameAcc.Get().(coltype.ByteString).String())
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Ada", "Bob", "Cid"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}

func TestBoundsError(t *testing.T) {
	tbl := newS1(t)
	defer tbl.Destroy()

	if _, err := tbl.GetRow(3); !errors.Is(err, ErrBounds) {
		t.Fatalf("GetRow(3): err = %v, want ErrBounds", err)
	}
}

func TestDestroyIsTerminal(t *testing.T) {
	tbl := newS1(t)
	if err := tbl.Destroy(); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Destroy(); err != nil {
		t.Fatalf("second Destroy should be a no-op, got %v", err)
	}
	if _, err := tbl.AddRows(1); !errors.Is(err, ErrUseAfterFree) {
		t.Fatalf("AddRows after destroy: err = %v, want ErrUseAfterFree", err)
	}
}

func TestDescriptorRoundTrip(t *testing.T) {
	reg, err := region.New(4096)
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := EmptyFromColumns([]header.ColumnDescriptor{
		{Name: "id", Type: coltype.Uint32, ByteSize: 4},
	}, reg)
	if err != nil {
		t.Fatal(err)
	}
	defer tbl.Destroy()

	desc := tbl.Describe()
	reopened, err := Open(reg.Bytes(), desc)
	if err != nil {
		t.Fatal(err)
	}
	if reopened.RowCount() != tbl.RowCount() {
		t.Fatalf("reopened rowCount mismatch")
	}
}
