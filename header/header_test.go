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
	"errors"
	"testing"

	"github.com/latticedb/lattice/coltype"
	"github.com/latticedb/lattice/region"
)

func s1Columns() []ColumnDescriptor {
	return []ColumnDescriptor{
		{Name: "id", Type: coltype.Uint32, ByteSize: 4},
		{Name: "name", Type: coltype.ByteString, ByteSize: 16},
	}
}

func buildS1(t *testing.T) (*Header, *region.Region) {
	t.Helper()
	img, err := BinaryFromColumns(s1Columns())
	if err != nil {
		t.Fatal(err)
	}
	reg, err := region.New(len(img) + 3*(4+1+16))
	if err != nil {
		t.Fatal(err)
	}
	h, err := EmptyFromBinaryHeader(img, reg)
	if err != nil {
		t.Fatal(err)
	}
	return h, reg
}

func TestHeaderStability(t *testing.T) {
	// invariant 1: columnByName round-trips type/size; original order survives reordering.
	cols := s1Columns()
	h, reg := buildS1(t)
	defer reg.Free()

	for _, c := range cols {
		got, ok := h.ColumnByName(c.Name)
		if !ok {
			t.Fatalf("column %q missing", c.Name)
		}
		if got.Type != c.Type {
			t.Fatalf("column %q type = %v, want %v", c.Name, got.Type, c.Type)
		}
		wantSize := c.Type.Size(c.ByteSize)
		if got.Size != wantSize {
			t.Fatalf("column %q size = %d, want %d", c.Name, got.Size, wantSize)
		}
	}

	orig := h.OriginalOrder()
	if orig[0].Name != "id" || orig[1].Name != "name" {
		t.Fatalf("original order not preserved: %+v", orig)
	}
}

func TestRowCountAndAddRows(t *testing.T) {
	h, reg := buildS1(t)
	defer reg.Free()

	if h.RowCount() != 0 {
		t.Fatalf("fresh header rowCount = %d, want 0", h.RowCount())
	}
	old, err := h.AddRows(3)
	if err != nil {
		t.Fatal(err)
	}
	if old != 0 {
		t.Fatalf("first AddRows old = %d, want 0", old)
	}
	if h.RowCount() != 3 {
		t.Fatalf("rowCount = %d, want 3", h.RowCount())
	}
}

func TestAddRowsCapacity(t *testing.T) {
	cols := s1Columns()
	img, err := BinaryFromColumns(cols)
	if err != nil {
		t.Fatal(err)
	}
	// region just big enough for the header and zero rows.
	reg, err := region.New(len(img))
	if err != nil {
		t.Fatal(err)
	}
	defer reg.Free()
	h, err := EmptyFromBinaryHeader(img, reg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.AddRows(1); !errors.Is(err, ErrCapacity) {
		t.Fatalf("AddRows over capacity: err = %v, want ErrCapacity", err)
	}
}

func TestRoundTripThroughNew(t *testing.T) {
	h, reg := buildS1(t)
	defer reg.Free()
	h.AddRows(2)

	reopened, err := New(reg)
	if err != nil {
		t.Fatal(err)
	}
	if reopened.RowCount() != 2 {
		t.Fatalf("reopened rowCount = %d, want 2", reopened.RowCount())
	}
	if reopened.RowLength() != h.RowLength() {
		t.Fatalf("rowLength mismatch after reopen")
	}
}

func TestDigestStableAcrossRowGrowth(t *testing.T) {
	h, reg := buildS1(t)
	defer reg.Free()
	before := h.Digest()
	h.AddRows(1)
	after := h.Digest()
	if before != after {
		t.Fatal("digest changed when only rowCount changed")
	}
}

func TestDuplicateColumnNameRejected(t *testing.T) {
	_, err := BinaryFromColumns([]ColumnDescriptor{
		{Name: "id", Type: coltype.Uint32},
		{Name: "id", Type: coltype.Int8},
	})
	if err == nil {
		t.Fatal("expected error for duplicate column name")
	}
}
