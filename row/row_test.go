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

package row

import (
	"testing"

	"github.com/latticedb/lattice/coltype"
	"github.com/latticedb/lattice/header"
	"github.com/latticedb/lattice/region"
)

func newS1(t *testing.T) (*region.Region, *header.Header) {
	t.Helper()
	cols := []header.ColumnDescriptor{
		{Name: "id", Type: coltype.Uint32, ByteSize: 4},
		{Name: "name", Type: coltype.ByteString, ByteSize: 16},
	}
	img, err := header.BinaryFromColumns(cols)
	if err != nil {
		t.Fatal(err)
	}
	reg, err := region.New(len(img) + 3*21)
	if err != nil {
		t.Fatal(err)
	}
	h, err := header.EmptyFromBinaryHeader(img, reg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.AddRows(3); err != nil {
		t.Fatal(err)
	}
	return reg, h
}

// write (1,"Ada"),(2,"Bob"),(3,"Cid"), then read back row 1.
func TestS1RoundTrip(t *testing.T) {
	reg, h := newS1(t)
	defer reg.Free()

	w := New(reg, h, 0, true)
	rows := []struct {
		id   uint32
		name string
	}{{1, "Ada"}, {2, "Bob"}, {3, "Cid"}}
	for i, r := range rows {
		w.SetIndex(uint32(i))
		idAcc, _ := w.Accessor("id")
		idAcc.Set(uint32(r.id))
		nameAcc, _ := w.Accessor("name")
		nameAcc.Set(r.name)
	}

	if h.RowCount() != 3 {
		t.Fatalf("rowCount = %d, want 3", h.RowCount())
	}

	reader := New(reg, h, 1, false)
	nameAcc, _ := reader.Accessor("name")
	if got := nameAcc.Get().(string); got != "Bob" {
		t.Fatalf("row(1).name = %q, want Bob", got)
	}
	idAcc, _ := reader.Accessor("id")
	if got := idAcc.Get().(int64); got != 2 {
		t.Fatalf("row(1).id = %d, want 2", got)
	}
}

func TestRowStride(t *testing.T) {
	reg, h := newS1(t)
	defer reg.Free()

	r := New(reg, h, 0, true)
	for i := uint32(0); i < h.RowCount(); i++ {
		r.SetIndex(i)
		want := h.DataLength() + i*h.RowLength()
		if got := r.rowBase(); got != want {
			t.Fatalf("row(%d) base = %d, want %d", i, got, want)
		}
	}
}

func TestByteStringRoundTrip(t *testing.T) {
	reg, h := newS1(t)
	defer reg.Free()

	w := New(reg, h, 0, true)
	nameAcc, _ := w.Accessor("name")
	nameAcc.Set("hello world!!!!") // 15 bytes, fits in maxLen 16

	binRow := New(reg, h, 0, true)
	bsAcc, _ := binRow.Accessor("name")
	bs := bsAcc.Get().(coltype.ByteString)
	if bs.String() != "hello world!!!!" {
		t.Fatalf("got %q", bs.String())
	}
}

func TestByteStringTruncation(t *testing.T) {
	reg, h := newS1(t)
	defer reg.Free()

	w := New(reg, h, 0, true)
	nameAcc, _ := w.Accessor("name")
	nameAcc.Set("this string is way too long for sixteen bytes")

	r := New(reg, h, 0, false)
	nameAcc2, _ := r.Accessor("name")
	got := nameAcc2.Get().(string)
	if len(got) != 16 {
		t.Fatalf("len = %d, want 16 (truncated to maxLen)", len(got))
	}
}
