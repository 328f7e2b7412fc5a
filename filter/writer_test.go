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

package filter

import (
	"testing"

	"github.com/latticedb/lattice/coltype"
	"github.com/latticedb/lattice/header"
	"github.com/latticedb/lattice/row"
)

func TestCompileWriterUnknownSourceColumn(t *testing.T) {
	src := s2s3Table(t)
	defer src.Destroy()

	result := newResultTable(t, []header.ColumnDescriptor{
		{Name: "id", Type: coltype.Uint32, ByteSize: 4},
	})
	defer result.Destroy()

	srcRow := row.New(src.Region(), src.Header(), 0, true)
	_, err := CompileWriter(ResultDescription{AsColumn("nope", "id")}, result, srcRow)
	if err == nil {
		t.Fatal("expected ErrUnknownColumn for missing source column")
	}
}

func TestCompileWriterUnknownDestColumn(t *testing.T) {
	src := s2s3Table(t)
	defer src.Destroy()

	result := newResultTable(t, []header.ColumnDescriptor{
		{Name: "id", Type: coltype.Uint32, ByteSize: 4},
	})
	defer result.Destroy()

	srcRow := row.New(src.Region(), src.Header(), 0, true)
	_, err := CompileWriter(ResultDescription{AsColumn("id", "nope")}, result, srcRow)
	if err == nil {
		t.Fatal("expected ErrUnknownColumn for missing destination column")
	}
}

func TestCompileWriterAppendsOneRowPerCall(t *testing.T) {
	src := s2s3Table(t)
	defer src.Destroy()

	result := newResultTable(t, []header.ColumnDescriptor{
		{Name: "id", Type: coltype.Uint32, ByteSize: 4},
	})
	defer result.Destroy()

	srcRow := row.New(src.Region(), src.Header(), 0, true)
	write, err := CompileWriter(ResultDescription{AsColumn("id", "id")}, result, srcRow)
	if err != nil {
		t.Fatal(err)
	}

	srcRow.SetIndex(0)
	if err := write(0); err != nil {
		t.Fatal(err)
	}
	srcRow.SetIndex(2)
	if err := write(2); err != nil {
		t.Fatal(err)
	}
	if result.RowCount() != 2 {
		t.Fatalf("rowCount = %d, want 2", result.RowCount())
	}

	r0, err := result.GetRow(0)
	if err != nil {
		t.Fatal(err)
	}
	idAcc, _ := r0.Accessor("id")
	if got := idAcc.Get().(int64); got != 1 {
		t.Fatalf("result row 0 id = %d, want 1", got)
	}
}
