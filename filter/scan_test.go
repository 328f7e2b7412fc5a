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
	"sort"
	"testing"

	"github.com/latticedb/lattice/coltype"
	"github.com/latticedb/lattice/header"
	"github.com/latticedb/lattice/region"
	"github.com/latticedb/lattice/row"
	"github.com/latticedb/lattice/table"
)

func newResultTable(t *testing.T, cols []header.ColumnDescriptor) *table.Table {
	t.Helper()
	reg, err := region.New(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := table.EmptyFromColumns(cols, reg)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func collectIDs(t *testing.T, result *table.Table) []uint32 {
	t.Helper()
	var ids []uint32
	err := result.ForEach(func(r *row.Row) error {
		idAcc, _ := r.Accessor("id")
		ids = append(ids, uint32(idAcc.Get().(int64)))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// TestS5ParallelDeterminism runs the same expression against the same
// 1,000-row table with every combination of 1/4/16 workers and
// batch sizes 1/7/128, and checks every run produces the same result
// bag and the same result rowCount, per invariants 7 and 8.
func TestS5ParallelDeterminism(t *testing.T) {
	s4Expr := Expression{
		Mode: DNF,
		Clauses: []Clause{
			{{Field: "id", Op: OpIn, Values: []string{"7", "42", "999", "1000"}}},
		},
	}
	want := []uint32{7, 42, 999}

	for _, workers := range []int{1, 4, 16} {
		for _, batch := range []uint32{1, 7, 128} {
			src := thousandRowTable(t)
			result := newResultTable(t, []header.ColumnDescriptor{
				{Name: "id", Type: coltype.Uint32, ByteSize: 4},
			})
			indices, err := NewIndices()
			if err != nil {
				t.Fatal(err)
			}
			rd := ResultDescription{AsColumn("id", "id")}

			if err := RunParallel(src, result, s4Expr, rd, indices, batch, workers); err != nil {
				t.Fatalf("workers=%d batch=%d: %v", workers, batch, err)
			}
			if got := result.RowCount(); got != uint32(len(want)) {
				t.Fatalf("workers=%d batch=%d: rowCount = %d, want %d", workers, batch, got, len(want))
			}
			got := collectIDs(t, result)
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("workers=%d batch=%d: bag = %v, want %v", workers, batch, got, want)
				}
			}

			src.Destroy()
			result.Destroy()
			indices.Free()
		}
	}
}

// TestS6ResultDescriptionWithRowIndex checks that a RowIndexEntry
// writes the matched row's source index alongside a copied column.
func TestS6ResultDescriptionWithRowIndex(t *testing.T) {
	src := s2s3Table(t)
	defer src.Destroy()

	result := newResultTable(t, []header.ColumnDescriptor{
		{Name: "id", Type: coltype.Uint32, ByteSize: 4},
		{Name: "", Type: coltype.Uint32, ByteSize: 4},
	})
	defer result.Destroy()

	indices, err := NewIndices()
	if err != nil {
		t.Fatal(err)
	}
	defer indices.Free()

	rd := ResultDescription{AsColumn("id", "id"), RowIndexEntry()}
	expr := Expression{Mode: DNF, Clauses: []Clause{{{Field: "id", Op: OpGreaterThanOrEqual, Value: "1"}}}}

	if err := RunParallel(src, result, expr, rd, indices, 1, 4); err != nil {
		t.Fatal(err)
	}
	if result.RowCount() != 3 {
		t.Fatalf("rowCount = %d, want 3", result.RowCount())
	}

	err = result.ForEach(func(r *row.Row) error {
		idAcc, _ := r.Accessor("id")
		rowIdxAcc, _ := r.Accessor("")
		id := uint32(idAcc.Get().(int64))
		rowIdx := uint32(rowIdxAcc.Get().(int64))
		if rowIdx+1 != id {
			t.Fatalf("result row: id=%d sourceIndex=%d, want sourceIndex == id-1", id, rowIdx)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
