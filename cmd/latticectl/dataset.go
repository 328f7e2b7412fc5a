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

package main

import (
	"fmt"

	"github.com/latticedb/lattice/coltype"
	"github.com/latticedb/lattice/filter"
	"github.com/latticedb/lattice/header"
	"github.com/latticedb/lattice/region"
	"github.com/latticedb/lattice/row"
	"github.com/latticedb/lattice/table"
)

// datasetColumn is one entry of a dataset file's "columns" array.
type datasetColumn struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ByteSize uint32 `json:"byteSize,omitempty"`
}

// dataset is the on-disk JSON shape latticectl reads: a column schema
// plus row values keyed by column name.
type dataset struct {
	Columns []datasetColumn  `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

func loadDataset(path string) (*dataset, error) {
	var ds dataset
	if err := readJSONFile(path, &ds); err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	return &ds, nil
}

func parseType(s string) (coltype.Type, error) {
	switch s {
	case "Int8":
		return coltype.Int8, nil
	case "Uint8":
		return coltype.Uint8, nil
	case "Int16":
		return coltype.Int16, nil
	case "Uint16":
		return coltype.Uint16, nil
	case "Int32":
		return coltype.Int32, nil
	case "Uint32":
		return coltype.Uint32, nil
	case "Float32":
		return coltype.Float32, nil
	case "ByteString":
		return coltype.ByteString, nil
	default:
		return 0, fmt.Errorf("dataset: unknown column type %q", s)
	}
}

func (ds *dataset) columnDescriptors() ([]header.ColumnDescriptor, error) {
	out := make([]header.ColumnDescriptor, len(ds.Columns))
	for i, c := range ds.Columns {
		t, err := parseType(c.Type)
		if err != nil {
			return nil, err
		}
		out[i] = header.ColumnDescriptor{Name: c.Name, Type: t, ByteSize: c.ByteSize}
	}
	return out, nil
}

// build lays out a table sized exactly for ds's rows and populates it.
func (ds *dataset) build() (*table.Table, error) {
	cols, err := ds.columnDescriptors()
	if err != nil {
		return nil, err
	}
	img, err := header.BinaryFromColumns(cols)
	if err != nil {
		return nil, fmt.Errorf("dataset: laying out header: %w", err)
	}

	rowLength, err := rowLengthOf(img)
	if err != nil {
		return nil, err
	}
	size := len(img) + len(ds.Rows)*int(rowLength)
	reg, err := region.New(size)
	if err != nil {
		return nil, fmt.Errorf("dataset: allocating region: %w", err)
	}
	tbl, err := table.EmptyFromBinaryHeader(img, reg)
	if err != nil {
		reg.Free()
		return nil, err
	}

	if _, err := tbl.AddRows(uint32(len(ds.Rows))); err != nil {
		tbl.Destroy()
		return nil, err
	}
	for i, rowVals := range ds.Rows {
		r, err := tbl.GetRow(uint32(i))
		if err != nil {
			tbl.Destroy()
			return nil, err
		}
		if err := setRowValues(r.Accessors(), rowVals); err != nil {
			tbl.Destroy()
			return nil, fmt.Errorf("dataset: row %d: %w", i, err)
		}
	}
	return tbl, nil
}

func setRowValues(accessors []row.Accessor, vals map[string]any) error {
	for _, acc := range accessors {
		v, ok := vals[acc.Name()]
		if !ok {
			continue
		}
		if acc.Type() == coltype.ByteString {
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("column %q: expected a string, got %T", acc.Name(), v)
			}
			acc.Set(s)
			continue
		}
		f, ok := v.(float64)
		if !ok {
			return fmt.Errorf("column %q: expected a number, got %T", acc.Name(), v)
		}
		if acc.Type() == coltype.Float32 {
			acc.Set(f)
		} else {
			acc.Set(int64(f))
		}
	}
	return nil
}

func rowLengthOf(headerImage []byte) (uint32, error) {
	reg := region.FromBytes(headerImage)
	hdr, err := header.New(reg)
	if err != nil {
		return 0, err
	}
	return hdr.RowLength(), nil
}

// resultTableFor lays out a result table wide enough for rd: one
// column per As target (same type as its source column), plus a
// reserved empty-named Uint32 column if rd asks for row indices.
func resultTableFor(rd filter.ResultDescription, ds *dataset) (*table.Table, error) {
	byName := make(map[string]datasetColumn, len(ds.Columns))
	for _, c := range ds.Columns {
		byName[c.Name] = c
	}

	var cols []header.ColumnDescriptor
	for _, entry := range rd {
		if entry.As == nil {
			cols = append(cols, header.ColumnDescriptor{Name: "", Type: coltype.Uint32})
			continue
		}
		src, ok := byName[entry.Column]
		if !ok {
			return nil, fmt.Errorf("result description: unknown source column %q", entry.Column)
		}
		t, err := parseType(src.Type)
		if err != nil {
			return nil, err
		}
		cols = append(cols, header.ColumnDescriptor{Name: *entry.As, Type: t, ByteSize: src.ByteSize})
	}

	img, err := header.BinaryFromColumns(cols)
	if err != nil {
		return nil, fmt.Errorf("result table: laying out header: %w", err)
	}
	rowLength, err := rowLengthOf(img)
	if err != nil {
		return nil, err
	}
	// a scan may match every source row; size generously for the worst case.
	size := len(img) + len(ds.Rows)*int(rowLength)
	reg, err := region.New(size)
	if err != nil {
		return nil, fmt.Errorf("result table: allocating region: %w", err)
	}
	tbl, err := table.EmptyFromBinaryHeader(img, reg)
	if err != nil {
		reg.Free()
		return nil, err
	}
	return tbl, nil
}

// dumpRows renders every row of tbl as a JSON-friendly map keyed by
// column name.
func dumpRows(tbl *table.Table) ([]map[string]any, error) {
	out := make([]map[string]any, 0, tbl.RowCount())
	err := tbl.ForEach(func(r *row.Row) error {
		vals := make(map[string]any, len(r.Accessors()))
		for _, acc := range r.Accessors() {
			if bs, ok := acc.Get().(coltype.ByteString); ok {
				vals[acc.Name()] = bs.String()
			} else {
				vals[acc.Name()] = acc.Get()
			}
		}
		out = append(out, vals)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
