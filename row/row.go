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

// Package row implements the movable row cursor: a table, a row
// index, and a set of accessors built once and then re-pointed by
// moving a single index field.
package row

import (
	"fmt"

	"github.com/latticedb/lattice/coltype"
	"github.com/latticedb/lattice/header"
	"github.com/latticedb/lattice/region"
)

// Accessor is a getter/setter pair bound to one column's offset and
// type. Built once per Row; moving Row.Index re-targets every
// accessor without reallocating them.
type Accessor struct {
	col    header.Column
	get    func() any
	setter func(v any)
}

// Get reads the column's current value. Numeric columns return an
// int64 or float32; ByteString columns return a coltype.ByteString
// view for a binary Row, or a decoded string for a non-binary Row.
func (a Accessor) Get() any { return a.get() }

// Type returns the column type this accessor is bound to.
func (a Accessor) Type() coltype.Type { return a.col.Type }

// Name returns the column name this accessor is bound to.
func (a Accessor) Name() string { return a.col.Name }

// Set writes v into the column at the row's current position. Integer
// columns accept an int64, int, int32 or uint32; Float32 columns accept
// a float32 or float64; ByteString columns accept a string, []byte or
// coltype.ByteString. Any other dynamic type panics.
func (a Accessor) Set(v any) { a.setter(v) }

// Row is a movable cursor over a table's region: a pointer at byte
// offset dataLength + index*rowLength, with one Accessor per column
// bound to that pointer.
type Row struct {
	reg       *region.Region
	hdr       *header.Header
	index     uint32
	binary    bool
	accessors []Accessor
	names     map[string]int // name -> index into accessors (== memory order)
}

// New builds a Row over hdr's table, with accessors for every column
// in memory order. If binary is true, ByteString columns yield
// coltype.ByteString views; otherwise they yield decoded strings.
func New(reg *region.Region, hdr *header.Header, index uint32, binary bool) *Row {
	cols := hdr.Columns()
	r := &Row{
		reg:       reg,
		hdr:       hdr,
		index:     index,
		binary:    binary,
		accessors: make([]Accessor, len(cols)),
		names:     make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		r.accessors[i] = r.buildAccessor(c)
		r.names[c.Name] = i
	}
	return r
}

func (r *Row) rowBase() uint32 {
	return r.hdr.DataLength() + r.index*r.hdr.RowLength()
}

func (r *Row) buildAccessor(c header.Column) Accessor {
	col := c // capture by value
	if col.Type == coltype.ByteString {
		if r.binary {
			return Accessor{
				col: col,
				get: func() any {
					mem := r.reg.Bytes()
					return coltype.ReadByteString(mem, r.rowBase()+col.OffsetInRow, col.Size-1)
				},
				setter: func(v any) {
					mem := r.reg.Bytes()
					coltype.WriteByteString(mem, r.rowBase()+col.OffsetInRow, col.Size-1, toBytes(v))
				},
			}
		}
		return Accessor{
			col: col,
			get: func() any {
				mem := r.reg.Bytes()
				return coltype.ReadByteString(mem, r.rowBase()+col.OffsetInRow, col.Size-1).String()
			},
			setter: func(v any) {
				mem := r.reg.Bytes()
				coltype.WriteByteString(mem, r.rowBase()+col.OffsetInRow, col.Size-1, toBytes(v))
			},
		}
	}
	if col.Type == coltype.Float32 {
		return Accessor{
			col: col,
			get: func() any {
				return coltype.ReadFloat32(r.reg.Bytes(), r.rowBase()+col.OffsetInRow)
			},
			setter: func(v any) {
				coltype.WriteFloat32(r.reg.Bytes(), r.rowBase()+col.OffsetInRow, toFloat32(v))
			},
		}
	}
	return Accessor{
		col: col,
		get: func() any {
			return coltype.ReadInt(col.Type, r.reg.Bytes(), r.rowBase()+col.OffsetInRow)
		},
		setter: func(v any) {
			coltype.WriteInt(col.Type, r.reg.Bytes(), r.rowBase()+col.OffsetInRow, toInt64(v))
		},
	}
}

func toBytes(v any) []byte {
	switch x := v.(type) {
	case []byte:
		return x
	case string:
		return []byte(x)
	case coltype.ByteString:
		return x.Bytes()
	default:
		panic(fmt.Sprintf("row: cannot write %T into ByteString column", v))
	}
}

func toFloat32(v any) float32 {
	switch x := v.(type) {
	case float32:
		return x
	case float64:
		return float32(x)
	default:
		panic(fmt.Sprintf("row: cannot write %T into Float32 column", v))
	}
}

func toInt64(v any) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int:
		return int64(x)
	case uint32:
		return int64(x)
	case int32:
		return int64(x)
	default:
		panic(fmt.Sprintf("row: cannot write %T into an integer column", v))
	}
}

// Index returns the row's current position.
func (r *Row) Index() uint32 { return r.index }

// SetIndex moves the cursor to a new row; every accessor observes the
// new row on its next Get/Set, with no reallocation.
func (r *Row) SetIndex(i uint32) { r.index = i }

// Names returns the name -> accessor-index map in memory order.
func (r *Row) Names() map[string]int { return r.names }

// Accessor returns the accessor bound to the named column, addressed
// by name rather than memory position.
func (r *Row) Accessor(name string) (Accessor, bool) {
	i, ok := r.names[name]
	if !ok {
		return Accessor{}, false
	}
	return r.accessors[i], true
}

// Accessors returns all accessors in memory order.
func (r *Row) Accessors() []Accessor { return r.accessors }
