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

// Package table composes header.Header with a region.Region into the
// table abstraction: row creation, growth, and iteration.
package table

import (
	"fmt"

	"github.com/latticedb/lattice/header"
	"github.com/latticedb/lattice/region"
	"github.com/latticedb/lattice/row"
)

// Table is a Header bound to its backing region, with Row reuse for
// iteration.
type Table struct {
	reg *region.Region
	hdr *header.Header

	cachedRow       *row.Row
	cachedBinaryRow *row.Row

	destroyed bool
}

// New interprets an existing header at the start of reg.
func New(reg *region.Region) (*Table, error) {
	hdr, err := header.New(reg)
	if err != nil {
		return nil, err
	}
	return &Table{reg: reg, hdr: hdr}, nil
}

// EmptyFromColumns lays out a fresh header for columns inside reg and
// returns a Table with rowCount 0.
func EmptyFromColumns(columns []header.ColumnDescriptor, reg *region.Region) (*Table, error) {
	img, err := header.BinaryFromColumns(columns)
	if err != nil {
		return nil, err
	}
	return EmptyFromBinaryHeader(img, reg)
}

// EmptyFromHeader adopts an already-constructed Header (e.g. one built
// with header.BuildBinaryHeader and then EmptyFromBinaryHeader'd) as a
// Table.
func EmptyFromHeader(hdr *header.Header) *Table {
	return &Table{reg: hdr.Region(), hdr: hdr}
}

// EmptyFromBinaryHeader stamps a pre-built header image into reg and
// returns a Table with rowCount 0.
func EmptyFromBinaryHeader(img []byte, reg *region.Region) (*Table, error) {
	hdr, err := header.EmptyFromBinaryHeader(img, reg)
	if err != nil {
		return nil, err
	}
	return &Table{reg: reg, hdr: hdr}, nil
}

// Header returns the table's parsed header.
func (t *Table) Header() *header.Header { return t.hdr }

// Region returns the table's backing region.
func (t *Table) Region() *region.Region { return t.reg }

// RowCount returns the current row count.
func (t *Table) RowCount() uint32 { return t.hdr.RowCount() }

// AddRows reserves n additional rows atomically and returns the prior
// count.
func (t *Table) AddRows(n uint32) (uint32, error) {
	if t.destroyed {
		return 0, ErrUseAfterFree
	}
	return t.hdr.AddRows(n)
}

// GetRow returns a string-decoding Row positioned at i, reusing a
// single cached Row object across calls: ordered iteration reuses a
// single Row, which is mutated in place rather than reallocated.
func (t *Table) GetRow(i uint32) (*row.Row, error) {
	if err := t.checkBounds(i); err != nil {
		return nil, err
	}
	if t.cachedRow == nil {
		t.cachedRow = row.New(t.reg, t.hdr, i, false)
	} else {
		t.cachedRow.SetIndex(i)
	}
	return t.cachedRow, nil
}

// GetBinaryRow is like GetRow but yields coltype.ByteString views for
// text columns instead of decoded strings.
func (t *Table) GetBinaryRow(i uint32) (*row.Row, error) {
	if err := t.checkBounds(i); err != nil {
		return nil, err
	}
	if t.cachedBinaryRow == nil {
		t.cachedBinaryRow = row.New(t.reg, t.hdr, i, true)
	} else {
		t.cachedBinaryRow.SetIndex(i)
	}
	return t.cachedBinaryRow, nil
}

func (t *Table) checkBounds(i uint32) error {
	if t.destroyed {
		return ErrUseAfterFree
	}
	if i >= t.hdr.RowCount() {
		return fmt.Errorf("%w: row %d, rowCount %d", ErrBounds, i, t.hdr.RowCount())
	}
	return nil
}

// ForEach visits every row in order [0, RowCount), reusing a single
// binary Row across calls — the yielded row is mutated in place on
// every call to f, so callers must not retain it past the iteration.
func (t *Table) ForEach(f func(r *row.Row) error) error {
	n := t.RowCount()
	for i := uint32(0); i < n; i++ {
		r, err := t.GetBinaryRow(i)
		if err != nil {
			return err
		}
		if err := f(r); err != nil {
			return err
		}
	}
	return nil
}

// Destroy releases the backing region. Using the Table, or any Row or
// ByteString obtained from it, afterward is undefined; Destroy is
// terminal and idempotent.
func (t *Table) Destroy() error {
	if t.destroyed {
		return nil
	}
	t.destroyed = true
	t.cachedRow = nil
	t.cachedBinaryRow = nil
	return t.reg.Free()
}
