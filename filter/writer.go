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
	"fmt"

	"github.com/latticedb/lattice/row"
	"github.com/latticedb/lattice/table"
)

// Writer appends one row to a result table per call.
type Writer func(sourceIndex uint32) error

// CompileWriter builds a Writer over result, given src (the source
// row cursor the tester already positions on each candidate row) and
// rd (the result description). The result table must already have
// been created with columns matching every As target, and an
// empty-named u32 column if rd contains a row-index entry.
func CompileWriter(rd ResultDescription, result *table.Table, src *row.Row) (Writer, error) {
	// a result table starts with rowCount 0, so Table.GetBinaryRow's
	// bounds check would reject row 0 before the first AddRows; build
	// the Row directly and let Writer's SetIndex position it once
	// AddRows has reserved a real slot.
	resultRow := row.New(result.Region(), result.Header(), 0, true)

	type fieldWriter func(sourceIndex uint32)
	fields := make([]fieldWriter, 0, len(rd))

	for _, entry := range rd {
		entry := entry
		if entry.As != nil {
			srcAcc, ok := src.Accessor(entry.Column)
			if !ok {
				return nil, fmt.Errorf("%w: result source column %q", ErrUnknownColumn, entry.Column)
			}
			dstAcc, ok := resultRow.Accessor(*entry.As)
			if !ok {
				return nil, fmt.Errorf("%w: result destination column %q", ErrUnknownColumn, *entry.As)
			}
			fields = append(fields, func(uint32) {
				dstAcc.Set(srcAcc.Get())
			})
			continue
		}
		dstAcc, ok := resultRow.Accessor("")
		if !ok {
			return nil, fmt.Errorf("%w: result table has no reserved row-index column", ErrUnknownColumn)
		}
		fields = append(fields, func(sourceIndex uint32) {
			dstAcc.Set(sourceIndex)
		})
	}

	return func(sourceIndex uint32) error {
		old, err := result.AddRows(1)
		if err != nil {
			return err
		}
		resultRow.SetIndex(old)
		for _, f := range fields {
			f(sourceIndex)
		}
		return nil
	}, nil
}
