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
	"sync"

	"github.com/latticedb/lattice/region"
	"github.com/latticedb/lattice/row"
	"github.com/latticedb/lattice/table"
)

// offIndicesCursor is the byte offset of the shared u32 cursor within
// an indices region. The region must be at least two u32s wide; the
// second word is reserved for a future generation counter and is
// never touched by the scan loop.
const offIndicesCursor = 0

// indicesRegionSize is the minimum size of a region usable as an
// indices cursor.
const indicesRegionSize = 8

// NewIndices allocates a fresh indices region with its cursor at 0.
func NewIndices() (*region.Region, error) {
	return region.New(indicesRegionSize)
}

// ResetIndices rewinds an indices region's cursor to 0, so it can be
// reused for another RunParallel pass over the same or a different
// source table rather than allocating a fresh region per scan.
func ResetIndices(cursor *region.Region) {
	cursor.AtomicStoreU32(offIndicesCursor, 0)
}

// Scan runs one worker's share of the batched scan against src, a row
// cursor bound to the table being filtered. It races every other
// worker sharing cursor on an atomic fetch-add, claiming row ranges of
// width batchSize until a claim starts at or past rowCount.
//
// src, test, and write must not be shared with any other goroutine:
// each worker needs its own Row (so SetIndex calls don't race) and its
// own compiled tester/writer closures bound to that Row.
func Scan(src *row.Row, rowCount uint32, cursor *region.Region, batchSize uint32, test func() bool, write Writer) error {
	if batchSize == 0 {
		return fmt.Errorf("filter: rowBatchSize must be > 0")
	}
	for {
		i := cursor.AtomicAddU32(offIndicesCursor, batchSize)
		if i >= rowCount {
			return nil
		}
		n := i + batchSize
		if n > rowCount {
			n = rowCount
		}
		for r := i; r < n; r++ {
			src.SetIndex(r)
			if test() {
				if err := write(r); err != nil {
					return err
				}
			}
		}
	}
}

// RunParallel drives numWorkers goroutines over src, each compiling
// its own tester and writer bound to a private row cursor, all racing
// on a shared indices cursor to partition src's rows. Matches are
// appended to result, which must already carry the columns rd writes
// into. The result row bag is independent of numWorkers and
// batchSize; row order within it is not.
func RunParallel(src *table.Table, result *table.Table, expr Expression, rd ResultDescription, indices *region.Region, batchSize uint32, numWorkers int) error {
	if numWorkers <= 0 {
		return fmt.Errorf("filter: numWorkers must be > 0")
	}
	ResetIndices(indices)
	rowCount := src.RowCount()

	var wg sync.WaitGroup
	errs := make([]error, numWorkers)
	for w := 0; w < numWorkers; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			srcRow := row.New(src.Region(), src.Header(), 0, true)
			test, err := Compile(expr, srcRow)
			if err != nil {
				errs[w] = err
				return
			}
			write, err := CompileWriter(rd, result, srcRow)
			if err != nil {
				errs[w] = err
				return
			}
			errs[w] = Scan(srcRow, rowCount, indices, batchSize, test, write)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
