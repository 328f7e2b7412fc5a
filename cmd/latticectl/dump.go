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
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/latticedb/lattice/region"
	"github.com/latticedb/lattice/table"
)

// runDump builds a table from a dataset file and writes its raw bytes
// to out, zstd-compressed. The resulting file is a standalone on-disk
// snapshot: no separate schema file is needed to read it back, since
// the header preamble is part of the dumped bytes.
func runDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	dataPath := fs.String("data", "", "dataset JSON file")
	outPath := fs.String("out", "", "output .zst file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dataPath == "" || *outPath == "" {
		return fmt.Errorf("dump: -data and -out are required")
	}

	ds, err := loadDataset(*dataPath)
	if err != nil {
		return err
	}
	tbl, err := ds.build()
	if err != nil {
		return err
	}
	defer tbl.Destroy()

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	defer enc.Close()
	compressed := enc.EncodeAll(tbl.Region().Bytes(), nil)

	if err := os.WriteFile(*outPath, compressed, 0o644); err != nil {
		return fmt.Errorf("dump: writing %s: %w", *outPath, err)
	}
	return nil
}

// runInspect decompresses a dump written by runDump and prints its
// schema and row count, without materializing row values.
func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	inPath := fs.String("in", "", "input .zst file written by the dump command")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return fmt.Errorf("inspect: -in is required")
	}

	compressed, err := os.ReadFile(*inPath)
	if err != nil {
		return err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return fmt.Errorf("inspect: decompressing %s: %w", *inPath, err)
	}

	reg := region.FromBytes(raw)
	tbl, err := table.New(reg)
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}

	type columnInfo struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	cols := make([]columnInfo, 0, len(tbl.Header().Columns()))
	for _, c := range tbl.Header().OriginalOrder() {
		cols = append(cols, columnInfo{Name: c.Name, Type: c.Type.String()})
	}

	summary := struct {
		RowCount uint32       `json:"rowCount"`
		Columns  []columnInfo `json:"columns"`
	}{
		RowCount: tbl.RowCount(),
		Columns:  cols,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
