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

// Command latticectl drives a table build and parallel filter scan
// from plain JSON inputs, without needing a host program.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/latticedb/lattice/config"
	"github.com/latticedb/lattice/filter"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "scan":
		err = runScan(os.Args[2:])
	case "dump":
		err = runDump(os.Args[2:])
	case "inspect":
		err = runInspect(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "latticectl:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  latticectl scan    -data FILE -filter FILE -result FILE [-config FILE]
  latticectl dump    -data FILE -out FILE
  latticectl inspect -in FILE`)
}

func runScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	dataPath := fs.String("data", "", "dataset JSON file")
	filterPath := fs.String("filter", "", "filter.Expression JSON file")
	resultPath := fs.String("result", "", "filter.ResultDescription JSON file")
	configPath := fs.String("config", "", "coordinator config YAML file (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dataPath == "" || *filterPath == "" || *resultPath == "" {
		return fmt.Errorf("scan: -data, -filter, and -result are required")
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			return err
		}
	}

	ds, err := loadDataset(*dataPath)
	if err != nil {
		return err
	}
	src, err := ds.build()
	if err != nil {
		return err
	}
	defer src.Destroy()

	var expr filter.Expression
	if err := readJSONFile(*filterPath, &expr); err != nil {
		return fmt.Errorf("reading filter: %w", err)
	}
	var rd filter.ResultDescription
	if err := readJSONFile(*resultPath, &rd); err != nil {
		return fmt.Errorf("reading result description: %w", err)
	}

	result, err := resultTableFor(rd, ds)
	if err != nil {
		return err
	}
	defer result.Destroy()

	indices, err := filter.NewIndices()
	if err != nil {
		return err
	}
	defer indices.Free()

	if err := filter.RunParallel(src, result, expr, rd, indices, cfg.RowBatchSize, cfg.Workers); err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	rows, err := dumpRows(result)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func readJSONFile(path string, v any) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, v)
}
