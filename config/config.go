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

// Package config loads the coordinator-side settings that govern how a
// scan is dispatched: how many workers to run, how wide a batch each
// claims, and whether workers share memory in-process or over a
// cross-process transport.
package config

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Transport selects how a Pool's workers are reached.
type Transport string

const (
	// TransportInProcess runs every worker as a goroutine in the
	// coordinator's own address space (worker.Pool).
	TransportInProcess Transport = "in-process"
	// TransportUnixSocket hands each worker's shared region to a
	// separate OS process over a unix(7) control socket (ipc package).
	TransportUnixSocket Transport = "unix-socket"
)

// Config is the coordinator's scan configuration, loadable from a YAML
// file. latticectl has no flags that override individual fields.
type Config struct {
	// Workers is the pool size: how many workers race on the shared
	// indices cursor during a scan.
	Workers int `json:"workers"`
	// RowBatchSize is the width of the row range each fetch-add claims.
	RowBatchSize uint32 `json:"rowBatchSize"`
	// Transport names in-process goroutines or a cross-process socket
	// pool. Load validates it; latticectl scan runs its workers
	// in-process whatever its value.
	Transport Transport `json:"transport"`
	// SocketPath is the unix socket path workers connect to; only
	// meaningful when Transport is TransportUnixSocket.
	SocketPath string `json:"socketPath,omitempty"`
}

// Default returns the configuration used when no file and no flags
// override it.
func Default() Config {
	return Config{
		Workers:      4,
		RowBatchSize: 128,
		Transport:    TransportInProcess,
	}
}

// Load reads and parses a YAML config file at path, using sigs.k8s.io/yaml
// (which round-trips through encoding/json, so field tags are ordinary
// `json` tags rather than a separate yaml-specific tag set). Fields
// absent from the file keep Default's values.
func Load(path string) (Config, error) {
	cfg := Default()
	buf, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0, got %d", c.Workers)
	}
	if c.RowBatchSize == 0 {
		return fmt.Errorf("rowBatchSize must be > 0")
	}
	switch c.Transport {
	case TransportInProcess:
	case TransportUnixSocket:
		if c.SocketPath == "" {
			return fmt.Errorf("socketPath is required for transport %q", c.Transport)
		}
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
	return nil
}
