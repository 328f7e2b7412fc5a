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

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lattice.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeTemp(t, "workers: 8\nrowBatchSize: 256\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != 8 || cfg.RowBatchSize != 256 {
		t.Fatalf("got %+v, want workers=8 rowBatchSize=256", cfg)
	}
	if cfg.Transport != TransportInProcess {
		t.Fatalf("transport = %q, want default in-process", cfg.Transport)
	}
}

func TestLoadRejectsMissingSocketPath(t *testing.T) {
	path := writeTemp(t, "transport: unix-socket\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for unix-socket transport without socketPath")
	}
}

func TestLoadRejectsUnknownTransport(t *testing.T) {
	path := writeTemp(t, "transport: carrier-pigeon\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unknown transport")
	}
}
