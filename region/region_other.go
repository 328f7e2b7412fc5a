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

//go:build !linux && !darwin

package region

import "fmt"

// New allocates a size-byte region backed by a plain Go heap slice.
// It is usable across goroutines in the same process but cannot be
// handed to a separate worker process; only the memfd-backed regions
// of region_shared_linux.go can.
func New(size int) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("region: size must be positive, got %d", size)
	}
	buf := make([]byte, size)
	return &Region{
		buf:     buf,
		address: 0,
		size:    size,
		owner:   &backing{release: func([]byte) error { return nil }},
	}, nil
}
