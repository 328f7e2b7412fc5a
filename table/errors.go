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

package table

import "errors"

// ErrBounds is returned by GetRow/GetBinaryRow when i >= rowCount.
var ErrBounds = errors.New("row index out of bounds")

// ErrUseAfterFree is returned when the table handle was already
// destroyed.
var ErrUseAfterFree = errors.New("use of table after destroy")
