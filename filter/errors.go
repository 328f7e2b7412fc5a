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

import "errors"

// ErrUnknownColumn is returned when a rule or result description
// entry references a column that does not exist.
var ErrUnknownColumn = errors.New("unknown column")

// ErrBadOperation is a SchemaError: an operation is not meaningful for
// the referenced column's type (e.g. greaterThan on a ByteString
// column, or contains on a numeric column).
var ErrBadOperation = errors.New("operation not valid for column type")

// ErrBadValue is a SchemaError: a numeric rule's comparand could not
// be parsed as a decimal number.
var ErrBadValue = errors.New("comparand could not be parsed")
