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

// Package coltype defines the closed set of column types a table may
// hold and the little-endian read/write operations for each.
package coltype

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Type is the closed set of primitive column types plus ByteString.
type Type uint8

const (
	Int8 Type = iota
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Float32
	ByteString
)

func (t Type) String() string {
	switch t {
	case Int8:
		return "Int8"
	case Uint8:
		return "Uint8"
	case Int16:
		return "Int16"
	case Uint16:
		return "Uint16"
	case Int32:
		return "Int32"
	case Uint32:
		return "Uint32"
	case Float32:
		return "Float32"
	case ByteString:
		return "ByteString"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Valid reports whether t is a member of the closed type set.
func (t Type) Valid() bool {
	return t <= ByteString
}

// FixedSize returns the on-disk size in bytes for fixed-width types,
// or 0 for ByteString, whose size is the column's declared maxLen.
func (t Type) FixedSize() uint32 {
	switch t {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	default:
		return 0
	}
}

// Align returns the natural alignment, in bytes, of a value of type t.
// ByteString is byte-aligned: it carries its own length prefix and has
// no natural word alignment requirement.
func (t Type) Align() uint32 {
	switch t {
	case Int8, Uint8, ByteString:
		return 1
	case Int16, Uint16:
		return 2
	default:
		return 4
	}
}

// Size returns the on-disk width in bytes for a column of this type
// with the given declared maxLen (only meaningful for ByteString;
// ignored for fixed-width types).
func (t Type) Size(maxLen uint32) uint32 {
	if t == ByteString {
		// one length-prefix byte plus maxLen content bytes.
		return 1 + maxLen
	}
	return t.FixedSize()
}

// ReadInt reads a signed or unsigned integer column at the given byte
// offset within region as an int64. It panics if t is Float32 or
// ByteString; callers route those through ReadFloat32 / ReadByteString.
func ReadInt(t Type, mem []byte, off uint32) int64 {
	switch t {
	case Int8:
		return int64(int8(mem[off]))
	case Uint8:
		return int64(mem[off])
	case Int16:
		return int64(int16(binary.LittleEndian.Uint16(mem[off:])))
	case Uint16:
		return int64(binary.LittleEndian.Uint16(mem[off:]))
	case Int32:
		return int64(int32(binary.LittleEndian.Uint32(mem[off:])))
	case Uint32:
		return int64(binary.LittleEndian.Uint32(mem[off:]))
	default:
		panic(fmt.Sprintf("coltype: ReadInt on %s", t))
	}
}

// WriteInt writes v into a signed or unsigned integer column at off,
// truncating to the column's width.
func WriteInt(t Type, mem []byte, off uint32, v int64) {
	switch t {
	case Int8, Uint8:
		mem[off] = byte(v)
	case Int16, Uint16:
		binary.LittleEndian.PutUint16(mem[off:], uint16(v))
	case Int32, Uint32:
		binary.LittleEndian.PutUint32(mem[off:], uint32(v))
	default:
		panic(fmt.Sprintf("coltype: WriteInt on %s", t))
	}
}

// ReadFloat32 reads an IEEE-754 binary32 column at off.
func ReadFloat32(mem []byte, off uint32) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(mem[off:]))
}

// WriteFloat32 writes v as an IEEE-754 binary32 column at off.
func WriteFloat32(mem []byte, off uint32, v float32) {
	binary.LittleEndian.PutUint32(mem[off:], math.Float32bits(v))
}
