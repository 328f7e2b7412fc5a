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

package coltype

// ByteString is a zero-copy view into a fixed-capacity column slot:
// one length-prefix byte followed by maxLen content bytes, the tail
// of which is unspecified past length. A ByteString
// never copies the region it views; callers that need a stable copy
// should call Bytes() into their own buffer.
type ByteString struct {
	mem []byte // the full maxLen-capacity slot, length-prefix excluded
	len uint8
}

// ReadByteString views the ByteString column at byte offset off within
// mem, given the column's declared maxLen.
func ReadByteString(mem []byte, off, maxLen uint32) ByteString {
	n := mem[off]
	return ByteString{mem: mem[off+1 : off+1+maxLen], len: n}
}

// WriteByteString copies v into the column slot at off, truncating to
// maxLen and zero-padding the remainder.
func WriteByteString(mem []byte, off, maxLen uint32, v []byte) {
	n := len(v)
	if uint32(n) > maxLen {
		n = int(maxLen)
	}
	mem[off] = byte(n)
	copy(mem[off+1:off+1+maxLen], v[:n])
	for i := uint32(n); i < maxLen; i++ {
		mem[off+1+i] = 0
	}
}

// Len returns the logical byte length of the view.
func (b ByteString) Len() int { return int(b.len) }

// Bytes returns the logical content of the view. The returned slice
// aliases the backing region; it is invalid once the region is freed.
func (b ByteString) Bytes() []byte { return b.mem[:b.len] }

// String copies the view's content into a new Go string.
func (b ByteString) String() string { return string(b.Bytes()) }

// EqualsCase reports whether b and other are equal under ASCII
// case-folding.
func (b ByteString) EqualsCase(other ByteString) bool {
	if b.len != other.len {
		return false
	}
	return equalFold(b.Bytes(), other.Bytes())
}

// ContainsCase reports whether b contains other as a substring under
// ASCII case-folding.
func (b ByteString) ContainsCase(other ByteString) bool {
	needle := other.Bytes()
	hay := b.Bytes()
	if len(needle) == 0 {
		return true
	}
	if len(needle) > len(hay) {
		return false
	}
	for i := 0; i+len(needle) <= len(hay); i++ {
		if equalFold(hay[i:i+len(needle)], needle) {
			return true
		}
	}
	return false
}

func equalFold(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if foldByte(a[i]) != foldByte(b[i]) {
			return false
		}
	}
	return true
}

func foldByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// FromString builds a ByteString view over a freshly allocated buffer,
// useful for building comparands out of filter-rule literals that do
// not live inside a table region.
func FromString(s string) ByteString {
	b := []byte(s)
	return ByteString{mem: b, len: uint8(clampLen(len(b)))}
}

func clampLen(n int) int {
	if n > 255 {
		return 255
	}
	return n
}
