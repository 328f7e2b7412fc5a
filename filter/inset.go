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
	"encoding/binary"
	"math"

	"github.com/dchest/siphash"

	"github.com/latticedb/lattice/coltype"
)

// hashThreshold is the in/notIn array length at or above which the compiler
// switches from a linear short-circuit scan to a siphash-keyed bucket
// map. Below it, building a map is pure overhead next to a handful of
// branch-predicted comparisons.
const hashThreshold = 8

// textSet is a compiled comparand set for string in/notIn rules.
type textSet struct {
	list    []coltype.ByteString
	buckets map[uint64][]coltype.ByteString
}

func newTextSet(values []string) *textSet {
	items := make([]coltype.ByteString, len(values))
	for i, v := range values {
		items[i] = coltype.FromString(v)
	}
	if len(items) < hashThreshold {
		return &textSet{list: items}
	}
	buckets := make(map[uint64][]coltype.ByteString, len(items))
	for _, it := range items {
		h := siphashBytes(foldASCII(it.Bytes()))
		buckets[h] = append(buckets[h], it)
	}
	return &textSet{buckets: buckets}
}

// contains reports whether v case-insensitively equals any member.
func (s *textSet) contains(v coltype.ByteString) bool {
	if s.buckets == nil {
		for _, it := range s.list {
			if v.EqualsCase(it) {
				return true
			}
		}
		return false
	}
	h := siphashBytes(foldASCII(v.Bytes()))
	for _, it := range s.buckets[h] {
		if v.EqualsCase(it) {
			return true
		}
	}
	return false
}

// numSet is a compiled comparand set for numeric in/notIn rules.
type numSet struct {
	list    []float64
	buckets map[uint64][]float64
}

func newNumSet(values []float64) *numSet {
	if len(values) < hashThreshold {
		return &numSet{list: append([]float64(nil), values...)}
	}
	buckets := make(map[uint64][]float64, len(values))
	for _, v := range values {
		h := siphashFloat(v)
		buckets[h] = append(buckets[h], v)
	}
	return &numSet{buckets: buckets}
}

func (s *numSet) contains(v float64) bool {
	if s.buckets == nil {
		for _, it := range s.list {
			if it == v {
				return true
			}
		}
		return false
	}
	h := siphashFloat(v)
	for _, it := range s.buckets[h] {
		if it == v {
			return true
		}
	}
	return false
}

func siphashFloat(v float64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	return siphashBytes(buf[:])
}

func siphashBytes(b []byte) uint64 {
	return siphash.Hash(0, 0, b)
}

func foldASCII(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return out
}
