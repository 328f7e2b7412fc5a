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

// Package header encodes and interprets the self-describing preamble
// that sits at the start of every table region: column schema, row
// stride, column offsets, and an atomically-mutated row count.
package header

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/latticedb/lattice/coltype"
	"github.com/latticedb/lattice/region"
)

// magic spells out "LBTL" in the little-endian bytes of the header's
// first four bytes; chosen so a header is recognizable at a glance
// and cannot be confused for a zero-filled or foreign region, in the
// same spirit as tnproto's headerMagic.
const magic uint32 = 0x4c54424c

const version uint32 = 1

// preamble layout, all u32, little-endian.
const (
	offMagic       = 0
	offVersion     = 4
	offRowCount    = 8 // mutated atomically; all other fields are immutable
	offRowLength   = 12
	offDataLength  = 16
	offColumnCount = 20
	preambleSize   = 24
)

// columnRecordSize is the on-disk width of one column record:
// nameOffset(4) + type(1) + pad(3) + size(4) + offsetInRow(4) + originalIndex(4).
const columnRecordSize = 20

const (
	recNameOffset     = 0
	recType           = 4
	recSize           = 8
	recOffsetInRow    = 12
	recOriginalIndex  = 16
)

// ColumnDescriptor is the caller-supplied, original-order description
// of a single column.
type ColumnDescriptor struct {
	Name     string
	Type     coltype.Type
	ByteSize uint32 // maxLen for ByteString; ignored for fixed-width types
}

// Column is one column record as laid out in memory order, carrying
// enough information to recover both orderings.
type Column struct {
	Name          string
	Type          coltype.Type
	Size          uint32 // on-disk width, see coltype.Type.Size
	OffsetInRow   uint32
	OriginalIndex uint32
}

// Header is the parsed view of a table's preamble, backed by a
// region.Region. The immutable fields (row stride, data length, column
// records) are parsed once at construction; RowCount and AddRows read
// the live rowCount field with atomic ops since it may be mutated
// concurrently by scanning workers.
type Header struct {
	reg         *region.Region
	rowLength   uint32
	dataLength  uint32
	columnCount uint32
	columns     []Column // memory order
	byName      map[string]int
}

// BinaryFromColumns lays out columns in memory order — sorted by
// descending alignment, ties broken by original order, which is a
// simple and deterministic way to minimize inter-column padding — and
// returns the encoded header byte image. The image's rowCount is 0;
// EmptyFromBinaryHeader (or New, after copying it into a region) makes
// it live.
func BinaryFromColumns(columns []ColumnDescriptor) ([]byte, error) {
	if err := validateNames(columns); err != nil {
		return nil, err
	}
	memOrder := make([]int, len(columns))
	for i := range memOrder {
		memOrder[i] = i
	}
	slices.SortStableFunc(memOrder, func(a, b int) bool {
		return columns[a].Type.Align() > columns[b].Type.Align()
	})

	laidOut := make([]Column, len(columns))
	var rowOff uint32
	for memIdx, origIdx := range memOrder {
		cd := columns[origIdx]
		size := cd.Type.Size(cd.ByteSize)
		align := cd.Type.Align()
		rowOff = alignUp(rowOff, align)
		laidOut[memIdx] = Column{
			Name:          cd.Name,
			Type:          cd.Type,
			Size:          size,
			OffsetInRow:   rowOff,
			OriginalIndex: uint32(origIdx),
		}
		rowOff += size
	}
	return buildBinaryHeader(laidOut, rowOff)
}

// BuildBinaryHeader builds a header byte image from an already
// laid-out column list (memory order, offsets and original indices
// already assigned by the caller) plus the row stride it implies.
func BuildBinaryHeader(columns []Column, rowLength uint32) ([]byte, error) {
	dup := append([]Column(nil), columns...)
	return buildBinaryHeader(dup, rowLength)
}

func buildBinaryHeader(columns []Column, rowLength uint32) ([]byte, error) {
	// string blob: length-prefixed (u16), no trailing NUL.
	var blob []byte
	nameOffsets := make([]uint32, len(columns))
	for i, c := range columns {
		nameOffsets[i] = uint32(len(blob))
		if len(c.Name) > 0xffff {
			return nil, fmt.Errorf("header: column name %q too long", c.Name)
		}
		var lenBuf [2]byte
		binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(c.Name)))
		blob = append(blob, lenBuf[:]...)
		blob = append(blob, c.Name...)
	}

	dataLength := uint32(preambleSize) + uint32(len(columns))*columnRecordSize + uint32(len(blob))

	out := make([]byte, dataLength)
	binary.LittleEndian.PutUint32(out[offMagic:], magic)
	binary.LittleEndian.PutUint32(out[offVersion:], version)
	binary.LittleEndian.PutUint32(out[offRowCount:], 0)
	binary.LittleEndian.PutUint32(out[offRowLength:], rowLength)
	binary.LittleEndian.PutUint32(out[offDataLength:], dataLength)
	binary.LittleEndian.PutUint32(out[offColumnCount:], uint32(len(columns)))

	recBase := preambleSize
	for i, c := range columns {
		rec := out[recBase+i*columnRecordSize:]
		// nameOffset is relative to the start of the string blob.
		binary.LittleEndian.PutUint32(rec[recNameOffset:], nameOffsets[i])
		rec[recType] = byte(c.Type)
		binary.LittleEndian.PutUint32(rec[recSize:], c.Size)
		binary.LittleEndian.PutUint32(rec[recOffsetInRow:], c.OffsetInRow)
		binary.LittleEndian.PutUint32(rec[recOriginalIndex:], c.OriginalIndex)
	}
	copy(out[recBase+len(columns)*columnRecordSize:], blob)
	return out, nil
}

func alignUp(off, align uint32) uint32 {
	if align <= 1 {
		return off
	}
	rem := off % align
	if rem == 0 {
		return off
	}
	return off + (align - rem)
}

func validateNames(columns []ColumnDescriptor) error {
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if !c.Type.Valid() {
			return fmt.Errorf("header: column %q has invalid type %d", c.Name, c.Type)
		}
		if seen[c.Name] {
			return fmt.Errorf("header: duplicate column name %q", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// EmptyFromBinaryHeader copies the header byte image bytes to the
// start of reg and returns the parsed Header with rowCount 0. reg must
// be at least len(bytes) in size.
func EmptyFromBinaryHeader(bytes []byte, reg *region.Region) (*Header, error) {
	if reg.Size() < len(bytes) {
		return nil, fmt.Errorf("header: region of size %d too small for header of size %d", reg.Size(), len(bytes))
	}
	copy(reg.Bytes(), bytes)
	return New(reg)
}

// New interprets an existing header already written at the start of
// reg.
func New(reg *region.Region) (*Header, error) {
	buf := reg.Bytes()
	if len(buf) < preambleSize {
		return nil, fmt.Errorf("header: region too small for preamble")
	}
	if got := reg.U32(offMagic); got != magic {
		return nil, fmt.Errorf("header: bad magic %#x", got)
	}
	if got := reg.U32(offVersion); got != version {
		return nil, fmt.Errorf("header: unsupported version %d", got)
	}
	rowLength := reg.U32(offRowLength)
	dataLength := reg.U32(offDataLength)
	columnCount := reg.U32(offColumnCount)
	if int(dataLength) > len(buf) {
		return nil, fmt.Errorf("header: dataLength %d exceeds region size %d", dataLength, len(buf))
	}

	recBase := preambleSize
	need := recBase + int(columnCount)*columnRecordSize
	if need > len(buf) {
		return nil, fmt.Errorf("header: column records exceed region size")
	}
	blob := buf[need:dataLength]

	columns := make([]Column, columnCount)
	byName := make(map[string]int, columnCount)
	for i := 0; i < int(columnCount); i++ {
		rec := buf[recBase+i*columnRecordSize:]
		nameOff := binary.LittleEndian.Uint32(rec[recNameOffset:])
		name, err := readName(blob, nameOff)
		if err != nil {
			return nil, err
		}
		columns[i] = Column{
			Name:          name,
			Type:          coltype.Type(rec[recType]),
			Size:          binary.LittleEndian.Uint32(rec[recSize:]),
			OffsetInRow:   binary.LittleEndian.Uint32(rec[recOffsetInRow:]),
			OriginalIndex: binary.LittleEndian.Uint32(rec[recOriginalIndex:]),
		}
		byName[name] = i
	}

	return &Header{
		reg:         reg,
		rowLength:   rowLength,
		dataLength:  dataLength,
		columnCount: columnCount,
		columns:     columns,
		byName:      byName,
	}, nil
}

func readName(blob []byte, off uint32) (string, error) {
	if int(off)+2 > len(blob) {
		return "", fmt.Errorf("header: name offset %d out of range", off)
	}
	n := binary.LittleEndian.Uint16(blob[off:])
	start := int(off) + 2
	end := start + int(n)
	if end > len(blob) {
		return "", fmt.Errorf("header: name length %d out of range at offset %d", n, off)
	}
	return string(blob[start:end]), nil
}

// RowCount atomically loads the current row count.
func (h *Header) RowCount() uint32 {
	return h.reg.AtomicLoadU32(offRowCount)
}

// AddRows atomically reserves n additional rows and returns the prior
// row count; the caller owns rows [old, old+n). Returns ErrCapacity if
// the reservation would overflow the backing region.
func (h *Header) AddRows(n uint32) (uint32, error) {
	old := h.reg.AtomicAddU32(offRowCount, n)
	needBytes := uint64(h.dataLength) + uint64(old+n)*uint64(h.rowLength)
	if needBytes > uint64(h.reg.Size()) {
		return old, fmt.Errorf("header: %w: row range [%d,%d) needs %d bytes, region has %d", ErrCapacity, old, old+n, needBytes, h.reg.Size())
	}
	return old, nil
}

// RowLength returns the fixed byte stride between consecutive rows.
func (h *Header) RowLength() uint32 { return h.rowLength }

// DataLength returns the byte offset of the first row.
func (h *Header) DataLength() uint32 { return h.dataLength }

// Region returns the backing region.
func (h *Header) Region() *region.Region { return h.reg }

// Columns returns the columns in memory order. The returned slice must
// not be mutated.
func (h *Header) Columns() []Column { return h.columns }

// ColumnByName looks up a column by name rather than memory position,
// insulating callers from the memory-order layout chosen internally.
func (h *Header) ColumnByName(name string) (Column, bool) {
	i, ok := h.byName[name]
	if !ok {
		return Column{}, false
	}
	return h.columns[i], true
}

// OriginalOrder returns the columns sorted back into the order the
// caller originally supplied them in.
func (h *Header) OriginalOrder() []Column {
	out := append([]Column(nil), h.columns...)
	slices.SortFunc(out, func(a, b Column) bool { return a.OriginalIndex < b.OriginalIndex })
	return out
}
