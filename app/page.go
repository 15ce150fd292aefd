package main

import (
	"encoding/binary"
	"fmt"
)

// Page kind bytes, per the on-disk B-tree page header.
const (
	PageKindInteriorIndex byte = 0x02
	PageKindInteriorTable byte = 0x05
	PageKindLeafIndex     byte = 0x0a
	PageKindLeafTable     byte = 0x0d
)

func pageKindName(k byte) string {
	switch k {
	case PageKindInteriorIndex:
		return "interior_index"
	case PageKindInteriorTable:
		return "interior_table"
	case PageKindLeafIndex:
		return "leaf_index"
	case PageKindLeafTable:
		return "leaf_table"
	default:
		return fmt.Sprintf("unknown(0x%02x)", k)
	}
}

func isLeafKind(k byte) bool {
	return k == PageKindLeafIndex || k == PageKindLeafTable
}

// Page is a decoded page header plus the raw buffer and cell pointer
// array. Cells themselves are decoded lazily by cell.go, since this
// reader only ever decodes leaf-table cells.
type Page struct {
	Number           uint32
	Kind             byte
	FirstFreeBlock   uint16
	CellCount        uint16
	CellContentStart uint32
	FragmentedBytes  uint8
	RightMostPointer uint32 // interior pages only
	CellPointers     []uint16
	headerOffset     int // 0, or 100 for page 1
	raw              []byte
}

// parsePage decodes the page header and cell-pointer array for any page
// kind. Interior pages are decoded far enough to be recognised and
// reported (see query.go's "multipage" handling) but this reader never
// follows RightMostPointer or a cell's child-page field.
func parsePage(number uint32, raw []byte) (*Page, error) {
	headerOffset := 0
	if number == 1 {
		headerOffset = fileHeaderSize
	}
	if headerOffset+8 > len(raw) {
		return nil, &DatabaseError{Operation: "parsePage", Err: ErrInsufficientData,
			Context: map[string]interface{}{"page": number}}
	}

	h := raw[headerOffset:]
	kind := h[0]
	switch kind {
	case PageKindInteriorIndex, PageKindInteriorTable, PageKindLeafIndex, PageKindLeafTable:
	default:
		return nil, &DatabaseError{Operation: "parsePage", Err: ErrUnknownPageKind,
			Context: map[string]interface{}{"page": number, "byte": kind}}
	}

	cellContentStart := uint32(binary.BigEndian.Uint16(h[5:7]))
	if cellContentStart == 0 {
		cellContentStart = 65536
	}

	p := &Page{
		Number:           number,
		Kind:             kind,
		FirstFreeBlock:   binary.BigEndian.Uint16(h[1:3]),
		CellCount:        binary.BigEndian.Uint16(h[3:5]),
		CellContentStart: cellContentStart,
		FragmentedBytes:  h[7],
		headerOffset:     headerOffset,
		raw:              raw,
	}

	headerLen := 8
	if kind == PageKindInteriorIndex || kind == PageKindInteriorTable {
		if headerOffset+12 > len(raw) {
			return nil, &DatabaseError{Operation: "parsePage", Err: ErrInsufficientData,
				Context: map[string]interface{}{"page": number}}
		}
		headerLen = 12
		p.RightMostPointer = binary.BigEndian.Uint32(h[8:12])
	}

	pointerStart := headerOffset + headerLen
	pointers := make([]uint16, p.CellCount)
	for i := 0; i < int(p.CellCount); i++ {
		off := pointerStart + i*2
		if off+2 > len(raw) {
			return nil, &DatabaseError{Operation: "parsePage", Err: ErrInsufficientData,
				Context: map[string]interface{}{"page": number, "cellIndex": i}}
		}
		ptr := binary.BigEndian.Uint16(raw[off : off+2])
		if int(ptr) >= len(raw) {
			return nil, &DatabaseError{Operation: "parsePage", Err: ErrInvalidCellPointer,
				Context: map[string]interface{}{"page": number, "cellIndex": i, "pointer": ptr}}
		}
		pointers[i] = ptr
	}
	p.CellPointers = pointers

	return p, nil
}

// IsLeaf reports whether this page is a leaf (table or index) page.
func (p *Page) IsLeaf() bool {
	return isLeafKind(p.Kind)
}

// cellBytes returns the raw bytes of the page starting at the given
// cell pointer, for a cell decoder to consume.
func (p *Page) cellBytes(pointer uint16) []byte {
	return p.raw[pointer:]
}
