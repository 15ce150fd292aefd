package main

import (
	"encoding/binary"
)

// This file builds small synthetic database byte buffers for tests,
// rather than shipping a binary .db fixture alongside the source.

const testPageSize = 4096

// chooseIntSerialType picks Zero, One, I8 or I16 when v fits one of
// them and falls back to I64 for anything wider; I24, I32 and I48 are
// never chosen.
func chooseIntSerialType(v int64) (uint64, []byte) {
	switch {
	case v == 0:
		return 8, nil
	case v == 1:
		return 9, nil
	case v >= -128 && v <= 127:
		return 1, []byte{byte(int8(v))}
	case v >= -32768 && v <= 32767:
		b := make([]byte, 2)
		binary.BigEndian.PutUint16(b, uint16(int16(v)))
		return 2, b
	default:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, uint64(v))
		return 6, b
	}
}

// testRecordValue is the input shape for building a fixture row; exactly
// one of the fields is meaningful depending on kind.
type testRecordValue struct {
	kind ValueKind
	i    int64
	s    string
}

func intVal(v int64) testRecordValue  { return testRecordValue{kind: KindInt, i: v} }
func textVal(s string) testRecordValue { return testRecordValue{kind: KindText, s: s} }

// encodeTestRecord builds a record payload (header_size + serial types +
// bodies) from a list of column values, mirroring §4 of the on-disk format.
func encodeTestRecord(values []testRecordValue) []byte {
	var serialTypes []uint64
	var bodies [][]byte

	for _, v := range values {
		switch v.kind {
		case KindInt:
			st, body := chooseIntSerialType(v.i)
			serialTypes = append(serialTypes, st)
			bodies = append(bodies, body)
		case KindText:
			b := []byte(v.s)
			serialTypes = append(serialTypes, uint64(13+2*len(b)))
			bodies = append(bodies, b)
		default:
			serialTypes = append(serialTypes, 0)
			bodies = append(bodies, nil)
		}
	}

	var headerRest []byte
	for _, st := range serialTypes {
		headerRest = append(headerRest, encodeVarint(st)...)
	}

	// header_size includes its own varint length; try increasing
	// lengths until the varint encoding of the total is stable.
	headerSizeVal := uint64(len(headerRest) + 1)
	headerSizeBytes := encodeVarint(headerSizeVal)
	for len(headerSizeBytes)+len(headerRest) != int(headerSizeVal) {
		headerSizeVal = uint64(len(headerRest) + len(headerSizeBytes))
		headerSizeBytes = encodeVarint(headerSizeVal)
	}

	payload := append([]byte{}, headerSizeBytes...)
	payload = append(payload, headerRest...)
	for _, b := range bodies {
		payload = append(payload, b...)
	}
	return payload
}

// encodeTestLeafCell builds a full leaf-table cell: payload_size,
// row_id, payload.
func encodeTestLeafCell(rowID int64, values []testRecordValue) []byte {
	payload := encodeTestRecord(values)
	cell := append([]byte{}, encodeVarint(uint64(len(payload)))...)
	cell = append(cell, encodeVarint(uint64(rowID))...)
	cell = append(cell, payload...)
	return cell
}

// buildLeafTablePage lays out cells sequentially after the cell-pointer
// array (this reader never validates cell placement against
// cell_content_start beyond bounds, so a simple forward layout is fine
// for tests).
func buildLeafTablePage(pageNumber uint32, cells [][]byte) []byte {
	headerOffset := 0
	if pageNumber == 1 {
		headerOffset = fileHeaderSize
	}
	buf := make([]byte, testPageSize)

	buf[headerOffset] = PageKindLeafTable
	binary.BigEndian.PutUint16(buf[headerOffset+3:], uint16(len(cells)))
	// cell_content_start and first_free_block are left as zero; this
	// reader does not depend on them for correctness of cell decoding.

	pointerStart := headerOffset + 8
	cellStart := pointerStart + 2*len(cells)
	for i, cell := range cells {
		copy(buf[cellStart:], cell)
		binary.BigEndian.PutUint16(buf[pointerStart+2*i:], uint16(cellStart))
		cellStart += len(cell)
	}

	return buf
}

// buildFixtureDB assembles a 2-page database: page 1 is the schema
// table listing a single user table "apples" rooted at page 2; page 2
// holds three rows matching the spec's concrete test scenarios.
func buildFixtureDB() []byte {
	createSQL := "CREATE TABLE apples\n(\n\tid integer primary key,\n\tname text,\n\tcolor text\n)"

	schemaCell := encodeTestLeafCell(1, []testRecordValue{
		textVal("table"),
		textVal("apples"),
		textVal("apples"),
		intVal(2),
		textVal(createSQL),
	})
	page1 := buildLeafTablePage(1, [][]byte{schemaCell})

	copy(page1[0:16], []byte("SQLite format 3\x00"))
	binary.BigEndian.PutUint16(page1[16:18], uint16(testPageSize))
	page1[20] = 0 // reserved space
	binary.BigEndian.PutUint32(page1[28:32], 2)
	binary.BigEndian.PutUint32(page1[56:60], uint32(TextEncodingUTF8))

	rows := [][]testRecordValue{
		{intVal(1), textVal("Granny Smith"), textVal("Light Green")},
		{intVal(2), textVal("Fuji"), textVal("Red")},
		{intVal(3), textVal("Honeycrisp"), textVal("Blush Red")},
	}
	var cells [][]byte
	for i, row := range rows {
		cells = append(cells, encodeTestLeafCell(int64(i+1), row))
	}
	page2 := buildLeafTablePage(2, cells)

	out := make([]byte, 0, len(page1)+len(page2))
	out = append(out, page1...)
	out = append(out, page2...)
	return out
}
