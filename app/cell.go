package main

// Cell is a decoded leaf-table cell: one logical row.
type Cell struct {
	RowID   int64
	Columns []Value
}

// decodeLeafTableCell parses a single cell of a leaf-table page: a
// payload-size varint, a row-id varint, then the record itself. usable
// is the page's usable size (page size minus reserved space), used to
// compute the local-payload threshold below which no overflow page is
// involved.
func decodeLeafTableCell(cellData []byte, usable int, enc TextEncoding) (*Cell, error) {
	payloadSize, n, err := decodeVarint(cellData)
	if err != nil {
		return nil, NewDatabaseError("decodeLeafTableCell", err, map[string]interface{}{"field": "payload_size"})
	}
	rowID, m, err := decodeVarint(cellData[n:])
	if err != nil {
		return nil, NewDatabaseError("decodeLeafTableCell", err, map[string]interface{}{"field": "row_id"})
	}

	if err := checkLocalPayload(payloadSize, usable); err != nil {
		return nil, err
	}

	payloadOffset := n + m
	if payloadOffset+int(payloadSize) > len(cellData) {
		return nil, &DatabaseError{Operation: "decodeLeafTableCell", Err: ErrInsufficientData,
			Context: map[string]interface{}{"need": payloadOffset + int(payloadSize), "got": len(cellData)}}
	}
	payload := cellData[payloadOffset : payloadOffset+int(payloadSize)]

	columns, err := decodeRecord(payload, enc)
	if err != nil {
		return nil, err
	}

	return &Cell{RowID: int64(rowID), Columns: columns}, nil
}

// checkLocalPayload applies the standard table-leaf local-payload
// formula (maxLocal = usable - 35) to decide whether payloadSize fits
// entirely on this page. When it doesn't, the remainder lives on an
// overflow page that this reader does not follow, so it reports
// PayloadSpillageUnsupported instead of reading past the page.
func checkLocalPayload(payloadSize uint64, usable int) error {
	maxLocal := usable - 35
	if maxLocal < 0 {
		maxLocal = 0
	}
	if payloadSize > uint64(maxLocal) {
		return &DatabaseError{Operation: "checkLocalPayload", Err: ErrPayloadSpillage,
			Context: map[string]interface{}{"payloadSize": payloadSize, "maxLocal": maxLocal}}
	}
	return nil
}

// decodeRecord parses a record payload: header_size varint, then
// header_size - len(header_size) bytes of serial-type varints, then the
// column bodies in order.
func decodeRecord(payload []byte, enc TextEncoding) ([]Value, error) {
	headerSize, hn, err := decodeVarint(payload)
	if err != nil {
		return nil, NewDatabaseError("decodeRecord", err, map[string]interface{}{"field": "header_size"})
	}
	if int(headerSize) > len(payload) {
		return nil, &DatabaseError{Operation: "decodeRecord", Err: ErrInsufficientData,
			Context: map[string]interface{}{"headerSize": headerSize, "payloadLen": len(payload)}}
	}

	var serialTypes []uint64
	pos := hn
	for pos < int(headerSize) {
		st, n, err := decodeVarint(payload[pos:])
		if err != nil {
			return nil, NewDatabaseError("decodeRecord", err, map[string]interface{}{"field": "serial_type", "offset": pos})
		}
		serialTypes = append(serialTypes, st)
		pos += n
	}

	values := make([]Value, 0, len(serialTypes))
	bodyPos := int(headerSize)
	for _, st := range serialTypes {
		v, n, err := decodeSerialValue(st, payload[bodyPos:], enc)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		bodyPos += n
	}

	return values, nil
}
