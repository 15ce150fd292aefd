package main

import (
	"encoding/binary"
	"fmt"
)

const fileHeaderSize = 100

var expectedMagic = []byte("SQLite format 3\x00")

// TextEncoding identifies how TEXT payload bytes are stored on disk.
type TextEncoding uint32

const (
	TextEncodingUTF8    TextEncoding = 1
	TextEncodingUTF16LE TextEncoding = 2
	TextEncodingUTF16BE TextEncoding = 3
)

func (e TextEncoding) String() string {
	switch e {
	case TextEncodingUTF8:
		return "utf-8"
	case TextEncodingUTF16LE:
		return "utf-16le"
	case TextEncodingUTF16BE:
		return "utf-16be"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(e))
	}
}

// FileHeader is the fixed 100-byte prefix of a database file.
type FileHeader struct {
	PageSize             uint32
	ReservedSpace        uint8
	TextEncoding         TextEncoding
	DatabaseSizeInPages  uint32
}

// parseFileHeader validates the magic string and decodes the fields this
// reader cares about. A bad magic string is fatal: there is no recovery
// path for a file that is not a SQLite database.
func parseFileHeader(raw []byte) (*FileHeader, error) {
	if len(raw) < fileHeaderSize {
		return nil, &DatabaseError{Operation: "parseFileHeader", Err: ErrInsufficientData,
			Context: map[string]interface{}{"need": fileHeaderSize, "got": len(raw)}}
	}
	for i, b := range expectedMagic {
		if raw[i] != b {
			return nil, &DatabaseError{Operation: "parseFileHeader", Err: ErrBadMagic,
				Context: map[string]interface{}{"offset": i}}
		}
	}

	pageSize := uint32(binary.BigEndian.Uint16(raw[16:18]))
	if pageSize == 1 {
		pageSize = 65536
	}

	h := &FileHeader{
		PageSize:            pageSize,
		ReservedSpace:       raw[20],
		TextEncoding:        TextEncoding(binary.BigEndian.Uint32(raw[56:60])),
		DatabaseSizeInPages: binary.BigEndian.Uint32(raw[28:32]),
	}

	switch h.TextEncoding {
	case TextEncodingUTF8, TextEncodingUTF16LE, TextEncodingUTF16BE:
	default:
		// Default to UTF-8 rather than failing outright; header encoding
		// values outside 1..3 are not valid SQLite but some tooling
		// leaves the field zeroed on freshly created files.
		h.TextEncoding = TextEncodingUTF8
	}

	return h, nil
}

// usablePageSize is the page size minus bytes reserved per page for
// extensions; it is the basis for the local-payload threshold in cell.go.
func (h *FileHeader) usablePageSize() int {
	return int(h.PageSize) - int(h.ReservedSpace)
}
