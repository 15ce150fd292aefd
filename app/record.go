package main

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/encoding/unicode"
)

// ValueKind tags the variant carried by a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindInt
	KindFloat
	KindText
	KindBlob
)

// Value is the tagged union produced by decoding one column body. Only
// one of the typed fields is meaningful, selected by Kind.
type Value struct {
	Kind ValueKind
	I    int64
	F    float64
	S    string
	B    []byte
}

func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindInt:
		return strconv.FormatInt(v.I, 10)
	case KindFloat:
		return strconv.FormatFloat(v.F, 'g', -1, 64)
	case KindText:
		return v.S
	case KindBlob:
		// Blob contents are acknowledged, not rendered; dumping raw
		// bytes to a text terminal is out of scope for this reader.
		return ""
	default:
		return ""
	}
}

// IsNumeric reports whether the value can be compared numerically.
func (v Value) IsNumeric() bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}

// AsFloat64 returns the value's numeric interpretation, for WHERE-clause
// numeric comparisons.
func (v Value) AsFloat64() float64 {
	switch v.Kind {
	case KindInt:
		return float64(v.I)
	case KindFloat:
		return v.F
	default:
		return 0
	}
}

var utf16leDecoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
var utf16beDecoder = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()

// decodeSerialValue decodes one column body given its serial-type code.
// It returns the Value and the number of body bytes consumed (which a
// caller combining this with varint-decoded serial types already knows,
// but is returned for symmetry with decodeVarint and for tests).
func decodeSerialValue(serialType uint64, data []byte, enc TextEncoding) (Value, int, error) {
	need := serialTypeBodySize(serialType)
	if need > len(data) {
		return Value{}, 0, &DatabaseError{Operation: "decodeSerialValue", Err: ErrInsufficientData,
			Context: map[string]interface{}{"serialType": serialType, "need": need, "got": len(data)}}
	}

	switch {
	case serialType == 0:
		return Value{Kind: KindNull}, 0, nil
	case serialType == 1:
		return Value{Kind: KindInt, I: int64(int8(data[0]))}, 1, nil
	case serialType == 2:
		v := int16(uint16(data[0])<<8 | uint16(data[1]))
		return Value{Kind: KindInt, I: int64(v)}, 2, nil
	case serialType == 3:
		return Value{Kind: KindInt, I: signExtend(data[:3])}, 3, nil
	case serialType == 4:
		v := int32(uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3]))
		return Value{Kind: KindInt, I: int64(v)}, 4, nil
	case serialType == 5:
		return Value{Kind: KindInt, I: signExtend(data[:6])}, 6, nil
	case serialType == 6:
		var v uint64
		for i := 0; i < 8; i++ {
			v = v<<8 | uint64(data[i])
		}
		return Value{Kind: KindInt, I: int64(v)}, 8, nil
	case serialType == 7:
		var bits uint64
		for i := 0; i < 8; i++ {
			bits = bits<<8 | uint64(data[i])
		}
		return Value{Kind: KindFloat, F: math.Float64frombits(bits)}, 8, nil
	case serialType == 8:
		return Value{Kind: KindInt, I: 0}, 0, nil
	case serialType == 9:
		return Value{Kind: KindInt, I: 1}, 0, nil
	case serialType == 10 || serialType == 11:
		return Value{}, 0, &DatabaseError{Operation: "decodeSerialValue", Err: ErrReservedSerialType,
			Context: map[string]interface{}{"serialType": serialType}}
	case serialType >= 12 && serialType%2 == 0:
		n := int((serialType - 12) / 2)
		body := make([]byte, n)
		copy(body, data[:n])
		return Value{Kind: KindBlob, B: body}, n, nil
	case serialType >= 13 && serialType%2 == 1:
		n := int((serialType - 13) / 2)
		s, err := decodeText(data[:n], enc)
		if err != nil {
			return Value{}, 0, err
		}
		return Value{Kind: KindText, S: s}, n, nil
	default:
		return Value{}, 0, fmt.Errorf("decodeSerialValue: unreachable serial type %d", serialType)
	}
}

// signExtend reinterprets a 3- or 6-byte big-endian two's-complement
// integer as a signed 64-bit value, replicating the sign bit into the
// missing high bytes rather than zero-padding.
func signExtend(b []byte) int64 {
	var v int64
	if b[0]&0x80 != 0 {
		v = -1 // all-ones fill for the missing high bytes
	}
	for _, bb := range b {
		v = (v << 8) | int64(bb)
	}
	return v
}

// serialTypeBodySize returns the number of bytes a serial type's body
// occupies, independent of how the serial type code itself was encoded.
func serialTypeBodySize(serialType uint64) int {
	switch {
	case serialType <= 9:
		return [10]int{0, 1, 2, 3, 4, 6, 8, 8, 0, 0}[serialType]
	case serialType == 10 || serialType == 11:
		return 0
	case serialType%2 == 0:
		return int((serialType - 12) / 2)
	default:
		return int((serialType - 13) / 2)
	}
}

func decodeText(raw []byte, enc TextEncoding) (string, error) {
	switch enc {
	case TextEncodingUTF16LE:
		out, err := utf16leDecoder.Bytes(raw)
		if err != nil {
			return "", NewDatabaseError("decodeText", err, map[string]interface{}{"encoding": enc.String()})
		}
		return string(out), nil
	case TextEncodingUTF16BE:
		out, err := utf16beDecoder.Bytes(raw)
		if err != nil {
			return "", NewDatabaseError("decodeText", err, map[string]interface{}{"encoding": enc.String()})
		}
		return string(out), nil
	default:
		return string(raw), nil
	}
}
