package codec

import "encoding/binary"

// Encoded value ranges, by leading byte.
const (
	valueMinByte   = 0x20 // bytes below this are operators, not numbers
	valueBias      = 139
	valuePosFirst  = 0xF7
	valueNegFirst  = 0xFB
	valueLongMark  = 0xFF
	valueShortMax  = 107
	valueMediumMax = 1131
)

// DecodeValue decodes one encoded integer from the start of p and reports how
// many bytes it consumed. An operator byte consumes one byte and fails with
// ErrInvalidEncoding; a truncated encoding fails with ErrUnexpectedEndOfStream.
func DecodeValue(p []byte) (int32, int, error) {
	if len(p) == 0 {
		return 0, 0, &Error{Kind: ErrUnexpectedEndOfStream, Op: "decode value"}
	}
	b := p[0]
	switch {
	case b < valueMinByte:
		return 0, 1, &Error{Kind: ErrInvalidEncoding, Op: "decode value", Expected: "number", Observed: b}
	case b < valuePosFirst:
		return int32(b) - valueBias, 1, nil
	case b < valueLongMark:
		if len(p) < 2 {
			return 0, 1, &Error{Kind: ErrUnexpectedEndOfStream, Op: "decode value", Offset: 1}
		}
		return decodeMedium(b, p[1]), 2, nil
	default:
		if len(p) < 5 {
			return 0, len(p), &Error{Kind: ErrUnexpectedEndOfStream, Op: "decode value", Offset: int64(len(p))}
		}
		return int32(binary.BigEndian.Uint32(p[1:5])), 5, nil
	}
}

// decodeMedium handles the two-byte forms, leading bytes 0xF7 through 0xFE.
func decodeMedium(b, b2 byte) int32 {
	if b < valueNegFirst {
		return (int32(b)-valuePosFirst)*256 + int32(b2) + 108
	}
	return -(int32(b)-valueNegFirst)*256 - int32(b2) - 108
}

// AppendValue appends the shortest encoding of v to dst.
func AppendValue(dst []byte, v int32) []byte {
	switch {
	case v >= -valueShortMax && v <= valueShortMax:
		return append(dst, byte(v+valueBias))
	case v > valueShortMax && v <= valueMediumMax:
		u := v - 108
		return append(dst, byte(valuePosFirst+u>>8), byte(u))
	case v < -valueShortMax && v >= -valueMediumMax:
		u := -v - 108
		return append(dst, byte(valueNegFirst+u>>8), byte(u))
	default:
		return AppendValueLong(dst, v)
	}
}

// AppendValueLong appends the five-byte encoding of v to dst, whatever its
// magnitude.
func AppendValueLong(dst []byte, v int32) []byte {
	dst = append(dst, valueLongMark)
	return binary.BigEndian.AppendUint32(dst, uint32(v))
}

// ValueLen returns the number of bytes AppendValue uses for v.
func ValueLen(v int32) int {
	switch {
	case v >= -valueShortMax && v <= valueShortMax:
		return 1
	case v >= -valueMediumMax && v <= valueMediumMax:
		return 2
	default:
		return 5
	}
}
