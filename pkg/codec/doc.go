// Package codec provides the low-level binary primitives of the VFB format.
//
// # Encoded Values
//
// Numbers inside the VFB header (and inside many entry payloads) use a
// variable-width signed encoding selected by the leading byte b:
//
//	0x00-0x1F  operator byte, never a number
//	0x20-0xF6  1 byte:  b - 139                      (-107 .. 107)
//	0xF7-0xFA  2 bytes: (b-247)*256 + b2 + 108       ( 108 .. 1131)
//	0xFB-0xFE  2 bytes: -(b-251)*256 - b2 - 108      (-1131 .. -108)
//	0xFF       5 bytes: big-endian two's complement int32
//
// DecodeValue and Reader.Value decode; AppendValue produces the shortest
// encoding and AppendValueLong the five-byte form.
//
// # Entry Headers
//
// Every entry after the file header starts with:
//
//	[RawKey(2)][Size(2)]        when RawKey&0x8000 == 0
//	[RawKey(2)][Size(4)]        when RawKey&0x8000 != 0
//
// All fixed-width fields are little-endian. The logical key is RawKey with the
// top bit cleared.
//
// # Error Handling
//
// Every failure is an *Error carrying the byte offset where it was detected.
// Use errors.Is against ErrUnexpectedEndOfStream, ErrInvalidEncoding and the
// other kinds to classify it.
package codec
