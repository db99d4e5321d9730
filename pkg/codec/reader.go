package codec

import (
	"encoding/binary"
	"errors"
	"io"
)

// Reader reads fixed-width little-endian fields and encoded values from a
// stream, tracking the absolute byte offset of its cursor. Every short read is
// reported as an *Error carrying the offset the cursor reached.
type Reader struct {
	r      io.Reader
	offset int64
	tmp    [4]byte
}

// NewReader returns a Reader over r whose cursor starts at offset.
func NewReader(r io.Reader, offset int64) *Reader {
	return &Reader{r: r, offset: offset}
}

// Offset returns the absolute offset of the next byte to be read.
func (r *Reader) Offset() int64 {
	return r.offset
}

// SetOffset records that the underlying stream has been repositioned to
// offset by someone else, e.g. after a seek.
func (r *Reader) SetOffset(offset int64) {
	r.offset = offset
}

// ReadFull fills p entirely or fails. A stream that ends early yields
// ErrUnexpectedEndOfStream; any other failure yields ErrIO.
func (r *Reader) ReadFull(p []byte) error {
	n, err := io.ReadFull(r.r, p)
	r.offset += int64(n)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &Error{Kind: ErrUnexpectedEndOfStream, Offset: r.offset, Expected: len(p), Observed: n}
	}
	return &Error{Kind: ErrIO, Offset: r.offset, Err: err}
}

// Uint8 reads one byte.
func (r *Reader) Uint8() (uint8, error) {
	if err := r.ReadFull(r.tmp[:1]); err != nil {
		return 0, err
	}
	return r.tmp[0], nil
}

// Uint16 reads a little-endian uint16.
func (r *Reader) Uint16() (uint16, error) {
	if err := r.ReadFull(r.tmp[:2]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(r.tmp[:2]), nil
}

// Uint32 reads a little-endian uint32.
func (r *Reader) Uint32() (uint32, error) {
	if err := r.ReadFull(r.tmp[:4]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.tmp[:4]), nil
}

// Value reads one encoded integer, consuming 1, 2 or 5 bytes. An operator byte
// (0x00-0x1F) is consumed and rejected with ErrInvalidEncoding.
func (r *Reader) Value() (int32, error) {
	start := r.offset
	b, err := r.Uint8()
	if err != nil {
		return 0, WithOp(err, "decode value")
	}
	switch {
	case b < valueMinByte:
		return 0, &Error{Kind: ErrInvalidEncoding, Op: "decode value", Offset: start, Expected: "number", Observed: b}
	case b < valuePosFirst:
		return int32(b) - valueBias, nil
	case b < valueLongMark:
		b2, err := r.Uint8()
		if err != nil {
			return 0, WithOp(err, "decode value")
		}
		return decodeMedium(b, b2), nil
	default:
		if err := r.ReadFull(r.tmp[:4]); err != nil {
			return 0, WithOp(err, "decode value")
		}
		return int32(binary.BigEndian.Uint32(r.tmp[:4])), nil
	}
}
