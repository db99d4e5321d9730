package vfb

import (
	"fmt"
	"io"
	"math"

	"github.com/ssargent/vfbkit/pkg/codec"
)

// endMarker is two empty entries, KeyEOF then KeyFileEndSecondary.
var endMarker = []byte{0x05, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00}

// Writer produces a VFB file: a header followed by directory entries.
type Writer struct {
	w      io.Writer
	offset int64
}

// NewWriter returns a Writer that appends to w, assumed to be at offset 0.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Offset returns the number of bytes written so far.
func (w *Writer) Offset() int64 {
	return w.offset
}

// WriteHeader writes h. It must be called once, before any entry.
func (w *Writer) WriteHeader(h Header) error {
	buf, err := h.MarshalBinary()
	if err != nil {
		return err
	}
	return w.write(buf)
}

// WriteField writes one entry, switching to the 4-byte size form when the
// payload does not fit in 2 bytes. It returns the descriptor a Scanner will
// report for the entry.
func (w *Writer) WriteField(key Key, payload []byte) (FieldDescriptor, error) {
	return w.writeField(key, payload, len(payload) > math.MaxUint16)
}

// WriteFieldExtended writes one entry using the 4-byte size form regardless
// of payload size.
func (w *Writer) WriteFieldExtended(key Key, payload []byte) (FieldDescriptor, error) {
	return w.writeField(key, payload, true)
}

func (w *Writer) writeField(key Key, payload []byte, extended bool) (FieldDescriptor, error) {
	if uint64(len(payload)) > math.MaxUint32 {
		return FieldDescriptor{}, fmt.Errorf("payload of %d bytes is too large", len(payload))
	}
	h := codec.EntryHeader{Key: uint16(key), Extended: extended, Size: uint32(len(payload))}
	buf, err := codec.AppendEntryHeader(make([]byte, 0, h.Len()+len(payload)), h)
	if err != nil {
		return FieldDescriptor{}, err
	}
	d := FieldDescriptor{
		Key:      key,
		Offset:   w.offset + int64(h.Len()),
		Size:     h.Size,
		Extended: extended,
	}
	if err := w.write(append(buf, payload...)); err != nil {
		return FieldDescriptor{}, err
	}
	return d, nil
}

// WriteEndMarker writes the two empty entries FontLab places after the last
// real entry.
func (w *Writer) WriteEndMarker() error {
	return w.write(endMarker)
}

func (w *Writer) write(p []byte) error {
	n, err := w.w.Write(p)
	w.offset += int64(n)
	if err != nil {
		return &codec.Error{Kind: ErrIO, Op: "write", Offset: w.offset, Err: err}
	}
	return nil
}
