package vfb

import (
	"errors"
	"io"
	"sync"

	"github.com/ssargent/vfbkit/pkg/codec"
)

// Accessor reads entry payloads on demand from a shared source. Seek+read
// pairs are serialized, so one Accessor may be used from several goroutines.
type Accessor struct {
	mu  sync.Mutex
	src io.ReadSeeker
}

// NewAccessor returns an Accessor over src.
func NewAccessor(src io.ReadSeeker) *Accessor {
	return &Accessor{src: src}
}

// Read returns exactly d.Size bytes starting at d.Offset. A source that has
// shrunk since the directory was scanned yields ErrUnexpectedEndOfStream.
func (a *Accessor) Read(d FieldDescriptor) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.src.Seek(d.Offset, io.SeekStart); err != nil {
		return nil, &codec.Error{Kind: ErrIO, Op: OpReadField, Offset: d.Offset, Err: err}
	}
	buf := make([]byte, d.Size)
	if err := codec.NewReader(a.src, d.Offset).ReadFull(buf); err != nil {
		return nil, codec.WithOp(err, OpReadField)
	}
	return buf, nil
}

// Section returns a reader over d's payload that does not move the shared
// cursor. It requires the source to implement io.ReaderAt. A source that no
// longer covers the payload fails here with ErrUnexpectedEndOfStream, and one
// that shrinks while the payload is streamed fails the Read that hits the
// early end.
func (a *Accessor) Section(d FieldDescriptor) (*PayloadReader, error) {
	ra, ok := a.src.(io.ReaderAt)
	if !ok {
		return nil, &codec.Error{
			Kind:   ErrIO,
			Op:     OpReadField,
			Offset: d.Offset,
			Err:    errors.New("source does not support random access reads"),
		}
	}
	if d.Size > 0 {
		var last [1]byte
		if _, err := ra.ReadAt(last[:], d.End()-1); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, &codec.Error{
					Kind:     ErrUnexpectedEndOfStream,
					Op:       OpReadField,
					Offset:   d.Offset,
					Expected: d.End(),
				}
			}
			return nil, &codec.Error{Kind: ErrIO, Op: OpReadField, Offset: d.Offset, Err: err}
		}
	}
	return &PayloadReader{
		sr:    io.NewSectionReader(ra, d.Offset, int64(d.Size)),
		field: d,
	}, nil
}

// PayloadReader streams exactly one payload. It reports
// ErrUnexpectedEndOfStream instead of io.EOF when the source ends before
// Size bytes were delivered.
type PayloadReader struct {
	sr    *io.SectionReader
	field FieldDescriptor
	n     int64
}

// Size returns the declared payload size.
func (p *PayloadReader) Size() int64 {
	return int64(p.field.Size)
}

func (p *PayloadReader) Read(b []byte) (int, error) {
	n, err := p.sr.Read(b)
	p.n += int64(n)
	if errors.Is(err, io.EOF) && p.n < p.Size() {
		return n, &codec.Error{
			Kind:     ErrUnexpectedEndOfStream,
			Op:       OpReadField,
			Offset:   p.field.Offset + p.n,
			Expected: p.Size(),
			Observed: p.n,
		}
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return n, &codec.Error{Kind: ErrIO, Op: OpReadField, Offset: p.field.Offset + p.n, Err: err}
	}
	return n, err
}
