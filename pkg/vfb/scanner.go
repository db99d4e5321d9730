package vfb

import (
	"errors"
	"io"

	"github.com/ssargent/vfbkit/pkg/codec"
)

// FieldDescriptor locates one directory entry's payload. It never holds the
// payload itself; use Document.Read to fetch it.
type FieldDescriptor struct {
	Key      Key    `json:"key"`
	Offset   int64  `json:"offset"`   // Absolute offset of the first payload byte
	Size     uint32 `json:"size"`     // Payload size in bytes
	Extended bool   `json:"extended"` // Size was stored in the 4-byte form
}

// End returns the offset one past the last payload byte.
func (d FieldDescriptor) End() int64 {
	return d.Offset + int64(d.Size)
}

// Scanner walks the directory that follows the header, yielding one
// FieldDescriptor per entry and seeking over payloads without reading them.
type Scanner struct {
	src   io.ReadSeeker
	r     *codec.Reader
	end   int64
	field FieldDescriptor
	err   error
	done  bool
}

// NewScanner returns a scanner that starts at the current position of src.
// The stream length is measured once, up front; payloads that would extend
// past it are reported as ErrCorruptDirectory.
func NewScanner(src io.ReadSeeker) (*Scanner, error) {
	start, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, &codec.Error{Kind: ErrIO, Op: OpScanDirectory, Err: err}
	}
	end, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, &codec.Error{Kind: ErrIO, Op: OpScanDirectory, Offset: start, Err: err}
	}
	if _, err := src.Seek(start, io.SeekStart); err != nil {
		return nil, &codec.Error{Kind: ErrIO, Op: OpScanDirectory, Offset: start, Err: err}
	}
	return &Scanner{
		src: src,
		r:   codec.NewReader(src, start),
		end: end,
	}, nil
}

// Next advances to the next entry. It returns false at the end of the
// directory or on error; check Err to tell them apart.
func (s *Scanner) Next() bool {
	if s.done {
		return false
	}

	start := s.r.Offset()
	h, err := codec.ReadEntryHeader(s.r)
	if err != nil {
		s.done = true
		if errors.Is(err, codec.ErrUnexpectedEndOfStream) {
			if s.r.Offset() == start {
				// Clean end: no bytes left where a new entry would begin.
				return false
			}
			s.err = s.corrupt(start, err)
			return false
		}
		s.err = codec.WithOp(err, OpScanDirectory)
		return false
	}

	field := FieldDescriptor{
		Key:      Key(h.Key),
		Offset:   s.r.Offset(),
		Size:     h.Size,
		Extended: h.Extended,
	}
	if field.End() > s.end {
		s.done = true
		s.err = &codec.Error{
			Kind:     ErrCorruptDirectory,
			Op:       OpScanDirectory,
			Offset:   field.Offset,
			Expected: field.End(),
			Observed: s.end,
		}
		return false
	}

	if h.Size > 0 {
		if _, err := s.src.Seek(field.End(), io.SeekStart); err != nil {
			s.done = true
			s.err = &codec.Error{Kind: ErrIO, Op: OpScanDirectory, Offset: field.Offset, Err: err}
			return false
		}
		s.r.SetOffset(field.End())
	}

	s.field = field
	return true
}

// corrupt reports a directory that ends inside the entry starting at start.
func (s *Scanner) corrupt(start int64, cause error) error {
	return &codec.Error{
		Kind:   ErrCorruptDirectory,
		Op:     OpScanDirectory,
		Offset: start,
		Err:    cause,
	}
}

// Field returns the entry found by the last successful call to Next.
func (s *Scanner) Field() FieldDescriptor {
	return s.field
}

// Err returns the error that stopped the scan, if any.
func (s *Scanner) Err() error {
	return s.err
}

// Offset returns the offset the scan has reached.
func (s *Scanner) Offset() int64 {
	return s.r.Offset()
}

// Size returns the stream length measured when the scanner was created.
func (s *Scanner) Size() int64 {
	return s.end
}

// ScanDirectory reads every entry from the current position of src to the end
// of the stream.
func ScanDirectory(src io.ReadSeeker) ([]FieldDescriptor, error) {
	s, err := NewScanner(src)
	if err != nil {
		return nil, err
	}
	var fields []FieldDescriptor
	for s.Next() {
		fields = append(fields, s.Field())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return fields, nil
}
