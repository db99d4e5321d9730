package codec

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error unwraps to exactly one of these.
var (
	// ErrIO indicates the source could not be read or seeked.
	ErrIO = errors.New("i/o error")

	// ErrTruncatedHeader indicates the stream ended inside the file header.
	ErrTruncatedHeader = errors.New("truncated header")

	// ErrInvalidMagic indicates the file type tag is not the expected one.
	ErrInvalidMagic = errors.New("invalid magic")

	// ErrUnexpectedEndOfStream indicates a read ran past the end of the stream.
	ErrUnexpectedEndOfStream = errors.New("unexpected end of stream")

	// ErrInvalidEncoding indicates an operator byte where a number was expected.
	ErrInvalidEncoding = errors.New("invalid encoding")

	// ErrCorruptDirectory indicates the stream ended in the middle of a record.
	ErrCorruptDirectory = errors.New("corrupt directory")
)

// Error is a decode failure at a known byte offset.
type Error struct {
	Kind     error  // One of the Err* kinds above
	Op       string // Operation in progress, e.g. "read metadata"
	Offset   int64  // Byte offset at which the failure was detected
	Expected any    // Expected value, if applicable
	Observed any    // Observed value, if applicable
	Err      error  // Underlying cause, if any
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	msg = fmt.Sprintf("%s at offset %d", msg, e.Offset)
	if e.Expected != nil || e.Observed != nil {
		msg = fmt.Sprintf("%s: expected %v, got %v", msg, e.Expected, e.Observed)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Reclassify returns a copy of err with its kind replaced, keeping the offset.
// Errors that are not *Error, or whose kind is not from, are returned unchanged.
func Reclassify(err error, from, to error) error {
	var de *Error
	if !errors.As(err, &de) || de.Kind != from {
		return err
	}
	cp := *de
	cp.Kind = to
	return &cp
}

// WithOp returns a copy of err with Op replaced. Errors that are not *Error
// are returned unchanged.
func WithOp(err error, op string) error {
	var de *Error
	if !errors.As(err, &de) {
		return err
	}
	cp := *de
	cp.Op = op
	return &cp
}

// OffsetOf reports the offset carried by err, if any.
func OffsetOf(err error) (int64, bool) {
	var de *Error
	if !errors.As(err, &de) {
		return 0, false
	}
	return de.Offset, true
}
