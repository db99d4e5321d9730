//go:build fuzz
// +build fuzz

package vfb

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ssargent/vfbkit/pkg/codec"
)

// FuzzOpen checks that arbitrary input either opens cleanly or fails with a
// classified, offset-carrying error, and that every descriptor is readable.
func FuzzOpen(f *testing.F) {
	valid, _ := buildFile(f, sampleFields()...)
	f.Add(valid)
	f.Add(valid[:len(valid)-1])
	f.Add(valid[:20])
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		doc, err := Open(bytes.NewReader(data))
		if err != nil {
			var de *codec.Error
			if !errors.As(err, &de) {
				t.Fatalf("unclassified error: %v", err)
			}
			if de.Offset < 0 || de.Offset > int64(len(data)) {
				t.Fatalf("offset %d outside input of %d bytes", de.Offset, len(data))
			}
			return
		}
		for _, field := range doc.Fields() {
			if field.End() > int64(len(data)) {
				t.Fatalf("field %v ends past input", field)
			}
			if _, err := doc.Read(field); err != nil {
				t.Fatalf("read of scanned field failed: %v", err)
			}
		}
	})
}
