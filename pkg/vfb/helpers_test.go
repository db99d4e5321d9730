package vfb

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Headers written by FontLab Studio 5.0.4 and 5.2.2.
const (
	header504Hex = "1a574c46313003002c" +
		"000000000000000000" +
		"000000000000000000" +
		"000000000000000000" +
		"000000000000000001" +
		"000000040000000a00" +
		"0b00018b02ff050000" +
		"01038b0006010000"

	header522Hex = "1a574c46313003002c" +
		"000000000000000000" +
		"000000000000000000" +
		"000000000000000000" +
		"000000000000000001" +
		"000000040000000a00" +
		"0b00018c02ff050202" +
		"80038b0006010000"
)

func mustHex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	require.NoError(t, err)
	return b
}

type testField struct {
	key      Key
	payload  []byte
	extended bool
}

// buildFile writes a complete file with the 5.0.4 header and the given
// entries, without an end marker.
func buildFile(t testing.TB, fields ...testField) ([]byte, []FieldDescriptor) {
	t.Helper()
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader(NewHeader()))

	descriptors := make([]FieldDescriptor, 0, len(fields))
	for _, f := range fields {
		var d FieldDescriptor
		var err error
		if f.extended {
			d, err = w.WriteFieldExtended(f.key, f.payload)
		} else {
			d, err = w.WriteField(f.key, f.payload)
		}
		require.NoError(t, err)
		descriptors = append(descriptors, d)
	}
	return buf.Bytes(), descriptors
}

// sampleFields is a small directory resembling the start of a real font.
func sampleFields() []testField {
	return []testField{
		{key: KeyEncodingDefault, payload: []byte{0x0A, 0x00, 0x2E, 0x6E, 0x6F, 0x74, 0x64, 0x65, 0x66}},
		{key: KeyEncoding, payload: []byte{0x01, 0x00, 0x41}},
		{key: KeyEncoding, payload: []byte{0x02, 0x00, 0x42}},
		{key: KeyMasterCount, payload: []byte{0x8C}},
		{key: KeyFontName, payload: []byte("Example-Regular")},
		{key: KeyUPM, payload: []byte{0xF8, 0x7C}},
		{key: KeyGlyph, payload: bytes.Repeat([]byte{0x8B}, 40)},
		{key: KeyEOF},
	}
}
