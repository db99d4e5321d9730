package vfb

import (
	"encoding/binary"

	"github.com/ssargent/vfbkit/pkg/codec"
)

// Magic is the file type tag every VFB file carries after its sentinel byte.
const Magic = "WLF10"

// Header layout constants.
const (
	ReservedSize  = 34
	OpaqueSize    = 12 // six 2-byte fields
	TrailerSize   = 4  // two 2-byte fields
	MetadataCount = 3

	// metadataEnd terminates the metadata block after its entries.
	metadataEnd = 0x00

	// metadataAppVersion is the metadata key whose value packs the creating
	// application's version as four bytes, most significant first.
	metadataAppVersion = 2
)

// MetadataEntry is one (key, encoded value) pair of the header metadata block.
type MetadataEntry struct {
	Key   byte  `json:"key"`
	Value int32 `json:"value"`
	Long  bool  `json:"-"` // Value was stored in the five-byte form although a shorter one exists
}

// Header is the fixed preamble of a VFB file.
// Format:
//
//	[Sentinel(1)][Magic(5)][Version(2x2)][Reserved(34)][Opaque(6x2)]
//	[Key(1) Value(enc)] x3 [0x00][Trailer(2x2)]
//
// Reserved, Opaque and Trailer are kept verbatim and never interpreted.
type Header struct {
	Sentinel byte                         `json:"sentinel"`
	Magic    [5]byte                      `json:"-"`
	Version  [2]uint16                    `json:"version"`
	Reserved [ReservedSize]byte           `json:"-"`
	Opaque   [OpaqueSize]byte             `json:"-"`
	Metadata [MetadataCount]MetadataEntry `json:"metadata"`
	Trailer  [TrailerSize]byte            `json:"-"`
}

// NewHeader returns the header FontLab Studio 5.0.4 writes, suitable as a
// template for new files.
func NewHeader() Header {
	h := Header{
		Sentinel: 0x1A,
		Version:  [2]uint16{3, 44},
		Opaque:   [OpaqueSize]byte{0x01, 0x00, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00, 0x0A, 0x00, 0x0B, 0x00},
		Metadata: [MetadataCount]MetadataEntry{
			{Key: 1, Value: 0},
			{Key: metadataAppVersion, Value: 0x05000001},
			{Key: 3, Value: 0},
		},
		Trailer: [TrailerSize]byte{0x06, 0x01, 0x00, 0x00},
	}
	copy(h.Magic[:], Magic)
	return h
}

// MagicString returns the file type tag as a string.
func (h Header) MagicString() string {
	return string(h.Magic[:])
}

// MetadataValue returns the value stored under key in the metadata block.
func (h Header) MetadataValue(key byte) (int32, bool) {
	for _, m := range h.Metadata {
		if m.Key == key {
			return m.Value, true
		}
	}
	return 0, false
}

// AppVersion unpacks the creating application's version, e.g. [5 2 2 128]
// for FontLab Studio 5.2.2 build 128.
func (h Header) AppVersion() ([4]byte, bool) {
	var v [4]byte
	value, ok := h.MetadataValue(metadataAppVersion)
	if !ok {
		return v, false
	}
	binary.BigEndian.PutUint32(v[:], uint32(value))
	return v, true
}

// MarshalBinary re-serializes the header exactly as it was read.
func (h Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 80)
	buf = append(buf, h.Sentinel)
	buf = append(buf, h.Magic[:]...)
	buf = binary.LittleEndian.AppendUint16(buf, h.Version[0])
	buf = binary.LittleEndian.AppendUint16(buf, h.Version[1])
	buf = append(buf, h.Reserved[:]...)
	buf = append(buf, h.Opaque[:]...)
	for _, m := range h.Metadata {
		buf = append(buf, m.Key)
		if m.Long {
			buf = codec.AppendValueLong(buf, m.Value)
		} else {
			buf = codec.AppendValue(buf, m.Value)
		}
	}
	buf = append(buf, metadataEnd)
	buf = append(buf, h.Trailer[:]...)
	return buf, nil
}

// ReadHeader parses the header from r, which must be positioned at its first
// byte. The magic is checked before anything after it is read. A stream that
// ends inside the header fails with ErrTruncatedHeader.
func ReadHeader(r *codec.Reader) (Header, error) {
	var h Header
	var err error

	fail := func(err error, op string) (Header, error) {
		err = codec.Reclassify(err, codec.ErrUnexpectedEndOfStream, codec.ErrTruncatedHeader)
		return Header{}, codec.WithOp(err, op)
	}

	if h.Sentinel, err = r.Uint8(); err != nil {
		return fail(err, OpReadPreamble)
	}
	start := r.Offset()
	if err = r.ReadFull(h.Magic[:]); err != nil {
		return fail(err, OpReadPreamble)
	}
	if h.MagicString() != Magic {
		return Header{}, &codec.Error{
			Kind:     ErrInvalidMagic,
			Op:       OpReadPreamble,
			Offset:   start,
			Expected: Magic,
			Observed: h.MagicString(),
		}
	}
	for i := range h.Version {
		if h.Version[i], err = r.Uint16(); err != nil {
			return fail(err, OpReadPreamble)
		}
	}
	if err = r.ReadFull(h.Reserved[:]); err != nil {
		return fail(err, OpReadPreamble)
	}
	if err = r.ReadFull(h.Opaque[:]); err != nil {
		return fail(err, OpReadPreamble)
	}

	for i := range h.Metadata {
		if h.Metadata[i].Key, err = r.Uint8(); err != nil {
			return fail(err, OpReadMetadata)
		}
		at := r.Offset()
		if h.Metadata[i].Value, err = r.Value(); err != nil {
			return fail(err, OpReadMetadata)
		}
		h.Metadata[i].Long = int(r.Offset()-at) > codec.ValueLen(h.Metadata[i].Value)
	}
	end := r.Offset()
	b, err := r.Uint8()
	if err != nil {
		return fail(err, OpReadMetadata)
	}
	if b != metadataEnd {
		return Header{}, &codec.Error{
			Kind:     ErrInvalidEncoding,
			Op:       OpReadMetadata,
			Offset:   end,
			Expected: metadataEnd,
			Observed: b,
		}
	}

	if err = r.ReadFull(h.Trailer[:]); err != nil {
		return fail(err, OpReadTrailer)
	}
	return h, nil
}
