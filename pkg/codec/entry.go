package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ExtendedFlag is the top bit of a raw entry key. When set, the entry's size
// is stored as a uint32 instead of a uint16.
const ExtendedFlag = 0x8000

// Entry header sizes in bytes: key(2) + size(2) or key(2) + size(4).
const (
	EntryHeaderSize         = 4
	ExtendedEntryHeaderSize = 6
)

// EntryHeader is the key/size prefix of one directory entry.
// Format: [RawKey(2)][Size(2)] or, with ExtendedFlag set, [RawKey(2)][Size(4)]
type EntryHeader struct {
	Key      uint16 // Key with ExtendedFlag masked off
	Extended bool   // Size is stored in 4 bytes
	Size     uint32 // Payload size in bytes
}

// Len returns the encoded length of the header.
func (h EntryHeader) Len() int {
	if h.Extended {
		return ExtendedEntryHeaderSize
	}
	return EntryHeaderSize
}

// Validate checks that the header can be encoded as described.
func (h EntryHeader) Validate() error {
	if h.Key&ExtendedFlag != 0 {
		return fmt.Errorf("key %d does not fit in 15 bits", h.Key)
	}
	if !h.Extended && h.Size > math.MaxUint16 {
		return fmt.Errorf("size %d needs the extended entry header", h.Size)
	}
	return nil
}

// AppendEntryHeader appends the encoded form of h to dst.
func AppendEntryHeader(dst []byte, h EntryHeader) ([]byte, error) {
	if err := h.Validate(); err != nil {
		return dst, err
	}
	if h.Extended {
		dst = binary.LittleEndian.AppendUint16(dst, h.Key|ExtendedFlag)
		return binary.LittleEndian.AppendUint32(dst, h.Size), nil
	}
	dst = binary.LittleEndian.AppendUint16(dst, h.Key)
	return binary.LittleEndian.AppendUint16(dst, uint16(h.Size)), nil
}

// SplitKey separates a raw on-disk key into the logical key and its size flag.
func SplitKey(raw uint16) (key uint16, extended bool) {
	return raw &^ ExtendedFlag, raw&ExtendedFlag != 0
}

// ReadEntryHeader reads an entry header from r. If the stream ends before the
// first key byte, r.Offset() is left unchanged, which is how callers tell a
// clean end of directory from a truncated entry.
func ReadEntryHeader(r *Reader) (EntryHeader, error) {
	raw, err := r.Uint16()
	if err != nil {
		return EntryHeader{}, err
	}
	key, extended := SplitKey(raw)
	h := EntryHeader{Key: key, Extended: extended}
	if extended {
		h.Size, err = r.Uint32()
	} else {
		var size uint16
		size, err = r.Uint16()
		h.Size = uint32(size)
	}
	if err != nil {
		return EntryHeader{}, err
	}
	return h, nil
}
