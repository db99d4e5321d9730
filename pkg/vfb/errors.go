package vfb

import "github.com/ssargent/vfbkit/pkg/codec"

// Error kinds returned by this package. Match them with errors.Is; use
// errors.As with *codec.Error to get the offset and expected/observed values.
var (
	ErrIO                    = codec.ErrIO
	ErrTruncatedHeader       = codec.ErrTruncatedHeader
	ErrInvalidMagic          = codec.ErrInvalidMagic
	ErrUnexpectedEndOfStream = codec.ErrUnexpectedEndOfStream
	ErrInvalidEncoding       = codec.ErrInvalidEncoding
	ErrCorruptDirectory      = codec.ErrCorruptDirectory
)

// Operations recorded in (*codec.Error).Op, one per stage of Open.
const (
	OpReadPreamble  = "read preamble"
	OpReadMetadata  = "read metadata"
	OpReadTrailer   = "read trailer"
	OpScanDirectory = "scan directory"
	OpReadField     = "read field"
)
