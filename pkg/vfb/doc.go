// Package vfb reads and writes FontLab Studio 5 VFB font containers.
//
// A VFB file is a fixed header followed by a flat directory of entries:
//
//	[Header][Entry]...[Entry]
//	Entry: [Key(2)][Size(2|4)][Payload(Size)]
//
// Open parses the header and scans the directory once, recording where each
// payload lives without reading it. Payloads are fetched on demand with
// Document.Read or streamed with Document.Section. The payloads themselves
// are opaque at this level; Key only names them.
//
// Basic usage:
//
//	doc, err := vfb.OpenFile("font.vfb")
//	if err != nil {
//		return err
//	}
//	defer doc.Close()
//
//	for _, f := range doc.FieldsByKey(vfb.KeyFontName) {
//		name, err := doc.Read(f)
//		...
//	}
//
// All decode errors are *codec.Error values that unwrap to one of the Err*
// kinds in this package and carry the byte offset of the failure.
package vfb
