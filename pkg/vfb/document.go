package vfb

import (
	"io"
	"os"

	"github.com/ssargent/vfbkit/pkg/codec"
)

// Document is an opened VFB file: its header and the ordered directory of
// entries. Payloads stay in the source until Read is called.
type Document struct {
	header Header
	fields []FieldDescriptor
	byKey  map[Key][]int
	keys   []Key
	size   int64
	acc    *Accessor
	closer io.Closer
}

// Open parses the header and scans the whole directory of src, which must be
// positioned at the start of the file. Nothing is returned unless both steps
// succeed. If src is an io.Closer, the Document takes ownership of it and
// closes it in Close; on failure src is left open for the caller.
func Open(src io.ReadSeeker) (*Document, error) {
	r := codec.NewReader(src, 0)
	header, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	scanner, err := NewScanner(src)
	if err != nil {
		return nil, err
	}
	var fields []FieldDescriptor
	for scanner.Next() {
		fields = append(fields, scanner.Field())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	doc := &Document{
		header: header,
		fields: fields,
		byKey:  make(map[Key][]int),
		size:   scanner.Size(),
		acc:    NewAccessor(src),
	}
	for i, f := range fields {
		if _, seen := doc.byKey[f.Key]; !seen {
			doc.keys = append(doc.keys, f.Key)
		}
		doc.byKey[f.Key] = append(doc.byKey[f.Key], i)
	}
	if c, ok := src.(io.Closer); ok {
		doc.closer = c
	}
	return doc, nil
}

// OpenFile opens the file at path and parses it with Open. The file is closed
// again if parsing fails.
func OpenFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &codec.Error{Kind: ErrIO, Op: "open", Err: err}
	}
	doc, err := Open(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	return doc, nil
}

// Header returns the parsed file header.
func (d *Document) Header() Header {
	return d.header
}

// Fields returns every entry in file order, duplicates included.
func (d *Document) Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, len(d.fields))
	copy(out, d.fields)
	return out
}

// Field returns the i-th entry in file order.
func (d *Document) Field(i int) (FieldDescriptor, bool) {
	if i < 0 || i >= len(d.fields) {
		return FieldDescriptor{}, false
	}
	return d.fields[i], true
}

// FieldsByKey returns the entries with the given key, in file order.
func (d *Document) FieldsByKey(key Key) []FieldDescriptor {
	idx := d.byKey[key]
	out := make([]FieldDescriptor, 0, len(idx))
	for _, i := range idx {
		out = append(out, d.fields[i])
	}
	return out
}

// Keys returns the distinct keys in order of first appearance.
func (d *Document) Keys() []Key {
	out := make([]Key, len(d.keys))
	copy(out, d.keys)
	return out
}

// Len returns the number of entries.
func (d *Document) Len() int {
	return len(d.fields)
}

// Size returns the length of the source as measured during the scan.
func (d *Document) Size() int64 {
	return d.size
}

// Read returns the payload described by f. Failures affect only this call.
func (d *Document) Read(f FieldDescriptor) ([]byte, error) {
	return d.acc.Read(f)
}

// Section returns a streaming reader over the payload described by f.
func (d *Document) Section(f FieldDescriptor) (*PayloadReader, error) {
	return d.acc.Section(f)
}

// Close releases the source if the Document owns it.
func (d *Document) Close() error {
	if d.closer == nil {
		return nil
	}
	c := d.closer
	d.closer = nil
	return c.Close()
}
