package vfb

import "io"

// Strip writes doc to dst without the entries whose key is in drop. The
// header and every remaining entry, end marker included, are copied byte for
// byte, keeping each entry's size form. It returns the number of entries
// written.
func Strip(dst io.Writer, doc *Document, drop ...Key) (int, error) {
	skip := make(map[Key]bool, len(drop))
	for _, k := range drop {
		skip[k] = true
	}

	w := NewWriter(dst)
	if err := w.WriteHeader(doc.Header()); err != nil {
		return 0, err
	}

	kept := 0
	for _, f := range doc.fields {
		if skip[f.Key] {
			continue
		}
		payload, err := doc.Read(f)
		if err != nil {
			return kept, err
		}
		if f.Extended {
			_, err = w.WriteFieldExtended(f.Key, payload)
		} else {
			_, err = w.WriteField(f.Key, payload)
		}
		if err != nil {
			return kept, err
		}
		kept++
	}
	return kept, nil
}
