package cmd

import (
	"time"

	"github.com/ssargent/vfbkit/pkg/codec"
	"github.com/ssargent/vfbkit/pkg/vfb"
)

// openDocument opens path and logs the outcome
func openDocument(path string) (*vfb.Document, error) {
	start := time.Now()
	doc, err := vfb.OpenFile(path)
	if err != nil {
		attrs := []any{"path", path, "error", err}
		if offset, ok := codec.OffsetOf(err); ok {
			attrs = append(attrs, "offset", offset)
		}
		logger.Error("failed to open document", attrs...)
		return nil, err
	}
	logger.Debug("document opened",
		"path", path,
		"fields", doc.Len(),
		"duration_ms", time.Since(start).Milliseconds())
	return doc, nil
}
