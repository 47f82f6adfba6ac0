package ingest

import (
	"errors"
	"strings"
)

// Document is one article after markup extraction. It is read once per run
// and never mutated.
type Document struct {
	Name string // file name, the document identity
	Path string
	Size int64  // raw byte size on disk
	Text string // plain text with markup stripped
}

// Validate checks if the document has required fields
func (d *Document) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("document name is required")
	}

	if d.Size < 0 {
		return errors.New("document size must not be negative")
	}

	return nil
}
