package schema

import (
	"context"
	"io/fs"
)

// Extractor turns a document file into raw text. Implementations exist per
// file format and are selected by extension.
type Extractor interface {
	Name() string
	Extensions() []string
	CanHandle(path string, info fs.FileInfo) bool
	// Extract returns the full text of the file. An unreadable or corrupt
	// file yields an error, never a silently empty result.
	Extract(ctx context.Context, path string) (string, error)
}
