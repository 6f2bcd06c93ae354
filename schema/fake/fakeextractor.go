package fake

import (
	"context"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Extractor is a configurable extractor for testing purposes. It returns the
// text registered for a path, or ErrToReturn.
type Extractor struct {
	NameToReturn string
	Exts         []string
	Texts        map[string]string
	ErrToReturn  error

	mu    sync.Mutex
	calls []string
}

// NewExtractor creates a new fake extractor handling the given extensions.
func NewExtractor(name string, exts ...string) *Extractor {
	return &Extractor{
		NameToReturn: name,
		Exts:         exts,
		Texts:        make(map[string]string),
	}
}

func (e *Extractor) Name() string {
	return e.NameToReturn
}

func (e *Extractor) Extensions() []string {
	return e.Exts
}

func (e *Extractor) CanHandle(path string, _ fs.FileInfo) bool {
	return slices.Contains(e.Exts, strings.ToLower(filepath.Ext(path)))
}

// Extract returns the configured text for the file's base name.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	e.mu.Lock()
	e.calls = append(e.calls, path)
	e.mu.Unlock()

	if e.ErrToReturn != nil {
		return "", e.ErrToReturn
	}
	return e.Texts[filepath.Base(path)], nil
}

// Calls returns the paths Extract was called with.
func (e *Extractor) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.calls)
}
