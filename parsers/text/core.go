package text

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sevigo/docingest/schema"
)

// plainTextExtensions are not registered by default but hold plain prose
// the extractor decodes like .txt.
var plainTextExtensions = []string{".text", ".log", ".rst", ".asc"}

// TextExtractor decodes plain text files of any common encoding to UTF-8.
type TextExtractor struct {
	logger *slog.Logger
}

// NewTextExtractor returns the plain text extractor. A nil logger means
// slog.Default().
func NewTextExtractor(logger *slog.Logger) schema.Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &TextExtractor{logger: logger}
}

func (p *TextExtractor) Name() string { return "text" }

func (p *TextExtractor) Extensions() []string { return []string{".txt"} }

// CanHandle accepts .txt and the other plain text extensions.
func (p *TextExtractor) CanHandle(path string, info fs.FileInfo) bool {
	if info != nil && info.IsDir() {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".txt" || slices.Contains(plainTextExtensions, ext)
}
