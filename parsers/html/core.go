package html

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sevigo/docingest/schema"
)

// HTMLExtractor implements schema.Extractor for HTML pages
type HTMLExtractor struct {
	logger *slog.Logger
}

// NewHTMLExtractor creates a new HTML extractor
func NewHTMLExtractor(logger *slog.Logger) schema.Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTMLExtractor{
		logger: logger,
	}
}

func (h *HTMLExtractor) Name() string {
	return "html"
}

func (h *HTMLExtractor) Extensions() []string {
	return []string{".html", ".htm"}
}

func (h *HTMLExtractor) CanHandle(path string, info fs.FileInfo) bool {
	if info != nil && info.IsDir() {
		return false
	}
	return slices.Contains(h.Extensions(), strings.ToLower(filepath.Ext(path)))
}
