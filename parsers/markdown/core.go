// core.go - Main extractor file with goldmark integration
package markdown

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/sevigo/docingest/schema"
)

const frontMatterSeparator = "---"

// MarkdownExtractor implements schema.Extractor for Markdown files using goldmark
type MarkdownExtractor struct {
	logger   *slog.Logger
	markdown goldmark.Markdown
}

// NewMarkdownExtractor creates a new Markdown extractor with goldmark
func NewMarkdownExtractor(logger *slog.Logger) schema.Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &MarkdownExtractor{
		logger:   logger,
		markdown: initializeGoldmark(),
	}
}

// initializeGoldmark creates and configures the goldmark parser
func initializeGoldmark() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // tables, strikethrough, autolinks, task lists
		),
	)
}

// Name returns "markdown" as the extractor name
func (p *MarkdownExtractor) Name() string {
	return "markdown"
}

// Extensions returns file extensions for Markdown
func (p *MarkdownExtractor) Extensions() []string {
	return []string{".md", ".markdown"}
}

// CanHandle determines if this extractor can process the given file
func (p *MarkdownExtractor) CanHandle(path string, info fs.FileInfo) bool {
	if info != nil && info.IsDir() {
		return false
	}

	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}
