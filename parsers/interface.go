package parsers

import (
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/sevigo/docingest/parsers/docx"
	"github.com/sevigo/docingest/parsers/html"
	"github.com/sevigo/docingest/parsers/markdown"
	"github.com/sevigo/docingest/parsers/pdf"
	"github.com/sevigo/docingest/parsers/text"
	"github.com/sevigo/docingest/schema"
)

// ExtractorRegistry tracks registered format extractors
type ExtractorRegistry interface {
	RegisterExtractor(extractor schema.Extractor) error
	GetExtractor(name string) (schema.Extractor, error)
	GetExtractorForFile(path string, info fs.FileInfo) (schema.Extractor, error)
	GetExtractorForExtension(ext string) (schema.Extractor, error)
	GetAllExtractors() []schema.Extractor
}

// RegisterDefaultExtractors initializes a registry with the PDF, DOCX, HTML,
// plain text and Markdown extractors.
func RegisterDefaultExtractors(logger *slog.Logger) (ExtractorRegistry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	registry := NewRegistry(logger)

	factories := []struct {
		name    string
		factory func(*slog.Logger) schema.Extractor
	}{
		{"pdf", pdf.NewPDFExtractor},
		{"docx", docx.NewDOCXExtractor},
		{"html", html.NewHTMLExtractor},
		{"text", text.NewTextExtractor},
		{"markdown", markdown.NewMarkdownExtractor},
	}

	for _, f := range factories {
		extractor := f.factory(logger.With("extractor", f.name))
		if err := registry.RegisterExtractor(extractor); err != nil {
			return registry, fmt.Errorf("failed to register extractor %s: %w", f.name, err)
		}
	}

	logger.Debug("Extractors registered", "count", len(registry.GetAllExtractors()))
	return registry, nil
}
