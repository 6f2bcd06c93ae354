package docx

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/sevigo/docingest/schema"
)

// DOCXExtractor implements schema.Extractor for Office Open XML documents
type DOCXExtractor struct {
	logger *slog.Logger
}

// NewDOCXExtractor creates a new DOCX extractor
func NewDOCXExtractor(logger *slog.Logger) schema.Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DOCXExtractor{
		logger: logger,
	}
}

func (d *DOCXExtractor) Name() string {
	return "docx"
}

func (d *DOCXExtractor) Extensions() []string {
	return []string{".docx"}
}

func (d *DOCXExtractor) CanHandle(path string, info fs.FileInfo) bool {
	if info != nil && info.IsDir() {
		return false
	}
	return strings.ToLower(filepath.Ext(path)) == ".docx"
}
