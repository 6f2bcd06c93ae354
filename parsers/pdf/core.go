package pdf

import (
	"bytes"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sevigo/docingest/schema"
)

// pdfMagic opens every PDF file, whatever its name.
var pdfMagic = []byte("%PDF-")

// PDFExtractor reads the text layer of PDF documents page by page. Scanned
// pages without a text layer contribute no text.
type PDFExtractor struct {
	logger *slog.Logger
}

// NewPDFExtractor returns the PDF extractor. A nil logger means slog.Default().
func NewPDFExtractor(logger *slog.Logger) schema.Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{logger: logger}
}

func (p *PDFExtractor) Name() string { return "pdf" }

func (p *PDFExtractor) Extensions() []string { return []string{".pdf"} }

// CanHandle accepts .pdf files and, for any other name, files that start with
// the PDF header.
func (p *PDFExtractor) CanHandle(path string, info fs.FileInfo) bool {
	if info != nil && !info.Mode().IsRegular() {
		return false
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return true
	}
	return hasPDFHeader(path)
}

func hasPDFHeader(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	header := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(f, header); err != nil {
		return false
	}
	return bytes.Equal(header, pdfMagic)
}
