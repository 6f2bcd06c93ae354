package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

const pageSeparator = "\n"

var (
	// ErrNoPages is returned for a PDF without any page
	ErrNoPages = errors.New("pdf has no pages")

	horizontalSpace = regexp.MustCompile(`[ \t]+`)
	blankLines      = regexp.MustCompile(`\n[ \t]*\n`)
	manyNewlines    = regexp.MustCompile(`\n{3,}`)
)

// Extract returns the text of every page joined by newlines. Pages whose plain
// text cannot be decoded fall back to their raw text runs.
func (p *PDFExtractor) Extract(ctx context.Context, filePath string) (text string, err error) {
	// the pdf package panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read PDF %s: %v", filePath, r)
		}
	}()

	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF file %s: %w", filePath, err)
	}
	defer f.Close()

	fsInfo, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to get file info for %s: %w", filePath, err)
	}

	pdfReader, err := pdf.NewReader(f, fsInfo.Size())
	if err != nil {
		return "", fmt.Errorf("failed to create PDF reader for %s: %w", filePath, err)
	}

	numPages := pdfReader.NumPage()
	if numPages == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoPages, filePath)
	}

	p.logger.DebugContext(ctx, "PDF text extraction starting", "path", filePath, "pages", numPages)

	pageTexts := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := pdfReader.Page(i)
		if page.V.IsNull() {
			p.logger.WarnContext(ctx, "Skipping null page", "page", i, "path", filePath)
			continue
		}
		pageTexts = append(pageTexts, p.extractPageText(ctx, page, i, filePath))
	}

	p.logger.DebugContext(ctx, "PDF text extraction finished", "path", filePath, "pages", len(pageTexts))
	return strings.Join(pageTexts, pageSeparator), nil
}

// extractPageText extracts text from a single PDF page
func (p *PDFExtractor) extractPageText(ctx context.Context, page pdf.Page, pageNum int, filePath string) string {
	if pageContent, err := page.GetPlainText(nil); err == nil && strings.TrimSpace(pageContent) != "" {
		return cleanExtractedText(pageContent)
	}

	var textBuilder bytes.Buffer
	content := page.Content()
	for i, token := range content.Text {
		textBuilder.WriteString(token.S)
		if i < len(content.Text)-1 && !strings.HasSuffix(token.S, " ") && !strings.HasSuffix(token.S, "\n") {
			textBuilder.WriteString(" ")
		}
	}
	if extracted := textBuilder.String(); strings.TrimSpace(extracted) != "" {
		return cleanExtractedText(extracted)
	}

	p.logger.DebugContext(ctx, "No text extracted from page", "page", pageNum, "path", filePath)
	return ""
}

// cleanExtractedText normalizes whitespace in extracted text
func cleanExtractedText(text string) string {
	text = horizontalSpace.ReplaceAllString(text, " ")
	text = blankLines.ReplaceAllString(text, "\n\n")
	text = manyNewlines.ReplaceAllString(text, "\n\n")
	text = strings.ReplaceAll(text, "ﬂ", "fl")
	text = strings.ReplaceAll(text, "ﬁ", "fi")
	return strings.TrimSpace(text)
}
