package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	documentPart = "word/document.xml"
	wordMLNS     = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
)

// ErrInvalidDocument is returned when the archive has no main document part
var ErrInvalidDocument = errors.New("invalid DOCX document")

// Extract returns the non-blank paragraphs of the main document part, one per
// line, in document order. Table cell paragraphs are included.
func (d *DOCXExtractor) Extract(ctx context.Context, path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("opening DOCX archive %s: %w", path, err)
	}
	defer zr.Close()

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return "", fmt.Errorf("%w: %s has no %s", ErrInvalidDocument, path, documentPart)
	}

	rc, err := part.Open()
	if err != nil {
		return "", fmt.Errorf("opening %s in %s: %w", documentPart, path, err)
	}
	defer rc.Close()

	paragraphs, err := readParagraphs(ctx, rc)
	if err != nil {
		return "", fmt.Errorf("parsing %s in %s: %w", documentPart, path, err)
	}

	d.logger.DebugContext(ctx, "DOCX text extracted", "path", path, "paragraphs", len(paragraphs))
	return strings.Join(paragraphs, "\n"), nil
}

// readParagraphs streams the document XML and collects the text of each w:p.
func readParagraphs(ctx context.Context, r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs []string
		open       []*strings.Builder
		inText     bool
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordMLNS {
				continue
			}
			switch t.Name.Local {
			case "p":
				open = append(open, &strings.Builder{})
			case "t":
				inText = true
			case "tab":
				if len(open) > 0 {
					open[len(open)-1].WriteString("\t")
				}
			case "br", "cr":
				if len(open) > 0 {
					open[len(open)-1].WriteString("\n")
				}
			}
		case xml.EndElement:
			if t.Name.Space != wordMLNS {
				continue
			}
			switch t.Name.Local {
			case "p":
				if len(open) == 0 {
					continue
				}
				text := open[len(open)-1].String()
				open = open[:len(open)-1]
				if strings.TrimSpace(text) != "" {
					paragraphs = append(paragraphs, text)
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText && len(open) > 0 {
				open[len(open)-1].Write(t)
			}
		}
	}

	return paragraphs, nil
}
