package text

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// Extract reads the file, detects its character encoding and returns the
// decoded text with a leading byte order mark removed and line endings
// normalized to "\n".
func (p *TextExtractor) Extract(ctx context.Context, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading text file %s: %w", path, err)
	}

	text, encName, err := decode(raw)
	if err != nil {
		return "", fmt.Errorf("decoding %s as %s: %w", path, encName, err)
	}

	p.logger.DebugContext(ctx, "Text file decoded", "path", path, "encoding", encName, "bytes", len(raw))
	return text, nil
}

// decode detects the encoding from byte order marks, the sniffed content type
// and UTF-8 validity, falling back to windows-1252.
func decode(raw []byte) (string, string, error) {
	contentType := mimetype.Detect(raw).String()
	enc, name, _ := charset.DetermineEncoding(raw, contentType)

	decoded, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return "", name, err
	}

	text := strings.TrimPrefix(string(decoded), "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return text, name, nil
}
