package html

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// skipped elements hold code or markup, not readable text
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Template: true,
}

// Extract parses the page, honouring its declared charset, and returns every
// text node on its own line. Whitespace-only nodes are dropped.
func (h *HTMLExtractor) Extract(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading file %s: %w", path, err)
	}

	enc, encName, _ := charset.DetermineEncoding(data, "text/html")
	doc, err := html.Parse(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("parsing HTML %s: %w", path, err)
	}

	var lines []string
	collectText(doc, &lines)

	h.logger.DebugContext(ctx, "HTML text extracted", "path", path, "charset", encName, "text_nodes", len(lines))
	return strings.Join(lines, "\n"), nil
}

func collectText(n *html.Node, lines *[]string) {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) != "" {
			*lines = append(*lines, n.Data)
		}
		return
	case html.ElementNode:
		if skipped[n.DataAtom] {
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, lines)
	}
}
