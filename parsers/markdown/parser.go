// parser.go - Goldmark-based plain text rendering
package markdown

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// Extract returns the document's readable text: one block per paragraph,
// heading, list item, code block or table row, separated by blank lines.
// A front matter title, if any, comes first.
func (p *MarkdownExtractor) Extract(ctx context.Context, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading markdown file %s: %w", path, err)
	}

	content := strings.ReplaceAll(string(raw), "\r\n", "\n")
	title, body := p.splitFrontMatter(content)

	source := []byte(body)
	doc := p.markdown.Parser().Parse(text.NewReader(source))

	blocks, err := renderBlocks(doc, source)
	if err != nil {
		return "", fmt.Errorf("rendering markdown file %s: %w", path, err)
	}
	if title != "" {
		blocks = append([]string{title}, blocks...)
	}

	p.logger.DebugContext(ctx, "Markdown text extracted", "path", path, "blocks", len(blocks))
	return strings.Join(blocks, "\n\n"), nil
}

// splitFrontMatter separates a leading YAML front matter block from the body
// and returns its title.
func (p *MarkdownExtractor) splitFrontMatter(content string) (string, string) {
	lines := strings.Split(content, "\n")
	if len(lines) < 3 || lines[0] != frontMatterSeparator {
		return "", content
	}

	endIdx := -1
	for i := 1; i < len(lines); i++ {
		if lines[i] == frontMatterSeparator {
			endIdx = i
			break
		}
	}
	if endIdx <= 1 {
		p.logger.Debug("Invalid frontmatter structure - no closing separator found")
		return "", content
	}

	body := strings.Join(lines[endIdx+1:], "\n")

	var frontMatter map[string]any
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:endIdx], "\n")), &frontMatter); err != nil {
		p.logger.Debug("Failed to parse YAML frontmatter", "error", err)
		return "", body
	}
	if title, ok := frontMatter["title"].(string); ok {
		return strings.TrimSpace(title), body
	}
	return "", body
}

// renderBlocks walks the AST and collects the plain text of every leaf block.
// Code blocks keep their lines untouched apart from the final line break.
func renderBlocks(doc ast.Node, source []byte) ([]string, error) {
	var (
		blocks  []string
		current strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			blocks = append(blocks, s)
		}
		current.Reset()
	}

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				current.Write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					current.WriteString("\n")
				}
			}
			return ast.WalkContinue, nil
		case *ast.String:
			if entering {
				current.Write(node.Value)
			}
			return ast.WalkContinue, nil
		case *ast.AutoLink:
			if entering {
				current.Write(node.Label(source))
			}
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			if entering {
				flush()
				var code strings.Builder
				lines := node.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					code.Write(seg.Value(source))
				}
				if text := strings.TrimSuffix(code.String(), "\n"); strings.TrimSpace(text) != "" {
					blocks = append(blocks, text)
				}
			}
			return ast.WalkSkipChildren, nil
		case *extast.TableCell:
			if !entering {
				current.WriteString("\t")
			}
			return ast.WalkContinue, nil
		}

		if !entering && n.Type() == ast.TypeBlock {
			flush()
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	flush()

	return blocks, nil
}
