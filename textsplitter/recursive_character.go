package textsplitter

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"unicode/utf8"

	"github.com/sevigo/docingest/schema"
)

// RecursiveCharacter is a text splitter that recursively tries to split text
// using a list of separators. It aims to keep paragraphs, then lines, then
// words together as long as the size bound allows.
type RecursiveCharacter struct {
	config ChunkConfig
	logger *slog.Logger
}

var _ TextSplitter = (*RecursiveCharacter)(nil)

// NewRecursiveCharacter creates a new RecursiveCharacter text splitter.
// It returns ErrInvalidConfig if the resulting config cannot be used.
func NewRecursiveCharacter(opts ...Option) (*RecursiveCharacter, error) {
	o := options{
		config: DefaultChunkConfig(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.config.Validate(); err != nil {
		return nil, err
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return &RecursiveCharacter{
		config: o.config,
		logger: o.logger.With("component", "recursive_character_splitter"),
	}, nil
}

// Config returns a copy of the splitter's config.
func (s *RecursiveCharacter) Config() ChunkConfig {
	cfg := s.config
	cfg.Separators = append([]string(nil), s.config.Separators...)
	return cfg
}

// SplitText splits a single text into overlapping chunk texts.
func (s *RecursiveCharacter) SplitText(ctx context.Context, text string) ([]string, error) {
	chunks, err := s.ChunkText(ctx, text)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return texts, nil
}

// ChunkText splits text into indexed, overlapping chunks. Pieces that cannot
// be reduced below the size bound are kept whole and logged.
func (s *RecursiveCharacter) ChunkText(ctx context.Context, text string) ([]schema.Chunk, error) {
	sp := splitter{
		maxSize: s.config.MaxChunkSize,
		onOversized: func(piece span, size int) {
			s.logger.WarnContext(ctx, "Emitting oversized atomic unit",
				"start", piece.start,
				"end", piece.end,
				"chars", size,
				"max_chunk_size", s.config.MaxChunkSize,
			)
		},
	}
	spans := sp.split(text, span{0, len(text)}, s.config.Separators)
	chunks := overlapSpans(text, spans, s.config.Overlap)

	s.logger.DebugContext(ctx, "Text split", "chars", utf8.RuneCountInString(text), "chunks", len(chunks))
	return chunks, nil
}

// SplitDocuments splits every document into one document per chunk. The
// source metadata is copied and annotated with the chunk position.
func (s *RecursiveCharacter) SplitDocuments(ctx context.Context, docs []schema.Document) ([]schema.Document, error) {
	finalDocs := make([]schema.Document, 0, len(docs))
	for _, doc := range docs {
		chunks, err := s.ChunkText(ctx, doc.PageContent)
		if err != nil {
			return nil, fmt.Errorf("failed to split document %v: %w", doc.Metadata["source"], err)
		}
		for _, chunk := range chunks {
			metadata := make(map[string]any, len(doc.Metadata)+3)
			maps.Copy(metadata, doc.Metadata)
			metadata["chunk_index"] = chunk.Index
			metadata["section"] = schema.SectionName(chunk.Index)
			metadata["total_chunks"] = len(chunks)
			finalDocs = append(finalDocs, schema.NewDocument(chunk.Text, metadata))
		}
	}
	return finalDocs, nil
}

// Split splits text into pieces of at most cfg.MaxChunkSize characters,
// without overlap. Every piece is a substring of text, and the text between
// consecutive pieces consists only of separators.
func Split(text string, cfg ChunkConfig) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sp := splitter{maxSize: cfg.MaxChunkSize}
	spans := sp.split(text, span{0, len(text)}, cfg.Separators)

	pieces := make([]string, len(spans))
	for i, p := range spans {
		pieces[i] = text[p.start:p.end]
	}
	return pieces, nil
}

// Chunk splits text and applies the configured overlap. Chunk offsets refer
// to positions in text.
func Chunk(text string, cfg ChunkConfig) ([]schema.Chunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sp := splitter{maxSize: cfg.MaxChunkSize}
	spans := sp.split(text, span{0, len(text)}, cfg.Separators)
	return overlapSpans(text, spans, cfg.Overlap), nil
}

type splitter struct {
	maxSize     int
	onOversized func(piece span, size int)
}

// split returns the pieces of text[seg.start:seg.end] in order.
func (sp splitter) split(text string, seg span, separators []string) []span {
	if seg.empty() {
		return nil
	}
	if size := utf8.RuneCountInString(text[seg.start:seg.end]); size <= sp.maxSize {
		return []span{seg}
	} else if len(separators) == 0 {
		// Only reachable when the hierarchy does not end with "".
		if sp.onOversized != nil {
			sp.onOversized(seg, size)
		}
		return []span{seg}
	}

	separator, remaining := separators[0], separators[1:]
	sepSize := utf8.RuneCountInString(separator)

	var (
		pieces  []span
		acc     span
		accSize int
		open    bool
	)
	// An accumulator made of empty segments only is dropped, so runs of
	// separators end up between pieces rather than as empty pieces.
	flush := func() {
		if open && accSize > 0 {
			pieces = append(pieces, acc)
		}
		open, accSize = false, 0
	}

	for _, part := range segments(text, seg, separator) {
		size := utf8.RuneCountInString(text[part.start:part.end])
		if size > sp.maxSize {
			flush()
			pieces = append(pieces, sp.split(text, part, remaining)...)
			continue
		}
		if open && accSize > 0 && accSize+sepSize+size <= sp.maxSize {
			acc.end = part.end
			accSize += sepSize + size
			continue
		}
		flush()
		acc, accSize, open = part, size, true
	}
	flush()

	return pieces
}

// segments cuts seg at every occurrence of separator, dropping the separator.
// The empty separator yields one segment per character.
func segments(text string, seg span, separator string) []span {
	if separator == "" {
		parts := make([]span, 0, seg.end-seg.start)
		for i := seg.start; i < seg.end; {
			_, size := utf8.DecodeRuneInString(text[i:seg.end])
			parts = append(parts, span{i, i + size})
			i += size
		}
		return parts
	}

	var parts []span
	pos := seg.start
	for {
		idx := strings.Index(text[pos:seg.end], separator)
		if idx < 0 {
			break
		}
		parts = append(parts, span{pos, pos + idx})
		pos += idx + len(separator)
	}
	return append(parts, span{pos, seg.end})
}
