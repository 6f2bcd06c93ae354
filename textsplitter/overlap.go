package textsplitter

import (
	"unicode/utf8"

	"github.com/sevigo/docingest/schema"
)

// ApplyOverlap turns split pieces into chunks. Every chunk after the first is
// prefixed with up to cfg.Overlap trailing characters of the previous chunk's
// final text. The prefix may push a chunk past cfg.MaxChunkSize; the overlap
// wins over the bound at the join.
//
// ApplyOverlap does not know the source text, so Start and End stay zero.
func ApplyOverlap(pieces []string, cfg ChunkConfig) ([]schema.Chunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	chunks := make([]schema.Chunk, 0, len(pieces))
	prev := ""
	for i, piece := range pieces {
		chunk := withOverlap(i, prev, piece, cfg.Overlap)
		chunks = append(chunks, chunk)
		prev = chunk.Text
	}
	return chunks, nil
}

func overlapSpans(text string, spans []span, overlap int) []schema.Chunk {
	chunks := make([]schema.Chunk, 0, len(spans))
	prev := ""
	for i, p := range spans {
		chunk := withOverlap(i, prev, text[p.start:p.end], overlap)
		chunk.Start, chunk.End = p.start, p.end
		chunks = append(chunks, chunk)
		prev = chunk.Text
	}
	return chunks
}

func withOverlap(index int, prev, piece string, overlap int) schema.Chunk {
	if index == 0 || overlap == 0 {
		return schema.Chunk{Text: piece, Index: index}
	}
	prefix := lastChars(prev, overlap)
	return schema.Chunk{
		Text:    prefix + piece,
		Index:   index,
		Overlap: utf8.RuneCountInString(prefix),
	}
}

// lastChars returns the last n characters of s, or all of s if it is shorter.
func lastChars(s string, n int) string {
	i := len(s)
	for ; n > 0 && i > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
	}
	return s[i:]
}
