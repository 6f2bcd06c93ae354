package schema

import (
	"fmt"
)

// Document is a piece of text together with arbitrary metadata. Loaders emit
// one Document per chunk.
type Document struct {
	PageContent string
	Metadata    map[string]any
}

func (d Document) String() string {
	return d.PageContent
}

func NewDocument(content string, metadata map[string]any) Document {
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return Document{
		PageContent: content,
		Metadata:    metadata,
	}
}

// Chunk is a bounded span of document text with its position in the output
// sequence.
type Chunk struct {
	Text  string `json:"text"`
	Index int    `json:"index"`
	// Start and End are byte offsets of the split piece inside the raw text.
	// Overlap copied from the previous chunk is not covered by them.
	Start int `json:"start"`
	End   int `json:"end"`
	// Overlap is the number of characters prepended from the previous chunk.
	Overlap int `json:"overlap"`
}

// SectionName returns the section label used in chunk metadata.
func SectionName(index int) string {
	return fmt.Sprintf("chunk_%d", index)
}

type ChunkMetadata struct {
	Filename  string `json:"filename" yaml:"filename"`
	Section   string `json:"section" yaml:"section"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// ChunkRecord is the final unit handed to downstream consumers.
type ChunkRecord struct {
	ID       string        `json:"id" yaml:"id"`
	Text     string        `json:"text" yaml:"text"`
	Metadata ChunkMetadata `json:"metadata" yaml:"metadata"`
}

// ToDocument converts the record into a Document, flattening the metadata.
func (r ChunkRecord) ToDocument() Document {
	return NewDocument(r.Text, map[string]any{
		"id":        r.ID,
		"filename":  r.Metadata.Filename,
		"section":   r.Metadata.Section,
		"timestamp": r.Metadata.Timestamp,
	})
}
