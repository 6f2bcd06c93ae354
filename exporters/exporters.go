// Package exporters serializes chunk records for downstream consumers.
package exporters

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sevigo/docingest/schema"
)

// ErrUnknownFormat is returned for an output format that has no writer.
var ErrUnknownFormat = errors.New("unknown output format")

// Format names an output encoding.
type Format string

const (
	// FormatJSON writes one indented JSON array.
	FormatJSON Format = "json"
	// FormatJSONL writes one JSON object per line.
	FormatJSONL Format = "jsonl"
	// FormatYAML writes a YAML sequence.
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatJSONL, FormatYAML}
}

// ParseFormat resolves a format name, ignoring case. "yml" and "ndjson" are
// accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Write encodes records to w in the given format. A nil or empty slice is
// written as an empty collection.
func Write(w io.Writer, records []schema.ChunkRecord, format Format) error {
	if records == nil {
		records = []schema.ChunkRecord{}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case FormatJSONL:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		for i, record := range records {
			if err := enc.Encode(record); err != nil {
				return fmt.Errorf("failed to encode record %d: %w", i, err)
			}
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
