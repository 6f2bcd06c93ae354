package textsplitter

import (
	"fmt"
	"log/slog"
	"slices"
)

// ChunkConfig controls how text is split. All sizes are measured in
// characters (Unicode code points).
type ChunkConfig struct {
	MaxChunkSize int
	Overlap      int
	// Separators are tried in order, most structural first. The empty
	// string splits into single characters and should come last.
	Separators []string
}

// DefaultChunkConfig returns a config with a 500 character bound, 50
// characters of overlap and the default separator hierarchy.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		MaxChunkSize: DefaultChunkSize,
		Overlap:      DefaultChunkOverlap,
		Separators:   DefaultSeparators(),
	}
}

// Validate reports whether the config can be used for splitting.
func (c ChunkConfig) Validate() error {
	if c.MaxChunkSize <= 0 {
		return fmt.Errorf("%w: max chunk size must be positive, got %d", ErrInvalidConfig, c.MaxChunkSize)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("%w: overlap cannot be negative, got %d", ErrInvalidConfig, c.Overlap)
	}
	if c.Overlap >= c.MaxChunkSize {
		return fmt.Errorf("%w: overlap (%d) must be smaller than max chunk size (%d)",
			ErrInvalidConfig, c.Overlap, c.MaxChunkSize)
	}
	if len(c.Separators) == 0 {
		return fmt.Errorf("%w: at least one separator is required", ErrInvalidConfig)
	}
	return nil
}

// options holds configuration settings for the text splitter.
type options struct {
	config ChunkConfig
	logger *slog.Logger
}

// Option is a function type for configuring the splitter.
type Option func(*options)

// WithChunkSize sets the maximum chunk size.
func WithChunkSize(size int) Option {
	return func(o *options) {
		o.config.MaxChunkSize = size
	}
}

// WithChunkOverlap sets the chunk overlap.
func WithChunkOverlap(overlap int) Option {
	return func(o *options) {
		o.config.Overlap = overlap
	}
}

// WithSeparators replaces the separator hierarchy.
func WithSeparators(separators ...string) Option {
	return func(o *options) {
		o.config.Separators = slices.Clone(separators)
	}
}

// WithChunkConfig replaces the whole chunk config.
func WithChunkConfig(cfg ChunkConfig) Option {
	return func(o *options) {
		o.config = cfg
		o.config.Separators = slices.Clone(cfg.Separators)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
