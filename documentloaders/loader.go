// Package documentloaders turns document files into chunked records ready
// for retrieval pipelines.
package documentloaders

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/sevigo/docingest/schema"
	"github.com/sevigo/docingest/textsplitter"
)

// Loader defines the interface for loading documents from various sources.
type Loader interface {
	// Load retrieves documents from the source. The context can be used for
	// cancellation and timeout control during the loading process.
	Load(ctx context.Context) ([]schema.Document, error)
}

// defaultMaxFileSize skips files that are too large to hold in memory comfortably.
const defaultMaxFileSize = 64 * 1024 * 1024

type options struct {
	logger      *slog.Logger
	chunkConfig textsplitter.ChunkConfig
	concurrency int
	location    *time.Location
	maxFileSize int64
	extensions  []string
}

func defaultOptions() options {
	return options{
		logger:      slog.Default(),
		chunkConfig: textsplitter.DefaultChunkConfig(),
		concurrency: runtime.NumCPU(),
		location:    time.Local,
		maxFileSize: defaultMaxFileSize,
	}
}

// Option defines functional options for configuring loaders.
type Option func(*options)

// WithLogger sets a custom logger. If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithChunkConfig sets the chunking parameters. The config is validated when
// loading starts.
func WithChunkConfig(cfg textsplitter.ChunkConfig) Option {
	return func(o *options) {
		o.chunkConfig = cfg
	}
}

// WithConcurrency sets how many files are processed in parallel. Values
// below one select the number of CPUs.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		o.concurrency = n
	}
}

// WithLocation sets the time zone used for chunk timestamps.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithMaxFileSize skips files larger than size bytes.
func WithMaxFileSize(size int64) Option {
	return func(o *options) {
		if size > 0 {
			o.maxFileSize = size
		}
	}
}

// WithExtensions restricts a DirectoryLoader to files with these extensions.
func WithExtensions(exts ...string) Option {
	return func(o *options) {
		o.extensions = append(o.extensions, exts...)
	}
}
