package documentloaders

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sevigo/docingest/parsers"
	"github.com/sevigo/docingest/schema"
	"github.com/sevigo/docingest/textsplitter"
)

// recordNamespace scopes the name-based UUIDs of chunk records.
var recordNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/sevigo/docingest/records"))

// ErrFileTooLarge is reported for files above the configured size limit.
var ErrFileTooLarge = errors.New("file too large")

// SkippedFile describes a file that produced no records.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// IngestResult holds the records of every processed file, in input order,
// and the files that were skipped.
type IngestResult struct {
	Records []schema.ChunkRecord
	Skipped []SkippedFile
}

// FileLoader extracts, chunks and annotates an explicit list of files.
//
// Files are processed concurrently, but records are returned in the order of
// the input paths and, within a file, in chunk order. A file that cannot be
// extracted is logged and skipped; the rest of the batch continues.
type FileLoader struct {
	paths    []string
	registry parsers.ExtractorRegistry
	opts     options
}

var _ Loader = (*FileLoader)(nil)

// NewFiles creates a loader for the given file paths.
func NewFiles(paths []string, registry parsers.ExtractorRegistry, opts ...Option) *FileLoader {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &FileLoader{
		paths:    paths,
		registry: registry,
		opts:     o,
	}
}

type fileResult struct {
	path    string
	records []schema.ChunkRecord
	skipped *SkippedFile
}

// Ingest processes every file and returns its chunk records. It fails only on
// an invalid chunk config or a cancelled context; per-file problems end up in
// IngestResult.Skipped.
func (l *FileLoader) Ingest(ctx context.Context) (*IngestResult, error) {
	results, err := l.run(ctx)
	if err != nil {
		return nil, err
	}

	out := &IngestResult{}
	for _, res := range results {
		out.Records = append(out.Records, res.records...)
		if res.skipped != nil {
			out.Skipped = append(out.Skipped, *res.skipped)
		}
	}
	return out, nil
}

// Load implements Loader. Every chunk becomes one document whose metadata
// holds the record fields plus its source path and position.
func (l *FileLoader) Load(ctx context.Context) ([]schema.Document, error) {
	results, err := l.run(ctx)
	if err != nil {
		return nil, err
	}

	var docs []schema.Document
	for _, res := range results {
		for i, record := range res.records {
			doc := record.ToDocument()
			doc.Metadata["source"] = res.path
			doc.Metadata["chunk_index"] = i
			doc.Metadata["total_chunks"] = len(res.records)
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// run processes the files with a bounded worker pool. Results keep the order
// of l.paths.
func (l *FileLoader) run(ctx context.Context) ([]fileResult, error) {
	if l.registry == nil {
		return nil, errors.New("extractor registry cannot be nil")
	}
	logger := l.opts.logger
	splitter, err := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkConfig(l.opts.chunkConfig),
		textsplitter.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Starting ingestion", "files", len(l.paths), "concurrency", l.opts.concurrency)

	results := make([]fileResult, len(l.paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.concurrency)

	for i, path := range l.paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := l.processFile(gctx, splitter, path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	skipped, records := 0, 0
	for _, res := range results {
		records += len(res.records)
		if res.skipped != nil {
			skipped++
		}
	}
	logger.InfoContext(ctx, "Ingestion completed",
		"files", len(l.paths),
		"skipped", skipped,
		"records", records,
	)
	return results, nil
}

// processFile returns an error only when processing must stop altogether.
func (l *FileLoader) processFile(ctx context.Context, splitter *textsplitter.RecursiveCharacter, path string) (fileResult, error) {
	logger := l.opts.logger
	skip := func(err error) (fileResult, error) {
		logger.WarnContext(ctx, "Skipping file", "path", path, "reason", err)
		return fileResult{path: path, skipped: &SkippedFile{Path: path, Reason: err.Error(), Err: err}}, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return skip(fmt.Errorf("cannot stat file: %w", err))
	}
	if info.Size() > l.opts.maxFileSize {
		return skip(fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, info.Size(), l.opts.maxFileSize))
	}

	extractor, err := l.registry.GetExtractorForFile(path, info)
	if err != nil {
		return skip(err)
	}

	text, err := extractor.Extract(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fileResult{}, ctxErr
		}
		return skip(fmt.Errorf("%s extraction failed: %w", extractor.Name(), err))
	}

	chunks, err := splitter.ChunkText(ctx, text)
	if err != nil {
		return fileResult{}, err
	}

	meta := fileMetadata{
		path:      path,
		filename:  filepath.Base(path),
		timestamp: info.ModTime().In(l.opts.location).Format(time.RFC3339Nano),
	}
	records := make([]schema.ChunkRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = meta.record(chunk)
	}

	logger.DebugContext(ctx, "File processed",
		"path", path,
		"extractor", extractor.Name(),
		"chars", len(text),
		"chunks", len(chunks),
	)
	return fileResult{path: path, records: records}, nil
}

type fileMetadata struct {
	path      string
	filename  string
	timestamp string
}

func (m fileMetadata) record(chunk schema.Chunk) schema.ChunkRecord {
	section := schema.SectionName(chunk.Index)
	return schema.ChunkRecord{
		ID:   uuid.NewSHA1(recordNamespace, []byte(m.path+"#"+section)).String(),
		Text: chunk.Text,
		Metadata: schema.ChunkMetadata{
			Filename:  m.filename,
			Section:   section,
			Timestamp: m.timestamp,
		},
	}
}
