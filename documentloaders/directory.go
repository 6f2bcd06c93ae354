package documentloaders

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sevigo/docingest/parsers"
	"github.com/sevigo/docingest/schema"
)

// DirectoryLoader walks a directory tree and ingests every file a registered
// extractor supports. Files are visited in lexical order, so the records come
// out in a stable order.
type DirectoryLoader struct {
	root     string
	registry parsers.ExtractorRegistry
	opts     []Option
	resolved options
}

var _ Loader = (*DirectoryLoader)(nil)

// NewDirectory creates a loader for the tree rooted at root.
func NewDirectory(root string, registry parsers.ExtractorRegistry, opts ...Option) *DirectoryLoader {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &DirectoryLoader{
		root:     root,
		registry: registry,
		opts:     opts,
		resolved: o,
	}
}

// Ingest collects the files under the root and ingests them like FileLoader.
// Files without an extractor are listed in IngestResult.Skipped after the
// files that failed during ingestion.
func (d *DirectoryLoader) Ingest(ctx context.Context) (*IngestResult, error) {
	paths, skipped, err := d.Files(ctx)
	if err != nil {
		return nil, err
	}
	result, err := NewFiles(paths, d.registry, d.opts...).Ingest(ctx)
	if err != nil {
		return nil, err
	}
	result.Skipped = append(result.Skipped, skipped...)
	return result, nil
}

// Load implements Loader.
func (d *DirectoryLoader) Load(ctx context.Context) ([]schema.Document, error) {
	paths, _, err := d.Files(ctx)
	if err != nil {
		return nil, err
	}
	return NewFiles(paths, d.registry, d.opts...).Load(ctx)
}

// Files returns the paths the loader would ingest, and the files it leaves
// out because no extractor handles them or they cannot be read. Files
// excluded by WithExtensions are not reported.
func (d *DirectoryLoader) Files(ctx context.Context) ([]string, []SkippedFile, error) {
	if d.registry == nil {
		return nil, nil, errors.New("extractor registry cannot be nil")
	}
	logger := d.resolved.logger
	exts := normalizeExtensions(d.resolved.extensions)

	var (
		paths   []string
		skipped []SkippedFile
	)
	skip := func(path string, err error) {
		logger.InfoContext(ctx, "Skipping unsupported file", "path", path, "reason", err)
		skipped = append(skipped, SkippedFile{Path: path, Reason: err.Error(), Err: err})
	}

	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == d.root {
				return err
			}
			logger.WarnContext(ctx, "Skipping unreadable path", "path", path, "error", err)
			skipped = append(skipped, SkippedFile{Path: path, Reason: err.Error(), Err: err})
			return nil
		}

		if entry.IsDir() {
			if path != d.root && shouldSkipDir(entry.Name()) {
				logger.DebugContext(ctx, "Skipping excluded directory", "path", path)
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if len(exts) > 0 && !slices.Contains(exts, ext) {
			return nil
		}
		// extension-less files are sniffed by the FileLoader
		if ext != "" {
			info, err := entry.Info()
			if err != nil {
				skip(path, err)
				return nil
			}
			if _, err := d.registry.GetExtractorForFile(path, info); err != nil {
				skip(path, err)
				return nil
			}
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	logger.InfoContext(ctx, "Directory scanned", "root", d.root, "files", len(paths), "skipped", len(skipped))
	return paths, skipped, nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

// shouldSkipDir reports directories that never hold documents worth ingesting:
// version control metadata, dependency trees and build output.
func shouldSkipDir(name string) bool {
	skipDirs := []string{
		".git", ".svn", ".hg",
		"vendor", "node_modules", "__pycache__",
		"build", "dist", "target", "out", "bin",
		".vscode", ".idea", ".vs",
	}
	return slices.Contains(skipDirs, name)
}
