package parsers

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"

	"github.com/sevigo/docingest/schema"
)

var (
	// ErrExtractorNotFound is returned when no extractor is registered under a name
	ErrExtractorNotFound = errors.New("extractor not found")
	// ErrUnsupportedFormat is returned when no extractor handles a file
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// registry implements the ExtractorRegistry interface
type registry struct {
	extractors map[string]schema.Extractor // name -> extractor
	extensions map[string]schema.Extractor // lower-case extension with dot -> extractor
	logger     *slog.Logger
	mu         sync.RWMutex
}

// NewRegistry creates a new, empty extractor registry
func NewRegistry(logger *slog.Logger) ExtractorRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &registry{
		extractors: make(map[string]schema.Extractor),
		extensions: make(map[string]schema.Extractor),
		logger:     logger,
	}
}

// RegisterExtractor adds an extractor to the registry
func (r *registry) RegisterExtractor(extractor schema.Extractor) error {
	if extractor == nil {
		return errors.New("cannot register nil extractor")
	}

	name := extractor.Name()
	if name == "" {
		return errors.New("extractor must have a non-empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.extractors[name]; exists {
		return fmt.Errorf("extractor with name %q already registered", name)
	}

	r.extractors[name] = extractor
	for _, ext := range extractor.Extensions() {
		if ext = normalizeExt(ext); ext != "" {
			r.extensions[ext] = extractor
		}
	}

	r.logger.Debug("Registered extractor", "name", name, "extensions", extractor.Extensions())
	return nil
}

// GetExtractor retrieves an extractor by name
func (r *registry) GetExtractor(name string) (schema.Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	extractor, ok := r.extractors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrExtractorNotFound, name)
	}
	return extractor, nil
}

// GetExtractorForFile returns the extractor for a file. The extension decides
// first, then each extractor's CanHandle; files without an extension that no
// extractor claims are sniffed for their content type.
func (r *registry) GetExtractorForFile(path string, info fs.FileInfo) (schema.Extractor, error) {
	if info != nil && info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnsupportedFormat, path)
	}

	if ext := filepath.Ext(path); ext != "" {
		if extractor, err := r.GetExtractorForExtension(ext); err == nil {
			return extractor, nil
		}
	}

	// extractors may claim files their extension list does not cover
	if extractor := r.claimedBy(path, info); extractor != nil {
		return extractor, nil
	}
	if filepath.Ext(path) != "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot detect type of %s: %w", ErrUnsupportedFormat, path, err)
	}
	for m := mtype; m != nil; m = m.Parent() {
		if m.Extension() == "" {
			continue
		}
		if extractor, err := r.GetExtractorForExtension(m.Extension()); err == nil {
			r.logger.Debug("Extractor selected by content type", "path", path, "mime", mtype.String())
			return extractor, nil
		}
	}

	return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedFormat, path, mtype.String())
}

// claimedBy asks every extractor, in name order, whether it handles path.
func (r *registry) claimedBy(path string, info fs.FileInfo) schema.Extractor {
	for _, extractor := range r.GetAllExtractors() {
		if extractor.CanHandle(path, info) {
			r.logger.Debug("Extractor selected by CanHandle", "path", path, "extractor", extractor.Name())
			return extractor
		}
	}
	return nil
}

// GetExtractorForExtension returns the extractor for a file extension
func (r *registry) GetExtractorForExtension(ext string) (schema.Extractor, error) {
	ext = normalizeExt(ext)
	if ext == "" {
		return nil, fmt.Errorf("%w: empty extension", ErrUnsupportedFormat)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	extractor, ok := r.extensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w: extension %s", ErrUnsupportedFormat, ext)
	}
	return extractor, nil
}

// GetAllExtractors returns all registered extractors sorted by name
func (r *registry) GetAllExtractors() []schema.Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	extractors := make([]schema.Extractor, 0, len(r.extractors))
	for _, extractor := range r.extractors {
		extractors = append(extractors, extractor)
	}
	sort.Slice(extractors, func(i, j int) bool {
		return extractors[i].Name() < extractors[j].Name()
	})
	return extractors
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if ext[0] != '.' {
		ext = "." + ext
	}
	return ext
}
