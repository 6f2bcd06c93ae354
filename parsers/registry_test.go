package parsers_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/docingest/parsers"
	ptesting "github.com/sevigo/docingest/parsers/testing"
	"github.com/sevigo/docingest/schema/fake"
)

// readmeExtractor registers no extensions and claims README files by name.
type readmeExtractor struct {
	*fake.Extractor
}

func (e readmeExtractor) CanHandle(path string, _ fs.FileInfo) bool {
	return strings.HasPrefix(filepath.Base(path), "README")
}

func newTestRegistry(t *testing.T) (parsers.ExtractorRegistry, *ptesting.LogBuffer) {
	t.Helper()
	logger, logs := ptesting.NewTestLogger(t)
	registry := parsers.NewRegistry(logger)
	require.NoError(t, registry.RegisterExtractor(fake.NewExtractor("text", ".txt", "TEXT")))
	require.NoError(t, registry.RegisterExtractor(readmeExtractor{fake.NewExtractor("readme")}))
	return registry, logs
}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestRegistry_RegisterExtractor(t *testing.T) {
	registry, _ := newTestRegistry(t)

	err := registry.RegisterExtractor(fake.NewExtractor("text", ".md"))
	assert.ErrorContains(t, err, "already registered")
	assert.Error(t, registry.RegisterExtractor(nil))
	assert.Error(t, registry.RegisterExtractor(fake.NewExtractor("")))

	names := []string{}
	for _, e := range registry.GetAllExtractors() {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"readme", "text"}, names)

	_, err = registry.GetExtractor("pdf")
	assert.ErrorIs(t, err, parsers.ErrExtractorNotFound)
}

func TestRegistry_GetExtractorForExtension(t *testing.T) {
	registry, _ := newTestRegistry(t)

	for _, ext := range []string{".txt", "txt", ".TXT", " .Txt "} {
		extractor, err := registry.GetExtractorForExtension(ext)
		require.NoError(t, err, ext)
		assert.Equal(t, "text", extractor.Name())
	}

	_, err := registry.GetExtractorForExtension(".pdf")
	assert.ErrorIs(t, err, parsers.ErrUnsupportedFormat)
	_, err = registry.GetExtractorForExtension("")
	assert.ErrorIs(t, err, parsers.ErrUnsupportedFormat)
}

func TestRegistry_GetExtractorForFile(t *testing.T) {
	t.Run("by extension", func(t *testing.T) {
		registry, _ := newTestRegistry(t)
		extractor, err := registry.GetExtractorForFile("docs/Notes.TXT", nil)
		require.NoError(t, err)
		assert.Equal(t, "text", extractor.Name())
	})

	t.Run("claimed by CanHandle when the extension is unknown", func(t *testing.T) {
		registry, logs := newTestRegistry(t)
		extractor, err := registry.GetExtractorForFile("docs/README.rst", nil)
		require.NoError(t, err)
		assert.Equal(t, "readme", extractor.Name())
		assert.Contains(t, logs.String(), "Extractor selected by CanHandle")
	})

	t.Run("unknown extension", func(t *testing.T) {
		registry, _ := newTestRegistry(t)
		_, err := registry.GetExtractorForFile("docs/slides.pptx", nil)
		assert.ErrorIs(t, err, parsers.ErrUnsupportedFormat)
	})

	t.Run("extension-less text is sniffed", func(t *testing.T) {
		registry, _ := newTestRegistry(t)
		path := writeFile(t, "notes", []byte("just some plain words\n"))
		extractor, err := registry.GetExtractorForFile(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "text", extractor.Name())
	})

	t.Run("extension-less binary", func(t *testing.T) {
		registry, _ := newTestRegistry(t)
		png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")
		path := writeFile(t, "image", png)
		_, err := registry.GetExtractorForFile(path, nil)
		assert.ErrorIs(t, err, parsers.ErrUnsupportedFormat)
	})

	t.Run("directory", func(t *testing.T) {
		registry, _ := newTestRegistry(t)
		dir := t.TempDir()
		info, err := os.Stat(dir)
		require.NoError(t, err)
		_, err = registry.GetExtractorForFile(dir, info)
		assert.ErrorIs(t, err, parsers.ErrUnsupportedFormat)
	})
}

func TestRegisterDefaultExtractors(t *testing.T) {
	registry, err := parsers.RegisterDefaultExtractors(nil)
	require.NoError(t, err)

	names := []string{}
	for _, e := range registry.GetAllExtractors() {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"docx", "html", "markdown", "pdf", "text"}, names)

	for ext, want := range map[string]string{
		".pdf": "pdf", ".docx": "docx", ".htm": "html", ".html": "html",
		".txt": "text", ".md": "markdown", ".markdown": "markdown",
	} {
		extractor, err := registry.GetExtractorForExtension(ext)
		require.NoError(t, err, ext)
		assert.Equal(t, want, extractor.Name(), ext)
	}
}
