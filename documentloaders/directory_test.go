package documentloaders_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/docingest/documentloaders"
	"github.com/sevigo/docingest/parsers"
	ptesting "github.com/sevigo/docingest/parsers/testing"
	"github.com/sevigo/docingest/schema/fake"
)

func TestDirectoryLoader_Files(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"b.txt",
		"a.md",
		"docs/c.txt",
		"docs/image.png",
		".hidden.txt",
		".git/config.txt",
		"node_modules/pkg/readme.txt",
	)

	registry := newFakeRegistry(t,
		fake.NewExtractor("text", ".txt"),
		fake.NewExtractor("markdown", ".md"),
	)

	logger, logs := ptesting.NewTestLogger(t)
	files, skipped, err := documentloaders.NewDirectory(dir, registry,
		documentloaders.WithLogger(logger),
	).Files(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.md"),
		filepath.Join(dir, "b.txt"),
		filepath.Join(dir, "docs", "c.txt"),
	}, files)

	require.Len(t, skipped, 1)
	assert.Equal(t, filepath.Join(dir, "docs", "image.png"), skipped[0].Path)
	assert.ErrorIs(t, skipped[0].Err, parsers.ErrUnsupportedFormat)
	assert.Contains(t, logs.String(), "level=INFO msg=\"Skipping unsupported file\"")
}

func TestDirectoryLoader_ExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.md", "b.txt", "c.TXT")

	registry := newFakeRegistry(t,
		fake.NewExtractor("text", ".txt"),
		fake.NewExtractor("markdown", ".md"),
	)

	files, skipped, err := documentloaders.NewDirectory(dir, registry,
		documentloaders.WithExtensions("TXT"),
	).Files(context.Background())
	require.NoError(t, err)
	assert.Empty(t, skipped, "filtered files are not reported")
	assert.Equal(t, []string{
		filepath.Join(dir, "b.txt"),
		filepath.Join(dir, "c.TXT"),
	}, files)
}

func TestDirectoryLoader_Ingest(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "one.txt", "sub/two.txt", "sub/diagram.svg")

	extractor := fake.NewExtractor("text", ".txt")
	extractor.Texts["one.txt"] = "first"
	extractor.Texts["two.txt"] = "second"

	result, err := documentloaders.NewDirectory(dir, newFakeRegistry(t, extractor),
		documentloaders.WithConcurrency(2),
	).Ingest(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "first", result.Records[0].Text)
	assert.Equal(t, "one.txt", result.Records[0].Metadata.Filename)
	assert.Equal(t, "second", result.Records[1].Text)
	assert.Equal(t, "two.txt", result.Records[1].Metadata.Filename)

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, filepath.Join(dir, "sub", "diagram.svg"), result.Skipped[0].Path)
	assert.ErrorIs(t, result.Skipped[0].Err, parsers.ErrUnsupportedFormat)
	assert.ElementsMatch(t, []string{filepath.Join(dir, "one.txt"), filepath.Join(dir, "sub", "two.txt")}, extractor.Calls())
}

func TestDirectoryLoader_Load(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("Some notes."), 0o644))

	registry, err := parsers.RegisterDefaultExtractors(nil)
	require.NoError(t, err)

	docs, err := documentloaders.NewDirectory(dir, registry).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Some notes.", docs[0].PageContent)
	assert.Equal(t, filepath.Join(dir, "notes.txt"), docs[0].Metadata["source"])
}

func TestDirectoryLoader_MissingRoot(t *testing.T) {
	registry := newFakeRegistry(t, fake.NewExtractor("text", ".txt"))
	_, err := documentloaders.NewDirectory(filepath.Join(t.TempDir(), "nope"), registry).
		Ingest(context.Background())
	require.ErrorIs(t, err, os.ErrNotExist)
}
