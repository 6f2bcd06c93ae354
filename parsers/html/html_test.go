package html_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/docingest/parsers/html"
	ptesting "github.com/sevigo/docingest/parsers/testing"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestHTMLExtractor_Extract(t *testing.T) {
	logger, _ := ptesting.NewTestLogger(t)
	extractor := html.NewHTMLExtractor(logger)

	tests := []struct {
		name     string
		content  []byte
		expected string
	}{
		{
			name: "text nodes on separate lines",
			content: []byte(`<!DOCTYPE html><html><head><title>Claims</title>
<style>body { color: red }</style><script>var x = 1;</script></head>
<body><h1>Heading</h1><!-- hidden --><p>First <b>bold</b> para</p>
<template><p>not rendered</p></template></body></html>`),
			expected: "Claims\nHeading\nFirst \nbold\n para",
		},
		{
			name:     "declared legacy charset",
			content:  []byte("<html><head><meta charset=\"iso-8859-1\"></head><body><p>caf\xe9</p></body></html>"),
			expected: "café",
		},
		{
			name:     "empty document",
			content:  []byte(""),
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "page.html", tt.content)
			text, err := extractor.Extract(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, text)
		})
	}
}

func TestHTMLExtractor_MissingFile(t *testing.T) {
	extractor := html.NewHTMLExtractor(nil)
	_, err := extractor.Extract(context.Background(), filepath.Join(t.TempDir(), "nope.html"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHTMLExtractor_CanHandle(t *testing.T) {
	extractor := html.NewHTMLExtractor(nil)
	assert.True(t, extractor.CanHandle("index.HTM", nil))
	assert.True(t, extractor.CanHandle("index.html", nil))
	assert.False(t, extractor.CanHandle("index.xhtml", nil))
}
