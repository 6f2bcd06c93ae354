package gitutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/docingest/gitutil"
	ptesting "github.com/sevigo/docingest/parsers/testing"
)

func TestIsRemote(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"https://github.com/org/docs.git", true},
		{"http://example.com/repo", true},
		{"ssh://git@example.com/repo.git", true},
		{"git://example.com/repo.git", true},
		{"git@github.com:org/docs.git", true},
		{"docs/manual.pdf", false},
		{"/srv/docs", false},
		{"./https-notes.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, gitutil.IsRemote(tt.input))
		})
	}
}

func TestSplitRef(t *testing.T) {
	url, branch := gitutil.SplitRef("https://github.com/org/docs.git#release")
	assert.Equal(t, "https://github.com/org/docs.git", url)
	assert.Equal(t, "release", branch)

	url, branch = gitutil.SplitRef("https://github.com/org/docs.git")
	assert.Equal(t, "https://github.com/org/docs.git", url)
	assert.Empty(t, branch)
}

func TestCloner_Clone_EmptyURL(t *testing.T) {
	_, _, err := gitutil.NewCloner(nil).Clone(context.Background(), "", "")
	require.ErrorIs(t, err, gitutil.ErrEmptyURL)
}

func TestCloner_Clone_FailureCleansUp(t *testing.T) {
	logger, logs := ptesting.NewTestLogger(t)
	missing := filepath.Join(t.TempDir(), "no-such-repo")
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	path, cleanup, err := gitutil.NewCloner(logger).Clone(context.Background(), missing, "")
	require.Error(t, err)
	assert.Empty(t, path)
	assert.Nil(t, cleanup)
	assert.Contains(t, logs.String(), "Cloning repository")

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary checkout must be removed")
}
