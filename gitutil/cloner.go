// Package gitutil fetches remote Git repositories so their documents can be
// ingested like a local directory.
package gitutil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrEmptyURL is returned when Clone is called without a repository URL.
var ErrEmptyURL = errors.New("repository url is empty")

var remotePrefixes = []string{"https://", "http://", "ssh://", "git://", "git@"}

// IsRemote reports whether an input names a remote repository rather than a
// local path.
func IsRemote(input string) bool {
	for _, prefix := range remotePrefixes {
		if strings.HasPrefix(input, prefix) {
			return true
		}
	}
	return false
}

// SplitRef separates an optional "#branch" suffix from a repository URL.
func SplitRef(input string) (url, branch string) {
	url, branch, _ = strings.Cut(input, "#")
	return url, branch
}

// Cloner handles the temporary cloning of remote Git repositories.
type Cloner struct {
	logger *slog.Logger
}

// NewCloner creates a new Cloner.
func NewCloner(logger *slog.Logger) *Cloner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cloner{logger: logger}
}

// Clone makes a shallow checkout of repoURL in a temporary directory. An empty
// branch selects the remote's default branch. The returned cleanup function
// removes the checkout.
func (c *Cloner) Clone(ctx context.Context, repoURL, branch string) (string, func(), error) {
	if repoURL == "" {
		return "", nil, ErrEmptyURL
	}

	tempPath, err := os.MkdirTemp("", "docingest-repo-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	c.logger.InfoContext(ctx, "Cloning repository", "url", repoURL, "branch", branch, "path", tempPath)

	cleanup := func() {
		c.logger.Debug("Cleaning up temporary repository", "path", tempPath)
		_ = os.RemoveAll(tempPath)
	}

	opts := &git.CloneOptions{
		URL:   repoURL,
		Depth: 1,
	}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
		opts.SingleBranch = true
	}

	if _, err := git.PlainCloneContext(ctx, tempPath, false, opts); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to clone repo '%s': %w", repoURL, err)
	}

	c.logger.InfoContext(ctx, "Repository cloned", "url", repoURL)
	return tempPath, cleanup, nil
}
