// Package source materializes repositories on the local filesystem.
//
// A [Materializer] turns a repository location into a directory plus a
// cleanup function. [Local] accepts existing directories, [GitClone] makes a
// shallow clone into a temporary directory, and [Auto] picks between them.
//
// Failures carry the ErrCodeRepositoryUnavailable error code, or
// ErrCodeTimeout when a clone runs past its deadline.
package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/matzehuels/repoinsight/pkg/errors"
)

// Materializer makes a repository available as a local directory. The
// returned cleanup must be called once the directory is no longer needed.
type Materializer interface {
	Materialize(ctx context.Context, repoURL string) (dir string, cleanup func(), err error)
}

func noop() {}

// Local serves repositories that already exist on disk.
type Local struct{}

// Materialize returns the absolute path of an existing directory.
func (Local) Materialize(ctx context.Context, repoURL string) (string, func(), error) {
	dir, err := filepath.Abs(repoURL)
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.ErrCodeRepositoryUnavailable, err, "resolve %s", repoURL)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.ErrCodeRepositoryUnavailable, err, "open repository")
	}
	if !info.IsDir() {
		return "", nil, pkgerrors.New(pkgerrors.ErrCodeRepositoryUnavailable, "%s is not a directory", repoURL)
	}
	return dir, noop, nil
}

// Auto serves local directories through Local and everything else
// through Git.
type Auto struct {
	Local Local
	Git   *GitClone
}

// Materialize dispatches on whether repoURL names an existing directory.
func (a Auto) Materialize(ctx context.Context, repoURL string) (string, func(), error) {
	if IsLocal(repoURL) {
		return a.Local.Materialize(ctx, repoURL)
	}
	git := a.Git
	if git == nil {
		git = &GitClone{}
	}
	return git.Materialize(ctx, repoURL)
}

// IsLocal reports whether repoURL names an existing local directory.
func IsLocal(repoURL string) bool {
	info, err := os.Stat(repoURL)
	return err == nil && info.IsDir()
}

// RepoName derives a display name from a repository location: the last path
// segment without a ".git" suffix.
func RepoName(repoURL string) string {
	s := strings.TrimRight(strings.TrimSpace(repoURL), "/\\")
	if i := strings.LastIndexAny(s, "/\\:"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(s, ".git")
	if s == "" || s == "." {
		return "repository"
	}
	return s
}
