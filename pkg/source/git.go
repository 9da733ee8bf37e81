package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	pkgerrors "github.com/matzehuels/repoinsight/pkg/errors"
)

// DefaultCloneTimeout bounds a clone, retries included.
const DefaultCloneTimeout = 5 * time.Minute

// GitClone makes shallow clones with the git command.
type GitClone struct {
	// Depth is the clone depth. Defaults to 1.
	Depth int

	// Timeout bounds the whole clone. Defaults to DefaultCloneTimeout.
	Timeout time.Duration

	// TempDir is where clones are placed. Defaults to os.TempDir().
	TempDir string

	Logger *log.Logger

	// run executes git; replaced in tests.
	run func(ctx context.Context, args ...string) error
}

func runGit(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		err = fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		if transientGitFailure(msg) {
			return Retryable(err)
		}
		return err
	}
	return nil
}

var transientMarkers = []string{
	"Could not resolve host",
	"Connection timed out",
	"Connection reset",
	"early EOF",
	"RPC failed",
	"The requested URL returned error: 5",
}

func transientGitFailure(output string) bool {
	for _, m := range transientMarkers {
		if strings.Contains(output, m) {
			return true
		}
	}
	return false
}

// Materialize clones repoURL into a fresh temporary directory.
func (g *GitClone) Materialize(ctx context.Context, repoURL string) (string, func(), error) {
	if err := pkgerrors.ValidateRepoURL(repoURL); err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.ErrCodeRepositoryUnavailable, err, "invalid repository URL")
	}

	depth, timeout, logger := g.Depth, g.Timeout, g.Logger
	if depth <= 0 {
		depth = 1
	}
	if timeout <= 0 {
		timeout = DefaultCloneTimeout
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	run := g.run
	if run == nil {
		run = runGit
	}

	parent, err := os.MkdirTemp(g.TempDir, "repoinsight-*")
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.ErrCodeRepositoryUnavailable, err, "create clone directory")
	}
	cleanup := func() {
		if err := os.RemoveAll(parent); err != nil {
			logger.Warn("remove clone", "path", parent, "err", err)
		}
	}
	dir := filepath.Join(parent, RepoName(repoURL))

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger.Info("cloning repository", "url", repoURL, "depth", depth)
	args := []string{"clone", "--depth", strconv.Itoa(depth), "--", repoURL, dir}
	err = RetryWithBackoff(ctx, func() error {
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
		return run(ctx, args...)
	})
	if err != nil {
		cleanup()
		if ctx.Err() == context.DeadlineExceeded {
			return "", nil, pkgerrors.Wrap(pkgerrors.ErrCodeTimeout, err, "clone timed out after %s", timeout)
		}
		return "", nil, pkgerrors.Wrap(pkgerrors.ErrCodeRepositoryUnavailable, err, "clone repository")
	}
	return dir, cleanup, nil
}
