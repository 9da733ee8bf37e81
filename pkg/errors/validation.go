package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// ValidatePath validates a file path within a repository for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateRepoURL validates a repository location passed to git.
//
// Accepted forms are http(s), ssh and git URLs plus scp-style
// "user@host:path" addresses. Anything beginning with "-" is rejected so the
// value can never be interpreted as a git option.
func ValidateRepoURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return New(ErrCodeInvalidInput, "repository URL cannot be empty")
	}
	if strings.HasPrefix(raw, "-") {
		return New(ErrCodeInvalidInput, "repository URL cannot start with '-'")
	}
	for _, r := range raw {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "repository URL contains invalid characters")
		}
	}

	if at := strings.Index(raw, "@"); at > 0 && !strings.Contains(raw, "://") {
		if colon := strings.Index(raw[at:], ":"); colon > 1 {
			return nil
		}
		return New(ErrCodeInvalidInput, "invalid scp-style repository address %q", raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid repository URL")
	}
	switch u.Scheme {
	case "http", "https", "ssh", "git":
	default:
		return New(ErrCodeInvalidInput, "repository URL must use http, https, ssh or git scheme")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "repository URL has no host")
	}
	return nil
}
