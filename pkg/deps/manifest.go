package deps

import (
	"github.com/charmbracelet/log"
)

// ManifestParser extracts dependencies and imports for one ecosystem.
//
// Both Parse methods are total: malformed or unreadable input yields an
// empty, non-nil slice and a logged warning, never an error or a panic.
// Implementations are stateless and safe for concurrent use.
type ManifestParser interface {
	// Ecosystem returns a short identifier such as "python" or "rust".
	Ecosystem() string
	// ManifestFiles lists the exact base names this parser recognizes.
	ManifestFiles() []string
	// SourceExtensions lists the file extensions (with dot) whose imports
	// ParseImports understands.
	SourceExtensions() []string
	// ParseManifest returns every dependency declared in the manifest at
	// path, in document order, with Source set to path.
	ParseManifest(path string) []Dependency
	// ParseImports returns the sorted, de-duplicated external package
	// roots imported by the source file at path.
	ParseImports(path string) []string
}

// ParseFunc parses a single manifest format.
type ParseFunc func(path string) ([]Dependency, error)

// SafeParse runs fn and converts any error or panic into an empty result.
func SafeParse(logger *log.Logger, ecosystem, path string, fn ParseFunc) (out []Dependency) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("manifest parser panicked", "ecosystem", ecosystem, "path", path, "panic", r)
			out = []Dependency{}
		}
	}()
	list, err := fn(path)
	if err != nil {
		logger.Warn("manifest parse failed", "ecosystem", ecosystem, "path", path, "err", err)
		return []Dependency{}
	}
	if list == nil {
		return []Dependency{}
	}
	return list
}

// SafeImports is the ParseImports counterpart of [SafeParse].
func SafeImports(logger *log.Logger, ecosystem, path string, fn func(path string) ([]string, error)) (out []string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("import scan panicked", "ecosystem", ecosystem, "path", path, "panic", r)
			out = []string{}
		}
	}()
	list, err := fn(path)
	if err != nil {
		logger.Warn("import scan failed", "ecosystem", ecosystem, "path", path, "err", err)
		return []string{}
	}
	if list == nil {
		return []string{}
	}
	return list
}

// OrDiscard returns l, or a logger that drops everything when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return discard
}
