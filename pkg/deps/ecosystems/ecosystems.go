// Package ecosystems assembles the complete set of manifest parsers.
//
// This package exists to break import cycles: the individual ecosystem
// packages (python, rust, etc.) import pkg/deps, so pkg/deps cannot import
// them back. Consumers that need the full table import this package.
//
// Usage:
//
//	reg, err := ecosystems.Default(logger)
//	collector := deps.NewCollector(reg, deps.CollectOptions{})
package ecosystems

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/repoinsight/pkg/deps"
	"github.com/matzehuels/repoinsight/pkg/deps/golang"
	"github.com/matzehuels/repoinsight/pkg/deps/imports"
	"github.com/matzehuels/repoinsight/pkg/deps/java"
	"github.com/matzehuels/repoinsight/pkg/deps/javascript"
	"github.com/matzehuels/repoinsight/pkg/deps/php"
	"github.com/matzehuels/repoinsight/pkg/deps/python"
	"github.com/matzehuels/repoinsight/pkg/deps/ruby"
	"github.com/matzehuels/repoinsight/pkg/deps/rust"
)

// All returns one parser per supported ecosystem. Grammar-aware parsers
// share a single tree-sitter scanner.
func All(logger *log.Logger) []deps.ManifestParser {
	ts := imports.NewTreeSitter()
	withTS := deps.ParserOptions{Logger: logger, Scanner: ts}
	plain := deps.ParserOptions{Logger: logger}
	return []deps.ManifestParser{
		python.New(withTS),
		javascript.New(withTS),
		rust.New(withTS),
		java.New(plain),
		golang.New(withTS),
		ruby.New(plain),
		php.New(plain),
	}
}

// Default builds the registry over [All].
func Default(logger *log.Logger) (*deps.Registry, error) {
	return deps.NewRegistry(All(logger)...)
}

// Find returns the parser for an ecosystem identifier, or nil.
func Find(name string, logger *log.Logger) deps.ManifestParser {
	for _, p := range All(logger) {
		if p.Ecosystem() == name {
			return p
		}
	}
	return nil
}
