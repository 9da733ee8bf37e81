package ruby

import (
	"strings"

	"github.com/matzehuels/repoinsight/pkg/deps"
	"github.com/matzehuels/repoinsight/pkg/deps/imports"
)

// Ecosystem is the identifier reported by [Parser.Ecosystem].
const Ecosystem = "ruby"

// Parser handles Bundler manifests.
type Parser struct {
	deps.Base
}

// New creates a Ruby parser. The default import scanner matches require
// lines with regular expressions.
func New(opts deps.ParserOptions) *Parser {
	p := &Parser{Base: deps.NewBase(Ecosystem, opts, imports.NewRegex(`^\s*require\s*\(?\s*['"]([^'"]+)['"]`))}
	p.Formats = map[string]deps.ParseFunc{
		"Gemfile":      parseGemfile,
		"Gemfile.lock": parseGemfileLock,
	}
	p.Extensions = []string{".rb"}
	p.Root = importRoot
	return p
}

var stdlib = imports.NewDenylist(
	"json", "set", "date", "time", "fileutils", "pathname", "securerandom", "digest",
	"open3", "optparse", "logger", "net", "uri", "yaml", "erb", "tempfile", "socket",
	"benchmark", "csv", "English", "forwardable", "singleton", "stringio", "timeout",
)

func importRoot(spec string) (string, bool) {
	if strings.HasPrefix(spec, ".") || strings.HasPrefix(spec, "/") {
		return "", false
	}
	root, _, _ := strings.Cut(spec, "/")
	if root == "" || stdlib.Contains(root) {
		return "", false
	}
	return root, true
}
