package rust

import (
	"strings"

	"github.com/matzehuels/repoinsight/pkg/deps"
	"github.com/matzehuels/repoinsight/pkg/deps/imports"
)

// Ecosystem is the identifier reported by [Parser.Ecosystem].
const Ecosystem = "rust"

// Parser handles Cargo manifests.
type Parser struct {
	deps.Base
}

// New creates a Rust parser. The default import scanner is tree-sitter.
func New(opts deps.ParserOptions) *Parser {
	p := &Parser{Base: deps.NewBase(Ecosystem, opts, imports.NewTreeSitter())}
	p.Formats = map[string]deps.ParseFunc{
		"Cargo.toml": parseCargoToml,
		"Cargo.lock": parseCargoLock,
	}
	p.Extensions = []string{".rs"}
	p.Root = importRoot
	return p
}

var reserved = imports.NewDenylist("std", "core", "alloc", "crate", "self", "super")

// importRoot reduces a use-tree such as "serde::{Deserialize, Serialize}" to
// its first path segment.
func importRoot(spec string) (string, bool) {
	spec = strings.TrimPrefix(strings.TrimSpace(spec), "::")
	root, _, _ := strings.Cut(spec, "::")
	root = strings.TrimSpace(root)
	if root == "" || !isIdent(root) || reserved.Contains(root) {
		return "", false
	}
	return root, true
}

func isIdent(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
