package golang

import (
	"strings"

	"github.com/matzehuels/repoinsight/pkg/deps"
	"github.com/matzehuels/repoinsight/pkg/deps/imports"
)

// Ecosystem is the identifier reported by [Parser.Ecosystem].
const Ecosystem = "go"

// Parser handles Go module files.
type Parser struct {
	deps.Base
}

// New creates a Go parser. The default import scanner is tree-sitter.
func New(opts deps.ParserOptions) *Parser {
	p := &Parser{Base: deps.NewBase(Ecosystem, opts, imports.NewTreeSitter())}
	p.Formats = map[string]deps.ParseFunc{
		"go.mod": parseGoMod,
		"go.sum": parseGoSum,
	}
	p.Extensions = []string{".go"}
	p.Root = importRoot
	return p
}

// hostsWithOwner are code hosts whose module roots are host/owner/repo.
var hostsWithOwner = map[string]bool{
	"github.com":    true,
	"gitlab.com":    true,
	"bitbucket.org": true,
	"golang.org":    true,
}

func importRoot(spec string) (string, bool) {
	parts := strings.Split(spec, "/")
	if !strings.Contains(parts[0], ".") {
		return "", false
	}
	n := 2
	if hostsWithOwner[parts[0]] {
		n = 3
	}
	if len(parts) < n {
		n = len(parts)
	}
	return strings.Join(parts[:n], "/"), true
}
