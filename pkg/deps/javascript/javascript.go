package javascript

import (
	"strings"

	"github.com/matzehuels/repoinsight/pkg/deps"
	"github.com/matzehuels/repoinsight/pkg/deps/imports"
)

// Ecosystem is the identifier reported by [Parser.Ecosystem].
const Ecosystem = "javascript"

// Parser handles npm and yarn manifests.
type Parser struct {
	deps.Base
}

// New creates a JavaScript parser. The default import scanner is tree-sitter.
func New(opts deps.ParserOptions) *Parser {
	p := &Parser{Base: deps.NewBase(Ecosystem, opts, imports.NewTreeSitter())}
	p.Formats = map[string]deps.ParseFunc{
		"package.json":      parsePackageJSON,
		"package-lock.json": parsePackageLock,
		"yarn.lock":         parseYarnLock,
	}
	p.Extensions = []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"}
	p.Root = importRoot
	return p
}

var builtins = imports.NewDenylist(
	"assert", "buffer", "child_process", "cluster", "crypto", "dgram", "dns",
	"events", "fs", "http", "http2", "https", "net", "os", "path", "perf_hooks",
	"process", "querystring", "readline", "stream", "string_decoder", "timers",
	"tls", "tty", "url", "util", "v8", "vm", "worker_threads", "zlib",
)

func importRoot(spec string) (string, bool) {
	if spec == "" || strings.HasPrefix(spec, ".") || strings.HasPrefix(spec, "/") {
		return "", false
	}
	if strings.HasPrefix(spec, "node:") {
		return "", false
	}
	parts := strings.Split(spec, "/")
	if strings.HasPrefix(spec, "@") {
		if len(parts) < 2 || parts[1] == "" {
			return "", false
		}
		return parts[0] + "/" + parts[1], true
	}
	if builtins.Contains(parts[0]) {
		return "", false
	}
	return parts[0], true
}
