package python

import (
	"strings"

	"github.com/matzehuels/repoinsight/pkg/deps"
	"github.com/matzehuels/repoinsight/pkg/deps/imports"
)

// Ecosystem is the identifier reported by [Parser.Ecosystem].
const Ecosystem = "python"

// Parser handles every Python manifest format.
type Parser struct {
	deps.Base
}

// New creates a Python parser. The default import scanner is tree-sitter.
func New(opts deps.ParserOptions) *Parser {
	p := &Parser{Base: deps.NewBase(Ecosystem, opts, imports.NewTreeSitter())}
	p.Formats = map[string]deps.ParseFunc{
		"requirements.txt": parseRequirements,
		"pyproject.toml":   parsePyproject,
		"Pipfile":          parsePipfile,
		"Pipfile.lock":     parsePipfileLock,
		"poetry.lock":      parsePoetryLock,
		"setup.py":         parseSetupPy,
		"setup.cfg":        parseSetupCfg,
	}
	p.Extensions = []string{".py"}
	p.Root = importRoot
	return p
}

var stdlib = imports.NewDenylist(
	"__future__", "abc", "argparse", "array", "ast", "asyncio", "base64", "bisect",
	"builtins", "calendar", "collections", "concurrent", "configparser", "contextlib",
	"copy", "csv", "ctypes", "dataclasses", "datetime", "decimal", "difflib", "email",
	"enum", "errno", "fnmatch", "functools", "gc", "getpass", "glob", "gzip", "hashlib",
	"heapq", "hmac", "html", "http", "importlib", "inspect", "io", "ipaddress",
	"itertools", "json", "logging", "math", "mimetypes", "multiprocessing", "operator",
	"os", "pathlib", "pickle", "platform", "pprint", "queue", "random", "re", "secrets",
	"select", "shlex", "shutil", "signal", "socket", "sqlite3", "ssl", "stat",
	"statistics", "string", "struct", "subprocess", "sys", "tempfile", "textwrap",
	"threading", "time", "timeit", "traceback", "types", "typing", "unittest", "urllib",
	"uuid", "warnings", "weakref", "xml", "zipfile", "zlib",
)

func importRoot(spec string) (string, bool) {
	if strings.HasPrefix(spec, ".") {
		return "", false
	}
	root, _, _ := strings.Cut(spec, ".")
	root = strings.TrimSpace(root)
	if root == "" || stdlib.Contains(root) {
		return "", false
	}
	return root, true
}
