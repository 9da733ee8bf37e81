package imports

import (
	"fmt"
	"path/filepath"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Grammar names a tree-sitter grammar known to [TreeSitter].
type Grammar string

const (
	GrammarGo         Grammar = "go"
	GrammarPython     Grammar = "python"
	GrammarJavaScript Grammar = "javascript"
	GrammarTypeScript Grammar = "typescript"
	GrammarTSX        Grammar = "tsx"
	GrammarRust       Grammar = "rust"
)

var grammarByExt = map[string]Grammar{
	".go":  GrammarGo,
	".py":  GrammarPython,
	".js":  GrammarJavaScript,
	".jsx": GrammarJavaScript,
	".mjs": GrammarJavaScript,
	".cjs": GrammarJavaScript,
	".ts":  GrammarTypeScript,
	".mts": GrammarTypeScript,
	".cts": GrammarTypeScript,
	".tsx": GrammarTSX,
	".rs":  GrammarRust,
}

// GrammarFor returns the grammar used for a file extension.
func GrammarFor(path string) (Grammar, bool) {
	g, ok := grammarByExt[strings.ToLower(filepath.Ext(path))]
	return g, ok
}

type collector func(node *tree_sitter.Node, src []byte, out *[]string)

// TreeSitter extracts import specifiers from a concrete syntax tree.
// A fresh tree-sitter parser is created per Scan call, so a single
// TreeSitter is safe for concurrent use.
type TreeSitter struct {
	languages  map[Grammar]*tree_sitter.Language
	collectors map[Grammar]collector
}

// NewTreeSitter registers the Go, Python, JavaScript, TypeScript, TSX and
// Rust grammars.
func NewTreeSitter() *TreeSitter {
	return &TreeSitter{
		languages: map[Grammar]*tree_sitter.Language{
			GrammarGo:         tree_sitter.NewLanguage(tree_sitter_go.Language()),
			GrammarPython:     tree_sitter.NewLanguage(tree_sitter_python.Language()),
			GrammarJavaScript: tree_sitter.NewLanguage(tree_sitter_javascript.Language()),
			GrammarTypeScript: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
			GrammarTSX:        tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
			GrammarRust:       tree_sitter.NewLanguage(tree_sitter_rust.Language()),
		},
		collectors: map[Grammar]collector{
			GrammarGo:         goImports,
			GrammarPython:     pythonImports,
			GrammarJavaScript: jsImports,
			GrammarTypeScript: jsImports,
			GrammarTSX:        jsImports,
			GrammarRust:       rustImports,
		},
	}
}

// Scan implements [Scanner].
func (t *TreeSitter) Scan(path string, src []byte) ([]string, error) {
	grammar, ok := GrammarFor(path)
	if !ok {
		return nil, fmt.Errorf("no grammar for %s", filepath.Base(path))
	}
	lang := t.languages[grammar]
	collect := t.collectors[grammar]

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("set language %s: %w", grammar, err)
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree for %s", path)
	}
	defer tree.Close()

	cursor := tree.RootNode().Walk()
	defer cursor.Close()

	var out []string
	walk(cursor, src, collect, &out)
	return out, nil
}

func walk(cursor *tree_sitter.TreeCursor, src []byte, collect collector, out *[]string) {
	collect(cursor.Node(), src, out)
	if cursor.GotoFirstChild() {
		walk(cursor, src, collect, out)
		for cursor.GotoNextSibling() {
			walk(cursor, src, collect, out)
		}
		cursor.GotoParent()
	}
}

// ===== Go =====

func goImports(node *tree_sitter.Node, src []byte, out *[]string) {
	if node.Kind() != "import_spec" {
		return
	}
	path := node.ChildByFieldName("path")
	if path == nil {
		return
	}
	if spec := unquote(path.Utf8Text(src)); spec != "" {
		*out = append(*out, spec)
	}
}

// ===== Python =====

func pythonImports(node *tree_sitter.Node, src []byte, out *[]string) {
	switch node.Kind() {
	case "import_statement":
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child == nil {
				continue
			}
			switch child.Kind() {
			case "dotted_name":
				*out = append(*out, child.Utf8Text(src))
			case "aliased_import":
				if name := child.ChildByFieldName("name"); name != nil {
					*out = append(*out, name.Utf8Text(src))
				}
			}
		}
	case "import_from_statement":
		if module := node.ChildByFieldName("module_name"); module != nil {
			*out = append(*out, module.Utf8Text(src))
		}
	}
}

// ===== JavaScript / TypeScript =====

func jsImports(node *tree_sitter.Node, src []byte, out *[]string) {
	switch node.Kind() {
	case "import_statement", "export_statement":
		source := node.ChildByFieldName("source")
		if source == nil {
			return
		}
		if spec := unquote(source.Utf8Text(src)); spec != "" {
			*out = append(*out, spec)
		}
	case "call_expression":
		fn := node.ChildByFieldName("function")
		if fn == nil {
			return
		}
		if fn.Kind() != "import" && fn.Utf8Text(src) != "require" {
			return
		}
		args := node.ChildByFieldName("arguments")
		if args == nil {
			return
		}
		for i := uint(0); i < args.ChildCount(); i++ {
			arg := args.Child(i)
			if arg != nil && arg.Kind() == "string" {
				if spec := unquote(arg.Utf8Text(src)); spec != "" {
					*out = append(*out, spec)
				}
				return
			}
		}
	}
}

// ===== Rust =====

func rustImports(node *tree_sitter.Node, src []byte, out *[]string) {
	switch node.Kind() {
	case "use_declaration":
		if arg := node.ChildByFieldName("argument"); arg != nil {
			*out = append(*out, arg.Utf8Text(src))
		}
	case "extern_crate_declaration":
		if name := node.ChildByFieldName("name"); name != nil {
			*out = append(*out, name.Utf8Text(src))
		}
	}
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), "\"'`")
}
