package deps

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/repoinsight/pkg/deps/imports"
)

// ParserOptions configures an ecosystem parser.
type ParserOptions struct {
	Logger  *log.Logger     // Warnings for skipped files (default: discard)
	Scanner imports.Scanner // Import extraction strategy (default: per ecosystem)
}

// Base implements [ManifestParser] from a table of per-file parse functions
// and an import normalizer. Ecosystem packages embed it.
type Base struct {
	Name       string
	Formats    map[string]ParseFunc
	Extensions []string
	Scanner    imports.Scanner
	// Root maps a raw import specifier to its package root, reporting false
	// for relative, self, or standard-library imports.
	Root   func(spec string) (string, bool)
	Logger *log.Logger
}

// NewBase fills in defaults from opts, falling back to scanner when
// opts.Scanner is nil.
func NewBase(name string, opts ParserOptions, scanner imports.Scanner) Base {
	if opts.Scanner != nil {
		scanner = opts.Scanner
	}
	return Base{Name: name, Scanner: scanner, Logger: OrDiscard(opts.Logger)}
}

func (b *Base) Ecosystem() string { return b.Name }

func (b *Base) ManifestFiles() []string {
	return slices.Sorted(maps.Keys(b.Formats))
}

func (b *Base) SourceExtensions() []string {
	return slices.Clone(b.Extensions)
}

func (b *Base) ParseManifest(path string) []Dependency {
	return SafeParse(b.Logger, b.Name, path, func(path string) ([]Dependency, error) {
		parse, ok := b.Formats[filepath.Base(path)]
		if !ok {
			return nil, fmt.Errorf("unrecognized manifest %s", filepath.Base(path))
		}
		return parse(path)
	})
}

func (b *Base) ParseImports(path string) []string {
	return SafeImports(b.Logger, b.Name, path, func(path string) ([]string, error) {
		if b.Scanner == nil {
			return nil, fmt.Errorf("no import scanner configured")
		}
		src, err := imports.ReadSource(path)
		if err != nil {
			return nil, err
		}
		specs, err := b.Scanner.Scan(path, src)
		if err != nil {
			return nil, err
		}
		return imports.Normalize(specs, b.Root), nil
	})
}
