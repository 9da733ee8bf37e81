package deps

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

var discard = log.NewWithOptions(io.Discard, log.Options{})

// Registry maps exact manifest file names and source extensions to parsers.
// It is built once and read-only afterwards.
type Registry struct {
	parsers []ManifestParser
	byName  map[string]ManifestParser
	byExt   map[string]ManifestParser
}

// NewRegistry builds a registry from parsers. Two parsers claiming the same
// manifest name or source extension is a construction error.
func NewRegistry(parsers ...ManifestParser) (*Registry, error) {
	r := &Registry{
		parsers: parsers,
		byName:  make(map[string]ManifestParser),
		byExt:   make(map[string]ManifestParser),
	}
	for _, p := range parsers {
		for _, name := range p.ManifestFiles() {
			if other, ok := r.byName[name]; ok {
				return nil, fmt.Errorf("manifest %q claimed by both %s and %s", name, other.Ecosystem(), p.Ecosystem())
			}
			r.byName[name] = p
		}
		for _, ext := range p.SourceExtensions() {
			ext = strings.ToLower(ext)
			if other, ok := r.byExt[ext]; ok {
				return nil, fmt.Errorf("extension %q claimed by both %s and %s", ext, other.Ecosystem(), p.Ecosystem())
			}
			r.byExt[ext] = p
		}
	}
	return r, nil
}

// Lookup finds the parser for an exact manifest base name.
func (r *Registry) Lookup(path string) (ManifestParser, bool) {
	p, ok := r.byName[filepath.Base(path)]
	return p, ok
}

// ForSource finds the parser whose imports cover the file's extension.
func (r *Registry) ForSource(path string) (ManifestParser, bool) {
	p, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return p, ok
}

// Parsers returns the registered parsers in registration order.
func (r *Registry) Parsers() []ManifestParser {
	return slices.Clone(r.parsers)
}

// ManifestFiles returns every recognized manifest name, sorted.
func (r *Registry) ManifestFiles() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ParseManifest dispatches to the parser registered for path's base name.
// Unknown files yield an empty list.
func (r *Registry) ParseManifest(path string) []Dependency {
	p, ok := r.Lookup(path)
	if !ok {
		return []Dependency{}
	}
	return p.ParseManifest(path)
}

// ParseImports dispatches on the file extension. Unknown extensions yield an
// empty list.
func (r *Registry) ParseImports(path string) []string {
	p, ok := r.ForSource(path)
	if !ok {
		return []string{}
	}
	return p.ParseImports(path)
}
