// Package imports extracts raw import specifiers from source files.
//
// Two strategies implement [Scanner]: [TreeSitter] walks a concrete syntax
// tree for the grammars it knows, and [Regex] matches line patterns for
// everything else. Ecosystem parsers pick one, then map each specifier to a
// package root with [Normalize].
package imports

import (
	"io"
	"os"
	"slices"
)

// MaxSourceSize caps how much of a source file is read for import scanning.
const MaxSourceSize = 1 << 20

// Scanner returns the import specifiers found in src, in document order.
// The path is used only to choose a grammar and in error messages.
type Scanner interface {
	Scan(path string, src []byte) ([]string, error)
}

// ReadSource reads at most MaxSourceSize bytes of path.
func ReadSource(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, MaxSourceSize))
}

// Normalize maps every spec through root, drops rejected specs, and returns
// the sorted, de-duplicated package roots.
func Normalize(specs []string, root func(spec string) (string, bool)) []string {
	seen := make(map[string]bool, len(specs))
	out := make([]string, 0, len(specs))
	for _, spec := range specs {
		name, ok := root(spec)
		if !ok || name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Denylist is a set of package roots that never count as external.
type Denylist map[string]struct{}

// NewDenylist builds a Denylist from names.
func NewDenylist(names ...string) Denylist {
	d := make(Denylist, len(names))
	for _, n := range names {
		d[n] = struct{}{}
	}
	return d
}

// Contains reports whether name is denied.
func (d Denylist) Contains(name string) bool {
	_, ok := d[name]
	return ok
}
