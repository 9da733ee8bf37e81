package deps

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubParser is a minimal ManifestParser for registry tests.
type stubParser struct {
	Base
}

func newStub(name string, files []string, exts []string, parse ParseFunc) *stubParser {
	p := &stubParser{Base: NewBase(name, ParserOptions{}, nil)}
	p.Formats = make(map[string]ParseFunc)
	for _, f := range files {
		p.Formats[f] = parse
	}
	p.Extensions = exts
	return p
}

func TestSafeParse(t *testing.T) {
	tests := []struct {
		name string
		fn   ParseFunc
		want []Dependency
	}{
		{
			name: "ok",
			fn: func(path string) ([]Dependency, error) {
				return []Dependency{{Name: "x", Source: path}}, nil
			},
			want: []Dependency{{Name: "x", Source: "m"}},
		},
		{
			name: "nil result",
			fn:   func(string) ([]Dependency, error) { return nil, nil },
			want: []Dependency{},
		},
		{
			name: "error",
			fn:   func(string) ([]Dependency, error) { return []Dependency{{Name: "partial"}}, errors.New("bad") },
			want: []Dependency{},
		},
		{
			name: "panic",
			fn:   func(string) ([]Dependency, error) { panic("boom") },
			want: []Dependency{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeParse(OrDiscard(nil), "test", "m", tt.fn)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSafeImports_Panic(t *testing.T) {
	got := SafeImports(OrDiscard(nil), "test", "x.go", func(string) ([]string, error) {
		var m map[string]int
		m["boom"]++
		return nil, nil
	})
	assert.Equal(t, []string{}, got)
}

func TestBase_UnknownManifestAndMissingScanner(t *testing.T) {
	p := newStub("stub", []string{"stub.toml"}, []string{".stub"}, func(string) ([]Dependency, error) {
		return nil, nil
	})

	assert.Equal(t, []Dependency{}, p.ParseManifest("other.toml"))
	assert.Equal(t, []string{}, p.ParseImports("a.stub"))
	assert.Equal(t, []string{"stub.toml"}, p.ManifestFiles())
}

func TestNewRegistry(t *testing.T) {
	noop := func(string) ([]Dependency, error) { return nil, nil }

	t.Run("dispatch", func(t *testing.T) {
		a := newStub("a", []string{"a.lock", "a.json"}, []string{".a"}, func(path string) ([]Dependency, error) {
			return []Dependency{{Name: "from-a", Source: path}}, nil
		})
		b := newStub("b", []string{"b.txt"}, []string{".B"}, noop)

		reg, err := NewRegistry(a, b)
		require.NoError(t, err)

		assert.Equal(t, []string{"a.json", "a.lock", "b.txt"}, reg.ManifestFiles())
		assert.Equal(t, []Dependency{{Name: "from-a", Source: "dir/a.lock"}}, reg.ParseManifest("dir/a.lock"))
		assert.Equal(t, []Dependency{}, reg.ParseManifest("dir/unknown.lock"))

		p, ok := reg.ForSource("src/main.b")
		require.True(t, ok)
		assert.Equal(t, "b", p.Ecosystem())
		assert.Equal(t, []string{}, reg.ParseImports("main.zzz"))
		assert.Len(t, reg.Parsers(), 2)
	})

	t.Run("duplicate manifest", func(t *testing.T) {
		_, err := NewRegistry(
			newStub("a", []string{"shared.json"}, nil, noop),
			newStub("b", []string{"shared.json"}, nil, noop),
		)
		assert.ErrorContains(t, err, "shared.json")
	})

	t.Run("duplicate extension", func(t *testing.T) {
		_, err := NewRegistry(
			newStub("a", nil, []string{".x"}, noop),
			newStub("b", nil, []string{".X"}, noop),
		)
		assert.ErrorContains(t, err, ".x")
	})
}
