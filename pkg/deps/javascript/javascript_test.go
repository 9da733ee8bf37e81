package javascript

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/repoinsight/pkg/deps"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParsePackageJSON(t *testing.T) {
	path := writeFile(t, "package.json", `{
  "name": "web",
  "dependencies": {"react": "^18.2.0", "lodash": "4.17.21", "left-pad": "latest"},
  "devDependencies": {"typescript": "~5.4.0", "jest": ">=29 <30"},
  "peerDependencies": {"react-dom": "^18.0.0"}
}`)

	got := New(deps.ParserOptions{}).ParseManifest(path)
	want := []deps.Dependency{
		{Name: "left-pad", Version: "", Source: path},
		{Name: "lodash", Version: "4.17.21", Source: path},
		{Name: "react", Version: "18.2.0", Source: path},
		{Name: "jest", Version: "", Dev: true, Source: path},
		{Name: "typescript", Version: "5.4.0", Dev: true, Source: path},
		{Name: "react-dom", Version: "18.0.0", Source: path},
	}
	assert.Equal(t, want, got)
}

func TestParsePackageLock(t *testing.T) {
	t.Run("v3 packages", func(t *testing.T) {
		path := writeFile(t, "package-lock.json", `{
  "lockfileVersion": 3,
  "packages": {
    "": {"name": "web", "version": "1.0.0"},
    "node_modules/react": {"version": "18.2.0"},
    "node_modules/jest": {"version": "29.7.0", "dev": true},
    "node_modules/a/node_modules/b": {"version": "2.0.0"},
    "packages/local": {"version": "0.0.1"},
    "node_modules/local": {"resolved": "packages/local", "link": true}
  }
}`)
		got := New(deps.ParserOptions{}).ParseManifest(path)
		want := []deps.Dependency{
			{Name: "b", Version: "2.0.0", Source: path},
			{Name: "jest", Version: "29.7.0", Dev: true, Source: path},
			{Name: "react", Version: "18.2.0", Source: path},
		}
		assert.Equal(t, want, got)
	})

	t.Run("v1 dependencies", func(t *testing.T) {
		path := writeFile(t, "package-lock.json", `{
  "lockfileVersion": 1,
  "dependencies": {
    "express": {"version": "4.18.2"},
    "mocha": {"version": "10.0.0", "dev": true}
  }
}`)
		got := New(deps.ParserOptions{}).ParseManifest(path)
		want := []deps.Dependency{
			{Name: "express", Version: "4.18.2", Source: path},
			{Name: "mocha", Version: "10.0.0", Dev: true, Source: path},
		}
		assert.Equal(t, want, got)
	})
}

func TestParseYarnLock(t *testing.T) {
	t.Run("classic", func(t *testing.T) {
		path := writeFile(t, "yarn.lock", `# THIS IS AN AUTOGENERATED FILE.
# yarn lockfile v1


"@babel/core@^7.0.0", "@babel/core@^7.1.0":
  version "7.24.0"
  resolved "https://registry.yarnpkg.com/@babel/core/-/core-7.24.0.tgz"
  dependencies:
    debug "^4.1.0"

lodash@^4.17.21:
  version "4.17.21"
`)
		got := New(deps.ParserOptions{}).ParseManifest(path)
		want := []deps.Dependency{
			{Name: "@babel/core", Version: "7.24.0", Source: path},
			{Name: "lodash", Version: "4.17.21", Source: path},
		}
		assert.Equal(t, want, got)
	})

	t.Run("berry", func(t *testing.T) {
		path := writeFile(t, "yarn.lock", `__metadata:
  version: 8
  cacheKey: 10

"lodash@npm:^4.17.21":
  version: 4.17.21
  resolution: "lodash@npm:4.17.21"
`)
		got := New(deps.ParserOptions{}).ParseManifest(path)
		want := []deps.Dependency{
			{Name: "lodash", Version: "4.17.21", Source: path},
		}
		assert.Equal(t, want, got)
	})
}

func TestParseManifest_Malformed(t *testing.T) {
	p := New(deps.ParserOptions{})
	for _, name := range []string{"package.json", "package-lock.json"} {
		t.Run(name, func(t *testing.T) {
			got := p.ParseManifest(writeFile(t, name, `{"dependencies": [1, 2`))
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestImportRoot(t *testing.T) {
	tests := []struct {
		spec   string
		want   string
		wantOK bool
	}{
		{"react", "react", true},
		{"lodash/fp", "lodash", true},
		{"@scope/pkg/sub", "@scope/pkg", true},
		{"@scope", "", false},
		{"./local", "", false},
		{"../up", "", false},
		{"/abs", "", false},
		{"fs", "", false},
		{"node:path", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, ok := importRoot(tt.spec)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("importRoot(%q) = (%q, %v), want (%q, %v)", tt.spec, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseImports(t *testing.T) {
	path := writeFile(t, "index.tsx", `import React from "react";
import { join } from "path";
import Button from "./Button";
import { z } from "@acme/schema/zod";
const _ = require("lodash/fp");
`)

	got := New(deps.ParserOptions{}).ParseImports(path)
	assert.Equal(t, []string{"@acme/schema", "lodash", "react"}, got)
}
