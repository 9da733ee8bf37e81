package python

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

func TestParser_ManifestFiles(t *testing.T) {
	p := New(deps.ParserOptions{})
	assert.Equal(t, []string{
		"Pipfile", "Pipfile.lock", "poetry.lock", "pyproject.toml",
		"requirements.txt", "setup.cfg", "setup.py",
	}, p.ManifestFiles())
	assert.Equal(t, []string{".py"}, p.SourceExtensions())
	assert.Equal(t, "python", p.Ecosystem())
}

func TestParseRequirements(t *testing.T) {
	path := writeFile(t, "requirements.txt", `# Test requirements
requests>=2.28.0
click==8.1.0
pydantic>=2.0,<3
uvicorn[standard]==0.30.1 ; python_version >= "3.8"
httpx  # latest

-e ./local-package
-r other.txt
git+https://github.com/user/repo.git
`)

	got := New(deps.ParserOptions{}).ParseManifest(path)
	want := []deps.Dependency{
		{Name: "requests", Version: "2.28.0", Source: path},
		{Name: "click", Version: "8.1.0", Source: path},
		{Name: "pydantic", Version: "", Source: path},
		{Name: "uvicorn", Version: "0.30.1", Source: path},
		{Name: "httpx", Version: "", Source: path},
	}
	assert.Equal(t, want, got)
}

func TestParsePipfile(t *testing.T) {
	path := writeFile(t, "Pipfile", `[packages]
foo = "==1.2.3"

[dev-packages]
bar = "*"
`)

	got := New(deps.ParserOptions{}).ParseManifest(path)
	want := []deps.Dependency{
		{Name: "foo", Version: "1.2.3", Dev: false, Source: path},
		{Name: "bar", Version: "", Dev: true, Source: path},
	}
	assert.Equal(t, want, got)
}

func TestParsePipfileLock(t *testing.T) {
	path := writeFile(t, "Pipfile.lock", `{
  "_meta": {"hash": {"sha256": "abc"}},
  "default": {"requests": {"version": "==2.31.0"}, "idna": {"version": "==3.6"}},
  "develop": {"pytest": {"version": "==8.0.0"}}
}`)

	got := New(deps.ParserOptions{}).ParseManifest(path)
	want := []deps.Dependency{
		{Name: "idna", Version: "3.6", Source: path},
		{Name: "requests", Version: "2.31.0", Source: path},
		{Name: "pytest", Version: "8.0.0", Dev: true, Source: path},
	}
	assert.Equal(t, want, got)
}

func TestParsePyproject(t *testing.T) {
	path := writeFile(t, "pyproject.toml", `[project]
name = "demo"
dependencies = ["httpx>=0.27", "rich"]

[project.optional-dependencies]
dev = ["pytest==8.0.0"]
postgres = ["psycopg==3.1.18"]

[tool.poetry.dependencies]
python = "^3.11"
fastapi = "^0.110.0"
sqlalchemy = { version = "~2.0", extras = ["asyncio"] }
mylib = { git = "https://example.com/mylib.git" }

[tool.poetry.group.test.dependencies]
coverage = "7.4.0"
`)

	got := New(deps.ParserOptions{}).ParseManifest(path)
	want := []deps.Dependency{
		{Name: "httpx", Version: "0.27", Source: path},
		{Name: "rich", Version: "", Source: path},
		{Name: "pytest", Version: "8.0.0", Dev: true, Source: path},
		{Name: "psycopg", Version: "3.1.18", Source: path},
		{Name: "fastapi", Version: "0.110.0", Source: path},
		{Name: "mylib", Version: "", Source: path},
		{Name: "sqlalchemy", Version: "2.0", Source: path},
		{Name: "coverage", Version: "7.4.0", Dev: true, Source: path},
	}
	assert.Equal(t, want, got)
}

func TestParsePoetryLock(t *testing.T) {
	path := writeFile(t, "poetry.lock", `[[package]]
name = "certifi"
version = "2024.2.2"
category = "main"

[[package]]
name = "pytest"
version = "8.0.0"
category = "dev"
`)

	got := New(deps.ParserOptions{}).ParseManifest(path)
	want := []deps.Dependency{
		{Name: "certifi", Version: "2024.2.2", Source: path},
		{Name: "pytest", Version: "8.0.0", Dev: true, Source: path},
	}
	assert.Equal(t, want, got)
}

func TestParseSetupPy(t *testing.T) {
	path := writeFile(t, "setup.py", `from setuptools import setup

setup(
    name="demo",
    install_requires=[
        "requests>=2.0",
        'six',
    ],
    extras_require={
        "test": ["pytest==7.0.0"],
    },
)
`)

	got := New(deps.ParserOptions{}).ParseManifest(path)
	want := []deps.Dependency{
		{Name: "requests", Version: "2.0", Source: path},
		{Name: "six", Version: "", Source: path},
		{Name: "pytest", Version: "7.0.0", Dev: true, Source: path},
	}
	assert.Equal(t, want, got)
}

func TestParseSetupPy_Extras(t *testing.T) {
	path := writeFile(t, "setup.py", `from setuptools import setup

setup(
    name="demo",
    install_requires=["requests[security]>=2.0", "flask==1.0"],  # runtime
    tests_require=[
        # pinned for CI
        'pytest[cov]==7.0.0',
    ],
    extras_require={"async": ["httpx[http2]>=0.27", "anyio"]},
)
`)

	got := New(deps.ParserOptions{}).ParseManifest(path)
	want := []deps.Dependency{
		{Name: "requests", Version: "2.0", Source: path},
		{Name: "flask", Version: "1.0", Source: path},
		{Name: "pytest", Version: "7.0.0", Dev: true, Source: path},
		{Name: "httpx", Version: "0.27", Dev: true, Source: path},
		{Name: "anyio", Version: "", Dev: true, Source: path},
	}
	assert.Equal(t, want, got)
}

func TestParseSetupCfg(t *testing.T) {
	path := writeFile(t, "setup.cfg", `[metadata]
name = demo

[options]
install_requires =
    requests==2.31.0
    attrs
tests_require = pytest

[options.extras_require]
docs =
    sphinx>=7
`)

	got := New(deps.ParserOptions{}).ParseManifest(path)
	want := []deps.Dependency{
		{Name: "requests", Version: "2.31.0", Source: path},
		{Name: "attrs", Version: "", Source: path},
		{Name: "pytest", Version: "", Dev: true, Source: path},
		{Name: "sphinx", Version: "7", Dev: true, Source: path},
	}
	assert.Equal(t, want, got)
}

func TestParseManifest_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"pyproject.toml", "[project\ndependencies = ["},
		{"Pipfile", "packages = = ="},
		{"Pipfile.lock", "{not json"},
		{"poetry.lock", "[[package]\nname="},
	}

	p := New(deps.ParserOptions{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.ParseManifest(writeFile(t, tt.name, tt.content))
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestParseManifest_MissingFile(t *testing.T) {
	got := New(deps.ParserOptions{}).ParseManifest(filepath.Join(t.TempDir(), "requirements.txt"))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseManifest_Deterministic(t *testing.T) {
	path := writeFile(t, "Pipfile", "[packages]\nzeta = \"*\"\nalpha = \"==1\"\nmid = \">=2\"\n")
	p := New(deps.ParserOptions{})
	first := p.ParseManifest(path)
	for range 5 {
		assert.Equal(t, first, p.ParseManifest(path))
	}
	assert.Equal(t, "alpha", first[0].Name)
}

func TestParseImports(t *testing.T) {
	path := writeFile(t, "app.py", `import os
import numpy as np
from requests.adapters import HTTPAdapter
from .local import helper
from flask import Flask
import requests
`)

	got := New(deps.ParserOptions{}).ParseImports(path)
	assert.Equal(t, []string{"flask", "numpy", "requests"}, got)
}
