package php

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

func TestParseComposerJSON(t *testing.T) {
	path := writeFile(t, "composer.json", `{
  "require": {"php": ">=8.1", "ext-json": "*", "monolog/monolog": "^3.5", "guzzlehttp/guzzle": "^7.0 || ^8.0"},
  "require-dev": {"phpunit/phpunit": "10.5.10"}
}`)

	got := New(deps.ParserOptions{}).ParseManifest(path)
	want := []deps.Dependency{
		{Name: "guzzlehttp/guzzle", Version: "", Source: path},
		{Name: "monolog/monolog", Version: "3.5", Source: path},
		{Name: "phpunit/phpunit", Version: "10.5.10", Dev: true, Source: path},
	}
	assert.Equal(t, want, got)
}

func TestParseComposerLock(t *testing.T) {
	path := writeFile(t, "composer.lock", `{
  "packages": [{"name": "monolog/monolog", "version": "3.5.0"}],
  "packages-dev": [{"name": "phpunit/phpunit", "version": "10.5.10"}]
}`)

	got := New(deps.ParserOptions{}).ParseManifest(path)
	want := []deps.Dependency{
		{Name: "monolog/monolog", Version: "3.5.0", Source: path},
		{Name: "phpunit/phpunit", Version: "10.5.10", Dev: true, Source: path},
	}
	assert.Equal(t, want, got)
}

func TestParseImports(t *testing.T) {
	path := writeFile(t, "index.php", `<?php
namespace App;

use Monolog\Logger;
use Monolog\Handler\StreamHandler;
use function GuzzleHttp\Psr7\stream_for;
use Exception;
`)

	got := New(deps.ParserOptions{}).ParseImports(path)
	assert.Equal(t, []string{"GuzzleHttp", "Monolog"}, got)
}

func TestParseComposerJSON_EmptySection(t *testing.T) {
	path := writeFile(t, "composer.json", `{"require":{"monolog/monolog":"^2.0"},"require-dev":[]}`)

	got := New(deps.ParserOptions{}).ParseManifest(path)
	want := []deps.Dependency{
		{Name: "monolog/monolog", Version: "2.0", Source: path},
	}
	assert.Equal(t, want, got)
}

func TestParseManifest_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"composer.json", `{"require": {"monolog/monolog": "^3.5",`},
		{"composer.json", `{"require": ["monolog/monolog"]}`},
		{"composer.lock", `{"packages": [{"name": "monolog/monolog"`},
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
