package ruby

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

func TestParseGemfile(t *testing.T) {
	path := writeFile(t, "Gemfile", `source 'https://rubygems.org'

# Web framework
gem 'rails', '~> 7.0'
gem 'puma', '>= 5.0', '< 7'
gem "pg"

group :development, :test do
  gem 'rspec-rails'
  gem 'factory_bot_rails', '6.4.3'
end

platforms :jruby do
  gem 'jdbc-postgres'
end

gem 'rubocop', require: false, group: :development
`)

	got := New(deps.ParserOptions{}).ParseManifest(path)
	want := []deps.Dependency{
		{Name: "rails", Version: "7.0", Source: path},
		{Name: "puma", Version: "", Source: path},
		{Name: "pg", Version: "", Source: path},
		{Name: "rspec-rails", Version: "", Dev: true, Source: path},
		{Name: "factory_bot_rails", Version: "6.4.3", Dev: true, Source: path},
		{Name: "jdbc-postgres", Version: "", Source: path},
		{Name: "rubocop", Version: "", Dev: true, Source: path},
	}
	assert.Equal(t, want, got)
}

func TestParseManifest_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		content  string
		want     []deps.Dependency
	}{
		{
			name:     "unbalanced quotes",
			manifest: "Gemfile",
			content:  "source 'https://rubygems.org\ngem 'sinatra\ngem 'rails', '7.1.0\ngem \"pg\n",
			want:     []deps.Dependency{{Name: "rails", Version: ""}},
		},
		{
			name:     "unclosed group",
			manifest: "Gemfile",
			content:  "group :test do\n  gem \"rspec\", \"3.13.0\"\nend\nend\ngem 'rake'\n",
			want: []deps.Dependency{
				{Name: "rspec", Version: "3.13.0", Dev: true},
				{Name: "rake", Version: ""},
			},
		},
		{
			name:     "truncated lock",
			manifest: "Gemfile.lock",
			content:  "GEM\n  remote: https://rubygems.org/\n  specs:\n    rack (3.0",
		},
	}

	p := New(deps.ParserOptions{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.manifest, tt.content)
			for i := range tt.want {
				tt.want[i].Source = path
			}
			got := p.ParseManifest(path)
			require.NotNil(t, got)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseGemfileLock(t *testing.T) {
	path := writeFile(t, "Gemfile.lock", `GEM
  remote: https://rubygems.org/
  specs:
    actionpack (7.1.3)
      rack (>= 2.2.4)
    rack (3.0.9)

PLATFORMS
  ruby

DEPENDENCIES
  actionpack (~> 7.1)

BUNDLED WITH
   2.5.6
`)

	got := New(deps.ParserOptions{}).ParseManifest(path)
	want := []deps.Dependency{
		{Name: "actionpack", Version: "7.1.3", Source: path},
		{Name: "rack", Version: "3.0.9", Source: path},
	}
	assert.Equal(t, want, got)
}

func TestParseImports(t *testing.T) {
	path := writeFile(t, "app.rb", `require 'json'
require "sinatra/base"
require_relative 'lib/helper'
require 'redis'
`)

	got := New(deps.ParserOptions{}).ParseImports(path)
	assert.Equal(t, []string{"redis", "sinatra"}, got)
}
