package ecosystems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg, err := Default(nil)
	require.NoError(t, err)

	tests := []struct {
		file      string
		ecosystem string
	}{
		{"requirements.txt", "python"},
		{"pyproject.toml", "python"},
		{"Pipfile", "python"},
		{"sub/dir/package.json", "javascript"},
		{"yarn.lock", "javascript"},
		{"Cargo.lock", "rust"},
		{"pom.xml", "java"},
		{"build.gradle.kts", "java"},
		{"go.mod", "go"},
		{"Gemfile.lock", "ruby"},
		{"composer.json", "php"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			p, ok := reg.Lookup(tt.file)
			require.True(t, ok)
			assert.Equal(t, tt.ecosystem, p.Ecosystem())
		})
	}

	for _, name := range []string{"README.md", "requirements-dev.txt", "PACKAGE.JSON", "go.work"} {
		_, ok := reg.Lookup(name)
		assert.False(t, ok, name)
	}
}

func TestDefaultRegistry_SourceExtensions(t *testing.T) {
	reg, err := Default(nil)
	require.NoError(t, err)

	for ext, want := range map[string]string{
		"main.go": "go", "app.py": "python", "App.tsx": "javascript",
		"lib.rs": "rust", "Main.kt": "java", "app.rb": "ruby", "index.php": "php",
	} {
		p, ok := reg.ForSource(ext)
		require.True(t, ok, ext)
		assert.Equal(t, want, p.Ecosystem(), ext)
	}
}

func TestFind(t *testing.T) {
	assert.NotNil(t, Find("rust", nil))
	assert.Nil(t, Find("cobol", nil))
}
