package deps

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDependencyJSON(t *testing.T) {
	tests := []struct {
		name string
		dep  Dependency
		want string
	}{
		{
			name: "with version",
			dep:  Dependency{Name: "requests", Version: "2.31.0", Source: "requirements.txt"},
			want: `{"name":"requests","version":"2.31.0","dev":false,"source":"requirements.txt"}`,
		},
		{
			name: "unset version",
			dep:  Dependency{Name: "bar", Dev: true, Source: "Pipfile"},
			want: `{"name":"bar","version":null,"dev":true,"source":"Pipfile"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.dep)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))

			var back Dependency
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.dep, back)
		})
	}
}

func TestDedupe(t *testing.T) {
	list := []Dependency{
		{Name: "a", Version: "1", Source: "x/package.json"},
		{Name: "b", Source: "x/package.json"},
		{Name: "a", Version: "2", Source: "x/package.json"},
		{Name: "a", Version: "1", Source: "y/package.json"},
	}

	got := Dedupe(list)
	assert.Equal(t, []Dependency{list[0], list[1], list[3]}, got)
	assert.Len(t, list, 4)
}

func TestSort(t *testing.T) {
	list := []Dependency{
		{Name: "b", Source: "b.toml"},
		{Name: "z", Source: "a.toml"},
		{Name: "a", Source: "a.toml"},
	}
	Sort(list)
	assert.Equal(t, []string{"a", "z", "b"}, []string{list[0].Name, list[1].Name, list[2].Name})
}

func TestNormalizeVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.2.3", "1.2.3"},
		{"==1.2.3", "1.2.3"},
		{"^18.2.0", "18.2.0"},
		{"~5.4.0", "5.4.0"},
		{">= 2.0", "2.0"},
		{"~> 7.0", "7.0"},
		{"~=1.4", "1.4"},
		{"v1.10.1", "v1.10.1"},
		{"1.0.0-rc.1", "1.0.0-rc.1"},
		{"1.2.x", "1.2.x"},
		{"", ""},
		{"*", ""},
		{"latest", ""},
		{">=1,<2", ""},
		{"^7.0 || ^8.0", ""},
		{">=29 <30", ""},
		{"workspace:*", ""},
		{"git+https://example.com/x.git", ""},
		{"${spring.version}", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeVersion(tt.in); got != tt.want {
				t.Errorf("NormalizeVersion(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
