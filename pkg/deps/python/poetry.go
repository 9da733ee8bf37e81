package python

import (
	"maps"
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/repoinsight/pkg/deps"
)

type pyprojectFile struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	DependencyGroups map[string][]any `toml:"dependency-groups"`
	Tool             struct {
		Poetry struct {
			Dependencies    map[string]any `toml:"dependencies"`
			DevDependencies map[string]any `toml:"dev-dependencies"`
			Group           map[string]struct {
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// devGroups are optional-dependency group names treated as development.
var devGroups = map[string]bool{
	"dev": true, "development": true, "test": true, "tests": true, "testing": true,
	"lint": true, "linting": true, "docs": true, "doc": true, "typing": true,
}

func parsePyproject(path string) ([]deps.Dependency, error) {
	var py pyprojectFile
	if _, err := toml.DecodeFile(path, &py); err != nil {
		return nil, err
	}

	var out []deps.Dependency
	for _, req := range py.Project.Dependencies {
		if d, ok := parseRequirement(req, false, path); ok {
			out = append(out, d)
		}
	}
	for _, group := range slices.Sorted(maps.Keys(py.Project.OptionalDependencies)) {
		for _, req := range py.Project.OptionalDependencies[group] {
			if d, ok := parseRequirement(req, devGroups[group], path); ok {
				out = append(out, d)
			}
		}
	}
	for _, group := range slices.Sorted(maps.Keys(py.DependencyGroups)) {
		for _, entry := range py.DependencyGroups[group] {
			// Non-string entries are {include-group = "..."} references.
			req, ok := entry.(string)
			if !ok {
				continue
			}
			if d, ok := parseRequirement(req, true, path); ok {
				out = append(out, d)
			}
		}
	}

	poetry := py.Tool.Poetry
	out = append(out, poetryTable(poetry.Dependencies, false, path)...)
	out = append(out, poetryTable(poetry.DevDependencies, true, path)...)
	for _, group := range slices.Sorted(maps.Keys(poetry.Group)) {
		out = append(out, poetryTable(poetry.Group[group].Dependencies, group != "main", path)...)
	}
	return out, nil
}

// poetryTable converts a Poetry dependency table. The "python" entry is the
// interpreter constraint, not a package.
func poetryTable(table map[string]any, dev bool, source string) []deps.Dependency {
	var out []deps.Dependency
	for _, name := range slices.Sorted(maps.Keys(table)) {
		if name == "python" {
			continue
		}
		out = append(out, deps.Dependency{
			Name:    name,
			Version: deps.NormalizeVersion(constraint(table[name])),
			Dev:     dev,
			Source:  source,
		})
	}
	return out
}

// constraint extracts a version constraint from a string or inline-table
// dependency value. Anything else (git, path, multiple constraints) has none.
func constraint(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case map[string]any:
		if s, ok := v["version"].(string); ok {
			return s
		}
	}
	return ""
}

type poetryLockFile struct {
	Packages []struct {
		Name     string `toml:"name"`
		Version  string `toml:"version"`
		Category string `toml:"category"`
	} `toml:"package"`
}

func parsePoetryLock(path string) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lock poetryLockFile
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, err
	}
	out := make([]deps.Dependency, 0, len(lock.Packages))
	for _, pkg := range lock.Packages {
		if pkg.Name == "" {
			continue
		}
		out = append(out, deps.Dependency{
			Name:    pkg.Name,
			Version: pkg.Version,
			Dev:     pkg.Category == "dev",
			Source:  path,
		})
	}
	return out, nil
}
