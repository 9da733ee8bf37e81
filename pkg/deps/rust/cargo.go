package rust

import (
	"maps"
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/repoinsight/pkg/deps"
)

type depTables struct {
	Dependencies      map[string]any `toml:"dependencies"`
	DevDependencies   map[string]any `toml:"dev-dependencies"`
	BuildDependencies map[string]any `toml:"build-dependencies"`
}

type cargoFile struct {
	Dependencies      map[string]any `toml:"dependencies"`
	DevDependencies   map[string]any `toml:"dev-dependencies"`
	BuildDependencies map[string]any `toml:"build-dependencies"`
	Workspace         struct {
		Dependencies map[string]any `toml:"dependencies"`
	} `toml:"workspace"`
	Target map[string]depTables `toml:"target"`
}

func parseCargoToml(path string) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cargo cargoFile
	if err := toml.Unmarshal(data, &cargo); err != nil {
		return nil, err
	}

	var out []deps.Dependency
	out = appendTables(out, depTables{
		Dependencies:      cargo.Dependencies,
		DevDependencies:   cargo.DevDependencies,
		BuildDependencies: cargo.BuildDependencies,
	}, path)
	out = appendTable(out, cargo.Workspace.Dependencies, false, path)
	for _, target := range slices.Sorted(maps.Keys(cargo.Target)) {
		out = appendTables(out, cargo.Target[target], path)
	}
	return out, nil
}

func appendTables(out []deps.Dependency, t depTables, source string) []deps.Dependency {
	out = appendTable(out, t.Dependencies, false, source)
	out = appendTable(out, t.DevDependencies, true, source)
	return appendTable(out, t.BuildDependencies, true, source)
}

// appendTable accepts both `name = "1.0"` and `name = { version = "1.0" }`.
// Path, git, and workspace-inherited entries carry no version.
func appendTable(out []deps.Dependency, table map[string]any, dev bool, source string) []deps.Dependency {
	for _, name := range slices.Sorted(maps.Keys(table)) {
		var spec string
		switch v := table[name].(type) {
		case string:
			spec = v
		case map[string]any:
			spec, _ = v["version"].(string)
		}
		out = append(out, deps.Dependency{
			Name:    name,
			Version: deps.NormalizeVersion(spec),
			Dev:     dev,
			Source:  source,
		})
	}
	return out
}

type cargoLock struct {
	Packages []struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
}

func parseCargoLock(path string) ([]deps.Dependency, error) {
	var lock cargoLock
	if _, err := toml.DecodeFile(path, &lock); err != nil {
		return nil, err
	}
	out := make([]deps.Dependency, 0, len(lock.Packages))
	for _, pkg := range lock.Packages {
		if pkg.Name == "" || pkg.Version == "" {
			continue
		}
		out = append(out, deps.Dependency{Name: pkg.Name, Version: pkg.Version, Source: path})
	}
	return out, nil
}
