package python

import (
	"encoding/json"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/repoinsight/pkg/deps"
)

type pipfile struct {
	Packages    map[string]any `toml:"packages"`
	DevPackages map[string]any `toml:"dev-packages"`
}

func parsePipfile(path string) ([]deps.Dependency, error) {
	var pf pipfile
	if _, err := toml.DecodeFile(path, &pf); err != nil {
		return nil, err
	}
	out := pipfileSection(pf.Packages, false, path)
	return append(out, pipfileSection(pf.DevPackages, true, path)...), nil
}

func pipfileSection(section map[string]any, dev bool, source string) []deps.Dependency {
	var out []deps.Dependency
	for _, name := range slices.Sorted(maps.Keys(section)) {
		out = append(out, deps.Dependency{
			Name:    name,
			Version: deps.NormalizeVersion(constraint(section[name])),
			Dev:     dev,
			Source:  source,
		})
	}
	return out
}

type pipfileLock struct {
	Default map[string]lockEntry `json:"default"`
	Develop map[string]lockEntry `json:"develop"`
}

type lockEntry struct {
	Version string `json:"version"`
}

func parsePipfileLock(path string) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lock pipfileLock
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, err
	}
	out := lockSection(lock.Default, false, path)
	return append(out, lockSection(lock.Develop, true, path)...), nil
}

// lockSection keeps pinned versions, dropping only the "==" pin marker.
func lockSection(section map[string]lockEntry, dev bool, source string) []deps.Dependency {
	var out []deps.Dependency
	for _, name := range slices.Sorted(maps.Keys(section)) {
		out = append(out, deps.Dependency{
			Name:    name,
			Version: strings.TrimPrefix(section[name].Version, "=="),
			Dev:     dev,
			Source:  source,
		})
	}
	return out
}
