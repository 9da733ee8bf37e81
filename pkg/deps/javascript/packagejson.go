package javascript

import (
	"encoding/json"
	"maps"
	"os"
	"slices"

	"github.com/matzehuels/repoinsight/pkg/deps"
)

type packageFile struct {
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
}

func parsePackageJSON(path string) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pkg packageFile
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}

	var out []deps.Dependency
	out = appendSection(out, pkg.Dependencies, false, path)
	out = appendSection(out, pkg.DevDependencies, true, path)
	out = appendSection(out, pkg.PeerDependencies, false, path)
	out = appendSection(out, pkg.OptionalDependencies, false, path)
	return out, nil
}

func appendSection(out []deps.Dependency, section map[string]string, dev bool, source string) []deps.Dependency {
	for _, name := range slices.Sorted(maps.Keys(section)) {
		out = append(out, deps.Dependency{
			Name:    name,
			Version: deps.NormalizeVersion(section[name]),
			Dev:     dev,
			Source:  source,
		})
	}
	return out
}
