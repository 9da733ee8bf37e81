package javascript

import (
	"bufio"
	"encoding/json"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/matzehuels/repoinsight/pkg/deps"
)

type lockFile struct {
	Packages     map[string]lockPackage `json:"packages"`
	Dependencies map[string]lockPackage `json:"dependencies"`
}

type lockPackage struct {
	Version     string `json:"version"`
	Dev         bool   `json:"dev"`
	DevOptional bool   `json:"devOptional"`
	Link        bool   `json:"link"`
}

// parsePackageLock reads the "packages" map of lockfile v2/v3, falling back
// to the "dependencies" map of v1.
func parsePackageLock(path string) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lock lockFile
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, err
	}

	var out []deps.Dependency
	if lock.Packages != nil {
		for _, key := range slices.Sorted(maps.Keys(lock.Packages)) {
			// The "" key is the root project itself.
			i := strings.LastIndex(key, "node_modules/")
			if key == "" || i < 0 {
				continue
			}
			pkg := lock.Packages[key]
			if pkg.Link || pkg.Version == "" {
				continue
			}
			out = append(out, deps.Dependency{
				Name:    key[i+len("node_modules/"):],
				Version: pkg.Version,
				Dev:     pkg.Dev || pkg.DevOptional,
				Source:  path,
			})
		}
		return out, nil
	}

	for _, name := range slices.Sorted(maps.Keys(lock.Dependencies)) {
		pkg := lock.Dependencies[name]
		if pkg.Version == "" {
			continue
		}
		out = append(out, deps.Dependency{Name: name, Version: pkg.Version, Dev: pkg.Dev, Source: path})
	}
	return out, nil
}

// parseYarnLock reads entry headers and their version line. Classic
// entries use `version "1.0.0"`, berry entries use `version: 1.0.0`.
func parseYarnLock(path string) ([]deps.Dependency, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var (
		out  []deps.Dependency
		name string
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line[0] != ' ' {
			name = entryName(line)
			continue
		}
		if name == "" {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "version") {
			continue
		}
		version := strings.TrimPrefix(trimmed, "version")
		version = strings.Trim(strings.TrimPrefix(strings.TrimSpace(version), ":"), ` "`)
		if version != "" {
			out = append(out, deps.Dependency{Name: name, Version: version, Source: path})
		}
		name = ""
	}
	return out, scanner.Err()
}

// entryName returns the package name of a yarn.lock entry header such as
// `"@babel/core@^7.0.0", "@babel/core@^7.1.0":` or `lodash@npm:^4.17.21:`.
func entryName(header string) string {
	header = strings.TrimSuffix(strings.TrimSpace(header), ":")
	first, _, _ := strings.Cut(header, ",")
	first = strings.Trim(strings.TrimSpace(first), `"`)
	if first == "__metadata" {
		return ""
	}
	at := strings.LastIndex(first, "@")
	if at <= 0 {
		return ""
	}
	return first[:at]
}
