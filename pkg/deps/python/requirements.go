package python

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/matzehuels/repoinsight/pkg/deps"
)

var requirementRE = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)\s*(?:\[[^\]]*\])?\s*(.*)$`)

func parseRequirements(path string) ([]deps.Dependency, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []deps.Dependency
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if d, ok := parseRequirement(scanner.Text(), false, path); ok {
			out = append(out, d)
		}
	}
	return out, scanner.Err()
}

// parseRequirement reads one PEP 508 requirement line. Options, editable
// installs, URLs, and comments are skipped.
func parseRequirement(line string, dev bool, source string) (deps.Dependency, bool) {
	line = strings.TrimSpace(line)
	if i := strings.Index(line, " #"); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	if line == "" || line[0] == '#' || line[0] == '-' {
		return deps.Dependency{}, false
	}
	if strings.Contains(line, "://") || strings.HasPrefix(line, "git+") {
		return deps.Dependency{}, false
	}
	if i := strings.Index(line, ";"); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	m := requirementRE.FindStringSubmatch(line)
	if m == nil {
		return deps.Dependency{}, false
	}
	if strings.HasPrefix(strings.TrimSpace(m[2]), "@") {
		return deps.Dependency{Name: m[1], Dev: dev, Source: source}, true
	}
	return deps.Dependency{
		Name:    m[1],
		Version: deps.NormalizeVersion(strings.Trim(m[2], "()")),
		Dev:     dev,
		Source:  source,
	}, true
}
