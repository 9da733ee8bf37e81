package ruby

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/matzehuels/repoinsight/pkg/deps"
)

var (
	gemPattern      = regexp.MustCompile(`^\s*gem\s*\(?\s*['"]([^'"]+)['"](.*)$`)
	groupPattern    = regexp.MustCompile(`^\s*group\s*\(?(.*?)\)?\s+do\b`)
	blockPattern    = regexp.MustCompile(`\bdo\s*(\|[^|]*\|)?\s*$`)
	argPattern      = regexp.MustCompile(`^\s*,\s*['"]([^'"]*)['"]`)
	groupOptPattern = regexp.MustCompile(`\bgroups?\s*(?::|=>)\s*(.+)$`)
	lockSpecPattern = regexp.MustCompile(`^ {4}([^\s(]+) \(([^)]+)\)$`)
)

func isDevGroup(s string) bool {
	return strings.Contains(s, "development") || strings.Contains(s, "test")
}

func parseGemfile(path string) ([]deps.Dependency, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var (
		out []deps.Dependency
		// blocks holds one entry per open do/end block; true marks a
		// development group.
		blocks []bool
	)
	inDev := func() bool {
		for _, dev := range blocks {
			if dev {
				return true
			}
		}
		return false
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if trimmed == "end" {
			if len(blocks) > 0 {
				blocks = blocks[:len(blocks)-1]
			}
			continue
		}
		if m := groupPattern.FindStringSubmatch(line); m != nil {
			blocks = append(blocks, isDevGroup(m[1]))
			continue
		}
		if m := gemPattern.FindStringSubmatch(line); m != nil {
			out = append(out, gemDependency(m[1], m[2], inDev(), path))
			continue
		}
		if blockPattern.MatchString(trimmed) {
			blocks = append(blocks, false)
		}
	}
	return out, scanner.Err()
}

// gemDependency reads the version arguments and group option that follow
// the gem name.
func gemDependency(name, rest string, dev bool, source string) deps.Dependency {
	if i := strings.Index(rest, " #"); i >= 0 {
		rest = rest[:i]
	}
	var versions []string
	for {
		m := argPattern.FindStringSubmatchIndex(rest)
		if m == nil {
			break
		}
		versions = append(versions, rest[m[2]:m[3]])
		rest = rest[m[1]:]
	}
	if m := groupOptPattern.FindStringSubmatch(rest); m != nil && isDevGroup(m[1]) {
		dev = true
	}
	d := deps.Dependency{Name: name, Dev: dev, Source: source}
	if len(versions) == 1 {
		d.Version = deps.NormalizeVersion(versions[0])
	}
	return d
}

// parseGemfileLock reads top-level gems of the GEM specs section. Nested
// (six-space) lines are transitive constraints and are skipped.
func parseGemfileLock(path string) ([]deps.Dependency, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var (
		out     []deps.Dependency
		section string
		inSpecs bool
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if line[0] != ' ' {
			section = strings.TrimSpace(line)
			inSpecs = false
			continue
		}
		if strings.TrimSpace(line) == "specs:" {
			inSpecs = true
			continue
		}
		if !inSpecs || section != "GEM" {
			continue
		}
		if m := lockSpecPattern.FindStringSubmatch(line); m != nil {
			out = append(out, deps.Dependency{Name: m[1], Version: m[2], Source: path})
		}
	}
	return out, scanner.Err()
}
