package golang

import (
	"bufio"
	"os"
	"strings"

	"github.com/matzehuels/repoinsight/pkg/deps"
)

func parseGoMod(path string) ([]deps.Dependency, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var (
		out   []deps.Dependency
		block string
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		if block != "" {
			if line == ")" {
				block = ""
				continue
			}
			if block == "require" {
				if d, ok := parseRequire(line, path); ok {
					out = append(out, d)
				}
			}
			continue
		}

		verb, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		if strings.HasSuffix(verb, "(") {
			verb, rest = strings.TrimSuffix(verb, "("), "("
		}
		if rest == "(" {
			block = verb
			continue
		}
		if verb == "require" {
			if d, ok := parseRequire(rest, path); ok {
				out = append(out, d)
			}
		}
	}
	return out, scanner.Err()
}

// parseRequire reads "module/path v1.2.3 // indirect".
func parseRequire(line, source string) (deps.Dependency, bool) {
	spec, comment, _ := strings.Cut(line, "//")
	fields := strings.Fields(spec)
	if len(fields) < 2 || strings.ContainsAny(fields[0], "()") {
		return deps.Dependency{}, false
	}
	return deps.Dependency{
		Name:    strings.Trim(fields[0], `"`),
		Version: fields[1],
		Dev:     strings.TrimSpace(comment) == "indirect",
		Source:  source,
	}, true
}

func parseGoSum(path string) ([]deps.Dependency, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return []deps.Dependency{}, nil
}
