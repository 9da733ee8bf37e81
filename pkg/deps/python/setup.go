package python

import (
	"bufio"
	"maps"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/matzehuels/repoinsight/pkg/deps"
)

// listBody matches the inside of a literal list of strings. Brackets inside
// quotes, such as extras in "requests[security]", do not end the list.
const listBody = `((?:\s|,|#[^\n]*|"[^"]*"|'[^']*')*)`

var (
	setupListRE  = regexp.MustCompile(`\b(install_requires|tests_require|setup_requires)\s*=\s*\[` + listBody + `\]`)
	setupExtraRE = regexp.MustCompile(`(?s)\bextras_require\s*=\s*\{(.*?)\}`)
	bracketRE    = regexp.MustCompile(`\[` + listBody + `\]`)
	quotedRE     = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)
)

// parseSetupPy reads literal requirement lists from setup() keywords.
// Computed lists are not evaluated.
func parseSetupPy(path string) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	src := string(data)

	var out []deps.Dependency
	for _, m := range setupListRE.FindAllStringSubmatch(src, -1) {
		dev := m[1] != "install_requires"
		for _, q := range quotedRE.FindAllStringSubmatch(m[2], -1) {
			if d, ok := parseRequirement(q[1]+q[2], dev, path); ok {
				out = append(out, d)
			}
		}
	}
	for _, m := range setupExtraRE.FindAllStringSubmatch(src, -1) {
		for _, list := range bracketRE.FindAllStringSubmatch(m[1], -1) {
			for _, q := range quotedRE.FindAllStringSubmatch(list[1], -1) {
				if d, ok := parseRequirement(q[1]+q[2], true, path); ok {
					out = append(out, d)
				}
			}
		}
	}
	return out, nil
}

// parseSetupCfg reads install_requires and tests_require from [options] and
// every key of [options.extras_require].
func parseSetupCfg(path string) ([]deps.Dependency, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var (
		section string
		key     string
		install []string
		tests   []string
		extras  = make(map[string][]string)
	)
	add := func(value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		switch {
		case section == "options" && key == "install_requires":
			install = append(install, value)
		case section == "options" && key == "tests_require":
			tests = append(tests, value)
		case section == "options.extras_require":
			extras[key] = append(extras[key], value)
		}
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			key = ""
			continue
		}
		if raw[0] == ' ' || raw[0] == '\t' {
			add(line)
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			key = ""
			continue
		}
		key = strings.TrimSpace(k)
		add(v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	var out []deps.Dependency
	for _, req := range install {
		if d, ok := parseRequirement(req, false, path); ok {
			out = append(out, d)
		}
	}
	for _, req := range tests {
		if d, ok := parseRequirement(req, true, path); ok {
			out = append(out, d)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(extras)) {
		for _, req := range extras[name] {
			if d, ok := parseRequirement(req, true, path); ok {
				out = append(out, d)
			}
		}
	}
	return out, nil
}
