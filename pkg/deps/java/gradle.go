package java

import (
	"cmp"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/matzehuels/repoinsight/pkg/deps"
)

const configPattern = `\b((?:[a-z][A-Za-z]*?)?(?:[Ii]mplementation|[Aa]pi|[Cc]ompileOnly|[Cc]ompile|[Rr]untimeOnly|[Aa]nnotationProcessor|kapt|ksp))`

var (
	// implementation 'g:a:v' / implementation("g:a:v")
	gradleStringRE = regexp.MustCompile(configPattern +
		`\s*\(?\s*["']([^"':\s]+):([^"':\s]+)(?::([^"':@\s]+))?[^"']*["']`)
	// implementation group: 'g', name: 'a', version: 'v'
	// implementation(group = "g", name = "a", version = "v")
	gradleMapRE = regexp.MustCompile(configPattern +
		`\s*\(?\s*group\s*[:=]\s*["']([^"']+)["']\s*,\s*name\s*[:=]\s*["']([^"']+)["']` +
		`(?:\s*,\s*version\s*[:=]\s*["']([^"']+)["'])?`)
)

func parseGradle(path string) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	src := stripLineComments(string(data))

	type hit struct {
		pos int
		dep deps.Dependency
	}
	var hits []hit
	for _, re := range []*regexp.Regexp{gradleStringRE, gradleMapRE} {
		for _, m := range re.FindAllStringSubmatchIndex(src, -1) {
			group := func(i int) string {
				if m[2*i] < 0 {
					return ""
				}
				return src[m[2*i]:m[2*i+1]]
			}
			config := group(1)
			hits = append(hits, hit{pos: m[0], dep: deps.Dependency{
				Name:    group(2) + ":" + group(3),
				Version: deps.NormalizeVersion(group(4)),
				Dev:     isDevConfig(config),
				Source:  path,
			}})
		}
	}

	slices.SortStableFunc(hits, func(a, b hit) int { return cmp.Compare(a.pos, b.pos) })
	out := make([]deps.Dependency, len(hits))
	for i, h := range hits {
		out[i] = h.dep
	}
	return out, nil
}

func isDevConfig(config string) bool {
	lower := strings.ToLower(config)
	return strings.Contains(lower, "test") || lower == "compileonly"
}

func stripLineComments(src string) string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}
