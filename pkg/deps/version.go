package deps

import (
	"regexp"
	"strings"
)

var versionRE = regexp.MustCompile(`^v?[0-9][0-9A-Za-z.+_*-]*$`)

// NormalizeVersion turns a declarative version constraint into a single
// version string, or "" when the constraint does not name one version.
//
// Leading comparison operators (^ ~ > = < !) and surrounding whitespace are
// stripped. What remains must be a single version-looking token: compound
// ranges (">=1,<2", "1 || 2"), wildcards ("*"), tags ("latest"), URLs, and
// workspace references all normalize to "".
func NormalizeVersion(spec string) string {
	s := strings.TrimSpace(spec)
	s = strings.TrimLeft(s, "^~><=! \t")
	if s == "" {
		return ""
	}
	if strings.ContainsAny(s, ", \t|") {
		return ""
	}
	if !versionRE.MatchString(s) {
		return ""
	}
	return s
}
