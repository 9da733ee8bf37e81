package imports

import (
	"cmp"
	"regexp"
	"slices"
)

// Regex extracts specifiers with line patterns. Each pattern's first
// non-empty capture group is the specifier.
type Regex struct {
	Patterns []*regexp.Regexp
}

// NewRegex compiles patterns into a Regex scanner. Patterns are compiled
// in multi-line mode so ^ and $ anchor at line boundaries.
func NewRegex(patterns ...string) *Regex {
	r := &Regex{}
	for _, p := range patterns {
		r.Patterns = append(r.Patterns, regexp.MustCompile(`(?m)`+p))
	}
	return r
}

// Scan implements [Scanner]. Matches from all patterns are returned ordered
// by their position in src.
func (r *Regex) Scan(_ string, src []byte) ([]string, error) {
	type hit struct {
		pos  int
		spec string
	}
	var hits []hit
	for _, re := range r.Patterns {
		for _, m := range re.FindAllSubmatchIndex(src, -1) {
			for g := 1; g*2+1 < len(m); g++ {
				if m[g*2] >= 0 && m[g*2+1] > m[g*2] {
					hits = append(hits, hit{pos: m[0], spec: string(src[m[g*2]:m[g*2+1]])})
					break
				}
			}
		}
	}
	slices.SortStableFunc(hits, func(a, b hit) int { return cmp.Compare(a.pos, b.pos) })
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.spec
	}
	return out, nil
}
