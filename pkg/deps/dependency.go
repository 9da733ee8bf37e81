package deps

import (
	"cmp"
	"encoding/json"
	"slices"
)

// Dependency is a single declared or pinned dependency found in a manifest.
//
// An empty Version means the manifest gave no usable single version; it
// serializes as JSON null. Dev is true for anything declared as development,
// test, build, or provided-only. Source is the manifest path exactly as it
// was handed to the parser.
type Dependency struct {
	Name    string `json:"name" bson:"name"`
	Version string `json:"version" bson:"version,omitempty"`
	Dev     bool   `json:"dev" bson:"dev"`
	Source  string `json:"source" bson:"source"`
}

// HasVersion reports whether a version was recorded.
func (d Dependency) HasVersion() bool { return d.Version != "" }

// Key identifies a dependency for presentation-level de-duplication.
type Key struct {
	Name   string
	Source string
}

// Key returns the (name, source) pair used by [Dedupe].
func (d Dependency) Key() Key { return Key{Name: d.Name, Source: d.Source} }

type dependencyJSON struct {
	Name    string  `json:"name"`
	Version *string `json:"version"`
	Dev     bool    `json:"dev"`
	Source  string  `json:"source"`
}

// MarshalJSON writes an unset version as null.
func (d Dependency) MarshalJSON() ([]byte, error) {
	out := dependencyJSON{Name: d.Name, Dev: d.Dev, Source: d.Source}
	if d.Version != "" {
		v := d.Version
		out.Version = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts both null and string versions.
func (d *Dependency) UnmarshalJSON(data []byte) error {
	var in dependencyJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*d = Dependency{Name: in.Name, Dev: in.Dev, Source: in.Source}
	if in.Version != nil {
		d.Version = *in.Version
	}
	return nil
}

// Dedupe keeps the first occurrence of every (name, source) pair, preserving
// order. Parsers never de-duplicate; callers that present lists do.
func Dedupe(list []Dependency) []Dependency {
	seen := make(map[Key]bool, len(list))
	out := make([]Dependency, 0, len(list))
	for _, d := range list {
		k := d.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, d)
	}
	return out
}

// Sort orders dependencies by source, then name, then version.
func Sort(list []Dependency) {
	slices.SortStableFunc(list, func(a, b Dependency) int {
		if c := cmp.Compare(a.Source, b.Source); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Version, b.Version)
	})
}
