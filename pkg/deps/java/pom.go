package java

import (
	"encoding/xml"
	"os"
	"regexp"
	"strings"

	"github.com/matzehuels/repoinsight/pkg/deps"
)

type pomProject struct {
	GroupID      string          `xml:"groupId"`
	ArtifactID   string          `xml:"artifactId"`
	Version      string          `xml:"version"`
	Parent       *pomParent      `xml:"parent"`
	Properties   pomProperties   `xml:"properties"`
	Dependencies []pomDependency `xml:"dependencies>dependency"`
}

type pomParent struct {
	GroupID string `xml:"groupId"`
	Version string `xml:"version"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Scope      string `xml:"scope"`
}

// pomProperties collects the free-form children of <properties>.
type pomProperties map[string]string

func (p *pomProperties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	props := make(pomProperties)
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var value string
			if err := d.DecodeElement(&value, &t); err != nil {
				return err
			}
			props[t.Name.Local] = strings.TrimSpace(value)
		case xml.EndElement:
			*p = props
			return nil
		}
	}
}

var propertyRE = regexp.MustCompile(`\$\{([^}]+)\}`)

func parsePOM(path string) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pom pomProject
	if err := xml.Unmarshal(data, &pom); err != nil {
		return nil, err
	}

	out := make([]deps.Dependency, 0, len(pom.Dependencies))
	for _, dep := range pom.Dependencies {
		artifact := strings.TrimSpace(dep.ArtifactID)
		if artifact == "" {
			continue
		}
		group := strings.TrimSpace(pom.resolve(dep.GroupID))
		if group == "" {
			group = "unknown"
		}
		scope := strings.TrimSpace(dep.Scope)
		out = append(out, deps.Dependency{
			Name:    group + ":" + artifact,
			Version: deps.NormalizeVersion(pom.resolve(dep.Version)),
			Dev:     scope == "test" || scope == "provided",
			Source:  path,
		})
	}
	return out, nil
}

// resolve substitutes ${...} references. Unknown references are left in
// place, which makes the result fail version normalization.
func (p *pomProject) resolve(s string) string {
	return propertyRE.ReplaceAllStringFunc(strings.TrimSpace(s), func(ref string) string {
		key := ref[2 : len(ref)-1]
		if v, ok := p.Properties[key]; ok {
			return v
		}
		switch key {
		case "project.version", "version":
			if p.Version != "" {
				return p.Version
			}
			if p.Parent != nil {
				return p.Parent.Version
			}
		case "project.groupId", "groupId":
			if p.GroupID != "" {
				return p.GroupID
			}
			if p.Parent != nil {
				return p.Parent.GroupID
			}
		}
		return ref
	})
}
