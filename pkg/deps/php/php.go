// Package php extracts Composer dependencies from composer.json and
// composer.lock.
//
// composer.json "require" entries are production and "require-dev" entries
// are development; platform requirements (php, hhvm, ext-*, lib-*,
// composer-*) are not packages and are skipped. composer.lock reports the
// locked version of every package in "packages" and "packages-dev".
package php

import (
	"bytes"
	"encoding/json"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/matzehuels/repoinsight/pkg/deps"
	"github.com/matzehuels/repoinsight/pkg/deps/imports"
)

// Ecosystem is the identifier reported by [Parser.Ecosystem].
const Ecosystem = "php"

// Parser handles Composer manifests.
type Parser struct {
	deps.Base
}

// New creates a PHP parser. The default import scanner matches namespace
// use statements with regular expressions.
func New(opts deps.ParserOptions) *Parser {
	scanner := imports.NewRegex(`^\s*use\s+(?:function\s+|const\s+)?\\?([A-Za-z_][\w\\]*)`)
	p := &Parser{Base: deps.NewBase(Ecosystem, opts, scanner)}
	p.Formats = map[string]deps.ParseFunc{
		"composer.json": parseComposerJSON,
		"composer.lock": parseComposerLock,
	}
	p.Extensions = []string{".php"}
	p.Root = importRoot
	return p
}

// importRoot keeps the vendor namespace. Single-segment names are global
// classes such as Exception.
func importRoot(spec string) (string, bool) {
	parts := strings.Split(strings.Trim(spec, `\`), `\`)
	if len(parts) < 2 {
		return "", false
	}
	return parts[0], true
}

func isPlatform(name string) bool {
	switch name {
	case "php", "php-64bit", "hhvm", "composer", "composer-plugin-api", "composer-runtime-api":
		return true
	}
	return strings.HasPrefix(name, "ext-") || strings.HasPrefix(name, "lib-")
}

type composerJSON struct {
	Require    requireMap `json:"require"`
	RequireDev requireMap `json:"require-dev"`
}

// requireMap is a require section. Composer writes an empty section as [].
type requireMap map[string]string

func (m *requireMap) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("[]")) {
		*m = nil
		return nil
	}
	var section map[string]string
	if err := json.Unmarshal(data, &section); err != nil {
		return err
	}
	*m = section
	return nil
}

func parseComposerJSON(path string) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c composerJSON
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	out := requireSection(c.Require, false, path)
	return append(out, requireSection(c.RequireDev, true, path)...), nil
}

func requireSection(section requireMap, dev bool, source string) []deps.Dependency {
	var out []deps.Dependency
	for _, name := range slices.Sorted(maps.Keys(section)) {
		if isPlatform(name) {
			continue
		}
		out = append(out, deps.Dependency{
			Name:    name,
			Version: deps.NormalizeVersion(section[name]),
			Dev:     dev,
			Source:  source,
		})
	}
	return out
}

type composerLock struct {
	Packages    []lockedPackage `json:"packages"`
	PackagesDev []lockedPackage `json:"packages-dev"`
}

type lockedPackage struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func parseComposerLock(path string) ([]deps.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lock composerLock
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, err
	}
	var out []deps.Dependency
	for _, pkg := range lock.Packages {
		out = append(out, deps.Dependency{Name: pkg.Name, Version: pkg.Version, Source: path})
	}
	for _, pkg := range lock.PackagesDev {
		out = append(out, deps.Dependency{Name: pkg.Name, Version: pkg.Version, Dev: true, Source: path})
	}
	return out, nil
}
