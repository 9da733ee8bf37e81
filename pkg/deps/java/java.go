package java

import (
	"strings"

	"github.com/matzehuels/repoinsight/pkg/deps"
	"github.com/matzehuels/repoinsight/pkg/deps/imports"
)

// Ecosystem is the identifier reported by [Parser.Ecosystem].
const Ecosystem = "java"

// Parser handles Maven and Gradle manifests.
type Parser struct {
	deps.Base
}

// New creates a Java parser. The default import scanner matches import
// lines with regular expressions.
func New(opts deps.ParserOptions) *Parser {
	p := &Parser{Base: deps.NewBase(Ecosystem, opts, NewImportScanner())}
	p.Formats = map[string]deps.ParseFunc{
		"pom.xml":          parsePOM,
		"build.gradle":     parseGradle,
		"build.gradle.kts": parseGradle,
	}
	p.Extensions = []string{".java", ".kt", ".kts"}
	p.Root = importRoot
	return p
}

// NewImportScanner matches Java and Kotlin import statements, including
// static imports.
func NewImportScanner() *imports.Regex {
	return imports.NewRegex(`^\s*import\s+(?:static\s+)?([A-Za-z_][\w.]*)`)
}

var platform = imports.NewDenylist("java", "javax", "jdk", "sun", "kotlin", "kotlinx", "android", "androidx")

func importRoot(spec string) (string, bool) {
	parts := strings.Split(spec, ".")
	if len(parts) < 2 || platform.Contains(parts[0]) {
		return "", false
	}
	return parts[0] + "." + parts[1], true
}
