package repotree

import (
	"path"
	"strings"
)

// Content capture limits applied when [Options] leaves them unset.
const (
	MaxFilesToRead = 100
	MaxFileSize    = 50 * 1024
)

var codeLanguages = map[string]string{
	".py":    "Python",
	".js":    "JavaScript",
	".jsx":   "JavaScript",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".java":  "Java",
	".go":    "Go",
	".rs":    "Rust",
	".c":     "C/C++",
	".cpp":   "C/C++",
	".h":     "C/C++",
	".cs":    "C#",
	".php":   "PHP",
	".rb":    "Ruby",
	".swift": "Swift",
	".kt":    "Kotlin",
}

var configExtensions = map[string]bool{
	".json": true, ".yaml": true, ".yml": true, ".toml": true,
	".xml": true, ".ini": true, ".env": true, ".config": true,
}

var docExtensions = map[string]bool{
	".md": true, ".txt": true, ".rst": true,
}

var ignoredDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"__pycache__":  true,
	"venv":         true,
	"env":          true,
	".venv":        true,
	"dist":         true,
	"build":        true,
	"target":       true,
	".idea":        true,
	".vscode":      true,
	"coverage":     true,
}

var captureAllowList = map[string]bool{
	"package.json":     true,
	"requirements.txt": true,
	"go.mod":           true,
	"Cargo.toml":       true,
	"pom.xml":          true,
}

const readmeName = "readme.md"

// IsIgnoredDir reports whether a directory with the given base name is
// excluded from traversal.
func IsIgnoredDir(name string) bool {
	return ignoredDirs[name]
}

// Classify returns the node type of a file and, for code files, its language.
func Classify(name string) (NodeType, string) {
	ext := strings.ToLower(path.Ext(name))
	if lang, ok := codeLanguages[ext]; ok {
		return TypeCode, lang
	}
	switch {
	case configExtensions[ext]:
		return TypeConfig, ""
	case docExtensions[ext]:
		return TypeDoc, ""
	}
	return TypeOther, ""
}

// captureEligible reports whether a file's content is worth capturing.
func captureEligible(name string, typ NodeType) bool {
	if typ == TypeCode || captureAllowList[name] {
		return true
	}
	return strings.ToLower(name) == readmeName
}
