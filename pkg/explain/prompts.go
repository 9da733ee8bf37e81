package explain

import (
	"fmt"
	"strings"

	"github.com/matzehuels/repoinsight/pkg/repotree"
)

var keySuffixes = []string{
	".py", ".js", ".ts", ".java", ".go", ".rs",
	"README.md", "package.json", "requirements.txt",
}

// keyFiles returns up to limit files worth naming in a prompt.
func keyFiles(files []string, limit int) []string {
	var out []string
	for _, f := range files {
		if len(out) == limit {
			break
		}
		for _, s := range keySuffixes {
			if strings.HasSuffix(f, s) {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func writeSamples(b *strings.Builder, r Repository, files, chars int) {
	for i, id := range r.Order {
		if i == files {
			break
		}
		fmt.Fprintf(b, "\n%s:\n%s...\n", id, truncate(r.Contents[id], chars))
	}
}

func orUnknown(items []string) string {
	if len(items) == 0 {
		return "Unknown"
	}
	return strings.Join(items, ", ")
}

func describePrompt(n repotree.Node, content string) string {
	lang := n.Language
	if lang == "" {
		lang = "unknown"
	}
	return fmt.Sprintf(`Analyze this code file and describe its purpose in one or two sentences.

File: %s
Language: %s

Code (first 500 characters):
%s

Reply with the description only.`, n.Label, lang, truncate(content, 500))
}

func overviewPrompt(r Repository) string {
	var b strings.Builder
	b.WriteString("You are a software architect. Write a concise markdown overview of this repository: ")
	b.WriteString("its purpose, main components, technology stack and how the code is organized.\n\n")
	fmt.Fprintf(&b, "Repository: %s\n", r.Name)
	fmt.Fprintf(&b, "Files: %d | Languages: %s\n", len(r.Files), orUnknown(r.Languages))
	if len(r.Dependencies) > 0 {
		fmt.Fprintf(&b, "Dependencies: %s\n", strings.Join(r.Dependencies, ", "))
	}
	b.WriteString("\nKey files:\n")
	for _, f := range keyFiles(r.Files, 30) {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	if len(r.Order) > 0 {
		b.WriteString("\nSample code:\n")
		writeSamples(&b, r, 3, 300)
	}
	return b.String()
}

func vulnerabilityPrompt(r Repository) string {
	var b strings.Builder
	b.WriteString("You are a security reviewer. List likely vulnerabilities in this repository ")
	b.WriteString("(injection, secrets in code, unsafe deserialization, outdated dependencies) ")
	b.WriteString("with the affected file and a suggested fix. Say so plainly if nothing stands out.\n\n")
	fmt.Fprintf(&b, "Repository: %s\n", r.Name)
	fmt.Fprintf(&b, "Languages: %s\n", orUnknown(r.Languages))
	fmt.Fprintf(&b, "Files analyzed: %d\n", len(r.Files))
	if len(r.Dependencies) > 0 {
		fmt.Fprintf(&b, "Dependencies: %s\n", strings.Join(r.Dependencies, ", "))
	}
	b.WriteString("\nKey files:\n")
	for _, f := range keyFiles(r.Files, 20) {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	if len(r.Order) > 0 {
		b.WriteString("\nCode samples:\n")
		writeSamples(&b, r, 5, 400)
	}
	return b.String()
}
