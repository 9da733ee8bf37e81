// Package explain turns repository facts into natural-language summaries.
//
// An [Explainer] wraps an [inference.Generator]. Every method returns usable
// text: when generation fails, times out or comes back empty, a templated
// fallback built from the same facts is returned instead and the failure is
// logged.
package explain

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/repoinsight/pkg/inference"
	"github.com/matzehuels/repoinsight/pkg/repotree"
)

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 60 * time.Second

// VulnerabilityFallback is returned when no vulnerability narrative could be
// generated.
const VulnerabilityFallback = "Vulnerability analysis unavailable for this repository."

// Options configures an [Explainer].
type Options struct {
	Timeout time.Duration
	Logger  *log.Logger
}

// WithDefaults returns a copy with zero fields replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}

// Explainer generates descriptions, overviews and vulnerability narratives.
type Explainer struct {
	gen  inference.Generator
	opts Options
}

// New returns an explainer backed by gen.
func New(gen inference.Generator, opts Options) *Explainer {
	return &Explainer{gen: gen, opts: opts.WithDefaults()}
}

// Repository is the set of facts the overview and vulnerability prompts draw on.
type Repository struct {
	Name      string
	Files     []string
	Languages []string

	// Contents maps file ids to captured text; Order lists the captured ids
	// in traversal order.
	Contents map[string]string
	Order    []string

	Dependencies []string
}

// FromTree collects the prompt facts of a walked tree.
func FromTree(name string, t *repotree.Tree, dependencies []string) Repository {
	r := Repository{
		Name:         name,
		Files:        t.Files,
		Languages:    t.Languages,
		Contents:     t.Contents,
		Dependencies: dependencies,
	}
	for _, f := range t.Files {
		if _, ok := t.Contents[f]; ok {
			r.Order = append(r.Order, f)
		}
	}
	return r
}

// Describe returns a one or two sentence description of a code file.
func (e *Explainer) Describe(ctx context.Context, n repotree.Node, content string) string {
	text, err := e.generate(ctx, describePrompt(n, content), inference.GenerateOptions{MaxTokens: 100, Temperature: 0.3})
	if err != nil {
		e.opts.Logger.Debug("describe failed", "path", n.ID, "err", err)
		return DescriptionFallback(n.Language)
	}
	return text
}

// Overview returns a markdown overview of the repository.
func (e *Explainer) Overview(ctx context.Context, r Repository) string {
	text, err := e.generate(ctx, overviewPrompt(r), inference.GenerateOptions{MaxTokens: 1024, Temperature: 0.3})
	if err != nil {
		e.opts.Logger.Warn("overview generation failed, using fallback", "repository", r.Name, "err", err)
		return OverviewFallback(r.Name, len(r.Files), r.Languages)
	}
	return text
}

// Vulnerabilities returns a security narrative for the repository.
func (e *Explainer) Vulnerabilities(ctx context.Context, r Repository) string {
	text, err := e.generate(ctx, vulnerabilityPrompt(r), inference.GenerateOptions{MaxTokens: 1024, Temperature: 0.2})
	if err != nil {
		e.opts.Logger.Warn("vulnerability analysis failed", "repository", r.Name, "err", err)
		return VulnerabilityFallback
	}
	return text
}

func (e *Explainer) generate(ctx context.Context, prompt string, opts inference.GenerateOptions) (string, error) {
	if e.gen == nil {
		return "", inference.ErrUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	text, err := e.gen.Generate(ctx, prompt, opts)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty generation")
	}
	return text, nil
}

// OverviewFallback is the overview used when generation fails.
func OverviewFallback(name string, files int, languages []string) string {
	return fmt.Sprintf("Repository '%s' contains %d files across %d languages: %s. "+
		"Analysis includes file structure, dependencies, and code organization.",
		name, files, len(languages), strings.Join(languages, ", "))
}

// DescriptionFallback is the file description used when generation fails.
func DescriptionFallback(language string) string {
	switch language {
	case "Python":
		return "Python module containing business logic and functions"
	case "JavaScript", "TypeScript":
		return "JavaScript/TypeScript component or utility module"
	case "":
		return "Code file"
	}
	return language + " file"
}
