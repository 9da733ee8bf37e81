package deps

import (
	"context"
	"io/fs"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/repoinsight/pkg/observability"
	"github.com/matzehuels/repoinsight/pkg/repotree"
)

// DefaultWorkers bounds concurrent manifest parsing.
const DefaultWorkers = 4

// CollectOptions configures a [Collector].
type CollectOptions struct {
	Workers int                    // Concurrent parsers (default: 4)
	SkipDir func(name string) bool // Directories never descended into (default: repotree.IsIgnoredDir)
	// RelativeSources rewrites each Source to the manifest path relative to
	// the collection root.
	RelativeSources bool
	Logger          *log.Logger
}

// WithDefaults returns a copy of CollectOptions with zero values replaced by defaults.
func (o CollectOptions) WithDefaults() CollectOptions {
	opts := o
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.SkipDir == nil {
		opts.SkipDir = repotree.IsIgnoredDir
	}
	opts.Logger = OrDiscard(opts.Logger)
	return opts
}

// Collector finds every registered manifest below a root and parses it.
type Collector struct {
	registry *Registry
	opts     CollectOptions
}

// NewCollector creates a Collector over the given registry.
func NewCollector(registry *Registry, opts CollectOptions) *Collector {
	return &Collector{registry: registry, opts: opts.WithDefaults()}
}

// Collect returns the dependencies of every manifest below root.
//
// Manifests are parsed concurrently but results are concatenated in sorted
// path order, so the output never depends on scheduling. The only errors are
// an unreadable root and context cancellation; a manifest that fails to
// parse contributes nothing.
func (c *Collector) Collect(ctx context.Context, root string) ([]Dependency, error) {
	paths, err := c.find(ctx, root)
	if err != nil {
		return nil, err
	}
	c.opts.Logger.Debug("manifests found", "root", root, "count", len(paths))

	results := make([][]Dependency, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			list := c.registry.ParseManifest(path)
			if p, ok := c.registry.Lookup(path); ok {
				observability.Manifest().OnManifestParsed(gctx, p.Ecosystem(), path, len(list), time.Since(start))
			}
			if c.opts.RelativeSources {
				rel := relative(root, path)
				for j := range list {
					list[j].Source = rel
				}
			}
			results[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Dependency, 0)
	for _, list := range results {
		out = append(out, list...)
	}
	return out, nil
}

func (c *Collector) find(ctx context.Context, root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			c.opts.Logger.Warn("skipping unreadable path", "path", path, "err", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && c.opts.SkipDir(d.Name()) {
				return fs.SkipDir
			}
			return ctx.Err()
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if _, ok := c.registry.Lookup(path); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)
	return paths, nil
}

func relative(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
