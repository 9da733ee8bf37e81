package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/matzehuels/repoinsight/pkg/deps"
	pkgerrors "github.com/matzehuels/repoinsight/pkg/errors"
	"github.com/matzehuels/repoinsight/pkg/explain"
	"github.com/matzehuels/repoinsight/pkg/inference"
	"github.com/matzehuels/repoinsight/pkg/job"
	"github.com/matzehuels/repoinsight/pkg/observability"
	"github.com/matzehuels/repoinsight/pkg/repotree"
	"github.com/matzehuels/repoinsight/pkg/source"
)

// Runner executes analysis jobs. It holds no per-job state, so one Runner
// may run several jobs concurrently.
type Runner struct {
	machine   *job.Machine
	pool      *inference.Pool
	source    source.Materializer
	registry  *deps.Registry
	collector *deps.Collector
	opts      Options
}

// NewRunner wires a runner from its collaborators.
func NewRunner(store job.Store, pool *inference.Pool, src source.Materializer, registry *deps.Registry, opts Options) *Runner {
	opts = opts.WithDefaults()
	return &Runner{
		machine:  job.NewMachine(store, opts.Logger),
		pool:     pool,
		source:   src,
		registry: registry,
		collector: deps.NewCollector(registry, deps.CollectOptions{
			Workers:         opts.Workers,
			SkipDir:         repotree.IsIgnoredDir,
			RelativeSources: true,
			Logger:          opts.Logger,
		}),
		opts: opts,
	}
}

// Store returns the job store the runner writes to.
func (r *Runner) Store() job.Store { return r.machine.Store() }

// Submit validates repoURL and stores a new queued job.
func (r *Runner) Submit(ctx context.Context, repoURL, modelID string) (*job.Job, error) {
	if !source.IsLocal(repoURL) {
		if err := pkgerrors.ValidateRepoURL(repoURL); err != nil {
			return nil, err
		}
	}
	j := job.New(repoURL, modelID)
	if err := r.Store().Create(ctx, j); err != nil {
		return nil, err
	}
	r.opts.Logger.Info("job queued", "job", j.ID, "repo", repoURL, "model", j.ModelID)
	return j, nil
}

// Run executes the queued job id. The returned error is the one the job
// failed with; by the time Run returns the job is COMPLETED or FAILED,
// unless it was not QUEUED to begin with.
func (r *Runner) Run(ctx context.Context, id string) (err error) {
	j, err := r.Store().Get(ctx, id)
	if err != nil {
		return err
	}
	if j.Status != job.StatusQueued {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidTransition, "job %s is %s, not %s", id, j.Status, job.StatusQueued)
	}

	start := time.Now()
	defer func() {
		if v := recover(); v != nil {
			err = pkgerrors.FromPanic(v)
		}
		status := job.StatusCompleted
		if err != nil {
			status = job.StatusFailed
			// The caller's context may be what failed the job; the failure
			// must still be recorded.
			if ferr := r.machine.Fail(context.WithoutCancel(ctx), id, err); ferr != nil {
				r.opts.Logger.Error("cannot record failure", "job", id, "err", ferr)
			}
		}
		observability.Job().OnJobFinished(ctx, id, string(status), time.Since(start))
	}()

	return r.run(ctx, j)
}

func (r *Runner) run(ctx context.Context, j *job.Job) error {
	logger := r.opts.Logger.With("job", j.ID)

	lease, err := r.pool.Checkout(ctx, j.ModelID)
	if err != nil {
		return err
	}
	defer lease.Release()

	name := source.RepoName(j.RepoURL)
	var (
		dir  string
		tree *repotree.Tree
	)
	cleanup := func() {}
	defer func() { cleanup() }()

	err = r.stage(ctx, j.ID, job.StatusParsing, job.ProgressParsing, func() error {
		var err error
		dir, cleanup, err = r.source.Materialize(ctx, j.RepoURL)
		if err != nil {
			cleanup = func() {}
			return err
		}
		tree, err = repotree.WalkDir(ctx, dir, repotree.Options{
			Name:           name,
			MaxFilesToRead: r.opts.MaxFilesToRead,
			MaxFileSize:    r.opts.MaxFileSize,
			Logger:         logger,
		})
		if err != nil {
			return err
		}
		logger.Info("walked repository", "files", len(tree.Files), "read", tree.FilesRead)
		return nil
	})
	if err != nil {
		return err
	}

	analysis := &job.Analysis{
		Repository:    name,
		ModelID:       j.ModelID,
		FilesAnalyzed: len(tree.Files),
		Languages:     tree.Languages,
	}

	err = r.stage(ctx, j.ID, job.StatusBuildingGraph, job.ProgressGraph, func() error {
		list, err := r.collector.Collect(ctx, dir)
		if err != nil {
			return err
		}
		analysis.Dependencies = list
		analysis.Imports = r.imports(dir, tree)
		logger.Info("collected dependencies", "dependencies", len(list), "files_with_imports", len(analysis.Imports))
		return nil
	})
	if err != nil {
		return err
	}

	explainer := explain.New(lease, explain.Options{Timeout: r.opts.LLMTimeout, Logger: logger})
	err = r.stage(ctx, j.ID, job.StatusBuildingGraph, job.ProgressAnnotated, func() error {
		for i, n := range tree.CapturedCode() {
			if i == r.opts.DescribeLimit {
				break
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			tree.SetDescription(n.ID, explainer.Describe(ctx, n, tree.Contents[n.ID]))
		}
		return nil
	})
	if err != nil {
		return err
	}

	err = r.stage(ctx, j.ID, job.StatusExplaining, job.ProgressExplaining, func() error {
		facts := explain.FromTree(name, tree, dependencyNames(analysis.Dependencies))
		analysis.Overview = explainer.Overview(ctx, facts)
		analysis.VulnerabilityAnalysis = explainer.Vulnerabilities(ctx, facts)
		return ctx.Err()
	})
	if err != nil {
		return err
	}

	analysis.Nodes = tree.Nodes
	analysis.Edges = tree.Edges
	if err := r.machine.Complete(ctx, j.ID, analysis); err != nil {
		return err
	}
	logger.Info("job completed", "nodes", len(tree.Nodes), "edges", len(tree.Edges))
	return nil
}

// stage records entry into status, then runs fn.
func (r *Runner) stage(ctx context.Context, id string, status job.Status, progress int, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.machine.Advance(ctx, id, status, progress); err != nil {
		return err
	}
	hooks := observability.Job()
	hooks.OnStageStart(ctx, id, string(status))
	start := time.Now()
	err := fn()
	hooks.OnStageComplete(ctx, id, string(status), time.Since(start), err)
	return err
}

// imports extracts the third-party import roots of every captured code file.
func (r *Runner) imports(dir string, tree *repotree.Tree) map[string][]string {
	out := make(map[string][]string)
	for _, n := range tree.CapturedCode() {
		if _, ok := r.registry.ForSource(n.ID); !ok {
			continue
		}
		if list := r.registry.ParseImports(filepath.Join(dir, filepath.FromSlash(n.ID))); len(list) > 0 {
			out[n.ID] = list
		}
	}
	return out
}

// dependencyNames returns each distinct dependency name once, in order.
func dependencyNames(list []deps.Dependency) []string {
	seen := make(map[string]bool, len(list))
	var names []string
	for _, d := range list {
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		names = append(names, d.Name)
	}
	return names
}
