package cli

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/repoinsight/pkg/buildinfo"
	"github.com/matzehuels/repoinsight/pkg/config"
	"github.com/matzehuels/repoinsight/pkg/deps"
	"github.com/matzehuels/repoinsight/pkg/deps/ecosystems"
	"github.com/matzehuels/repoinsight/pkg/inference"
	"github.com/matzehuels/repoinsight/pkg/job"
	"github.com/matzehuels/repoinsight/pkg/pipeline"
	"github.com/matzehuels/repoinsight/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "repoinsight"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// loadConfig resolves runtime configuration. Defaults to config.Load.
	loadConfig func() (*config.Config, error)
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:     newLogger(w, level),
		loadConfig: config.Load,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "RepoInsight maps a repository's structure, dependencies, and risks",
		Long:         `RepoInsight walks a Git repository or local directory, builds its file graph, extracts dependencies from package manifests, and asks a language model to describe the code and flag likely vulnerabilities.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.importsCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.jobCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// service bundles the long-lived pieces an analysis needs.
type service struct {
	cfg    *config.Config
	store  job.Store
	pool   *inference.Pool
	runner *pipeline.Runner

	closeStore func() error
}

// Close releases the pool and the store connections.
func (s *service) Close() error {
	return errors.Join(s.pool.Close(), s.closeStore())
}

// newService wires configuration, storage, inference, and the pipeline.
func (c *CLI) newService(ctx context.Context, opts pipeline.Options) (*service, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	store, closeStore, err := cfg.OpenStore(ctx)
	if err != nil {
		return nil, err
	}

	pool, err := inference.NewPool(cfg.Loader(), inference.PoolOptions{Size: cfg.PoolSize, Logger: c.Logger})
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	reg, err := c.registry()
	if err != nil {
		_ = pool.Close()
		_ = closeStore()
		return nil, err
	}

	if opts.Workers <= 0 {
		opts.Workers = cfg.Workers
	}
	if opts.LLMTimeout <= 0 {
		opts.LLMTimeout = cfg.LLMTimeout
	}
	opts.Logger = c.Logger

	src := source.Auto{Git: &source.GitClone{Logger: c.Logger}}
	return &service{
		cfg:        cfg,
		store:      store,
		pool:       pool,
		runner:     pipeline.NewRunner(store, pool, src, reg, opts),
		closeStore: closeStore,
	}, nil
}

// registry returns the registry of every supported ecosystem.
func (c *CLI) registry() (*deps.Registry, error) {
	return ecosystems.Default(c.Logger)
}
