// Package pipeline runs repository analysis jobs end to end.
//
// A [Runner] drives one queued job through its stages, persisting every
// state change through a [job.Machine]:
//
//  1. Check out an inference lease for the job's model
//  2. PARSING: materialize the repository and walk its tree
//  3. BUILDING_GRAPH: collect manifest dependencies and source imports,
//     then describe a handful of code files
//  4. EXPLAINING: generate the overview and vulnerability narrative
//  5. COMPLETED with the assembled [job.Analysis]
//
// Any error or panic moves the job to FAILED with the error text as its
// result. Text generation failures never fail a job; the explainer's
// fallbacks are used instead.
//
// # Usage
//
//	runner := pipeline.NewRunner(store, pool, source.Auto{}, registry, pipeline.Options{})
//	j, err := runner.Submit(ctx, "https://github.com/owner/repo", "")
//	if err != nil {
//	    return err
//	}
//	err = runner.Run(ctx, j.ID)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/repoinsight/pkg/deps"
	"github.com/matzehuels/repoinsight/pkg/explain"
	"github.com/matzehuels/repoinsight/pkg/repotree"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultDescribeLimit is how many captured code files get a description.
	DefaultDescribeLimit = 10
)

// =============================================================================
// Options
// =============================================================================

// Options configures a [Runner].
type Options struct {
	// MaxFilesToRead and MaxFileSize bound content capture during the walk.
	MaxFilesToRead int
	MaxFileSize    int64

	// DescribeLimit caps file descriptions per job.
	DescribeLimit int

	// Workers bounds concurrent manifest parsing.
	Workers int

	// LLMTimeout bounds each text-generation call.
	LLMTimeout time.Duration

	Logger *log.Logger
}

// WithDefaults returns a copy with zero fields replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.MaxFilesToRead <= 0 {
		o.MaxFilesToRead = repotree.MaxFilesToRead
	}
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = repotree.MaxFileSize
	}
	if o.DescribeLimit <= 0 {
		o.DescribeLimit = DefaultDescribeLimit
	}
	if o.Workers <= 0 {
		o.Workers = deps.DefaultWorkers
	}
	if o.LLMTimeout <= 0 {
		o.LLMTimeout = explain.DefaultTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}
