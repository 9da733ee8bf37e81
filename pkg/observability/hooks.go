// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through the hooks registered here without depending
// on a particular backend. Consumers register implementations at startup;
// until then every hook is a no-op.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetJobHooks(&myJobHooks{})
//	    observability.SetInferenceHooks(&myInferenceHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Job().OnStageStart(ctx, jobID, "PARSING")
//	// ... do work ...
//	observability.Job().OnStageComplete(ctx, jobID, "PARSING", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Job Hooks
// =============================================================================

// JobHooks receives events from the analysis runner.
type JobHooks interface {
	// OnStageStart records entry into a job stage.
	OnStageStart(ctx context.Context, jobID, stage string)

	// OnStageComplete records the end of a job stage.
	OnStageComplete(ctx context.Context, jobID, stage string, duration time.Duration, err error)

	// OnJobFinished records a job reaching a terminal status.
	OnJobFinished(ctx context.Context, jobID, status string, duration time.Duration)
}

// =============================================================================
// Manifest Hooks
// =============================================================================

// ManifestHooks receives events from dependency collection.
type ManifestHooks interface {
	// OnManifestParsed records one manifest parse and the number of
	// dependencies it produced.
	OnManifestParsed(ctx context.Context, ecosystem, path string, deps int, duration time.Duration)
}

// =============================================================================
// Inference Hooks
// =============================================================================

// InferenceHooks receives events from text-generation backends.
type InferenceHooks interface {
	// OnModelLoad records a model load.
	OnModelLoad(ctx context.Context, modelID string, duration time.Duration, err error)

	// OnGenerate records one generation call.
	OnGenerate(ctx context.Context, modelID string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopJobHooks is a no-op implementation of JobHooks.
type NoopJobHooks struct{}

func (NoopJobHooks) OnStageStart(context.Context, string, string)                          {}
func (NoopJobHooks) OnStageComplete(context.Context, string, string, time.Duration, error) {}
func (NoopJobHooks) OnJobFinished(context.Context, string, string, time.Duration)          {}

// NoopManifestHooks is a no-op implementation of ManifestHooks.
type NoopManifestHooks struct{}

func (NoopManifestHooks) OnManifestParsed(context.Context, string, string, int, time.Duration) {}

// NoopInferenceHooks is a no-op implementation of InferenceHooks.
type NoopInferenceHooks struct{}

func (NoopInferenceHooks) OnModelLoad(context.Context, string, time.Duration, error) {}
func (NoopInferenceHooks) OnGenerate(context.Context, string, time.Duration, error)  {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	jobHooks       JobHooks       = NoopJobHooks{}
	manifestHooks  ManifestHooks  = NoopManifestHooks{}
	inferenceHooks InferenceHooks = NoopInferenceHooks{}
	hooksMu        sync.RWMutex
)

// SetJobHooks registers custom job hooks.
// This should be called once at application startup before any job runs.
func SetJobHooks(h JobHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		jobHooks = h
	}
}

// SetManifestHooks registers custom manifest hooks.
func SetManifestHooks(h ManifestHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		manifestHooks = h
	}
}

// SetInferenceHooks registers custom inference hooks.
func SetInferenceHooks(h InferenceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		inferenceHooks = h
	}
}

// Job returns the registered job hooks.
func Job() JobHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return jobHooks
}

// Manifest returns the registered manifest hooks.
func Manifest() ManifestHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return manifestHooks
}

// Inference returns the registered inference hooks.
func Inference() InferenceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return inferenceHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	jobHooks = NoopJobHooks{}
	manifestHooks = NoopManifestHooks{}
	inferenceHooks = NoopInferenceHooks{}
}
