// Package inference manages text-generation backends.
//
// A [Handle] is a loaded model. Handles are expensive, so they are shared
// through a [Pool] keyed by model id: callers [Pool.Checkout] a [Lease], use
// it, and release it. When the pool evicts a model, its handle is closed once
// the last outstanding lease is released.
//
// Two loaders are provided: [GeminiLoader] talks to the Gemini API through
// google.golang.org/genai, and [OfflineLoader] yields handles that always
// report [ErrUnavailable], which callers answer with their fallbacks.
package inference

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by handles that cannot generate text.
var ErrUnavailable = errors.New("inference unavailable")

// GenerateOptions tunes a single generation call. Zero values leave the
// backend's defaults in place.
type GenerateOptions struct {
	MaxTokens   int
	Temperature float32
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// Handle is a loaded model.
type Handle interface {
	Generator
	Close() error
}

// Loader loads the model with the given id.
type Loader interface {
	Load(ctx context.Context, modelID string) (Handle, error)
}

// LoaderFunc adapts a function to [Loader].
type LoaderFunc func(ctx context.Context, modelID string) (Handle, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, modelID string) (Handle, error) {
	return f(ctx, modelID)
}

// OfflineLoader returns handles that never generate.
type OfflineLoader struct{}

// Load returns an offline handle.
func (OfflineLoader) Load(ctx context.Context, modelID string) (Handle, error) {
	return offline{}, nil
}

type offline struct{}

func (offline) Generate(context.Context, string, GenerateOptions) (string, error) {
	return "", ErrUnavailable
}

func (offline) Close() error { return nil }
