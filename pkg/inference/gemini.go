package inference

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used for model ids that do not name a Gemini model.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiLoader loads Gemini-backed handles.
type GeminiLoader struct {
	APIKey string

	// Model replaces job model ids that do not start with "gemini".
	Model string
}

// Load creates a genai client for the model.
func (l GeminiLoader) Load(ctx context.Context, modelID string) (Handle, error) {
	if l.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	model := modelID
	if !strings.HasPrefix(model, "gemini") {
		model = l.Model
		if model == "" {
			model = DefaultGeminiModel
		}
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  l.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &gemini{cli: cli, model: model}, nil
}

type gemini struct {
	cli   *genai.Client
	model string
}

func (g *gemini) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.Temperature > 0 {
		temp := opts.Temperature
		cfg.Temperature = &temp
	}
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		cfg,
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String()), nil
}

func (g *gemini) Close() error { return nil }
