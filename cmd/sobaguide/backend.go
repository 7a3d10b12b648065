package main

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/tbxark/sobaguide/config"
	"github.com/tbxark/sobaguide/generate"
)

// newGenerator builds the configured backend followed by its fallbacks, each
// instrumented under its own backend label.
func newGenerator(ctx context.Context, conf *config.Config, metrics *generate.Metrics) (generate.Generator, error) {
	backends := append([]config.Backend{conf.Backend}, conf.Fallbacks...)
	generators := make([]generate.Generator, 0, len(backends))
	for i, b := range backends {
		gen, err := newBackend(ctx, b)
		if err != nil {
			return nil, fmt.Errorf("backend %d (%s): %w", i, b.Kind, err)
		}
		generators = append(generators, generate.Instrument(gen, b.Kind, metrics))
	}
	if len(generators) == 1 {
		return generators[0], nil
	}
	return generate.NewFailbackGenerator(generators...), nil
}

func newBackend(ctx context.Context, b config.Backend) (generate.Generator, error) {
	var opts []generate.GeneratorOption
	if b.SystemPrompt != "" {
		opts = append(opts, generate.WithSystemPrompt(b.SystemPrompt))
	}
	switch b.Kind {
	case config.BackendOpenAI:
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  b.APIKey,
			Model:   b.Model,
			BaseURL: b.BaseURL,
			Timeout: b.Timeout.Std(),
		})
		if err != nil {
			return nil, err
		}
		return generate.NewChatModelGenerator(cm, opts...), nil
	case config.BackendOllama:
		return generate.NewOllamaGenerator(b.BaseURL, b.Model, b.Timeout.Std(), opts...)
	case config.BackendStatic:
		return &generate.StaticGenerator{Text: b.Text}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", b.Kind)
	}
}
