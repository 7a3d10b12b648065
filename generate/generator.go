package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResponse is returned when a backend produced only whitespace.
var ErrEmptyResponse = errors.New("backend returned an empty response")

// Generator sends a request string to a generative-text backend and returns
// the raw reply.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// StaticGenerator always answers with Text, or Err when set. It backs the
// offline mode of the CLI.
type StaticGenerator struct {
	Text string
	Err  error
}

func (g *StaticGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if g.Err != nil {
		return "", g.Err
	}
	if strings.TrimSpace(g.Text) == "" {
		return "", ErrEmptyResponse
	}
	return g.Text, nil
}

type FailbackGenerator struct {
	generators []Generator
}

func NewFailbackGenerator(generators ...Generator) *FailbackGenerator {
	return &FailbackGenerator{generators: generators}
}

func (g *FailbackGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	lastErr := errors.New("no generators configured")
	for _, generator := range g.generators {
		text, err := generator.Generate(ctx, prompt)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
	}
	return "", fmt.Errorf("all generators failed: %w", lastErr)
}

type generatorOptions struct {
	systemPrompt string
}

type GeneratorOption func(*generatorOptions)

// WithSystemPrompt prepends a system message to every request.
func WithSystemPrompt(systemPrompt string) GeneratorOption {
	return func(o *generatorOptions) {
		o.systemPrompt = systemPrompt
	}
}

func newGeneratorOptions(opts ...GeneratorOption) generatorOptions {
	var options generatorOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	return options
}
