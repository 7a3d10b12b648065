package generate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// OllamaGenerator talks to a local Ollama server through its native chat API.
type OllamaGenerator struct {
	client       *api.Client
	model        string
	systemPrompt string
}

func NewOllamaGenerator(baseURL, modelName string, timeout time.Duration, opts ...GeneratorOption) (*OllamaGenerator, error) {
	// api.NewClient wants the server root, not the OpenAI-compatible /v1 prefix.
	baseURL = strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/v1")
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse ollama base url %q: %w", baseURL, err)
	}
	options := newGeneratorOptions(opts...)
	return &OllamaGenerator{
		client:       api.NewClient(parsed, &http.Client{Timeout: timeout}),
		model:        modelName,
		systemPrompt: options.systemPrompt,
	}, nil
}

func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	messages := make([]api.Message, 0, 2)
	if g.systemPrompt != "" {
		messages = append(messages, api.Message{Role: "system", Content: g.systemPrompt})
	}
	messages = append(messages, api.Message{Role: "user", Content: prompt})

	stream := false
	req := &api.ChatRequest{
		Model:    g.model,
		Messages: messages,
		Stream:   &stream,
	}
	var content strings.Builder
	err := g.client.Chat(ctx, req, func(r api.ChatResponse) error {
		content.WriteString(r.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}
	text := content.String()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
