package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChatModelGenerator adapts an eino chat model. Any OpenAI-compatible
// endpoint can be reached through the eino-ext openai component.
type ChatModelGenerator struct {
	systemPrompt string
	chatModel    model.BaseChatModel
	modelOptions []model.Option
}

func NewChatModelGenerator(chatModel model.BaseChatModel, opts ...GeneratorOption) *ChatModelGenerator {
	options := newGeneratorOptions(opts...)
	return &ChatModelGenerator{
		systemPrompt: options.systemPrompt,
		chatModel:    chatModel,
	}
}

// WithModelOptions returns a copy of g that passes opts to every call.
func (g *ChatModelGenerator) WithModelOptions(opts ...model.Option) *ChatModelGenerator {
	clone := *g
	clone.modelOptions = append(append([]model.Option(nil), g.modelOptions...), opts...)
	return &clone
}

func (g *ChatModelGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	response, err := g.chatModel.Generate(ctx, g.buildMessages(prompt), g.modelOptions...)
	if err != nil {
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", ErrEmptyResponse
	}
	return response.Content, nil
}

func (g *ChatModelGenerator) buildMessages(prompt string) []*schema.Message {
	messages := make([]*schema.Message, 0, 2)
	if g.systemPrompt != "" {
		messages = append(messages, schema.SystemMessage(g.systemPrompt))
	}
	return append(messages, schema.UserMessage(prompt))
}
