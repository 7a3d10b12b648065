package sobaguide

import (
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/tbxark/sobaguide/agent"
	"github.com/tbxark/sobaguide/command"
	"github.com/tbxark/sobaguide/dialogue"
	"github.com/tbxark/sobaguide/formatter"
	"github.com/tbxark/sobaguide/generate"
	"github.com/tbxark/sobaguide/geo"
	"github.com/tbxark/sobaguide/prompt"
)

type options struct {
	lookup           geo.Lookup
	categories       []string
	optionalFreeText bool
	flowOptions      []agent.FlowOption
}

type Option func(*options)

func WithLookup(lookup geo.Lookup) Option {
	return func(o *options) {
		o.lookup = lookup
	}
}

func WithCategories(categories ...string) Option {
	return func(o *options) {
		o.categories = categories
	}
}

// WithOptionalFreeText lets users submit the last step empty.
func WithOptionalFreeText() Option {
	return func(o *options) {
		o.optionalFreeText = true
	}
}

func WithFormatter(f *formatter.Formatter) Option {
	return func(o *options) {
		o.flowOptions = append(o.flowOptions, agent.WithFormatter(f))
	}
}

func WithPromptBuilder(b *prompt.Builder) Option {
	return func(o *options) {
		o.flowOptions = append(o.flowOptions, agent.WithPromptBuilder(b))
	}
}

func WithCommandParser(p command.Parser) Option {
	return func(o *options) {
		o.flowOptions = append(o.flowOptions, agent.WithCommandParser(p))
	}
}

func WithFallbackMessage(message string) Option {
	return func(o *options) {
		o.flowOptions = append(o.flowOptions, agent.WithFallbackMessage(message))
	}
}

// Guide is a configured support-program consultation: the questionnaire, the
// backend and the formatter. It is safe for concurrent use; per-user data
// lives in sessions.
type Guide struct {
	flow *agent.Flow
}

func New(gen generate.Generator, opts ...Option) (*Guide, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.lookup == nil {
		lookup, err := geo.Default()
		if err != nil {
			return nil, fmt.Errorf("load default geography: %w", err)
		}
		o.lookup = lookup
	}
	q := dialogue.DefaultQuestionnaire(o.lookup, o.categories)
	if o.optionalFreeText {
		q = q.WithOptional(dialogue.StepFreeText)
	}
	engine, err := dialogue.NewEngine(q)
	if err != nil {
		return nil, fmt.Errorf("failed to create dialogue engine: %w", err)
	}
	return &Guide{flow: agent.NewFlow(engine, gen, o.flowOptions...)}, nil
}

// NewChatModelGuide backs the guide with an eino chat model.
func NewChatModelGuide(chatModel model.BaseChatModel, opts ...Option) (*Guide, error) {
	return New(generate.NewChatModelGenerator(chatModel), opts...)
}

func (g *Guide) Flow() *agent.Flow {
	return g.flow
}

func (g *Guide) NewSession() *agent.Session {
	return agent.NewSession(g.flow)
}

// NewAgent exposes the guide as an eino adk agent whose state lives in states.
func (g *Guide) NewAgent(name, description string, states agent.StateReadWriter, render agent.RenderFunc) *agent.Agent {
	return agent.NewAgent(name, description, g.flow, states, render)
}
