package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
)

var _ adk.Agent = (*Agent)(nil)

// RenderFunc turns a flow response into the assistant message text.
type RenderFunc func(resp *Response) string

type Agent struct {
	name        string
	description string
	flow        *Flow
	states      StateReadWriter
	guard       *InflightGuard
	render      RenderFunc
}

func NewAgent(name, description string, flow *Flow, states StateReadWriter, render RenderFunc) *Agent {
	if states == nil {
		states = NewMemoryStateReadWriter()
	}
	if render == nil {
		render = func(resp *Response) string { return resp.Message }
	}
	return &Agent{
		name:        name,
		description: description,
		flow:        flow,
		states:      states,
		guard:       NewInflightGuard(),
		render:      render,
	}
}

func (a *Agent) Name(ctx context.Context) string {
	return a.name
}

func (a *Agent) Description(ctx context.Context) string {
	return a.description
}

// Cancel abandons the outstanding request routed by ctx, if any.
func (a *Agent) Cancel(ctx context.Context) bool {
	return a.guard.Cancel(stateKeyOrDefault(ctx))
}

// Invoke runs one turn for the session routed by ctx and persists the new
// state. Nothing is written when the request fails or is cancelled.
func (a *Agent) Invoke(ctx context.Context, userInput string) (*Response, error) {
	key := stateKeyOrDefault(ctx)
	ctx, release, err := a.guard.Acquire(ctx, key)
	if err != nil {
		return nil, err
	}
	defer release()

	state, err := a.states.Read(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := a.flow.Invoke(ctx, &Request{State: state, UserInput: userInput})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, ErrAbandoned
	}
	if err := a.states.Write(ctx, resp.State); err != nil {
		return nil, err
	}
	slog.Debug("Stored session state", "session", key, "phase", resp.State.Phase)
	return resp, nil
}

func (a *Agent) Run(ctx context.Context, input *adk.AgentInput, options ...adk.AgentRunOption) *adk.AsyncIterator[*adk.AgentEvent] {
	iter, gen := adk.NewAsyncIteratorPair[*adk.AgentEvent]()
	go func() {
		defer func() {
			e := recover()
			if e != nil {
				gen.Send(&adk.AgentEvent{
					Err: fmt.Errorf("recover from panic: %v", e),
				})
			}
			gen.Close()
		}()
		if len(input.Messages) == 0 {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("no messages in input"),
			})
			return
		}
		resp, err := a.Invoke(ctx, input.Messages[len(input.Messages)-1].Content)
		if err != nil {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("flow invoke failed: %w", err),
			})
			return
		}
		gen.Send(&adk.AgentEvent{
			Output: &adk.AgentOutput{
				MessageOutput: &adk.MessageVariant{
					IsStreaming: false,
					Message: &schema.Message{
						Role:    schema.Assistant,
						Content: a.render(resp),
					},
					Role: schema.Assistant,
				},
			},
		})
	}()
	return iter
}
