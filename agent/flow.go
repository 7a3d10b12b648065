package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/tbxark/sobaguide/command"
	"github.com/tbxark/sobaguide/dialogue"
	"github.com/tbxark/sobaguide/formatter"
	"github.com/tbxark/sobaguide/generate"
	"github.com/tbxark/sobaguide/prompt"
	"github.com/tbxark/sobaguide/types"
)

const (
	FallbackMessage = "申し訳ありません。情報の取得に失敗しました。しばらく時間をおいて再度お試しください。"
	ResultMessage   = "制度の説明"
	ResultHint      = "「戻る」で回答を修正、「再試行」で再検索、「最初から」で新しい相談を始められます。"
	RestartMessage  = "最初からやり直します。"
	ExitMessage     = "相談を終了しました。「最初から」で新しい相談を始められます。"

	unknownOptionMessage = "表示されている選択肢の中から選んでください。"
	noOptionsMessage     = "選択できる候補が見つかりませんでした。「戻る」で前の質問に戻ってください。"
	emptyAnswerMessage   = "内容を入力してください。"
)

var ErrNilRequest = errors.New("no request in input")

type flowOptions struct {
	builder         *prompt.Builder
	formatter       *formatter.Formatter
	commandParser   command.Parser
	fallbackMessage string
}

type FlowOption func(*flowOptions)

func WithPromptBuilder(builder *prompt.Builder) FlowOption {
	return func(o *flowOptions) {
		o.builder = builder
	}
}

func WithFormatter(f *formatter.Formatter) FlowOption {
	return func(o *flowOptions) {
		o.formatter = f
	}
}

func WithCommandParser(parser command.Parser) FlowOption {
	return func(o *flowOptions) {
		o.commandParser = parser
	}
}

// WithFallbackMessage overrides the text shown when the backend fails or
// returns nothing.
func WithFallbackMessage(message string) FlowOption {
	return func(o *flowOptions) {
		o.fallbackMessage = message
	}
}

// Flow runs one turn of a session: it interprets the user input, moves the
// dialogue, and once the questionnaire is complete asks the backend and
// formats its reply. Flow keeps no per-session data.
type Flow struct {
	engine          *dialogue.Engine
	generator       generate.Generator
	builder         *prompt.Builder
	formatter       *formatter.Formatter
	commandParser   command.Parser
	fallbackMessage string
}

func NewFlow(engine *dialogue.Engine, generator generate.Generator, opts ...FlowOption) *Flow {
	options := flowOptions{
		fallbackMessage: FallbackMessage,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	if options.builder == nil {
		options.builder = prompt.NewBuilder()
	}
	if options.formatter == nil {
		options.formatter = formatter.New()
	}
	if options.commandParser == nil {
		options.commandParser = command.NewLocalCommandParser()
	}
	return &Flow{
		engine:          engine,
		generator:       generator,
		builder:         options.builder,
		formatter:       options.formatter,
		commandParser:   options.commandParser,
		fallbackMessage: options.fallbackMessage,
	}
}

func (f *Flow) Engine() *dialogue.Engine {
	return f.engine
}

func (f *Flow) InitState() *State {
	return &State{
		Phase:     types.PhaseCollecting,
		Dialogue:  f.engine.Start(),
		UpdatedAt: time.Now(),
	}
}

// CheckState rejects states that do not belong to this flow's questionnaire.
func (f *Flow) CheckState(state *State) error {
	if state == nil {
		return errors.New("nil state")
	}
	switch state.Phase {
	case types.PhaseCollecting, types.PhaseGenerating, types.PhaseCompleted, types.PhaseExited:
	default:
		return fmt.Errorf("unknown phase %q", state.Phase)
	}
	return f.engine.Check(state.Dialogue)
}

// Describe renders state without consuming any input.
func (f *Flow) Describe(state *State) *Response {
	return f.respond(state.Clone(), "")
}

// Blocks derives the display blocks of a completed state.
func (f *Flow) Blocks(state *State) []types.DisplayBlock {
	if state == nil || state.Phase != types.PhaseCompleted {
		return nil
	}
	if state.Failed {
		return []types.DisplayBlock{&types.ErrorBlock{Message: f.fallbackMessage}}
	}
	return f.formatter.Format(state.Result)
}

// Invoke works on a copy of input.State; the caller's state is never
// modified. A cancelled context is returned as an error so that an abandoned
// request leaves the caller's state as it was.
func (f *Flow) Invoke(ctx context.Context, input *Request) (*Response, error) {
	if input == nil {
		return nil, ErrNilRequest
	}
	ctx = callbacks.EnsureRunInfo(ctx, "SobaGuide", "Agent")
	ctx = callbacks.OnStart(ctx, map[string]any{
		"input":   input.UserInput,
		"session": stateKeyOrDefault(ctx),
	})

	resp, err := f.runInternal(ctx, input)
	if err != nil {
		callbacks.OnError(ctx, err)
		return nil, err
	}

	callbacks.OnEnd(ctx, map[string]any{
		"phase":     string(resp.State.Phase),
		"completed": resp.Completed,
	})
	return resp, nil
}

func (f *Flow) runInternal(ctx context.Context, input *Request) (*Response, error) {
	state := input.State.Clone()
	if state == nil || state.Phase == "" {
		state = f.InitState()
	}
	if err := f.engine.Check(state.Dialogue); err != nil {
		return nil, fmt.Errorf("load session state: %w", err)
	}

	cmd, err := f.commandParser.ParseCommand(ctx, input.UserInput)
	if err != nil {
		slog.Warn("Failed to parse command, treating input as an answer", "error", err)
		cmd = command.Answer
	}
	slog.Debug("Parsed command", "session", stateKeyOrDefault(ctx), "command", cmd, "phase", state.Phase)

	switch cmd {
	case command.Restart:
		return f.respond(f.InitState(), RestartMessage), nil
	case command.Exit:
		state.Phase = types.PhaseExited
		return f.respond(state, ExitMessage), nil
	}

	switch state.Phase {
	case types.PhaseExited:
		return f.respond(state, ExitMessage), nil
	case types.PhaseGenerating:
		return f.generate(ctx, state)
	case types.PhaseCompleted:
		switch cmd {
		case command.Back:
			return f.retreat(state)
		case command.Retry:
			return f.generate(ctx, state)
		default:
			return f.respond(state, ""), nil
		}
	default:
		if cmd == command.Back {
			return f.retreat(state)
		}
		return f.answer(ctx, state, input.UserInput)
	}
}

func (f *Flow) answer(ctx context.Context, state *State, input string) (*Response, error) {
	step := f.engine.CurrentStep(state.Dialogue)
	answer := resolveAnswer(step, input)
	if err := f.engine.Validate(state.Dialogue, answer); err != nil {
		slog.Debug("Rejected answer", "step", step.ID, "error", err)
		resp := f.respond(state, invalidAnswerMessage(err)+"\n"+step.Prompt)
		resp.Metadata["error"] = err.Error()
		return resp, nil
	}

	next, transition, err := f.engine.Advance(state.Dialogue, answer)
	if err != nil {
		return nil, fmt.Errorf("advance dialogue: %w", err)
	}
	state.Dialogue = next
	slog.Debug("Advanced dialogue", "step", step.ID, "transition", transition)
	if transition == dialogue.TransitionCompleted {
		return f.generate(ctx, state)
	}
	return f.respond(state, ""), nil
}

func (f *Flow) retreat(state *State) (*Response, error) {
	next, transition, err := f.engine.Retreat(state.Dialogue)
	if err != nil {
		return nil, fmt.Errorf("retreat dialogue: %w", err)
	}
	if transition == dialogue.TransitionExit {
		state.Phase = types.PhaseExited
		return f.respond(state, ExitMessage), nil
	}
	state.Dialogue = next
	state.Phase = types.PhaseCollecting
	state.Result = ""
	state.Failed = false
	return f.respond(state, ""), nil
}

func (f *Flow) generate(ctx context.Context, state *State) (*Response, error) {
	state.Phase = types.PhaseGenerating
	request := f.builder.BuildFromAnswers(state.Dialogue.Answers)
	slog.Debug("Requesting generation", "session", stateKeyOrDefault(ctx), "prompt_len", len(request))

	text, err := f.generator.Generate(ctx, request)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	switch {
	case err != nil:
		slog.Warn("Generation failed", "session", stateKeyOrDefault(ctx), "error", err)
		state.Result, state.Failed = "", true
	case strings.TrimSpace(text) == "":
		slog.Warn("Generation returned empty text", "session", stateKeyOrDefault(ctx))
		state.Result, state.Failed = "", true
	default:
		state.Result, state.Failed = text, false
	}
	state.Phase = types.PhaseCompleted

	resp := f.respond(state, "")
	if err != nil {
		resp.Metadata["error"] = err.Error()
	}
	return resp, nil
}

func (f *Flow) respond(state *State, message string) *Response {
	state.UpdatedAt = time.Now()
	resp := &Response{
		State:     state,
		Completed: state.Phase == types.PhaseCompleted || state.Phase == types.PhaseExited,
		Metadata:  map[string]string{},
	}
	switch state.Phase {
	case types.PhaseCollecting:
		step := f.engine.CurrentStep(state.Dialogue)
		resp.Step = &step
		if message == "" {
			message = step.Prompt
		}
	case types.PhaseCompleted:
		resp.Blocks = f.Blocks(state)
		if message == "" {
			message = ResultMessage
		}
		resp.Metadata["hint"] = ResultHint
	case types.PhaseExited:
		if message == "" {
			message = ExitMessage
		}
	}
	resp.Message = message
	return resp
}

// resolveAnswer trims input and, for closed-choice steps, accepts the 1-based
// number of an option in place of its text.
func resolveAnswer(step types.Step, input string) string {
	answer := strings.TrimSpace(input)
	if step.Kind != types.StepClosedChoice {
		return answer
	}
	for _, option := range step.Options {
		if option == answer {
			return answer
		}
	}
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(step.Options) {
		return step.Options[n-1]
	}
	return answer
}

func invalidAnswerMessage(err error) string {
	switch {
	case errors.Is(err, dialogue.ErrNoOptions):
		return noOptionsMessage
	case errors.Is(err, dialogue.ErrEmptyAnswer):
		return emptyAnswerMessage
	default:
		return unknownOptionMessage
	}
}
