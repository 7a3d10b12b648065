package dialogue

import (
	"errors"
	"slices"
	"strings"

	"github.com/tbxark/sobaguide/types"
)

var (
	ErrInvalidQuestionnaire = errors.New("invalid questionnaire")
	ErrInvalidState         = errors.New("invalid dialogue state")
	ErrAlreadyComplete      = errors.New("dialogue already complete")
	ErrEmptyAnswer          = errors.New("answer is empty")
	ErrUnknownOption        = errors.New("answer is not one of the options")
	ErrNoOptions            = errors.New("no options available for this step")
)

type Transition int

const (
	TransitionAdvanced Transition = iota
	TransitionCompleted
	TransitionRetreated
	TransitionExit
)

func (t Transition) String() string {
	switch t {
	case TransitionAdvanced:
		return "advanced"
	case TransitionCompleted:
		return "completed"
	case TransitionRetreated:
		return "retreated"
	case TransitionExit:
		return "exit"
	default:
		return "unknown"
	}
}

// State is the position of a user inside a questionnaire. While collecting,
// len(Answers) == StepIndex. Once Complete, every step has an answer and
// StepIndex stays on the last step.
type State struct {
	StepIndex int             `json:"step_index"`
	Answers   types.AnswerSet `json:"answers"`
	Options   []string        `json:"options"`
	Complete  bool            `json:"complete"`
}

func (s State) Clone() State {
	return State{
		StepIndex: s.StepIndex,
		Answers:   s.Answers.Clone(),
		Options:   cloneOptions(s.Options),
		Complete:  s.Complete,
	}
}

// Engine drives a Questionnaire. It holds no per-session data; every
// operation takes a State and returns the next one.
type Engine struct {
	q Questionnaire
}

func NewEngine(q Questionnaire) (*Engine, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	return &Engine{q: q}, nil
}

func (e *Engine) StepCount() int {
	return len(e.q.Steps)
}

func (e *Engine) Steps() []types.Step {
	return slices.Clone(e.q.Steps)
}

func (e *Engine) Start() State {
	return State{
		StepIndex: 0,
		Answers:   types.AnswerSet{},
		Options:   e.optionsFor(0, nil),
	}
}

// CurrentStep returns the step at the state's index with its resolved options.
func (e *Engine) CurrentStep(s State) types.Step {
	idx := min(max(s.StepIndex, 0), len(e.q.Steps)-1)
	step := e.q.Steps[idx]
	step.Options = cloneOptions(s.Options)
	return step
}

// Advance records answer for the current step. Answers recorded beyond the
// current index are discarded.
func (e *Engine) Advance(s State, answer string) (State, Transition, error) {
	if s.Complete {
		return s, TransitionAdvanced, ErrAlreadyComplete
	}
	if err := e.Check(s); err != nil {
		return s, TransitionAdvanced, err
	}
	idx := s.StepIndex
	answers := make(types.AnswerSet, 0, idx+1)
	answers = append(answers, s.Answers[:idx]...)
	answers = append(answers, answer)

	if idx == len(e.q.Steps)-1 {
		return State{
			StepIndex: idx,
			Answers:   answers,
			Options:   cloneOptions(s.Options),
			Complete:  true,
		}, TransitionCompleted, nil
	}
	return State{
		StepIndex: idx + 1,
		Answers:   answers,
		Options:   e.optionsFor(idx+1, answers),
	}, TransitionAdvanced, nil
}

// Retreat undoes the last Advance. At the first step it reports
// TransitionExit and returns the state unchanged.
func (e *Engine) Retreat(s State) (State, Transition, error) {
	if err := e.Check(s); err != nil {
		return s, TransitionRetreated, err
	}
	idx := s.StepIndex
	if s.Complete {
		answers := append(types.AnswerSet{}, s.Answers[:idx]...)
		return State{
			StepIndex: idx,
			Answers:   answers,
			Options:   e.optionsFor(idx, answers),
		}, TransitionRetreated, nil
	}
	if idx == 0 {
		return s, TransitionExit, nil
	}
	idx--
	answers := append(types.AnswerSet{}, s.Answers[:idx]...)
	return State{
		StepIndex: idx,
		Answers:   answers,
		Options:   e.optionsFor(idx, answers),
	}, TransitionRetreated, nil
}

// Validate checks an answer against the current step. Advance does not call
// it; callers are expected to validate before advancing.
func (e *Engine) Validate(s State, answer string) error {
	if s.Complete {
		return ErrAlreadyComplete
	}
	if err := e.Check(s); err != nil {
		return err
	}
	step := e.q.Steps[s.StepIndex]
	switch step.Kind {
	case types.StepClosedChoice:
		if len(s.Options) == 0 {
			return ErrNoOptions
		}
		if !slices.Contains(s.Options, answer) {
			return ErrUnknownOption
		}
	case types.StepFreeText:
		if strings.TrimSpace(answer) == "" && !step.Optional {
			return ErrEmptyAnswer
		}
	}
	return nil
}

// Check reports whether s is a state this engine can operate on.
func (e *Engine) Check(s State) error {
	if s.StepIndex < 0 || s.StepIndex >= len(e.q.Steps) {
		return ErrInvalidState
	}
	if len(s.Answers) < s.StepIndex {
		return ErrInvalidState
	}
	if s.Complete && len(s.Answers) != len(e.q.Steps) {
		return ErrInvalidState
	}
	return nil
}

func (e *Engine) optionsFor(idx int, answers types.AnswerSet) []string {
	if idx > 0 {
		if resolve, ok := e.q.Dependencies[idx-1]; ok && len(answers) >= idx {
			return cloneOptions(resolve(answers[idx-1]))
		}
	}
	return cloneOptions(e.q.Steps[idx].Options)
}

func cloneOptions(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
