package types

type Phase string

const (
	PhaseCollecting Phase = "collecting"
	PhaseGenerating Phase = "generating"
	PhaseCompleted  Phase = "completed"
	PhaseExited     Phase = "exited"
)

type StepKind string

const (
	StepClosedChoice StepKind = "closed_choice"
	StepFreeText     StepKind = "free_text"
)

// Step is one question of a questionnaire. Options are only meaningful for
// closed-choice steps and may be left empty when they are resolved from the
// previous answer.
type Step struct {
	ID       int      `json:"id"`
	Prompt   string   `json:"prompt"`
	Kind     StepKind `json:"kind"`
	Options  []string `json:"options,omitempty"`
	Optional bool     `json:"optional,omitempty"`
}

// AnswerSet holds one answer per completed step, index-aligned with the steps.
type AnswerSet []string

func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	copy(out, a)
	return out
}
