package dialogue

import (
	"fmt"

	"github.com/tbxark/sobaguide/types"
)

// Resolver maps the answer of a step to the options of the following step.
type Resolver func(answer string) []string

// Questionnaire is the configuration of a dialogue: an ordered list of steps
// plus a dependency table keyed by the index of the step whose answer feeds
// the options of the next one.
type Questionnaire struct {
	Steps        []types.Step
	Dependencies map[int]Resolver
}

func (q Questionnaire) validate() error {
	if len(q.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidQuestionnaire)
	}
	for i, step := range q.Steps {
		if i > 0 && step.ID <= q.Steps[i-1].ID {
			return fmt.Errorf("%w: step %d id %d is not ordered", ErrInvalidQuestionnaire, i, step.ID)
		}
		switch step.Kind {
		case types.StepClosedChoice:
			_, dynamic := q.Dependencies[i-1]
			if i == 0 || !dynamic {
				if len(step.Options) == 0 {
					return fmt.Errorf("%w: closed-choice step %d has no options", ErrInvalidQuestionnaire, step.ID)
				}
			}
		case types.StepFreeText:
		default:
			return fmt.Errorf("%w: step %d has unknown kind %q", ErrInvalidQuestionnaire, step.ID, step.Kind)
		}
	}
	for idx, resolver := range q.Dependencies {
		if resolver == nil {
			return fmt.Errorf("%w: nil resolver for step index %d", ErrInvalidQuestionnaire, idx)
		}
		if idx < 0 || idx >= len(q.Steps)-1 {
			return fmt.Errorf("%w: dependency on step index %d has no successor", ErrInvalidQuestionnaire, idx)
		}
	}
	return nil
}

// WithOptional returns a copy of q where the step at idx accepts an empty
// free-text answer.
func (q Questionnaire) WithOptional(idx int) Questionnaire {
	steps := make([]types.Step, len(q.Steps))
	copy(steps, q.Steps)
	if idx >= 0 && idx < len(steps) {
		steps[idx].Optional = true
	}
	q.Steps = steps
	return q
}
