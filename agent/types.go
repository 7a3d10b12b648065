package agent

import (
	"time"

	"github.com/tbxark/sobaguide/dialogue"
	"github.com/tbxark/sobaguide/types"
)

// State is everything a session needs to resume. Display blocks are not
// stored; they are derived from Result on demand.
type State struct {
	Phase     types.Phase    `json:"phase"`
	Dialogue  dialogue.State `json:"dialogue"`
	Result    string         `json:"result,omitempty"`
	Failed    bool           `json:"failed,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Dialogue = s.Dialogue.Clone()
	return &clone
}

type Request struct {
	State     *State `json:"state"`
	UserInput string `json:"user_input"`
}

type Response struct {
	Message   string               `json:"message,omitempty"`
	State     *State               `json:"state,omitempty"`
	Step      *types.Step          `json:"step,omitempty"`
	Blocks    []types.DisplayBlock `json:"-"`
	Completed bool                 `json:"completed"`
	Metadata  map[string]string    `json:"metadata,omitempty"`
}
