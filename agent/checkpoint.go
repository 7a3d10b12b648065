package agent

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

const CheckpointVersion = "1.0"

var ErrCheckpointVersion = errors.New("unsupported checkpoint version")

type checkpoint struct {
	Version string `json:"version"`
	ID      string `json:"id"`
	State   *State `json:"state"`
}

func (s *Session) Checkpoint() ([]byte, error) {
	s.mu.Lock()
	cp := checkpoint{
		Version: CheckpointVersion,
		ID:      s.id,
		State:   s.state.Clone(),
	}
	s.mu.Unlock()
	return sonic.Marshal(cp)
}

// Restore replaces the committed state with a checkpoint. A pending request
// is abandoned first.
func (s *Session) Restore(data []byte) error {
	var cp checkpoint
	if err := sonic.Unmarshal(data, &cp); err != nil {
		return fmt.Errorf("decode checkpoint: %w", err)
	}
	if cp.Version != CheckpointVersion {
		return fmt.Errorf("%w: %q", ErrCheckpointVersion, cp.Version)
	}
	if err := s.flow.CheckState(cp.State); err != nil {
		return fmt.Errorf("restore checkpoint: %w", err)
	}
	s.Abandon()
	s.mu.Lock()
	defer s.mu.Unlock()
	if cp.ID != "" {
		s.id = cp.ID
	}
	s.state = cp.State
	return nil
}
