package agent

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrRequestPending = errors.New("a request is already pending for this session")
	ErrAbandoned      = errors.New("request was abandoned")
)

// Session is one user's conversation. Requests are serialised: while one is
// outstanding, Send fails with ErrRequestPending. Abandon cancels the
// outstanding request and its result is never committed.
type Session struct {
	id   string
	flow *Flow

	mu      sync.Mutex
	state   *State
	epoch   uint64
	pending bool
	cancel  context.CancelFunc
}

func NewSession(flow *Flow) *Session {
	return &Session{
		id:    uuid.NewString(),
		flow:  flow,
		state: flow.InitState(),
	}
}

func (s *Session) ID() string {
	return s.id
}

// State returns a copy of the last committed state.
func (s *Session) State() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Current describes the committed state without sending input.
func (s *Session) Current() *Response {
	return s.flow.Describe(s.State())
}

func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Session) Send(ctx context.Context, input string) (*Response, error) {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return nil, ErrRequestPending
	}
	s.epoch++
	epoch := s.epoch
	s.pending = true
	ctx, cancel := context.WithCancel(WithStateKey(ctx, s.id))
	s.cancel = cancel
	state := s.state.Clone()
	s.mu.Unlock()

	resp, err := s.flow.Invoke(ctx, &Request{State: state, UserInput: input})
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return nil, ErrAbandoned
	}
	s.pending = false
	s.cancel = nil
	if err != nil {
		return nil, err
	}
	s.state = resp.State.Clone()
	return resp, nil
}

// Abandon cancels the outstanding request. It reports whether there was one.
func (s *Session) Abandon() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.pending {
		return false
	}
	s.epoch++
	s.pending = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return true
}
