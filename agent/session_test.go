package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/sobaguide/generate"
	"github.com/tbxark/sobaguide/types"
)

type blockingGenerator struct {
	started chan struct{}
	release chan struct{}
}

func newBlockingGenerator() *blockingGenerator {
	return &blockingGenerator{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (g *blockingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.started <- struct{}{}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-g.release:
		return sampleResult, nil
	}
}

func sendAll(t *testing.T, session *Session, inputs ...string) {
	t.Helper()
	for _, input := range inputs {
		_, err := session.Send(context.Background(), input)
		require.NoError(t, err)
	}
}

func TestSessionSendCommitsState(t *testing.T) {
	session := NewSession(newTestFlow(t, &generate.StaticGenerator{Text: sampleResult}))
	require.NotEmpty(t, session.ID())
	assert.Equal(t, types.PhaseCollecting, session.State().Phase)

	sendAll(t, session, "関東", "東京都")
	state := session.State()
	assert.Equal(t, types.AnswerSet{"関東", "東京都"}, state.Dialogue.Answers)
	assert.Equal(t, "どの市町村に住んでいますか？", session.Current().Message)

	state.Dialogue.Answers[0] = "changed"
	assert.Equal(t, "関東", session.State().Dialogue.Answers[0])
}

func TestSessionRejectsConcurrentRequestAndAbandons(t *testing.T) {
	gen := newBlockingGenerator()
	session := NewSession(newTestFlow(t, gen))
	sendAll(t, session, "関東", "東京都", "新宿区", "就労支援")
	before := session.State()

	errCh := make(chan error, 1)
	go func() {
		_, err := session.Send(context.Background(), "相談")
		errCh <- err
	}()
	<-gen.started
	assert.True(t, session.Pending())

	_, err := session.Send(context.Background(), "もう一件")
	require.ErrorIs(t, err, ErrRequestPending)

	assert.True(t, session.Abandon())
	select {
	case err := <-errCh:
		require.ErrorIs(t, err, ErrAbandoned)
	case <-time.After(5 * time.Second):
		t.Fatal("abandoned request did not return")
	}
	assert.False(t, session.Pending())
	assert.False(t, session.Abandon())
	assert.Equal(t, before, session.State())

	go func() {
		<-gen.started
		close(gen.release)
	}()
	resp, err := session.Send(context.Background(), "相談")
	require.NoError(t, err)
	assert.True(t, resp.Completed)
	assert.Equal(t, sampleResult, session.State().Result)
}

func TestSessionCheckpointRestore(t *testing.T) {
	flow := newTestFlow(t, &generate.StaticGenerator{Text: sampleResult})
	session := NewSession(flow)
	sendAll(t, session, "関東", "東京都", "新宿区", "就労支援", "相談")

	data, err := session.Checkpoint()
	require.NoError(t, err)

	restored := NewSession(flow)
	require.NoError(t, restored.Restore(data))
	assert.Equal(t, session.ID(), restored.ID())
	assert.Equal(t, session.State().Dialogue, restored.State().Dialogue)
	assert.Equal(t, sampleResult, restored.State().Result)
	assert.Len(t, restored.Current().Blocks, 2)
}

func TestSessionRestoreRejectsBadCheckpoint(t *testing.T) {
	session := NewSession(newTestFlow(t, &generate.StaticGenerator{Text: sampleResult}))
	require.ErrorIs(t, session.Restore([]byte(`{"version":"0.1","state":{}}`)), ErrCheckpointVersion)
	require.Error(t, session.Restore([]byte(`not json`)))
	require.Error(t, session.Restore([]byte(`{"version":"1.0","state":{"phase":"collecting","dialogue":{"step_index":7}}}`)))
	assert.Equal(t, types.PhaseCollecting, session.State().Phase)
	assert.Equal(t, 0, session.State().Dialogue.StepIndex)
}
