package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/sobaguide/geo"
	"github.com/tbxark/sobaguide/types"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	lookup := geo.NewStaticLookup(
		[]string{"関東", "近畿"},
		map[string][]string{
			"関東": {"東京都", "神奈川県"},
			"近畿": {"大阪府"},
		},
		map[string][]string{
			"東京都": {"新宿区", "世田谷区"},
			"大阪府": {"大阪市"},
		},
	)
	engine, err := NewEngine(DefaultQuestionnaire(lookup, []string{"就労支援", "子育て支援"}))
	require.NoError(t, err)
	return engine
}

func TestAdvanceThroughAllSteps(t *testing.T) {
	engine := newTestEngine(t)
	answers := []string{"関東", "東京都", "新宿区", "子育て支援", "保育園の空きについて"}

	state := engine.Start()
	assert.Equal(t, []string{"関東", "近畿"}, state.Options)
	for i, answer := range answers {
		require.NoError(t, engine.Validate(state, answer), "step %d", i)
		next, tr, err := engine.Advance(state, answer)
		require.NoError(t, err)
		if i == len(answers)-1 {
			assert.Equal(t, TransitionCompleted, tr)
			assert.True(t, next.Complete)
			assert.Equal(t, i, next.StepIndex)
		} else {
			assert.Equal(t, TransitionAdvanced, tr)
			assert.Equal(t, i+1, next.StepIndex)
		}
		state = next
	}
	assert.Equal(t, types.AnswerSet(answers), state.Answers)
	assert.Len(t, state.Answers, engine.StepCount())
}

func TestDependentOptionsResolve(t *testing.T) {
	engine := newTestEngine(t)
	state := engine.Start()

	state, _, err := engine.Advance(state, "関東")
	require.NoError(t, err)
	assert.Equal(t, []string{"東京都", "神奈川県"}, engine.CurrentStep(state).Options)

	state, _, err = engine.Advance(state, "東京都")
	require.NoError(t, err)
	assert.Equal(t, []string{"新宿区", "世田谷区"}, state.Options)

	state, _, err = engine.Advance(state, "新宿区")
	require.NoError(t, err)
	assert.Equal(t, []string{"就労支援", "子育て支援"}, state.Options)

	state, _, err = engine.Advance(state, "就労支援")
	require.NoError(t, err)
	step := engine.CurrentStep(state)
	assert.Equal(t, types.StepFreeText, step.Kind)
	assert.Empty(t, step.Options)
}

func TestMissingLookupEntryResolvesEmpty(t *testing.T) {
	engine := newTestEngine(t)
	state := engine.Start()
	state, _, err := engine.Advance(state, "近畿")
	require.NoError(t, err)
	state, _, err = engine.Advance(state, "大阪府")
	require.NoError(t, err)

	state, _, err = engine.Retreat(state)
	require.NoError(t, err)
	state, _, err = engine.Advance(state, "和歌山県")
	require.NoError(t, err)
	assert.NotNil(t, state.Options)
	assert.Empty(t, state.Options)
	assert.ErrorIs(t, engine.Validate(state, "和歌山市"), ErrNoOptions)
}

func TestAdvanceRetreatCancel(t *testing.T) {
	engine := newTestEngine(t)
	answers := []string{"関東", "東京都", "世田谷区", "就労支援", "メモ"}

	state := engine.Start()
	for _, answer := range answers {
		before := state.Clone()
		next, _, err := engine.Advance(state, answer)
		require.NoError(t, err)
		back, tr, err := engine.Retreat(next)
		require.NoError(t, err)
		assert.Equal(t, TransitionRetreated, tr)
		assert.Equal(t, before, back)
		state = next
	}
}

func TestRetreatAtFirstStepExits(t *testing.T) {
	engine := newTestEngine(t)
	state := engine.Start()
	next, tr, err := engine.Retreat(state)
	require.NoError(t, err)
	assert.Equal(t, TransitionExit, tr)
	assert.Equal(t, state, next)
}

func TestReansweringDiscardsStaleAnswers(t *testing.T) {
	engine := newTestEngine(t)
	state := engine.Start()
	state, _, _ = engine.Advance(state, "関東")
	state, _, _ = engine.Advance(state, "東京都")
	state, _, _ = engine.Advance(state, "新宿区")

	stale := state
	stale.StepIndex = 1
	stale.Options = []string{"東京都", "神奈川県"}
	next, _, err := engine.Advance(stale, "神奈川県")
	require.NoError(t, err)
	assert.Equal(t, types.AnswerSet{"関東", "神奈川県"}, next.Answers)
	assert.Equal(t, 2, next.StepIndex)
}

func TestAdvanceAfterCompleteFails(t *testing.T) {
	engine := newTestEngine(t)
	state := engine.Start()
	for _, a := range []string{"関東", "東京都", "新宿区", "就労支援", "x"} {
		var err error
		state, _, err = engine.Advance(state, a)
		require.NoError(t, err)
	}
	_, _, err := engine.Advance(state, "again")
	assert.ErrorIs(t, err, ErrAlreadyComplete)
}

func TestInvalidStateRejected(t *testing.T) {
	engine := newTestEngine(t)
	_, _, err := engine.Advance(State{StepIndex: 3, Answers: types.AnswerSet{"関東"}}, "x")
	assert.ErrorIs(t, err, ErrInvalidState)
	_, _, err = engine.Retreat(State{StepIndex: 9})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestValidate(t *testing.T) {
	engine := newTestEngine(t)
	state := engine.Start()
	assert.ErrorIs(t, engine.Validate(state, "九州"), ErrUnknownOption)

	for _, a := range []string{"関東", "東京都", "新宿区", "就労支援"} {
		state, _, _ = engine.Advance(state, a)
	}
	assert.ErrorIs(t, engine.Validate(state, "   "), ErrEmptyAnswer)
	assert.NoError(t, engine.Validate(state, "相談したいこと"))
}

func TestOptionalFreeText(t *testing.T) {
	lookup := geo.NewStaticLookup([]string{"R"}, map[string][]string{"R": {"P"}}, map[string][]string{"P": {"C"}})
	engine, err := NewEngine(DefaultQuestionnaire(lookup, nil).WithOptional(StepFreeText))
	require.NoError(t, err)
	state := engine.Start()
	for _, a := range []string{"R", "P", "C", DefaultCategories[0]} {
		state, _, err = engine.Advance(state, a)
		require.NoError(t, err)
	}
	assert.NoError(t, engine.Validate(state, ""))
}

func TestNewEngineValidation(t *testing.T) {
	_, err := NewEngine(Questionnaire{})
	assert.ErrorIs(t, err, ErrInvalidQuestionnaire)

	_, err = NewEngine(Questionnaire{Steps: []types.Step{
		{ID: 2, Kind: types.StepFreeText},
		{ID: 1, Kind: types.StepFreeText},
	}})
	assert.ErrorIs(t, err, ErrInvalidQuestionnaire)

	_, err = NewEngine(Questionnaire{Steps: []types.Step{{ID: 1, Kind: types.StepClosedChoice}}})
	assert.ErrorIs(t, err, ErrInvalidQuestionnaire)

	_, err = NewEngine(Questionnaire{
		Steps:        []types.Step{{ID: 1, Kind: types.StepFreeText}},
		Dependencies: map[int]Resolver{0: func(string) []string { return nil }},
	})
	assert.ErrorIs(t, err, ErrInvalidQuestionnaire)
}
