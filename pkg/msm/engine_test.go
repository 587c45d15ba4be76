package msm

import (
	"testing"

	"github.com/ardenhq/warren/pkg/blackboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine_RejectsEmptyOutcomes(t *testing.T) {
	_, err := NewEngine()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestEngine_AddState_FirstStateBecomesInitial(t *testing.T) {
	e, err := NewEngine("ok")
	require.NoError(t, err)

	a := newFixedCallback(t, "done", "done")
	require.NoError(t, e.AddState("A", a, map[string]string{"done": "ok"}))

	assert.Equal(t, "A", e.InitialState())
}

func TestEngine_AddState_DuplicateNameIsNoOp(t *testing.T) {
	e, err := NewEngine("ok")
	require.NoError(t, err)

	a := newFixedCallback(t, "done", "done")
	b := newFixedCallback(t, "done", "done")

	require.NoError(t, e.AddState("A", a, map[string]string{"done": "ok"}))
	require.NoError(t, e.AddState("A", b, map[string]string{"done": "ok"}))

	assert.Same(t, a, e.States()["A"])
}

func TestEngine_AddState_RejectsUndeclaredOutcomeAsSource(t *testing.T) {
	e, err := NewEngine("ok")
	require.NoError(t, err)

	a := newFixedCallback(t, "done", "done")
	err = e.AddState("A", a, map[string]string{"missing": "ok"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestEngine_AddState_NameCollidingWithOwnOutcomeIsNoOp(t *testing.T) {
	e, err := NewEngine("ok")
	require.NoError(t, err)

	a := newFixedCallback(t, "done", "done")
	require.NoError(t, e.AddState("ok", a, nil))

	assert.Empty(t, e.States())
}

func TestEngine_LinearPipeline_ExecutesInOrder(t *testing.T) {
	e, err := NewEngine("ok", "err")
	require.NoError(t, err)

	a := newFixedCallback(t, "done", "done", "fail")
	b := newFixedCallback(t, "done", "done", "fail")

	require.NoError(t, e.AddState("A", a, map[string]string{"done": "B", "fail": "err"}))
	require.NoError(t, e.AddState("B", b, map[string]string{"done": "ok", "fail": "err"}))

	outcome, err := e.Execute(blackboard.New())
	require.NoError(t, err)
	assert.Equal(t, "ok", outcome)
	assert.Equal(t, "B", e.CurrentState())
}

func TestEngine_Validate_FailsOnUnregisteredInitialState(t *testing.T) {
	e, err := NewEngine("ok")
	require.NoError(t, err)

	err = e.Validate(true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationError)
}

func TestEngine_Validate_Forced_FailsOnUnterminatedOutcome(t *testing.T) {
	e, err := NewEngine("ok")
	require.NoError(t, err)

	a := newFixedCallback(t, "done", "done", "stuck")
	require.NoError(t, e.AddState("A", a, map[string]string{"done": "ok"}))

	err = e.Validate(true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationError)
}

func TestEngine_Execute_UnhandledOutcomeFails(t *testing.T) {
	e, err := NewEngine("ok")
	require.NoError(t, err)

	a := newFixedCallback(t, "mystery", "mystery", "done")
	require.NoError(t, e.AddState("A", a, map[string]string{"done": "ok"}))

	_, err = e.Execute(blackboard.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnhandledOutcome)
}

func TestEngine_TransitionTargetingOwnOutcome_EndsRun(t *testing.T) {
	e, err := NewEngine("ok", "err")
	require.NoError(t, err)

	a := newFixedCallback(t, "done", "done")
	require.NoError(t, e.AddState("A", a, map[string]string{"done": "ok"}))

	outcome, err := e.Execute(blackboard.New())
	require.NoError(t, err)
	assert.Equal(t, "ok", outcome)
}

func TestEngine_Callbacks_RunInOrderAndSeeRunShape(t *testing.T) {
	e, err := NewEngine("ok")
	require.NoError(t, err)

	a := newFixedCallback(t, "done", "done")
	b := newFixedCallback(t, "done", "done")
	require.NoError(t, e.AddState("A", a, map[string]string{"done": "B"}))
	require.NoError(t, e.AddState("B", b, map[string]string{"done": "ok"}))

	var events []string
	e.AddStartCallback(func(bb *blackboard.Blackboard, initial string, args []string) error {
		events = append(events, "start:"+initial)
		return nil
	})
	e.AddTransitionCallback(func(bb *blackboard.Blackboard, from, to, outcome string, args []string) error {
		events = append(events, "transition:"+from+"->"+to)
		return nil
	})
	e.AddEndCallback(func(bb *blackboard.Blackboard, outcome string, args []string) error {
		events = append(events, "end:"+outcome)
		return nil
	})

	_, err = e.Execute(blackboard.New())
	require.NoError(t, err)
	assert.Equal(t, []string{"start:A", "transition:A->B", "end:ok"}, events)
}

func TestEngine_StartCallbackError_AbortsRun(t *testing.T) {
	e, err := NewEngine("ok")
	require.NoError(t, err)

	a := newFixedCallback(t, "done", "done")
	require.NoError(t, e.AddState("A", a, map[string]string{"done": "ok"}))

	e.AddStartCallback(func(bb *blackboard.Blackboard, initial string, args []string) error {
		return assertErr
	})

	_, err = e.Execute(blackboard.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCallbackError)
}

func TestEngine_NestedEngineAsState(t *testing.T) {
	inner, err := NewEngine("inner-ok")
	require.NoError(t, err)
	leaf := newFixedCallback(t, "done", "done")
	require.NoError(t, inner.AddState("leaf", leaf, map[string]string{"done": "inner-ok"}))
	inner.SetLabel("Inner")

	outer, err := NewEngine("outer-ok")
	require.NoError(t, err)
	require.NoError(t, outer.AddState("inner", inner, map[string]string{"inner-ok": "outer-ok"}))

	outcome, err := outer.Execute(blackboard.New())
	require.NoError(t, err)
	assert.Equal(t, "outer-ok", outcome)
}

func TestEngine_Validate_RecursesIntoNestedEngine(t *testing.T) {
	inner, err := NewEngine("inner-ok")
	require.NoError(t, err)
	leaf := newFixedCallback(t, "done", "done", "stuck")
	require.NoError(t, inner.AddState("leaf", leaf, map[string]string{"done": "inner-ok"}))

	outer, err := NewEngine("outer-ok")
	require.NoError(t, err)
	require.NoError(t, outer.AddState("inner", inner, map[string]string{"inner-ok": "outer-ok"}))

	// leaf's "stuck" outcome is unterminated inside the inner engine; the
	// outer graph alone is fine, so only the recursive descent catches it.
	err = outer.Validate(true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationError)

	require.NoError(t, outer.Validate(false))
}

func TestEngine_CancelDuringRun_ReturnsFirstDeclaredOutcome(t *testing.T) {
	e, err := NewEngine("first", "second")
	require.NoError(t, err)

	a, err := NewCallbackState(func(bb *blackboard.Blackboard) (string, error) {
		e.Cancel()
		return "done", nil
	}, "done")
	require.NoError(t, err)
	require.NoError(t, e.AddState("A", a, map[string]string{"done": "second"}))

	outcome, err := e.Execute(blackboard.New())
	require.NoError(t, err)
	assert.Equal(t, "first", outcome)
}

func TestEngine_String_NamesOutcomeAndStateCounts(t *testing.T) {
	e, err := NewEngine("ok", "err")
	require.NoError(t, err)
	a := newFixedCallback(t, "done", "done")
	require.NoError(t, e.AddState("A", a, map[string]string{"done": "ok"}))
	e.SetLabel("Checkout")

	assert.Equal(t, "Checkout(outcomes=2, states=1)", e.String())
}

var assertErr = &testError{"start failed"}

type recordingLogger struct {
	events []string
}

func (r *recordingLogger) Event(eventType string, fields map[string]any) {
	r.events = append(r.events, eventType)
}

func TestEngine_SetLogger_EmitsLifecycleEvents(t *testing.T) {
	e, err := NewEngine("ok")
	require.NoError(t, err)

	a := newFixedCallback(t, "done", "done")
	b := newFixedCallback(t, "done", "done")
	require.NoError(t, e.AddState("A", a, map[string]string{"done": "B"}))
	require.NoError(t, e.AddState("B", b, map[string]string{"done": "ok"}))

	rec := &recordingLogger{}
	e.SetLogger(rec)

	_, err = e.Execute(blackboard.New())
	require.NoError(t, err)

	assert.Equal(t, []string{"run_started", "transition", "run_finished"}, rec.events)
}

func TestEngine_NilLoggerIsSafe(t *testing.T) {
	e, err := NewEngine("ok")
	require.NoError(t, err)
	a := newFixedCallback(t, "done", "done")
	require.NoError(t, e.AddState("A", a, map[string]string{"done": "ok"}))

	_, err = e.Execute(blackboard.New())
	require.NoError(t, err)
}
