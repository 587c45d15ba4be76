package msm

import (
	"fmt"
	"sync"

	"github.com/ardenhq/warren/pkg/blackboard"
)

// StartCallback runs before the first state of a run is invoked.
type StartCallback func(bb *blackboard.Blackboard, initialState string, args []string) error

// TransitionCallback runs between a source state returning and its
// successor starting.
type TransitionCallback func(bb *blackboard.Blackboard, from, to, outcome string, args []string) error

// EndCallback runs after the last state of a run returns, with the run's
// final outcome.
type EndCallback func(bb *blackboard.Blackboard, outcome string, args []string) error

type startCallback struct {
	fn   StartCallback
	args []string
}

type transitionCallback struct {
	fn   TransitionCallback
	args []string
}

type endCallback struct {
	fn   EndCallback
	args []string
}

// EventLogger receives structured lifecycle events from an Engine's run
// loop. It is satisfied structurally by internal/telemetry.Logger; pkg/msm
// never imports that package directly, so the core library has no ambient
// logging dependency forced on it.
type EventLogger interface {
	Event(eventType string, fields map[string]any)
}

// Engine drives a directed graph of named States by outcome-keyed
// transitions. Engine implements State, so an Engine may be registered as
// a state of an outer Engine without any special-casing.
type Engine struct {
	lifecycle
	outcomes outcomeSet
	label    string
	logger   EventLogger

	mu          sync.Mutex
	states      map[string]State
	transitions map[string]map[string]string // state name -> outcome -> target (state name or Engine outcome)

	initialState string
	currentState string
	currentMu    sync.Mutex

	isValid boolFlag

	startCallbacks      []startCallback
	transitionCallbacks []transitionCallback
	endCallbacks        []endCallback
}

// NewEngine returns an Engine whose own outcome set is outcomes. outcomes
// must be non-empty, like every other State variant's constructor.
func NewEngine(outcomes ...string) (*Engine, error) {
	os, err := newOutcomeSet(outcomes...)
	if err != nil {
		return nil, err
	}
	return &Engine{
		outcomes:    os,
		label:       "Engine",
		states:      make(map[string]State),
		transitions: make(map[string]map[string]string),
	}, nil
}

// SetLabel overrides the debug label returned by String.
func (e *Engine) SetLabel(label string) { e.label = label }

// SetLogger attaches logger to the Engine; every subsequent run emits
// start/transition/end events to it. A nil logger disables event emission.
func (e *Engine) SetLogger(logger EventLogger) { e.logger = logger }

func (e *Engine) logEvent(eventType string, fields map[string]any) {
	if e.logger == nil {
		return
	}
	e.logger.Event(eventType, fields)
}

// AddState registers state under name with its outgoing transitions
// (outcome -> target name or Engine outcome).
//
//   - if name already names a registered state, or collides with one of
//     the Engine's own outcomes, AddState is a silent no-op;
//   - an empty source or target, or a source outcome the state does not
//     declare, fails with ErrInvalidArgument;
//   - the first state ever added becomes the initial state;
//   - any successful registration invalidates the Engine's cached
//     validity, forcing the next Execute to re-Validate.
func (e *Engine) AddState(name string, state State, transitions map[string]string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.states[name]; exists {
		return nil
	}
	if e.outcomes.has(name) {
		return nil
	}

	for source, target := range transitions {
		if source == "" || target == "" {
			return fmt.Errorf("%w: transition source and target names cannot be empty (state %q)", ErrInvalidArgument, name)
		}
		if _, ok := state.Outcomes()[source]; !ok {
			return fmt.Errorf("%w: state %q has no outcome %q referenced by its transitions", ErrInvalidArgument, name, source)
		}
	}

	cloned := make(map[string]string, len(transitions))
	for k, v := range transitions {
		cloned[k] = v
	}

	e.states[name] = state
	e.transitions[name] = cloned

	if e.initialState == "" {
		e.initialState = name
	}

	e.isValid.set(false)
	return nil
}

// SetInitialState changes which registered state a run begins from.
// Fails with ErrInvalidArgument if name is not registered.
func (e *Engine) SetInitialState(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.states[name]; !ok {
		return fmt.Errorf("%w: cannot set initial state to %q: not registered", ErrInvalidArgument, name)
	}
	e.initialState = name
	e.isValid.set(false)
	return nil
}

// InitialState returns the name of the state a run begins from.
func (e *Engine) InitialState() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialState
}

// CurrentState returns the name of the state currently in flight, or the
// last one that ran, for external observers.
func (e *Engine) CurrentState() string {
	e.currentMu.Lock()
	defer e.currentMu.Unlock()
	return e.currentState
}

func (e *Engine) setCurrentState(name string) {
	e.currentMu.Lock()
	e.currentState = name
	e.currentMu.Unlock()
}

// States returns a snapshot of the registered states, keyed by name.
func (e *Engine) States() map[string]State {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]State, len(e.states))
	for k, v := range e.states {
		out[k] = v
	}
	return out
}

// Transitions returns a snapshot of name's registered transition table.
func (e *Engine) Transitions(name string) map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]string, len(e.transitions[name]))
	for k, v := range e.transitions[name] {
		out[k] = v
	}
	return out
}

// AddStartCallback registers fn to run, in order, before the first state of
// a run is invoked.
func (e *Engine) AddStartCallback(fn StartCallback, args ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startCallbacks = append(e.startCallbacks, startCallback{fn: fn, args: args})
}

// AddTransitionCallback registers fn to run, in order, between a source
// state returning and its successor starting.
func (e *Engine) AddTransitionCallback(fn TransitionCallback, args ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transitionCallbacks = append(e.transitionCallbacks, transitionCallback{fn: fn, args: args})
}

// AddEndCallback registers fn to run, in order, after the run's final
// outcome is known.
func (e *Engine) AddEndCallback(fn EndCallback, args ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endCallbacks = append(e.endCallbacks, endCallback{fn: fn, args: args})
}

func (e *Engine) invokeStartCallbacks(bb *blackboard.Blackboard, initialState string) error {
	e.mu.Lock()
	callbacks := append([]startCallback(nil), e.startCallbacks...)
	e.mu.Unlock()

	for _, cb := range callbacks {
		if err := cb.fn(bb, initialState, cb.args); err != nil {
			return fmt.Errorf("%w: start callback: %s", ErrCallbackError, err)
		}
	}
	return nil
}

func (e *Engine) invokeTransitionCallbacks(bb *blackboard.Blackboard, from, to, outcome string) error {
	e.mu.Lock()
	callbacks := append([]transitionCallback(nil), e.transitionCallbacks...)
	e.mu.Unlock()

	for _, cb := range callbacks {
		if err := cb.fn(bb, from, to, outcome, cb.args); err != nil {
			return fmt.Errorf("%w: transition callback: %s", ErrCallbackError, err)
		}
	}
	return nil
}

func (e *Engine) invokeEndCallbacks(bb *blackboard.Blackboard, outcome string) error {
	e.mu.Lock()
	callbacks := append([]endCallback(nil), e.endCallbacks...)
	e.mu.Unlock()

	for _, cb := range callbacks {
		if err := cb.fn(bb, outcome, cb.args); err != nil {
			return fmt.Errorf("%w: end callback: %s", ErrCallbackError, err)
		}
	}
	return nil
}

// Validate checks that the transition graph is well-formed. If forced is
// false and the Engine is already marked valid, Validate returns
// immediately. If forced is true, Validate additionally requires that
// every outcome of every registered state either names a transition source
// or one of the Engine's own outcomes — an outcome satisfying neither
// would fail a run that reaches it with ErrUnhandledOutcome. Nested Engines are
// validated recursively with the same forced flag.
func (e *Engine) Validate(forced bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.validateLocked(forced)
}

func (e *Engine) validateLocked(forced bool) error {
	if !forced && e.isValid.get() {
		return nil
	}

	if e.initialState == "" {
		return fmt.Errorf("%w: initial state is not set", ErrValidationError)
	}
	if _, ok := e.states[e.initialState]; !ok {
		return fmt.Errorf("%w: initial state %q is not registered", ErrValidationError, e.initialState)
	}

	for name, state := range e.states {
		stateTransitions := e.transitions[name]
		stateOutcomes := state.Outcomes()

		if forced {
			for outcome := range stateOutcomes {
				_, isSource := stateTransitions[outcome]
				if !isSource && !e.outcomes.has(outcome) {
					return fmt.Errorf("%w: outcome %q of state %q is neither a transition source nor an Engine outcome", ErrValidationError, outcome, name)
				}
			}
		}

		if nested, ok := state.(*Engine); ok {
			if err := nested.Validate(forced); err != nil {
				return err
			}
		}

		for _, target := range stateTransitions {
			if _, isState := e.states[target]; isState {
				continue
			}
			if e.outcomes.has(target) {
				continue
			}
			return fmt.Errorf("%w: transition target %q of state %q is neither a registered state nor an Engine outcome", ErrValidationError, target, name)
		}
	}

	e.isValid.set(true)
	return nil
}

// Execute runs the Engine to completion: it invokes the initial state and
// follows transitions by outcome. The run ends when a transition names one
// of the Engine's own outcomes, or when a state returns an outcome with no
// transition that is itself an Engine outcome; that Engine outcome is
// returned. Execute calls Validate(false) on every call, which re-checks
// the graph only if it changed since the last successful validation.
func (e *Engine) Execute(bb *blackboard.Blackboard) (string, error) {
	return invoke(&e.lifecycle, e.outcomes, e.String(), func() (string, error) {
		return e.run(bb)
	})
}

// Invoke implements State by delegating to Execute.
func (e *Engine) Invoke(bb *blackboard.Blackboard) (string, error) {
	return e.Execute(bb)
}

func (e *Engine) run(bb *blackboard.Blackboard) (string, error) {
	if err := e.Validate(false); err != nil {
		return "", err
	}

	e.mu.Lock()
	initial := e.initialState
	e.mu.Unlock()

	if err := e.invokeStartCallbacks(bb, initial); err != nil {
		return "", err
	}
	e.logEvent("run_started", map[string]any{"engine": e.label, "initial_state": initial})

	e.setCurrentState(initial)

	for {
		current := e.CurrentState()

		e.mu.Lock()
		state, ok := e.states[current]
		stateTransitions := e.transitions[current]
		e.mu.Unlock()
		if !ok {
			return "", fmt.Errorf("%w: current state %q is not registered", ErrValidationError, current)
		}

		outcome, err := state.Invoke(bb)
		if err != nil {
			return "", err
		}

		if e.lifecycle.IsCancelled() {
			final := e.outcomes.order[0]
			e.logEvent("run_cancelled", map[string]any{"engine": e.label, "state": current, "outcome": final})
			if err := e.invokeEndCallbacks(bb, final); err != nil {
				return "", err
			}
			return final, nil
		}

		target, hasTransition := stateTransitions[outcome]
		if hasTransition {
			e.mu.Lock()
			_, targetIsState := e.states[target]
			e.mu.Unlock()

			if targetIsState {
				if err := e.invokeTransitionCallbacks(bb, current, target, outcome); err != nil {
					return "", err
				}
				e.logEvent("transition", map[string]any{"engine": e.label, "from": current, "to": target, "outcome": outcome})
				e.setCurrentState(target)
				continue
			}

			e.logEvent("run_finished", map[string]any{"engine": e.label, "state": current, "outcome": target})
			if err := e.invokeEndCallbacks(bb, target); err != nil {
				return "", err
			}
			return target, nil
		}

		if e.outcomes.has(outcome) {
			e.logEvent("run_finished", map[string]any{"engine": e.label, "state": current, "outcome": outcome})
			if err := e.invokeEndCallbacks(bb, outcome); err != nil {
				return "", err
			}
			return outcome, nil
		}

		return "", fmt.Errorf("%w: outcome %q of state %q has no transition and is not an Engine outcome", ErrUnhandledOutcome, outcome, current)
	}
}

// Cancel requests cancellation of the in-flight run: it sets the Engine's
// own flag and, on a best-effort basis, cancels whichever child state was
// current at the moment of the call.
func (e *Engine) Cancel() {
	current := e.CurrentState()

	e.mu.Lock()
	state, ok := e.states[current]
	e.mu.Unlock()

	if ok {
		state.Cancel()
	}
	e.lifecycle.Cancel()
}

// Outcomes implements State.
func (e *Engine) Outcomes() map[string]struct{} { return e.outcomes.snapshot() }

// String implements State.
func (e *Engine) String() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fmt.Sprintf("%s(outcomes=%d, states=%d)", e.label, len(e.outcomes.set), len(e.states))
}
