package msm

import (
	"fmt"
	"sync/atomic"

	"github.com/ardenhq/warren/pkg/blackboard"
)

// State is an executable unit with a fixed, non-empty outcome set and a
// cooperative cancellation flag. CallbackState, ParallelState, and Engine
// all implement State independently — none of them embeds a shared base
// struct in its exported surface; composition happens through this
// interface rather than through inheritance.
type State interface {
	// Invoke runs the state against bb and returns one of its declared
	// outcomes. Invoke clears the cancelled flag, sets the active flag for
	// the duration of the call, and fails with ErrInvalidOutcome if the
	// concrete execution returns a value outside the outcome set.
	Invoke(bb *blackboard.Blackboard) (string, error)

	// Cancel cooperatively requests cancellation. Concrete variants may
	// fan the signal out to children; nothing here preempts a running
	// invocation.
	Cancel()

	// IsActive reports whether an invocation is currently in flight.
	IsActive() bool

	// IsCancelled reports whether Cancel has been called since the start
	// of the current (or most recent) invocation.
	IsCancelled() bool

	// Outcomes returns the state's fixed, non-empty set of legal outcomes.
	Outcomes() map[string]struct{}

	// String returns a debug label for the state.
	fmt.Stringer
}

// outcomeSet is the fixed, non-empty, order-preserving set of legal outcome
// strings shared by every State variant's construction path.
type outcomeSet struct {
	set   map[string]struct{}
	order []string
}

// newOutcomeSet builds an outcomeSet from outcomes, deduplicating while
// preserving first-seen order. It fails if outcomes is empty: a state with
// no legal outcomes can never return successfully, so this is rejected at
// construction time rather than deferred to first invocation.
func newOutcomeSet(outcomes ...string) (outcomeSet, error) {
	if len(outcomes) == 0 {
		return outcomeSet{}, fmt.Errorf("%w: state must have at least one outcome", ErrInvalidArgument)
	}

	set := make(map[string]struct{}, len(outcomes))
	order := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		if o == "" {
			return outcomeSet{}, fmt.Errorf("%w: outcome name cannot be empty", ErrInvalidArgument)
		}
		if _, dup := set[o]; dup {
			continue
		}
		set[o] = struct{}{}
		order = append(order, o)
	}
	return outcomeSet{set: set, order: order}, nil
}

func (s outcomeSet) has(o string) bool {
	_, ok := s.set[o]
	return ok
}

// snapshot returns a fresh copy of the set, safe for a caller to retain or
// mutate without affecting s.
func (s outcomeSet) snapshot() map[string]struct{} {
	out := make(map[string]struct{}, len(s.set))
	for k := range s.set {
		out[k] = struct{}{}
	}
	return out
}

// lifecycle tracks the active/cancelled flags common to every State
// variant's Invoke wrapper.
type lifecycle struct {
	active    atomic.Bool
	cancelled atomic.Bool
}

func (l *lifecycle) IsActive() bool    { return l.active.Load() }
func (l *lifecycle) IsCancelled() bool { return l.cancelled.Load() }
func (l *lifecycle) Cancel()           { l.cancelled.Store(true) }

// boolFlag is a small atomic flag used outside the active/cancelled
// lifecycle pair, such as Engine's validity cache.
type boolFlag struct {
	v atomic.Bool
}

func (f *boolFlag) get() bool  { return f.v.Load() }
func (f *boolFlag) set(b bool) { f.v.Store(b) }

// invoke implements the generic State.Invoke contract: clear cancelled, set
// active, call execute, validate the returned outcome against outcomes,
// clear active, and return. execute is the variant-specific body
// (CallbackState's stored function, ParallelState's fan-out/aggregate, or
// Engine's run loop).
func invoke(lc *lifecycle, outcomes outcomeSet, label string, execute func() (string, error)) (string, error) {
	lc.cancelled.Store(false)
	lc.active.Store(true)

	outcome, err := execute()
	if err != nil {
		lc.active.Store(false)
		return "", err
	}

	if !outcomes.has(outcome) {
		lc.active.Store(false)
		return "", fmt.Errorf("%w: %q returned by %s", ErrInvalidOutcome, outcome, label)
	}

	lc.active.Store(false)
	return outcome, nil
}
