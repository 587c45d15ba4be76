package msm

import (
	"fmt"

	"github.com/ardenhq/warren/pkg/blackboard"
)

// CallbackFunc is the body of a CallbackState: a plain function from the
// shared blackboard to an outcome string.
type CallbackFunc func(bb *blackboard.Blackboard) (string, error)

// CallbackState is the trivial leaf State: it delegates execution to a
// stored CallbackFunc.
type CallbackState struct {
	lifecycle
	outcomes outcomeSet
	fn       CallbackFunc
	label    string
}

// NewCallbackState returns a CallbackState that runs fn and validates its
// result against outcomes. fn may be nil; invoking a CallbackState with no
// function fails with ErrNotConfigured.
func NewCallbackState(fn CallbackFunc, outcomes ...string) (*CallbackState, error) {
	os, err := newOutcomeSet(outcomes...)
	if err != nil {
		return nil, err
	}
	return &CallbackState{outcomes: os, fn: fn, label: "CallbackState"}, nil
}

// SetLabel overrides the debug label returned by String.
func (c *CallbackState) SetLabel(label string) { c.label = label }

// Invoke implements State.
func (c *CallbackState) Invoke(bb *blackboard.Blackboard) (string, error) {
	return invoke(&c.lifecycle, c.outcomes, c.label, func() (string, error) {
		return c.execute(bb)
	})
}

func (c *CallbackState) execute(bb *blackboard.Blackboard) (string, error) {
	if c.fn == nil {
		return "", fmt.Errorf("%w: %s has no callback function", ErrNotConfigured, c.label)
	}
	return c.fn(bb)
}

// Outcomes implements State.
func (c *CallbackState) Outcomes() map[string]struct{} { return c.outcomes.snapshot() }

// String implements State.
func (c *CallbackState) String() string { return c.label }
