package msm

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ardenhq/warren/pkg/blackboard"
)

// Predicate maps a child State to the outcome it must have returned for the
// predicate to be satisfied.
type Predicate map[State]string

// ParallelState runs a fixed set of children concurrently and aggregates
// their outcomes through an outcome-predicate table. Its own outcome set is
// {DefaultOutcome} ∪ keys(predicates).
type ParallelState struct {
	lifecycle
	outcomes outcomeSet
	label    string

	children       map[State]struct{}
	defaultOutcome string
	predicates     map[string]Predicate // outcome -> (child -> expected child outcome)

	intermediateMu sync.Mutex
	intermediate   map[State]string // child -> last actual outcome
}

// NewParallelState builds a ParallelState over children, aggregating their
// outcomes through predicates into defaultOutcome or one of predicates'
// keys. Construction fails (ErrInvalidArgument) if:
//
//   - a predicate references a child not present in children
//   - a predicate's expected outcome is not legal for that child
//
// Both checks run eagerly here rather than being deferred to first Invoke.
func NewParallelState(defaultOutcome string, predicates map[string]Predicate, children ...State) (*ParallelState, error) {
	if defaultOutcome == "" {
		return nil, fmt.Errorf("%w: parallel state default outcome cannot be empty", ErrInvalidArgument)
	}
	if len(children) == 0 {
		return nil, fmt.Errorf("%w: parallel state must have at least one child", ErrInvalidArgument)
	}

	childSet := make(map[State]struct{}, len(children))
	for _, c := range children {
		childSet[c] = struct{}{}
	}

	outcomeNames := make([]string, 0, len(predicates)+1)
	outcomeNames = append(outcomeNames, defaultOutcome)
	for outcome, prereqs := range predicates {
		outcomeNames = append(outcomeNames, outcome)
		for child, expected := range prereqs {
			if _, ok := childSet[child]; !ok {
				return nil, fmt.Errorf("%w: predicate %q references a state not in children: %s", ErrInvalidArgument, outcome, child)
			}
			if _, legal := child.Outcomes()[expected]; !legal {
				return nil, fmt.Errorf("%w: predicate %q expects outcome %q from %s, which is not one of its outcomes", ErrInvalidArgument, outcome, expected, child)
			}
		}
	}

	os, err := newOutcomeSet(outcomeNames...)
	if err != nil {
		return nil, err
	}

	intermediate := make(map[State]string, len(children))
	for _, c := range children {
		intermediate[c] = ""
	}

	return &ParallelState{
		outcomes:       os,
		label:          "ParallelState",
		children:       childSet,
		defaultOutcome: defaultOutcome,
		predicates:     predicates,
		intermediate:   intermediate,
	}, nil
}

// SetLabel overrides the debug label returned by String.
func (p *ParallelState) SetLabel(label string) { p.label = label }

// Invoke implements State.
func (p *ParallelState) Invoke(bb *blackboard.Blackboard) (string, error) {
	return invoke(&p.lifecycle, p.outcomes, p.label, func() (string, error) {
		return p.execute(bb)
	})
}

// execute runs every child concurrently, joins on a barrier, and aggregates
// their outcomes.
func (p *ParallelState) execute(bb *blackboard.Blackboard) (string, error) {
	p.cancelled.Store(false)

	var wg sync.WaitGroup
	var errMu sync.Mutex
	var errs []error

	for child := range p.children {
		wg.Add(1)
		go func(child State) {
			defer wg.Done()

			outcome, err := child.Invoke(bb)
			if err != nil {
				errMu.Lock()
				errs = append(errs, fmt.Errorf("child %s: %w", child, err))
				errMu.Unlock()
				return
			}

			p.intermediateMu.Lock()
			p.intermediate[child] = outcome
			p.intermediateMu.Unlock()
		}(child)
	}

	wg.Wait()

	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}

	if p.cancelled.Load() {
		return p.defaultOutcome, nil
	}

	return p.aggregate()
}

// aggregate computes the satisfied set from the most recent round of
// intermediate outcomes and resolves it to a single outcome.
func (p *ParallelState) aggregate() (string, error) {
	p.intermediateMu.Lock()
	snapshot := make(map[State]string, len(p.intermediate))
	for child, outcome := range p.intermediate {
		snapshot[child] = outcome
	}
	p.intermediateMu.Unlock()

	var satisfied []string
	for outcome, prereqs := range p.predicates {
		allMet := true
		for child, expected := range prereqs {
			if snapshot[child] != expected {
				allMet = false
				break
			}
		}
		if allMet {
			satisfied = append(satisfied, outcome)
		}
	}

	switch len(satisfied) {
	case 0:
		return p.defaultOutcome, nil
	case 1:
		return satisfied[0], nil
	default:
		sort.Strings(satisfied)
		return "", fmt.Errorf("%w: %s satisfied by the same round of child outcomes", ErrAmbiguousOutcome, strings.Join(satisfied, ", "))
	}
}

// Cancel fans the cancellation signal out to every child before setting its
// own flag. Cancellation is cooperative: execute still joins on every
// child.
func (p *ParallelState) Cancel() {
	for child := range p.children {
		child.Cancel()
	}
	p.lifecycle.Cancel()
}

// Outcomes implements State.
func (p *ParallelState) Outcomes() map[string]struct{} { return p.outcomes.snapshot() }

// String implements State.
func (p *ParallelState) String() string {
	return fmt.Sprintf("%s(children=%d, default=%s)", p.label, len(p.children), p.defaultOutcome)
}
