package msm

import "errors"

// Error kinds raised by this package. Callers should use errors.Is against
// these sentinels rather than matching on error text — every error this
// package raises itself wraps one of these with fmt.Errorf("%w: ...", ...).
// Errors returned by a state body are passed through, not wrapped in a
// sentinel.
var (
	// ErrInvalidArgument is raised by Engine registration on malformed
	// transitions or unknown state names.
	ErrInvalidArgument = errors.New("msm: invalid argument")

	// ErrNotConfigured is raised when a CallbackState is invoked with no
	// function set.
	ErrNotConfigured = errors.New("msm: callback function not configured")

	// ErrInvalidOutcome is raised by State.Invoke when execute returns a
	// value outside the state's declared outcome set.
	ErrInvalidOutcome = errors.New("msm: invalid outcome")

	// ErrUnhandledOutcome is raised by Engine.Execute when a state's
	// outcome has no transition and is not one of the Engine's own
	// outcomes.
	ErrUnhandledOutcome = errors.New("msm: unhandled outcome")

	// ErrValidationError is raised by Engine.Validate when the transition
	// graph is malformed.
	ErrValidationError = errors.New("msm: validation error")

	// ErrAmbiguousOutcome is raised by ParallelState.Invoke when more
	// than one outcome predicate is satisfied by the same round of child
	// outcomes.
	ErrAmbiguousOutcome = errors.New("msm: ambiguous parallel outcome")

	// ErrCallbackError is raised when a user-supplied Engine callback
	// (start, transition, or end) returns an error; the error surfaced to
	// the caller of Execute wraps this sentinel and carries the original
	// error's message.
	ErrCallbackError = errors.New("msm: callback error")
)
