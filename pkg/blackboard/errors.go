package blackboard

import "errors"

// ErrTypeMismatch is returned when a typed access (Get, Set, Modify)
// disagrees with the type an entry was originally created with.
var ErrTypeMismatch = errors.New("blackboard: type mismatch")
