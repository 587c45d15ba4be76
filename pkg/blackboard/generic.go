package blackboard

import (
	"fmt"
	"reflect"
)

// Get returns the value stored at key if it exists and was stored with type
// T, and true. If key is absent, or the stored entry's type is not T, it
// returns the zero value of T and false — a type mismatch on Get is never
// an error: only Set and Modify reject a type disagreement.
func Get[T any](b *Blackboard, key string) (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var zero T
	e, ok := b.entries[key]
	if !ok {
		return zero, false
	}
	if e.typ != reflect.TypeOf((*T)(nil)).Elem() {
		return zero, false
	}

	v, ok := e.value.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// Set stores value at key. If key is absent, a new typed entry is created.
// If key is present and was created with type T, the value is overwritten.
// If key is present with a different type, Set fails with ErrTypeMismatch
// and the blackboard is left unchanged.
func Set[T any](b *Blackboard, key string, value T) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	wantType := reflect.TypeOf(value)

	e, ok := b.entries[key]
	if ok && e.typ != wantType {
		return fmt.Errorf("%w: key %q holds %s, cannot set %s", ErrTypeMismatch, key, e.typ, wantType)
	}

	b.entries[key] = &entry{value: value, typ: wantType}
	return nil
}

// Modify runs fn against the value stored at key while the blackboard's lock
// is held, then stores fn's result back. If key is absent, a zero-valued
// entry of type T is created first. If key is present with a type other
// than T, Modify fails with ErrTypeMismatch and fn is never called.
//
// Modify exists instead of a method that returns a live reference into the
// map: a reference that outlives the lock is unsafe once the lock is
// released, so the mutation itself runs under the lock instead. Because the
// lock is held while fn runs, fn must not call back into the same
// Blackboard.
func Modify[T any](b *Blackboard, key string, fn func(*T)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	wantType := reflect.TypeOf((*T)(nil)).Elem()

	e, ok := b.entries[key]
	if !ok {
		var zero T
		e = &entry{value: zero, typ: wantType}
	} else if e.typ != wantType {
		return fmt.Errorf("%w: key %q holds %s, cannot modify as %s", ErrTypeMismatch, key, e.typ, wantType)
	}

	v := e.value.(T)
	fn(&v)

	b.entries[key] = &entry{value: v, typ: wantType}
	return nil
}
