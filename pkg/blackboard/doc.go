// Package blackboard provides a concurrent, type-checked, string-keyed
// heterogeneous value store — the shared data plane threaded through the
// states of a warren engine (see package msm).
//
// # Overview
//
// A Blackboard maps string keys to values of arbitrary, per-key type. Each
// entry remembers the concrete type it was created with; a later access
// under a different type is rejected rather than silently misinterpreted.
// Each entry carries a reflect.Type tag and the generic accessors compare
// against it directly, rather than relying on an interface-typed value's
// dynamic type alone.
//
// # Core Concepts
//
// Every operation acquires the blackboard's internal mutex, so a Blackboard
// may be read and written concurrently from multiple goroutines — including
// from the concurrent children of a parallel state. Key type identity is
// fixed for the lifetime of an entry: once a key holds a value of type T,
// every subsequent Get/Set/Modify against that key must agree on T or it
// fails with ErrTypeMismatch.
//
// # Usage Example
//
//	bb := blackboard.New()
//
//	if err := blackboard.Set(bb, "attempt", 1); err != nil {
//		log.Fatal(err)
//	}
//
//	if n, ok := blackboard.Get[int](bb, "attempt"); ok {
//		fmt.Println(n) // 1
//	}
//
//	// get<string> against an int-typed key: absent, not a panic.
//	_, ok := blackboard.Get[string](bb, "attempt")
//	fmt.Println(ok) // false
//
//	err := blackboard.Modify(bb, "attempt", func(n *int) { *n++ })
//
// # Design Principles
//
//   - Type Safety: a key is associated with exactly one value type for the
//     lifetime of the entry.
//   - Concurrency Safety: every accessor takes the lock; no method returns
//     a reference into the locked map (see Modify).
//   - Debuggability: Serialize renders every entry as a string, falling
//     back to a stable placeholder for values that don't stringify.
package blackboard
