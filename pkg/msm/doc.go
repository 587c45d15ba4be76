// Package msm implements a hierarchical state-machine (HSM) engine with
// parallel composition over a shared blackboard (package
// github.com/ardenhq/warren/pkg/blackboard).
//
// # Overview
//
// A State is anything with a fixed, non-empty set of legal outcomes and an
// Invoke method that must return one of them. CallbackState wraps a plain
// function as a leaf state. ParallelState runs a set of child states
// concurrently and aggregates their outcomes through a predicate table.
// Engine drives a directed graph of named States, routing each one's
// outcome to a successor by name until an outcome falls outside the graph
// — at which point that outcome becomes the Engine's own outcome. Because
// Engine itself implements State, an Engine can be nested as a state of an
// outer Engine without any special-casing.
//
// # Usage Example
//
//	bb := blackboard.New()
//
//	a, _ := msm.NewCallbackState(
//		func(bb *blackboard.Blackboard) (string, error) { return "done", nil },
//		"done",
//	)
//	b, _ := msm.NewCallbackState(
//		func(bb *blackboard.Blackboard) (string, error) { return "fail", nil },
//		"done", "fail",
//	)
//
//	e, _ := msm.NewEngine("ok", "err")
//	e.AddState("A", a, map[string]string{"done": "B"})
//	e.AddState("B", b, map[string]string{"done": "ok", "fail": "err"})
//
//	outcome, err := e.Execute(bb)
//	// outcome == "err"
//
// # Design Principles
//
//   - Composition by interface, not inheritance: State is satisfied by
//     leaf, callback, parallel, and engine variants; Engine holds no
//     fields inherited from a common base.
//   - Name indirection: transitions refer to states by name, so the graph
//     may contain cycles without any special resource-management code.
//   - Cooperative cancellation: Cancel sets a flag observed at the next
//     safe point (between an Engine's steps, or by a leaf state body that
//     chooses to poll it); nothing here preempts a running state.
package msm
