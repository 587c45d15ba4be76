// Package demo provides hand-written sample engines exercising the warren
// core, used by cmd/warren and as runnable documentation of the library.
package demo

import (
	"fmt"

	"github.com/ardenhq/warren/pkg/blackboard"
	"github.com/ardenhq/warren/pkg/msm"
)

// Scenario is a named, self-contained demo machine.
type Scenario struct {
	Name        string
	Description string
	Build       func() (*msm.Engine, *blackboard.Blackboard, error)
}

// Scenarios lists every demo scenario, in the order they should be offered
// to a CLI user.
var Scenarios = []Scenario{
	{Name: "pipeline", Description: "linear three-stage order pipeline", Build: buildPipeline},
	{Name: "approval", Description: "parallel budget/stock checks gated by agreement", Build: buildApproval},
	{Name: "nested", Description: "an engine nested as a state of an outer engine", Build: buildNested},
}

// Lookup returns the named Scenario, or false if no scenario has that
// name.
func Lookup(name string) (Scenario, bool) {
	for _, s := range Scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

// buildPipeline builds a three-state order pipeline: validate, charge,
// ship. Any stage can fail and routes straight to "rejected".
func buildPipeline() (*msm.Engine, *blackboard.Blackboard, error) {
	bb := blackboard.New()
	if err := blackboard.Set(bb, "order_total", 42.50); err != nil {
		return nil, nil, err
	}

	validate, err := msm.NewCallbackState(func(bb *blackboard.Blackboard) (string, error) {
		total, ok := blackboard.Get[float64](bb, "order_total")
		if !ok || total <= 0 {
			return "rejected", nil
		}
		return "valid", nil
	}, "valid", "rejected")
	if err != nil {
		return nil, nil, err
	}
	validate.SetLabel("Validate")

	charge, err := msm.NewCallbackState(func(bb *blackboard.Blackboard) (string, error) {
		return "charged", nil
	}, "charged", "rejected")
	if err != nil {
		return nil, nil, err
	}
	charge.SetLabel("Charge")

	ship, err := msm.NewCallbackState(func(bb *blackboard.Blackboard) (string, error) {
		return "shipped", nil
	}, "shipped", "rejected")
	if err != nil {
		return nil, nil, err
	}
	ship.SetLabel("Ship")

	e, err := msm.NewEngine("fulfilled", "rejected")
	if err != nil {
		return nil, nil, err
	}
	e.SetLabel("OrderPipeline")

	if err := e.AddState("validate", validate, map[string]string{"valid": "charge", "rejected": "rejected"}); err != nil {
		return nil, nil, err
	}
	if err := e.AddState("charge", charge, map[string]string{"charged": "ship", "rejected": "rejected"}); err != nil {
		return nil, nil, err
	}
	if err := e.AddState("ship", ship, map[string]string{"shipped": "fulfilled", "rejected": "rejected"}); err != nil {
		return nil, nil, err
	}

	return e, bb, nil
}

// buildApproval builds a single parallel state that runs a budget check and
// a stock check concurrently; the order fulfills only if both agree.
func buildApproval() (*msm.Engine, *blackboard.Blackboard, error) {
	bb := blackboard.New()
	if err := blackboard.Set(bb, "budget_ok", true); err != nil {
		return nil, nil, err
	}
	if err := blackboard.Set(bb, "stock_ok", true); err != nil {
		return nil, nil, err
	}

	budgetCheck, err := msm.NewCallbackState(func(bb *blackboard.Blackboard) (string, error) {
		ok, _ := blackboard.Get[bool](bb, "budget_ok")
		if ok {
			return "approved", nil
		}
		return "rejected", nil
	}, "approved", "rejected")
	if err != nil {
		return nil, nil, err
	}
	budgetCheck.SetLabel("BudgetCheck")

	stockCheck, err := msm.NewCallbackState(func(bb *blackboard.Blackboard) (string, error) {
		ok, _ := blackboard.Get[bool](bb, "stock_ok")
		if ok {
			return "approved", nil
		}
		return "rejected", nil
	}, "approved", "rejected")
	if err != nil {
		return nil, nil, err
	}
	stockCheck.SetLabel("StockCheck")

	approval, err := msm.NewParallelState("held", map[string]msm.Predicate{
		"both-approved": {budgetCheck: "approved", stockCheck: "approved"},
	}, budgetCheck, stockCheck)
	if err != nil {
		return nil, nil, err
	}
	approval.SetLabel("Approval")

	e, err := msm.NewEngine("fulfilled", "held")
	if err != nil {
		return nil, nil, err
	}
	e.SetLabel("ApprovalGate")

	if err := e.AddState("approval", approval, map[string]string{
		"both-approved": "fulfilled",
		"held":          "held",
	}); err != nil {
		return nil, nil, err
	}

	return e, bb, nil
}

// buildNested wraps the pipeline scenario's engine as a single state of an
// outer engine, demonstrating that Engine itself implements State.
func buildNested() (*msm.Engine, *blackboard.Blackboard, error) {
	inner, bb, err := buildPipeline()
	if err != nil {
		return nil, nil, err
	}
	inner.SetLabel("InnerPipeline")

	audit, err := msm.NewCallbackState(func(bb *blackboard.Blackboard) (string, error) {
		return "audited", nil
	}, "audited")
	if err != nil {
		return nil, nil, err
	}
	audit.SetLabel("Audit")

	outer, err := msm.NewEngine("closed", "cancelled")
	if err != nil {
		return nil, nil, err
	}
	outer.SetLabel("OuterWorkflow")

	if err := outer.AddState("pipeline", inner, map[string]string{
		"fulfilled": "audit",
		"rejected":  "cancelled",
	}); err != nil {
		return nil, nil, err
	}
	if err := outer.AddState("audit", audit, map[string]string{"audited": "closed"}); err != nil {
		return nil, nil, err
	}

	return outer, bb, nil
}

// Names returns the names of every registered scenario, for CLI help text.
func Names() []string {
	names := make([]string, len(Scenarios))
	for i, s := range Scenarios {
		names[i] = s.Name
	}
	return names
}

// MustLookup is Lookup, panicking if name is unknown.
func MustLookup(name string) Scenario {
	s, ok := Lookup(name)
	if !ok {
		panic(fmt.Sprintf("demo: unknown scenario %q", name))
	}
	return s
}
