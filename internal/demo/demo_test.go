package demo

import (
	"testing"

	"github.com/ardenhq/warren/pkg/blackboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_FindsRegisteredScenario(t *testing.T) {
	s, ok := Lookup("pipeline")
	require.True(t, ok)
	assert.Equal(t, "pipeline", s.Name)
}

func TestLookup_UnknownNameFails(t *testing.T) {
	_, ok := Lookup("does-not-exist")
	assert.False(t, ok)
}

func TestPipeline_HappyPathFulfills(t *testing.T) {
	e, bb, err := buildPipeline()
	require.NoError(t, err)

	outcome, err := e.Execute(bb)
	require.NoError(t, err)
	assert.Equal(t, "fulfilled", outcome)
}

func TestPipeline_ZeroTotalIsRejected(t *testing.T) {
	e, bb, err := buildPipeline()
	require.NoError(t, err)
	require.NoError(t, blackboard.Set(bb, "order_total", 0.0))

	outcome, err := e.Execute(bb)
	require.NoError(t, err)
	assert.Equal(t, "rejected", outcome)
}

func TestApproval_BothApprovedFulfills(t *testing.T) {
	e, bb, err := buildApproval()
	require.NoError(t, err)

	outcome, err := e.Execute(bb)
	require.NoError(t, err)
	assert.Equal(t, "fulfilled", outcome)
}

func TestApproval_OneRejectedHolds(t *testing.T) {
	e, bb, err := buildApproval()
	require.NoError(t, err)
	require.NoError(t, blackboard.Set(bb, "stock_ok", false))

	outcome, err := e.Execute(bb)
	require.NoError(t, err)
	assert.Equal(t, "held", outcome)
}

func TestNested_WrapsPipelineEngineAsState(t *testing.T) {
	e, bb, err := buildNested()
	require.NoError(t, err)

	outcome, err := e.Execute(bb)
	require.NoError(t, err)
	assert.Equal(t, "closed", outcome)
}

func TestNested_RejectedPipelineCancelsOuterRun(t *testing.T) {
	e, bb, err := buildNested()
	require.NoError(t, err)
	require.NoError(t, blackboard.Set(bb, "order_total", -5.0))

	outcome, err := e.Execute(bb)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", outcome)
}

func TestNames_ListsEveryScenario(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "pipeline")
	assert.Contains(t, names, "approval")
	assert.Contains(t, names, "nested")
}

func TestMustLookup_PanicsOnUnknownName(t *testing.T) {
	assert.Panics(t, func() {
		MustLookup("no-such-scenario")
	})
}
