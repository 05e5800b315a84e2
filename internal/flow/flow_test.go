package flow

import (
	"testing"

	"github.com/m-marini/wheellyj-sub009/internal/statenode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func haltStates(ids ...string) map[string]statenode.StateNode {
	states := make(map[string]statenode.StateNode)
	for _, id := range ids {
		states[id] = statenode.NewHalt(statenode.NewBase(id, 1000, nil, nil, nil), 0, 0, 0, 0)
	}
	return states
}

func TestNewFlowRejectsUnknownEntry(t *testing.T) {
	_, err := NewFlow("missing", haltStates("halt"), nil, nil)
	require.Error(t, err)
}

func TestNewFlowRejectsUnknownTransitionEndpoints(t *testing.T) {
	tr, err := NewTransition("halt", "timeout", "halt2", nil)
	require.NoError(t, err)

	_, err = NewFlow("halt", haltStates("halt"), []Transition{tr}, nil)
	assert.Error(t, err)
}

func TestNewFlowRejectsMalformedTrigger(t *testing.T) {
	_, err := NewTransition("halt", "(", "halt2", nil)
	assert.Error(t, err)
}

func TestFlowMatchFirstWins(t *testing.T) {
	states := haltStates("halt", "halt2", "halt3")
	t1, err := NewTransition("halt", "timeout|completed", "halt2", nil)
	require.NoError(t, err)
	t2, err := NewTransition("halt", "timeout", "halt3", nil)
	require.NoError(t, err)

	f, err := NewFlow("halt", states, []Transition{t1, t2}, nil)
	require.NoError(t, err)

	match, ok := f.match("halt", "timeout")
	require.True(t, ok)
	assert.Equal(t, "halt2", match.ToID)
}

func TestFlowMatchNoTransition(t *testing.T) {
	states := haltStates("halt")
	f, err := NewFlow("halt", states, nil, nil)
	require.NoError(t, err)

	_, ok := f.match("halt", "completed")
	assert.False(t, ok)
}
