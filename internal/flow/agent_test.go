package flow

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m-marini/wheellyj-sub009/internal/bridge"
	"github.com/m-marini/wheellyj-sub009/internal/core"
	"github.com/m-marini/wheellyj-sub009/internal/statenode"
)

// fakeController is a minimal controller port that lets a test drive
// latch/inference ticks directly and records every dispatched command.
type fakeController struct {
	onLatch     func(core.RobotStatus)
	onInference func(core.RobotStatus)
	commands    []bridge.RobotCommand
}

func (f *fakeController) Start() error    { return nil }
func (f *fakeController) Shutdown() error { return nil }

func (f *fakeController) OnLatch(fn func(core.RobotStatus))     { f.onLatch = fn }
func (f *fakeController) OnInference(fn func(core.RobotStatus)) { f.onInference = fn }

func (f *fakeController) Execute(cmd bridge.RobotCommand) error {
	f.commands = append(f.commands, cmd)
	return nil
}

func (f *fakeController) tick(status core.RobotStatus) {
	if f.onLatch != nil {
		f.onLatch(status)
	}
	if f.onInference != nil {
		f.onInference(status)
	}
}

func testTopology() core.GridTopology {
	return core.NewGridTopology(core.Point{X: -5, Y: -5}, 0.2, 50, 50)
}

// TestAgentTimeoutEscape replays spec.md §8 scenario 1: flow
// halt -(timeout)-> halt2, halt.timeout=1000ms. Three statuses at
// t=0,500,1000 must yield exits [none, none, timeout] and a halt
// command dispatched every tick, with the agent ending in halt2.
func TestAgentTimeoutEscape(t *testing.T) {
	halt := statenode.NewHalt(statenode.NewBase("halt", 1000, nil, nil, nil), 0, 0, 0, 0)
	halt2 := statenode.NewHalt(statenode.NewBase("halt2", 0, nil, nil, nil), 0, 0, 0, 0)
	states := map[string]statenode.StateNode{"halt": halt, "halt2": halt2}

	tr, err := NewTransition("halt", "timeout", "halt2", nil)
	require.NoError(t, err)
	f, err := NewFlow("halt", states, []Transition{tr}, nil)
	require.NoError(t, err)

	radar := core.NewRadarMap(testTopology(), 3.0, zerolog.Nop())
	ctrl := &fakeController{}
	var exits []statenode.ExitKey
	agent := NewAgent(f, ctrl, radar, PolarConfig{Sectors: 8, MinDistance: 0.05, MaxDistance: 3}, radar.Clean,
		EventSink{OnExit: func(_ string, exit statenode.ExitKey) { exits = append(exits, exit) }}, zerolog.Nop())

	require.NoError(t, agent.Start())
	assert.Equal(t, "halt", agent.CurrentStateID())

	status := func(simTime float64) core.RobotStatus {
		return core.RobotStatus{SimulationTime: simTime, CanMoveForward: true, CanMoveBackward: true}
	}

	ctrl.tick(status(0))
	ctrl.tick(status(500))
	ctrl.tick(status(1000))

	require.Len(t, exits, 3)
	assert.Equal(t, []statenode.ExitKey{statenode.ExitNone, statenode.ExitNone, statenode.ExitTimeout}, exits)
	assert.Equal(t, "halt2", agent.CurrentStateID())

	require.Len(t, ctrl.commands, 3)
	for _, cmd := range ctrl.commands {
		assert.Equal(t, bridge.CommandHalt, cmd.Kind)
	}
}

// TestAgentNoMatchingTransitionStaysPut covers the "no transition
// matches" branch of §4.8: the agent logs and continues in the same
// state rather than failing.
func TestAgentNoMatchingTransitionStaysPut(t *testing.T) {
	halt := statenode.NewHalt(statenode.NewBase("halt", 1000, nil, nil, nil), 0, 0, 0, 0)
	states := map[string]statenode.StateNode{"halt": halt}
	f, err := NewFlow("halt", states, nil, nil)
	require.NoError(t, err)

	radar := core.NewRadarMap(testTopology(), 3.0, zerolog.Nop())
	ctrl := &fakeController{}
	agent := NewAgent(f, ctrl, radar, PolarConfig{Sectors: 8, MinDistance: 0.05, MaxDistance: 3}, radar.Clean, EventSink{}, zerolog.Nop())

	require.NoError(t, agent.Start())
	ctrl.tick(core.RobotStatus{SimulationTime: 2000, CanMoveForward: true, CanMoveBackward: true})

	assert.Equal(t, "halt", agent.CurrentStateID())
}

// TestAgentStateChangedObservationFires checks the context's
// state-changed side effect (§4.1) is wired through to the agent's
// event sink across a transition.
func TestAgentStateChangedObservationFires(t *testing.T) {
	halt := statenode.NewHalt(statenode.NewBase("halt", 100, nil, nil, nil), 0, 0, 0, 0)
	halt2 := statenode.NewHalt(statenode.NewBase("halt2", 0, nil, nil, nil), 0, 0, 0, 0)
	states := map[string]statenode.StateNode{"halt": halt, "halt2": halt2}
	tr, err := NewTransition("halt", "timeout", "halt2", nil)
	require.NoError(t, err)
	f, err := NewFlow("halt", states, []Transition{tr}, nil)
	require.NoError(t, err)

	radar := core.NewRadarMap(testTopology(), 3.0, zerolog.Nop())
	ctrl := &fakeController{}
	var changed []string
	agent := NewAgent(f, ctrl, radar, PolarConfig{Sectors: 8, MinDistance: 0.05, MaxDistance: 3}, radar.Clean,
		EventSink{OnStateChanged: func(id string) { changed = append(changed, id) }}, zerolog.Nop())

	require.NoError(t, agent.Start())
	ctrl.tick(core.RobotStatus{SimulationTime: 200, CanMoveForward: true, CanMoveBackward: true})

	assert.Equal(t, []string{"halt", "halt2"}, changed)
}
