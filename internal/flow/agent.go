package flow

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/m-marini/wheellyj-sub009/internal/bridge"
	"github.com/m-marini/wheellyj-sub009/internal/core"
	"github.com/m-marini/wheellyj-sub009/internal/proc"
	"github.com/m-marini/wheellyj-sub009/internal/statenode"
)

// PolarConfig parameterises the polar map derived fresh at every
// inference (spec.md §4.4).
type PolarConfig struct {
	Sectors     int
	MinDistance float64
	MaxDistance float64
}

// EventSink receives the agent's observable events: every exit key
// produced by a Step (the "trigger stream"), every state-changed and
// target-changed observation from the context, and every recoverable
// error surfaced per spec.md §7. Any field may be nil.
type EventSink struct {
	OnExit          func(stateID string, exit statenode.ExitKey)
	OnStateChanged  func(stateID string)
	OnTargetChanged func(target *core.Point)
	OnError         func(err error)
}

// Agent orchestrates one state-flow run: it owns the radar map, holds
// the flow graph and its processor context, and drives one reaction
// step per inference event delivered by the controller port. Per
// spec.md §5, all of its methods run on the single dispatch task the
// controller serialises callbacks onto — the agent itself does no
// internal locking.
type Agent struct {
	RunID uuid.UUID

	flow       *Flow
	ctx        *proc.Context
	controller bridge.Controller
	radar      *core.RadarMap
	polar      PolarConfig
	markers    []core.LabelMarker
	sink       EventSink
	log        zerolog.Logger

	current statenode.StateNode
}

// NewAgent builds an Agent bound to flow, driven by controller, over
// radar. clearMap is invoked by the ClearMap state node via the
// context; it is typically radar.Clean.
func NewAgent(flow *Flow, controller bridge.Controller, radar *core.RadarMap, polar PolarConfig, clearMap func(), sink EventSink, logger zerolog.Logger) *Agent {
	runID := uuid.New()
	a := &Agent{
		RunID:      runID,
		flow:       flow,
		controller: controller,
		radar:      radar,
		polar:      polar,
		sink:       sink,
		log:        logger.With().Str("run_id", runID.String()).Logger(),
	}
	a.ctx = proc.NewContext(clearMap, proc.Observer{
		OnTargetChanged: func(target *core.Point) {
			if sink.OnTargetChanged != nil {
				sink.OnTargetChanged(target)
			}
		},
		OnStateChanged: func(stateID string) {
			if sink.OnStateChanged != nil {
				sink.OnStateChanged(stateID)
			}
		},
	})
	return a
}

// SetMarkers replaces the label markers exposed to the next inference's
// world model. Markers are an upstream perception concern (spec.md §3);
// the agent only threads them through.
func (a *Agent) SetMarkers(markers []core.LabelMarker) {
	a.markers = markers
}

// Context exposes the agent's processor context, mainly for tests that
// want to inspect published keys after a run.
func (a *Agent) Context() *proc.Context { return a.ctx }

// CurrentStateID returns the id of the currently active state node, or
// "" before Start has run.
func (a *Agent) CurrentStateID() string {
	if a.current == nil {
		return ""
	}
	return a.current.ID()
}

// Start runs the flow's on_init program, initialises every state node
// once, enters the entry state, registers the tick hooks on the
// controller port and starts it. Init/entry failures are configuration
// or command errors per spec.md §7 and are surfaced via the error
// sink rather than aborting the run — the agent still starts at the
// entry state.
func (a *Agent) Start() error {
	if err := proc.Run(a.flow.OnInit, a.ctx); err != nil {
		a.reportError(err)
	}
	for _, node := range a.flow.States {
		if err := node.Init(a.ctx); err != nil {
			a.reportError(err)
		}
	}

	a.current = a.flow.States[a.flow.EntryID]
	a.ctx.SetStateID(a.current.ID())
	if err := a.current.Entry(a.ctx); err != nil {
		a.reportError(err)
	}

	a.controller.OnLatch(a.handleLatch)
	a.controller.OnInference(a.handleInference)
	return a.controller.Start()
}

// Shutdown runs the current state's exit hook and stops the
// controller. Per spec.md §5, no further Step runs once shutdown has
// been signalled.
func (a *Agent) Shutdown() error {
	if a.current != nil {
		if err := a.current.Exit(a.ctx); err != nil {
			a.reportError(err)
		}
	}
	return a.controller.Shutdown()
}

// handleLatch updates the radar map from the freshly latched status
// and is registered as the controller's on_latch callback. Per §5,
// every status update with time <= latch(t) must be applied before
// inference(t) runs; since the controller serialises latch strictly
// before the matching inference, a synchronous update here satisfies
// that ordering guarantee.
func (a *Agent) handleLatch(status core.RobotStatus) {
	beam := status.Direction.Add(status.SensorDirection)
	a.radar.Update(core.ProxyMessage{
		Time:            status.SimulationTime,
		SensorOrigin:    status.Location,
		SensorDirection: beam,
		EchoDistance:    status.EchoDistance,
	})
}

// handleInference runs exactly the dispatch sequence of spec.md §4.8:
// derive the polar map, latch the world model, run the active state's
// Step, dispatch its command, publish the exit, and follow a matching
// transition if the exit is not "none".
func (a *Agent) handleInference(status core.RobotStatus) {
	polarMap := core.ComputePolarMap(a.radar, status.Location, a.polar.Sectors, a.polar.MinDistance, a.polar.MaxDistance)
	a.ctx.SetWorldModel(core.WorldModel{
		RobotStatus: status,
		RadarMap:    a.radar,
		PolarMap:    polarMap,
		Markers:     a.markers,
	})

	fromID := a.current.ID()
	exit, cmd := a.current.Step(a.ctx)

	if err := a.controller.Execute(cmd); err != nil {
		a.reportError(err)
	}
	if a.sink.OnExit != nil {
		a.sink.OnExit(fromID, exit)
	}

	if exit == statenode.ExitNone {
		return
	}

	t, ok := a.flow.match(fromID, exit.String())
	if !ok {
		a.log.Warn().Str("state", fromID).Str("exit", exit.String()).Msg("no matching transition")
		return
	}

	if err := a.current.Exit(a.ctx); err != nil {
		a.reportError(err)
	}
	if err := proc.Run(t.OnTransition, a.ctx); err != nil {
		a.reportError(err)
	}
	a.current = a.flow.States[t.ToID]
	if err := a.current.Entry(a.ctx); err != nil {
		a.reportError(err)
	}
	a.ctx.SetStateID(a.current.ID())
}

func (a *Agent) reportError(err error) {
	a.log.Warn().Err(err).Msg("command error")
	if a.sink.OnError != nil {
		a.sink.OnError(err)
	}
}
