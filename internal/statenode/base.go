package statenode

import (
	"github.com/m-marini/wheellyj-sub009/internal/bridge"
	"github.com/m-marini/wheellyj-sub009/internal/core"
	"github.com/m-marini/wheellyj-sub009/internal/proc"
)

// Base is the shared helper embedded by every concrete state node. It
// is composition, not inheritance (§9 design note): it stamps entry
// time, exposes elapsed/timeout, runs the declarative init/entry/exit
// micro-programs, and classifies contact sensor readings into the
// blocked exit family. Concrete nodes call into Base rather than
// override it.
type Base struct {
	id string

	// Timeout is in the units of RobotStatus.SimulationTime; zero or
	// negative disables it.
	Timeout float64

	OnInit  proc.Sequence
	OnEntry proc.Sequence
	OnExit  proc.Sequence

	entryTime float64
	entered   bool
}

// NewBase builds a Base for the named state with the given hook
// programs (any may be nil).
func NewBase(id string, timeout float64, onInit, onEntry, onExit proc.Sequence) *Base {
	return &Base{id: id, Timeout: timeout, OnInit: onInit, OnEntry: onEntry, OnExit: onExit}
}

func (b *Base) ID() string { return b.id }

// Init runs the on_init program. Called once by the agent when it starts.
func (b *Base) Init(ctx *proc.Context) error {
	return proc.Run(b.OnInit, ctx)
}

// Entry stamps entry_time from the latched world model and runs the
// on_entry program. Concrete nodes with additional entry behaviour
// call this first, then layer their own logic on top.
func (b *Base) Entry(ctx *proc.Context) error {
	b.entryTime = ctx.WorldModel().RobotStatus.SimulationTime
	b.entered = true
	return proc.Run(b.OnEntry, ctx)
}

// Exit runs the on_exit program.
func (b *Base) Exit(ctx *proc.Context) error {
	b.entered = false
	return proc.Run(b.OnExit, ctx)
}

// Elapsed returns simulation_time - entry_time for the world model
// latched on ctx. Zero if Entry has not run yet.
func (b *Base) Elapsed(ctx *proc.Context) float64 {
	if !b.entered {
		return 0
	}
	return ctx.WorldModel().RobotStatus.SimulationTime - b.entryTime
}

// TimedOut reports whether Timeout is positive and has elapsed.
func (b *Base) TimedOut(ctx *proc.Context) bool {
	return b.Timeout > 0 && b.Elapsed(ctx) >= b.Timeout
}

// BlockResult classifies the current robot status into a blocked exit
// family, or reports ok=false if contacts are clear. Every node but
// Avoiding defers to this before its own logic (§4.6/§8 halt-on-
// blocked precedence).
func BlockResult(status core.RobotStatus) (key ExitKey, cmd bridge.RobotCommand, ok bool) {
	switch {
	case !status.CanMoveForward && !status.CanMoveBackward:
		return ExitBlocked, bridge.Halt(), true
	case !status.CanMoveForward:
		return ExitFrontBlocked, bridge.Halt(), true
	case !status.CanMoveBackward:
		return ExitRearBlocked, bridge.Halt(), true
	default:
		return ExitNone, bridge.RobotCommand{}, false
	}
}
