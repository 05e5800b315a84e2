package statenode

import (
	"github.com/m-marini/wheellyj-sub009/internal/bridge"
	"github.com/m-marini/wheellyj-sub009/internal/proc"
)

// StateNode is the capability contract every behaviour implements.
// Init runs once when the agent starts, Entry/Exit bracket each
// activation of the node within a run, and Step runs once per
// reaction while the node is active. None of these may panic: a
// failure inside a micro-command program is reported to the caller as
// an error and otherwise treated as a no-op for that hook.
type StateNode interface {
	ID() string
	Init(ctx *proc.Context) error
	Entry(ctx *proc.Context) error
	Exit(ctx *proc.Context) error
	Step(ctx *proc.Context) (ExitKey, bridge.RobotCommand)
}
