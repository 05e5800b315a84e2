package statenode

import (
	"github.com/m-marini/wheellyj-sub009/internal/bridge"
	"github.com/m-marini/wheellyj-sub009/internal/proc"
)

// ClearMap drops every non-unknown radar cell and completes
// immediately.
type ClearMap struct {
	*Base
}

func NewClearMap(base *Base) *ClearMap { return &ClearMap{Base: base} }

func (c *ClearMap) Step(ctx *proc.Context) (ExitKey, bridge.RobotCommand) {
	ctx.ClearMap()
	return ExitCompleted, bridge.Halt()
}
