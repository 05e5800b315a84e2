package bridge

import "github.com/m-marini/wheellyj-sub009/internal/core"

// Controller is the upstream port to the robot firmware: lifecycle,
// subscribable event streams, the two tick hooks the agent registers
// once, and the single command sink. Implementations (real firmware
// link, or the in-process SimController used by tests) must serialise
// callback delivery so on_latch and on_inference are never called
// concurrently with each other or with Execute.
type Controller interface {
	Start() error
	Shutdown() error

	// OnLatch registers the callback invoked when a status snapshot is
	// latched for the upcoming inference. Only one callback may be
	// registered; a later call replaces the former.
	OnLatch(func(core.RobotStatus))

	// OnInference registers the callback invoked once per reaction
	// tick, after latch, to run the active state's step.
	OnInference(func(core.RobotStatus))

	// Execute submits a command for the port to act on. Must be safe
	// to call from the dispatch task only; the port itself may forward
	// to hardware from another goroutine.
	Execute(RobotCommand) error
}
