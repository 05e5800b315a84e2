package bridge

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/m-marini/wheellyj-sub009/internal/core"
)

// Throttler deduplicates repeated motion commands: a move or scan is
// re-sent to the wrapped controller only after Interval has elapsed
// since the last send with the same kind, or when its motion
// parameters change. Halt and idle are never throttled — every call
// carrying one is forwarded, repeated or not.
//
// Clock is injectable (benbjohnson/clock) so tests can advance time
// deterministically instead of sleeping.
type Throttler struct {
	Interval time.Duration
	Clock    clock.Clock

	next     Controller
	lastCmd  RobotCommand
	lastSent time.Time
	hasSent  bool
}

// NewThrottler wraps next, deduplicating move/scan commands closer
// together than interval unless their parameters differ.
func NewThrottler(next Controller, interval time.Duration, clk clock.Clock) *Throttler {
	if clk == nil {
		clk = clock.New()
	}
	return &Throttler{Interval: interval, Clock: clk, next: next}
}

// Execute forwards cmd to the wrapped controller, unless it is a
// move/scan/move_and_front_scan that matches the last sent command's
// kind and parameters and falls within Interval of the last send.
func (t *Throttler) Execute(cmd RobotCommand) error {
	if t.shouldSend(cmd) {
		if err := t.next.Execute(cmd); err != nil {
			return err
		}
		t.lastCmd = cmd
		t.lastSent = t.Clock.Now()
		t.hasSent = true
	}
	return nil
}

func (t *Throttler) shouldSend(cmd RobotCommand) bool {
	switch cmd.Kind {
	case CommandHalt, CommandIdle:
		return true
	}
	if !t.hasSent {
		return true
	}
	if !sameMotion(t.lastCmd, cmd) {
		return true
	}
	return t.Clock.Now().Sub(t.lastSent) >= t.Interval
}

func (t *Throttler) Start() error    { return t.next.Start() }
func (t *Throttler) Shutdown() error { return t.next.Shutdown() }

func (t *Throttler) OnLatch(f func(core.RobotStatus))     { t.next.OnLatch(f) }
func (t *Throttler) OnInference(f func(core.RobotStatus)) { t.next.OnInference(f) }
