// Package bridge defines the controller port the state-machine agent
// drives: the closed RobotCommand variants it may emit, a throttler
// that deduplicates repeated motion commands, and a reference
// in-process controller used by tests and the demo entrypoint.
package bridge

import "github.com/m-marini/wheellyj-sub009/internal/core"

// CommandKind discriminates the closed RobotCommand sum type.
type CommandKind int

const (
	CommandIdle CommandKind = iota
	CommandHalt
	CommandMove
	CommandScan
	CommandMoveAndFrontScan
)

func (k CommandKind) String() string {
	switch k {
	case CommandIdle:
		return "idle"
	case CommandHalt:
		return "halt"
	case CommandMove:
		return "move"
	case CommandScan:
		return "scan"
	case CommandMoveAndFrontScan:
		return "move_and_front_scan"
	default:
		return "unknown"
	}
}

// RobotCommand is the closed set of commands the core may emit. Speed
// is signed pulses-per-second; Heading and ScanAngle are normalised to
// (-pi, pi], with ScanAngle additionally clamped to [-pi/2, pi/2] by
// the constructors below.
type RobotCommand struct {
	Kind      CommandKind
	Heading   core.Heading
	Speed     float64
	ScanAngle core.Heading
}

// Idle is the no-op command: hold position, no motor or sensor action.
func Idle() RobotCommand { return RobotCommand{Kind: CommandIdle} }

// Halt stops the motors immediately.
func Halt() RobotCommand { return RobotCommand{Kind: CommandHalt} }

// Move drives the robot at heading and speed (signed pps).
func Move(heading core.Heading, speed float64) RobotCommand {
	return RobotCommand{Kind: CommandMove, Heading: heading, Speed: speed}
}

// Scan points the proximity sensor at angle, clamped to [-pi/2, pi/2].
func Scan(angle core.Heading) RobotCommand {
	return RobotCommand{Kind: CommandScan, ScanAngle: clampScan(angle)}
}

// MoveAndFrontScan drives the robot while keeping the sensor pointed
// forward, used by behaviours that need an obstacle echo while moving.
func MoveAndFrontScan(heading core.Heading, speed float64) RobotCommand {
	return RobotCommand{Kind: CommandMoveAndFrontScan, Heading: heading, Speed: speed}
}

// headingEps bounds floating error when comparing headings for the
// throttler's "parameters changed" decision.
const headingEps = 1e-9

func clampScan(angle core.Heading) core.Heading {
	const half = 1.5707963267948966 // pi/2
	rad := angle.Rad()
	if rad > half {
		rad = half
	}
	if rad < -half {
		rad = -half
	}
	return core.HeadingFromRad(rad)
}

// sameMotion reports whether two commands carry identical motion
// parameters, which is what the throttler keys its dedupe decision on.
func sameMotion(a, b RobotCommand) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case CommandMove, CommandMoveAndFrontScan:
		return a.Heading.IsCloseTo(b.Heading, headingEps) && a.Speed == b.Speed
	case CommandScan:
		return a.ScanAngle.IsCloseTo(b.ScanAngle, headingEps)
	default:
		return true
	}
}
