package statenode

import (
	"math"

	"github.com/m-marini/wheellyj-sub009/internal/bridge"
	"github.com/m-marini/wheellyj-sub009/internal/core"
	"github.com/m-marini/wheellyj-sub009/internal/proc"
)

type mappingPhase int

const (
	phaseRightScanning mappingPhase = iota
	phaseLeftScanning
	phaseTurningRobot
)

// Mapping runs a three-stage micro-FSM within a single node: sweep the
// sensor right (0 -> +90deg), sweep left (0 -> -90deg), then rotate
// the body by TurnAngle and repeat, until the accumulated body
// rotation covers a full turn. A detected label short-circuits the
// whole sweep with the found exit.
type Mapping struct {
	*Base

	StepSize      float64 // sensor sweep step, radians
	MinSamples    int     // samples required per angle before advancing
	TurnAngle     float64 // body rotation per turning_robot stage, radians
	HeadingEps    float64

	phase          mappingPhase
	angle          float64
	samples        int
	totalRotation  float64
	turnTarget     core.Heading
	haveTurnTarget bool
}

func NewMapping(base *Base, stepSize float64, minSamples int, turnAngle, headingEps float64) *Mapping {
	return &Mapping{Base: base, StepSize: stepSize, MinSamples: minSamples, TurnAngle: turnAngle, HeadingEps: headingEps}
}

func (m *Mapping) Entry(ctx *proc.Context) error {
	m.phase = phaseRightScanning
	m.angle = 0
	m.samples = 0
	m.totalRotation = 0
	m.haveTurnTarget = false
	return m.Base.Entry(ctx)
}

func (m *Mapping) Step(ctx *proc.Context) (ExitKey, bridge.RobotCommand) {
	world := ctx.WorldModel()
	status := world.RobotStatus

	if m.TimedOut(ctx) {
		return ExitTimeout, bridge.Halt()
	}
	if key, cmd, blocked := BlockResult(status); blocked {
		return key, cmd
	}
	if len(world.Markers) > 0 {
		return ExitFound, bridge.Halt()
	}

	switch m.phase {
	case phaseRightScanning:
		return m.scanStep(status, m.StepSize, math.Pi/2, phaseLeftScanning)
	case phaseLeftScanning:
		return m.scanStep(status, -m.StepSize, -math.Pi/2, phaseTurningRobot)
	default:
		return m.turnStep(status)
	}
}

func (m *Mapping) scanStep(status core.RobotStatus, step, limit float64, next mappingPhase) (ExitKey, bridge.RobotCommand) {
	target := core.HeadingFromRad(m.angle)
	if status.SensorDirection.IsCloseTo(target, m.HeadingEps) {
		m.samples++
		if m.samples >= m.MinSamples {
			m.samples = 0
			m.angle += step
			if (step > 0 && m.angle > limit+m.HeadingEps) || (step < 0 && m.angle < limit-m.HeadingEps) {
				m.phase = next
				m.angle = 0
			}
		}
	}
	return ExitNone, bridge.Scan(target)
}

func (m *Mapping) turnStep(status core.RobotStatus) (ExitKey, bridge.RobotCommand) {
	if !m.haveTurnTarget {
		m.turnTarget = status.Direction.Add(core.HeadingFromRad(m.TurnAngle))
		m.haveTurnTarget = true
	}
	if status.Direction.IsCloseTo(m.turnTarget, m.HeadingEps) {
		m.totalRotation += m.TurnAngle
		m.haveTurnTarget = false
		m.phase = phaseRightScanning
		m.angle = 0
		m.samples = 0
		if m.totalRotation >= 2*math.Pi-m.HeadingEps {
			return ExitCompleted, bridge.Halt()
		}
		return ExitNone, bridge.Idle()
	}
	return ExitNone, bridge.Move(m.turnTarget, 0)
}
