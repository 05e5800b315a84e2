package bridge

import (
	"math"
	"sync"

	"github.com/m-marini/wheellyj-sub009/internal/core"
)

// Obstacle is a circular hindrance in the simulated workspace, used by
// SimController to synthesise echo distances for the proximity sensor.
type Obstacle struct {
	Center core.Point
	Radius float64
}

// SimConfig configures a SimController run.
type SimConfig struct {
	// TimeStep is the simulated seconds advanced per Tick.
	TimeStep float64

	// MaxEchoDistance caps the synthesised proximity reading when no
	// obstacle lies along the sensor ray.
	MaxEchoDistance float64

	// ContactRadius is the robot footprint radius used to decide
	// CanMoveForward/CanMoveBackward against nearby obstacles.
	ContactRadius float64

	// Obstacles populate the simulated workspace.
	Obstacles []Obstacle

	// RobotSpec is echoed back on every status snapshot.
	RobotSpec core.RobotSpec
}

// DefaultSimConfig returns reasonable defaults for unit tests and the
// demo entrypoint.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		TimeStep:        0.1,
		MaxEchoDistance: 3.0,
		ContactRadius:   0.15,
		RobotSpec: core.RobotSpec{
			MaxPps:       60,
			MaxScanAngle: math.Pi / 2,
			EchoMaxRange: 3.0,
		},
	}
}

// SimController is a minimal in-process stand-in for the firmware
// link: it integrates a differential-drive kinematic model from the
// commands it receives and synthesises status/proxy readings from a
// fixed set of circular obstacles. It exists so the agent, the
// behaviour library and cmd/wheelly's demo can run end-to-end without
// real hardware.
type SimController struct {
	mu sync.Mutex

	config SimConfig

	time            float64
	location        core.Point
	direction       core.Heading
	sensorDirection core.Heading
	command         RobotCommand

	onLatch     func(core.RobotStatus)
	onInference func(core.RobotStatus)

	ticks int
}

// NewSimController builds a simulator starting at the origin, facing
// zero heading.
func NewSimController(config SimConfig) *SimController {
	return &SimController{config: config, command: Idle()}
}

func (s *SimController) Start() error    { return nil }
func (s *SimController) Shutdown() error { return nil }

func (s *SimController) OnLatch(f func(core.RobotStatus))     { s.onLatch = f }
func (s *SimController) OnInference(f func(core.RobotStatus)) { s.onInference = f }

// Execute stores the latest command to apply on the next Tick.
func (s *SimController) Execute(cmd RobotCommand) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.command = cmd
	return nil
}

// Tick advances the simulation by one TimeStep, applies the last
// command's kinematics, and fires OnLatch followed by OnInference with
// the resulting status — mirroring the controller's real latch/
// inference ordering guarantee (§5: every status update before a
// latch(t) is visible to inference(t)).
func (s *SimController) Tick() core.RobotStatus {
	s.mu.Lock()
	s.ticks++
	s.time += s.config.TimeStep
	s.integrate()
	status := s.statusLocked()
	s.mu.Unlock()

	if s.onLatch != nil {
		s.onLatch(status)
	}
	if s.onInference != nil {
		s.onInference(status)
	}
	return status
}

func (s *SimController) integrate() {
	switch s.command.Kind {
	case CommandMove, CommandMoveAndFrontScan:
		s.direction = s.command.Heading
		dist := s.command.Speed * s.config.TimeStep
		s.location = s.location.Moved(s.direction, dist)
		if s.command.Kind == CommandMoveAndFrontScan {
			s.sensorDirection = core.HeadingZero
		}
	case CommandScan:
		s.sensorDirection = s.command.ScanAngle
	case CommandHalt, CommandIdle:
	}
}

func (s *SimController) statusLocked() core.RobotStatus {
	echo := s.castEcho()
	forward, backward := s.contactsLocked()
	return core.RobotStatus{
		SimulationTime:   s.time,
		Location:         s.location,
		Direction:        s.direction,
		SensorDirection:  s.sensorDirection,
		EchoDistance:     echo,
		CanMoveForward:   forward,
		CanMoveBackward:  backward,
		ProxyMessageTime: s.time,
		RobotSpec:        s.config.RobotSpec,
	}
}

// castEcho returns the distance to the nearest obstacle along the
// absolute beam direction (robot direction + sensor offset), or
// MaxEchoDistance if nothing is hit.
func (s *SimController) castEcho() float64 {
	beam := s.direction.Add(s.sensorDirection)
	best := s.config.MaxEchoDistance
	for _, o := range s.config.Obstacles {
		if d, ok := rayCircleHit(s.location, beam, o); ok && d < best {
			best = d
		}
	}
	return best
}

func (s *SimController) contactsLocked() (forward, backward bool) {
	forward, backward = true, true
	for _, o := range s.config.Obstacles {
		d := s.location.Distance(o.Center)
		if d <= o.Radius+s.config.ContactRadius {
			fwdPoint := s.location.Moved(s.direction, s.config.ContactRadius)
			bwdPoint := s.location.Moved(s.direction.Opposite(), s.config.ContactRadius)
			if fwdPoint.Distance(o.Center) <= o.Radius {
				forward = false
			}
			if bwdPoint.Distance(o.Center) <= o.Radius {
				backward = false
			}
		}
	}
	return
}

// rayCircleHit returns the distance from origin to the nearest
// intersection of the ray (origin, dir) with the circle, if any.
func rayCircleHit(origin core.Point, dir core.Heading, c Obstacle) (float64, bool) {
	dx, dy := math.Cos(dir.Rad()), math.Sin(dir.Rad())
	ox, oy := origin.X-c.Center.X, origin.Y-c.Center.Y

	b := ox*dx + oy*dy
	cc := ox*ox + oy*oy - c.Radius*c.Radius
	disc := b*b - cc
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1, t2 := -b-sq, -b+sq
	if t1 >= 0 {
		return t1, true
	}
	if t2 >= 0 {
		return t2, true
	}
	return 0, false
}
