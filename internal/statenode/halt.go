package statenode

import (
	"github.com/m-marini/wheellyj-sub009/internal/bridge"
	"github.com/m-marini/wheellyj-sub009/internal/core"
	"github.com/m-marini/wheellyj-sub009/internal/proc"
)

// Halt idles in place, optionally sweeping the proximity sensor on a
// fixed interval so the radar map keeps accumulating cells while the
// robot is otherwise stationary.
type Halt struct {
	*Base

	// ScanInterval is the simulation-time gap between successive
	// auto-scan steps; zero or negative disables auto-scan.
	ScanInterval float64

	// MinSensorDir/MaxSensorDir bound the sweep, SensorDirNumber is the
	// number of discrete steps across that range (§9: preserve the
	// original's oscillating-index mapping exactly).
	MinSensorDir, MaxSensorDir float64
	SensorDirNumber           int

	lastScan  float64
	haveScan  bool
	scanIndex int
}

// NewHalt builds a Halt node; pass sensorDirNumber <= 1 to disable the
// sweep regardless of ScanInterval.
func NewHalt(base *Base, scanInterval, minDir, maxDir float64, sensorDirNumber int) *Halt {
	return &Halt{Base: base, ScanInterval: scanInterval, MinSensorDir: minDir, MaxSensorDir: maxDir, SensorDirNumber: sensorDirNumber}
}

func (h *Halt) Entry(ctx *proc.Context) error {
	h.haveScan = false
	h.scanIndex = 0
	return h.Base.Entry(ctx)
}

func (h *Halt) Step(ctx *proc.Context) (ExitKey, bridge.RobotCommand) {
	status := ctx.WorldModel().RobotStatus

	if h.TimedOut(ctx) {
		return ExitTimeout, bridge.Halt()
	}
	if key, cmd, blocked := BlockResult(status); blocked {
		return key, cmd
	}

	if h.ScanInterval > 0 && h.SensorDirNumber > 1 {
		if !h.haveScan || status.SimulationTime-h.lastScan >= h.ScanInterval {
			h.lastScan = status.SimulationTime
			h.haveScan = true
			dir := h.nextScanDirection()
			return ExitNone, bridge.Scan(dir)
		}
	}

	return ExitNone, bridge.Halt()
}

// nextScanDirection advances the oscillating scan index across
// [0, 2*(N-1)) and maps it linearly into [MinSensorDir, MaxSensorDir]
// with reflective wrap, exactly mirroring the source's sweep coverage
// pattern (§9 design note).
func (h *Halt) nextScanDirection() core.Heading {
	n := h.SensorDirNumber
	period := 2 * (n - 1)
	if period <= 0 {
		return core.HeadingFromRad(h.MinSensorDir)
	}

	idx := h.scanIndex % period
	h.scanIndex++

	reflected := idx
	if reflected >= n {
		reflected = period - reflected
	}

	span := h.MaxSensorDir - h.MinSensorDir
	frac := float64(reflected) / float64(n-1)
	return core.HeadingFromRad(h.MinSensorDir + frac*span)
}
