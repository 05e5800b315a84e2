package core

import (
	"math"

	"github.com/rs/zerolog"
)

// ProxyMessage is one ultrasonic sensor reading: a beam fired from
// sensorOrigin along sensorDirection, reporting echoDistance (or a
// distance beyond maxRange/non-positive when nothing was detected).
type ProxyMessage struct {
	Time            float64
	SensorOrigin    Point
	SensorDirection Heading
	EchoDistance    float64
}

// RadarMap is the dense grid of cells the planning subsystem owns. It
// updates monotonically in echo time and never destroys a cell.
type RadarMap struct {
	Topology GridTopology
	MaxRange float64
	cells    []MapCell
	log      zerolog.Logger
}

// NewRadarMap builds a radar map over topology, every cell starting
// Unknown, with no observed echo time (-Inf so any real observation
// updates it).
func NewRadarMap(topology GridTopology, maxRange float64, logger zerolog.Logger) *RadarMap {
	cells := make([]MapCell, topology.Size())
	for i := range cells {
		idx := Index(i)
		cells[i] = MapCell{Location: topology.ToPoint(idx), State: Unknown, EchoTime: math.Inf(-1)}
	}
	return &RadarMap{Topology: topology, MaxRange: maxRange, cells: cells, log: logger}
}

// Cell returns the cell at idx and whether idx is valid.
func (m *RadarMap) Cell(idx Index) (MapCell, bool) {
	if !m.Topology.Contains(idx) {
		return MapCell{}, false
	}
	return m.cells[idx], true
}

// Clean resets every cell to Unknown, dropping all non-unknown
// information while keeping the cell records themselves.
func (m *RadarMap) Clean() {
	for i := range m.cells {
		m.cells[i].State = Unknown
		m.cells[i].EchoTime = math.Inf(-1)
	}
}

// Update applies one proxy message: cells strictly before the echo
// (or before MaxRange, if no echo) become Empty with the message time;
// the cell at the echo becomes Hindered. Cells never move to an older
// EchoTime, and an Empty/Hindered cell only flips on a strictly newer
// observation. Malformed readings (NaN, non-finite) are dropped with a
// warning; updates never fail.
func (m *RadarMap) Update(msg ProxyMessage) {
	if math.IsNaN(msg.EchoDistance) || math.IsNaN(msg.Time) || math.IsInf(msg.Time, 0) {
		m.log.Warn().Float64("echoDistance", msg.EchoDistance).Float64("time", msg.Time).
			Msg("rejected malformed proxy message")
		return
	}

	hasEcho := msg.EchoDistance > 0 && msg.EchoDistance < m.MaxRange
	observedRange := m.MaxRange
	if hasEcho {
		observedRange = msg.EchoDistance
	}

	step := m.Topology.GridSize / 2
	if step <= 0 {
		return
	}
	echoIdx, echoOK := Index(0), false
	if hasEcho {
		echoIdx, echoOK = m.Topology.IndexOf(msg.SensorOrigin.Moved(msg.SensorDirection, observedRange))
	}
	for d := 0.0; d < observedRange; d += step {
		p := msg.SensorOrigin.Moved(msg.SensorDirection, d)
		idx, ok := m.Topology.IndexOf(p)
		if !ok || (echoOK && idx == echoIdx) {
			continue
		}
		m.applyObservation(idx, Empty, msg.Time)
	}
	if echoOK {
		m.applyObservation(echoIdx, Hindered, msg.Time)
	}
}

func (m *RadarMap) applyObservation(idx Index, state CellState, t float64) {
	c := &m.cells[idx]
	if c.State == Unknown {
		if t >= c.EchoTime {
			c.State = state
			c.EchoTime = t
		}
		return
	}
	if t > c.EchoTime {
		c.State = state
		c.EchoTime = t
	}
}

// SafeSectors returns every index whose nearest Hindered cell is at
// least d away — a Minkowski-expanded free region.
func (m *RadarMap) SafeSectors(d float64) []Index {
	var hindered []Point
	for i := range m.cells {
		if m.cells[i].State == Hindered {
			hindered = append(hindered, m.cells[i].Location)
		}
	}
	var result []Index
	for i := range m.cells {
		if m.nearestDistance(m.cells[i].Location, hindered) >= d {
			result = append(result, Index(i))
		}
	}
	return result
}

func (m *RadarMap) nearestDistance(p Point, points []Point) float64 {
	if len(points) == 0 {
		return math.Inf(1)
	}
	min := math.Inf(1)
	for _, q := range points {
		if dist := p.Distance(q); dist < min {
			min = dist
		}
	}
	return min
}

// FreeTrajectory reports whether no Hindered cell lies within d of the
// segment a-b.
func (m *RadarMap) FreeTrajectory(a, b Point, d float64) bool {
	for i := range m.cells {
		if m.cells[i].State != Hindered {
			continue
		}
		if distancePointToSegment(m.cells[i].Location, a, b) < d {
			return false
		}
	}
	return true
}

// distancePointToSegment returns the distance from p to the closest
// point on segment a-b.
func distancePointToSegment(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := Point{X: a.X + t*dx, Y: a.Y + t*dy}
	return p.Distance(closest)
}

// NeighbourIndices returns walkable neighbour indices of point
// satisfying filter (e.g. "not Hindered"), within a safetyDistance
// search radius.
func (m *RadarMap) NeighbourIndices(point Point, safetyDistance float64, filter func(MapCell) bool) []Index {
	return m.Topology.Neighbours(point, safetyDistance, func(idx Index) bool {
		return filter == nil || filter(m.cells[idx])
	})
}

// Contour returns the indices bordering, but not contained in, the set
// of indices matching pred — used to target the edge of the unknown
// region (pred = "state == Unknown").
func (m *RadarMap) Contour(pred func(MapCell) bool) []Index {
	set := make(map[Index]bool)
	for i := range m.cells {
		if pred(m.cells[i]) {
			set[Index(i)] = true
		}
	}
	return m.Topology.Contour(set)
}

// FindSafeTarget searches from "from" toward heading dir, between
// minDistance and maxDistance, for the furthest reachable point whose
// neighbourhood is free of Hindered cells. Returns false if none found.
func (m *RadarMap) FindSafeTarget(from Point, dir Heading, minDistance, maxDistance, safetyDistance float64) (Point, bool) {
	step := m.Topology.GridSize
	if step <= 0 {
		step = 0.1
	}
	best := Point{}
	found := false
	for d := maxDistance; d >= minDistance; d -= step {
		candidate := from.Moved(dir, d)
		if m.isSafePoint(candidate, safetyDistance) && m.FreeTrajectory(from, candidate, safetyDistance) {
			best = candidate
			found = true
			break
		}
	}
	return best, found
}

func (m *RadarMap) isSafePoint(p Point, safetyDistance float64) bool {
	for i := range m.cells {
		if m.cells[i].State == Hindered && m.cells[i].Location.Distance(p) < safetyDistance {
			return false
		}
	}
	return true
}

// OldestEmptyWithin returns the Empty cell within maxDistance of
// center with the oldest EchoTime — used by the search-refresh
// behaviour to re-scan stale regions.
func (m *RadarMap) OldestEmptyWithin(center Point, maxDistance float64) (Index, bool) {
	best := Index(-1)
	bestTime := math.Inf(1)
	for i := range m.cells {
		if m.cells[i].State != Empty {
			continue
		}
		if m.cells[i].Location.Distance(center) > maxDistance {
			continue
		}
		if m.cells[i].EchoTime < bestTime {
			bestTime = m.cells[i].EchoTime
			best = Index(i)
		}
	}
	return best, best >= 0
}
