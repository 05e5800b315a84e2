package core

import "math"

// PolarSector is one wedge of the polar map.
type PolarSector struct {
	State    CellState // Empty, Hindered or Unknown
	Distance float64   // nearest obstacle distance, or MaxDistance if none observed
	Location Point     // representative location of the nearest relevant cell
}

// PolarMap is a fixed-resolution, centre-relative view derived fresh
// from the radar map at every inference. It is not persistent across
// ticks.
type PolarMap struct {
	Center      Point
	Sectors     []PolarSector
	MinDistance float64
	MaxDistance float64
}

// sectorIndex maps a heading (relative to center) to a sector index in
// [0, n), wrapping at 0/n.
func sectorIndex(n int, h Heading) int {
	frac := (h.Rad() + math.Pi) / (2 * math.Pi)
	i := int(math.Floor(frac * float64(n)))
	if i < 0 {
		i += n
	}
	if i >= n {
		i -= n
	}
	return i
}

// ComputePolarMap derives an n-sector polar map around center from the
// radar map, scanning each sector's radar cells between minDistance and
// maxDistance. A sector with no observed cell is Unknown; otherwise its
// distance is the minimum Hindered distance, or maxDistance if every
// observed cell in the wedge was Empty.
func ComputePolarMap(radar *RadarMap, center Point, n int, minDistance, maxDistance float64) *PolarMap {
	sectors := make([]PolarSector, n)
	for i := range sectors {
		sectors[i] = PolarSector{State: Unknown, Distance: maxDistance}
	}
	seen := make([]bool, n)

	for i := range radar.cells {
		cell := radar.cells[i]
		if cell.State == Unknown {
			continue
		}
		dist := center.Distance(cell.Location)
		if dist < minDistance || dist > maxDistance {
			continue
		}
		h := DirectionTo(center, cell.Location)
		s := sectorIndex(n, h)
		seen[s] = true
		switch cell.State {
		case Hindered:
			if sectors[s].State != Hindered || dist < sectors[s].Distance {
				sectors[s] = PolarSector{State: Hindered, Distance: dist, Location: cell.Location}
			}
		case Empty:
			if sectors[s].State == Unknown {
				sectors[s] = PolarSector{State: Empty, Distance: maxDistance, Location: cell.Location}
			}
		}
	}
	for i, wasSeen := range seen {
		if !wasSeen {
			sectors[i] = PolarSector{State: Unknown, Distance: maxDistance}
		}
	}
	return &PolarMap{Center: center, Sectors: sectors, MinDistance: minDistance, MaxDistance: maxDistance}
}

// SafeCentroid returns the distance-weighted mass-centre of every
// Empty sector within maxDistance, used by the cautious-point
// behaviour to bias toward open space. Returns false if no sector
// qualifies.
func (p *PolarMap) SafeCentroid(maxDistance float64) (Point, bool) {
	n := len(p.Sectors)
	if n == 0 {
		return Point{}, false
	}
	var sumX, sumY, sumW float64
	for i, s := range p.Sectors {
		if s.State != Empty || s.Distance > maxDistance {
			continue
		}
		h := sectorHeading(n, i)
		loc := p.Center.Moved(h, s.Distance)
		w := s.Distance
		sumX += loc.X * w
		sumY += loc.Y * w
		sumW += w
	}
	if sumW == 0 {
		return Point{}, false
	}
	return Point{X: sumX / sumW, Y: sumY / sumW}, true
}

// sectorHeading returns the heading pointing at the centre of sector i
// of n, inverse of sectorIndex.
func sectorHeading(n, i int) Heading {
	rad := (float64(i)+0.5)/float64(n)*2*math.Pi - math.Pi
	return HeadingFromRad(rad)
}
