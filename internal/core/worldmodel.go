package core

// WorldModel is the immutable snapshot passed to every state node's
// Step: the latched robot status, the radar map as of that latch, the
// polar map derived at inference time, and the current label markers.
type WorldModel struct {
	RobotStatus RobotStatus
	RadarMap    *RadarMap
	PolarMap    *PolarMap
	Markers     []LabelMarker
}

// MarkerByID returns the marker with the given id, if present.
func (w WorldModel) MarkerByID(id string) (LabelMarker, bool) {
	for _, m := range w.Markers {
		if m.ID == id {
			return m, true
		}
	}
	return LabelMarker{}, false
}

// NearestMarker returns the marker closest to p, if any markers exist.
func (w WorldModel) NearestMarker(p Point) (LabelMarker, bool) {
	if len(w.Markers) == 0 {
		return LabelMarker{}, false
	}
	best := w.Markers[0]
	bestDist := p.Distance(best.Location)
	for _, m := range w.Markers[1:] {
		if d := p.Distance(m.Location); d < bestDist {
			best, bestDist = m, d
		}
	}
	return best, true
}
