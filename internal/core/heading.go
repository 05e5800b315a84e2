package core

import "math"

// Heading is a direction on the unit circle, normalised to (-pi, pi].
// Internally it is represented as (sin, cos) components the way the
// original system names the concept "Complex" — a unit-circle point
// rather than a bare angle, so adding two headings never needs a
// branch for the wrap.
type Heading struct {
	sin, cos float64
}

// HeadingZero points along the positive X axis (0 rad).
var HeadingZero = Heading{sin: 0, cos: 1}

// HeadingFromRad builds a heading from radians, normalising to (-pi, pi].
func HeadingFromRad(rad float64) Heading {
	return Heading{sin: math.Sin(rad), cos: math.Cos(rad)}
}

// HeadingFromDeg builds a heading from degrees.
func HeadingFromDeg(deg float64) Heading {
	return HeadingFromRad(deg * math.Pi / 180)
}

// Rad returns the heading in radians, in (-pi, pi].
func (h Heading) Rad() float64 {
	return math.Atan2(h.sin, h.cos)
}

// Deg returns the heading in degrees, in (-180, 180].
func (h Heading) Deg() float64 {
	return h.Rad() * 180 / math.Pi
}

// Add returns h+other, wrapped to (-pi, pi] (complex multiplication of
// unit vectors adds their angles).
func (h Heading) Add(other Heading) Heading {
	return Heading{
		sin: h.sin*other.cos + h.cos*other.sin,
		cos: h.cos*other.cos - h.sin*other.sin,
	}
}

// Sub returns h-other, wrapped to (-pi, pi].
func (h Heading) Sub(other Heading) Heading {
	return Heading{
		sin: h.sin*other.cos - h.cos*other.sin,
		cos: h.cos*other.cos + h.sin*other.sin,
	}
}

// Opposite returns the heading rotated by pi.
func (h Heading) Opposite() Heading {
	return Heading{sin: -h.sin, cos: -h.cos}
}

// IsCloseTo reports whether h and other differ by at most eps radians.
func (h Heading) IsCloseTo(other Heading, eps float64) bool {
	return math.Abs(h.Sub(other).Rad()) <= eps
}

// DirectionTo returns the heading pointing from p to q.
func DirectionTo(p, q Point) Heading {
	return HeadingFromRad(math.Atan2(q.Y-p.Y, q.X-p.X))
}

// Clamp returns h clamped into [-limit, limit] radians.
func (h Heading) Clamp(limit float64) Heading {
	r := h.Rad()
	if r > limit {
		return HeadingFromRad(limit)
	}
	if r < -limit {
		return HeadingFromRad(-limit)
	}
	return h
}
