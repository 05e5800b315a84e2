package core

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRadarMap() *RadarMap {
	g := NewGridTopology(Point{0, 0}, 0.2, 40, 40)
	return NewRadarMap(g, 3.0, zerolog.Nop())
}

func TestRadarMapUpdateMarksEmptyAndHindered(t *testing.T) {
	m := testRadarMap()
	m.Update(ProxyMessage{Time: 1, SensorOrigin: Point{0, 0}, SensorDirection: HeadingZero, EchoDistance: 1.0})

	hinderedIdx, ok := m.Topology.IndexOf(Point{1.0, 0})
	require.True(t, ok)
	cell, _ := m.Cell(hinderedIdx)
	assert.Equal(t, Hindered, cell.State)

	emptyIdx, ok := m.Topology.IndexOf(Point{0.4, 0})
	require.True(t, ok)
	cell, _ = m.Cell(emptyIdx)
	assert.Equal(t, Empty, cell.State)
}

func TestRadarMapEchoAtMaxRangeIsNotHindered(t *testing.T) {
	m := testRadarMap()
	// A controller reporting its "no echo" sentinel as exactly
	// MaxRange must not plant a phantom Hindered cell there — every
	// cell up to MaxRange should be marked Empty instead.
	m.Update(ProxyMessage{Time: 1, SensorOrigin: Point{0, 0}, SensorDirection: HeadingZero, EchoDistance: m.MaxRange})

	farIdx, ok := m.Topology.IndexOf(Point{m.MaxRange - 0.05, 0})
	require.True(t, ok)
	cell, _ := m.Cell(farIdx)
	assert.Equal(t, Empty, cell.State)

	for i := range m.cells {
		assert.NotEqual(t, Hindered, m.cells[i].State)
	}
}

func TestRadarMapMonotonicEchoTime(t *testing.T) {
	m := testRadarMap()
	// u1 older, u2 newer — applying both (in either order) must equal u2 alone.
	u1 := ProxyMessage{Time: 1, SensorOrigin: Point{0, 0}, SensorDirection: HeadingZero, EchoDistance: 1.0}
	u2 := ProxyMessage{Time: 2, SensorOrigin: Point{0, 0}, SensorDirection: HeadingZero, EchoDistance: 2.0}

	m1 := testRadarMap()
	m1.Update(u1)
	m1.Update(u2)

	m2 := testRadarMap()
	m2.Update(u2)
	m2.Update(u1)

	idx, ok := m1.Topology.IndexOf(Point{1.0, 0})
	require.True(t, ok)
	c1, _ := m1.Cell(idx)
	c2, _ := m2.Cell(idx)
	assert.Equal(t, c1.State, c2.State)
	assert.Equal(t, c1.EchoTime, c2.EchoTime)

	m3 := testRadarMap()
	m3.Update(u2)
	c3, _ := m3.Cell(idx)
	assert.Equal(t, c3.State, c1.State)
	assert.Equal(t, c3.EchoTime, c1.EchoTime)
}

func TestRadarMapRejectsBackwardTime(t *testing.T) {
	m := testRadarMap()
	m.Update(ProxyMessage{Time: 5, SensorOrigin: Point{0, 0}, SensorDirection: HeadingZero, EchoDistance: 1.0})
	idx, _ := m.Topology.IndexOf(Point{1.0, 0})
	before, _ := m.Cell(idx)

	// Older, contradictory observation at the same cell must be dropped.
	m.Update(ProxyMessage{Time: 3, SensorOrigin: Point{0, 0}, SensorDirection: HeadingZero, EchoDistance: 100})
	after, _ := m.Cell(idx)
	assert.Equal(t, before.State, after.State)
	assert.Equal(t, before.EchoTime, after.EchoTime)
}

func TestRadarMapRejectsMalformedReading(t *testing.T) {
	m := testRadarMap()
	m.Update(ProxyMessage{Time: math.NaN(), SensorOrigin: Point{0, 0}, SensorDirection: HeadingZero, EchoDistance: 1.0})
	for i := range m.cells {
		assert.Equal(t, Unknown, m.cells[i].State)
	}
}

func TestRadarMapEmptyQueriesReturnEmpty(t *testing.T) {
	m := NewRadarMap(NewGridTopology(Point{0, 0}, 0.2, 0, 0), 3.0, zerolog.Nop())
	assert.Empty(t, m.SafeSectors(0.1))
	assert.True(t, m.FreeTrajectory(Point{0, 0}, Point{1, 1}, 0.1))
}

func TestRadarMapSafeSectors(t *testing.T) {
	m := testRadarMap()
	m.Update(ProxyMessage{Time: 1, SensorOrigin: Point{0, 0}, SensorDirection: HeadingZero, EchoDistance: 1.0})
	safe := m.SafeSectors(0.5)
	hinderedIdx, _ := m.Topology.IndexOf(Point{1.0, 0})
	for _, idx := range safe {
		assert.NotEqual(t, hinderedIdx, idx)
	}
}

func TestRadarMapFreeTrajectory(t *testing.T) {
	m := testRadarMap()
	m.Update(ProxyMessage{Time: 1, SensorOrigin: Point{0, 0}, SensorDirection: HeadingZero, EchoDistance: 1.0})
	assert.False(t, m.FreeTrajectory(Point{-1, 0}, Point{2, 0}, 0.3))
	assert.True(t, m.FreeTrajectory(Point{-1, 2}, Point{2, 2}, 0.3))
}

func TestRadarMapClean(t *testing.T) {
	m := testRadarMap()
	m.Update(ProxyMessage{Time: 1, SensorOrigin: Point{0, 0}, SensorDirection: HeadingZero, EchoDistance: 1.0})
	m.Clean()
	for i := range m.cells {
		assert.Equal(t, Unknown, m.cells[i].State)
	}
}

func TestRadarMapOldestEmptyWithin(t *testing.T) {
	m := testRadarMap()
	m.Update(ProxyMessage{Time: 1, SensorOrigin: Point{0, 0}, SensorDirection: HeadingZero, EchoDistance: 1.0})
	m.Update(ProxyMessage{Time: 5, SensorOrigin: Point{0, 0}, SensorDirection: HeadingFromDeg(90), EchoDistance: 1.0})
	idx, ok := m.OldestEmptyWithin(Point{0, 0}, 2)
	require.True(t, ok)
	cell, _ := m.Cell(idx)
	assert.Equal(t, Empty, cell.State)
	assert.Equal(t, 1.0, cell.EchoTime)
}
