// Package core holds the geometry, sensed-world and planning domain
// types shared by the behaviour core: headings, points, the radar
// map's grid topology, area expressions, map cells, the radar and
// polar maps, and the per-tick world model snapshot.
package core

import "math"

// Point is a Cartesian location in metres in the global frame.
type Point struct {
	X, Y float64
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Moved returns the point reached moving distance d along heading h from p.
func (p Point) Moved(h Heading, d float64) Point {
	r := h.Rad()
	return Point{X: p.X + d*math.Cos(r), Y: p.Y + d*math.Sin(r)}
}

// Index is a grid cell identifier: a flattened (row, col) pair.
type Index int

// GridTopology is a uniform square grid over the plane: an origin, a
// cell size and symmetric extents (width/height in cells). It never
// owns cell contents — RadarMap does — it only maps indices to points
// and answers neighbourhood/area queries.
type GridTopology struct {
	Origin   Point
	GridSize float64 // cell edge length, metres
	Width    int     // cells along X, centred on Origin
	Height   int     // cells along Y, centred on Origin
}

// NewGridTopology builds a topology centred on origin with the given
// cell size and odd-friendly width/height (in cells).
func NewGridTopology(origin Point, gridSize float64, width, height int) GridTopology {
	return GridTopology{Origin: origin, GridSize: gridSize, Width: width, Height: height}
}

// Size returns the total number of indices in the grid.
func (g GridTopology) Size() int {
	return g.Width * g.Height
}

func (g GridTopology) colRow(idx Index) (col, row int) {
	col = int(idx) % g.Width
	row = int(idx) / g.Width
	return
}

// Contains reports whether idx is a valid index in this grid.
func (g GridTopology) Contains(idx Index) bool {
	return idx >= 0 && int(idx) < g.Size()
}

// ToPoint returns the centre point of the cell at idx.
func (g GridTopology) ToPoint(idx Index) Point {
	col, row := g.colRow(idx)
	halfW := float64(g.Width) / 2
	halfH := float64(g.Height) / 2
	return Point{
		X: g.Origin.X + (float64(col)-halfW+0.5)*g.GridSize,
		Y: g.Origin.Y + (float64(row)-halfH+0.5)*g.GridSize,
	}
}

// IndexOf returns the index of the cell containing p and whether p
// lies within the grid extents.
func (g GridTopology) IndexOf(p Point) (Index, bool) {
	halfW := float64(g.Width) / 2
	halfH := float64(g.Height) / 2
	col := int(math.Floor((p.X-g.Origin.X)/g.GridSize + halfW))
	row := int(math.Floor((p.Y-g.Origin.Y)/g.GridSize + halfH))
	if col < 0 || col >= g.Width || row < 0 || row >= g.Height {
		return 0, false
	}
	return Index(row*g.Width + col), true
}

// Snap returns the centre point of the cell containing p, clamping to
// the nearest valid cell if p falls outside the grid.
func (g GridTopology) Snap(p Point) Point {
	if idx, ok := g.IndexOf(p); ok {
		return g.ToPoint(idx)
	}
	halfW := float64(g.Width) / 2
	halfH := float64(g.Height) / 2
	col := clampInt(int(math.Floor((p.X-g.Origin.X)/g.GridSize+halfW)), 0, g.Width-1)
	row := clampInt(int(math.Floor((p.Y-g.Origin.Y)/g.GridSize+halfH)), 0, g.Height-1)
	return g.ToPoint(Index(row*g.Width + col))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IndicesByArea returns every index in the grid whose centre point
// satisfies expr.
func (g GridTopology) IndicesByArea(expr AreaExpr) []Index {
	var result []Index
	for i := 0; i < g.Size(); i++ {
		idx := Index(i)
		if expr.Eval(g.ToPoint(idx)) {
			result = append(result, idx)
		}
	}
	return result
}

// Contour returns the indices adjacent to, but not contained in, set —
// the frontier cells bordering the given region. Used to bias
// exploration toward the edge of the unknown region.
func (g GridTopology) Contour(set map[Index]bool) []Index {
	seen := make(map[Index]bool)
	var result []Index
	for idx := range set {
		for _, n := range g.gridNeighbours(idx) {
			if set[n] || seen[n] {
				continue
			}
			seen[n] = true
			result = append(result, n)
		}
	}
	return result
}

// gridNeighbours returns the 8-connected neighbour indices of idx that
// lie within the grid.
func (g GridTopology) gridNeighbours(idx Index) []Index {
	col, row := g.colRow(idx)
	var result []Index
	for dc := -1; dc <= 1; dc++ {
		for dr := -1; dr <= 1; dr++ {
			if dc == 0 && dr == 0 {
				continue
			}
			c, r := col+dc, row+dr
			if c < 0 || c >= g.Width || r < 0 || r >= g.Height {
				continue
			}
			result = append(result, Index(r*g.Width+c))
		}
	}
	return result
}

// Neighbours returns the indices of walkable cells adjacent to the
// cell containing point, within safetyDistance grid steps, for which
// filter returns true. 8-connected.
func (g GridTopology) Neighbours(point Point, safetyDistance float64, filter func(Index) bool) []Index {
	idx, ok := g.IndexOf(point)
	if !ok {
		return nil
	}
	steps := int(math.Ceil(safetyDistance / g.GridSize))
	if steps < 1 {
		steps = 1
	}
	col, row := g.colRow(idx)
	var result []Index
	for dc := -steps; dc <= steps; dc++ {
		for dr := -steps; dr <= steps; dr++ {
			if dc == 0 && dr == 0 {
				continue
			}
			c, r := col+dc, row+dr
			if c < 0 || c >= g.Width || r < 0 || r >= g.Height {
				continue
			}
			n := Index(r*g.Width + c)
			if filter == nil || filter(n) {
				result = append(result, n)
			}
		}
	}
	return result
}
