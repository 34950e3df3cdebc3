package grid

// Coord2 is a 2D cell coordinate.
type Coord2 struct {
	X, Y int
}

// Add returns c offset by o.
func (c Coord2) Add(o Coord2) Coord2 { return Coord2{c.X + o.X, c.Y + o.Y} }

// Sub returns c minus o.
func (c Coord2) Sub(o Coord2) Coord2 { return Coord2{c.X - o.X, c.Y - o.Y} }

// Res2 is the resolution of a 2D grid: W columns and H rows.
type Res2 struct {
	W, H int
}

// Cells returns the number of cells in the grid.
func (r Res2) Cells() int { return r.W * r.H }

// Unit offsets in 2D. North is +Y.
var (
	North     = Coord2{0, 1}
	NorthEast = Coord2{1, 1}
	East      = Coord2{1, 0}
	SouthEast = Coord2{1, -1}
	South     = Coord2{0, -1}
	SouthWest = Coord2{-1, -1}
	West      = Coord2{-1, 0}
	NorthWest = Coord2{-1, 1}
)

// Index2 returns the linear index of c. The result is meaningless when c is
// out of bounds; use TryIndex2 to check.
func Index2(c Coord2, r Res2) int {
	return c.X + c.Y*r.W
}

// TryIndex2 returns the linear index of c and whether c is in bounds.
func TryIndex2(c Coord2, r Res2) (int, bool) {
	if !InBounds2(c, r) {
		return 0, false
	}
	return Index2(c, r), true
}

// Coords2 returns the coordinate of index i.
func Coords2(i int, r Res2) Coord2 {
	return Coord2{i % r.W, i / r.W}
}

// TryCoords2 returns the coordinate of index i and whether i is in bounds.
func TryCoords2(i int, r Res2) (Coord2, bool) {
	if !IndexInBounds2(i, r) {
		return Coord2{}, false
	}
	return Coords2(i, r), true
}

// InBounds2 reports whether c lies inside the grid.
func InBounds2(c Coord2, r Res2) bool {
	return c.X >= 0 && c.X < r.W && c.Y >= 0 && c.Y < r.H
}

// IndexInBounds2 reports whether i is a valid cell index.
func IndexInBounds2(i int, r Res2) bool {
	return i >= 0 && i < r.Cells()
}

// OnEdge2 reports whether c lies on the outermost ring of cells.
func OnEdge2(c Coord2, r Res2) bool {
	return c.X == 0 || c.X == r.W-1 || c.Y == 0 || c.Y == r.H-1
}

// IndexOnEdge2 reports whether index i lies on the outermost ring of cells.
func IndexOnEdge2(i int, r Res2) bool {
	return OnEdge2(Coords2(i, r), r)
}

// OffsetIndex2 shifts index i by offset without bounds checks. Offsets that
// cross a row boundary wrap into the neighbouring row.
func OffsetIndex2(i int, r Res2, offset Coord2) int {
	return i + offset.X + offset.Y*r.W
}

// TryOffsetIndex2 shifts index i by offset and reports whether the target
// cell is in bounds. Unlike OffsetIndex2 it rejects offsets that would wrap
// across a row boundary.
func TryOffsetIndex2(i int, r Res2, offset Coord2) (int, bool) {
	c, ok := TryCoords2(i, r)
	if !ok {
		return 0, false
	}
	return TryIndex2(c.Add(offset), r)
}

// WithinInclusive2 reports whether lo <= c <= hi on both axes.
func WithinInclusive2(c, lo, hi Coord2) bool {
	return c.X >= lo.X && c.Y >= lo.Y && c.X <= hi.X && c.Y <= hi.Y
}

// WithinExclusive2 reports whether lo < c < hi on both axes.
func WithinExclusive2(c, lo, hi Coord2) bool {
	return c.X > lo.X && c.Y > lo.Y && c.X < hi.X && c.Y < hi.Y
}

// OnBoundsEdge2 reports whether c shares an axis value with lo or hi.
func OnBoundsEdge2(c, lo, hi Coord2) bool {
	return c.X == lo.X || c.Y == lo.Y || c.X == hi.X || c.Y == hi.Y
}
