package grid

// Coord3 is a 3D cell coordinate.
type Coord3 struct {
	X, Y, Z int
}

// Add returns c offset by o.
func (c Coord3) Add(o Coord3) Coord3 { return Coord3{c.X + o.X, c.Y + o.Y, c.Z + o.Z} }

// Sub returns c minus o.
func (c Coord3) Sub(o Coord3) Coord3 { return Coord3{c.X - o.X, c.Y - o.Y, c.Z - o.Z} }

// Res3 is the resolution of a 3D grid.
type Res3 struct {
	W, H, D int
}

// Cells returns the number of cells in the grid.
func (r Res3) Cells() int { return r.W * r.H * r.D }

// Index3 returns the linear index of c.
func Index3(c Coord3, r Res3) int {
	return c.X + c.Y*r.W + c.Z*r.W*r.H
}

// TryIndex3 returns the linear index of c and whether c is in bounds.
func TryIndex3(c Coord3, r Res3) (int, bool) {
	if !InBounds3(c, r) {
		return 0, false
	}
	return Index3(c, r), true
}

// Coords3 returns the coordinate of index i.
func Coords3(i int, r Res3) Coord3 {
	layer := r.W * r.H
	rem := i % layer
	return Coord3{rem % r.W, rem / r.W, i / layer}
}

// TryCoords3 returns the coordinate of index i and whether i is in bounds.
func TryCoords3(i int, r Res3) (Coord3, bool) {
	if !IndexInBounds3(i, r) {
		return Coord3{}, false
	}
	return Coords3(i, r), true
}

// InBounds3 reports whether c lies inside the grid.
func InBounds3(c Coord3, r Res3) bool {
	return c.X >= 0 && c.X < r.W &&
		c.Y >= 0 && c.Y < r.H &&
		c.Z >= 0 && c.Z < r.D
}

// IndexInBounds3 reports whether i is a valid cell index.
func IndexInBounds3(i int, r Res3) bool {
	return i >= 0 && i < r.Cells()
}

// OnEdge3 reports whether c lies on the outer shell of cells.
func OnEdge3(c Coord3, r Res3) bool {
	return c.X == 0 || c.X == r.W-1 ||
		c.Y == 0 || c.Y == r.H-1 ||
		c.Z == 0 || c.Z == r.D-1
}

// TryOffsetIndex3 shifts index i by offset and reports whether the target
// cell is in bounds.
func TryOffsetIndex3(i int, r Res3, offset Coord3) (int, bool) {
	c, ok := TryCoords3(i, r)
	if !ok {
		return 0, false
	}
	return TryIndex3(c.Add(offset), r)
}
