package grid

import (
	"fmt"

	"github.com/matzehuels/linkgraph/pkg/linkgraph"
)

// Connectivity selects which cells count as neighbours.
type Connectivity int

const (
	// Four connects orthogonal neighbours in 2D.
	Four Connectivity = 4
	// Eight connects orthogonal and diagonal neighbours in 2D.
	Eight Connectivity = 8
	// Six connects face neighbours in 3D.
	Six Connectivity = 6
	// TwentySix connects face, edge and corner neighbours in 3D.
	TwentySix Connectivity = 26
)

// ParseConnectivity parses "4", "8", "6" or "26".
func ParseConnectivity(s string) (Connectivity, error) {
	switch s {
	case "4":
		return Four, nil
	case "8":
		return Eight, nil
	case "6":
		return Six, nil
	case "26":
		return TwentySix, nil
	}
	return 0, fmt.Errorf("unknown connectivity %q (want 4, 8, 6 or 26)", s)
}

var (
	orthogonal2 = []Coord2{North, East, South, West}
	adjacent2   = []Coord2{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}
	faces3      = []Coord3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}
	adjacent3   = func() []Coord3 {
		var out []Coord3
		for z := -1; z <= 1; z++ {
			for y := -1; y <= 1; y++ {
				for x := -1; x <= 1; x++ {
					if x != 0 || y != 0 || z != 0 {
						out = append(out, Coord3{x, y, z})
					}
				}
			}
		}
		return out
	}()
)

func offsets2(conn Connectivity) []Coord2 {
	if conn == Eight {
		return adjacent2
	}
	return orthogonal2
}

func offsets3(conn Connectivity) []Coord3 {
	if conn == TwentySix {
		return adjacent3
	}
	return faces3
}

// Neighbors2 returns the in-bounds neighbours of c. Eight selects diagonal
// neighbours as well; any other value selects the four orthogonal ones.
func Neighbors2(c Coord2, r Res2, conn Connectivity) []Coord2 {
	var out []Coord2
	for _, o := range offsets2(conn) {
		if n := c.Add(o); InBounds2(n, r) {
			out = append(out, n)
		}
	}
	return out
}

// Neighbors3 returns the in-bounds neighbours of c. TwentySix selects all
// surrounding cells; any other value selects the six face neighbours.
func Neighbors3(c Coord3, r Res3, conn Connectivity) []Coord3 {
	var out []Coord3
	for _, o := range offsets3(conn) {
		if n := c.Add(o); InBounds3(n, r) {
			out = append(out, n)
		}
	}
	return out
}

// Connect2 connects every cell of r to its neighbours in g, keyed by cell
// index. Cells for which keep returns false are skipped; a nil keep keeps
// every cell. A 1×1 grid adds nothing, since the graph holds no isolated
// nodes.
func Connect2(g *linkgraph.Graph[int], r Res2, conn Connectivity, keep func(Coord2) bool) {
	for i := 0; i < r.Cells(); i++ {
		c := Coords2(i, r)
		if keep != nil && !keep(c) {
			continue
		}
		for _, n := range Neighbors2(c, r, conn) {
			if keep != nil && !keep(n) {
				continue
			}
			g.AddConnection(i, Index2(n, r))
		}
	}
}

// Connect3 is the 3D form of Connect2.
func Connect3(g *linkgraph.Graph[int], r Res3, conn Connectivity, keep func(Coord3) bool) {
	for i := 0; i < r.Cells(); i++ {
		c := Coords3(i, r)
		if keep != nil && !keep(c) {
			continue
		}
		for _, n := range Neighbors3(c, r, conn) {
			if keep != nil && !keep(n) {
				continue
			}
			g.AddConnection(i, Index3(n, r))
		}
	}
}
