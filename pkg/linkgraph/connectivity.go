package linkgraph

// Reachable reports whether b can be reached from a by following
// connections. A present node is reachable from itself; an absent node is
// reachable from nothing.
func (g *Graph[T]) Reachable(a, b T) bool {
	if !g.Contains(a) || !g.Contains(b) {
		return false
	}
	if a == b {
		return true
	}
	found := false
	g.walk(a, func(n T) bool {
		if n == b {
			found = true
			return false
		}
		return true
	})
	return found
}

// Component returns every node reachable from node, node included, in
// breadth-first order. It returns nil if node is not present.
func (g *Graph[T]) Component(node T) []T {
	if !g.Contains(node) {
		return nil
	}
	var out []T
	g.walk(node, func(n T) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Components partitions the graph into its connected components.
// Every component has at least two nodes, since isolated nodes are never
// present. The order of components and of nodes within them is unspecified.
func (g *Graph[T]) Components() [][]T {
	var out [][]T
	seen := make(map[T]struct{}, len(g.nodes))
	for n := range g.nodes {
		if _, ok := seen[n]; ok {
			continue
		}
		var comp []T
		g.walk(n, func(m T) bool {
			seen[m] = struct{}{}
			comp = append(comp, m)
			return true
		})
		out = append(out, comp)
	}
	return out
}

// walk visits nodes breadth-first from start until visit returns false.
func (g *Graph[T]) walk(start T, visit func(T) bool) {
	visited := map[T]struct{}{start: {}}
	queue := []T{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if !visit(n) {
			return
		}
		for m := range g.nodes[n].conns {
			if _, ok := visited[m]; ok {
				continue
			}
			visited[m] = struct{}{}
			queue = append(queue, m)
		}
	}
}
