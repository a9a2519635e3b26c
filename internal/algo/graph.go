package algo

// Graph is a directed graph as an adjacency list. Neighbor order is the
// insertion order of the slice, which makes traversals deterministic.
type Graph map[int][]int

// DFS returns the vertices reachable from start in depth-first preorder.
// It returns nil when start is not a vertex of g.
func (g Graph) DFS(start int) []int {
	if _, ok := g[start]; !ok {
		return nil
	}
	visited := make(map[int]bool, len(g))
	var order []int

	var walk func(node int)
	walk = func(node int) {
		if visited[node] {
			return
		}
		visited[node] = true
		order = append(order, node)
		for _, next := range g[node] {
			walk(next)
		}
	}

	walk(start)
	return order
}
