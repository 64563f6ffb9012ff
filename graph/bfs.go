package graph

// BFS finds the path with the fewest connections, ignoring costs.
type BFS[N Node] struct {
	graph Interface[N]
}

func NewBFS[N Node](g Interface[N]) *BFS[N] {
	return &BFS[N]{graph: g}
}

// FindPath returns the nodes from start to goal inclusive, or an empty
// slice when goal is unreachable.
func (b *BFS[N]) FindPath(start, goal N) []N {
	startIdx, goalIdx := start.Index(), goal.Index()
	if startIdx == goalIdx {
		return []N{b.graph.Node(startIdx)}
	}

	queue := []int{startIdx}
	cameFrom := map[int]int{startIdx: startIdx}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == goalIdx {
			break
		}

		for _, conn := range b.graph.NodeConnections(current) {
			if _, seen := cameFrom[conn.To]; !seen {
				cameFrom[conn.To] = current
				queue = append(queue, conn.To)
			}
		}
	}

	if _, reached := cameFrom[goalIdx]; !reached {
		return []N{}
	}

	var indices []int
	for idx := goalIdx; idx != startIdx; idx = cameFrom[idx] {
		indices = append(indices, idx)
	}
	indices = append(indices, startIdx)

	path := make([]N, len(indices))
	for i, idx := range indices {
		path[len(indices)-1-i] = b.graph.Node(idx)
	}
	return path
}
