package graph

// Eulerianity classifies whether a graph admits an Euler trail or circuit.
type Eulerianity int

const (
	NotEulerian Eulerianity = iota
	SemiEulerian
	Eulerian
)

func (e Eulerianity) String() string {
	switch e {
	case SemiEulerian:
		return "semi-eulerian"
	case Eulerian:
		return "eulerian"
	default:
		return "not eulerian"
	}
}

// EulerianPath finds a trail using every connection exactly once. Only
// undirected graphs are supported; directed graphs are never Eulerian here.
type EulerianPath[N Node] struct {
	graph *Graph[N]
}

func NewEulerianPath[N Node](g *Graph[N]) *EulerianPath[N] {
	return &EulerianPath[N]{graph: g}
}

// IsEulerian requires a connected graph: zero odd-degree nodes is a
// circuit, exactly two is a trail between them.
func (e *EulerianPath[N]) IsEulerian() Eulerianity {
	if e.graph.IsDirected() || !e.isConnected() {
		return NotEulerian
	}

	odd := 0
	for _, n := range e.graph.Nodes() {
		if len(e.graph.NodeConnections(n.Index()))%2 == 1 {
			odd++
		}
	}

	switch odd {
	case 0:
		return Eulerian
	case 2:
		return SemiEulerian
	default:
		return NotEulerian
	}
}

// FindPath runs Hierholzer's algorithm on a clone, so the graph itself is
// left untouched. It returns an empty slice for NotEulerian.
func (e *EulerianPath[N]) FindPath(eulerianity Eulerianity) []N {
	nodes := e.graph.Nodes()
	current := InvalidNodeIndex

	switch eulerianity {
	case Eulerian:
		if len(nodes) > 0 {
			current = nodes[0].Index()
		}
	case SemiEulerian:
		for _, n := range nodes {
			if len(e.graph.NodeConnections(n.Index()))%2 == 1 {
				current = n.Index()
				break
			}
		}
	}
	if current == InvalidNodeIndex {
		return []N{}
	}

	work := e.graph.Clone()
	var stack []int
	var indices []int

	for len(work.NodeConnections(current)) > 0 || len(stack) > 0 {
		conns := work.NodeConnections(current)
		if len(conns) > 0 {
			stack = append(stack, current)
			next := conns[len(conns)-1].To
			work.RemoveConnection(current, next)
			current = next
			continue
		}

		indices = append(indices, current)
		current = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
	}
	indices = append(indices, current)

	path := make([]N, len(indices))
	for i, idx := range indices {
		path[len(indices)-1-i] = e.graph.Node(idx)
	}
	return path
}

func (e *EulerianPath[N]) isConnected() bool {
	nodes := e.graph.Nodes()

	start := InvalidNodeIndex
	for _, n := range nodes {
		if len(e.graph.NodeConnections(n.Index())) > 0 {
			start = n.Index()
			break
		}
	}
	if start == InvalidNodeIndex {
		return false
	}

	visited := map[int]bool{start: true}
	stack := []int{start}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, conn := range e.graph.NodeConnections(current) {
			if !visited[conn.To] {
				visited[conn.To] = true
				stack = append(stack, conn.To)
			}
		}
	}

	return len(visited) == len(nodes)
}
