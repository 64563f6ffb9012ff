// Package navmesh turns a triangulated walkable area into a navigation
// graph and answers path queries between arbitrary positions on it.
package navmesh

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"navmesh-planner/geometry"
	"navmesh-planner/graph"
)

// NavGraph is the static graph over a mesh: one node per interior line and
// connections between nodes bounding the same triangle. It is built once
// and never mutated afterwards, so concurrent queries may share it.
type NavGraph struct {
	graph      *graph.Graph[Node]
	mesh       *geometry.Polygon
	lineToNode map[int]int
	logger     *zap.Logger
}

// NewNavGraph builds the navigation graph. The NavGraph takes ownership of
// mesh; callers must not rely on it staying unshared otherwise.
func NewNavGraph(mesh *geometry.Polygon, opts ...Option) *NavGraph {
	o := newOptions(opts)
	n := &NavGraph{
		graph:      graph.New[Node](false),
		mesh:       mesh,
		lineToNode: make(map[int]int),
		logger:     o.logger,
	}
	n.createNavigationGraph()
	return n
}

// RestoreNavGraph rebuilds a NavGraph from persisted nodes and connections
// without re-deriving them from the mesh.
func RestoreNavGraph(mesh *geometry.Polygon, nodes []Node, connections []graph.Connection, opts ...Option) (*NavGraph, error) {
	o := newOptions(opts)
	n := &NavGraph{
		graph:      graph.New[Node](false),
		mesh:       mesh,
		lineToNode: make(map[int]int),
		logger:     o.logger,
	}

	for _, node := range nodes {
		if !mesh.IsInteriorLine(node.LineIndex()) {
			return nil, fmt.Errorf("node %d: line %d is not an interior line", node.Index(), node.LineIndex())
		}
		if err := n.addNode(node); err != nil {
			return nil, err
		}
	}
	for _, c := range connections {
		if !n.graph.AddConnection(c) {
			return nil, fmt.Errorf("invalid connection %d -> %d", c.From, c.To)
		}
	}

	return n, nil
}

func (n *NavGraph) addNode(node Node) error {
	if err := n.graph.AddNode(node); err != nil {
		return err
	}
	n.lineToNode[node.LineIndex()] = node.Index()
	return nil
}

func (n *NavGraph) createNavigationGraph() {
	startTime := time.Now()

	// 1. One node in the middle of every line shared by two triangles
	for _, line := range n.mesh.Lines() {
		if len(n.mesh.TrianglesFromLineIndex(line.Index)) != 2 {
			continue
		}
		node := NewNode(n.graph.NextFreeNodeIndex(), line.Index, line.Midpoint())
		if err := n.addNode(node); err != nil {
			panic(fmt.Sprintf("navmesh: %v", err))
		}
	}

	// 2. Connect the nodes that bound the same triangle
	for _, tri := range n.mesh.Triangles() {
		valid := make([]int, 0, 3)
		for _, lineIdx := range tri.IndexLines {
			if nodeIdx := n.NodeIndexFromLineIndex(lineIdx); nodeIdx != graph.InvalidNodeIndex {
				valid = append(valid, nodeIdx)
			}
		}

		switch len(valid) {
		case 2:
			n.graph.AddConnection(graph.Connection{From: valid[0], To: valid[1]})
		case 3:
			n.graph.AddConnection(graph.Connection{From: valid[0], To: valid[1]})
			n.graph.AddConnection(graph.Connection{From: valid[1], To: valid[2]})
			n.graph.AddConnection(graph.Connection{From: valid[2], To: valid[0]})
		}
	}

	// 3. Costs are the distances between the midpoints
	n.graph.SetConnectionCostsToDistance()

	n.logger.Info("navigation graph built",
		zap.Int("triangles", n.mesh.TriangleCount()),
		zap.Int("lines", n.mesh.LineCount()),
		zap.Int("nodes", n.graph.NodeCount()),
		zap.Int("connections", n.graph.ConnectionCount()),
		zap.Duration("elapsed", time.Since(startTime)),
	)
}

// NodeIndexFromLineIndex returns the node on the line, or
// graph.InvalidNodeIndex for border lines.
func (n *NavGraph) NodeIndexFromLineIndex(lineIdx int) int {
	if idx, ok := n.lineToNode[lineIdx]; ok {
		return idx
	}
	return graph.InvalidNodeIndex
}

// Mesh returns the walkable-area polygon the graph was built from.
func (n *NavGraph) Mesh() *geometry.Polygon {
	return n.mesh
}

// Graph exposes the static graph read-only. Mutate a Clone instead.
func (n *NavGraph) Graph() graph.Interface[Node] {
	return n.graph
}

// Nodes returns the nodes in creation order.
func (n *NavGraph) Nodes() []Node {
	return n.graph.Nodes()
}

// Connections returns each undirected connection once.
func (n *NavGraph) Connections() []graph.Connection {
	return n.graph.Connections()
}

// Clone returns a private, mutable copy of the graph for one query.
func (n *NavGraph) Clone() *graph.Graph[Node] {
	return n.graph.Clone()
}

func (n *NavGraph) NodeCount() int {
	return n.graph.NodeCount()
}

func (n *NavGraph) ConnectionCount() int {
	return n.graph.ConnectionCount()
}
