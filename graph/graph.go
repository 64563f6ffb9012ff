// Package graph provides an index-addressed graph shared by the search
// algorithms (A*, BFS, Eulerian path) and the navigation graph.
//
// The navigation mesh runs A* or BFS. EulerianPath is exported for callers
// that build their own graphs; nothing in the planner service uses it.
package graph

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// InvalidNodeIndex marks the absence of a node.
const InvalidNodeIndex = -1

var (
	ErrDuplicateNode = errors.New("node index already in use")
	ErrInvalidNode   = errors.New("invalid node index")
)

// Node is anything with a stable index and a position in the plane.
type Node interface {
	Index() int
	Position() orb.Point
}

// Connection represents a directed edge between two nodes with a cost
type Connection struct {
	From int     `json:"from" msgpack:"from"`
	To   int     `json:"to" msgpack:"to"`
	Cost float64 `json:"cost" msgpack:"cost"`
}

// Interface is the read-only view the search algorithms need.
type Interface[N Node] interface {
	Node(idx int) N
	Lookup(idx int) (N, bool)
	Nodes() []N
	NodeCount() int
	NodeConnections(idx int) []Connection
}

// Graph stores nodes in insertion order and outgoing connections keyed by
// node index. Undirected graphs store both directions of every connection.
type Graph[N Node] struct {
	directed bool
	nodes    []N
	position map[int]int // node index -> slot in nodes
	edges    map[int][]Connection
	nextFree int
}

// New creates an empty graph.
func New[N Node](directed bool) *Graph[N] {
	return &Graph[N]{
		directed: directed,
		position: make(map[int]int),
		edges:    make(map[int][]Connection),
	}
}

// IsDirected reports whether connections are one-way.
func (g *Graph[N]) IsDirected() bool {
	return g.directed
}

// Node returns the node with the given index. An unknown index means the
// caller's bookkeeping is broken, so it panics.
func (g *Graph[N]) Node(idx int) N {
	n, ok := g.Lookup(idx)
	if !ok {
		panic(fmt.Sprintf("graph: %v: %d", ErrInvalidNode, idx))
	}
	return n
}

// Lookup returns the node with the given index, if present.
func (g *Graph[N]) Lookup(idx int) (N, bool) {
	slot, ok := g.position[idx]
	if !ok {
		var zero N
		return zero, false
	}
	return g.nodes[slot], true
}

// Nodes returns all nodes in insertion order.
func (g *Graph[N]) Nodes() []N {
	nodes := make([]N, len(g.nodes))
	copy(nodes, g.nodes)
	return nodes
}

// NodeCount returns the number of nodes.
func (g *Graph[N]) NodeCount() int {
	return len(g.nodes)
}

// NextFreeNodeIndex returns an index no node has ever used in this graph.
func (g *Graph[N]) NextFreeNodeIndex() int {
	return g.nextFree
}

// AddNode inserts n. Indices are never reused, even after RemoveNode.
func (g *Graph[N]) AddNode(n N) error {
	idx := n.Index()
	if idx < 0 {
		return fmt.Errorf("add node %d: %w", idx, ErrInvalidNode)
	}
	if _, exists := g.position[idx]; exists {
		return fmt.Errorf("add node %d: %w", idx, ErrDuplicateNode)
	}

	g.position[idx] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	if idx >= g.nextFree {
		g.nextFree = idx + 1
	}
	return nil
}

// RemoveNode deletes the node and every connection touching it.
func (g *Graph[N]) RemoveNode(idx int) {
	slot, ok := g.position[idx]
	if !ok {
		return
	}

	g.nodes = append(g.nodes[:slot], g.nodes[slot+1:]...)
	delete(g.position, idx)
	for i := slot; i < len(g.nodes); i++ {
		g.position[g.nodes[i].Index()] = i
	}

	delete(g.edges, idx)
	for from, conns := range g.edges {
		g.edges[from] = removeTo(conns, idx)
	}
}

// NodeConnections returns the outgoing connections of a node.
func (g *Graph[N]) NodeConnections(idx int) []Connection {
	conns := make([]Connection, len(g.edges[idx]))
	copy(conns, g.edges[idx])
	return conns
}

// Connection returns the connection from -> to, if present.
func (g *Graph[N]) Connection(from, to int) (Connection, bool) {
	for _, c := range g.edges[from] {
		if c.To == to {
			return c, true
		}
	}
	return Connection{}, false
}

// IsUniqueConnection reports whether no connection from -> to exists yet.
// For undirected graphs the reverse direction counts as well.
func (g *Graph[N]) IsUniqueConnection(from, to int) bool {
	if _, ok := g.Connection(from, to); ok {
		return false
	}
	if !g.directed {
		if _, ok := g.Connection(to, from); ok {
			return false
		}
	}
	return true
}

// AddConnection inserts c and, for undirected graphs, its mirror. Self
// loops, unknown endpoints and duplicates are rejected.
func (g *Graph[N]) AddConnection(c Connection) bool {
	if c.From == c.To {
		return false
	}
	if _, ok := g.position[c.From]; !ok {
		return false
	}
	if _, ok := g.position[c.To]; !ok {
		return false
	}
	if !g.IsUniqueConnection(c.From, c.To) {
		return false
	}

	g.edges[c.From] = append(g.edges[c.From], c)
	if !g.directed {
		g.edges[c.To] = append(g.edges[c.To], Connection{From: c.To, To: c.From, Cost: c.Cost})
	}
	return true
}

// RemoveConnection deletes from -> to (and to -> from if undirected).
func (g *Graph[N]) RemoveConnection(from, to int) {
	g.edges[from] = removeTo(g.edges[from], to)
	if !g.directed {
		g.edges[to] = removeTo(g.edges[to], from)
	}
}

// Connections lists every connection once, following node insertion order.
// An undirected edge is reported from the endpoint that was added first.
func (g *Graph[N]) Connections() []Connection {
	var all []Connection
	seen := make(map[[2]int]bool)
	for _, n := range g.nodes {
		for _, c := range g.edges[n.Index()] {
			if !g.directed {
				if seen[[2]int{c.To, c.From}] {
					continue
				}
				seen[[2]int{c.From, c.To}] = true
			}
			all = append(all, c)
		}
	}
	return all
}

// ConnectionCount returns len(Connections()).
func (g *Graph[N]) ConnectionCount() int {
	total := 0
	for _, conns := range g.edges {
		total += len(conns)
	}
	if !g.directed {
		total /= 2
	}
	return total
}

// SetConnectionCostsToDistance recomputes every cost as the Euclidean
// distance between the endpoint positions.
func (g *Graph[N]) SetConnectionCostsToDistance() {
	for from, conns := range g.edges {
		if len(conns) == 0 {
			continue
		}
		fromPos := g.Node(from).Position()
		for i := range conns {
			conns[i].Cost = planar.Distance(fromPos, g.Node(conns[i].To).Position())
		}
	}
}

// Clone returns a deep copy. Mutating the clone never affects g.
func (g *Graph[N]) Clone() *Graph[N] {
	clone := &Graph[N]{
		directed: g.directed,
		nodes:    make([]N, len(g.nodes)),
		position: make(map[int]int, len(g.position)),
		edges:    make(map[int][]Connection, len(g.edges)),
		nextFree: g.nextFree,
	}
	copy(clone.nodes, g.nodes)
	for idx, slot := range g.position {
		clone.position[idx] = slot
	}
	for from, conns := range g.edges {
		clone.edges[from] = append([]Connection(nil), conns...)
	}
	return clone
}

func removeTo(conns []Connection, to int) []Connection {
	kept := conns[:0]
	for _, c := range conns {
		if c.To != to {
			kept = append(kept, c)
		}
	}
	return kept
}
