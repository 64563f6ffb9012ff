package graph

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// CostEpsilon absorbs float drift between cost sums accumulated in a
// different order; a route must be cheaper by more than this to replace a
// known one.
const CostEpsilon = 1e-9

// nodeRecord is the A* bookkeeping for one node
type nodeRecord struct {
	Node               int
	Via                Connection // incoming connection; unset for the start node
	HasVia             bool
	CostSoFar          float64 // g
	Heuristic          float64 // h
	EstimatedTotalCost float64 // f = g + h
	Closed             bool
	Index              int // Index in the heap
}

// PriorityQueue implements heap.Interface for A* algorithm
type PriorityQueue []*nodeRecord

func (pq PriorityQueue) Len() int { return len(pq) }

// Less orders by f-cost; equal f-costs fall back to the lower node index so
// that searches are reproducible.
func (pq PriorityQueue) Less(i, j int) bool {
	if pq[i].EstimatedTotalCost != pq[j].EstimatedTotalCost {
		return pq[i].EstimatedTotalCost < pq[j].EstimatedTotalCost
	}
	return pq[i].Node < pq[j].Node
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *PriorityQueue) Push(x interface{}) {
	n := len(*pq)
	record := x.(*nodeRecord)
	record.Index = n
	*pq = append(*pq, record)
}

func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	record := old[n-1]
	old[n-1] = nil
	record.Index = -1
	*pq = old[0 : n-1]
	return record
}

// AStar searches an Interface for the cheapest node path.
type AStar[N Node] struct {
	graph     Interface[N]
	heuristic Heuristic
}

// NewAStar creates a search over g. A nil heuristic means Euclidean.
func NewAStar[N Node](g Interface[N], h Heuristic) *AStar[N] {
	if h == nil {
		h = Euclidean
	}
	return &AStar[N]{graph: g, heuristic: h}
}

// FindPath returns the nodes from start to goal inclusive, or an empty
// slice when goal is unreachable.
func (a *AStar[N]) FindPath(start, goal N) []N {
	startIdx, goalIdx := start.Index(), goal.Index()
	if startIdx == goalIdx {
		return []N{a.graph.Node(startIdx)}
	}

	goalPos := a.graph.Node(goalIdx).Position()
	records := make(map[int]*nodeRecord)
	openSet := &PriorityQueue{}
	heap.Init(openSet)

	h := a.estimate(a.graph.Node(startIdx).Position(), goalPos)
	startRecord := &nodeRecord{
		Node:               startIdx,
		Heuristic:          h,
		EstimatedTotalCost: h,
	}
	records[startIdx] = startRecord
	heap.Push(openSet, startRecord)

	for openSet.Len() > 0 {
		current := heap.Pop(openSet).(*nodeRecord)

		// Check if we reached the goal
		if current.Node == goalIdx {
			return a.reconstruct(records, current, startIdx)
		}

		current.Closed = true

		for _, conn := range a.graph.NodeConnections(current.Node) {
			tentativeG := current.CostSoFar + conn.Cost

			existing, known := records[conn.To]
			if known {
				if existing.CostSoFar <= tentativeG+CostEpsilon {
					continue
				}

				// Found a better path to this node
				existing.Via = conn
				existing.HasVia = true
				existing.CostSoFar = tentativeG
				existing.EstimatedTotalCost = tentativeG + existing.Heuristic
				if existing.Closed {
					existing.Closed = false
					heap.Push(openSet, existing)
				} else {
					heap.Fix(openSet, existing.Index)
				}
				continue
			}

			h := a.estimate(a.graph.Node(conn.To).Position(), goalPos)
			record := &nodeRecord{
				Node:               conn.To,
				Via:                conn,
				HasVia:             true,
				CostSoFar:          tentativeG,
				Heuristic:          h,
				EstimatedTotalCost: tentativeG + h,
			}
			records[conn.To] = record
			heap.Push(openSet, record)
		}
	}

	// No path found
	return []N{}
}

func (a *AStar[N]) estimate(from, to orb.Point) float64 {
	return a.heuristic(math.Abs(to[0]-from[0]), math.Abs(to[1]-from[1]))
}

// reconstruct walks the incoming connections back to the start. A missing
// record means the bookkeeping is corrupt, which is a programming error.
func (a *AStar[N]) reconstruct(records map[int]*nodeRecord, goal *nodeRecord, startIdx int) []N {
	indices := []int{goal.Node}
	for record := goal; record.Node != startIdx; {
		if !record.HasVia || len(indices) > len(records) {
			panic(fmt.Sprintf("graph: inconsistent A* records at node %d", record.Node))
		}
		prev, ok := records[record.Via.From]
		if !ok {
			panic(fmt.Sprintf("graph: no A* record for node %d", record.Via.From))
		}
		record = prev
		indices = append(indices, record.Node)
	}

	path := make([]N, len(indices))
	for i, idx := range indices {
		path[len(indices)-1-i] = a.graph.Node(idx)
	}
	return path
}

// PathCost sums the connection costs along path. It reports false when two
// consecutive nodes are not connected.
func PathCost[N Node](g Interface[N], path []N) (float64, bool) {
	total := 0.0
	for i := 1; i < len(path); i++ {
		found := false
		for _, conn := range g.NodeConnections(path[i-1].Index()) {
			if conn.To == path[i].Index() {
				total += conn.Cost
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return total, true
}
