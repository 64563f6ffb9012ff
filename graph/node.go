package graph

import "github.com/paulmach/orb"

// GraphNode2D is a plain positioned node.
type GraphNode2D struct {
	Idx int       `json:"index" msgpack:"index"`
	Pos orb.Point `json:"position" msgpack:"position"`
}

// NewGraphNode2D creates a node at pos.
func NewGraphNode2D(idx int, pos orb.Point) GraphNode2D {
	return GraphNode2D{Idx: idx, Pos: pos}
}

func (n GraphNode2D) Index() int          { return n.Idx }
func (n GraphNode2D) Position() orb.Point { return n.Pos }
