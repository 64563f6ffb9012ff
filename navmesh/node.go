package navmesh

import "github.com/paulmach/orb"

// InvalidLineIndex tags a node that does not sit on a mesh line, i.e. a
// synthetic start or end node.
const InvalidLineIndex = -1

// Node sits at the midpoint of an interior mesh line.
type Node struct {
	index     int
	lineIndex int
	position  orb.Point
}

func NewNode(index, lineIndex int, position orb.Point) Node {
	return Node{index: index, lineIndex: lineIndex, position: position}
}

func (n Node) Index() int          { return n.index }
func (n Node) LineIndex() int      { return n.lineIndex }
func (n Node) Position() orb.Point { return n.position }

// IsSynthetic reports whether the node was added for a single query.
func (n Node) IsSynthetic() bool {
	return n.lineIndex == InvalidLineIndex
}
