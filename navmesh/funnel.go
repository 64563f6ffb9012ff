package navmesh

import (
	"github.com/paulmach/orb"

	"navmesh-planner/geometry"
)

// Portal is a mesh line crossed by a path, oriented so Right and Left are
// on the right and left hand of a walker going along the path.
// The first and last portals of a corridor collapse to the start and end.
type Portal struct {
	Right orb.Point `json:"right"`
	Left  orb.Point `json:"left"`
}

// FindPortals converts an A* node path into the corridor of lines it
// crosses, bracketed by zero-width portals at the first and last node.
func FindPortals(nodePath []Node, mesh *geometry.Polygon) []Portal {
	if len(nodePath) == 0 {
		return []Portal{}
	}

	first := nodePath[0].Position()
	portals := make([]Portal, 0, len(nodePath))
	portals = append(portals, Portal{Right: first, Left: first})

	for i := 1; i < len(nodePath)-1; i++ {
		node := nodePath[i]
		if node.IsSynthetic() {
			continue
		}

		line := mesh.Line(node.LineIndex())
		previous := nodePath[i-1].Position()

		// P1 left of the walking direction means the walker sees P2 on its right
		cross := geometry.Cross(
			geometry.Sub(line.Midpoint(), previous),
			geometry.Sub(line.P1, previous),
		)
		if cross > 0 {
			portals = append(portals, Portal{Right: line.P2, Left: line.P1})
		} else {
			portals = append(portals, Portal{Right: line.P1, Left: line.P2})
		}
	}

	last := nodePath[len(nodePath)-1].Position()
	portals = append(portals, Portal{Right: last, Left: last})

	return portals
}

// funnel is the state of the string-pulling walk over a portal corridor:
// the apex and the two leg end points, each with the portal index they
// were taken from.
type funnel struct {
	apex, left, right          orb.Point
	apexIdx, leftIdx, rightIdx int
}

// restart collapses the funnel onto a new apex. The apex index only ever
// grows, which bounds the number of restarts by the number of portals.
func (f *funnel) restart(apex orb.Point, idx int) {
	if idx <= f.apexIdx {
		idx = f.apexIdx + 1
	}
	f.apex, f.left, f.right = apex, apex, apex
	f.apexIdx, f.leftIdx, f.rightIdx = idx, idx, idx
}

// OptimizePortals runs the simple stupid funnel algorithm and returns the
// shortest polyline through the corridor, from the first portal to the last.
func OptimizePortals(portals []Portal) []orb.Point {
	switch len(portals) {
	case 0:
		return []orb.Point{}
	case 1:
		return []orb.Point{portals[0].Left}
	}

	start := portals[0].Left
	f := funnel{apex: start, left: start, right: start}
	path := []orb.Point{start}

	for i := 1; i < len(portals); i++ {
		left, right := portals[i].Left, portals[i].Right

		// Right leg: narrow it if the new point is not outside the funnel
		if geometry.Orientation(f.apex, f.right, right) >= 0 {
			if geometry.NearlyEqual(f.apex, f.right) || geometry.Orientation(f.apex, f.left, right) < 0 {
				f.right, f.rightIdx = right, i
			} else {
				// Crossed over the left leg: its end is a corner of the path
				path = appendVertex(path, f.left)
				f.restart(f.left, f.leftIdx)
				i = f.apexIdx
				continue
			}
		}

		// Left leg
		if geometry.Orientation(f.apex, f.left, left) <= 0 {
			if geometry.NearlyEqual(f.apex, f.left) || geometry.Orientation(f.apex, f.right, left) > 0 {
				f.left, f.leftIdx = left, i
			} else {
				path = appendVertex(path, f.right)
				f.restart(f.right, f.rightIdx)
				i = f.apexIdx
				continue
			}
		}
	}

	path = appendVertex(path, portals[len(portals)-1].Left)

	return SimplifyPath(path, geometry.Epsilon)
}

func appendVertex(path []orb.Point, p orb.Point) []orb.Point {
	if len(path) > 0 && geometry.NearlyEqual(path[len(path)-1], p) {
		return path
	}
	return append(path, p)
}
