package geometry

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// triangleEntry wraps a triangle index for R-tree storage
type triangleEntry struct {
	Index int
	BBox  rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *triangleEntry) Bounds() rtreego.Rect {
	return e.BBox
}

// spatialIndex answers "which triangles could contain this point" queries
type spatialIndex struct {
	tree *rtreego.Rtree
}

func newSpatialIndex(triangles []Triangle) *spatialIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	for _, t := range triangles {
		bbox, err := boundingRect(t.Bound())
		if err == nil {
			tree.Insert(&triangleEntry{Index: t.Index, BBox: bbox})
		}
	}

	return &spatialIndex{tree: tree}
}

// candidates returns the indices of triangles whose bounding box touches p,
// in ascending order.
func (si *spatialIndex) candidates(p orb.Point) []int {
	results := si.tree.SearchIntersect(rtreego.Point{p[0], p[1]}.ToRect(Epsilon))

	indices := make([]int, 0, len(results))
	for _, item := range results {
		indices = append(indices, item.(*triangleEntry).Index)
	}
	sort.Ints(indices)

	return indices
}

func (si *spatialIndex) size() int {
	return si.tree.Size()
}

// boundingRect converts a bound to an R-tree rectangle. Zero extents are
// padded because rtreego rejects non-positive side lengths.
func boundingRect(b orb.Bound) (rtreego.Rect, error) {
	width := max(b.Max[0]-b.Min[0], Epsilon)
	height := max(b.Max[1]-b.Min[1], Epsilon)

	return rtreego.NewRect(
		rtreego.Point{b.Min[0], b.Min[1]},
		[]float64{width, height},
	)
}
