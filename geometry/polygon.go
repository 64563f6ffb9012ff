package geometry

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

var (
	ErrEmptyMesh   = errors.New("mesh has no triangles")
	ErrNotTriangle = errors.New("not a triangle")
	ErrNonManifold = errors.New("line shared by more than two triangles")
)

// Polygon is a triangulated walkable area. Obstacle holes are expected to be
// subtracted and inflated by the agent radius before triangulation.
// A Polygon is immutable once built and safe for concurrent reads.
type Polygon struct {
	lines         []Line
	triangles     []Triangle
	lineTriangles [][]int
	bound         orb.Bound
	index         *spatialIndex
}

// lineKey identifies an undirected line by its ordered endpoints
type lineKey [2]orb.Point

func keyFor(a, b orb.Point) lineKey {
	if b[0] < a[0] || (b[0] == a[0] && b[1] < a[1]) {
		a, b = b, a
	}
	return lineKey{a, b}
}

// NewPolygon builds a mesh from a triangle soup. Lines are shared between
// triangles whose vertices coincide exactly.
func NewPolygon(triangles [][3]orb.Point) (*Polygon, error) {
	if len(triangles) == 0 {
		return nil, ErrEmptyMesh
	}

	p := &Polygon{
		triangles: make([]Triangle, 0, len(triangles)),
		bound:     orb.Bound{Min: triangles[0][0], Max: triangles[0][0]},
	}
	lookup := make(map[lineKey]int)

	for i, pts := range triangles {
		if pts[0] == pts[1] || pts[1] == pts[2] || pts[2] == pts[0] {
			return nil, fmt.Errorf("triangle %d has coincident vertices: %w", i, ErrNotTriangle)
		}

		tri := Triangle{Index: i, Points: pts}
		for e := 0; e < 3; e++ {
			a, b := pts[e], pts[(e+1)%3]
			key := keyFor(a, b)

			idx, ok := lookup[key]
			if !ok {
				idx = len(p.lines)
				p.lines = append(p.lines, Line{Index: idx, P1: a, P2: b})
				p.lineTriangles = append(p.lineTriangles, nil)
				lookup[key] = idx
			}
			if len(p.lineTriangles[idx]) == 2 {
				return nil, fmt.Errorf("line %d (triangle %d): %w", idx, i, ErrNonManifold)
			}

			tri.IndexLines[e] = idx
			p.lineTriangles[idx] = append(p.lineTriangles[idx], i)
			p.bound = p.bound.Extend(a)
		}
		p.triangles = append(p.triangles, tri)
	}

	p.index = newSpatialIndex(p.triangles)

	return p, nil
}

// Lines returns every line of the mesh ordered by index.
func (p *Polygon) Lines() []Line {
	lines := make([]Line, len(p.lines))
	copy(lines, p.lines)
	return lines
}

// Line returns the line with the given index. It panics on an index that
// does not belong to the mesh.
func (p *Polygon) Line(idx int) Line {
	return p.lines[idx]
}

// LineCount returns the number of distinct lines.
func (p *Polygon) LineCount() int {
	return len(p.lines)
}

// Triangles returns every triangle ordered by index.
func (p *Polygon) Triangles() []Triangle {
	triangles := make([]Triangle, len(p.triangles))
	copy(triangles, p.triangles)
	return triangles
}

// Triangle returns the triangle with the given index.
func (p *Polygon) Triangle(idx int) Triangle {
	return p.triangles[idx]
}

// TriangleCount returns the number of triangles.
func (p *Polygon) TriangleCount() int {
	return len(p.triangles)
}

// TrianglesFromLineIndex returns the triangles bounded by the line: two for
// an interior line, one for a border line.
func (p *Polygon) TrianglesFromLineIndex(lineIdx int) []Triangle {
	if lineIdx < 0 || lineIdx >= len(p.lineTriangles) {
		return nil
	}

	triangles := make([]Triangle, 0, len(p.lineTriangles[lineIdx]))
	for _, t := range p.lineTriangles[lineIdx] {
		triangles = append(triangles, p.triangles[t])
	}
	return triangles
}

// IsInteriorLine reports whether the line is shared by two triangles.
func (p *Polygon) IsInteriorLine(lineIdx int) bool {
	return lineIdx >= 0 && lineIdx < len(p.lineTriangles) && len(p.lineTriangles[lineIdx]) == 2
}

// TriangleFromPosition returns the triangle containing pos. Points on a
// shared line or vertex resolve to the lowest triangle index.
func (p *Polygon) TriangleFromPosition(pos orb.Point) (Triangle, bool) {
	if !p.bound.Pad(Epsilon).Contains(pos) {
		return Triangle{}, false
	}

	for _, idx := range p.index.candidates(pos) {
		if p.triangles[idx].Contains(pos) {
			return p.triangles[idx], true
		}
	}

	return Triangle{}, false
}

// Bound returns the bounding box of the whole mesh.
func (p *Polygon) Bound() orb.Bound {
	return p.bound
}

// TrianglePoints returns the raw vertex triples, e.g. for persistence.
func (p *Polygon) TrianglePoints() [][3]orb.Point {
	points := make([][3]orb.Point, len(p.triangles))
	for i, t := range p.triangles {
		points[i] = t.Points
	}
	return points
}
