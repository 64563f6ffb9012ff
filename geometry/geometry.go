// Package geometry holds the triangulated walkable-area mesh consumed by the
// navigation graph: lines, triangles, point location and GeoJSON input.
package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Epsilon is the tolerance used by orientation and containment tests.
const Epsilon = 1e-9

// Sub returns a - b.
func Sub(a, b orb.Point) orb.Point {
	return orb.Point{a[0] - b[0], a[1] - b[1]}
}

// Cross returns the z component of the 3D cross product of a and b.
// It is positive when b lies counter-clockwise of a.
func Cross(a, b orb.Point) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b orb.Point) orb.Point {
	return orb.Point{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2}
}

// Orientation calculates the cross product of (b-a) and (c-a).
// Positive means c is left of the directed line a->b.
func Orientation(a, b, c orb.Point) float64 {
	return Cross(Sub(b, a), Sub(c, a))
}

// NearlyEqual reports whether two points coincide within Epsilon.
func NearlyEqual(a, b orb.Point) bool {
	return math.Abs(a[0]-b[0]) <= Epsilon && math.Abs(a[1]-b[1]) <= Epsilon
}

// Line is a mesh edge. Index is stable for the lifetime of the mesh.
type Line struct {
	Index  int
	P1, P2 orb.Point
}

// Midpoint returns the center of the line.
func (l Line) Midpoint() orb.Point {
	return Midpoint(l.P1, l.P2)
}

// Length returns the Euclidean length of the line.
func (l Line) Length() float64 {
	return planar.Distance(l.P1, l.P2)
}

// Triangle is one cell of the mesh. IndexLines references the three
// bounding lines; IndexLines[i] runs from Points[i] to Points[(i+1)%3].
type Triangle struct {
	Index      int
	Points     [3]orb.Point
	IndexLines [3]int
}

// Contains reports whether p lies inside the triangle or on its boundary.
func (t Triangle) Contains(p orb.Point) bool {
	d1 := Orientation(t.Points[0], t.Points[1], p)
	d2 := Orientation(t.Points[1], t.Points[2], p)
	d3 := Orientation(t.Points[2], t.Points[0], p)

	hasNeg := d1 < -Epsilon || d2 < -Epsilon || d3 < -Epsilon
	hasPos := d1 > Epsilon || d2 > Epsilon || d3 > Epsilon

	return !(hasNeg && hasPos)
}

// Area returns the unsigned area.
func (t Triangle) Area() float64 {
	return math.Abs(Orientation(t.Points[0], t.Points[1], t.Points[2])) / 2
}

// Bound returns the axis-aligned bounding box.
func (t Triangle) Bound() orb.Bound {
	return orb.Bound{Min: t.Points[0], Max: t.Points[0]}.
		Extend(t.Points[1]).
		Extend(t.Points[2])
}
