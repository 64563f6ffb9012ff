package navmesh

import (
	"math"

	"github.com/paulmach/orb"
)

// SimplifyPath reduces a polyline with the Douglas-Peucker algorithm. With a
// tiny epsilon it only drops collinear vertices, which keeps a funnel path
// inside its corridor; larger values may cut corners.
func SimplifyPath(points []orb.Point, epsilon float64) []orb.Point {
	if len(points) <= 2 {
		return points
	}
	return douglasPeucker(points, epsilon)
}

// douglasPeucker implements the Douglas-Peucker line simplification algorithm
func douglasPeucker(points []orb.Point, epsilon float64) []orb.Point {
	if len(points) <= 2 {
		return points
	}

	// Find the point with maximum distance from line between first and last
	dmax := 0.0
	index := 0
	end := len(points) - 1

	for i := 1; i < end; i++ {
		d := perpendicularDistance(points[i], points[0], points[end])
		if d > dmax {
			index = i
			dmax = d
		}
	}

	if dmax > epsilon {
		left := douglasPeucker(points[0:index+1], epsilon)
		right := douglasPeucker(points[index:], epsilon)

		// Combine results (removing duplicate point at index)
		result := make([]orb.Point, 0, len(left)+len(right)-1)
		result = append(result, left[:len(left)-1]...)
		result = append(result, right...)
		return result
	}

	// All points in between can be discarded
	return []orb.Point{points[0], points[end]}
}

// perpendicularDistance calculates distance from point to the line through
// lineStart and lineEnd; degenerate lines fall back to point distance.
func perpendicularDistance(point, lineStart, lineEnd orb.Point) float64 {
	dx := lineEnd[0] - lineStart[0]
	dy := lineEnd[1] - lineStart[1]

	// Normalize
	mag := math.Sqrt(dx*dx + dy*dy)
	if mag > 0 {
		dx /= mag
		dy /= mag
	}

	pvx := point[0] - lineStart[0]
	pvy := point[1] - lineStart[1]

	// Project pv onto the normalized direction and take the remainder
	pvdot := dx*pvx + dy*pvy
	ax := pvx - pvdot*dx
	ay := pvy - pvdot*dy

	return math.Sqrt(ax*ax + ay*ay)
}
