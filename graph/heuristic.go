package graph

import (
	"fmt"
	"math"
	"strings"
)

// Heuristic estimates the remaining cost from the absolute axis deltas to
// the goal. Euclidean is admissible for distance-costed graphs; Manhattan
// and SqrtEuclidean overestimate and trade optimality for fewer expansions.
type Heuristic func(dx, dy float64) float64

func Manhattan(dx, dy float64) float64 {
	return dx + dy
}

func Euclidean(dx, dy float64) float64 {
	return math.Sqrt(dx*dx + dy*dy)
}

// SqrtEuclidean is the squared distance; cheap but strongly inadmissible.
func SqrtEuclidean(dx, dy float64) float64 {
	return dx*dx + dy*dy
}

func Octile(dx, dy float64) float64 {
	f := math.Sqrt2 - 1
	if dx < dy {
		return f*dx + dy
	}
	return f*dy + dx
}

func Chebyshev(dx, dy float64) float64 {
	return math.Max(dx, dy)
}

// HeuristicByName resolves a configured heuristic name.
func HeuristicByName(name string) (Heuristic, error) {
	switch strings.ToLower(name) {
	case "", "euclidean":
		return Euclidean, nil
	case "manhattan":
		return Manhattan, nil
	case "sqrteuclidean", "squared":
		return SqrtEuclidean, nil
	case "octile":
		return Octile, nil
	case "chebyshev":
		return Chebyshev, nil
	default:
		return nil, fmt.Errorf("unknown heuristic: %q", name)
	}
}
