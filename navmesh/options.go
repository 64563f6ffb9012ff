package navmesh

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"navmesh-planner/graph"
)

// Search selects the graph search run by a Pathfinder.
type Search int

const (
	// SearchAStar finds the cheapest node path.
	SearchAStar Search = iota
	// SearchBFS finds the node path crossing the fewest lines, ignoring costs.
	SearchBFS
)

func (s Search) String() string {
	switch s {
	case SearchAStar:
		return "astar"
	case SearchBFS:
		return "bfs"
	default:
		return fmt.Sprintf("Search(%d)", int(s))
	}
}

// SearchByName maps "astar" (or "") and "bfs" to a Search.
func SearchByName(name string) (Search, error) {
	switch strings.ToLower(name) {
	case "", "astar":
		return SearchAStar, nil
	case "bfs":
		return SearchBFS, nil
	default:
		return SearchAStar, fmt.Errorf("unknown search algorithm: %q", name)
	}
}

type options struct {
	logger    *zap.Logger
	heuristic graph.Heuristic
	search    Search
}

// Option configures a NavGraph or a Pathfinder.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithHeuristic selects the A* heuristic. The default is graph.Euclidean,
// which keeps paths optimal on distance-costed graphs.
func WithHeuristic(h graph.Heuristic) Option {
	return func(o *options) {
		if h != nil {
			o.heuristic = h
		}
	}
}

// WithSearch selects the graph search. The default is SearchAStar.
func WithSearch(s Search) Option {
	return func(o *options) {
		o.search = s
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:    zap.NewNop(),
		heuristic: graph.Euclidean,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
