package navmesh

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"go.uber.org/zap"

	"navmesh-planner/geometry"
	"navmesh-planner/graph"
)

// Result is a path query outcome together with its intermediate stages.
// An empty Path means no route exists.
type Result struct {
	Path     []orb.Point // smoothed waypoints handed to movement code
	NodePath []orb.Point // raw A* node positions
	Portals  []Portal    // corridor fed to the funnel
	Cost     float64     // A* cost over NodePath
}

// Pathfinder answers queries against a shared, read-only NavGraph.
// It is safe for concurrent use.
type Pathfinder struct {
	nav       *NavGraph
	heuristic graph.Heuristic
	search    Search
	logger    *zap.Logger
}

func NewPathfinder(nav *NavGraph, opts ...Option) *Pathfinder {
	o := newOptions(opts)
	return &Pathfinder{
		nav:       nav,
		heuristic: o.heuristic,
		search:    o.search,
		logger:    o.logger,
	}
}

// FindPath returns the smoothed path from start to end. Both positions in
// one triangle yield [end]; an empty slice means there is no route.
func (p *Pathfinder) FindPath(start, end orb.Point) []orb.Point {
	return p.Query(start, end).Path
}

// Query runs the full pipeline: locate triangles, augment a private clone
// with synthetic start/end nodes, A*, portals, funnel.
func (p *Pathfinder) Query(start, end orb.Point) Result {
	mesh := p.nav.Mesh()

	startTriangle, okStart := mesh.TriangleFromPosition(start)
	endTriangle, okEnd := mesh.TriangleFromPosition(end)
	if !okStart || !okEnd {
		p.logger.Debug("position outside the navigation mesh",
			zap.Bool("startFound", okStart),
			zap.Bool("endFound", okEnd),
		)
		return Result{Path: []orb.Point{}}
	}

	if startTriangle.Index == endTriangle.Index {
		return Result{Path: []orb.Point{end}}
	}

	// The clone is owned by this call; the static graph never sees the
	// synthetic nodes.
	work := p.nav.Clone()
	startNode := p.addSyntheticNode(work, start, startTriangle)
	endNode := p.addSyntheticNode(work, end, endTriangle)

	nodePath := p.findNodePath(work, startNode, endNode)
	if len(nodePath) == 0 {
		p.logger.Debug("no path on navigation graph",
			zap.Int("startTriangle", startTriangle.Index),
			zap.Int("endTriangle", endTriangle.Index),
		)
		return Result{Path: []orb.Point{}}
	}

	cost, _ := graph.PathCost[Node](work, nodePath)
	positions := make([]orb.Point, len(nodePath))
	for i, n := range nodePath {
		positions[i] = n.Position()
	}

	portals := FindPortals(nodePath, mesh)
	path := OptimizePortals(portals)

	p.logger.Debug("path found",
		zap.Int("nodes", len(nodePath)),
		zap.Int("portals", len(portals)),
		zap.Int("waypoints", len(path)),
		zap.Float64("graphCost", cost),
	)

	return Result{
		Path:     path,
		NodePath: positions,
		Portals:  portals,
		Cost:     cost,
	}
}

func (p *Pathfinder) findNodePath(work *graph.Graph[Node], start, end Node) []Node {
	if p.search == SearchBFS {
		return graph.NewBFS[Node](work).FindPath(start, end)
	}
	return graph.NewAStar[Node](work, p.heuristic).FindPath(start, end)
}

// addSyntheticNode adds a node at pos wired to every existing node on the
// triangle's bounding lines.
func (p *Pathfinder) addSyntheticNode(work *graph.Graph[Node], pos orb.Point, tri geometry.Triangle) Node {
	node := NewNode(work.NextFreeNodeIndex(), InvalidLineIndex, pos)
	if err := work.AddNode(node); err != nil {
		panic(fmt.Sprintf("navmesh: %v", err))
	}

	for _, lineIdx := range tri.IndexLines {
		nodeIdx := p.nav.NodeIndexFromLineIndex(lineIdx)
		if nodeIdx == graph.InvalidNodeIndex {
			continue
		}
		if !work.IsUniqueConnection(node.Index(), nodeIdx) {
			continue
		}
		work.AddConnection(graph.Connection{
			From: node.Index(),
			To:   nodeIdx,
			Cost: planar.Distance(pos, work.Node(nodeIdx).Position()),
		})
	}

	return node
}

// PathLength returns the Euclidean length of a waypoint sequence.
func PathLength(path []orb.Point) float64 {
	return planar.Length(orb.LineString(path))
}
