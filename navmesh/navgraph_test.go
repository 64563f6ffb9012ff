package navmesh

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"navmesh-planner/geometry"
	"navmesh-planner/graph"
)

func mustPolygon(t *testing.T, triangles [][3]orb.Point) *geometry.Polygon {
	t.Helper()
	p, err := geometry.NewPolygon(triangles)
	require.NoError(t, err)
	return p
}

// 2x1 rectangle, two triangles sharing one diagonal
func rectMesh(t *testing.T) *geometry.Polygon {
	return mustPolygon(t, [][3]orb.Point{
		{{0, 0}, {2, 0}, {0, 1}},
		{{2, 0}, {2, 1}, {0, 1}},
	})
}

// 2x1 strip of four triangles sharing three lines
func stripMesh(t *testing.T) *geometry.Polygon {
	return mustPolygon(t, [][3]orb.Point{
		{{0, 0}, {1, 0}, {0, 1}},
		{{1, 0}, {1, 1}, {0, 1}},
		{{1, 0}, {2, 0}, {1, 1}},
		{{2, 0}, {2, 1}, {1, 1}},
	})
}

// big triangle subdivided at its edge midpoints; the center triangle
// touches three interior lines
func subdividedMesh(t *testing.T) *geometry.Polygon {
	return mustPolygon(t, [][3]orb.Point{
		{{0, 0}, {2, 0}, {0, 2}},
		{{2, 0}, {4, 0}, {2, 2}},
		{{0, 2}, {2, 2}, {0, 4}},
		{{2, 0}, {2, 2}, {0, 2}},
	})
}

// unit-square cells forming an L: three cells east, then two cells north
func lMesh(t *testing.T) *geometry.Polygon {
	var triangles [][3]orb.Point
	for _, c := range []orb.Point{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {2, 2}} {
		x, y := c[0], c[1]
		triangles = append(triangles,
			[3]orb.Point{{x, y}, {x + 1, y}, {x, y + 1}},
			[3]orb.Point{{x + 1, y}, {x + 1, y + 1}, {x, y + 1}},
		)
	}
	return mustPolygon(t, triangles)
}

func interiorLines(mesh *geometry.Polygon) int {
	n := 0
	for _, line := range mesh.Lines() {
		if mesh.IsInteriorLine(line.Index) {
			n++
		}
	}
	return n
}

func TestNavGraph_RectangleHasOneIsolatedNode(t *testing.T) {
	nav := NewNavGraph(rectMesh(t), WithLogger(zaptest.NewLogger(t)))

	require.Equal(t, 1, nav.NodeCount())
	assert.Zero(t, nav.ConnectionCount())

	node := nav.Nodes()[0]
	assert.Equal(t, orb.Point{1, 0.5}, node.Position())
	assert.False(t, node.IsSynthetic())
	assert.Equal(t, node.Index(), nav.NodeIndexFromLineIndex(node.LineIndex()))
}

func TestNavGraph_StripIsPathGraph(t *testing.T) {
	nav := NewNavGraph(stripMesh(t))

	require.Equal(t, 3, nav.NodeCount())
	assert.Equal(t, 2, nav.ConnectionCount())

	positions := map[int]orb.Point{}
	for _, n := range nav.Nodes() {
		positions[n.Index()] = n.Position()
	}
	assert.Equal(t, map[int]orb.Point{0: {0.5, 0.5}, 1: {1, 0.5}, 2: {1.5, 0.5}}, positions)

	g := nav.Graph()
	assert.Len(t, g.NodeConnections(0), 1)
	assert.Len(t, g.NodeConnections(1), 2)
	assert.Len(t, g.NodeConnections(2), 1)
}

func TestNavGraph_ThreeQualifyingLinesFormTriangle(t *testing.T) {
	mesh := subdividedMesh(t)
	nav := NewNavGraph(mesh)

	require.Equal(t, 3, nav.NodeCount())
	require.Equal(t, 3, nav.ConnectionCount())

	center := mesh.Triangle(3)
	var nodes []int
	for _, lineIdx := range center.IndexLines {
		idx := nav.NodeIndexFromLineIndex(lineIdx)
		require.NotEqual(t, graph.InvalidNodeIndex, idx)
		nodes = append(nodes, idx)
	}
	for i := range nodes {
		a, b := nodes[i], nodes[(i+1)%3]
		found := false
		for _, c := range nav.Graph().NodeConnections(a) {
			found = found || c.To == b
		}
		assert.True(t, found, "missing connection %d-%d", a, b)
	}
}

func TestNavGraph_Properties(t *testing.T) {
	meshes := map[string]*geometry.Polygon{
		"rect":       rectMesh(t),
		"strip":      stripMesh(t),
		"subdivided": subdividedMesh(t),
		"L":          lMesh(t),
	}

	for name, mesh := range meshes {
		t.Run(name, func(t *testing.T) {
			nav := NewNavGraph(mesh)
			assert.Equal(t, interiorLines(mesh), nav.NodeCount())

			for _, c := range nav.Connections() {
				from := nav.Graph().Node(c.From).Position()
				to := nav.Graph().Node(c.To).Position()
				assert.InDelta(t, planar.Distance(from, to), c.Cost, 1e-12)
			}

			for _, n := range nav.Nodes() {
				line := mesh.Line(n.LineIndex())
				assert.Equal(t, line.Midpoint(), n.Position())
				assert.True(t, mesh.IsInteriorLine(line.Index))
			}
		})
	}
}

func TestRestoreNavGraph(t *testing.T) {
	mesh := lMesh(t)
	nav := NewNavGraph(mesh)

	restored, err := RestoreNavGraph(mesh, nav.Nodes(), nav.Connections())
	require.NoError(t, err)
	assert.Equal(t, nav.Nodes(), restored.Nodes())
	assert.Equal(t, nav.Connections(), restored.Connections())

	start, end := orb.Point{0.25, 0.5}, orb.Point{2.5, 2.75}
	assert.Equal(t, NewPathfinder(nav).FindPath(start, end), NewPathfinder(restored).FindPath(start, end))

	border := mesh.Triangle(0).IndexLines[0]
	_, err = RestoreNavGraph(mesh, []Node{NewNode(0, border, orb.Point{})}, nil)
	assert.Error(t, err)

	_, err = RestoreNavGraph(mesh, nav.Nodes(), []graph.Connection{{From: 0, To: 99}})
	assert.Error(t, err)
}
