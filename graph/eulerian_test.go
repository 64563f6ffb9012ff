package graph

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// usesEveryConnectionOnce checks that consecutive path nodes walk each
// undirected connection of g exactly once.
func usesEveryConnectionOnce(t *testing.T, g *Graph[GraphNode2D], path []GraphNode2D) {
	t.Helper()
	require.Len(t, path, g.ConnectionCount()+1)

	used := make(map[[2]int]bool)
	for i := 1; i < len(path); i++ {
		a, b := path[i-1].Index(), path[i].Index()
		_, ok := g.Connection(a, b)
		require.True(t, ok, "%d-%d is not a connection", a, b)
		if a > b {
			a, b = b, a
		}
		require.False(t, used[[2]int{a, b}], "%d-%d walked twice", a, b)
		used[[2]int{a, b}] = true
	}
}

func TestEulerianPath_Circuit(t *testing.T) {
	g := newTestGraph(t, false, orb.Point{0, 0}, orb.Point{1, 0}, orb.Point{1, 1}, orb.Point{0, 1})
	connectAll(t, g, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 0})

	e := NewEulerianPath(g)
	require.Equal(t, Eulerian, e.IsEulerian())

	path := e.FindPath(Eulerian)
	usesEveryConnectionOnce(t, g, path)
	assert.Equal(t, path[0].Index(), path[len(path)-1].Index())
	assert.Equal(t, 4, g.ConnectionCount(), "graph must be left untouched")
}

func TestEulerianPath_Trail(t *testing.T) {
	// square with one diagonal: nodes 0 and 2 have odd degree
	g := newTestGraph(t, false, orb.Point{0, 0}, orb.Point{1, 0}, orb.Point{1, 1}, orb.Point{0, 1})
	connectAll(t, g, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 0}, [2]int{0, 2})

	e := NewEulerianPath(g)
	require.Equal(t, SemiEulerian, e.IsEulerian())

	path := e.FindPath(SemiEulerian)
	usesEveryConnectionOnce(t, g, path)
	ends := []int{path[0].Index(), path[len(path)-1].Index()}
	assert.ElementsMatch(t, []int{0, 2}, ends)
}

func TestEulerianPath_NotEulerian(t *testing.T) {
	// star: four odd-degree leaves
	g := newTestGraph(t, false, orb.Point{0, 0}, orb.Point{1, 0}, orb.Point{-1, 0}, orb.Point{0, 1}, orb.Point{0, -1})
	connectAll(t, g, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3}, [2]int{0, 4})

	e := NewEulerianPath(g)
	assert.Equal(t, NotEulerian, e.IsEulerian())
	assert.Empty(t, e.FindPath(NotEulerian))

	disconnected := newTestGraph(t, false, orb.Point{0, 0}, orb.Point{1, 0}, orb.Point{5, 5})
	connectAll(t, disconnected, [2]int{0, 1})
	assert.Equal(t, NotEulerian, NewEulerianPath(disconnected).IsEulerian())

	assert.Equal(t, "semi-eulerian", SemiEulerian.String())
}

func TestBFS_FewestHops(t *testing.T) {
	g := newTestGraph(t, false,
		orb.Point{0, 0}, orb.Point{1, 0}, orb.Point{2, 0}, orb.Point{3, 0}, orb.Point{1.5, 10},
	)
	connectAll(t, g, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{0, 4}, [2]int{4, 3})

	bfs := NewBFS[GraphNode2D](g)
	assert.Equal(t, []int{0, 4, 3}, indices(bfs.FindPath(g.Node(0), g.Node(3))))
	assert.Equal(t, []int{2}, indices(bfs.FindPath(g.Node(2), g.Node(2))))

	isolated := newTestGraph(t, false, orb.Point{0, 0}, orb.Point{1, 0})
	assert.Empty(t, NewBFS[GraphNode2D](isolated).FindPath(isolated.Node(0), isolated.Node(1)))
}
