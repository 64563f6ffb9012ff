package geometry

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2x1 rectangle split along the (2,0)-(0,1) diagonal
func twoTriangleRect(t *testing.T) *Polygon {
	t.Helper()
	p, err := NewPolygon([][3]orb.Point{
		{{0, 0}, {2, 0}, {0, 1}},
		{{2, 0}, {2, 1}, {0, 1}},
	})
	require.NoError(t, err)
	return p
}

func TestNewPolygon_SharesLines(t *testing.T) {
	p := twoTriangleRect(t)

	assert.Equal(t, 2, p.TriangleCount())
	assert.Equal(t, 5, p.LineCount())

	interior := 0
	for _, line := range p.Lines() {
		n := len(p.TrianglesFromLineIndex(line.Index))
		require.True(t, n == 1 || n == 2, "line %d has %d triangles", line.Index, n)
		if n == 2 {
			interior++
			assert.True(t, p.IsInteriorLine(line.Index))
			assert.Equal(t, orb.Point{1, 0.5}, line.Midpoint())
		}
	}
	assert.Equal(t, 1, interior)
}

func TestNewPolygon_TriangleLineIndices(t *testing.T) {
	p := twoTriangleRect(t)

	for _, tri := range p.Triangles() {
		for e, lineIdx := range tri.IndexLines {
			line := p.Line(lineIdx)
			a, b := tri.Points[e], tri.Points[(e+1)%3]
			assert.Equal(t, keyFor(a, b), keyFor(line.P1, line.P2))
		}
	}
}

func TestNewPolygon_Errors(t *testing.T) {
	_, err := NewPolygon(nil)
	assert.ErrorIs(t, err, ErrEmptyMesh)

	_, err = NewPolygon([][3]orb.Point{{{0, 0}, {0, 0}, {1, 1}}})
	assert.ErrorIs(t, err, ErrNotTriangle)

	_, err = NewPolygon([][3]orb.Point{
		{{0, 0}, {1, 0}, {0, 1}},
		{{1, 0}, {0, 1}, {1, 1}},
		{{1, 0}, {0, 1}, {-1, -1}},
	})
	assert.ErrorIs(t, err, ErrNonManifold)
}

func TestNewPolygon_DegenerateTriangleAccepted(t *testing.T) {
	p, err := NewPolygon([][3]orb.Point{{{0, 0}, {1, 0}, {2, 0}}})
	require.NoError(t, err)
	assert.Zero(t, p.Triangle(0).Area())
}

func TestTriangleFromPosition(t *testing.T) {
	p := twoTriangleRect(t)
	assert.Equal(t, 2, p.index.size())

	cases := []struct {
		name  string
		pos   orb.Point
		want  int
		found bool
	}{
		{"first interior", orb.Point{0.2, 0.2}, 0, true},
		{"second interior", orb.Point{1.8, 0.8}, 1, true},
		{"shared edge picks lowest index", orb.Point{1, 0.5}, 0, true},
		{"corner", orb.Point{2, 1}, 1, true},
		{"outside bound", orb.Point{3, 3}, 0, false},
		{"left of mesh", orb.Point{-0.5, 0.5}, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tri, ok := p.TriangleFromPosition(tc.pos)
			require.Equal(t, tc.found, ok)
			if ok {
				assert.Equal(t, tc.want, tri.Index)
			}
		})
	}
}

func TestTriangleContains(t *testing.T) {
	tri := Triangle{Points: [3]orb.Point{{0, 0}, {1, 0}, {0, 1}}}

	assert.True(t, tri.Contains(orb.Point{0.25, 0.25}))
	assert.True(t, tri.Contains(orb.Point{0.5, 0.5}))
	assert.True(t, tri.Contains(orb.Point{0, 0}))
	assert.False(t, tri.Contains(orb.Point{0.6, 0.6}))
	assert.False(t, tri.Contains(orb.Point{-0.1, 0.1}))

	assert.InDelta(t, 0.5, tri.Area(), 1e-12)
	assert.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}, tri.Bound())
}

func TestCrossAndOrientation(t *testing.T) {
	assert.Equal(t, 1.0, Cross(orb.Point{1, 0}, orb.Point{0, 1}))
	assert.Equal(t, -1.0, Cross(orb.Point{0, 1}, orb.Point{1, 0}))
	assert.Positive(t, Orientation(orb.Point{0, 0}, orb.Point{1, 0}, orb.Point{0.5, 1}))
	assert.Negative(t, Orientation(orb.Point{0, 0}, orb.Point{1, 0}, orb.Point{0.5, -1}))
	assert.True(t, NearlyEqual(orb.Point{1, 1}, orb.Point{1 + 1e-12, 1}))
}
