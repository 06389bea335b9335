package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridGraphCounts(t *testing.T) {
	tests := []struct {
		name                 string
		rows, cols, parallel int
		wantVertices         int
		wantEdges            int
	}{
		{name: "1x1", rows: 1, cols: 1, parallel: 1, wantVertices: 1, wantEdges: 0},
		{name: "2x2_p1", rows: 2, cols: 2, parallel: 1, wantVertices: 4, wantEdges: 8},
		{name: "2x2_p2", rows: 2, cols: 2, parallel: 2, wantVertices: 4, wantEdges: 16},
		{name: "3x4_p1", rows: 3, cols: 4, parallel: 1, wantVertices: 12, wantEdges: 34},
		{name: "4x3_p3", rows: 4, cols: 3, parallel: 3, wantVertices: 12, wantEdges: 102},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewRectangularGridGraph(tt.rows, tt.cols, tt.parallel)
			assert.Equal(t, tt.wantVertices, g.NumVertices())
			assert.Equal(t, tt.wantEdges, g.NumEdges())
		})
	}
}

func TestGridGraphVertexIDs(t *testing.T) {
	g := NewRectangularGridGraph(3, 4, 1)

	assert.Equal(t, 0, g.VertexID(0, 0))
	assert.Equal(t, 5, g.VertexID(1, 1))
	assert.Equal(t, 11, g.VertexID(2, 3))

	for v := 0; v < g.NumVertices(); v++ {
		i, j := g.Cell(v)
		assert.Equal(t, v, g.VertexID(i, j))
	}

	assert.Panics(t, func() { g.VertexID(3, 0) })
	assert.Panics(t, func() { g.VertexID(0, 4) })
}

func TestGridGraphOutdegree(t *testing.T) {
	for _, parallel := range []int{1, 2} {
		g := NewRectangularGridGraph(3, 3, parallel)

		// Corners.
		for _, c := range [][2]int{{0, 0}, {0, 2}, {2, 0}, {2, 2}} {
			assert.Equal(t, 2*parallel, g.Outdegree(g.VertexID(c[0], c[1])))
		}
		// Edges.
		for _, c := range [][2]int{{0, 1}, {1, 0}, {1, 2}, {2, 1}} {
			assert.Equal(t, 3*parallel, g.Outdegree(g.VertexID(c[0], c[1])))
		}
		// Interior.
		assert.Equal(t, 4*parallel, g.Outdegree(g.VertexID(1, 1)))
	}
}

func TestGridGraphEdgeLayout(t *testing.T) {
	// 2x3 grid, P=1: u = 3, l = 4; bands up=[0,3), left=[3,7), down=[7,10),
	// right=[10,14).
	g := NewRectangularGridGraph(2, 3, 1)
	require.Equal(t, 14, g.NumEdges())

	assert.Equal(t, 0, g.UpEdge(1, 0))
	assert.Equal(t, 2, g.UpEdge(1, 2))
	assert.Equal(t, 3, g.LeftEdge(0, 1))
	assert.Equal(t, 6, g.LeftEdge(1, 2))
	assert.Equal(t, 7, g.DownEdge(0, 0))
	assert.Equal(t, 9, g.DownEdge(0, 2))
	assert.Equal(t, 10, g.RightEdge(0, 0))
	assert.Equal(t, 13, g.RightEdge(1, 1))

	assert.Panics(t, func() { g.UpEdge(0, 0) })
	assert.Panics(t, func() { g.LeftEdge(0, 0) })
	assert.Panics(t, func() { g.DownEdge(1, 0) })
	assert.Panics(t, func() { g.RightEdge(0, 2) })
}

func TestGridGraphOutgoingEdges(t *testing.T) {
	g := NewRectangularGridGraph(3, 3, 2)

	// Interior vertex (1,1): up, left, down, right with two parallel edges
	// each, consecutive ids.
	var edges, heads []int
	for e, h := range g.OutgoingEdges(g.VertexID(1, 1)) {
		edges = append(edges, e)
		heads = append(heads, h)
	}
	require.Len(t, edges, 8)

	assert.Equal(t, []int{
		g.VertexID(0, 1), g.VertexID(0, 1),
		g.VertexID(1, 0), g.VertexID(1, 0),
		g.VertexID(2, 1), g.VertexID(2, 1),
		g.VertexID(1, 2), g.VertexID(1, 2),
	}, heads)

	assert.Equal(t, g.UpEdge(1, 1), edges[0])
	assert.Equal(t, g.UpEdge(1, 1)+1, edges[1])
	assert.Equal(t, g.LeftEdge(1, 1), edges[2])
	assert.Equal(t, g.DownEdge(1, 1), edges[4])
	assert.Equal(t, g.RightEdge(1, 1), edges[6])
	assert.Equal(t, g.RightEdge(1, 1)+1, edges[7])
}

// Every edge id in [0, E) must be yielded exactly once across all vertices,
// and Outdegree must agree with the enumeration.
func TestGridGraphEdgeIDsAreDense(t *testing.T) {
	for _, tt := range []struct{ rows, cols, parallel int }{
		{2, 2, 1}, {3, 4, 1}, {4, 3, 2}, {1, 5, 2}, {5, 1, 1},
	} {
		g := NewRectangularGridGraph(tt.rows, tt.cols, tt.parallel)
		seen := make([]bool, g.NumEdges())
		total := 0
		for v := 0; v < g.NumVertices(); v++ {
			count := 0
			for e, h := range g.OutgoingEdges(v) {
				require.True(t, g.ContainsEdge(e))
				require.True(t, g.ContainsVertex(h))
				require.False(t, seen[e], "edge %d yielded twice", e)
				seen[e] = true
				count++
				total++
			}
			assert.Equal(t, g.Outdegree(v), count)
		}
		assert.Equal(t, g.NumEdges(), total)
	}
}
