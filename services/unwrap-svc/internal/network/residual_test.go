package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phaseflow/services/unwrap-svc/internal/graph"
)

func TestGridResidualShape(t *testing.T) {
	base := graph.NewRectangularGridGraph(3, 4, 1)
	r := NewGridResidual(base)

	assert.Equal(t, base.NumVertices(), r.NumVertices())
	assert.Equal(t, 2*base.NumEdges(), r.NumEdges())
	assert.Equal(t, base.NumEdges(), r.NumForwardArcs())
	assert.Equal(t, 2, r.Parallel())
}

func TestGridResidualForwardClassification(t *testing.T) {
	r := NewGridResidualOfShape(3, 3, 1)

	forward := 0
	for a := 0; a < r.NumEdges(); a++ {
		if r.IsForwardArc(a) {
			forward++
			assert.Equal(t, 0, a%2)
		}
	}
	assert.Equal(t, r.NumForwardArcs(), forward)
}

// The transpose of the transpose of any arc is the arc itself, the transpose
// has opposite orientation, and it connects the same pair of cells in the
// opposite direction.
func TestGridResidualTransposeInvolution(t *testing.T) {
	for _, shape := range [][3]int{{2, 2, 1}, {3, 4, 1}, {4, 3, 2}} {
		r := NewGridResidualOfShape(shape[0], shape[1], shape[2])

		// Head/tail by arc, from the adjacency.
		tail := make([]int, r.NumEdges())
		head := make([]int, r.NumEdges())
		for v := 0; v < r.NumVertices(); v++ {
			for a, h := range r.OutgoingEdges(v) {
				tail[a] = v
				head[a] = h
			}
		}

		for a := 0; a < r.NumEdges(); a++ {
			tr := r.TransposeArc(a)
			require.True(t, r.ContainsEdge(tr))
			require.NotEqual(t, a, tr)
			assert.Equal(t, a, r.TransposeArc(tr), "involution broken for arc %d", a)
			assert.NotEqual(t, r.IsForwardArc(a), r.IsForwardArc(tr))
			assert.Equal(t, tail[a], head[tr], "arc %d", a)
			assert.Equal(t, head[a], tail[tr], "arc %d", a)
		}
	}
}

func TestGridResidualEdgeIDRoundTrip(t *testing.T) {
	base := graph.NewRectangularGridGraph(3, 4, 1)
	r := NewGridResidual(base)

	for e := 0; e < base.NumEdges(); e++ {
		arc := r.ResidualArc(e)
		require.True(t, r.IsForwardArc(arc))
		assert.Equal(t, e, r.ForwardEdgeID(arc))
	}

	// Forward arcs of the residual correspond position-for-position to base
	// edges: same tail, same head.
	baseTail := make(map[int][2]int)
	for v := 0; v < base.NumVertices(); v++ {
		for e, h := range base.OutgoingEdges(v) {
			baseTail[e] = [2]int{v, h}
		}
	}
	for v := 0; v < r.NumVertices(); v++ {
		for a, h := range r.OutgoingEdges(v) {
			if !r.IsForwardArc(a) {
				continue
			}
			want := baseTail[r.ForwardEdgeID(a)]
			assert.Equal(t, want, [2]int{v, h})
		}
	}
}

func csrDiamond() *graph.CSRGraph {
	l := graph.NewEdgeList()
	l.AddEdge(0, 1)
	l.AddEdge(0, 2)
	l.AddEdge(1, 3)
	l.AddEdge(2, 3)
	return graph.NewCSRGraph(l)
}

func TestCSRResidualStructure(t *testing.T) {
	base := csrDiamond()
	r := NewCSRResidual(base)

	assert.Equal(t, 4, r.NumVertices())
	assert.Equal(t, 8, r.NumEdges())
	assert.Equal(t, 4, r.NumForwardArcs())

	// Each vertex gains the reverse arcs of its incoming edges.
	assert.Equal(t, 2, r.Outdegree(0)) // two forward
	assert.Equal(t, 2, r.Outdegree(1)) // one forward, one reverse
	assert.Equal(t, 2, r.Outdegree(2))
	assert.Equal(t, 2, r.Outdegree(3)) // two reverse
}

func TestCSRResidualTransposeInvolution(t *testing.T) {
	r := NewCSRResidual(csrDiamond())

	tail := make([]int, r.NumEdges())
	head := make([]int, r.NumEdges())
	for v := 0; v < r.NumVertices(); v++ {
		for a, h := range r.OutgoingEdges(v) {
			tail[a] = v
			head[a] = h
		}
	}

	forward := 0
	for a := 0; a < r.NumEdges(); a++ {
		tr := r.TransposeArc(a)
		assert.Equal(t, a, r.TransposeArc(tr))
		assert.NotEqual(t, r.IsForwardArc(a), r.IsForwardArc(tr))
		assert.Equal(t, tail[a], head[tr])
		assert.Equal(t, head[a], tail[tr])
		if r.IsForwardArc(a) {
			forward++
			assert.Equal(t, a, r.ResidualArc(r.ForwardEdgeID(a)))
		}
	}
	assert.Equal(t, 4, forward)
}
