// Package network models a min-cost-flow network over a residual graph:
// per-node excess and potential, per-arc cost and flow, and the reduced-cost
// function the shortest-path engines search under.
//
// The residual graph of a base digraph with E edges has 2E arcs: each base
// edge contributes a forward arc and a reverse (transpose) arc in the opposite
// direction. Two residual views are provided: a closed-form one for
// rectangular grid graphs and a table-driven one for arbitrary CSR graphs.
package network

import (
	"fmt"
	"iter"

	"phaseflow/services/unwrap-svc/internal/graph"
)

// ResidualGraph is a digraph whose arcs are classified into forward/reverse
// pairs. Arc ids index the residual graph; base-graph edge ids index the
// original graph.
type ResidualGraph interface {
	graph.Digraph

	// NumForwardArcs returns NumEdges()/2.
	NumForwardArcs() int

	// IsForwardArc reports whether arc came from the base graph (as opposed to
	// being added for flow reversal).
	IsForwardArc(arc int) bool

	// TransposeArc returns the arc in the opposite direction of the same
	// forward/reverse pair. The transpose of the transpose is the arc itself.
	TransposeArc(arc int) int

	// ForwardEdgeID returns the base-graph edge id of a forward arc.
	// Panics if arc is a reverse arc.
	ForwardEdgeID(arc int) int

	// ResidualArc returns the forward arc id corresponding to a base-graph
	// edge id.
	ResidualArc(edgeID int) int
}

// GridResidual is the residual graph of a rectangular grid graph with
// multiplicity P: a grid graph with multiplicity 2P in which forward arcs
// have even ids and forward/reverse pairing is closed-form, with no lookup
// tables.
//
// With n = NumForwardArcs(), the transpose of arc a is
//
//	forward, a <  n: a + n + 1
//	forward, a >= n: a - n + 1
//	reverse, a <  n: a + n - 1
//	reverse, a >= n: a - n - 1
//
// which pairs each forward up/left/down/right arc with the reverse arc sitting
// next to the opposite-direction forward arc between the same two cells.
type GridResidual struct {
	*graph.RectangularGridGraph
}

// NewGridResidual builds the residual view of a base grid graph.
func NewGridResidual(base *graph.RectangularGridGraph) *GridResidual {
	return &GridResidual{
		RectangularGridGraph: graph.NewRectangularGridGraph(
			base.NumRows(), base.NumCols(), 2*base.Parallel()),
	}
}

// NewGridResidualOfShape builds the residual of a numRows x numCols grid with
// base multiplicity parallel.
func NewGridResidualOfShape(numRows, numCols, parallel int) *GridResidual {
	return &GridResidual{
		RectangularGridGraph: graph.NewRectangularGridGraph(numRows, numCols, 2*parallel),
	}
}

// NumForwardArcs returns the number of base-graph edges.
func (g *GridResidual) NumForwardArcs() int { return g.NumEdges() / 2 }

// IsForwardArc reports whether arc is a forward arc. Every band base and
// parallel-group base is a multiple of 2P, so the global parity of an arc id
// equals its parity within the parallel group: forward arcs are even.
func (g *GridResidual) IsForwardArc(arc int) bool {
	g.checkArc(arc)
	return arc%2 == 0
}

// TransposeArc returns the opposite-direction arc of the same pair.
func (g *GridResidual) TransposeArc(arc int) int {
	g.checkArc(arc)
	n := g.NumForwardArcs()
	if arc%2 == 0 {
		if arc < n {
			return arc + n + 1
		}
		return arc - n + 1
	}
	if arc < n {
		return arc + n - 1
	}
	return arc - n - 1
}

// ForwardEdgeID returns the base-grid edge id of a forward arc. Band layouts
// scale linearly in the multiplicity, so doubling the multiplicity exactly
// doubles every id.
func (g *GridResidual) ForwardEdgeID(arc int) int {
	if !g.IsForwardArc(arc) {
		panic(fmt.Sprintf("network: arc %d is not a forward arc", arc))
	}
	return arc / 2
}

// ResidualArc returns the forward arc id of a base-grid edge.
func (g *GridResidual) ResidualArc(edgeID int) int {
	arc := 2 * edgeID
	g.checkArc(arc)
	return arc
}

func (g *GridResidual) checkArc(arc int) {
	if !g.ContainsEdge(arc) {
		panic(fmt.Sprintf("network: arc %d out of range [0,%d)", arc, g.NumEdges()))
	}
}

// CSRResidual is the residual graph of an arbitrary CSR digraph. It stores its
// own CSR adjacency over 2E arcs plus three lookup tables: forward/reverse
// classification, the base edge id of each forward arc, and forward/reverse
// transpose pairing.
type CSRResidual struct {
	offsets   []int
	heads     []int
	isForward []bool
	edgeID    []int // base edge id per arc (forward and reverse share it)
	transpose []int
	fwdArc    []int // forward arc id per base edge
}

// NewCSRResidual builds the residual view of a base CSR graph. For each base
// edge (u, v) a forward arc u->v and a reverse arc v->u are created; arcs are
// then laid out in CSR order by tail.
func NewCSRResidual(base *graph.CSRGraph) *CSRResidual {
	numVertices := base.NumVertices()
	numArcs := 2 * base.NumEdges()

	type preArc struct {
		tail, head, edge int
		forward          bool
	}
	pres := make([]preArc, 0, numArcs)
	for u := 0; u < numVertices; u++ {
		for e, v := range base.OutgoingEdges(u) {
			pres = append(pres, preArc{tail: u, head: v, edge: e, forward: true})
			pres = append(pres, preArc{tail: v, head: u, edge: e, forward: false})
		}
	}

	// Counting sort by tail keeps construction order within each tail.
	counts := make([]int, numVertices+1)
	for _, p := range pres {
		counts[p.tail+1]++
	}
	for v := 0; v < numVertices; v++ {
		counts[v+1] += counts[v]
	}
	offsets := make([]int, numVertices+1)
	copy(offsets, counts)

	r := &CSRResidual{
		offsets:   offsets,
		heads:     make([]int, numArcs),
		isForward: make([]bool, numArcs),
		edgeID:    make([]int, numArcs),
		transpose: make([]int, numArcs),
		fwdArc:    make([]int, base.NumEdges()),
	}

	next := make([]int, numVertices)
	for v := 0; v < numVertices; v++ {
		next[v] = offsets[v]
	}
	revArc := make([]int, base.NumEdges())
	for _, p := range pres {
		arc := next[p.tail]
		next[p.tail]++
		r.heads[arc] = p.head
		r.isForward[arc] = p.forward
		r.edgeID[arc] = p.edge
		if p.forward {
			r.fwdArc[p.edge] = arc
		} else {
			revArc[p.edge] = arc
		}
	}
	for e := 0; e < base.NumEdges(); e++ {
		r.transpose[r.fwdArc[e]] = revArc[e]
		r.transpose[revArc[e]] = r.fwdArc[e]
	}

	return r
}

// NumVertices returns the number of vertices.
func (r *CSRResidual) NumVertices() int { return len(r.offsets) - 1 }

// NumEdges returns the number of residual arcs (2E).
func (r *CSRResidual) NumEdges() int { return len(r.heads) }

// NumForwardArcs returns the number of base-graph edges.
func (r *CSRResidual) NumForwardArcs() int { return len(r.heads) / 2 }

// ContainsVertex reports whether v is a valid vertex id.
func (r *CSRResidual) ContainsVertex(v int) bool {
	return v >= 0 && v < r.NumVertices()
}

// ContainsEdge reports whether arc is a valid residual arc id.
func (r *CSRResidual) ContainsEdge(arc int) bool {
	return arc >= 0 && arc < r.NumEdges()
}

// Outdegree returns the number of outgoing residual arcs of v.
func (r *CSRResidual) Outdegree(v int) int {
	r.checkVertex(v)
	return r.offsets[v+1] - r.offsets[v]
}

// OutgoingEdges yields (arc, head) pairs for every residual arc with tail v.
func (r *CSRResidual) OutgoingEdges(v int) iter.Seq2[int, int] {
	r.checkVertex(v)
	return func(yield func(int, int) bool) {
		for a := r.offsets[v]; a < r.offsets[v+1]; a++ {
			if !yield(a, r.heads[a]) {
				return
			}
		}
	}
}

// IsForwardArc reports whether arc came from the base graph.
func (r *CSRResidual) IsForwardArc(arc int) bool {
	r.checkArc(arc)
	return r.isForward[arc]
}

// TransposeArc returns the opposite-direction arc of the same pair.
func (r *CSRResidual) TransposeArc(arc int) int {
	r.checkArc(arc)
	return r.transpose[arc]
}

// ForwardEdgeID returns the base-graph edge id of a forward arc.
func (r *CSRResidual) ForwardEdgeID(arc int) int {
	if !r.IsForwardArc(arc) {
		panic(fmt.Sprintf("network: arc %d is not a forward arc", arc))
	}
	return r.edgeID[arc]
}

// ResidualArc returns the forward arc id of a base-graph edge.
func (r *CSRResidual) ResidualArc(edgeID int) int {
	if edgeID < 0 || edgeID >= len(r.fwdArc) {
		panic(fmt.Sprintf("network: edge %d out of range [0,%d)", edgeID, len(r.fwdArc)))
	}
	return r.fwdArc[edgeID]
}

func (r *CSRResidual) checkVertex(v int) {
	if !r.ContainsVertex(v) {
		panic(fmt.Sprintf("network: vertex %d out of range [0,%d)", v, r.NumVertices()))
	}
}

func (r *CSRResidual) checkArc(arc int) {
	if !r.ContainsEdge(arc) {
		panic(fmt.Sprintf("network: arc %d out of range [0,%d)", arc, r.NumEdges()))
	}
}
