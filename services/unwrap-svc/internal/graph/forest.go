package graph

import (
	"fmt"
	"iter"
)

// Forest stores a predecessor vertex, predecessor edge and depth for every
// vertex of a graph. Every vertex starts as a root (its own predecessor at
// depth zero); shortest-path engines grow trees by setting predecessors.
//
// Invariants: v is a root iff PredecessorVertex(v) == v and Depth(v) == 0;
// otherwise Depth(v) == Depth(PredecessorVertex(v)) + 1 and the predecessor
// chain of v terminates at a root. SetPredecessor does not detect cycles:
// it takes the new predecessor's current depth as final, so callers attach v
// only below a vertex whose chain does not pass through v.
type Forest struct {
	g          Digraph
	predVertex []int
	predEdge   []int
	depth      []int
}

// NewForest creates a forest over g with every vertex a root.
func NewForest(g Digraph) *Forest {
	n := g.NumVertices()
	f := &Forest{
		g:          g,
		predVertex: make([]int, n),
		predEdge:   make([]int, n),
		depth:      make([]int, n),
	}
	for v := 0; v < n; v++ {
		f.predVertex[v] = v
	}
	return f
}

// Graph returns the graph the forest is defined over.
func (f *Forest) Graph() Digraph { return f.g }

// PredecessorVertex returns the parent of v, or v itself if v is a root.
func (f *Forest) PredecessorVertex(v int) int {
	f.checkVertex(v)
	return f.predVertex[v]
}

// PredecessorEdge returns the edge from the parent of v to v. The value is
// meaningless for roots.
func (f *Forest) PredecessorEdge(v int) int {
	f.checkVertex(v)
	return f.predEdge[v]
}

// Predecessor returns the (parent vertex, incoming edge) pair of v.
func (f *Forest) Predecessor(v int) (int, int) {
	f.checkVertex(v)
	return f.predVertex[v], f.predEdge[v]
}

// IsRoot reports whether v is a root.
func (f *Forest) IsRoot(v int) bool {
	f.checkVertex(v)
	return f.predVertex[v] == v
}

// Depth returns the number of edges on the path from v to its root.
func (f *Forest) Depth(v int) int {
	f.checkVertex(v)
	return f.depth[v]
}

// SetPredecessor makes u the parent of v via edge e.
func (f *Forest) SetPredecessor(v, u, e int) {
	f.checkVertex(v)
	f.checkVertex(u)
	if !f.g.ContainsEdge(e) {
		panic(fmt.Sprintf("graph: edge %d out of range [0,%d)", e, f.g.NumEdges()))
	}
	f.predVertex[v] = u
	f.predEdge[v] = e
	f.depth[v] = f.depth[u] + 1
}

// MakeRoot turns v into a root: its own predecessor at depth zero.
func (f *Forest) MakeRoot(v int) {
	f.checkVertex(v)
	f.predVertex[v] = v
	f.depth[v] = 0
}

// Predecessors yields (parent vertex, incoming edge) pairs walking from v up
// to its root. The sequence is finite and single-pass; it is invalidated by
// any mutation of the forest.
func (f *Forest) Predecessors(v int) iter.Seq2[int, int] {
	f.checkVertex(v)
	return func(yield func(int, int) bool) {
		for cur := v; !f.IsRoot(cur); {
			pred, edge := f.predVertex[cur], f.predEdge[cur]
			if !yield(pred, edge) {
				return
			}
			cur = pred
		}
	}
}

// Reset makes every vertex a root again without reallocating.
func (f *Forest) Reset() {
	for v := range f.predVertex {
		f.predVertex[v] = v
		f.depth[v] = 0
	}
}

func (f *Forest) checkVertex(v int) {
	if !f.g.ContainsVertex(v) {
		panic(fmt.Sprintf("graph: vertex %d out of range [0,%d)", v, f.g.NumVertices()))
	}
}
