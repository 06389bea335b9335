package graph

import (
	"fmt"
	"iter"
	"sort"
)

// CSRGraph is an immutable digraph in compressed-sparse-row form: a row-offset
// array indexed by tail vertex and a column array of head vertices. Edge ids
// are positions in the column array, so the outgoing edges of a vertex occupy
// the contiguous id range [offsets[v], offsets[v+1]).
type CSRGraph struct {
	offsets []int
	heads   []int
}

// NewCSRGraph builds a CSRGraph from an edge list. Edges are sorted by
// (tail, head); the vertex count is max(tail, head)+1 over all edges, so
// trailing isolated vertices must carry at least one incident edge to be
// represented. An empty edge list yields an empty graph.
func NewCSRGraph(edges *EdgeList) *CSRGraph {
	if edges.Empty() {
		return &CSRGraph{offsets: []int{0}}
	}

	sorted := make([]Edge, edges.Size())
	copy(sorted, edges.Edges())
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Tail != sorted[j].Tail {
			return sorted[i].Tail < sorted[j].Tail
		}
		return sorted[i].Head < sorted[j].Head
	})

	maxVertex := 0
	for _, e := range sorted {
		if e.Tail < 0 || e.Head < 0 {
			panic(fmt.Sprintf("graph: negative vertex id in edge (%d,%d)", e.Tail, e.Head))
		}
		maxVertex = max(maxVertex, e.Tail, e.Head)
	}

	numVertices := maxVertex + 1
	g := &CSRGraph{
		offsets: make([]int, numVertices+1),
		heads:   make([]int, len(sorted)),
	}

	for i, e := range sorted {
		g.offsets[e.Tail+1]++
		g.heads[i] = e.Head
	}
	for v := 0; v < numVertices; v++ {
		g.offsets[v+1] += g.offsets[v]
	}

	return g
}

// NumVertices returns the number of vertices.
func (g *CSRGraph) NumVertices() int { return len(g.offsets) - 1 }

// NumEdges returns the number of directed edges.
func (g *CSRGraph) NumEdges() int { return len(g.heads) }

// ContainsVertex reports whether v is a valid vertex id.
func (g *CSRGraph) ContainsVertex(v int) bool {
	return v >= 0 && v < g.NumVertices()
}

// ContainsEdge reports whether e is a valid edge id.
func (g *CSRGraph) ContainsEdge(e int) bool {
	return e >= 0 && e < g.NumEdges()
}

// Outdegree returns the number of outgoing edges of v.
func (g *CSRGraph) Outdegree(v int) int {
	g.checkVertex(v)
	return g.offsets[v+1] - g.offsets[v]
}

// EdgeHead returns the head vertex of edge e.
func (g *CSRGraph) EdgeHead(e int) int {
	if !g.ContainsEdge(e) {
		panic(fmt.Sprintf("graph: edge %d out of range [0,%d)", e, g.NumEdges()))
	}
	return g.heads[e]
}

// OutgoingEdges yields (edge, head) pairs for every edge with tail v, in
// ascending head order.
func (g *CSRGraph) OutgoingEdges(v int) iter.Seq2[int, int] {
	g.checkVertex(v)
	return func(yield func(int, int) bool) {
		for e := g.offsets[v]; e < g.offsets[v+1]; e++ {
			if !yield(e, g.heads[e]) {
				return
			}
		}
	}
}

func (g *CSRGraph) checkVertex(v int) {
	if !g.ContainsVertex(v) {
		panic(fmt.Sprintf("graph: vertex %d out of range [0,%d)", v, g.NumVertices()))
	}
}
