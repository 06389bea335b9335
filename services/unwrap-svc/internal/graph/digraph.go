package graph

import "iter"

// Digraph is the read-only contract shared by all graph implementations.
// The shortest-path engines and the flow network are generic over it.
type Digraph interface {
	// NumVertices returns the number of vertices, V.
	NumVertices() int

	// NumEdges returns the number of directed edges, E.
	NumEdges() int

	// ContainsVertex reports whether v is a valid vertex id.
	ContainsVertex(v int) bool

	// ContainsEdge reports whether e is a valid edge id.
	ContainsEdge(e int) bool

	// Outdegree returns the number of outgoing edges of v.
	// Panics if v is out of range.
	Outdegree(v int) int

	// OutgoingEdges yields (edge, head) pairs for every edge emanating from v,
	// in a fixed deterministic order. Panics if v is out of range.
	OutgoingEdges(v int) iter.Seq2[int, int]
}

// Vertices yields the vertex ids of g in ascending order.
func Vertices(g Digraph) iter.Seq[int] {
	return func(yield func(int) bool) {
		for v := 0; v < g.NumVertices(); v++ {
			if !yield(v) {
				return
			}
		}
	}
}

// Edges yields the edge ids of g in ascending order.
func Edges(g Digraph) iter.Seq[int] {
	return func(yield func(int) bool) {
		for e := 0; e < g.NumEdges(); e++ {
			if !yield(e) {
				return
			}
		}
	}
}
