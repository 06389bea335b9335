package graph

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdgeList(t *testing.T) {
	l := NewEdgeList()
	assert.True(t, l.Empty())
	assert.Equal(t, 0, l.Size())

	l.AddEdge(0, 1)
	l.AddEdge(2, 2) // self-loop
	l.AddEdge(0, 1) // parallel edge
	require.Equal(t, 3, l.Size())
	assert.Equal(t, Edge{Tail: 0, Head: 1}, l.At(0))
	assert.Equal(t, Edge{Tail: 2, Head: 2}, l.At(1))

	l.Clear()
	assert.True(t, l.Empty())
}

func TestCSRGraphBasic(t *testing.T) {
	l := NewEdgeList()
	for _, e := range [][2]int{{0, 1}, {0, 2}, {0, 3}, {2, 1}, {3, 0}} {
		l.AddEdge(e[0], e[1])
	}
	g := NewCSRGraph(l)

	require.Equal(t, 4, g.NumVertices())
	require.Equal(t, 5, g.NumEdges())

	assert.Equal(t, 3, g.Outdegree(0))
	assert.Equal(t, 0, g.Outdegree(1))
	assert.Equal(t, 1, g.Outdegree(2))
	assert.Equal(t, 1, g.Outdegree(3))

	var pairs [][2]int
	for e, head := range g.OutgoingEdges(0) {
		pairs = append(pairs, [2]int{e, head})
	}
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}, {2, 3}}, pairs)

	assert.True(t, g.ContainsVertex(3))
	assert.False(t, g.ContainsVertex(4))
	assert.True(t, g.ContainsEdge(4))
	assert.False(t, g.ContainsEdge(5))

	assert.Panics(t, func() { g.Outdegree(4) })
	assert.Panics(t, func() { g.EdgeHead(5) })
}

func TestCSRGraphEmpty(t *testing.T) {
	g := NewCSRGraph(NewEdgeList())
	assert.Equal(t, 0, g.NumVertices())
	assert.Equal(t, 0, g.NumEdges())
}

func TestVertexAndEdgeViews(t *testing.T) {
	l := NewEdgeList()
	l.AddEdge(0, 1)
	l.AddEdge(1, 2)
	g := NewCSRGraph(l)

	var vertices, edges []int
	for v := range Vertices(g) {
		vertices = append(vertices, v)
	}
	for e := range Edges(g) {
		edges = append(edges, e)
	}
	assert.Equal(t, []int{0, 1, 2}, vertices)
	assert.Equal(t, []int{0, 1}, edges)
}

// The multiset of heads yielded by OutgoingEdges(v) must equal the heads of
// the input edges with tail v, for every vertex.
func TestCSRGraphPreservesMultiset(t *testing.T) {
	input := [][2]int{
		{3, 1}, {0, 2}, {1, 1}, {0, 2}, {2, 0}, {1, 3}, {0, 1}, {3, 1},
	}

	l := NewEdgeList()
	want := make(map[int][]int)
	for _, e := range input {
		l.AddEdge(e[0], e[1])
		want[e[0]] = append(want[e[0]], e[1])
	}
	g := NewCSRGraph(l)

	require.Equal(t, 4, g.NumVertices())
	require.Equal(t, len(input), g.NumEdges())

	seen := make(map[int]bool)
	for v := 0; v < g.NumVertices(); v++ {
		var got []int
		for e, head := range g.OutgoingEdges(v) {
			require.False(t, seen[e], "edge %d yielded twice", e)
			seen[e] = true
			got = append(got, head)
		}
		sort.Ints(got)
		sort.Ints(want[v])
		assert.Equal(t, want[v], got, "vertex %d", v)
	}
	assert.Len(t, seen, g.NumEdges())
}

func TestCSRGraphSelfLoopsAndParallel(t *testing.T) {
	l := NewEdgeList()
	l.AddEdge(1, 1)
	l.AddEdge(1, 1)
	l.AddEdge(1, 0)
	g := NewCSRGraph(l)

	assert.Equal(t, 2, g.NumVertices())
	assert.Equal(t, 3, g.Outdegree(1))

	var heads []int
	for _, head := range g.OutgoingEdges(1) {
		heads = append(heads, head)
	}
	assert.Equal(t, []int{0, 1, 1}, heads)
}
