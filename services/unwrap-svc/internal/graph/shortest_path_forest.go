package graph

import (
	"fmt"
	"iter"

	"phaseflow/pkg/domain"
)

type vertexLabel uint8

const (
	labelUnreached vertexLabel = iota
	labelReached
	labelVisited
)

// ShortestPathForest is a Forest extended with the per-vertex search state of
// a label-setting shortest-path algorithm: a tri-state label and a tentative
// distance.
//
// A vertex may move unreached -> reached any number of times while its
// tentative distance improves, and reached -> visited exactly once, when its
// distance is committed. A visited vertex is never relabeled.
type ShortestPathForest[D domain.Real] struct {
	*Forest
	label    []vertexLabel
	distance []D
}

// NewShortestPathForest creates a forest over g with every vertex unreached at
// infinite distance.
func NewShortestPathForest[D domain.Real](g Digraph) *ShortestPathForest[D] {
	n := g.NumVertices()
	f := &ShortestPathForest[D]{
		Forest:   NewForest(g),
		label:    make([]vertexLabel, n),
		distance: make([]D, n),
	}
	inf := domain.Inf[D]()
	for v := range f.distance {
		f.distance[v] = inf
	}
	return f
}

// HasReachedVertex reports whether v has been reached (or visited).
func (f *ShortestPathForest[D]) HasReachedVertex(v int) bool {
	f.checkVertex(v)
	return f.label[v] != labelUnreached
}

// HasVisitedVertex reports whether v has been visited.
func (f *ShortestPathForest[D]) HasVisitedVertex(v int) bool {
	f.checkVertex(v)
	return f.label[v] == labelVisited
}

// LabelVertexReached marks an unvisited vertex as reached.
func (f *ShortestPathForest[D]) LabelVertexReached(v int) {
	f.checkVertex(v)
	if f.label[v] == labelVisited {
		panic(fmt.Sprintf("graph: vertex %d already visited", v))
	}
	f.label[v] = labelReached
}

// LabelVertexVisited marks a reached vertex as visited. A vertex may be
// visited only once.
func (f *ShortestPathForest[D]) LabelVertexVisited(v int) {
	f.checkVertex(v)
	if f.label[v] == labelVisited {
		panic(fmt.Sprintf("graph: vertex %d already visited", v))
	}
	f.label[v] = labelVisited
}

// DistanceTo returns the tentative (or committed) distance of v.
func (f *ShortestPathForest[D]) DistanceTo(v int) D {
	f.checkVertex(v)
	return f.distance[v]
}

// SetDistanceTo stores the distance of v.
func (f *ShortestPathForest[D]) SetDistanceTo(v int, d D) {
	f.checkVertex(v)
	f.distance[v] = d
}

// ReachedVertices yields every reached or visited vertex in ascending order.
func (f *ShortestPathForest[D]) ReachedVertices() iter.Seq[int] {
	return func(yield func(int) bool) {
		for v := range f.label {
			if f.label[v] != labelUnreached && !yield(v) {
				return
			}
		}
	}
}

// VisitedVertices yields every visited vertex in ascending order.
func (f *ShortestPathForest[D]) VisitedVertices() iter.Seq[int] {
	return func(yield func(int) bool) {
		for v := range f.label {
			if f.label[v] == labelVisited && !yield(v) {
				return
			}
		}
	}
}

// Reset returns every vertex to unreached at infinite distance and makes it a
// root, without reallocating.
func (f *ShortestPathForest[D]) Reset() {
	f.Forest.Reset()
	inf := domain.Inf[D]()
	for v := range f.label {
		f.label[v] = labelUnreached
		f.distance[v] = inf
	}
}
