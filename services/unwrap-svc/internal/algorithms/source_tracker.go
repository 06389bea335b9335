package algorithms

import (
	"fmt"

	"phaseflow/pkg/domain"
)

// noSource marks vertices not yet claimed by any search tree.
const noSource = -1

// SourceTracker wraps an engine for the multi-source primal-dual search,
// recording for every reached vertex which source's tree it belongs to: each
// reached head inherits its predecessor's source. The primal-dual driver uses
// this to group deficit nodes by their nearest source.
type SourceTracker[D domain.Real] struct {
	Engine[D]
	source []int
}

// NewSourceTracker wraps eng with source tracking.
func NewSourceTracker[D domain.Real](eng Engine[D]) *SourceTracker[D] {
	n := eng.Forest().Graph().NumVertices()
	t := &SourceTracker[D]{Engine: eng, source: make([]int, n)}
	for v := range t.source {
		t.source[v] = noSource
	}
	return t
}

// SourceVertex returns the source whose tree v belongs to, or -1 if v has not
// been reached.
func (t *SourceTracker[D]) SourceVertex(v int) int {
	if v < 0 || v >= len(t.source) {
		panic(fmt.Sprintf("algorithms: vertex %d out of range [0,%d)", v, len(t.source)))
	}
	return t.source[v]
}

// AddSource queues s and marks it as its own source.
func (t *SourceTracker[D]) AddSource(s int) {
	t.Engine.AddSource(s)
	t.source[s] = s
}

// ReachVertex forwards to the engine and propagates the tail's source to the
// head.
func (t *SourceTracker[D]) ReachVertex(edge, tail, head int, dist D) {
	t.Engine.ReachVertex(edge, tail, head, dist)
	t.source[head] = t.source[tail]
}

// RelaxEdge mirrors the engine's relaxation policy but routes successful
// improvements through the tracker's ReachVertex so sources propagate.
func (t *SourceTracker[D]) RelaxEdge(edge, tail, head int, dist D) {
	f := t.Forest()
	if !f.HasVisitedVertex(tail) {
		panic(fmt.Sprintf("algorithms: relaxing edge %d from unvisited tail %d", edge, tail))
	}
	if f.HasVisitedVertex(head) {
		return
	}
	if dist < f.DistanceTo(head) {
		t.ReachVertex(edge, tail, head, dist)
	}
}

// Reset clears the engine and forgets all source assignments.
func (t *SourceTracker[D]) Reset() {
	t.Engine.Reset()
	for v := range t.source {
		t.source[v] = noSource
	}
}
