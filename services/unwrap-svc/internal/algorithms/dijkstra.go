package algorithms

import (
	"container/heap"
	"fmt"

	"phaseflow/pkg/domain"
	"phaseflow/services/unwrap-svc/internal/graph"
)

// heapItem is an entry in Dijkstra's priority queue.
type heapItem[D domain.Real] struct {
	vertex   int
	distance D
}

// distHeap is a binary min-heap on distance with ties broken by vertex id for
// deterministic pop order.
type distHeap[D domain.Real] []heapItem[D]

func (h distHeap[D]) Len() int { return len(h) }

func (h distHeap[D]) Less(i, j int) bool {
	if h[i].distance != h[j].distance {
		return h[i].distance < h[j].distance
	}
	return h[i].vertex < h[j].vertex
}

func (h distHeap[D]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *distHeap[D]) Push(x any) { *h = append(*h, x.(heapItem[D])) }

func (h *distHeap[D]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Dijkstra is a label-setting shortest-path engine over non-negative arc
// lengths, backed by a binary heap with lazy deletion: improving a vertex's
// distance pushes a fresh heap entry, and stale entries are discarded when
// they surface at the top.
type Dijkstra[D domain.Real] struct {
	forest *graph.ShortestPathForest[D]
	heap   distHeap[D]
}

// NewDijkstra creates an engine over g with all vertices unreached.
func NewDijkstra[D domain.Real](g graph.Digraph) *Dijkstra[D] {
	return &Dijkstra[D]{
		forest: graph.NewShortestPathForest[D](g),
	}
}

// Forest returns the engine's shortest-path forest.
func (d *Dijkstra[D]) Forest() *graph.ShortestPathForest[D] { return d.forest }

// AddSource makes s a root at distance zero. s must not be reached yet.
func (d *Dijkstra[D]) AddSource(s int) {
	if d.forest.HasReachedVertex(s) {
		panic(fmt.Sprintf("algorithms: source %d already reached", s))
	}
	d.forest.MakeRoot(s)
	d.forest.LabelVertexReached(s)
	d.forest.SetDistanceTo(s, 0)
	d.PushVertex(s, 0)
}

// PushVertex queues v at distance dist.
func (d *Dijkstra[D]) PushVertex(v int, dist D) {
	heap.Push(&d.heap, heapItem[D]{vertex: v, distance: dist})
}

// PopNextUnvisited returns the queue head. Must follow a false Done, which
// guarantees the head is unvisited.
func (d *Dijkstra[D]) PopNextUnvisited() (int, D) {
	if len(d.heap) == 0 {
		panic("algorithms: pop from empty heap")
	}
	item := heap.Pop(&d.heap).(heapItem[D])
	return item.vertex, item.distance
}

// VisitVertex commits dist as v's final distance and marks it visited.
func (d *Dijkstra[D]) VisitVertex(v int, dist D) {
	if !d.forest.HasReachedVertex(v) {
		panic(fmt.Sprintf("algorithms: visiting unreached vertex %d", v))
	}
	d.forest.LabelVertexVisited(v)
	d.forest.SetDistanceTo(v, dist)
}

// ReachVertex records (tail, edge) as head's predecessor at distance dist and
// queues head.
func (d *Dijkstra[D]) ReachVertex(edge, tail, head int, dist D) {
	d.forest.SetPredecessor(head, tail, edge)
	d.forest.LabelVertexReached(head)
	d.forest.SetDistanceTo(head, dist)
	d.PushVertex(head, dist)
}

// RelaxEdge offers distance dist to head via edge. A visited head is never
// relaxed; its committed distance cannot be improved under non-negative
// lengths.
func (d *Dijkstra[D]) RelaxEdge(edge, tail, head int, dist D) {
	if !d.forest.HasVisitedVertex(tail) {
		panic(fmt.Sprintf("algorithms: relaxing edge %d from unvisited tail %d", edge, tail))
	}
	if d.forest.HasVisitedVertex(head) {
		return
	}
	if dist < d.forest.DistanceTo(head) {
		d.ReachVertex(edge, tail, head, dist)
	}
}

// Done pops stale (already visited) entries off the heap top and reports
// whether the queue is exhausted.
func (d *Dijkstra[D]) Done() bool {
	for len(d.heap) > 0 {
		if !d.forest.HasVisitedVertex(d.heap[0].vertex) {
			return false
		}
		heap.Pop(&d.heap)
	}
	return true
}

// Reset clears the forest and the heap without reallocating.
func (d *Dijkstra[D]) Reset() {
	d.forest.Reset()
	d.heap = d.heap[:0]
}
