// Package algorithms implements the shortest-path engines and min-cost-flow
// drivers of the unwrap solver.
//
// Two label-setting engines are provided: Dijkstra with a lazy-deletion binary
// heap, and Dial's algorithm with a ring of FIFO buckets for bounded integer
// arc lengths. Both search the residual graph under reduced arc costs and
// record their result in a shortest-path forest.
//
// The drivers are PrimalDual, which discharges many source/sink pairs per
// multi-source search, and SuccessiveShortestPaths, which routes one unit at a
// time and always terminates on a balanced network.
//
// # Determinism
//
// Heap ties break by vertex id and bucket queues are FIFO, so runs are
// reproducible for identical inputs.
//
// # Failure Model
//
// Precondition violations (unbalanced network on entry, negative reduced cost,
// augmenting a saturated arc) are programmer bugs and panic. Infeasibility is
// not an error here: the drivers return normally and the caller detects it via
// Network.IsBalanced.
package algorithms

import (
	"phaseflow/pkg/domain"
	"phaseflow/services/unwrap-svc/internal/graph"
)

// Engine is the contract shared by the shortest-path engines. An engine owns
// a shortest-path forest over the residual graph and a work queue of reached
// vertices.
//
// The driving loop is
//
//	for !eng.Done() {
//		v, d := eng.PopNextUnvisited()
//		eng.VisitVertex(v, d)
//		for arc, head := range outgoing residual arcs of v {
//			eng.RelaxEdge(arc, v, head, d+length(arc))
//		}
//	}
//
// Pops are in non-decreasing distance order; ties break in queue order.
type Engine[D domain.Real] interface {
	// AddSource makes s a tree root at distance zero and queues it.
	// s must not have been reached yet.
	AddSource(s int)

	// PopNextUnvisited removes and returns the next unvisited vertex and its
	// committed distance. Must only be called after Done returned false; the
	// caller must pass the result to VisitVertex before continuing.
	PopNextUnvisited() (int, D)

	// VisitVertex commits the distance of a reached vertex and marks it
	// visited. A vertex is visited at most once.
	VisitVertex(v int, d D)

	// RelaxEdge offers distance d to head via edge (tail -> head). If d
	// improves on head's tentative distance, head's predecessor becomes
	// (tail, edge) and head is (re)queued. tail must be visited.
	RelaxEdge(edge, tail, head int, d D)

	// ReachVertex unconditionally records (tail, edge) as head's predecessor
	// at distance d and queues head. Used by RelaxEdge once an improvement is
	// established.
	ReachVertex(edge, tail, head int, d D)

	// PushVertex queues v at distance d without touching labels.
	PushVertex(v int, d D)

	// Done discards exhausted queue entries and reports whether the search is
	// complete.
	Done() bool

	// Reset returns the engine to its initial state without reallocating.
	Reset()

	// Forest exposes the engine's shortest-path forest.
	Forest() *graph.ShortestPathForest[D]
}
