package algorithms

import (
	"fmt"

	"github.com/emirpasic/gods/queues/arrayqueue"

	"phaseflow/pkg/domain"
	"phaseflow/services/unwrap-svc/internal/graph"
	"phaseflow/services/unwrap-svc/internal/network"
)

// Dial is a label-setting shortest-path engine for bounded non-negative
// integer arc lengths. Vertices are kept in a ring of B FIFO buckets, where
// B exceeds the largest arc length; a vertex at tentative distance d lives in
// bucket d mod B. Because committed distances never decrease and all tentative
// distances lie within a window of B consecutive values, scanning the ring
// forward always yields vertices in non-decreasing distance order.
type Dial[D domain.Integer] struct {
	forest        *graph.ShortestPathForest[D]
	buckets       []*arrayqueue.Queue
	currentBucket int
}

// NewDial creates an engine over g with numBuckets FIFO buckets. numBuckets
// must exceed the largest arc length the search will encounter.
func NewDial[D domain.Integer](g graph.Digraph, numBuckets int) *Dial[D] {
	if numBuckets < 1 {
		panic(fmt.Sprintf("algorithms: dial needs at least one bucket, got %d", numBuckets))
	}
	buckets := make([]*arrayqueue.Queue, numBuckets)
	for i := range buckets {
		buckets[i] = arrayqueue.New()
	}
	return &Dial[D]{
		forest:  graph.NewShortestPathForest[D](g),
		buckets: buckets,
	}
}

// NewDialForNetwork sizes the bucket ring from the network: the largest
// reduced cost among unsaturated residual arcs, plus one.
func NewDialForNetwork[D domain.Integer](net *network.Network[D]) *Dial[D] {
	return NewDial[D](net.ResidualGraph(), int(MaxAdmissibleArcLength(net))+1)
}

// MaxAdmissibleArcLength returns the largest reduced cost among arcs with
// positive residual capacity. Panics on a negative reduced cost.
func MaxAdmissibleArcLength[D domain.Real](net *network.Network[D]) D {
	var maxLength D
	rg := net.ResidualGraph()
	for tail := 0; tail < net.NumNodes(); tail++ {
		for arc, head := range rg.OutgoingEdges(tail) {
			if net.IsArcSaturated(arc) {
				continue
			}
			length := net.ArcReducedCost(arc, tail, head)
			if length < 0 {
				panic(fmt.Sprintf("algorithms: negative reduced cost on arc %d", arc))
			}
			if length > maxLength {
				maxLength = length
			}
		}
	}
	return maxLength
}

// Forest returns the engine's shortest-path forest.
func (d *Dial[D]) Forest() *graph.ShortestPathForest[D] { return d.forest }

// NumBuckets returns the size of the bucket ring.
func (d *Dial[D]) NumBuckets() int { return len(d.buckets) }

// CurrentBucket returns the ring cursor position.
func (d *Dial[D]) CurrentBucket() int { return d.currentBucket }

// BucketID returns the bucket index for a distance.
func (d *Dial[D]) BucketID(dist D) int {
	if dist < 0 {
		panic(fmt.Sprintf("algorithms: negative distance %v", dist))
	}
	return int(dist % D(len(d.buckets)))
}

// AddSource makes s a root at distance zero. s must not be reached yet.
func (d *Dial[D]) AddSource(s int) {
	if d.forest.HasReachedVertex(s) {
		panic(fmt.Sprintf("algorithms: source %d already reached", s))
	}
	d.forest.MakeRoot(s)
	d.forest.LabelVertexReached(s)
	d.forest.SetDistanceTo(s, 0)
	d.PushVertex(s, 0)
}

// PushVertex queues v in the bucket of dist.
func (d *Dial[D]) PushVertex(v int, dist D) {
	d.buckets[d.BucketID(dist)].Enqueue(v)
}

// PopNextUnvisited dequeues the front of the current bucket. Must follow a
// false Done, which positions the cursor on a bucket whose front is
// unvisited.
func (d *Dial[D]) PopNextUnvisited() (int, D) {
	value, ok := d.buckets[d.currentBucket].Dequeue()
	if !ok {
		panic("algorithms: pop from empty bucket")
	}
	v := value.(int)
	return v, d.forest.DistanceTo(v)
}

// VisitVertex marks a reached vertex visited. Its distance was already set by
// the relaxation that queued it.
func (d *Dial[D]) VisitVertex(v int, dist D) {
	if !d.forest.HasReachedVertex(v) {
		panic(fmt.Sprintf("algorithms: visiting unreached vertex %d", v))
	}
	_ = dist
	d.forest.LabelVertexVisited(v)
}

// ReachVertex records (tail, edge) as head's predecessor at distance dist and
// queues head.
func (d *Dial[D]) ReachVertex(edge, tail, head int, dist D) {
	d.forest.SetPredecessor(head, tail, edge)
	d.forest.LabelVertexReached(head)
	d.forest.SetDistanceTo(head, dist)
	d.PushVertex(head, dist)
}

// RelaxEdge offers distance dist to head via edge.
func (d *Dial[D]) RelaxEdge(edge, tail, head int, dist D) {
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

// Done discards visited vertices from the front of the ring, advancing the
// cursor cyclically, and reports whether every bucket is empty.
func (d *Dial[D]) Done() bool {
	n := len(d.buckets)
	start := d.currentBucket
	for {
		bucket := d.buckets[d.currentBucket]
		for !bucket.Empty() {
			front, _ := bucket.Peek()
			if !d.forest.HasVisitedVertex(front.(int)) {
				return false
			}
			bucket.Dequeue()
		}

		d.currentBucket = (d.currentBucket + 1) % n
		if d.currentBucket == start {
			return true
		}
	}
}

// Reset clears the forest and every bucket and rewinds the cursor.
func (d *Dial[D]) Reset() {
	d.forest.Reset()
	for _, b := range d.buckets {
		b.Clear()
	}
	d.currentBucket = 0
}
