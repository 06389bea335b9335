package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phaseflow/services/unwrap-svc/internal/graph"
	"phaseflow/services/unwrap-svc/internal/network"
)

func TestDialChain(t *testing.T) {
	g, w := weightedCSR[int64](t, [][3]int{{0, 1, 1}, {1, 2, 10}, {2, 3, 100}})
	eng := NewDial[int64](g, 101)
	eng.AddSource(0)
	runToCompletion[int64](eng, g, w)

	f := eng.Forest()
	for v, want := range []int64{0, 1, 11, 111} {
		assert.True(t, f.HasVisitedVertex(v))
		assert.Equal(t, want, f.DistanceTo(v))
	}
	assert.Equal(t, 2, f.PredecessorVertex(3))
}

func TestDialSortedPops(t *testing.T) {
	g, w := weightedCSR[int64](t, [][3]int{
		{0, 1, 100}, {0, 2, 1}, {0, 3, 1000}, {0, 4, 10},
	})
	eng := NewDial[int64](g, 1001)
	eng.AddSource(0)
	pops := runToCompletion[int64](eng, g, w)

	want := [][2]int64{{0, 0}, {2, 1}, {4, 10}, {1, 100}, {3, 1000}}
	assert.Equal(t, want, pops)
}

// Dial and Dijkstra must agree on distances and pop order for identical
// integer-weighted inputs.
func TestDialMatchesDijkstra(t *testing.T) {
	g, w := weightedCSR[int64](t, [][3]int{
		{0, 1, 4}, {0, 2, 1}, {1, 3, 1}, {2, 1, 2}, {2, 3, 5}, {3, 4, 3}, {0, 4, 9},
	})

	dijkstra := NewDijkstra[int64](g)
	dijkstra.AddSource(0)
	wantPops := runToCompletion[int64](dijkstra, g, w)

	dial := NewDial[int64](g, 10)
	dial.AddSource(0)
	gotPops := runToCompletion[int64](dial, g, w)

	assert.Equal(t, wantPops, gotPops)
	for v := 0; v < g.NumVertices(); v++ {
		assert.Equal(t, dijkstra.Forest().DistanceTo(v), dial.Forest().DistanceTo(v))
	}
}

// The bucket ring wraps: distances larger than the ring size must still pop
// in sorted order because tentative distances stay within one window.
func TestDialRingWraparound(t *testing.T) {
	g, w := weightedCSR[int64](t, [][3]int{{0, 1, 3}, {1, 2, 3}, {2, 3, 3}, {3, 4, 3}})
	eng := NewDial[int64](g, 4) // max arc length 3, B = 4 < total distance 12
	eng.AddSource(0)
	pops := runToCompletion[int64](eng, g, w)

	want := [][2]int64{{0, 0}, {1, 3}, {2, 6}, {3, 9}, {4, 12}}
	assert.Equal(t, want, pops)
}

func TestDialBucketID(t *testing.T) {
	g, _ := weightedCSR[int64](t, [][3]int{{0, 1, 1}})
	eng := NewDial[int64](g, 5)

	assert.Equal(t, 5, eng.NumBuckets())
	assert.Equal(t, 0, eng.BucketID(0))
	assert.Equal(t, 3, eng.BucketID(3))
	assert.Equal(t, 0, eng.BucketID(5))
	assert.Equal(t, 2, eng.BucketID(12))
	assert.Panics(t, func() { eng.BucketID(-1) })
}

func TestDialReset(t *testing.T) {
	g, w := weightedCSR[int64](t, [][3]int{{0, 1, 2}})
	eng := NewDial[int64](g, 3)
	eng.AddSource(0)
	runToCompletion[int64](eng, g, w)
	require.True(t, eng.Forest().HasVisitedVertex(1))

	eng.Reset()
	assert.True(t, eng.Done())
	assert.Equal(t, 0, eng.CurrentBucket())
	assert.False(t, eng.Forest().HasReachedVertex(0))
}

func TestNewDialForNetwork(t *testing.T) {
	// Chain 0 -> 1 -> 2 with costs 4 and 7: the largest admissible reduced
	// cost is 7, so the ring has 8 buckets.
	l := graph.NewEdgeList()
	l.AddEdge(0, 1)
	l.AddEdge(1, 2)
	r := network.NewCSRResidual(graph.NewCSRGraph(l))
	net := network.New[int64](r, []int32{1, 0, -1}, []int64{4, 7}, network.Uncapacitated)

	eng := NewDialForNetwork(net)
	assert.Equal(t, 8, eng.NumBuckets())
	assert.Equal(t, int64(7), MaxAdmissibleArcLength(net))
}
