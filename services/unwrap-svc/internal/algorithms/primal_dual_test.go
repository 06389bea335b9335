package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phaseflow/services/unwrap-svc/internal/graph"
	"phaseflow/services/unwrap-svc/internal/network"
)

func dijkstraFactory(net *network.Network[int64]) func() Engine[int64] {
	return func() Engine[int64] {
		return NewDijkstra[int64](net.ResidualGraph())
	}
}

func dialFactory(net *network.Network[int64]) func() Engine[int64] {
	return func() Engine[int64] {
		return NewDialForNetwork(net)
	}
}

func TestPrimalDualSinglePair(t *testing.T) {
	net := buildNetwork(t, [][3]int{{0, 1, 2}, {1, 2, 3}}, []int32{1, 0, -1})

	res := PrimalDual(net, dijkstraFactory(net), nil)

	assert.True(t, net.IsBalanced())
	assert.Equal(t, int64(0), net.TotalExcess())
	assert.Equal(t, 1, res.Augmentations)
	assert.Equal(t, 1, res.Iterations)
	assert.Equal(t, int64(5), net.TotalCost())
	requireNonNegativeReducedCosts(t, net)
}

// Two independent source/sink pairs must both discharge in a single
// primal-dual iteration.
func TestPrimalDualManySinksOneIteration(t *testing.T) {
	net := buildNetwork(t, [][3]int{
		{0, 2, 1}, {2, 3, 1},
		{1, 4, 2}, {4, 5, 2},
	}, []int32{1, 1, 0, -1, 0, -1})

	res := PrimalDual(net, dijkstraFactory(net), nil)

	assert.True(t, net.IsBalanced())
	assert.Equal(t, 2, res.Augmentations)
	assert.Equal(t, 1, res.Iterations)
	requireNonNegativeReducedCosts(t, net)
}

// When a source claims several sinks, only the nearest is discharged per
// iteration; the rest drain in later iterations or the SSP tail.
func TestPrimalDualMultiIteration(t *testing.T) {
	net := buildNetwork(t, [][3]int{
		{0, 1, 1}, {0, 2, 5},
	}, []int32{2, -1, -1})

	res := PrimalDual(net, dijkstraFactory(net), nil)

	assert.True(t, net.IsBalanced())
	assert.Equal(t, 2, res.Augmentations)
	assert.GreaterOrEqual(t, res.Iterations, 2)
	assert.Equal(t, int64(6), net.TotalCost())
	requireNonNegativeReducedCosts(t, net)
}

func TestPrimalDualMaxIterFallsBackToSSP(t *testing.T) {
	net := buildNetwork(t, [][3]int{
		{0, 1, 1}, {0, 2, 5},
	}, []int32{2, -1, -1})

	res := PrimalDual(net, dijkstraFactory(net), &Options{MaxIterations: 1})

	// One primal-dual iteration discharges the nearest sink; SSP finishes.
	assert.True(t, net.IsBalanced())
	assert.Equal(t, 2, res.Augmentations)
	assert.Equal(t, int64(6), net.TotalCost())
	requireNonNegativeReducedCosts(t, net)
}

func TestPrimalDualWithDial(t *testing.T) {
	net := buildNetwork(t, [][3]int{
		{0, 1, 3}, {1, 3, 7},
		{0, 2, 2}, {2, 3, 3},
	}, []int32{1, 0, 0, -1})

	res := PrimalDual(net, dialFactory(net), nil)

	assert.True(t, net.IsBalanced())
	assert.Equal(t, 1, res.Augmentations)
	assert.Equal(t, int64(5), net.TotalCost())
	requireNonNegativeReducedCosts(t, net)
}

func TestPrimalDualInfeasible(t *testing.T) {
	net := buildNetwork(t, [][3]int{{0, 1, 1}, {2, 3, 1}}, []int32{1, 0, 0, -1})

	PrimalDual(net, dijkstraFactory(net), nil)

	assert.Equal(t, int64(1), net.TotalExcess())
	assert.Equal(t, int64(-1), net.TotalDeficit())
}

func TestPrimalDualUnbalancedPanics(t *testing.T) {
	net := buildNetwork(t, [][3]int{{0, 1, 1}}, []int32{1, 0})
	assert.Panics(t, func() { PrimalDual(net, dijkstraFactory(net), nil) })
}

// Unit-capacity mode: two units from 0 to 3 must split across the two
// parallel routes because each arc carries at most one unit.
func TestPrimalDualUnitCapacity(t *testing.T) {
	l := graph.NewEdgeList()
	costOf := map[[2]int]int64{
		{0, 1}: 1, {1, 3}: 1,
		{0, 2}: 2, {2, 3}: 2,
	}
	for pair := range costOf {
		l.AddEdge(pair[0], pair[1])
	}
	base := graph.NewCSRGraph(l)
	costs := make([]int64, base.NumEdges())
	for v := 0; v < base.NumVertices(); v++ {
		for e, head := range base.OutgoingEdges(v) {
			costs[e] = costOf[[2]int{v, head}]
		}
	}
	net := network.New[int64](network.NewCSRResidual(base),
		[]int32{2, 0, 0, -2}, costs, network.UnitCapacity)

	res := PrimalDual(net, func() Engine[int64] {
		return NewDijkstra[int64](net.ResidualGraph())
	}, nil)

	require.True(t, net.IsBalanced())
	assert.Equal(t, 2, res.Augmentations)
	assert.Equal(t, int64(6), net.TotalCost())

	// Every forward arc is saturated.
	rg := net.ResidualGraph()
	for e := 0; e < base.NumEdges(); e++ {
		assert.Equal(t, int32(1), net.ArcFlow(rg.ResidualArc(e)))
	}
}
