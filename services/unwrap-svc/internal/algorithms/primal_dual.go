package algorithms

import (
	"sort"

	"phaseflow/pkg/domain"
	"phaseflow/services/unwrap-svc/internal/network"
)

// searchFromAllSources runs the engine to completion from every excess node
// at distance zero, growing a shortest-path forest that covers every node
// reachable through unsaturated arcs.
func searchFromAllSources[D domain.Real](tracker *SourceTracker[D], net *network.Network[D]) {
	for source := range net.ExcessNodes() {
		tracker.AddSource(source)
	}

	rg := net.ResidualGraph()
	for !tracker.Done() {
		tail, dist := tracker.PopNextUnvisited()
		tracker.VisitVertex(tail, dist)

		for arc, head := range rg.OutgoingEdges(tail) {
			if net.IsArcSaturated(arc) {
				continue
			}
			length := net.ArcReducedCost(arc, tail, head)
			if length < 0 {
				panic("algorithms: negative reduced cost in primal-dual search")
			}
			tracker.RelaxEdge(arc, tail, head, dist+length)
		}
	}
}

// augmentNearestSinks pushes one unit from each source to its nearest visited
// deficit node. Sinks are grouped by the source whose tree claimed them; only
// the minimum-distance sink per source is augmented, in (source id, distance)
// order.
func augmentNearestSinks[D domain.Real](net *network.Network[D], tracker *SourceTracker[D]) int {
	f := tracker.Forest()

	var sinks []int
	for sink := range net.DeficitNodes() {
		if f.HasVisitedVertex(sink) && tracker.SourceVertex(sink) != noSource {
			sinks = append(sinks, sink)
		}
	}

	sort.Slice(sinks, func(i, j int) bool {
		si, sj := tracker.SourceVertex(sinks[i]), tracker.SourceVertex(sinks[j])
		if si != sj {
			return si < sj
		}
		return f.DistanceTo(sinks[i]) < f.DistanceTo(sinks[j])
	})

	augmented := 0
	lastSource := noSource
	for _, sink := range sinks {
		source := tracker.SourceVertex(sink)
		if source == lastSource {
			continue
		}
		lastSource = source
		augmentUnit(net, tracker, sink)
		augmented++
	}
	return augmented
}

// lowerPotentialsByDistance applies the multi-sink potential update: every
// visited node's potential drops by its distance. This is the complement of
// the single-sink update in SSP (the two differ by a global shift) and
// likewise keeps reduced costs non-negative on unsaturated arcs.
func lowerPotentialsByDistance[D domain.Real](net *network.Network[D], tracker *SourceTracker[D]) {
	f := tracker.Forest()
	for node := range f.VisitedVertices() {
		net.DecreaseNodePotential(node, f.DistanceTo(node))
	}
}

// PrimalDual balances net with the primal-dual method: each iteration runs a
// single multi-source shortest-path search and then discharges one unit from
// every source that reached a deficit node, amortizing the search cost over
// many augmentations. When opts.MaxIterations is exceeded (or progress
// stalls), the residual imbalance is handed to SuccessiveShortestPaths, whose
// termination is guaranteed.
//
// newEngine must produce a fresh or reset engine over net's residual graph;
// it is invoked once per iteration because Dial's bucket count depends on the
// current reduced costs.
//
// Panics if net is not balanced on entry.
func PrimalDual[D domain.Real](net *network.Network[D], newEngine func() Engine[D], opts *Options) Result {
	if opts == nil {
		opts = DefaultOptions()
	}
	if !net.IsBalanced() {
		panic("algorithms: network is not balanced")
	}

	var res Result
	for iter := 1; ; iter++ {
		if opts.Logger != nil {
			opts.Logger.Info("primal-dual", "iteration", iter, "total_excess", net.TotalExcess())
		}

		tracker := NewSourceTracker(newEngine())
		searchFromAllSources(tracker, net)

		augmented := augmentNearestSinks(net, tracker)
		res.Augmentations += augmented
		res.Iterations = iter

		if net.TotalExcess() == 0 {
			return res
		}

		lowerPotentialsByDistance(net, tracker)

		// No source can reach a sink anymore, or the iteration budget is
		// spent: hand the remainder to SSP.
		if augmented == 0 || iter == opts.MaxIterations {
			break
		}
	}

	ssp := SuccessiveShortestPaths(net, newEngine(), opts)
	res.Augmentations += ssp.Augmentations
	return res
}
