package algorithms

import (
	"fmt"
	"log/slog"

	"phaseflow/pkg/domain"
	"phaseflow/services/unwrap-svc/internal/network"
)

// Options configures the min-cost-flow drivers.
type Options struct {
	// MaxIterations bounds the number of primal-dual iterations before the
	// driver falls back to successive shortest paths. Zero means unbounded.
	MaxIterations int

	// Logger receives iteration progress. Nil disables progress logging.
	Logger *slog.Logger
}

// DefaultOptions returns the defaults: unbounded primal-dual iterations, no
// progress logging.
func DefaultOptions() *Options {
	return &Options{}
}

// Result reports what a driver did.
type Result struct {
	// Augmentations is the number of unit flow augmentations performed.
	Augmentations int

	// Iterations counts primal-dual iterations, or SSP shortest-path searches
	// (one per unit of excess discharged, plus one per search that reaches no
	// deficit node).
	Iterations int
}

// searchToSink runs the engine from source until the nearest deficit node is
// visited. Returns the sink and true, or false if no deficit node is
// reachable through unsaturated arcs.
func searchToSink[D domain.Real](eng Engine[D], net *network.Network[D], source int) (int, bool) {
	eng.Reset()
	eng.AddSource(source)

	rg := net.ResidualGraph()
	for !eng.Done() {
		tail, dist := eng.PopNextUnvisited()
		eng.VisitVertex(tail, dist)

		if net.IsDeficitNode(tail) {
			return tail, true
		}

		for arc, head := range rg.OutgoingEdges(tail) {
			if net.IsArcSaturated(arc) {
				continue
			}
			length := net.ArcReducedCost(arc, tail, head)
			if length < 0 {
				panic(fmt.Sprintf("algorithms: negative reduced cost %v on arc %d", length, arc))
			}
			eng.RelaxEdge(arc, tail, head, dist+length)
		}
	}
	return 0, false
}

// augmentUnit pushes one unit of flow along the predecessor path from sink
// back to its tree root, and moves one unit of excess from the root to the
// sink.
func augmentUnit[D domain.Real](net *network.Network[D], eng Engine[D], sink int) {
	net.IncreaseNodeExcess(sink, 1)

	root := sink
	for tail, arc := range eng.Forest().Predecessors(sink) {
		net.IncreaseArcFlow(arc, 1)
		root = tail
	}

	if !net.IsExcessNode(root) {
		panic(fmt.Sprintf("algorithms: augmentation root %d is not an excess node", root))
	}
	net.DecreaseNodeExcess(root, 1)
}

// updatePotentialsToSink raises the potential of every visited node by
// (distance to sink - distance to node), which preserves non-negative reduced
// costs on all unsaturated residual arcs.
func updatePotentialsToSink[D domain.Real](net *network.Network[D], eng Engine[D], sink int) {
	f := eng.Forest()
	distSink := f.DistanceTo(sink)
	for node := range f.VisitedVertices() {
		net.IncreaseNodePotential(node, distSink-f.DistanceTo(node))
	}
}

// SuccessiveShortestPaths drains all excess from net one unit at a time: for
// each excess node it finds a shortest path (under reduced costs) to the
// nearest deficit node, augments one unit along it, and updates potentials.
//
// Total excess strictly decreases every augmentation, so the driver always
// terminates. If some deficit node is unreachable the driver returns early;
// the caller detects the leftover imbalance via net.IsBalanced.
//
// Panics if net is not balanced on entry.
func SuccessiveShortestPaths[D domain.Real](net *network.Network[D], eng Engine[D], opts *Options) Result {
	if opts == nil {
		opts = DefaultOptions()
	}
	if !net.IsBalanced() {
		panic("algorithms: network is not balanced")
	}

	total := net.TotalExcess()
	var res Result
	for source := range net.ExcessNodes() {
		for net.IsExcessNode(source) {
			res.Iterations++
			if opts.Logger != nil && res.Iterations%100 == 0 {
				opts.Logger.Info("successive shortest paths",
					"iteration", res.Iterations,
					"total", total,
				)
			}

			sink, ok := searchToSink(eng, net, source)
			if !ok {
				// No deficit node reachable from this source; leave its excess
				// in place for the caller to detect via IsBalanced.
				break
			}

			augmentUnit(net, eng, sink)
			updatePotentialsToSink(net, eng, sink)
			res.Augmentations++
		}
	}
	return res
}
