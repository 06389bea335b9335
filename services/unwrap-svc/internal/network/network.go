package network

import (
	"fmt"
	"iter"
	"math"

	"phaseflow/pkg/domain"
)

// CapacityMode selects how arc capacities and flows are represented.
type CapacityMode int

const (
	// Uncapacitated gives every forward arc infinite capacity. Flow is stored
	// per forward arc; a reverse arc's residual capacity is the flow on its
	// forward pair.
	Uncapacitated CapacityMode = iota

	// UnitCapacity gives every arc capacity one. State is a single saturation
	// bit per residual arc; forward arcs start unsaturated, reverse arcs
	// saturated.
	UnitCapacity
)

// String returns the mode name.
func (m CapacityMode) String() string {
	switch m {
	case Uncapacitated:
		return "uncapacitated"
	case UnitCapacity:
		return "unit_capacity"
	default:
		return "unknown"
	}
}

// FlowInf is the conceptual flow value of reverse arcs in uncapacitated mode.
const FlowInf int32 = math.MaxInt32

// Network composes a residual graph with flow state, per-node excess and
// potential vectors and per-arc costs. The topology is immutable after
// construction; only flows, excesses and potentials change.
//
// The solver maintains the invariant that every arc with positive residual
// capacity has non-negative reduced cost under the current potentials.
type Network[C domain.Real] struct {
	rg   ResidualGraph
	mode CapacityMode

	excess    []int32 // per node
	potential []C     // per node
	cost      []C     // per residual arc; reverse arcs carry the negated cost

	arcFlow   []int32 // per base edge, Uncapacitated mode only
	saturated []bool  // per residual arc, UnitCapacity mode only
}

// New creates a network over rg. excess holds one value per node; edgeCosts
// holds one cost per base-graph edge (the residual expansion to forward and
// negated reverse costs happens here). Potentials start at zero.
func New[C domain.Real](rg ResidualGraph, excess []int32, edgeCosts []C, mode CapacityMode) *Network[C] {
	if len(excess) != rg.NumVertices() {
		panic(fmt.Sprintf("network: %d excess values for %d nodes", len(excess), rg.NumVertices()))
	}
	if len(edgeCosts) != rg.NumForwardArcs() {
		panic(fmt.Sprintf("network: %d edge costs for %d forward arcs", len(edgeCosts), rg.NumForwardArcs()))
	}

	n := &Network[C]{
		rg:        rg,
		mode:      mode,
		excess:    append([]int32(nil), excess...),
		potential: make([]C, rg.NumVertices()),
		cost:      make([]C, rg.NumEdges()),
	}

	for e, c := range edgeCosts {
		fwd := rg.ResidualArc(e)
		n.cost[fwd] = c
		n.cost[rg.TransposeArc(fwd)] = -c
	}

	switch mode {
	case Uncapacitated:
		n.arcFlow = make([]int32, rg.NumForwardArcs())
	case UnitCapacity:
		n.saturated = make([]bool, rg.NumEdges())
		for a := 0; a < rg.NumEdges(); a++ {
			n.saturated[a] = !rg.IsForwardArc(a)
		}
	default:
		panic(fmt.Sprintf("network: unknown capacity mode %d", mode))
	}

	return n
}

// ResidualGraph returns the network's residual graph view.
func (n *Network[C]) ResidualGraph() ResidualGraph { return n.rg }

// Mode returns the capacity mode.
func (n *Network[C]) Mode() CapacityMode { return n.mode }

// NumNodes returns the number of nodes.
func (n *Network[C]) NumNodes() int { return n.rg.NumVertices() }

// NumArcs returns the number of residual arcs (including saturated ones).
func (n *Network[C]) NumArcs() int { return n.rg.NumEdges() }

// ContainsNode reports whether node is valid.
func (n *Network[C]) ContainsNode(node int) bool { return n.rg.ContainsVertex(node) }

// ContainsArc reports whether arc is a valid residual arc.
func (n *Network[C]) ContainsArc(arc int) bool { return n.rg.ContainsEdge(arc) }

// OutgoingArcs yields (arc, head) pairs of the residual arcs with tail node,
// including arcs with zero residual capacity.
func (n *Network[C]) OutgoingArcs(node int) iter.Seq2[int, int] {
	return n.rg.OutgoingEdges(node)
}

// NodeExcess returns the excess of a node: positive for sources, negative for
// sinks, zero for balanced nodes.
func (n *Network[C]) NodeExcess(node int) int32 {
	n.checkNode(node)
	return n.excess[node]
}

// IncreaseNodeExcess adds delta to the excess of node.
func (n *Network[C]) IncreaseNodeExcess(node int, delta int32) {
	n.checkNode(node)
	n.excess[node] += delta
}

// DecreaseNodeExcess subtracts delta from the excess of node.
func (n *Network[C]) DecreaseNodeExcess(node int, delta int32) {
	n.checkNode(node)
	n.excess[node] -= delta
}

// IsExcessNode reports whether node has positive excess.
func (n *Network[C]) IsExcessNode(node int) bool { return n.NodeExcess(node) > 0 }

// IsDeficitNode reports whether node has negative excess.
func (n *Network[C]) IsDeficitNode(node int) bool { return n.NodeExcess(node) < 0 }

// ExcessNodes yields the nodes with positive excess in ascending order.
func (n *Network[C]) ExcessNodes() iter.Seq[int] {
	return func(yield func(int) bool) {
		for node, e := range n.excess {
			if e > 0 && !yield(node) {
				return
			}
		}
	}
}

// DeficitNodes yields the nodes with negative excess in ascending order.
func (n *Network[C]) DeficitNodes() iter.Seq[int] {
	return func(yield func(int) bool) {
		for node, e := range n.excess {
			if e < 0 && !yield(node) {
				return
			}
		}
	}
}

// TotalExcess returns the summed excess of all excess nodes. The accumulator
// is int64 so adversarial inputs cannot overflow it.
func (n *Network[C]) TotalExcess() int64 {
	var total int64
	for _, e := range n.excess {
		if e > 0 {
			total += int64(e)
		}
	}
	return total
}

// TotalDeficit returns the summed excess of all deficit nodes (non-positive).
func (n *Network[C]) TotalDeficit() int64 {
	var total int64
	for _, e := range n.excess {
		if e < 0 {
			total += int64(e)
		}
	}
	return total
}

// IsBalanced reports whether all node excesses sum to zero.
func (n *Network[C]) IsBalanced() bool {
	var total int64
	for _, e := range n.excess {
		total += int64(e)
	}
	return total == 0
}

// NodePotential returns the potential of a node.
func (n *Network[C]) NodePotential(node int) C {
	n.checkNode(node)
	return n.potential[node]
}

// IncreaseNodePotential adds delta to the potential of node.
func (n *Network[C]) IncreaseNodePotential(node int, delta C) {
	n.checkNode(node)
	n.potential[node] += delta
}

// DecreaseNodePotential subtracts delta from the potential of node.
func (n *Network[C]) DecreaseNodePotential(node int, delta C) {
	n.checkNode(node)
	n.potential[node] -= delta
}

// ArcCost returns the unit cost of flow in a residual arc. Reverse arcs carry
// the negated cost of their forward pair.
func (n *Network[C]) ArcCost(arc int) C {
	n.checkArc(arc)
	return n.cost[arc]
}

// ArcReducedCost returns cost(arc) - potential(tail) + potential(head).
func (n *Network[C]) ArcReducedCost(arc, tail, head int) C {
	n.checkNode(tail)
	n.checkNode(head)
	return n.ArcCost(arc) - n.potential[tail] + n.potential[head]
}

// ArcFlow returns the flow in a residual arc. In uncapacitated mode reverse
// arcs conceptually carry infinite flow (FlowInf).
func (n *Network[C]) ArcFlow(arc int) int32 {
	n.checkArc(arc)
	switch n.mode {
	case Uncapacitated:
		if !n.rg.IsForwardArc(arc) {
			return FlowInf
		}
		return n.arcFlow[n.rg.ForwardEdgeID(arc)]
	default:
		if n.saturated[arc] {
			return 1
		}
		return 0
	}
}

// ArcResidualCapacity returns the remaining capacity of a residual arc. In
// uncapacitated mode forward arcs always return FlowInf.
func (n *Network[C]) ArcResidualCapacity(arc int) int32 {
	n.checkArc(arc)
	switch n.mode {
	case Uncapacitated:
		if n.rg.IsForwardArc(arc) {
			return FlowInf
		}
		return n.arcFlow[n.rg.ForwardEdgeID(n.rg.TransposeArc(arc))]
	default:
		if n.saturated[arc] {
			return 0
		}
		return 1
	}
}

// IsArcSaturated reports whether arc has zero residual capacity.
func (n *Network[C]) IsArcSaturated(arc int) bool {
	n.checkArc(arc)
	switch n.mode {
	case Uncapacitated:
		if n.rg.IsForwardArc(arc) {
			return false
		}
		return n.arcFlow[n.rg.ForwardEdgeID(n.rg.TransposeArc(arc))] == 0
	default:
		return n.saturated[arc]
	}
}

// IncreaseArcFlow adds delta units of flow to arc and removes them from its
// transpose. Panics when delta exceeds the arc's residual capacity
// (augmenting a saturated arc is a programmer bug).
func (n *Network[C]) IncreaseArcFlow(arc int, delta int32) {
	n.checkArc(arc)
	if delta <= 0 {
		panic(fmt.Sprintf("network: non-positive flow delta %d", delta))
	}

	switch n.mode {
	case Uncapacitated:
		if n.rg.IsForwardArc(arc) {
			n.arcFlow[n.rg.ForwardEdgeID(arc)] += delta
			return
		}
		e := n.rg.ForwardEdgeID(n.rg.TransposeArc(arc))
		if n.arcFlow[e] < delta {
			panic(fmt.Sprintf("network: augmenting saturated reverse arc %d (flow %d < delta %d)", arc, n.arcFlow[e], delta))
		}
		n.arcFlow[e] -= delta
	default:
		if delta != 1 {
			panic(fmt.Sprintf("network: unit-capacity arcs take delta 1, got %d", delta))
		}
		if n.saturated[arc] {
			panic(fmt.Sprintf("network: augmenting saturated arc %d", arc))
		}
		n.saturated[arc] = true
		n.saturated[n.rg.TransposeArc(arc)] = false
	}
}

// TotalCost returns the cost of the current flow, summed over forward arcs.
func (n *Network[C]) TotalCost() C {
	var total C
	switch n.mode {
	case Uncapacitated:
		for e, f := range n.arcFlow {
			if f != 0 {
				total += n.cost[n.rg.ResidualArc(e)] * C(f)
			}
		}
	default:
		for a := 0; a < n.NumArcs(); a++ {
			if n.rg.IsForwardArc(a) && n.saturated[a] {
				total += n.cost[a]
			}
		}
	}
	return total
}

func (n *Network[C]) checkNode(node int) {
	if !n.rg.ContainsVertex(node) {
		panic(fmt.Sprintf("network: node %d out of range [0,%d)", node, n.NumNodes()))
	}
}

func (n *Network[C]) checkArc(arc int) {
	if !n.rg.ContainsEdge(arc) {
		panic(fmt.Sprintf("network: arc %d out of range [0,%d)", arc, n.NumArcs()))
	}
}
