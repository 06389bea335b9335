package unwrap

import (
	"math"

	"phaseflow/pkg/domain"
	"phaseflow/services/unwrap-svc/internal/graph"
)

// CostModel produces the per-edge arc costs of the dual-grid flow network.
// The returned slice has one non-negative integer cost per edge of the
// (M+1) x (N+1) base grid graph, indexed by edge id.
type CostModel[F domain.Float] interface {
	// Name identifies the model in logs and cache keys.
	Name() string

	// ArcCosts computes the cost of each dual-grid edge for the given M x N
	// wrapped phase image. dual is the base grid graph of shape
	// (M+1) x (N+1).
	ArcCosts(wrapped *domain.Grid2D[F], dual *graph.RectangularGridGraph) []int64
}

// UniformCost charges one unit per dual-grid edge, which minimizes the total
// length of all discontinuity cuts.
type UniformCost[F domain.Float] struct{}

// Name returns "uniform".
func (UniformCost[F]) Name() string { return "uniform" }

// ArcCosts returns all-ones.
func (UniformCost[F]) ArcCosts(wrapped *domain.Grid2D[F], dual *graph.RectangularGridGraph) []int64 {
	costs := make([]int64, dual.NumEdges())
	for i := range costs {
		costs[i] = 1
	}
	return costs
}

// QualityCost derives edge costs from the local wrapped gradient: routing flow
// across a smooth region (small gradient) is expensive, while crossing a steep
// gradient, where a genuine discontinuity is plausible, is cheap. Costs stay
// in [1, 1+Scale].
type QualityCost[F domain.Float] struct {
	// Scale stretches the cost range. Zero degenerates to uniform costs.
	Scale int64
}

// Name returns "quality".
func (QualityCost[F]) Name() string { return "quality" }

// ArcCosts assigns each dual edge the quality cost of the image gradient it
// crosses. Dual edges along the outer boundary cross no gradient and get the
// baseline cost of one.
//
// A vertical dual edge between dual rows i and i+1 at dual column j (with
// 1 <= j <= N-1) crosses the horizontal image gradient (i, j-1) -> (i, j);
// a horizontal dual edge between dual columns j and j+1 at dual row i (with
// 1 <= i <= M-1) crosses the vertical image gradient (i-1, j) -> (i, j).
// Opposite-direction dual edges over the same crossing share one cost.
func (c QualityCost[F]) ArcCosts(wrapped *domain.Grid2D[F], dual *graph.RectangularGridGraph) []int64 {
	m := wrapped.Rows()
	n := wrapped.Cols()
	costs := make([]int64, dual.NumEdges())
	for i := range costs {
		costs[i] = 1
	}

	gradCost := func(a, b F) int64 {
		g := math.Abs(float64(domain.WrappedDiff(a, b)))
		return 1 + int64(math.Round(float64(c.Scale)*(1-g/domain.Pi)))
	}

	// Vertical dual edges crossing horizontal image gradients.
	for i := 0; i < m; i++ {
		for j := 1; j < n; j++ {
			w := gradCost(wrapped.At(i, j), wrapped.At(i, j-1))
			costs[dual.DownEdge(i, j)] = w
			costs[dual.UpEdge(i+1, j)] = w
		}
	}

	// Horizontal dual edges crossing vertical image gradients.
	for i := 1; i < m; i++ {
		for j := 0; j < n; j++ {
			w := gradCost(wrapped.At(i, j), wrapped.At(i-1, j))
			costs[dual.RightEdge(i, j)] = w
			costs[dual.LeftEdge(i, j+1)] = w
		}
	}

	return costs
}
