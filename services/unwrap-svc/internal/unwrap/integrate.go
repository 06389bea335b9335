package unwrap

import (
	"fmt"

	"phaseflow/pkg/domain"
	"phaseflow/services/unwrap-svc/internal/network"
)

// IntegrateUnwrappedGradients reconstructs the unwrapped phase image from the
// wrapped image and the solved flow network. Each wrapped gradient is
// corrected by Tau times the net flow crossing it in the dual grid, then the
// corrected gradients are integrated: down the first column, then across each
// row.
//
// net must be built over the residual of the (M+1) x (N+1) dual grid of the
// M x N wrapped image; a shape mismatch panics.
//
// The running sums are accumulated in float64 regardless of F to limit
// rounding drift across long rows.
func IntegrateUnwrappedGradients[F domain.Float, C domain.Real](wrapped *domain.Grid2D[F], net *network.Network[C]) *domain.Grid2D[F] {
	m := wrapped.Rows()
	n := wrapped.Cols()
	if m < 1 || n < 1 {
		panic(fmt.Sprintf("unwrap: integrate over empty %dx%d image", m, n))
	}

	rg, ok := net.ResidualGraph().(*network.GridResidual)
	if !ok {
		panic("unwrap: network is not built on a grid residual graph")
	}
	if rg.NumRows() != m+1 || rg.NumCols() != n+1 {
		panic(fmt.Sprintf("unwrap: network grid is %dx%d, want %dx%d",
			rg.NumRows(), rg.NumCols(), m+1, n+1))
	}

	out := domain.NewGrid2D[F](m, n)
	out.Set(0, 0, wrapped.At(0, 0))

	// First column: the gradient between image rows i-1 and i at column 0 is
	// crossed by the dual arcs between dual cells (i,0) and (i,1).
	acc := float64(wrapped.At(0, 0))
	for i := 1; i < m; i++ {
		dpsi := float64(domain.WrappedDiff(wrapped.At(i, 0), wrapped.At(i-1, 0)))
		netFlow := net.ArcFlow(rg.RightEdge(i, 0)) - net.ArcFlow(rg.LeftEdge(i, 1))
		acc += dpsi + domain.Tau*float64(netFlow)
		out.Set(i, 0, F(acc))
	}

	// Rows: the gradient between image columns j-1 and j at row i is crossed
	// by the dual arcs between dual cells (i,j) and (i+1,j).
	for i := 0; i < m; i++ {
		acc = float64(out.At(i, 0))
		for j := 1; j < n; j++ {
			dpsi := float64(domain.WrappedDiff(wrapped.At(i, j), wrapped.At(i, j-1)))
			netFlow := net.ArcFlow(rg.DownEdge(i, j)) - net.ArcFlow(rg.UpEdge(i+1, j))
			acc += dpsi + domain.Tau*float64(netFlow)
			out.Set(i, j, F(acc))
		}
	}

	return out
}
