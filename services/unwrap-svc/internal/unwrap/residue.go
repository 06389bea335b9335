// Package unwrap turns wrapped phase images into unwrapped ones: it computes
// integer residues on the dual grid, models them as node imbalances of a
// min-cost-flow network over a rectangular grid graph, solves the network with
// the primal-dual driver, and integrates the flow-corrected wrapped gradients
// back into an unwrapped image.
package unwrap

import (
	"fmt"

	"phaseflow/pkg/domain"
)

// Residue computes the integer residue field of a wrapped phase image on the
// dual grid. The input is M x N with values in [-Pi, Pi]; the output is
// (M+1) x (N+1), zero-initialized, with each interior 2x2 plaquette
// contributing signed cycle counts to its four corners and the boundary
// handled by two one-dimensional passes.
//
// Every non-zero residue is +/-1 before accumulation and the residues always
// sum to zero, so the field is a valid supply/demand vector for a balanced
// flow network.
//
// Panics if any input value lies outside [-Pi, Pi] (NaN included); callers
// needing a recoverable error must validate first.
func Residue[F domain.Float](wrapped *domain.Grid2D[F]) *domain.Grid2D[int32] {
	m := wrapped.Rows()
	n := wrapped.Cols()
	if m < 1 || n < 1 {
		panic(fmt.Sprintf("unwrap: residue of empty %dx%d image", m, n))
	}

	out := domain.NewGrid2D[int32](m+1, n+1)

	at := func(i, j int) F {
		psi := wrapped.At(i, j)
		if !domain.IsWrappedPhase(psi) {
			panic(fmt.Sprintf("unwrap: value %v at (%d,%d) is not a wrapped phase", psi, i, j))
		}
		return psi
	}

	// Interior plaquettes.
	for i := 0; i < m-1; i++ {
		for j := 0; j < n-1; j++ {
			phi00 := at(i, j)
			phi10 := at(i+1, j)
			phi01 := at(i, j+1)

			di := domain.CycleDiff(phi00, phi10)
			dj := domain.CycleDiff(phi01, phi00)

			out.Set(i+1, j, out.At(i+1, j)+di)
			out.Set(i, j+1, out.At(i, j+1)+dj)
			out.Set(i+1, j+1, out.At(i+1, j+1)-di-dj)
		}
	}

	// Last column.
	for i, j := 0, n-1; i < m-1; i++ {
		d := domain.CycleDiff(at(i, j), at(i+1, j))
		out.Set(i+1, j, out.At(i+1, j)+d)
		out.Set(i+1, j+1, out.At(i+1, j+1)-d)
	}

	// Last row.
	for i, j := m-1, 0; j < n-1; j++ {
		d := domain.CycleDiff(at(i, j+1), at(i, j))
		out.Set(i, j+1, out.At(i, j+1)+d)
		out.Set(i+1, j+1, out.At(i+1, j+1)-d)
	}

	return out
}
