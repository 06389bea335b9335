package unwrap

import (
	"errors"
	"fmt"
	"log/slog"

	"phaseflow/pkg/domain"
	"phaseflow/services/unwrap-svc/internal/algorithms"
	"phaseflow/services/unwrap-svc/internal/graph"
	"phaseflow/services/unwrap-svc/internal/network"
)

// Standard errors returned by Unwrap. Check with errors.Is.
var (
	// ErrNilInput indicates a nil wrapped-phase image.
	ErrNilInput = errors.New("wrapped phase image is nil")

	// ErrEmptyInput indicates an image with no rows or no columns.
	ErrEmptyInput = errors.New("wrapped phase image is empty")

	// ErrNotWrapped indicates a value outside [-Pi, Pi] (NaN included).
	ErrNotWrapped = errors.New("value outside the wrapped phase interval")

	// ErrUnbalanced indicates the solver could not route all residues.
	ErrUnbalanced = errors.New("residue network did not balance")
)

// Algorithm selects the shortest-path engine inside the solver.
type Algorithm string

const (
	// AlgorithmDial uses bucket-queue shortest paths; the default for the
	// bounded integer costs produced by the cost models.
	AlgorithmDial Algorithm = "dial"

	// AlgorithmDijkstra uses binary-heap shortest paths.
	AlgorithmDijkstra Algorithm = "dijkstra"
)

// Valid reports whether a is a known algorithm.
func (a Algorithm) Valid() bool {
	return a == AlgorithmDial || a == AlgorithmDijkstra
}

// Options configures an unwrap operation. The zero value is not usable;
// start from DefaultOptions.
type Options[F domain.Float] struct {
	// Algorithm selects the shortest-path engine. Default: AlgorithmDial.
	Algorithm Algorithm

	// Cost supplies the dual-grid arc costs. Default: UniformCost.
	Cost CostModel[F]

	// MaxIterations bounds the primal-dual phase before the SSP fallback.
	// Zero means unbounded.
	MaxIterations int

	// Logger receives solver progress. Nil disables progress logging.
	Logger *slog.Logger
}

// DefaultOptions returns Dial with uniform costs and unbounded iterations.
func DefaultOptions[F domain.Float]() *Options[F] {
	return &Options[F]{
		Algorithm: AlgorithmDial,
		Cost:      UniformCost[F]{},
	}
}

// Stats describes what the solver did.
type Stats struct {
	// NumResidues is the count of non-zero dual-grid residues.
	NumResidues int

	// TotalExcess is the number of positive residue units routed.
	TotalExcess int64

	// TotalCost is the cost of the final flow.
	TotalCost int64

	// Augmentations is the number of unit augmentations performed.
	Augmentations int

	// Iterations is the number of primal-dual iterations.
	Iterations int
}

// Result is an unwrapped image plus solve statistics.
type Result[F domain.Float] struct {
	Unwrapped *domain.Grid2D[F]
	Stats     Stats
}

// Validate checks that wrapped is a usable phase image: non-nil, non-empty,
// all values in [-Pi, Pi] and free of NaN.
func Validate[F domain.Float](wrapped *domain.Grid2D[F]) error {
	if wrapped == nil {
		return ErrNilInput
	}
	if wrapped.Rows() < 1 || wrapped.Cols() < 1 {
		return ErrEmptyInput
	}
	for i := 0; i < wrapped.Rows(); i++ {
		for j := 0; j < wrapped.Cols(); j++ {
			if !domain.IsWrappedPhase(wrapped.At(i, j)) {
				return fmt.Errorf("%w: %v at (%d,%d)", ErrNotWrapped, wrapped.At(i, j), i, j)
			}
		}
	}
	return nil
}

// Unwrap computes the unwrapped phase of an M x N wrapped image.
//
// The pipeline is: residues on the (M+1) x (N+1) dual grid -> uncapacitated
// min-cost-flow network over the dual grid graph -> primal-dual solve (with
// SSP tail) -> integration of flow-corrected wrapped gradients.
func Unwrap[F domain.Float](wrapped *domain.Grid2D[F], opts *Options[F]) (*Result[F], error) {
	if opts == nil {
		opts = DefaultOptions[F]()
	}
	if opts.Cost == nil {
		opts.Cost = UniformCost[F]{}
	}
	if opts.Algorithm == "" {
		opts.Algorithm = AlgorithmDial
	}
	if !opts.Algorithm.Valid() {
		return nil, fmt.Errorf("unwrap: unknown algorithm %q", opts.Algorithm)
	}

	if err := Validate(wrapped); err != nil {
		return nil, err
	}

	m := wrapped.Rows()
	n := wrapped.Cols()

	residues := Residue(wrapped)

	dual := graph.NewRectangularGridGraph(m+1, n+1, 1)
	costs := opts.Cost.ArcCosts(wrapped, dual)
	net := network.New(network.NewGridResidual(dual), residues.Data(), costs, network.Uncapacitated)

	stats := Stats{TotalExcess: net.TotalExcess()}
	for _, r := range residues.Data() {
		if r != 0 {
			stats.NumResidues++
		}
	}

	if stats.NumResidues > 0 {
		solverOpts := &algorithms.Options{
			MaxIterations: opts.MaxIterations,
			Logger:        opts.Logger,
		}

		var newEngine func() algorithms.Engine[int64]
		switch opts.Algorithm {
		case AlgorithmDijkstra:
			newEngine = func() algorithms.Engine[int64] {
				return algorithms.NewDijkstra[int64](net.ResidualGraph())
			}
		default:
			newEngine = func() algorithms.Engine[int64] {
				return algorithms.NewDialForNetwork(net)
			}
		}

		res := algorithms.PrimalDual(net, newEngine, solverOpts)
		stats.Augmentations = res.Augmentations
		stats.Iterations = res.Iterations

		if !net.IsBalanced() || net.TotalExcess() != 0 {
			return nil, fmt.Errorf("%w: %d units stranded", ErrUnbalanced, net.TotalExcess())
		}
	}

	stats.TotalCost = net.TotalCost()

	return &Result[F]{
		Unwrapped: IntegrateUnwrappedGradients(wrapped, net),
		Stats:     stats,
	}, nil
}
