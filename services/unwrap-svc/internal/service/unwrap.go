// Package service implements the unwrap service layer: request validation,
// result caching, metrics, tracing and run-history recording around the
// unwrap pipeline.
package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"phaseflow/pkg/apperror"
	"phaseflow/pkg/cache"
	"phaseflow/pkg/config"
	"phaseflow/pkg/domain"
	"phaseflow/pkg/logger"
	"phaseflow/pkg/metrics"
	"phaseflow/pkg/telemetry"
	"phaseflow/services/unwrap-svc/internal/repository"
	"phaseflow/services/unwrap-svc/internal/unwrap"
)

// UnwrapRequest is a service-level unwrap call.
type UnwrapRequest struct {
	// Phase is the wrapped phase image, row-major, values in [-Pi, Pi].
	Phase [][]float64 `json:"phase"`

	// Algorithm selects the engine: dial (default) or dijkstra.
	Algorithm string `json:"algorithm,omitempty"`

	// CostModel selects the arc costs: uniform (default) or quality.
	CostModel string `json:"cost_model,omitempty"`

	// MaxIterations bounds the primal-dual phase. Zero means the configured
	// default.
	MaxIterations int `json:"max_iterations,omitempty"`
}

// UnwrapResponse is the result of an unwrap call.
type UnwrapResponse struct {
	Unwrapped     [][]float64 `json:"unwrapped"`
	Rows          int         `json:"rows"`
	Cols          int         `json:"cols"`
	NumResidues   int         `json:"num_residues"`
	TotalCost     int64       `json:"total_cost"`
	Augmentations int         `json:"augmentations"`
	Iterations    int         `json:"iterations"`
	Cached        bool        `json:"cached"`
	ComputationMs float64     `json:"computation_ms"`
}

// UnwrapService orchestrates unwrap operations.
type UnwrapService struct {
	cfg     *config.Config
	metrics *metrics.Metrics
	cache   *cache.UnwrapCache
	repo    repository.Repository
}

// New creates the service. cache and repo may be nil to disable caching and
// history recording.
func New(cfg *config.Config, unwrapCache *cache.UnwrapCache, repo repository.Repository) *UnwrapService {
	return &UnwrapService{
		cfg:     cfg,
		metrics: metrics.Get(),
		cache:   unwrapCache,
		repo:    repo,
	}
}

// Unwrap validates the request, consults the cache, runs the solver, and
// records metrics and history.
func (s *UnwrapService) Unwrap(ctx context.Context, req *UnwrapRequest) (*UnwrapResponse, error) {
	algorithm, costModel, maxIter, err := s.resolveOptions(req)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "UnwrapService.Unwrap",
		trace.WithAttributes(
			attribute.String("algorithm", string(algorithm)),
			attribute.String("cost_model", costModel.Name()),
		),
	)
	defer span.End()

	if err := s.validate(req); err != nil {
		telemetry.SetError(ctx, err)
		return nil, err
	}

	key := cache.ImageHash(req.Phase, string(algorithm), costModel.Name(), maxIter)
	if s.cache != nil {
		cached, found, err := s.cache.Get(ctx, key)
		if err != nil {
			logger.Log.Warn("Unwrap cache lookup failed", "error", err)
		}
		if s.metrics != nil {
			s.metrics.RecordCacheLookup(found)
		}
		if found {
			telemetry.AddEvent(ctx, "cache_hit")
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return &UnwrapResponse{
				Unwrapped:     cached.Unwrapped,
				Rows:          len(cached.Unwrapped),
				Cols:          len(cached.Unwrapped[0]),
				NumResidues:   cached.NumResidues,
				TotalCost:     cached.TotalCost,
				Augmentations: cached.Augmentations,
				Iterations:    cached.Iterations,
				Cached:        true,
			}, nil
		}
	}
	span.SetAttributes(attribute.Bool("cache_hit", false))

	wrapped, err := domain.FromRows(req.Phase)
	if err != nil {
		appErr := apperror.Wrap(apperror.CodeInvalidArgument, "invalid phase grid", err)
		telemetry.SetError(ctx, appErr)
		return nil, appErr
	}

	opts := &unwrap.Options[float64]{
		Algorithm:     algorithm,
		Cost:          costModel,
		MaxIterations: maxIter,
		Logger:        logger.Log,
	}

	start := time.Now()
	res, err := unwrap.Unwrap(wrapped, opts)
	elapsed := time.Since(start)

	if s.metrics != nil {
		residues, augmentations := 0, 0
		var totalCost int64
		if res != nil {
			residues = res.Stats.NumResidues
			augmentations = res.Stats.Augmentations
			totalCost = res.Stats.TotalCost
		}
		s.metrics.RecordUnwrap(string(algorithm), err == nil, elapsed,
			wrapped.Size(), residues, augmentations, totalCost)
	}

	if err != nil {
		appErr := s.mapSolverError(err)
		telemetry.SetError(ctx, appErr)
		s.record(ctx, req, algorithm, costModel.Name(), nil, elapsed, "error")
		return nil, appErr
	}

	resp := &UnwrapResponse{
		Unwrapped:     res.Unwrapped.ToRows(),
		Rows:          res.Unwrapped.Rows(),
		Cols:          res.Unwrapped.Cols(),
		NumResidues:   res.Stats.NumResidues,
		TotalCost:     res.Stats.TotalCost,
		Augmentations: res.Stats.Augmentations,
		Iterations:    res.Stats.Iterations,
		ComputationMs: float64(elapsed.Microseconds()) / 1000.0,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, &cache.UnwrapResult{
			Unwrapped:     resp.Unwrapped,
			NumResidues:   resp.NumResidues,
			TotalCost:     resp.TotalCost,
			Augmentations: resp.Augmentations,
			Iterations:    resp.Iterations,
		}); err != nil {
			logger.Log.Warn("Failed to cache unwrap result", "error", err)
		}
	}

	s.record(ctx, req, algorithm, costModel.Name(), &res.Stats, elapsed, "ok")

	return resp, nil
}

// History returns the most recent unwrap runs.
func (s *UnwrapService) History(ctx context.Context, limit, offset int) ([]*repository.Record, error) {
	if s.repo == nil {
		return nil, apperror.New(apperror.CodeUnavailable, "run history is not enabled")
	}
	records, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeInternal, "failed to list history", err)
	}
	return records, nil
}

func (s *UnwrapService) resolveOptions(req *UnwrapRequest) (unwrap.Algorithm, unwrap.CostModel[float64], int, error) {
	algorithm := unwrap.Algorithm(req.Algorithm)
	if algorithm == "" {
		algorithm = unwrap.Algorithm(s.cfg.Solver.Algorithm)
	}
	if algorithm == "" {
		algorithm = unwrap.AlgorithmDial
	}
	if !algorithm.Valid() {
		return "", nil, 0, apperror.Newf(apperror.CodeInvalidAlgorithm,
			"unknown algorithm %q", req.Algorithm).WithField("algorithm")
	}

	var costModel unwrap.CostModel[float64]
	switch req.CostModel {
	case "", "uniform":
		costModel = unwrap.UniformCost[float64]{}
	case "quality":
		costModel = unwrap.QualityCost[float64]{Scale: 8}
	default:
		return "", nil, 0, apperror.Newf(apperror.CodeInvalidArgument,
			"unknown cost model %q", req.CostModel).WithField("cost_model")
	}

	maxIter := req.MaxIterations
	if maxIter <= 0 {
		maxIter = s.cfg.Solver.MaxIterations
	}

	return algorithm, costModel, maxIter, nil
}

func (s *UnwrapService) validate(req *UnwrapRequest) error {
	if len(req.Phase) == 0 || len(req.Phase[0]) == 0 {
		return apperror.New(apperror.CodeEmptyImage, "phase image is empty").WithField("phase")
	}

	cols := len(req.Phase[0])
	for i, row := range req.Phase {
		if len(row) != cols {
			return apperror.Newf(apperror.CodeShapeMismatch,
				"row %d has %d columns, want %d", i, len(row), cols).WithField("phase")
		}
	}

	if maxPixels := s.cfg.Solver.MaxPixels; maxPixels > 0 && len(req.Phase)*cols > maxPixels {
		return apperror.Newf(apperror.CodeImageTooLarge,
			"image has %d pixels, limit is %d", len(req.Phase)*cols, maxPixels).WithField("phase")
	}

	return nil
}

func (s *UnwrapService) mapSolverError(err error) error {
	switch {
	case errors.Is(err, unwrap.ErrNilInput), errors.Is(err, unwrap.ErrEmptyInput):
		return apperror.Wrap(apperror.CodeEmptyImage, "phase image is empty", err)
	case errors.Is(err, unwrap.ErrNotWrapped):
		return apperror.Wrap(apperror.CodeNotWrappedPhase, "phase values must lie in [-pi, pi]", err)
	case errors.Is(err, unwrap.ErrUnbalanced):
		return apperror.Wrap(apperror.CodeInfeasible, "residue network did not balance", err)
	default:
		return apperror.Wrap(apperror.CodeInternal, "unwrap failed", err)
	}
}

func (s *UnwrapService) record(ctx context.Context, req *UnwrapRequest, algorithm unwrap.Algorithm, costModel string, stats *unwrap.Stats, elapsed time.Duration, status string) {
	if s.repo == nil {
		return
	}

	rec := &repository.Record{
		Rows:       len(req.Phase),
		Algorithm:  string(algorithm),
		CostModel:  costModel,
		DurationMs: elapsed.Milliseconds(),
		Status:     status,
	}
	if len(req.Phase) > 0 {
		rec.Cols = len(req.Phase[0])
	}
	if stats != nil {
		rec.NumResidues = stats.NumResidues
		rec.TotalCost = stats.TotalCost
		rec.Augmentations = stats.Augmentations
		rec.Iterations = stats.Iterations
	}

	if err := s.repo.Insert(ctx, rec); err != nil {
		logger.Log.Warn("Failed to record unwrap run", "error", err)
	}
}
