// Package compare runs an exact solver and a heuristic on the same dataset
// and measures how close the heuristic gets to the optimum.
package compare

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/knapcmp/knapcmp/internal/algorithm"
	"github.com/knapcmp/knapcmp/internal/cache"
)

// SolutionCache memoizes solver results. *cache.Cache satisfies it.
type SolutionCache interface {
	Get(solver string, ds algorithm.Dataset) (*cache.CachedSolution, bool)
	Set(solver string, ds algorithm.Dataset, solution algorithm.Solution, elapsed time.Duration) error
}

// Outcome is the result of one solver on one dataset.
type Outcome struct {
	Solver   string
	Solution algorithm.Solution
	Duration time.Duration
	Cached   bool
}

// Comparison holds the exact and heuristic outcomes for a dataset.
type Comparison struct {
	Name       string
	Dataset    algorithm.Dataset
	Exact      Outcome
	Heuristic  Outcome
	ValueRatio float64 // heuristic value / exact value
}

// Runner executes solvers, consulting an optional cache.
type Runner struct {
	cache SolutionCache
	log   *zap.Logger
}

// NewRunner creates a Runner. solutions may be nil to disable caching.
func NewRunner(solutions SolutionCache, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{cache: solutions, log: log}
}

// Solve validates ds and runs solver on it.
func (r *Runner) Solve(solver algorithm.Solver, ds algorithm.Dataset) (Outcome, error) {
	if err := ds.Validate(); err != nil {
		return Outcome{}, err
	}

	if r.cache != nil {
		if cached, found := r.cache.Get(solver.Name(), ds); found {
			r.log.Debug("Cache HIT",
				zap.String("solver", solver.Name()),
				zap.Int("hit_count", cached.HitCount),
				zap.Duration("ttl", cached.CurrentTTL),
			)
			return Outcome{
				Solver:   solver.Name(),
				Solution: cached.Solution(),
				Duration: time.Duration(cached.CalculationTimeNs),
				Cached:   true,
			}, nil
		}
	}

	start := time.Now()
	solution, err := solver.FindSolution(ds)
	elapsed := time.Since(start)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", solver.Name(), err)
	}

	r.log.Debug("Solved dataset",
		zap.String("solver", solver.Name()),
		zap.Int("items", len(ds.Items)),
		zap.Int("iterations", solution.Iterations),
		zap.Duration("duration", elapsed),
	)

	if r.cache != nil {
		if err := r.cache.Set(solver.Name(), ds, solution, elapsed); err != nil {
			r.log.Warn("Failed to cache solution", zap.String("solver", solver.Name()), zap.Error(err))
		}
	}

	return Outcome{Solver: solver.Name(), Solution: solution, Duration: elapsed}, nil
}

// Compare runs pair.Exact then pair.Heuristic on ds. An invalid dataset fails
// before either solver runs.
func (r *Runner) Compare(name string, ds algorithm.Dataset, pair algorithm.Pair) (Comparison, error) {
	if err := ds.Validate(); err != nil {
		return Comparison{}, fmt.Errorf("%s: %w", name, err)
	}

	exact, err := r.Solve(pair.Exact, ds)
	if err != nil {
		return Comparison{}, fmt.Errorf("%s: %w", name, err)
	}
	heuristic, err := r.Solve(pair.Heuristic, ds)
	if err != nil {
		return Comparison{}, fmt.Errorf("%s: %w", name, err)
	}

	return Comparison{
		Name:       name,
		Dataset:    ds,
		Exact:      exact,
		Heuristic:  heuristic,
		ValueRatio: valueRatio(exact.Solution.TotalValue, heuristic.Solution.TotalValue),
	}, nil
}

// Compare runs a comparison without caching.
func Compare(name string, ds algorithm.Dataset, pair algorithm.Pair) (Comparison, error) {
	return NewRunner(nil, nil).Compare(name, ds, pair)
}

func valueRatio(exact, heuristic int) float64 {
	if exact == 0 {
		if heuristic == 0 {
			return 1
		}
		return 0
	}
	return float64(heuristic) / float64(exact)
}
