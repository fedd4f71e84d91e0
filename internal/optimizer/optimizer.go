// Package optimizer searches the diversion-increase range for the most
// favourable scenario and for the point where the investment stops paying off.
package optimizer

import (
	"fmt"
	"math"

	"github.com/iwvelando/care-forecast/internal/simulation"
	"github.com/iwvelando/care-forecast/pkg/format"
	"github.com/iwvelando/care-forecast/pkg/optimization"
	"go.uber.org/zap"
)

const (
	defaultTolerance     = 0.01
	defaultMaxIterations = 64
)

// Bounds limits the search. Step is the grid used for the coarse scan.
type Bounds struct {
	Min           float64
	Max           float64
	Step          float64
	Tolerance     float64
	MaxIterations int
}

// Runner evaluates a simulator over a bounded range.
type Runner struct {
	logger *zap.Logger
	sim    *simulation.Simulator
	bounds Bounds
	suffix string
}

type evaluation struct {
	value   float64
	balance int64
	avoided int
}

// NewRunner constructs a Runner for the provided simulator and bounds.
func NewRunner(logger *zap.Logger, sim *simulation.Simulator, bounds Bounds) (*Runner, error) {
	if sim == nil {
		return nil, fmt.Errorf("simulator cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := (simulation.Range{Min: bounds.Min, Max: bounds.Max, Step: bounds.Step}).Validate(); err != nil {
		return nil, fmt.Errorf("invalid optimizer bounds: %w", err)
	}
	if bounds.Tolerance <= 0 {
		bounds.Tolerance = defaultTolerance
	}
	if bounds.MaxIterations <= 0 {
		bounds.MaxIterations = defaultMaxIterations
	}
	return &Runner{logger: logger, sim: sim, bounds: bounds, suffix: format.DefaultCurrencySuffix}, nil
}

// WithCurrencySuffix sets the suffix used for display strings.
func (r *Runner) WithCurrencySuffix(suffix string) *Runner {
	r.suffix = suffix
	return r
}

// BoundsFromRange builds search bounds from a slider range.
func BoundsFromRange(rng simulation.Range) Bounds {
	return Bounds{Min: rng.Min, Max: rng.Max, Step: rng.Step}
}

func (r *Runner) evaluate(x float64) evaluation {
	res := r.sim.ComputeImpact(x)
	return evaluation{value: res.AppliedIncrease, balance: res.NetFinancialBalance, avoided: res.AvoidedAdverseCount}
}

// Run scans the grid for the increase with the highest net balance, then
// bisects the first interval where the balance turns from positive to
// non-positive to locate the break-even point.
func (r *Runner) Run() (*optimization.Summary, error) {
	rng := simulation.Range{Min: r.bounds.Min, Max: r.bounds.Max, Step: r.bounds.Step}
	values := rng.Values()

	evals := make([]evaluation, 0, len(values))
	for _, v := range values {
		evals = append(evals, r.evaluate(v))
	}

	best := evals[0]
	for _, e := range evals[1:] {
		if e.balance > best.balance {
			best = e
		}
	}

	summary := &optimization.Summary{
		Min:         r.bounds.Min,
		Max:         r.bounds.Max,
		Best:        best.value,
		BestBalance: best.balance,
		BestAvoided: best.avoided,
		Converged:   true,
	}

	if !summary.Profitable() {
		summary.Notes = append(summary.Notes, fmt.Sprintf(
			"no positive net balance between %s and %s; the best option is %s at %s",
			formatPoints(r.bounds.Min), formatPoints(r.bounds.Max),
			formatPoints(best.value), format.SignedCurrency(float64(best.balance), r.suffix),
		))
	} else {
		for i := 1; i < len(evals); i++ {
			if evals[i-1].balance > 0 && evals[i].balance <= 0 {
				point, iterations, converged := r.bisect(evals[i-1].value, evals[i].value)
				summary.BreakEven = &point
				summary.Iterations = iterations
				summary.Converged = converged
				break
			}
		}
		if summary.BreakEven == nil {
			summary.Notes = append(summary.Notes, fmt.Sprintf(
				"net balance stays positive up to %s", formatPoints(r.bounds.Max)))
		}
	}

	summary.BestDisplay = formatPoints(summary.Best)
	summary.BalanceDisplay = format.SignedCurrency(float64(summary.BestBalance), r.suffix)

	fields := []zap.Field{
		zap.String("op", "optimizer.Run"),
		zap.Float64("best", summary.Best),
		zap.Int64("bestBalance", summary.BestBalance),
		zap.Int("iterations", summary.Iterations),
		zap.Bool("converged", summary.Converged),
	}
	if summary.BreakEven != nil {
		fields = append(fields, zap.Float64("breakEven", *summary.BreakEven))
	}
	r.logger.Info("optimizer evaluated diversion range", fields...)

	return summary, nil
}

// bisect narrows [lo, hi] where balance(lo) > 0 and balance(hi) <= 0 and
// returns the last increase that still breaks even.
func (r *Runner) bisect(lo, hi float64) (float64, int, bool) {
	iterations := 0
	for hi-lo > r.bounds.Tolerance {
		if iterations >= r.bounds.MaxIterations {
			return lo, iterations, false
		}
		iterations++
		mid := lo + (hi-lo)/2
		if r.evaluate(mid).balance > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return math.Round(lo/r.bounds.Tolerance) * r.bounds.Tolerance, iterations, true
}

func formatPoints(v float64) string {
	return fmt.Sprintf("+%.2f pp", v)
}
