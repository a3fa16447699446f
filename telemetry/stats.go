package telemetry

import (
	"log/slog"
	"sort"
)

// WindowStats holds aggregated per-window diagnostics for a run of the
// solver: the conservation residuals testable properties 1-2 ask for,
// implicit-solver convergence behavior, and deformation-gradient health.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	ParticleCount int `csv:"particles"`

	MassResidual     float64 `csv:"mass_residual"`     // |Σm_g - Σm_p| / Σm_p
	MomentumResidual float64 `csv:"momentum_residual"` // |Σm_g·v_g - Σm_p·v_p|

	ImplicitIterationsMean float64 `csv:"implicit_iterations_mean"`
	ImplicitResidualMean   float64 `csv:"implicit_residual_mean"`
	ImplicitNonConverged   int     `csv:"implicit_non_converged"`

	MinSingularValue float64 `csv:"min_singular_value"`
	MaxSingularValue float64 `csv:"max_singular_value"`

	MeanVolume0 float64 `csv:"mean_volume0"`
	P10Volume0  float64 `csv:"p10_volume0"`
	P50Volume0  float64 `csv:"p50_volume0"`
	P90Volume0  float64 `csv:"p90_volume0"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistributionStats calculates mean and percentiles from a
// sample, used for the volume0 distribution check (S4).
func ComputeDistributionStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.ParticleCount),
		slog.Float64("mass_residual", s.MassResidual),
		slog.Float64("momentum_residual", s.MomentumResidual),
		slog.Float64("implicit_iterations_mean", s.ImplicitIterationsMean),
		slog.Float64("implicit_residual_mean", s.ImplicitResidualMean),
		slog.Int("implicit_non_converged", s.ImplicitNonConverged),
		slog.Float64("min_singular_value", s.MinSingularValue),
		slog.Float64("max_singular_value", s.MaxSingularValue),
		slog.Float64("mean_volume0", s.MeanVolume0),
		slog.Float64("p10_volume0", s.P10Volume0),
		slog.Float64("p50_volume0", s.P50Volume0),
		slog.Float64("p90_volume0", s.P90Volume0),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
