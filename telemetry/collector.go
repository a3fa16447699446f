package telemetry

import (
	"math"

	"github.com/snowmpm/snowmpm/solver"
)

func absFloat(x float64) float64 {
	return math.Abs(x)
}

// Collector accumulates per-tick solver diagnostics within a window and
// flushes a WindowStats, the same windowed-accumulation shape the
// teacher's event counter used, repurposed for conservation and
// implicit-solver convergence tracking instead of population events.
type Collector struct {
	windowDurationTicks int64
	dt                  float64

	windowStartTick int64

	implicitIterations []int
	implicitResiduals  []float64
	implicitFailures   int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds.
// dt: seconds per tick (used for tick-to-time conversion).
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int64(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordImplicitSolve records one tick's implicit-solver outcome. A
// caller that runs with the implicit path disabled simply never calls
// this, leaving the window's implicit fields at zero.
func (c *Collector) RecordImplicitSolve(iterations int, residual float64, converged bool) {
	c.implicitIterations = append(c.implicitIterations, iterations)
	c.implicitResiduals = append(c.implicitResiduals, residual)
	if !converged {
		c.implicitFailures++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from a snapshot of the solver's grid and
// particle state and resets the window's accumulators. Grid-side mass
// and momentum are read at the same instant as the particle snapshot,
// so MassResidual/MomentumResidual are only meaningful when called
// after rasterize (§4.3) and before Update overwrites the particles'
// velocities with v^{n+1} at the end of the tick.
func (c *Collector) Flush(currentTick int64, grid *solver.Grid, particles []solver.Particle) WindowStats {
	var particleMass, gridMass float64
	var particleMomentum, gridMomentum solver.Vec3
	var minSigma, maxSigma float64
	first := true
	volumes := make([]float64, 0, len(particles))

	for i := range particles {
		p := &particles[i]
		particleMass += p.Mass
		particleMomentum = particleMomentum.Add(p.VCurr.Scale(p.Mass))
		volumes = append(volumes, p.Volume0)

		_, _, sigma, ok := solver.SVD3(p.DeformElastic)
		if !ok {
			continue
		}
		for _, s := range sigma {
			if first {
				minSigma, maxSigma, first = s, s, false
				continue
			}
			if s < minSigma {
				minSigma = s
			}
			if s > maxSigma {
				maxSigma = s
			}
		}
	}

	if grid != nil {
		for _, n := range grid.Nodes() {
			gridMass += n.Mass
			gridMomentum = gridMomentum.Add(n.VCurr.Scale(n.Mass))
		}
	}

	var massResidual float64
	if particleMass > 0 {
		massResidual = absFloat(gridMass-particleMass) / particleMass
	}
	momentumResidual := particleMomentum.Sub(gridMomentum).Length()

	meanVol, p10Vol, p50Vol, p90Vol := ComputeDistributionStats(volumes)

	var implIterMean, implResMean float64
	if n := len(c.implicitIterations); n > 0 {
		var sumIter, sumRes float64
		for i := range c.implicitIterations {
			sumIter += float64(c.implicitIterations[i])
			sumRes += c.implicitResiduals[i]
		}
		implIterMean = sumIter / float64(n)
		implResMean = sumRes / float64(n)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		ParticleCount: len(particles),

		MassResidual:     massResidual,
		MomentumResidual: momentumResidual,

		ImplicitIterationsMean: implIterMean,
		ImplicitResidualMean:   implResMean,
		ImplicitNonConverged:   c.implicitFailures,

		MinSingularValue: minSigma,
		MaxSingularValue: maxSigma,

		MeanVolume0: meanVol,
		P10Volume0:  p10Vol,
		P50Volume0:  p50Vol,
		P90Volume0:  p90Vol,
	}

	c.windowStartTick = currentTick
	c.implicitIterations = nil
	c.implicitResiduals = nil
	c.implicitFailures = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}
