// Command snowmpm is the headless driver and scene-generation CLI for
// the MPM snow solver, mirroring the reference simulator's
// "<bin> <routine> [args...]" dispatcher.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/snowmpm/snowmpm/config"
	"github.com/snowmpm/snowmpm/scene"
	"github.com/snowmpm/snowmpm/snapshot"
	"github.com/snowmpm/snowmpm/solver"
	"github.com/snowmpm/snowmpm/telemetry"
)

type routine func(args []string) error

var routines = map[string]routine{
	"info":             runInfo,
	"sim-gen-snowball": runGenSnowball,
	"sim-gen-slab":     runGenSlab,
	"sim-scene":        runScene,
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	name := os.Args[1]
	r, ok := routines[name]
	if !ok {
		slog.Error("unknown routine", "routine", name)
		printUsage()
		os.Exit(1)
	}

	if err := r(os.Args[2:]); err != nil {
		slog.Error("routine failed", "routine", name, "error", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: snowmpm <routine> [args...]")
	fmt.Fprintln(os.Stderr, "routines: info, sim-gen-snowball, sim-gen-slab, sim-scene")
}

func runInfo(args []string) error {
	fmt.Println("snowmpm: Material Point Method snow solver")
	fmt.Println("routines:")
	fmt.Println("  info                     print this message")
	fmt.Println("  sim-gen-snowball <out>   write a snowball scene to <out>")
	fmt.Println("  sim-gen-slab <out>       write a slab scene to <out>")
	fmt.Println("  sim-scene [flags] <in>   run a headless simulation from a scene file")
	return nil
}

func runGenSnowball(args []string) error {
	fs := flag.NewFlagSet("sim-gen-snowball", flag.ContinueOnError)
	radius := fs.Float64("radius", 0.03, "snowball radius in meters")
	density := fs.Float64("density", 400, "material density in kg/m^3")
	spacing := fs.Float64("spacing", 0.0072, "particle spacing in meters")
	h := fs.Float64("h", 0.0144, "grid spacing in meters")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: sim-gen-snowball [flags] <out.snowstate>")
	}
	out := fs.Arg(0)

	specs := scene.Snowball([3]float64{0.5, 0.5, 0.5}, *radius, *density, *spacing)
	return writeSceneSnapshot(out, *h, specs)
}

func runGenSlab(args []string) error {
	fs := flag.NewFlagSet("sim-gen-slab", flag.ContinueOnError)
	extentX := fs.Float64("extent-x", 0.3, "slab extent in x (meters)")
	extentY := fs.Float64("extent-y", 0.3, "slab extent in y (meters)")
	extentZ := fs.Float64("extent-z", 0.1, "slab extent in z (meters)")
	density := fs.Float64("density", 400, "material density in kg/m^3")
	spacing := fs.Float64("spacing", 0.0072, "particle spacing in meters")
	h := fs.Float64("h", 0.0144, "grid spacing in meters")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: sim-gen-slab [flags] <out.snowstate>")
	}
	out := fs.Arg(0)

	origin := [3]float64{0.35, 0.35, 0.1}
	extent := [3]float64{*extentX, *extentY, *extentZ}
	specs := scene.Slab(origin, extent, *density, *spacing)
	return writeSceneSnapshot(out, *h, specs)
}

func writeSceneSnapshot(out string, h float64, specs []scene.ParticleSpec) error {
	state := snapshot.State{
		Nx: 1, Ny: 1, Nz: 1, H: h,
		Particles: make([]solver.Particle, len(specs)),
	}
	for i, s := range specs {
		state.Particles[i] = solver.NewParticle(solver.Vec3(s.Position), solver.Vec3(s.Velocity), s.Mass)
	}
	if err := snapshot.Save(out, state); err != nil {
		return err
	}
	slog.Info("wrote scene", "path", out, "particles", len(specs))
	return nil
}

func runScene(args []string) error {
	fs := flag.NewFlagSet("sim-scene", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to config.yaml (empty = use defaults)")
	outputDir := fs.String("output-dir", "", "output directory for CSV telemetry and config provenance")
	snapshotDir := fs.String("snapshot-dir", "", "directory to write periodic .snowstate snapshots")
	maxTicks := fs.Int("max-ticks", 0, "stop after N ticks (0 = use config)")
	implicit := fs.Bool("implicit", false, "enable the implicit velocity solve")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: sim-scene [flags] <in.snowstate>")
	}
	inPath := fs.Arg(0)

	if err := config.Init(*configPath); err != nil {
		return err
	}
	cfg := config.Cfg()

	state, err := snapshot.Load(inPath)
	if err != nil {
		return err
	}

	solverCfg := cfg.SolverConfig()
	if *implicit {
		solverCfg.ImplicitEnabled = true
	}

	s, err := solver.New(solverCfg, cfg.Grid.Nx, cfg.Grid.Ny, cfg.Grid.Nz)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, p := range state.Particles {
		if err := s.AddParticle(p.Position, p.VCurr, p.Mass); err != nil {
			return err
		}
	}

	ticks := cfg.Run.MaxTicks
	if *maxTicks > 0 {
		ticks = *maxTicks
	}

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		return err
	}

	collector := telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Run.DT)
	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindowTicks)

	for tick := 0; tick < ticks; tick++ {
		perf.StartTick()
		if err := s.Update(uint64(tick), perf); err != nil {
			return fmt.Errorf("tick %d: %w", tick, err)
		}

		if collector.ShouldFlush(int64(tick)) {
			perf.StartPhase(telemetry.PhaseTelemetry)
			stats := collector.Flush(int64(tick), s.Grid(), s.Particles())
			stats.LogStats()
			if err := out.WriteTelemetry(stats); err != nil {
				return err
			}
			if err := out.WritePerf(perf.Stats(), int64(tick)); err != nil {
				return err
			}
		}
		perf.EndTick()

		if *snapshotDir != "" && cfg.Telemetry.SnapshotEvery > 0 && tick%cfg.Telemetry.SnapshotEvery == 0 {
			path := fmt.Sprintf("%s/frame-%d.snowstate", *snapshotDir, tick)
			snap := snapshot.State{
				Nx: cfg.Grid.Nx, Ny: cfg.Grid.Ny, Nz: cfg.Grid.Nz, H: cfg.Grid.H,
				Particles: s.Particles(),
			}
			if err := snapshot.Save(path, snap); err != nil {
				return err
			}
		}
	}

	slog.Info("simulation complete", "ticks", ticks, "particles", len(state.Particles))
	return nil
}
