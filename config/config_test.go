package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Grid.H <= 0 {
		t.Errorf("Grid.H = %v, want > 0", cfg.Grid.H)
	}
	if cfg.Run.DT <= 0 {
		t.Errorf("Run.DT = %v, want > 0", cfg.Run.DT)
	}
	if cfg.Derived.InvH == 0 {
		t.Error("computeDerived should have set Derived.InvH")
	}
}

func TestLoadOverridesMergeOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	if err := os.WriteFile(path, []byte("grid:\n  h: 0.02\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q): %v", path, err)
	}
	if cfg.Grid.H != 0.02 {
		t.Errorf("Grid.H = %v, want 0.02 (from override)", cfg.Grid.H)
	}
	// Fields not present in the override file should keep their defaults.
	if cfg.Material.Mu0 == 0 {
		t.Error("Material.Mu0 should keep its default when not overridden")
	}
}

func TestInitAndCfg(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("Init(\"\"): %v", err)
	}
	if Cfg() == nil {
		t.Fatal("Cfg() returned nil after Init")
	}
}

func TestSolverConfigTranslation(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	sc := cfg.SolverConfig()
	if sc.H != cfg.Grid.H {
		t.Errorf("SolverConfig().H = %v, want %v", sc.H, cfg.Grid.H)
	}
	if sc.DT != cfg.Run.DT {
		t.Errorf("SolverConfig().DT = %v, want %v", sc.DT, cfg.Run.DT)
	}
	if len(sc.Colliders) != 1 {
		t.Fatalf("expected exactly one default collider, got %d", len(sc.Colliders))
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "written.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load(written): %v", err)
	}
	if reloaded.Grid.H != cfg.Grid.H || reloaded.Run.DT != cfg.Run.DT {
		t.Errorf("round-tripped config mismatch: got %+v, want h=%v dt=%v", reloaded.Grid, cfg.Grid.H, cfg.Run.DT)
	}
}
