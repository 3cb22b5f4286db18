package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/atlasmap-sc/colormaps/internal/simulation"
)

func TestLoad_Colormaps(t *testing.T) {
	content := `
server:
  port: 9000
colormaps:
  - name: fire
    positions: [0.0, 0.5, 1.0]
    colors: [black, red, yellow]
  - name: ice
    colors: ["#000033", white]
`
	cfg := loadFromString(t, content)

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if len(cfg.Colormaps) != 2 {
		t.Fatalf("expected 2 colormaps, got %d", len(cfg.Colormaps))
	}

	fire := cfg.Colormaps[0]
	if fire.Name != "fire" || len(fire.Positions) != 3 || fire.Colors[2] != "yellow" {
		t.Errorf("unexpected fire spec: %+v", fire)
	}

	// Positions are optional (evenly spaced)
	ice := cfg.Colormaps[1]
	if len(ice.Positions) != 0 || ice.Colors[0] != "#000033" {
		t.Errorf("unexpected ice spec: %+v", ice)
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	content := `
server:
  port: 0
`
	cfg := loadFromString(t, content)

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Cache.ImageSizeMB != 64 {
		t.Errorf("expected default cache size 64, got %d", cfg.Cache.ImageSizeMB)
	}
	if cfg.Render.ColorbarWidth != 256 || cfg.Render.ColorbarHeight != 32 {
		t.Errorf("unexpected colorbar size %dx%d", cfg.Render.ColorbarWidth, cfg.Render.ColorbarHeight)
	}
	if cfg.Render.DefaultColormap != "mycmap" {
		t.Errorf("expected default colormap mycmap, got %q", cfg.Render.DefaultColormap)
	}
	if cfg.Store.SQLitePath == "" {
		t.Errorf("expected default sqlite path")
	}
	if cfg.Simulation != simulation.DefaultParams() {
		t.Errorf("expected default simulation params, got %+v", cfg.Simulation)
	}
}

func TestLoad_Simulation(t *testing.T) {
	content := `
simulation:
  resolution: 200
  epsilon: 2.25
  fmin: 0.5
  fmax: 1.5
`
	cfg := loadFromString(t, content)

	sim := cfg.Simulation
	if sim.Resolution != 200 || sim.Epsilon != 2.25 {
		t.Errorf("unexpected simulation params: %+v", sim)
	}
	if sim.FMin != 0.5 || sim.FMax != 1.5 {
		t.Errorf("unexpected band: %g-%g", sim.FMin, sim.FMax)
	}
	if sim.PMLThickness != 1.0 || sim.NumFrequencies != 200 {
		t.Errorf("defaults not applied: %+v", sim)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default config, got port %d", cfg.Server.Port)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func loadFromString(t *testing.T, content string) *Config {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	return cfg
}
