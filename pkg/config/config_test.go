package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/notegraph/notegraph/pkg/config"
	"github.com/notegraph/notegraph/pkg/layout"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	if cfg.Graph.Layout != "force" {
		t.Errorf("Expected layout force, got %s", cfg.Graph.Layout)
	}
	if cfg.Graph.Filter != "all" {
		t.Errorf("Expected filter all, got %s", cfg.Graph.Filter)
	}
	if !cfg.Graph.ShowLabels || !cfg.Graph.ShowConnections || !cfg.Graph.ShowLegend {
		t.Errorf("Expected all toggles on, got %+v", cfg.Graph)
	}
	if cfg.Force.Iterations != 50 || cfg.Force.Repulsion != 5000 || cfg.Force.Attraction != 0.01 || cfg.Force.TimeStep != 0.1 {
		t.Errorf("Expected default force options, got %+v", cfg.Force)
	}
	if !strings.HasSuffix(cfg.Store.Path, filepath.Join(config.DirName, config.DatabaseFileName)) {
		t.Errorf("Expected store under %s, got %s", config.DirName, cfg.Store.Path)
	}
	if err := config.Validate(cfg); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Render.Width != 1200 || cfg.Render.Height != 800 {
		t.Errorf("Expected default render size, got %+v", cfg.Render)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
store:
  path: /tmp/x.db
graph:
  layout: grid
  show_labels: false
force:
  iterations: 10
log:
  level: debug
`)
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Store.Path != "/tmp/x.db" {
		t.Errorf("Expected store path override, got %s", cfg.Store.Path)
	}
	if cfg.Strategy() != layout.Grid {
		t.Errorf("Expected grid, got %v", cfg.Strategy())
	}
	if cfg.Graph.ShowLabels {
		t.Error("Expected labels off")
	}
	if !cfg.Graph.ShowConnections {
		t.Error("Expected unset toggle to keep its default")
	}
	opts := cfg.ForceOptions()
	if opts.Iterations != 10 || opts.Repulsion != 5000 {
		t.Errorf("Expected merged force options, got %+v", opts)
	}
}

func TestLoadExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	cfg, err := config.LoadFromPath(writeConfig(t, "store:\n  path: ~/graph/notes.db\n"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if want := filepath.Join(home, "graph", "notes.db"); cfg.Store.Path != want {
		t.Errorf("Expected %s, got %s", want, cfg.Store.Path)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"layout", "graph:\n  layout: spiral\n"},
		{"iterations", "force:\n  iterations: 0\n"},
		{"repulsion", "force:\n  repulsion: -1\n"},
		{"zero repulsion", "force:\n  repulsion: 0\n"},
		{"zero attraction", "force:\n  attraction: 0\n"},
		{"time step", "force:\n  time_step: -0.1\n"},
		{"size", "render:\n  width: 0\n"},
		{"level", "log:\n  level: loud\n"},
		{"store", "store:\n  path: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadFromPath(writeConfig(t, tt.body))
			if !errors.Is(err, config.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := config.LoadFromPath(writeConfig(t, "graph: [unclosed\n"))
	if err == nil {
		t.Fatal("Expected parse error")
	}
	if errors.Is(err, config.ErrInvalidConfig) {
		t.Error("Expected a parse error, not a validation error")
	}
}

func TestSaveDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", config.ConfigFileName)
	if err := config.SaveDefault(path); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("Expected saved defaults to load, got %v", err)
	}
	if cfg.Graph.Layout != "force" {
		t.Errorf("Expected force layout, got %s", cfg.Graph.Layout)
	}
	if err := config.SaveDefault(path); err == nil {
		t.Error("Expected error when the file exists")
	}
}
