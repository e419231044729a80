// Package config loads the notegraph YAML configuration
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/notegraph/notegraph/pkg/layout"
)

// ConfigFileName is the name of the configuration file
const ConfigFileName = "config.yaml"

// DirName is the per-user directory holding the database and config
const DirName = ".notegraph"

// DatabaseFileName is the default note database file name
const DatabaseFileName = "notes.db"

// Config holds all notegraph configuration
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Graph  GraphConfig  `yaml:"graph"`
	Force  ForceConfig  `yaml:"force"`
	Render RenderConfig `yaml:"render"`
	Log    LogConfig    `yaml:"log"`
}

// StoreConfig locates the note database
type StoreConfig struct {
	Path string `yaml:"path"`
}

// GraphConfig holds the initial state of the graph view
type GraphConfig struct {
	Layout          string `yaml:"layout"`
	Filter          string `yaml:"filter"`
	ShowLabels      bool   `yaml:"show_labels"`
	ShowConnections bool   `yaml:"show_connections"`
	ShowLegend      bool   `yaml:"show_legend"`
}

// ForceConfig tunes the force-directed layout
type ForceConfig struct {
	Iterations int     `yaml:"iterations"`
	Repulsion  float64 `yaml:"repulsion"`
	Attraction float64 `yaml:"attraction"`
	TimeStep   float64 `yaml:"time_step"`
}

// RenderConfig sizes PNG/SVG snapshots
type RenderConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultDir returns ~/.notegraph, or .notegraph when the home directory is
// unknown
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DirName
	}
	return filepath.Join(home, DirName)
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(DefaultDir(), ConfigFileName)
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	force := layout.DefaultForceOptions()
	return &Config{
		Store: StoreConfig{
			Path: filepath.Join(DefaultDir(), DatabaseFileName),
		},
		Graph: GraphConfig{
			Layout:          layout.Force.String(),
			Filter:          "all",
			ShowLabels:      true,
			ShowConnections: true,
			ShowLegend:      true,
		},
		Force: ForceConfig{
			Iterations: force.Iterations,
			Repulsion:  force.Repulsion,
			Attraction: force.Attraction,
			TimeStep:   force.TimeStep,
		},
		Render: RenderConfig{
			Width:  1200,
			Height: 800,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadFromPath reads config from path over the defaults and validates the
// result. A missing file yields the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.Store.Path = expandHome(cfg.Store.Path)
	cfg.Log.File = expandHome(cfg.Log.File)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that config values are usable
func Validate(cfg *Config) error {
	if cfg.Store.Path == "" {
		return fmt.Errorf("%w: store.path must not be empty", ErrInvalidConfig)
	}

	if _, err := layout.ParseStrategy(cfg.Graph.Layout); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if cfg.Force.Iterations <= 0 {
		return fmt.Errorf("%w: force.iterations must be positive, got %d",
			ErrInvalidConfig, cfg.Force.Iterations)
	}
	if cfg.Force.Repulsion <= 0 {
		return fmt.Errorf("%w: force.repulsion must be positive, got %f",
			ErrInvalidConfig, cfg.Force.Repulsion)
	}
	if cfg.Force.Attraction <= 0 {
		return fmt.Errorf("%w: force.attraction must be positive, got %f",
			ErrInvalidConfig, cfg.Force.Attraction)
	}
	if cfg.Force.TimeStep <= 0 {
		return fmt.Errorf("%w: force.time_step must be positive, got %f",
			ErrInvalidConfig, cfg.Force.TimeStep)
	}

	if cfg.Render.Width <= 0 || cfg.Render.Height <= 0 {
		return fmt.Errorf("%w: render size must be positive, got %dx%d",
			ErrInvalidConfig, cfg.Render.Width, cfg.Render.Height)
	}

	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}

	return nil
}

// Strategy returns the configured layout strategy
func (c *Config) Strategy() layout.Strategy {
	s, err := layout.ParseStrategy(c.Graph.Layout)
	if err != nil {
		return layout.Force
	}
	return s
}

// ForceOptions returns the force layout parameters
func (c *Config) ForceOptions() layout.ForceOptions {
	return layout.ForceOptions{
		Iterations: c.Force.Iterations,
		Repulsion:  c.Force.Repulsion,
		Attraction: c.Force.Attraction,
		TimeStep:   c.Force.TimeStep,
	}
}

// SaveDefault writes the default configuration to path unless a file is
// already there
func SaveDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	header := "# notegraph configuration\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
