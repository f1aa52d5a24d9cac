// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Sim       SimConfig       `yaml:"sim"`
	Matrix    MatrixConfig    `yaml:"matrix"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SimConfig holds the simulation parameters. These feed the packed
// parameter record handed to the engine every time a slider changes.
type SimConfig struct {
	Particles     int     `yaml:"particles"`
	Colours       int     `yaml:"colours"`
	Radius        float64 `yaml:"radius"`          // interaction radius; also grid cell size
	Force         float64 `yaml:"force"`           // force magnitude multiplier
	Friction      float64 `yaml:"friction"`        // velocity damping per tick
	Beta          float64 `yaml:"beta"`            // repulsion/attraction threshold, (0,1)
	DT            float64 `yaml:"dt"`              // integration time step
	Avoidance     float64 `yaml:"avoidance"`       // close-range repulsion distance
	WorldHalfSize float64 `yaml:"world_half_size"` // world spans [-half, half]²
	Border        string  `yaml:"border"`          // "wrap" or "reflect"
	Vortex        bool    `yaml:"vortex"`          // velocity-perpendicular swirl force
}

// MatrixConfig holds interaction matrix generation settings.
type MatrixConfig struct {
	Preset     string  `yaml:"preset"`      // random, symmetric, snakes, perlin
	Seed       int64   `yaml:"seed"`        // 0 = derive from the run seed
	NoiseScale float64 `yaml:"noise_scale"` // perlin feature size in colour-index units
	Path       string  `yaml:"path"`        // load matrix from JSON file (overrides preset)
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
	Half32    float32 // Sim.WorldHalfSize as float32
	Scale     float32 // world-to-screen scale factor
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Sim.Avoidance > cfg.Sim.Radius {
		slog.Warn("avoidance exceeds interaction radius; the excess has no effect",
			"avoidance", cfg.Sim.Avoidance, "radius", cfg.Sim.Radius)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate checks the invariants the simulation kernels assume but never
// check themselves. Past this point every tick is infallible: degenerate
// beta or radius values can only produce strange force shapes, never a
// crash, so they are rejected here instead.
func (c *Config) Validate() error {
	s := &c.Sim
	if s.Particles <= 0 {
		return fmt.Errorf("config: particles must be positive, got %d", s.Particles)
	}
	if s.Colours <= 0 {
		return fmt.Errorf("config: colours must be positive, got %d", s.Colours)
	}
	if s.Beta <= 0 || s.Beta >= 1 {
		return fmt.Errorf("config: beta must be in (0,1), got %g", s.Beta)
	}
	if s.Radius <= 0 {
		return fmt.Errorf("config: radius must be positive, got %g", s.Radius)
	}
	if s.DT <= 0 {
		return fmt.Errorf("config: dt must be positive, got %g", s.DT)
	}
	if s.WorldHalfSize <= 0 {
		return fmt.Errorf("config: world_half_size must be positive, got %g", s.WorldHalfSize)
	}
	if s.Border != "wrap" && s.Border != "reflect" {
		return fmt.Errorf("config: border must be wrap or reflect, got %q", s.Border)
	}
	switch c.Matrix.Preset {
	case "random", "symmetric", "snakes", "perlin":
	default:
		return fmt.Errorf("config: unknown matrix preset %q", c.Matrix.Preset)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.Half32 = float32(c.Sim.WorldHalfSize)

	// Fit the world square into the smaller screen dimension.
	min := c.Derived.ScreenW32
	if c.Derived.ScreenH32 < min {
		min = c.Derived.ScreenH32
	}
	c.Derived.Scale = min / (2 * c.Derived.Half32)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
