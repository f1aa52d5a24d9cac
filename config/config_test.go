package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Sim.Particles <= 0 {
		t.Errorf("particles = %d, want positive default", cfg.Sim.Particles)
	}
	if cfg.Sim.Beta <= 0 || cfg.Sim.Beta >= 1 {
		t.Errorf("beta = %v, want in (0,1)", cfg.Sim.Beta)
	}
	if cfg.Sim.Border != "wrap" && cfg.Sim.Border != "reflect" {
		t.Errorf("border = %q, want wrap or reflect", cfg.Sim.Border)
	}
	if cfg.Derived.Scale <= 0 {
		t.Errorf("derived scale = %v, want positive", cfg.Derived.Scale)
	}
}

func TestLoadUserOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	userYAML := `
sim:
  particles: 1234
  border: reflect
`
	if err := os.WriteFile(path, []byte(userYAML), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sim.Particles != 1234 {
		t.Errorf("particles = %d, want user override 1234", cfg.Sim.Particles)
	}
	if cfg.Sim.Border != "reflect" {
		t.Errorf("border = %q, want user override reflect", cfg.Sim.Border)
	}
	// Untouched fields keep their defaults.
	if cfg.Sim.Radius <= 0 {
		t.Errorf("radius = %v, want default to survive partial override", cfg.Sim.Radius)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load accepted a missing config file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero particles", func(c *Config) { c.Sim.Particles = 0 }, "particles"},
		{"beta too low", func(c *Config) { c.Sim.Beta = 0 }, "beta"},
		{"beta too high", func(c *Config) { c.Sim.Beta = 1 }, "beta"},
		{"negative radius", func(c *Config) { c.Sim.Radius = -1 }, "radius"},
		{"zero dt", func(c *Config) { c.Sim.DT = 0 }, "dt"},
		{"bad border", func(c *Config) { c.Sim.Border = "bounce" }, "border"},
		{"bad preset", func(c *Config) { c.Matrix.Preset = "chaos" }, "preset"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load defaults: %v", err)
			}
			tc.mutate(cfg)
			err = cfg.Validate()
			if err == nil {
				t.Fatal("Validate accepted an invalid config")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}
	cfg.Sim.Particles = 777

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading snapshot: %v", err)
	}
	if reloaded.Sim.Particles != 777 {
		t.Errorf("particles = %d after round trip, want 777", reloaded.Sim.Particles)
	}
}
