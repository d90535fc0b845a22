// Package config provides configuration loading and access for road generation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all generation configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Domain      DomainConfig      `yaml:"domain"`
	Streamlines StreamlinesConfig `yaml:"streamlines"`
	Generator   GeneratorConfig   `yaml:"generator"`
	Field       FieldConfig       `yaml:"field"`
	Render      RenderConfig      `yaml:"render"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// DomainConfig is the rectangle roads are generated in.
type DomainConfig struct {
	OriginX float64 `yaml:"origin_x"`
	OriginY float64 `yaml:"origin_y"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
}

// StreamlinesConfig holds streamline placement parameters.
type StreamlinesConfig struct {
	Dsep              float64 `yaml:"dsep"`               // Seed separation distance
	Dtest             float64 `yaml:"dtest"`              // Separation tested while tracing (capped at dsep)
	Dstep             float64 `yaml:"dstep"`              // Integration step length
	DCircleJoin       float64 `yaml:"dcirclejoin"`        // Loop closing distance
	DLookahead        float64 `yaml:"dlookahead"`         // Dangling end search distance
	JoinAngle         float64 `yaml:"joinangle"`          // Max join angle in radians
	PathIterations    int     `yaml:"path_iterations"`    // Max steps per streamline
	SeedTries         int     `yaml:"seed_tries"`         // Max random seed attempts
	SimplifyTolerance float64 `yaml:"simplify_tolerance"` // Douglas-Peucker tolerance
	CollideEarly      float64 `yaml:"collide_early"`      // Probability of testing both grids
}

// GeneratorConfig selects generation behaviour.
type GeneratorConfig struct {
	Integrator      string `yaml:"integrator"`        // "rk4" or "euler"
	Seed            int64  `yaml:"seed"`              // Random seed for seed placement
	SeedAtEndpoints bool   `yaml:"seed_at_endpoints"` // Seed from dangling ends first
	ComplexGraph    bool   `yaml:"complex_graph"`     // Build the graph from raw instead of simplified lines
}

// FieldConfig describes the tensor field.
type FieldConfig struct {
	Smooth  bool           `yaml:"smooth"`
	Grids   []GridConfig   `yaml:"grids"`
	Radials []RadialConfig `yaml:"radials"`
	Noise   NoiseConfig    `yaml:"noise"`
}

// GridConfig is a grid basis field.
type GridConfig struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Size  float64 `yaml:"size"`
	Decay float64 `yaml:"decay"`
	Theta float64 `yaml:"theta"` // Orientation in radians
}

// RadialConfig is a radial basis field.
type RadialConfig struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Size  float64 `yaml:"size"`
	Decay float64 `yaml:"decay"`
}

// NoiseConfig holds rotational noise parameters. Angle 0 disables noise.
type NoiseConfig struct {
	Seed  int64   `yaml:"seed"`
	Size  float64 `yaml:"size"`  // World units per noise period
	Angle float64 `yaml:"angle"` // Max rotation in radians
}

// RenderConfig holds drawing settings for the PNG renderer and the viewer.
type RenderConfig struct {
	ImageWidth   float64 `yaml:"image_width"`  // PNG width in points
	ImageHeight  float64 `yaml:"image_height"` // PNG height in points
	MajorWidth   float64 `yaml:"major_width"`  // Major road line width
	MinorWidth   float64 `yaml:"minor_width"`  // Minor road line width
	ShowLots     bool    `yaml:"show_lots"`
	ShowNodes    bool    `yaml:"show_nodes"`
	ShowField    bool    `yaml:"show_field"`
	FieldSpacing float64 `yaml:"field_spacing"` // World units between field ticks
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfCollectorWindow int  `yaml:"perf_collector_window"` // Runs kept for perf averaging
	LogStats            bool `yaml:"log_stats"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Origin     r2.Vec  // Domain origin
	Dimensions r2.Vec  // Domain size
	ScreenW32  float32 // Screen.Width as float32
	ScreenH32  float32 // Screen.Height as float32
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
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := Merge(cfg, data); err != nil {
			return nil, err
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// Merge unmarshals data over cfg and recomputes derived values.
// Only fields present in data are overwritten; lists are replaced whole.
func Merge(cfg *Config, data []byte) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	cfg.computeDerived()
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Origin = r2.Vec{X: c.Domain.OriginX, Y: c.Domain.OriginY}
	c.Derived.Dimensions = r2.Vec{X: c.Domain.Width, Y: c.Domain.Height}
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	if c.Telemetry.PerfCollectorWindow <= 0 {
		c.Telemetry.PerfCollectorWindow = 1
	}
	if c.Generator.Integrator == "" {
		c.Generator.Integrator = "rk4"
	}
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
