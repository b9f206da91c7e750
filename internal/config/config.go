// Package config loads the TOML settings shared by the example commands.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Geometry kinds.
const (
	GeometryTriangle = "triangle"
	GeometryQuad     = "quad"
	GeometryRandom   = "random"
)

// Config is the top-level settings file.
type Config struct {
	Window   Window   `toml:"window"`
	Shaders  Shaders  `toml:"shaders"`
	Geometry Geometry `toml:"geometry"`

	// ClearColor is the RGBA background.
	ClearColor [4]float32 `toml:"clear_color"`
	// Verbose enables debug logging.
	Verbose bool `toml:"verbose"`
}

type Window struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	Major  int    `toml:"gl_major"`
	Minor  int    `toml:"gl_minor"`
	VSync  bool   `toml:"vsync"`
}

type Shaders struct {
	Vertex   string `toml:"vertex"`
	Fragment string `toml:"fragment"`
	// Validate runs program validation once the mesh is bound.
	Validate bool `toml:"validate"`
	// Watch rebuilds the program when either file changes.
	Watch bool `toml:"watch"`
}

type Geometry struct {
	Kind  string `toml:"kind"`
	Count int    `toml:"count"`
	Seed  uint64 `toml:"seed"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Window: Window{
			Width:  800,
			Height: 600,
			Title:  "glshader",
			Major:  4,
			Minor:  1,
			VSync:  true,
		},
		Shaders: Shaders{
			Vertex:   filepath.Join("example", "shaders", "basic_vertex.glsl"),
			Fragment: filepath.Join("example", "shaders", "basic_fragment.glsl"),
			Validate: true,
			Watch:    true,
		},
		Geometry: Geometry{
			Kind:  GeometryTriangle,
			Count: 8,
			Seed:  1,
		},
		ClearColor: [4]float32{0.12, 0.12, 0.14, 1.0},
	}
}

// Load reads path over the defaults. Unknown keys are rejected.
// Relative shader paths are resolved against the config file's directory.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("config %s: %s", path, strict.String())
		}
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	base := filepath.Dir(path)
	if cfg.Shaders.Vertex != "" && !filepath.IsAbs(cfg.Shaders.Vertex) && hasKey(data, "vertex") {
		cfg.Shaders.Vertex = filepath.Join(base, cfg.Shaders.Vertex)
	}
	if cfg.Shaders.Fragment != "" && !filepath.IsAbs(cfg.Shaders.Fragment) && hasKey(data, "fragment") {
		cfg.Shaders.Fragment = filepath.Join(base, cfg.Shaders.Fragment)
	}

	return cfg, cfg.Validate()
}

// hasKey reports whether the file sets a shaders key, so only paths coming
// from the file are rebased.
func hasKey(data []byte, key string) bool {
	var raw struct {
		Shaders map[string]any `toml:"shaders"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}
	_, ok := raw.Shaders[key]
	return ok
}

// Validate checks ranges and required fields.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.Major < 3 || (c.Window.Major == 3 && c.Window.Minor < 3) {
		errs = append(errs, fmt.Errorf("GL %d.%d is older than 3.3 core", c.Window.Major, c.Window.Minor))
	}
	if c.Shaders.Vertex == "" || c.Shaders.Fragment == "" {
		errs = append(errs, errors.New("both shader paths are required"))
	}
	switch c.Geometry.Kind {
	case GeometryTriangle, GeometryQuad:
	case GeometryRandom:
		if c.Geometry.Count <= 0 {
			errs = append(errs, fmt.Errorf("random geometry count %d must be positive", c.Geometry.Count))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown geometry kind %q", c.Geometry.Kind))
	}
	for i, v := range c.ClearColor {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("clear_color[%d] = %v outside [0,1]", i, v))
		}
	}
	return errors.Join(errs...)
}
