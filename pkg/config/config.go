// Package config resolves render settings from a config file, command-line flags and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"sigs.k8s.io/yaml"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	DefaultWidth       = 480
	DefaultAspect      = "16/9"
	DefaultSamples     = 100
	DefaultMaxDepth    = 30
	DefaultTileSize    = 32
	DefaultSeed        = 42
	DefaultPasses      = 1
	DefaultSupersample = 1
	DefaultQuality     = 90
	DefaultOutput      = "render.png"
)

// Config holds render settings. Zero values mean "not set" so that layers can be merged;
// MaxDepth is a pointer because a depth of zero is meaningful.
type Config struct {
	Scene           string `json:"scene,omitempty"` // Built-in scene name, used when no scene file is given
	Width           int    `json:"width,omitempty"`
	Height          int    `json:"height,omitempty"` // Derived from Width and AspectRatio when unset
	AspectRatio     string `json:"aspect,omitempty"` // "16/9" or a decimal like "1.5"
	SamplesPerPixel int    `json:"samples,omitempty"`
	MaxDepth        *int   `json:"depth,omitempty"`
	Workers         int    `json:"workers,omitempty"`
	TileSize        int    `json:"tileSize,omitempty"`
	Seed            int64  `json:"seed,omitempty"`
	Passes          int    `json:"passes,omitempty"`
	Supersample     int    `json:"supersample,omitempty"`
	Quality         int    `json:"quality,omitempty"`
	Output          string `json:"output,omitempty"`
	Silent          bool   `json:"silent,omitempty"`
	Preview         bool   `json:"preview,omitempty"`
}

// Load reads a YAML or JSON config file
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("while reading config file: %w", err)
	}

	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return c, nil
}

// Merge returns c with every field that is set in o replacing it
func (c Config) Merge(o Config) Config {
	if o.Scene != "" {
		c.Scene = o.Scene
	}
	if o.Width != 0 {
		c.Width = o.Width
	}
	if o.Height != 0 {
		c.Height = o.Height
	}
	if o.AspectRatio != "" {
		c.AspectRatio = o.AspectRatio
	}
	if o.SamplesPerPixel != 0 {
		c.SamplesPerPixel = o.SamplesPerPixel
	}
	if o.MaxDepth != nil {
		depth := *o.MaxDepth
		c.MaxDepth = &depth
	}
	if o.Workers != 0 {
		c.Workers = o.Workers
	}
	if o.TileSize != 0 {
		c.TileSize = o.TileSize
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.Passes != 0 {
		c.Passes = o.Passes
	}
	if o.Supersample != 0 {
		c.Supersample = o.Supersample
	}
	if o.Quality != 0 {
		c.Quality = o.Quality
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	c.Silent = c.Silent || o.Silent
	c.Preview = c.Preview || o.Preview
	return c
}

// WithDefaults fills every unset field. Height is derived from the width and aspect ratio.
func (c Config) WithDefaults() Config {
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.AspectRatio == "" {
		c.AspectRatio = DefaultAspect
	}
	if c.SamplesPerPixel == 0 {
		c.SamplesPerPixel = DefaultSamples
	}
	if c.MaxDepth == nil {
		depth := DefaultMaxDepth
		c.MaxDepth = &depth
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.TileSize == 0 {
		c.TileSize = DefaultTileSize
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if c.Passes == 0 {
		c.Passes = DefaultPasses
	}
	if c.Supersample == 0 {
		c.Supersample = DefaultSupersample
	}
	if c.Quality == 0 {
		c.Quality = DefaultQuality
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Height == 0 {
		if aspect, err := ParseAspect(c.AspectRatio); err == nil {
			c.Height = max(1, int(float64(c.Width)/aspect))
		}
	}
	return c
}

// Validate reports the first setting that cannot be rendered
func (c Config) Validate() error {
	if _, err := ParseAspect(c.AspectRatio); err != nil {
		return err
	}

	checks := []struct {
		ok   bool
		what string
	}{
		{c.Width > 0, "width must be positive"},
		{c.Height > 0, "height must be positive"},
		{c.SamplesPerPixel > 0, "samples per pixel must be positive"},
		{c.MaxDepth != nil && *c.MaxDepth >= 0, "max depth must not be negative"},
		{c.Workers > 0, "workers must be positive"},
		{c.TileSize > 0, "tile size must be positive"},
		{c.Passes > 0, "passes must be positive"},
		{c.Supersample > 0, "supersample factor must be positive"},
		{c.Quality >= 1 && c.Quality <= 100, "quality must be between 1 and 100"},
		{c.Output != "", "output path must not be empty"},
	}
	for _, check := range checks {
		if !check.ok {
			return fmt.Errorf("%w: %s", ErrInvalidConfig, check.what)
		}
	}
	return nil
}

// Resolve layers flags over the config file, fills defaults and validates the result
func Resolve(file, flags Config) (Config, error) {
	c := file.Merge(flags).WithDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Aspect returns the parsed aspect ratio. Call only on a validated config.
func (c Config) Aspect() float64 {
	aspect, _ := ParseAspect(c.AspectRatio)
	return aspect
}

// Depth returns MaxDepth, or the default when unset
func (c Config) Depth() int {
	if c.MaxDepth == nil {
		return DefaultMaxDepth
	}
	return *c.MaxDepth
}

// ParseAspect parses "W/H" or a decimal ratio
func ParseAspect(s string) (float64, error) {
	s = strings.TrimSpace(s)

	var aspect float64
	if num, den, found := strings.Cut(s, "/"); found {
		w, err1 := strconv.ParseFloat(strings.TrimSpace(num), 64)
		h, err2 := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err1 != nil || err2 != nil || h == 0 {
			return 0, fmt.Errorf("%w: malformed aspect ratio %q", ErrInvalidConfig, s)
		}
		aspect = w / h
	} else {
		var err error
		if aspect, err = strconv.ParseFloat(s, 64); err != nil {
			return 0, fmt.Errorf("%w: malformed aspect ratio %q", ErrInvalidConfig, s)
		}
	}

	if !(aspect > 0) || aspect > 1e6 {
		return 0, fmt.Errorf("%w: aspect ratio %q out of range", ErrInvalidConfig, s)
	}
	return aspect, nil
}
