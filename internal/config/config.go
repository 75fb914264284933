// Package config holds the parameters of a fishpond run and reads them from TOML files.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ErikLambrechts/fishpond"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config holds the various parameters required for running a simulation.
type Config struct {
	// Output is either a filename (path) for the HDF5 output file,
	// or the empty string for an interactive OpenGL simulation.
	Output string

	SchoolSize int     // number of fish
	Steps      int     // number of time steps (hdf5 only)
	Dt         float64 // duration of time steps (hdf5 only)
	Workers    int     // goroutines computing steering, 0 or 1 for none
	Seed       int64   // seed of the random source, 0 for current time

	// World size
	Width  float64
	Height float64

	Behavior fishpond.Behavior
	Logger   LoggerConfig
	Display  DisplayConfig
}

// LoggerConfig holds the parameters of the logger.
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Format      string // console or json
	ServiceName string
	AddSource   bool
	Colors      ColorConfig

	// Optional rotated JSON log file
	LogFile    string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// ColorConfig maps log levels to terminal color names.
type ColorConfig struct {
	Debug  string
	Info   string
	Warn   string
	Error  string
	DPanic string
	Panic  string
	Fatal  string
}

// DisplayConfig holds the parameters of the interactive display.
type DisplayConfig struct {
	WindowSize int        // side of the square window in pixels
	ShowSpine  bool       // draw the spines in addition to the outlines
	Spine      [4]float32 // RGBA color of the spines
	Outline    [4]float32 // RGBA color of the outlines
	Background [4]float32 // RGBA color of the background
}

// DefaultConf are the default parameters.
var DefaultConf = &Config{
	Output:     "",
	SchoolSize: 40,
	Steps:      600,
	Dt:         1.0 / 60,
	Workers:    0,
	Seed:       0,
	Width:      500,
	Height:     500,
	Behavior: fishpond.Behavior{
		MatchingFactor:   0.1,
		CenteringFactor:  0.1,
		SeparationFactor: 0.2,
		VisualRange:      200,
		MinDistance:      50,
		MaxSpeed:         20,
		RepellingFactor:  50,
		RepellingMargin:  150,
		Weighted:         true,
	},
	Logger: LoggerConfig{
		Level:       "info",
		Format:      "console",
		ServiceName: "fishpond",
		Colors: ColorConfig{
			Debug:  "cyan",
			Info:   "green",
			Warn:   "yellow",
			Error:  "red",
			DPanic: "magenta",
			Panic:  "magenta",
			Fatal:  "magenta",
		},
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	},
	Display: DisplayConfig{
		WindowSize: 800,
		ShowSpine:  true,
		Spine:      [4]float32{0.8, 0.1, 0.1, 1},
		Outline:    [4]float32{0.1, 0.2, 0.6, 1},
		Background: [4]float32{1, 1, 1, 1},
	},
}

// Default returns a copy of the default parameters.
func Default() *Config {
	conf := *DefaultConf
	return &conf
}

// ParseConfig parses the TOML config file whose path is provided.
// Keys missing from the file keep their default value
// and unknown keys are reported as errors.
func ParseConfig(path string) (*Config, error) {
	conf := Default()
	md, err := toml.DecodeFile(path, conf)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		sort.Strings(names)
		return nil, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalid, path, strings.Join(names, ", "))
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate checks that the parameters describe a runnable simulation.
func (c *Config) Validate() error {
	switch {
	case c.SchoolSize <= 0:
		return fmt.Errorf("%w: SchoolSize must be positive, got %d", ErrInvalid, c.SchoolSize)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: world size must be positive, got %vx%v", ErrInvalid, c.Width, c.Height)
	case c.Workers < 0:
		return fmt.Errorf("%w: Workers must not be negative, got %d", ErrInvalid, c.Workers)
	case c.Output != "" && c.Steps <= 0:
		return fmt.Errorf("%w: Steps must be positive, got %d", ErrInvalid, c.Steps)
	case c.Output != "" && !(c.Dt > 0):
		return fmt.Errorf("%w: Dt must be positive, got %v", ErrInvalid, c.Dt)
	}

	b := c.Behavior
	for _, p := range []struct {
		name string
		val  float64
	}{
		{"MatchingFactor", b.MatchingFactor},
		{"CenteringFactor", b.CenteringFactor},
		{"SeparationFactor", b.SeparationFactor},
		{"VisualRange", b.VisualRange},
		{"MinDistance", b.MinDistance},
		{"MaxSpeed", b.MaxSpeed},
		{"RepellingFactor", b.RepellingFactor},
		{"RepellingMargin", b.RepellingMargin},
	} {
		if p.val < 0 {
			return fmt.Errorf("%w: Behavior.%s must not be negative, got %v", ErrInvalid, p.name, p.val)
		}
	}
	if 2*b.RepellingMargin > c.Width || 2*b.RepellingMargin > c.Height {
		return fmt.Errorf("%w: Behavior.RepellingMargin %v exceeds half the world size", ErrInvalid, b.RepellingMargin)
	}
	return nil
}
