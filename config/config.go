// Package config loads the viewer configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log        Log        `yaml:"log"`
	Feed       Feed       `yaml:"feed"`
	Render     Render     `yaml:"render"`
	Helicorder Helicorder `yaml:"helicorder"`
	Seismogram Seismogram `yaml:"seismogram"`
	Stations   []Station  `yaml:"stations"`
}

type Log struct {
	Level string `yaml:"level"` // logrus level name, e.g. "info"
	JSON  bool   `yaml:"json"`
}

type Feed struct {
	URL string `yaml:"url"`
	// Backlog is the number of messages kept per stream for late
	// subscribers: packets, status reports, or one entry per segment.
	Backlog int `yaml:"backlog"`
	// Intervals are the helicorder segment lengths in minutes sampled
	// from the live feed.
	Intervals      []int         `yaml:"intervals"`
	StatusInterval time.Duration `yaml:"status_interval"`
}

type Render struct {
	Debounce   time.Duration `yaml:"debounce"`
	PixelRatio float64       `yaml:"pixel_ratio"`
	LineWidth  float64       `yaml:"line_width"`
	// Sync renders on the UI goroutine instead of the render worker.
	Sync bool `yaml:"sync"`
}

type Helicorder struct {
	Interval  int     `yaml:"interval"` // minutes per track
	Duration  int     `yaml:"duration"` // hours
	Scaling   string  `yaml:"scaling"`  // "global" or "local"
	MinScale  float64 `yaml:"min_scale"`
	ClipScale float64 `yaml:"clip_scale"`
	UseUTC    bool    `yaml:"use_utc"`
	Selection int     `yaml:"selection"` // selection window size in minutes
}

type Seismogram struct {
	Window  time.Duration `yaml:"window"`
	Scaling string        `yaml:"scaling"`
	Gap     float64       `yaml:"gap"`
}

type Station struct {
	Network  string   `yaml:"network"`
	Code     string   `yaml:"code"`
	Channels []string `yaml:"channels"`
}

func Default() Config {
	return Config{
		Log: Log{Level: "info"},
		Feed: Feed{
			URL:            "ws://localhost:8080/stream",
			Backlog:        256,
			Intervals:      []int{15, 30, 60},
			StatusInterval: 5 * time.Second,
		},
		Render: Render{
			Debounce:   150 * time.Millisecond,
			PixelRatio: 1,
			LineWidth:  1,
		},
		Helicorder: Helicorder{
			Interval:  30,
			Duration:  12,
			Scaling:   "global",
			MinScale:  0.1,
			ClipScale: 0,
			Selection: 5,
		},
		Seismogram: Seismogram{
			Window:  5 * time.Minute,
			Scaling: "global",
			Gap:     4,
		},
	}
}

var ErrInvalid = errors.New("invalid config")

// Validate checks values that would break layout math further down.
func (c Config) Validate() error {
	if c.Helicorder.Interval <= 0 {
		return fmt.Errorf("%w: helicorder interval must be positive", ErrInvalid)
	}
	if c.Helicorder.Duration <= 0 {
		return fmt.Errorf("%w: helicorder duration must be positive", ErrInvalid)
	}
	if c.Render.PixelRatio <= 0 {
		return fmt.Errorf("%w: pixel ratio must be positive", ErrInvalid)
	}
	for _, s := range []string{c.Helicorder.Scaling, c.Seismogram.Scaling} {
		if s != "global" && s != "local" {
			return fmt.Errorf("%w: unknown scaling %q", ErrInvalid, s)
		}
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Parse decodes YAML on top of the defaults.
func Parse(b []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Load reads path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.WithField("path", path).Info("config file not found, using defaults")
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// SetupLogging applies the log section to the standard logrus logger.
func (c Config) SetupLogging() {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	if c.Log.JSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// Patch lists the settings that can change while the viewer runs. Nil
// fields are left untouched.
type Patch struct {
	LogLevel    *string
	Debounce    *time.Duration
	Interval    *int
	Duration    *int
	Scaling     *string
	UseUTC      *bool
	MinScale    *float64
	ClipScale   *float64
	SeisScaling *string
}

// Apply returns c with p applied. The result is validated before it is
// returned; on error c is returned unchanged.
func (c Config) Apply(p Patch) (Config, error) {
	n := c
	n.Stations = append([]Station(nil), c.Stations...)
	n.Feed.Intervals = append([]int(nil), c.Feed.Intervals...)
	if p.LogLevel != nil {
		n.Log.Level = *p.LogLevel
	}
	if p.Debounce != nil {
		n.Render.Debounce = *p.Debounce
	}
	if p.Interval != nil {
		n.Helicorder.Interval = *p.Interval
	}
	if p.Duration != nil {
		n.Helicorder.Duration = *p.Duration
	}
	if p.Scaling != nil {
		n.Helicorder.Scaling = *p.Scaling
	}
	if p.UseUTC != nil {
		n.Helicorder.UseUTC = *p.UseUTC
	}
	if p.MinScale != nil {
		n.Helicorder.MinScale = *p.MinScale
	}
	if p.ClipScale != nil {
		n.Helicorder.ClipScale = *p.ClipScale
	}
	if p.SeisScaling != nil {
		n.Seismogram.Scaling = *p.SeisScaling
	}
	if err := n.Validate(); err != nil {
		return c, err
	}
	return n, nil
}
