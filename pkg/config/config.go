// Package config loads the timegrid TOML profile.
//
// A profile tunes the geometry, recognizer thresholds, view navigation and
// store backend from one file. Every field is optional: zero values fall
// back to the owning package's defaults, so an empty file and no file at
// all both yield a working configuration. CLI flags override file values.
//
// # File Location
//
// The default profile lives at $XDG_CONFIG_HOME/timegrid/timegrid.toml,
// falling back to ~/.config/timegrid/timegrid.toml.
//
// # Example
//
//	[grid]
//	hour_height_px = 80
//	snap_interval_min = 5
//
//	[gesture]
//	long_press_ms = 400
//
//	[view]
//	mode = "week"
//
//	[store]
//	backend = "file"
//	path = "~/calendar"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/timegrid/pkg/errors"
	"github.com/matzehuels/timegrid/pkg/gesture"
	"github.com/matzehuels/timegrid/pkg/grid"
	"github.com/matzehuels/timegrid/pkg/store"
	"github.com/matzehuels/timegrid/pkg/viewmode"
)

// appName is the application name used for directories and display.
const appName = "timegrid"

// =============================================================================
// Config - Profile Root
// =============================================================================

// Config is the full profile. The zero value is valid and means
// "all defaults".
type Config struct {
	Grid    GridConfig    `toml:"grid"`
	Gesture GestureConfig `toml:"gesture"`
	View    ViewConfig    `toml:"view"`
	Store   StoreConfig   `toml:"store"`
}

// GridConfig tunes the time-to-pixel mapping.
type GridConfig struct {
	HourHeightPx    float64 `toml:"hour_height_px"`
	SnapIntervalMin int     `toml:"snap_interval_min"`
}

// Mapper converts the section into grid metrics, applying defaults for
// zero fields.
func (g GridConfig) Mapper() grid.Mapper {
	return grid.NewMapper(g.HourHeightPx, time.Duration(g.SnapIntervalMin)*time.Minute)
}

// GestureConfig tunes the recognizer thresholds.
type GestureConfig struct {
	HandleThresholdPx   float64 `toml:"handle_threshold_px"`
	MinDragDistancePx   float64 `toml:"min_drag_distance_px"`
	LongPressMs         int     `toml:"long_press_ms"`
	CommitHysteresisPx  float64 `toml:"commit_hysteresis_px"`
	MinEventDurationMin int     `toml:"min_event_duration_min"`
	DraftDurationMin    int     `toml:"draft_duration_min"`
}

// Options converts the section into recognizer options. Zero fields stay
// zero so the recognizer fills its own defaults.
func (g GestureConfig) Options() gesture.Options {
	return gesture.Options{
		HandleThreshold:  g.HandleThresholdPx,
		MinDragDistance:  g.MinDragDistancePx,
		LongPress:        time.Duration(g.LongPressMs) * time.Millisecond,
		CommitHysteresis: g.CommitHysteresisPx,
		MinEventDuration: time.Duration(g.MinEventDurationMin) * time.Minute,
		DraftDuration:    time.Duration(g.DraftDurationMin) * time.Minute,
	}
}

// ViewConfig tunes navigation and zoom.
type ViewConfig struct {
	Mode                 string  `toml:"mode"`
	NavThresholdFraction float64 `toml:"nav_threshold_fraction"`
	FlickVelocityPxS     float64 `toml:"flick_velocity_px_s"`
	NarrowScale          float64 `toml:"narrow_scale"`
	WidenScale           float64 `toml:"widen_scale"`
	PinchDwellMs         int     `toml:"pinch_dwell_ms"`
}

// Options converts the section into view controller options.
func (v ViewConfig) Options() viewmode.Options {
	return viewmode.Options{
		Mode:                 viewmode.Mode(v.Mode),
		NavThresholdFraction: v.NavThresholdFraction,
		FlickVelocity:        v.FlickVelocityPxS,
		NarrowScale:          v.NarrowScale,
		WidenScale:           v.WidenScale,
		PinchDwell:           time.Duration(v.PinchDwellMs) * time.Millisecond,
	}
}

// StoreConfig selects and addresses the persistence backend.
type StoreConfig struct {
	Backend  string `toml:"backend"`  // memory, file, redis or mongo
	Path     string `toml:"path"`     // root directory for the file backend
	DSN      string `toml:"dsn"`      // connection string for redis and mongo
	Calendar string `toml:"calendar"` // default calendar ID for created events
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks the whole profile by running each section through the
// owning package's validation. Errors carry ErrCodeInvalidConfig.
func (c *Config) Validate() error {
	opts := c.Gesture.Options()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid [gesture] section")
	}

	vopts := c.View.Options()
	if err := vopts.ValidateAndSetDefaults(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid [view] section")
	}

	if c.Grid.HourHeightPx < 0 || c.Grid.SnapIntervalMin < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid [grid] section: metrics must not be negative")
	}

	return c.validateStore()
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case "", store.BackendMemory, store.BackendFile:
		// memory needs nothing; file falls back to the default data dir.
	case store.BackendRedis, store.BackendMongo:
		if err := errors.ValidateDSN(c.Store.DSN); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid [store] section")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown store backend %q (want memory, file, redis or mongo)", c.Store.Backend)
	}
	if c.Store.Calendar != "" {
		if err := errors.ValidateCalendarID(c.Store.Calendar); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid [store] section")
		}
	}
	return nil
}

// =============================================================================
// Loading
// =============================================================================

// Default returns the all-defaults profile.
func Default() Config {
	return Config{}
}

// Load reads and validates a profile from path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read profile %s", path)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse profile %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOrDefault loads path if it exists and returns the default profile if
// it does not. Used for the implicit default location, where absence is
// normal.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// DefaultPath returns the default profile location using the XDG standard
// (~/.config/timegrid/timegrid.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, appName+".toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, appName+".toml"), nil
}

// DefaultDataDir returns the default root for the file store backend using
// the XDG standard (~/.local/share/timegrid/).
func DefaultDataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}
