// Package cli implements the timegrid command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/timegrid/pkg/buildinfo"
	"github.com/matzehuels/timegrid/pkg/config"
	"github.com/matzehuels/timegrid/pkg/errors"
	"github.com/matzehuels/timegrid/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "timegrid"

	// dayFormat is the date layout accepted by --day flags.
	dayFormat = "2006-01-02"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	cfg := config.Default()
	return &CLI{
		Logger: newLogger(w, level),
		Config: &cfg,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// LoadConfig replaces the configuration from a profile file. An empty path
// loads the default profile location, falling back to defaults when no
// profile exists.
func (c *CLI) LoadConfig(path string) error {
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			return err
		}
		cfg, err := config.LoadOrDefault(defaultPath)
		if err != nil {
			return err
		}
		c.Config = &cfg
		return nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = &cfg
	return nil
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          appName,
		Short:        "Timegrid drives calendar gestures on a time grid",
		Long:         `Timegrid is the interaction core of a calendar day view: it maps pixels to clock time, lays out overlapping events, and turns raw pointer streams into move, resize, create and select intents. The CLI exposes that core for demos, debugging and serving.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
				registerLogHooks(c.Logger)
			}
			if err := c.LoadConfig(configPath); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "profile file (default: ~/.config/timegrid/timegrid.toml)")

	// Register all subcommands
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.eventsCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.fsmCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Store Factory
// =============================================================================

// openStore connects the configured backend. The CLI defaults to the file
// store so events survive between invocations; the library default stays
// in-memory.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg := c.Config.Store
	switch cfg.Backend {
	case "", store.BackendFile:
		return store.NewFileStore(cfg.Path)
	case store.BackendMemory:
		return store.NewMemoryStore(), nil
	case store.BackendRedis:
		return store.NewRedisStore(ctx, cfg.DSN)
	case store.BackendMongo:
		return store.NewMongoStore(ctx, cfg.DSN)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Backend)
	}
}

// =============================================================================
// Flag Helpers
// =============================================================================

// parseDay resolves a --day flag value. An empty value means today.
func parseDay(s string) (time.Time, error) {
	if s == "" || s == "today" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	day, err := time.ParseInLocation(dayFormat, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q (want YYYY-MM-DD): %w", s, err)
	}
	return day, nil
}

// parseClock resolves an event time flag: either a full RFC 3339 timestamp
// or a bare "HH:MM" clock reading on day.
func parseClock(s string, day time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	clock, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q (want HH:MM or RFC 3339): %w", s, err)
	}
	return day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute), nil
}
