package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/timegrid/pkg/event"
	"github.com/matzehuels/timegrid/pkg/feed"
	"github.com/matzehuels/timegrid/pkg/httputil"
	"github.com/matzehuels/timegrid/pkg/io"
	"github.com/matzehuels/timegrid/pkg/store"
)

// eventsCommand groups event management against the configured store.
func (c *CLI) eventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage calendar events",
		Long: `Manage calendar events in the configured store.

The store backend comes from the profile ([store] section): file by
default, or memory, redis, mongo. Events move in and out as iCalendar
or JSON via the import and export subcommands; import also accepts
feed URLs.`,
	}

	cmd.AddCommand(c.eventsListCommand())
	cmd.AddCommand(c.eventsAddCommand())
	cmd.AddCommand(c.eventsRemoveCommand())
	cmd.AddCommand(c.eventsImportCommand())
	cmd.AddCommand(c.eventsExportCommand())

	return cmd
}

func (c *CLI) eventsListCommand() *cobra.Command {
	var (
		dayFlag string
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEventsList(cmd.Context(), dayFlag, all)
		},
	}

	cmd.Flags().StringVar(&dayFlag, "day", "", "day to list (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&all, "all", false, "list every stored event")

	return cmd
}

func (c *CLI) runEventsList(ctx context.Context, dayFlag string, all bool) error {
	s, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	var events []event.Event
	if all {
		events, err = s.List(ctx)
	} else {
		var day time.Time
		if day, err = parseDay(dayFlag); err != nil {
			return err
		}
		events, err = store.Day(ctx, s, day)
	}
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}

	if len(events) == 0 {
		printInfo("No events")
		printNewline()
		printNextStep("Add one", appName+" events add --title Standup --from 09:00 --to 09:30")
		return nil
	}

	fmt.Println(renderEventTable(events, all))
	printDetail("%d events", len(events))
	return nil
}

// renderEventTable formats events as a bordered table.
func renderEventTable(events []event.Event, showDate bool) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(events))
	for i, ev := range events {
		title := ev.Title
		if title == "" {
			title = "—"
		}
		status := ev.Status
		if status == "" {
			status = "—"
		}
		rows[i] = []string{ev.ID, title, formatSpan(ev, showDate), status}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Title", "When", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			switch col {
			case 0:
				return StyleDim
			case 1:
				return StyleValue
			default:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
		})

	return t.Render()
}

// formatSpan renders an event's time range for table display.
func formatSpan(ev event.Event, showDate bool) string {
	if ev.AllDay {
		if showDate {
			return ev.Start.Format(dayFormat) + " all day"
		}
		return "all day"
	}
	span := ev.Start.Format("15:04") + "–" + ev.End.Format("15:04")
	if showDate {
		return ev.Start.Format(dayFormat) + " " + span
	}
	return span
}

func (c *CLI) eventsAddCommand() *cobra.Command {
	var (
		id       string
		title    string
		dayFlag  string
		from     string
		to       string
		color    string
		status   string
		calendar string
		allDay   bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an event to the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(dayFlag)
			if err != nil {
				return err
			}

			ev := event.Event{
				ID:         id,
				CalendarID: calendar,
				Title:      title,
				Color:      color,
				Status:     status,
				AllDay:     allDay,
				CreatedAt:  time.Now().UTC(),
				UpdatedAt:  time.Now().UTC(),
			}
			if ev.ID == "" {
				ev.ID = store.NewID()
			}

			if allDay {
				ev.Start = day
				ev.End = day.AddDate(0, 0, 1)
			} else {
				if from == "" || to == "" {
					return fmt.Errorf("--from and --to are required for timed events")
				}
				if ev.Start, err = parseClock(from, day); err != nil {
					return err
				}
				if ev.End, err = parseClock(to, day); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			if err := s.Put(ctx, ev); err != nil {
				return fmt.Errorf("store event: %w", err)
			}

			printSuccess("Added %s", StyleHighlight.Render(ev.ID))
			printDetail("%s %s", ev.Title, formatSpan(ev, true))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "event ID (default: generated)")
	cmd.Flags().StringVar(&title, "title", "", "event title")
	cmd.Flags().StringVar(&dayFlag, "day", "", "day of the event (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&from, "from", "", "start time (HH:MM or RFC 3339)")
	cmd.Flags().StringVar(&to, "to", "", "end time (HH:MM or RFC 3339)")
	cmd.Flags().StringVar(&color, "color", "", "display color (#rgb or #rrggbb)")
	cmd.Flags().StringVar(&status, "status", "", "status: confirmed, tentative or cancelled")
	cmd.Flags().StringVar(&calendar, "calendar", "", "calendar the event belongs to")
	cmd.Flags().BoolVar(&allDay, "all-day", false, "create an all-day event")

	return cmd
}

func (c *CLI) eventsRemoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>...",
		Short: "Remove events from the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			for _, id := range args {
				if err := s.Delete(ctx, id); err != nil {
					return fmt.Errorf("remove %s: %w", id, err)
				}
			}
			printSuccess("Removed %d events", len(args))
			return nil
		},
	}
	return cmd
}

func (c *CLI) eventsImportCommand() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "import <file|url>",
		Short: "Import events from a calendar file or feed",
		Long: `Import events from a calendar source into the configured store.

The source is a local .ics or .json file, or a feed URL (http, https
or webcal). Feed bodies are cached under the cache directory;
--refresh forces a refetch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEventsImport(cmd.Context(), args[0], refresh)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the feed cache and refetch")

	return cmd
}

func (c *CLI) runEventsImport(ctx context.Context, source string, refresh bool) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	events, err := c.loadEvents(ctx, source, refresh)
	if err != nil {
		return fmt.Errorf("import %s: %w", source, err)
	}

	if len(events) == 0 {
		printError("No events found in %s", source)
		return fmt.Errorf("no events found in %s", source)
	}

	s, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	imported := 0
	for _, ev := range events {
		if err := s.Put(ctx, ev); err != nil {
			printWarning("skipped %s: %v", ev.ID, err)
			continue
		}
		imported++
	}
	prog.done(fmt.Sprintf("Imported %d events", imported))

	printSuccess("Imported %d of %d events", imported, len(events))
	printNewline()
	printNextStep("List them", appName+" events list --all")
	return nil
}

// loadEvents reads a calendar source: a feed URL through the cached
// feed client, a local file by extension (.json, otherwise iCalendar).
func (c *CLI) loadEvents(ctx context.Context, source string, refresh bool) ([]event.Event, error) {
	if !feed.IsURL(source) {
		if strings.EqualFold(filepath.Ext(source), ".json") {
			return io.ImportJSON(source)
		}
		return store.ImportICS(source)
	}

	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("resolve cache dir: %w", err)
	}
	cache, err := httputil.NewCache(dir, feed.DefaultTTL)
	if err != nil {
		return nil, fmt.Errorf("open feed cache: %w", err)
	}
	return feed.NewClient(cache).Fetch(ctx, source, refresh)
}

func (c *CLI) eventsExportCommand() *cobra.Command {
	var (
		output  string
		format  string
		dayFlag string
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export events as iCalendar or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveExportFormat(format, output)
			if err != nil {
				return err
			}
			return c.runEventsExport(cmd.Context(), output, resolved, dayFlag, all)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: ics (default) or json")
	cmd.Flags().StringVar(&dayFlag, "day", "", "day to export (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&all, "all", false, "export every stored event")

	return cmd
}

// exportFormats is the set of supported export formats.
var exportFormats = map[string]bool{"ics": true, "json": true}

// resolveExportFormat picks the export format from the flag, falling back
// to the output file extension, then to iCalendar.
func resolveExportFormat(format, output string) (string, error) {
	if format != "" {
		if !exportFormats[format] {
			return "", fmt.Errorf("invalid format: %s (must be 'ics' or 'json')", format)
		}
		return format, nil
	}
	if ext := strings.TrimPrefix(filepath.Ext(output), "."); exportFormats[strings.ToLower(ext)] {
		return strings.ToLower(ext), nil
	}
	return "ics", nil
}

func (c *CLI) runEventsExport(ctx context.Context, output, format, dayFlag string, all bool) error {
	s, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	var events []event.Event
	if all {
		events, err = s.List(ctx)
	} else {
		var day time.Time
		if day, err = parseDay(dayFlag); err != nil {
			return err
		}
		events, err = store.Day(ctx, s, day)
	}
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}

	calName := c.Config.Store.Calendar
	if output == "" {
		if format == "json" {
			return io.WriteJSON(os.Stdout, events, calName)
		}
		return store.WriteICS(os.Stdout, events, calName)
	}

	if format == "json" {
		err = io.ExportJSON(output, events, calName)
	} else {
		err = store.ExportICS(output, events, calName)
	}
	if err != nil {
		return err
	}

	printSuccess("Exported %d events", len(events))
	printFile(output)
	return nil
}
