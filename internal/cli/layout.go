package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/timegrid/pkg/event"
	"github.com/matzehuels/timegrid/pkg/layout"
	"github.com/matzehuels/timegrid/pkg/observability"
	"github.com/matzehuels/timegrid/pkg/store"
)

// layoutCommand creates the layout command, which runs one layout pass and
// prints the resulting day geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		dayFlag string
		icsPath string
		width   float64
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute the box layout for a day",
		Long: `Compute the box layout for a day and print it.

Events come from the configured store, or from an iCalendar file when
--file is given. Geometry comes from the profile's [grid] section plus
the --width flag. The output table shows each event's pixel footprint;
--json emits the raw layout instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), dayFlag, icsPath, width, asJSON)
		},
	}

	cmd.Flags().StringVar(&dayFlag, "day", "", "day to lay out (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&icsPath, "file", "", "read events from an iCalendar file instead of the store")
	cmd.Flags().Float64Var(&width, "width", 360, "container width in pixels")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the layout as JSON")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, dayFlag, icsPath string, width float64, asJSON bool) error {
	day, err := parseDay(dayFlag)
	if err != nil {
		return err
	}

	var events []event.Event
	if icsPath != "" {
		if events, err = store.ImportICS(icsPath); err != nil {
			return err
		}
	} else {
		s, err := c.openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close(ctx)
		if events, err = store.Day(ctx, s, day); err != nil {
			return fmt.Errorf("load events: %w", err)
		}
	}

	// Decorate the registered hooks so the pass reports its cluster count
	// here without silencing verbose logging.
	rec := &layoutRecorder{next: observability.Layout()}
	observability.SetLayoutHooks(rec)
	defer observability.SetLayoutHooks(rec.next)

	engine := layout.NewEngine(c.Config.Grid.Mapper(), width)
	computed := engine.LayoutDay(events, day)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(computed)
	}

	mapper := engine.Mapper
	printKeyValue("Day", computed.Date.Format(dayFormat))
	printKeyValue("Geometry", fmt.Sprintf("%.0fpx/h, snap %s, width %.0fpx",
		mapper.HourHeight, mapper.SnapInterval, width))
	printNewline()

	if len(computed.Boxes) == 0 && len(computed.AllDay) == 0 {
		printInfo("Nothing scheduled")
		return nil
	}

	byID := make(map[string]event.Event, len(events))
	for _, ev := range events {
		byID[ev.ID] = ev
	}

	if len(computed.Boxes) > 0 {
		fmt.Println(renderBoxTable(computed, byID))
	}
	for _, id := range computed.AllDay {
		printDetail("all-day: %s %s", id, byID[id].Title)
	}

	printNewline()
	printStats(len(computed.Boxes)+len(computed.AllDay), rec.clusters, len(computed.AllDay))
	return nil
}

// renderBoxTable formats a computed day as a bordered table, one row per box.
func renderBoxTable(d layout.Day, byID map[string]event.Event) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(d.Boxes))
	for i, b := range d.Boxes {
		ev := byID[b.EventID]
		rows[i] = []string{
			b.EventID,
			ev.Title,
			formatSpan(ev, false),
			fmt.Sprintf("%.0f", b.Top),
			fmt.Sprintf("%.0f", b.Height),
			fmt.Sprintf("%.0f", b.Left),
			fmt.Sprintf("%.0f", b.Width),
			fmt.Sprintf("%d/%d", b.Column+1, b.Columns),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Title", "When", "Top", "Height", "Left", "Width", "Col").
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

// layoutRecorder captures the most recent pass statistics while forwarding
// to the hooks that were registered before it.
type layoutRecorder struct {
	next     observability.LayoutHooks
	clusters int
}

func (r *layoutRecorder) OnLayoutStart(eventCount int) {
	r.next.OnLayoutStart(eventCount)
}

func (r *layoutRecorder) OnLayoutComplete(eventCount, clusterCount int, duration time.Duration) {
	r.clusters = clusterCount
	r.next.OnLayoutComplete(eventCount, clusterCount, duration)
}
