package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/timegrid/pkg/trace"
)

// replayCommand creates the replay command, which re-runs a recorded pointer
// trace through the recognizer and reports what it committed.
func (c *CLI) replayCommand() *cobra.Command {
	var (
		asJSON bool
		golden string
	)

	cmd := &cobra.Command{
		Use:   "replay <trace.json>",
		Short: "Replay a recorded gesture trace",
		Long: `Replay a recorded gesture trace and report the outcome.

The trace carries its own geometry and event set, so the replay is
deterministic and independent of the store. Recognizer thresholds come
from the profile's [gesture] and [view] sections, which makes replay
useful for checking how a recorded interaction behaves under different
tuning.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReplay(cmd.Context(), args[0], asJSON, golden)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the replay result as JSON")
	cmd.Flags().StringVar(&golden, "record-golden", "", "write the result to a golden file")

	return cmd
}

func (c *CLI) runReplay(ctx context.Context, path string, asJSON bool, golden string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	rec, err := trace.Load(path)
	if err != nil {
		return err
	}

	result, err := trace.Replay(rec, c.Config.Gesture.Options(), c.Config.View.Options())
	if err != nil {
		return fmt.Errorf("replay %s: %w", path, err)
	}
	prog.done(fmt.Sprintf("Replayed %d samples", len(rec.Samples)))

	if golden != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		if err := os.WriteFile(golden, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", golden, err)
		}
		printFile(golden)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printKeyValue("Trace", rec.Name)
	printKeyValue("Recorded", rec.RecordedAt.Format("2006-01-02 15:04:05"))
	printKeyValue("Day", rec.Day.Format(dayFormat))
	printKeyValue("Samples", fmt.Sprintf("%d over %s", len(rec.Samples), rec.Duration()))
	printNewline()

	if len(result.Mutations) > 0 {
		fmt.Println(renderMutationTable(result.Mutations))
	} else {
		printInfo("No mutations committed")
	}

	for _, id := range result.Taps {
		printDetail("tap: %s", id)
	}
	for _, sel := range result.Selections {
		printDetail("selection: %s", strings.Join(sel, ", "))
	}
	for _, kind := range result.Feedback {
		printDetail("feedback: %s", kind)
	}
	for _, at := range result.Navigations {
		printDetail("navigate: %s", at.Format(dayFormat))
	}
	for _, mode := range result.Modes {
		printDetail("mode: %s", mode)
	}

	printNewline()
	printSuccess("Finished in state %s, %s view anchored at %s",
		result.FinalState, result.FinalMode, result.FinalAnchor.Format(dayFormat))
	return nil
}

// renderMutationTable formats committed mutations as a bordered table.
func renderMutationTable(muts []trace.Mutation) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(muts))
	for i, m := range muts {
		rows[i] = []string{
			m.Op,
			m.ID,
			m.Start.Format("15:04"),
			m.End.Format("15:04"),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Op", "Event", "Start", "End").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return StyleHighlight
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})

	return t.Render()
}
