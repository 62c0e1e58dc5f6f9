package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/timegrid/pkg/gesture"
	"github.com/matzehuels/timegrid/pkg/render"
)

// fsmCommand creates the fsm command, which renders the recognizer state
// machine as a diagram.
func (c *CLI) fsmCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "fsm",
		Short: "Render the recognizer state machine",
		Long: `Render the recognizer state machine as a diagram.

The diagram is generated from the machine's own transition table, so it
always matches the shipped recognizer. The dot format prints Graphviz
source; svg and png rasterize it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFSM(format, output, detailed)
		},
	}

	cmd.Flags().StringVar(&format, "format", "dot", "output format: dot, svg or png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label every edge with its cause")

	return cmd
}

func (c *CLI) runFSM(format, output string, detailed bool) error {
	dot := render.ToDOT(gesture.Transitions(), render.Options{Detailed: detailed})

	var (
		data []byte
		err  error
	)
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = render.SVG(dot)
	case "png":
		data, err = render.PNG(dot)
	default:
		return fmt.Errorf("unknown format %q (want dot, svg or png)", format)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	if output == "" {
		if format == "png" {
			return fmt.Errorf("png output needs --output")
		}
		_, err := os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Rendered %d states and %d transitions",
		len(gesture.States()), len(gesture.Transitions()))
	printFile(output)
	return nil
}
