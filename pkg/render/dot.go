package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/timegrid/pkg/gesture"
)

// Options configures state diagram rendering.
type Options struct {
	// Detailed labels every edge with its cause. When false, parallel
	// edges between the same pair of states collapse into one arrow.
	Detailed bool
}

// ToDOT converts a recognizer transition table to Graphviz DOT format.
// The resulting DOT string can be rendered using [SVG] or [PNG].
//
// Pass-through states (committed and cancelled, which the machine leaves
// again within the same update) are rendered with dashed outlines and grey
// fill to distinguish them from states the machine can rest in.
func ToDOT(transitions []gesture.Transition, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph recognizer {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, s := range gesture.States() {
		fmt.Fprintf(&buf, "  %q [%s];\n", s, strings.Join(stateAttrs(s), ", "))
	}

	buf.WriteString("\n")
	if opts.Detailed {
		for _, t := range transitions {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q, fontsize=14];\n", t.From, t.To, t.Cause)
		}
	} else {
		seen := make(map[[2]gesture.State]bool)
		for _, t := range transitions {
			key := [2]gesture.State{t.From, t.To}
			if seen[key] {
				continue
			}
			seen[key] = true
			fmt.Fprintf(&buf, "  %q -> %q;\n", t.From, t.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func stateAttrs(s gesture.State) []string {
	attrs := []string{fmt.Sprintf("label=%q", string(s))}
	switch s {
	case gesture.StateIdle:
		attrs = append(attrs, "penwidth=2")
	case gesture.StateCommitted, gesture.StateCancelled:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}
