package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/timegrid/pkg/observability"
)

// logHooks streams recognizer, layout and store events to the debug log.
// Registered in verbose mode so gesture traces show up interleaved with
// command output.
type logHooks struct {
	logger *log.Logger
}

// registerLogHooks routes all observability hooks through l.
func registerLogHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetGestureHooks(h)
	observability.SetLayoutHooks(h)
	observability.SetStoreHooks(h)
}

func (h *logHooks) OnTransition(from, to string) {
	h.logger.Debug("gesture transition", "from", from, "to", to)
}

func (h *logHooks) OnCommit(kind string) {
	h.logger.Debug("gesture commit", "kind", kind)
}

func (h *logHooks) OnCancel(reason string) {
	h.logger.Debug("gesture cancel", "reason", reason)
}

func (h *logHooks) OnLayoutStart(eventCount int) {
	h.logger.Debug("layout start", "events", eventCount)
}

func (h *logHooks) OnLayoutComplete(eventCount, clusterCount int, duration time.Duration) {
	h.logger.Debug("layout complete",
		"events", eventCount,
		"clusters", clusterCount,
		"duration", duration.Round(time.Microsecond))
}

func (h *logHooks) OnLoad(ctx context.Context, backend string, count int, err error) {
	if err != nil {
		h.logger.Debug("store load failed", "backend", backend, "error", err)
		return
	}
	h.logger.Debug("store load", "backend", backend, "events", count)
}

func (h *logHooks) OnMutation(ctx context.Context, backend, op string, err error) {
	if err != nil {
		h.logger.Debug("store mutation failed", "backend", backend, "op", op, "error", err)
		return
	}
	h.logger.Debug("store mutation", "backend", backend, "op", op)
}

var (
	_ observability.GestureHooks = (*logHooks)(nil)
	_ observability.LayoutHooks  = (*logHooks)(nil)
	_ observability.StoreHooks   = (*logHooks)(nil)
)
