// Package viewmode tracks calendar granularity and anchor date, and turns
// released pan and pinch intents into discrete navigation.
package viewmode

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// =============================================================================
// Modes
// =============================================================================

// Mode is the calendar granularity.
type Mode string

// Granularities, widest to narrowest. Agenda sits outside the pinch cycle
// and is reachable only through [Controller.SetMode].
const (
	ModeMonth  Mode = "month"
	ModeWeek   Mode = "week"
	ModeDay    Mode = "day"
	ModeAgenda Mode = "agenda"
)

// ParseMode converts a config or flag string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMonth, ModeWeek, ModeDay, ModeAgenda:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown view mode %q", s)
}

// =============================================================================
// Options
// =============================================================================

// Default intent thresholds.
const (
	DefaultNavThresholdFraction = 0.30
	DefaultFlickVelocity        = 800.0 // px/s
	DefaultNarrowScale          = 1.5
	DefaultWidenScale           = 0.7
	DefaultPinchDwell           = 120 * time.Millisecond
)

// Options tune navigation and zoom thresholds. Zero fields fall back to
// defaults.
type Options struct {
	NavThresholdFraction float64       // fraction of surface width a pan must cover
	FlickVelocity        float64       // px/s that navigates regardless of distance
	NarrowScale          float64       // pinch-out scale that steps month→week→day
	WidenScale           float64       // pinch-in scale that steps day→week→month
	PinchDwell           time.Duration // how long a crossing must hold before it fires
	Mode                 Mode          // initial granularity
	Anchor               time.Time     // initial anchor date
}

// ValidateAndSetDefaults rejects inconsistent thresholds and fills zero
// fields with package defaults. Safe to call more than once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.NavThresholdFraction == 0 {
		o.NavThresholdFraction = DefaultNavThresholdFraction
	}
	if o.FlickVelocity == 0 {
		o.FlickVelocity = DefaultFlickVelocity
	}
	if o.NarrowScale == 0 {
		o.NarrowScale = DefaultNarrowScale
	}
	if o.WidenScale == 0 {
		o.WidenScale = DefaultWidenScale
	}
	if o.PinchDwell == 0 {
		o.PinchDwell = DefaultPinchDwell
	}
	if o.Mode == "" {
		o.Mode = ModeDay
	}
	if o.Anchor.IsZero() {
		o.Anchor = time.Now()
	}

	if o.NavThresholdFraction < 0 || o.NavThresholdFraction > 1 {
		return errors.New("viewmode: nav threshold must be a fraction of the width")
	}
	if o.FlickVelocity < 0 || o.PinchDwell < 0 {
		return errors.New("viewmode: thresholds must not be negative")
	}
	if o.NarrowScale <= 1 {
		return errors.New("viewmode: narrow scale must exceed 1")
	}
	if o.WidenScale <= 0 || o.WidenScale >= 1 {
		return errors.New("viewmode: widen scale must sit between 0 and 1")
	}
	if _, err := ParseMode(string(o.Mode)); err != nil {
		return err
	}
	return nil
}

// =============================================================================
// Controller
// =============================================================================

// State is the controller's externally visible condition. PendingZoomScale
// is the in-flight pinch magnification relative to the last mode change; it
// returns to 1.0 after every transition and at pinch end, because zoom here
// is a stepped trigger, never a persisted magnification.
type State struct {
	Mode             Mode      `json:"mode"`
	Anchor           time.Time `json:"anchor"`
	PendingZoomScale float64   `json:"pending_zoom_scale"`
}

// Callbacks carries committed navigation intents outward. Fields are
// optional.
type Callbacks struct {
	// OnNavigate reports the new anchor after a period step.
	OnNavigate func(anchor time.Time)
	// OnModeChange reports a granularity change.
	OnModeChange func(mode Mode)
}

// Controller decides when pans and pinches become navigation. It is pure
// bookkeeping over sample values and timestamps: it owns no timers and
// animates nothing, and the snap-back of a pan that falls short belongs to
// the renderer.
type Controller struct {
	opts  Options
	cb    Callbacks
	state State
	width float64

	pinchBase  float64 // raw scale at the last transition; effective scale is raw/base
	dwellDir   int     // +1 held past narrow, -1 held past widen, 0 between
	dwellSince time.Time
}

// NewController builds a controller starting at the options' mode and
// anchor.
func NewController(opts Options, cb Callbacks) (*Controller, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Controller{
		opts:      opts,
		cb:        cb,
		state:     State{Mode: opts.Mode, Anchor: opts.Anchor, PendingZoomScale: 1},
		pinchBase: 1,
	}, nil
}

// State returns the current view state.
func (c *Controller) State() State { return c.state }

// Mode returns the current granularity.
func (c *Controller) Mode() Mode { return c.state.Mode }

// Anchor returns the current anchor date.
func (c *Controller) Anchor() time.Time { return c.state.Anchor }

// SetWidth tells the controller the surface width its pan threshold is a
// fraction of. Surfaces call it on every resize.
func (c *Controller) SetWidth(w float64) { c.width = w }

// SetAnchor jumps to a date without firing navigation callbacks, for
// today-buttons and deep links.
func (c *Controller) SetAnchor(t time.Time) { c.state.Anchor = t }

// SetMode switches granularity explicitly. Unknown modes are ignored;
// switching to the current mode is a no-op.
func (c *Controller) SetMode(mode Mode) {
	if _, err := ParseMode(string(mode)); err != nil || mode == c.state.Mode {
		return
	}
	c.applyMode(mode)
}

// =============================================================================
// Pan Navigation
// =============================================================================

// Navigate steps the anchor by n periods of the current mode and reports
// the new anchor.
func (c *Controller) Navigate(n int) time.Time {
	c.state.Anchor = AddPeriods(c.state.Anchor, c.state.Mode, n)
	if c.cb.OnNavigate != nil {
		c.cb.OnNavigate(c.state.Anchor)
	}
	return c.state.Anchor
}

// EndPan resolves a released horizontal pan. A pan navigates when its
// displacement covers the threshold fraction of the surface width or its
// release velocity qualifies as a flick; anything less reports false and
// the renderer snaps the offset back. Dragging left reveals the following
// period.
func (c *Controller) EndPan(dx, velocity float64) bool {
	byDistance := c.width > 0 && math.Abs(dx) >= c.opts.NavThresholdFraction*c.width
	byFlick := math.Abs(velocity) >= c.opts.FlickVelocity && velocity != 0
	if !byDistance && !byFlick {
		return false
	}

	ref := dx
	if ref == 0 {
		ref = velocity
	}
	if ref < 0 {
		c.Navigate(1)
	} else {
		c.Navigate(-1)
	}
	return true
}

// =============================================================================
// Pinch Zoom
// =============================================================================

// BeginPinch starts a fresh pinch with an effective scale of 1.0.
func (c *Controller) BeginPinch() {
	c.pinchBase = 1
	c.dwellDir = 0
	c.state.PendingZoomScale = 1
}

// Pinch consumes one scale sample. A threshold crossing fires only after
// the scale holds beyond it for the dwell window, so a hand wobbling
// around the threshold cannot flap between modes. After a transition the
// effective scale rebases to 1.0 and the fingers must travel the full
// threshold again for the next step.
func (c *Controller) Pinch(scale float64, at time.Time) {
	if scale <= 0 {
		return
	}
	eff := scale / c.pinchBase
	c.state.PendingZoomScale = eff

	dir := 0
	switch {
	case eff >= c.opts.NarrowScale:
		dir = 1
	case eff <= c.opts.WidenScale:
		dir = -1
	}
	if dir == 0 {
		c.dwellDir = 0
		return
	}
	if c.dwellDir != dir {
		c.dwellDir = dir
		c.dwellSince = at
		return
	}
	if at.Sub(c.dwellSince) < c.opts.PinchDwell {
		return
	}

	var next Mode
	if dir > 0 {
		next = narrower(c.state.Mode)
	} else {
		next = wider(c.state.Mode)
	}
	c.dwellDir = 0
	if next == "" {
		return
	}
	c.applyMode(next)
	c.pinchBase = scale
	c.state.PendingZoomScale = 1
}

// EndPinch closes the pinch and discards any partial magnification.
func (c *Controller) EndPinch() {
	c.pinchBase = 1
	c.dwellDir = 0
	c.state.PendingZoomScale = 1
}

func (c *Controller) applyMode(mode Mode) {
	c.state.Mode = mode
	c.state.PendingZoomScale = 1
	if c.cb.OnModeChange != nil {
		c.cb.OnModeChange(mode)
	}
}

// narrower returns the next step of month→week→day, or empty at the end.
func narrower(m Mode) Mode {
	switch m {
	case ModeMonth:
		return ModeWeek
	case ModeWeek:
		return ModeDay
	}
	return ""
}

// wider returns the next step of day→week→month, or empty at the end.
func wider(m Mode) Mode {
	switch m {
	case ModeDay:
		return ModeWeek
	case ModeWeek:
		return ModeMonth
	}
	return ""
}

// =============================================================================
// Period Arithmetic
// =============================================================================

// AddPeriods steps t by n navigation periods of mode. Day steps one
// calendar day, week and agenda step seven, month steps one calendar month
// clamped to the shorter month's last day, so January 31 plus one month
// lands on the end of February instead of sliding into March.
func AddPeriods(t time.Time, mode Mode, n int) time.Time {
	switch mode {
	case ModeDay:
		return t.AddDate(0, 0, n)
	case ModeWeek, ModeAgenda:
		return t.AddDate(0, 0, 7*n)
	case ModeMonth:
		return addMonthsClamped(t, n)
	}
	return t
}

func addMonthsClamped(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	hour, min, sec := t.Clock()
	return time.Date(first.Year(), first.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}
