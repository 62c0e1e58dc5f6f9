package grid

import "time"

// =============================================================================
// Constants
// =============================================================================

// Default grid metrics, matching a 60px-per-hour day view with
// quarter-hour snapping.
const (
	DefaultHourHeight   = 60.0
	DefaultSnapInterval = 15 * time.Minute
)

// =============================================================================
// Mapper - Time ↔ Pixel Conversion
// =============================================================================

// Mapper converts between vertical pixel offsets and times of day on a
// uniform 24-hour grid.
//
// The Mapper is the single source of truth for time↔pixel conversion during
// direct manipulation: a drag position becomes a snapped candidate time
// through [Mapper.TimeForY], and event times become row offsets through
// [Mapper.YForTime]. For any time already on the snap grid the two are exact
// inverses, independent of HourHeight:
//
//	m.TimeForY(m.YForTime(t), t) == m.Snap(t)
//
// Mapper is a small value type with no internal state; copies are cheap and
// all methods are pure.
type Mapper struct {
	HourHeight   float64       // Pixel height of one hour of grid
	SnapInterval time.Duration // Granularity candidate times round to
}

// NewMapper returns a Mapper with the given metrics. Non-positive values
// fall back to [DefaultHourHeight] and [DefaultSnapInterval].
func NewMapper(hourHeight float64, snap time.Duration) Mapper {
	if hourHeight <= 0 {
		hourHeight = DefaultHourHeight
	}
	if snap <= 0 {
		snap = DefaultSnapInterval
	}
	return Mapper{HourHeight: hourHeight, SnapInterval: snap}
}

// DayHeight returns the total pixel height of one day of grid.
func (m Mapper) DayHeight() float64 { return 24 * m.HourHeight }

// ClampY constrains y to the day's pixel range. Offsets above the grid clamp
// to the top edge, offsets below it to the bottom edge.
func (m Mapper) ClampY(y float64) float64 {
	if y < 0 {
		return 0
	}
	if max := m.DayHeight(); y > max {
		return max
	}
	return y
}

// TimeForY converts a vertical offset into a time on day's grid. The offset
// is clamped into the day before conversion and the result rounds to the
// nearest SnapInterval, halves rounding away from midnight. An offset at the
// very bottom of the grid yields the following midnight, the exclusive end
// of the day.
func (m Mapper) TimeForY(y float64, day time.Time) time.Time {
	y = m.ClampY(y)
	offset := time.Duration(y / m.HourHeight * float64(time.Hour))
	return DayStart(day).Add(offset.Round(m.SnapInterval))
}

// YForTime converts a time into its vertical offset within its own day.
// The result is not snapped; callers wanting grid-aligned offsets snap the
// time first.
func (m Mapper) YForTime(t time.Time) float64 {
	return t.Sub(DayStart(t)).Hours() * m.HourHeight
}

// HeightFor returns the pixel height spanned by a duration.
func (m Mapper) HeightFor(d time.Duration) float64 {
	return d.Hours() * m.HourHeight
}

// Snap rounds t to the nearest grid point, halves rounding away from
// midnight.
func (m Mapper) Snap(t time.Time) time.Time {
	day := DayStart(t)
	return day.Add(t.Sub(day).Round(m.SnapInterval))
}

// =============================================================================
// Day Boundaries
// =============================================================================

// DayStart returns midnight of t's calendar day in t's location.
func DayStart(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DayEnd returns midnight of the day after t, the exclusive upper bound of
// t's day.
func DayEnd(t time.Time) time.Time {
	return DayStart(t).AddDate(0, 0, 1)
}
