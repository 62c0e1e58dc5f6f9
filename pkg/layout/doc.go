// Package layout resolves overlapping calendar events into non-overlapping
// visual columns on a day grid.
//
// # Overview
//
// When several events occupy the same time range, a usable calendar shows
// them side by side rather than stacked invisibly. [Engine.LayoutDay] turns
// a set of events plus container geometry into one positioned [Box] per
// timed event, with all-day events routed to a separate band. The result is
// derived and disposable: callers recompute it whenever events or geometry
// change and throw it away afterwards, so stale boxes can never desync from
// event truth.
//
// # Algorithm
//
// Events sort by start time with ID as the tiebreak, then a single sweep
// maintains the list of events still active at each start. Every event
// claims the lowest column index no active event holds, which packs columns
// densely and keeps the assignment stable across recomputations. Events
// connected by transitive overlap form a cluster; the cluster's column
// count is the maximum number of simultaneously active events within it,
// and every box in the cluster divides the container width by that count.
// The sweep runs in O(n·k) for n events with at most k simultaneous
// overlaps, linear in practice for real calendars.
//
// Ranges are half-open: an event ending at 10:00 does not overlap one
// starting at 10:00, so back-to-back meetings render full width.
//
// # Guarantees
//
// Two events whose time ranges intersect never share a column. Events with
// no overlap at all keep column 0 at full container width. Identical input
// produces an identical layout.
package layout
