// Package grid converts between pixel geometry and calendar time on a
// uniform day grid.
//
// # Overview
//
// A direct-manipulation calendar needs one authoritative answer to "what
// time is this pixel?" and "what pixel is this time?". This package owns
// that answer. [Mapper] performs the conversion in both directions with a
// configurable hour height and snap interval, and guarantees that the two
// directions are exact inverses for grid-aligned times, so a drag that never
// moves cannot drift an event's time through conversion error alone.
//
// The package also carries the small pixel-geometry vocabulary shared by the
// interaction packages: [Point] for pointer positions and translations, and
// [Rect] for hit boxes and rubber-band selection areas.
//
// # Conventions
//
// The pixel origin is the top-left corner of the day column and Y grows
// downward, so midnight maps to offset 0 and the following midnight to
// [Mapper.DayHeight]. The grid is uniform: every hour occupies the same
// pixel height regardless of civil-time anomalies, which keeps conversion
// deterministic. Times are compared and converted in the location they
// carry; callers working across zones normalize first.
package grid
