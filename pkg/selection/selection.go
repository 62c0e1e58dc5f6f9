// Package selection implements rubber-band multi-selection over laid-out
// events.
package selection

import (
	"slices"

	"github.com/matzehuels/timegrid/pkg/grid"
	"github.com/matzehuels/timegrid/pkg/layout"
)

// Band is one live rubber-band selection, anchored where the gesture began
// and stretched to the pointer's current position. It exists only for the
// duration of a selection gesture and never mutates events; dragging across
// the grid recomputes the covered ID set, and releasing commits whatever
// the band covers at that instant. An empty commit is valid and clears the
// selection.
type Band struct {
	anchor  grid.Point
	current grid.Point
	ids     []string
}

// Start opens a band anchored at p. Until the first [Band.Update] the band
// is a point and covers only boxes under p itself.
func Start(p grid.Point) *Band {
	return &Band{anchor: p, current: p}
}

// Update stretches the band to p and recomputes the covered set against the
// given boxes. Coverage is rectangle intersection: any box the band touches
// is selected, a box merely near it is not. The returned slice is sorted
// and shared with the band; callers keeping it across updates copy it.
func (b *Band) Update(p grid.Point, boxes []layout.Box) []string {
	b.current = p
	r := b.Rect()

	b.ids = b.ids[:0]
	for _, box := range boxes {
		if r.Intersects(box.Rect()) {
			b.ids = append(b.ids, box.EventID)
		}
	}
	slices.Sort(b.ids)
	return b.ids
}

// Rect returns the band's normalized rectangle.
func (b *Band) Rect() grid.Rect {
	return grid.RectFromPoints(b.anchor, b.current)
}

// IDs returns the currently covered set, sorted.
func (b *Band) IDs() []string {
	return b.ids
}

// Commit returns the final covered set as its own slice, detached from the
// band's internal buffer.
func (b *Band) Commit() []string {
	return slices.Clone(b.ids)
}
