// Package gesture turns per-frame hand observations into discrete navigation
// and annotation events.
package gesture

import "fmt"

// Kind identifies a gesture event.
type Kind int

const (
	// None means nothing actionable happened this frame.
	None Kind = iota
	// SwipeLeft asks for the previous slide.
	SwipeLeft
	// SwipeRight asks for the next slide.
	SwipeRight
	// PointAt places the drawing cursor at X, Y on the slide.
	PointAt
	// PointEnd closes any stroke being drawn.
	PointEnd
)

var kindNames = map[Kind]string{
	None:       "none",
	SwipeLeft:  "swipe-left",
	SwipeRight: "swipe-right",
	PointAt:    "point-at",
	PointEnd:   "point-end",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is the classified result of one frame. X and Y are only meaningful
// for PointAt and are in display coordinates.
type Event struct {
	Kind Kind
	X    int
	Y    int
}

func (e Event) String() string {
	if e.Kind == PointAt {
		return fmt.Sprintf("%s(%d,%d)", e.Kind, e.X, e.Y)
	}
	return e.Kind.String()
}

// Baseline is the hand-center x recorded at the previous swipe candidate.
type Baseline struct {
	X   int
	Set bool
}

// Mark records x as the new baseline.
func (b *Baseline) Mark(x int) {
	b.X = x
	b.Set = true
}

// Reset forgets the baseline, so the next open hand starts a fresh swipe.
func (b *Baseline) Reset() {
	*b = Baseline{}
}
