// Package annotation holds the freehand strokes drawn on the current slide.
package annotation

import "image"

// Stroke is one continuous freehand path.
type Stroke []image.Point

// Track is the ordered set of strokes on the current slide. At most one
// stroke is open for appending at a time. The zero value is an empty track.
type Track struct {
	strokes []Stroke
	open    bool
}

// Append adds p to the open stroke, opening a new stroke first if none is open.
func (t *Track) Append(p image.Point) {
	if !t.open {
		t.strokes = append(t.strokes, Stroke{})
		t.open = true
	}
	last := len(t.strokes) - 1
	t.strokes[last] = append(t.strokes[last], p)
}

// End closes the open stroke. It is a no-op when nothing is open.
func (t *Track) End() {
	t.open = false
}

// Clear drops every stroke.
func (t *Track) Clear() {
	t.strokes = nil
	t.open = false
}

// Drawing reports whether a stroke is open.
func (t *Track) Drawing() bool {
	return t.open
}

// Len returns the number of strokes.
func (t *Track) Len() int {
	return len(t.strokes)
}

// Empty reports whether the track has no strokes.
func (t *Track) Empty() bool {
	return len(t.strokes) == 0
}

// Stroke returns the stroke at index i.
func (t *Track) Stroke(i int) Stroke {
	return t.strokes[i]
}

// Strokes returns the strokes in drawing order. The slice is shared; callers
// must not modify it.
func (t *Track) Strokes() []Stroke {
	return t.strokes
}

// Cursor returns the tip of the open stroke.
func (t *Track) Cursor() (image.Point, bool) {
	if !t.open || len(t.strokes) == 0 {
		return image.Point{}, false
	}
	s := t.strokes[len(t.strokes)-1]
	if len(s) == 0 {
		return image.Point{}, false
	}
	return s[len(s)-1], true
}

// Points returns the total number of points across strokes.
func (t *Track) Points() int {
	n := 0
	for _, s := range t.strokes {
		n += len(s)
	}
	return n
}
