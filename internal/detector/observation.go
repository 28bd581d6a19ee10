package detector

import (
	"image"
	"strings"
)

// Finger indexes into a Fingers vector.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
)

// Fingers is the finger-extension vector, thumb to pinky.
type Fingers [5]bool

// Pointing is the index-only pattern used for drawing.
var Pointing = Fingers{false, true, false, false, false}

// AllExtended reports whether every finger is up.
func (f Fingers) AllExtended() bool {
	for _, up := range f {
		if !up {
			return false
		}
	}
	return true
}

// String renders the vector as "01000".
func (f Fingers) String() string {
	var b strings.Builder
	for _, up := range f {
		if up {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Observation is one frame's view of a single hand in frame pixels.
type Observation struct {
	Center     image.Point
	Box        image.Rectangle
	Landmarks  [NumLandmarks]image.Point
	Fingers    Fingers
	Handedness string
	Score      float64
}

// Tip returns the pixel position of a fingertip.
func (o *Observation) Tip(f Finger) image.Point {
	return o.Landmarks[tipIDs[f]]
}

// Observe converts the first detected hand into an Observation in a frame of
// width x height pixels. It returns nil when no hand was detected. With flip
// set the handedness label is swapped, because the detector runs on a
// mirrored frame.
func Observe(hands []HandLandmarks, width, height int, flip bool) *Observation {
	if len(hands) == 0 {
		return nil
	}
	hand := hands[0]

	obs := &Observation{
		Handedness: hand.Handedness,
		Score:      hand.Score,
	}
	if flip {
		obs.Handedness = swapHandedness(hand.Handedness)
	}

	minX, minY := width, height
	maxX, maxY := 0, 0
	for i, p := range hand.Points {
		px := int(p.X * float64(width))
		py := int(p.Y * float64(height))
		obs.Landmarks[i] = image.Pt(px, py)

		minX, maxX = min(minX, px), max(maxX, px)
		minY, maxY = min(minY, py), max(maxY, py)
	}

	obs.Box = image.Rect(minX, minY, maxX, maxY)
	obs.Center = image.Pt(minX+(maxX-minX)/2, minY+(maxY-minY)/2)
	obs.Fingers = FingersUp(obs.Landmarks, obs.Handedness)

	return obs
}

// FingersUp decides which fingers are extended. The thumb is compared on the
// x axis against its IP joint, on the side given by handedness; the other
// fingers count as up when the tip is above the PIP joint.
func FingersUp(points [NumLandmarks]image.Point, handedness string) Fingers {
	var fingers Fingers

	tip, ip := points[ThumbTip], points[ThumbIP]
	if handedness == HandRight {
		fingers[Thumb] = tip.X > ip.X
	} else {
		fingers[Thumb] = tip.X < ip.X
	}

	for f := Index; f <= Pinky; f++ {
		id := tipIDs[f]
		fingers[f] = points[id].Y < points[id-2].Y
	}

	return fingers
}
