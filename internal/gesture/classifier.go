package gesture

import "github.com/ayusman/mudra/internal/detector"

// Classifier defaults, in camera pixels.
const (
	DefaultMovementThreshold = 50
	DefaultPointMarginY      = 150
)

// Config controls swipe sensitivity and the pointing map.
type Config struct {
	// MovementThreshold is the center-x change, in pixels, that counts as a swipe.
	MovementThreshold int
	// Width and Height are the capture size; they also size the display space.
	Width  int
	Height int
	// PointMarginY trims the top and bottom of the capture before mapping
	// the fingertip onto the display.
	PointMarginY int
}

// Classifier maps one observation to one event. It keeps no state of its
// own; the swipe baseline is passed in by the caller.
type Classifier struct {
	config Config
}

// NewClassifier returns a classifier for the given configuration.
func NewClassifier(config Config) *Classifier {
	if config.MovementThreshold <= 0 {
		config.MovementThreshold = DefaultMovementThreshold
	}
	if config.PointMarginY < 0 {
		config.PointMarginY = 0
	}
	return &Classifier{config: config}
}

// Classify decides the event for one frame.
//
//  1. No hand: None, baseline kept so a dropped frame does not break a swipe.
//  2. All five fingers up: swipe candidate measured against the baseline.
//  3. Index finger only: PointAt with the fingertip mapped to the display.
//  4. Anything else: PointEnd.
func (c *Classifier) Classify(obs *detector.Observation, baseline *Baseline) Event {
	if obs == nil {
		return Event{Kind: None}
	}

	if obs.Fingers.AllExtended() {
		return c.swipe(obs.Center.X, baseline)
	}

	if obs.Fingers == detector.Pointing {
		x, y := c.MapPoint(obs.Tip(detector.Index).X, obs.Tip(detector.Index).Y)
		return Event{Kind: PointAt, X: x, Y: y}
	}

	return Event{Kind: PointEnd}
}

func (c *Classifier) swipe(cx int, baseline *Baseline) Event {
	if !baseline.Set {
		baseline.Mark(cx)
		return Event{Kind: None}
	}

	delta := cx - baseline.X
	baseline.Mark(cx)

	if abs(delta) <= c.config.MovementThreshold {
		return Event{Kind: None}
	}
	if delta > 0 {
		return Event{Kind: SwipeRight}
	}
	return Event{Kind: SwipeLeft}
}

// MapPoint maps a fingertip in capture pixels to display pixels. Only the
// right half of the capture, minus the vertical margins, is used so the
// presenter can reach every corner of the slide without stretching.
func (c *Classifier) MapPoint(x, y int) (int, int) {
	w, h := float64(c.config.Width), float64(c.config.Height)
	margin := float64(c.config.PointMarginY)

	mx := Interp(float64(x), float64(c.config.Width/2), w, 0, w)
	my := Interp(float64(y), margin, h-margin, 0, h)

	return int(mx), int(my)
}

// Interp linearly maps v from [x0, x1] to [y0, y1], clamping outside the range.
func Interp(v, x0, x1, y0, y1 float64) float64 {
	if x1 == x0 {
		return y0
	}
	if v <= x0 {
		return y0
	}
	if v >= x1 {
		return y1
	}
	return y0 + (v-x0)*(y1-y0)/(x1-x0)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
