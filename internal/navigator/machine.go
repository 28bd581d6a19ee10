// Package navigator implements the slide navigation state machine: it owns
// the current slide, the post-navigation cooldown and the annotation track.
package navigator

import (
	"errors"
	"image"
	"log/slog"

	"github.com/ayusman/mudra/internal/annotation"
	"github.com/ayusman/mudra/internal/gesture"
)

// DefaultCooldownFrames is how many frames gestures are ignored after a slide change.
const DefaultCooldownFrames = 30

// ErrNoSlides is returned when a machine is created for an empty deck.
var ErrNoSlides = errors.New("navigator: deck has no slides")

// Mode is the machine's coarse state.
type Mode int

const (
	// Idle accepts gestures.
	Idle Mode = iota
	// Cooldown ignores gestures until the refractory period runs out.
	Cooldown
)

func (m Mode) String() string {
	if m == Cooldown {
		return "cooldown"
	}
	return "idle"
}

// State is the navigation state mutated once per frame.
type State struct {
	Slide    int
	Counter  int
	Cooldown bool
	Baseline gesture.Baseline
}

// Mode returns Idle or Cooldown.
func (s State) Mode() Mode {
	if s.Cooldown {
		return Cooldown
	}
	return Idle
}

// Config holds the machine's tunables.
type Config struct {
	// CooldownFrames is the refractory period after a slide change.
	CooldownFrames int
}

// Outcome describes what one Apply call did.
type Outcome struct {
	Event gesture.Event
	// From and To are the slide indexes before and after the event.
	From int
	To   int
	// Navigated is set when the slide changed.
	Navigated bool
	// Ignored is set when the event arrived during cooldown.
	Ignored bool
	// Resumed is set on the frame the cooldown ran out.
	Resumed bool
}

// Machine applies gesture events to the navigation state. It is not safe for
// concurrent use; the frame loop owns it.
type Machine struct {
	state  State
	track  annotation.Track
	slides int
	delay  int
	logger *slog.Logger
}

// New returns a machine for a deck of the given length, positioned on the first slide.
func New(slides int, config Config, logger *slog.Logger) (*Machine, error) {
	if slides < 1 {
		return nil, ErrNoSlides
	}
	if config.CooldownFrames <= 0 {
		config.CooldownFrames = DefaultCooldownFrames
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		slides: slides,
		delay:  config.CooldownFrames,
		logger: logger,
	}, nil
}

// Apply feeds one frame's event to the machine.
//
// In Idle a swipe moves one slide when not already at the end, clears the
// track and starts the cooldown; PointAt extends the open stroke; anything
// else closes it. In Cooldown the event is dropped. The cooldown counter
// advances on every cooldown frame, including the one that started it, and
// when it passes the delay the swipe baseline is forgotten and the machine
// goes back to Idle.
func (m *Machine) Apply(ev gesture.Event) Outcome {
	out := Outcome{Event: ev, From: m.state.Slide}

	if m.state.Cooldown {
		out.Ignored = true
	} else {
		switch ev.Kind {
		case gesture.SwipeRight:
			if m.state.Slide < m.slides-1 {
				m.navigate(m.state.Slide + 1)
				out.Navigated = true
			}
		case gesture.SwipeLeft:
			if m.state.Slide > 0 {
				m.navigate(m.state.Slide - 1)
				out.Navigated = true
			}
		case gesture.PointAt:
			m.track.Append(image.Pt(ev.X, ev.Y))
		}

		if ev.Kind != gesture.PointAt {
			m.track.End()
		}
	}

	if m.state.Cooldown {
		m.state.Counter++
		if m.state.Counter > m.delay {
			m.state.Counter = 0
			m.state.Cooldown = false
			m.state.Baseline.Reset()
			out.Resumed = true
			m.logger.Debug("navigator state transition",
				slog.String("from", Cooldown.String()),
				slog.String("to", Idle.String()))
		}
	}

	out.To = m.state.Slide
	return out
}

func (m *Machine) navigate(to int) {
	from := m.state.Slide
	m.state.Slide = to
	m.state.Cooldown = true
	m.state.Counter = 0
	m.track.Clear()

	m.logger.Info("slide changed",
		slog.Int("from", from),
		slog.Int("to", to),
		slog.Int("total", m.slides))
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	return m.state
}

// Slide returns the current slide index.
func (m *Machine) Slide() int {
	return m.state.Slide
}

// Slides returns the deck length.
func (m *Machine) Slides() int {
	return m.slides
}

// Baseline exposes the swipe baseline for the classifier.
func (m *Machine) Baseline() *gesture.Baseline {
	return &m.state.Baseline
}

// Track returns the annotation track of the current slide.
func (m *Machine) Track() *annotation.Track {
	return &m.track
}
