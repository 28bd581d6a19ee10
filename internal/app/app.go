// Package app runs a presentation session: the per-frame loop that turns camera
// frames into slide navigation and annotation.
package app

import (
	"errors"
	"log/slog"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/display"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/navigator"
	"github.com/ayusman/mudra/internal/render"
	"github.com/ayusman/mudra/internal/store"
)

// Slides is the read-only deck a session navigates.
type Slides interface {
	Len() int
	// Slide returns a copy of the i-th image owned by the caller.
	Slide(i int) (gocv.Mat, error)
}

// Config holds the collaborators and tunables of a session.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	Slides   Slides
	Sink     display.Sink

	// Observers are told about every slide change.
	Observers []navigator.Observer

	// Store and DeckID, when set, record a session summary.
	Store  *store.Store
	DeckID string
	// DeckName labels navigation events.
	DeckName string

	Gesture   gesture.Config
	Navigator navigator.Config
	Style     render.Style
	// FlipType swaps the detector's handedness labels for mirrored frames.
	FlipType bool

	Logger *slog.Logger
}

// Summary describes a finished session.
type Summary struct {
	Frames      int
	Navigations int
	LastSlide   int
}

// App is one presentation session.
type App struct {
	config     Config
	classifier *gesture.Classifier
	renderer   *render.Renderer
	logger     *slog.Logger
	summary    Summary
}

// New validates config and returns an App ready to Run.
func New(config Config) (*App, error) {
	switch {
	case config.Camera == nil:
		return nil, errors.New("app: camera is required")
	case config.Detector == nil:
		return nil, errors.New("app: detector is required")
	case config.Slides == nil:
		return nil, errors.New("app: slides are required")
	case config.Sink == nil:
		return nil, errors.New("app: sink is required")
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &App{
		config:     config,
		classifier: gesture.NewClassifier(config.Gesture),
		renderer:   render.New(config.Style),
		logger:     logger,
	}, nil
}

// Summary returns the counters of the last Run.
func (a *App) Summary() Summary {
	return a.summary
}
