package internal

import (
	"io"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/display"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config

	deckRef  string
	deckDir  string
	deckName string

	camera    capture.Camera
	detector  detector.Detector
	sink      display.Sink
	logOutput io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithDeck selects a stored deck by ID or name.
func WithDeck(ref string) Option {
	return func(a *application) {
		a.deckRef = ref
	}
}

// WithDir selects a slide directory. It is imported on first use.
func WithDir(dir string) Option {
	return func(a *application) {
		a.deckDir = dir
	}
}

// WithName names a deck imported from the directory given by WithDir.
func WithName(name string) Option {
	return func(a *application) {
		a.deckName = name
	}
}

// WithCamera replaces the configured capture device.
func WithCamera(c capture.Camera) Option {
	return func(a *application) {
		a.camera = c
	}
}

// WithDetector replaces the MediaPipe hand detector.
func WithDetector(d detector.Detector) Option {
	return func(a *application) {
		a.detector = d
	}
}

// WithSink replaces the presenter windows.
func WithSink(s display.Sink) Option {
	return func(a *application) {
		a.sink = s
	}
}

// WithLogOutput sends the JSON log to w instead of stdout.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOutput = w
	}
}
