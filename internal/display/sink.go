// Package display presents composed frames and reports operator quit requests.
package display

import (
	"errors"

	"gocv.io/x/gocv"
)

// Sink receives the composite slide view and the camera view once per frame.
// Present blocks for at most one UI tick and reports whether the operator
// asked to quit. Implementations must not retain the Mats after returning.
type Sink interface {
	Present(slide, camera gocv.Mat) (quit bool, err error)
	Close() error
}

// Tee presents every frame to each sink in order.
type Tee []Sink

// Present forwards to every sink. It quits when any sink asks to and returns
// the first error after all sinks ran.
func (t Tee) Present(slide, camera gocv.Mat) (bool, error) {
	var (
		quit bool
		errs []error
	)
	for _, s := range t {
		q, err := s.Present(slide, camera)
		if err != nil {
			errs = append(errs, err)
		}
		quit = quit || q
	}
	return quit, errors.Join(errs...)
}

// Close closes every sink.
func (t Tee) Close() error {
	var errs []error
	for _, s := range t {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
