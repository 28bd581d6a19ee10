package app

import (
	"context"
	"fmt"
	"log/slog"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/navigator"
)

// Run executes the frame loop until the sink asks to quit, ctx is cancelled or
// the camera fails. The camera is opened once here and always released before
// Run returns. A frame, once read, is always fully processed and presented.
//
// Per iteration:
// 1. Read a mirrored frame (failure is fatal)
// 2. Detect the hand; a detector error counts as no hand. The guide line is
// drawn on the camera view after detection
// 3. Classify the observation against the swipe baseline
// 4. Apply the event to the navigation state
// 5. Compose slide, strokes and camera thumbnail, then present
func (a *App) Run(ctx context.Context) error {
	machine, err := navigator.New(a.config.Slides.Len(), a.config.Navigator, a.logger)
	if err != nil {
		return err
	}

	if err := a.config.Camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer func() {
		if err := a.config.Camera.Close(); err != nil {
			a.logger.Warn("close camera", slog.Any("error", err))
		}
	}()

	session := a.startSession()
	a.summary = Summary{}
	defer func() {
		a.summary.LastSlide = machine.Slide()
		a.finishSession(session)
	}()

	a.logger.Info("session started",
		slog.String("deck", a.config.DeckName),
		slog.Int("slides", a.config.Slides.Len()))

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("session cancelled")
			return nil
		default:
		}

		quit, err := a.step(machine)
		if err != nil {
			return err
		}
		if quit {
			a.logger.Info("session ended by operator")
			return nil
		}
	}
}

// step processes exactly one frame.
func (a *App) step(machine *navigator.Machine) (bool, error) {
	frame, err := a.config.Camera.ReadFrame()
	if err != nil {
		return false, fmt.Errorf("read frame: %w", err)
	}
	defer frame.Close()
	a.summary.Frames++

	hands, err := a.config.Detector.Detect(frame)
	if err != nil {
		a.logger.Warn("hand detection failed", slog.Any("error", err))
		hands = nil
	}

	obs := detector.Observe(hands, frame.Cols(), frame.Rows(), a.config.FlipType)
	a.renderer.Guide(frame)

	ev := a.classifier.Classify(obs, machine.Baseline())
	out := machine.Apply(ev)

	if out.Navigated {
		a.summary.Navigations++
		a.notify(navigator.NewNavigation(a.config.DeckName, out, machine.Slides()))
	}

	slide, err := a.config.Slides.Slide(machine.Slide())
	if err != nil {
		return false, fmt.Errorf("load slide %d: %w", machine.Slide(), err)
	}
	defer slide.Close()

	composite := a.renderer.Compose(slide, machine.Track(), *frame)
	defer composite.Close()

	return a.present(composite, *frame)
}

func (a *App) present(composite, camera gocv.Mat) (bool, error) {
	quit, err := a.config.Sink.Present(composite, camera)
	if err != nil {
		return false, fmt.Errorf("present frame: %w", err)
	}
	return quit, nil
}

func (a *App) notify(n navigator.Navigation) {
	for _, o := range a.config.Observers {
		o.Navigated(n)
	}
}
