package display

import (
	"gocv.io/x/gocv"
)

// Window titles.
const (
	SlidesTitle = "Slides"
	CameraTitle = "Camera"
)

// QuitKey is the key that ends a session.
const QuitKey = 'q'

// Window shows the composite and the camera view in two highgui windows.
// It must be used from the goroutine that owns the UI event loop.
type Window struct {
	slides *gocv.Window
	camera *gocv.Window
}

// NewWindow opens both windows.
func NewWindow() *Window {
	return &Window{
		slides: gocv.NewWindow(SlidesTitle),
		camera: gocv.NewWindow(CameraTitle),
	}
}

// Present draws both images and pumps UI events for one millisecond.
func (w *Window) Present(slide, camera gocv.Mat) (bool, error) {
	if !slide.Empty() {
		w.slides.IMShow(slide)
	}
	if !camera.Empty() {
		w.camera.IMShow(camera)
	}
	key := w.slides.WaitKey(1)
	return key == QuitKey, nil
}

// Close destroys both windows.
func (w *Window) Close() error {
	w.slides.Close()
	w.camera.Close()
	return nil
}
