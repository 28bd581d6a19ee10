package display

import (
	"sync"

	"gocv.io/x/gocv"
)

// Recorder keeps a copy of every presented frame. It is used by tests and
// headless runs.
type Recorder struct {
	mu        sync.Mutex
	frames    []gocv.Mat
	presented int
	quitAfter int
	keep      bool
	err       error
	closed    bool
}

// NewRecorder returns a Recorder that asks to quit after quitAfter frames.
// A non-positive quitAfter never quits. When keep is false only the frame
// count is recorded.
func NewRecorder(quitAfter int, keep bool) *Recorder {
	return &Recorder{quitAfter: quitAfter, keep: keep}
}

// SetError makes every following Present fail with err.
func (r *Recorder) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Present records the composite.
func (r *Recorder) Present(slide, _ gocv.Mat) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return false, r.err
	}

	r.presented++
	if r.keep {
		r.frames = append(r.frames, slide.Clone())
	}
	return r.quitAfter > 0 && r.presented >= r.quitAfter, nil
}

// Presented returns how many frames were presented.
func (r *Recorder) Presented() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.presented
}

// Frame returns the i-th recorded composite. The Mat stays owned by the Recorder.
func (r *Recorder) Frame(i int) gocv.Mat {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames[i]
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Close releases the recorded frames.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.frames {
		r.frames[i].Close()
	}
	r.frames = nil
	r.closed = true
	return nil
}
