// Package capture provides mirrored camera capture using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Default camera settings. The navigator asks for a wide, short frame so the
// pointing region maps comfortably onto the slide.
const (
	DefaultWidth  = 880
	DefaultHeight = 420
)

// flipHorizontal is the OpenCV flip code for mirroring around the y axis.
const flipHorizontal = 1

var (
	// ErrDeviceUnavailable is returned when the camera cannot be opened or read.
	// It ends the session; callers do not retry.
	ErrDeviceUnavailable = errors.New("camera device unavailable")

	// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")
)

// Camera defines the interface for frame sources.
type Camera interface {
	Open() error
	Close() error
	// ReadFrame blocks until the next frame is available. The caller owns
	// the returned Mat and must close it.
	ReadFrame() (*gocv.Mat, error)
	IsOpen() bool
}

// Config describes which device to open and at which resolution.
type Config struct {
	DeviceID int
	Width    int
	Height   int
}

// DefaultConfig returns the configuration for the first camera at the default size.
func DefaultConfig() Config {
	return Config{
		DeviceID: 0,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
	}
}

// cameraImpl manages video capture from a camera device using GoCV.
type cameraImpl struct {
	config  Config
	capture *gocv.VideoCapture
	mu      sync.Mutex
	running bool
}

// NewCamera creates a new Camera for the given configuration.
// Zero width or height fall back to the defaults.
func NewCamera(config Config) Camera {
	if config.Width <= 0 {
		config.Width = DefaultWidth
	}
	if config.Height <= 0 {
		config.Height = DefaultHeight
	}
	return &cameraImpl{config: config}
}

// Open opens the camera and requests the configured resolution.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.config.DeviceID)
	if err != nil {
		return fmt.Errorf("%w: open device %d: %v", ErrDeviceUnavailable, c.config.DeviceID, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return fmt.Errorf("%w: device %d did not open", ErrDeviceUnavailable, c.config.DeviceID)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(c.config.Width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(c.config.Height))

	c.capture = capture
	c.running = true

	return nil
}

// Close closes the camera and releases the device handle.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame and mirrors it horizontally, so motion on
// screen follows the presenter's hand.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	raw := gocv.NewMat()
	defer raw.Close()

	if ok := c.capture.Read(&raw); !ok {
		return nil, fmt.Errorf("%w: failed to read frame", ErrDeviceUnavailable)
	}
	if raw.Empty() {
		return nil, fmt.Errorf("%w: captured frame is empty", ErrDeviceUnavailable)
	}

	return Mirror(raw), nil
}

// IsOpen returns true if the camera is currently open.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}

// Mirror returns a horizontally flipped copy of frame.
func Mirror(frame gocv.Mat) *gocv.Mat {
	mirrored := gocv.NewMat()
	gocv.Flip(frame, &mirrored, flipHorizontal)
	return &mirrored
}
