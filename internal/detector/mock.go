package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It returns scripted results frame by frame, then the fixed hands.
type MockDetector struct {
	mu     sync.Mutex
	hands  []HandLandmarks
	script [][]HandLandmarks
	err    error
	calls  int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands returned once the script is exhausted.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetScript queues one result per Detect call. A nil entry means no hand.
func (m *MockDetector) SetScript(frames [][]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = frames
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect ran.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the next scripted result, the fixed hands, or the configured error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.script) > 0 {
		next := m.script[0]
		m.script = m.script[1:]
		return next, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// finger column offsets from the hand center, index to pinky.
var fingerOffsets = [4]float64{0.04, 0.0, -0.04, -0.08}

// HandPose builds landmarks centred near (cx, cy) in normalized coordinates
// whose finger-extension vector is fingers once observed through a mirrored
// frame. MediaPipe labels such a hand "Left"; Observe with flip turns it into
// a right hand.
func HandPose(cx, cy float64, fingers Fingers) HandLandmarks {
	hand := HandLandmarks{
		Handedness: HandLeft,
		Score:      0.95,
	}

	hand.Points[Wrist] = Point3D{X: cx, Y: cy + 0.15}

	hand.Points[ThumbCMC] = Point3D{X: cx + 0.06, Y: cy + 0.12}
	hand.Points[ThumbMCP] = Point3D{X: cx + 0.08, Y: cy + 0.09}
	hand.Points[ThumbIP] = Point3D{X: cx + 0.10, Y: cy + 0.06}
	if fingers[Thumb] {
		hand.Points[ThumbTip] = Point3D{X: cx + 0.14, Y: cy + 0.03}
	} else {
		hand.Points[ThumbTip] = Point3D{X: cx + 0.06, Y: cy + 0.06}
	}

	for f := Index; f <= Pinky; f++ {
		x := cx + fingerOffsets[f-1]
		tip := tipIDs[f]
		hand.Points[tip-3] = Point3D{X: x, Y: cy + 0.05} // MCP
		hand.Points[tip-2] = Point3D{X: x, Y: cy}        // PIP
		if fingers[f] {
			hand.Points[tip-1] = Point3D{X: x, Y: cy - 0.06}
			hand.Points[tip] = Point3D{X: x, Y: cy - 0.12}
		} else {
			hand.Points[tip-1] = Point3D{X: x, Y: cy + 0.02}
			hand.Points[tip] = Point3D{X: x, Y: cy + 0.03}
		}
	}

	return hand
}

// OpenPalmLandmarks returns an open hand centred near (cx, cy).
func OpenPalmLandmarks(cx, cy float64) HandLandmarks {
	return HandPose(cx, cy, Fingers{true, true, true, true, true})
}

// PointingLandmarks returns an index-only hand with the fingertip at (tipX, tipY).
func PointingLandmarks(tipX, tipY float64) HandLandmarks {
	return HandPose(tipX-fingerOffsets[0], tipY+0.12, Pointing)
}

// FistLandmarks returns a closed hand centred near (cx, cy).
func FistLandmarks(cx, cy float64) HandLandmarks {
	return HandPose(cx, cy, Fingers{})
}
