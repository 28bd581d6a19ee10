package detector

import (
	"errors"
	"image"
	"testing"
)

func TestObserve(t *testing.T) {
	t.Run("no hands returns nil", func(t *testing.T) {
		if obs := Observe(nil, 880, 420, true); obs != nil {
			t.Errorf("expected nil observation, got %+v", obs)
		}
	})

	t.Run("scales landmarks to pixels", func(t *testing.T) {
		hand := HandLandmarks{Handedness: HandRight, Score: 0.9}
		for i := range hand.Points {
			hand.Points[i] = Point3D{X: 0.5, Y: 0.5}
		}
		hand.Points[Wrist] = Point3D{X: 0.25, Y: 0.75}

		obs := Observe([]HandLandmarks{hand}, 800, 400, false)
		if obs == nil {
			t.Fatal("expected observation")
		}

		if got := obs.Landmarks[Wrist]; got != image.Pt(200, 300) {
			t.Errorf("wrist = %v, want (200,300)", got)
		}
		if got := obs.Landmarks[IndexTip]; got != image.Pt(400, 200) {
			t.Errorf("index tip = %v, want (400,200)", got)
		}
		if obs.Score != 0.9 {
			t.Errorf("score = %f, want 0.9", obs.Score)
		}
	})

	t.Run("center is the bounding box center", func(t *testing.T) {
		hand := HandLandmarks{}
		for i := range hand.Points {
			hand.Points[i] = Point3D{X: 0.5, Y: 0.5}
		}
		hand.Points[Wrist] = Point3D{X: 0.1, Y: 0.9}
		hand.Points[MiddleTip] = Point3D{X: 0.3, Y: 0.1}

		obs := Observe([]HandLandmarks{hand}, 1000, 1000, false)

		if obs.Box != image.Rect(100, 100, 500, 900) {
			t.Errorf("box = %v, want (100,100)-(500,900)", obs.Box)
		}
		if obs.Center != image.Pt(300, 500) {
			t.Errorf("center = %v, want (300,500)", obs.Center)
		}
	})

	t.Run("flip swaps handedness", func(t *testing.T) {
		hand := OpenPalmLandmarks(0.5, 0.5)

		flipped := Observe([]HandLandmarks{hand}, 880, 420, true)
		if flipped.Handedness != HandRight {
			t.Errorf("flipped handedness = %s, want %s", flipped.Handedness, HandRight)
		}

		raw := Observe([]HandLandmarks{hand}, 880, 420, false)
		if raw.Handedness != HandLeft {
			t.Errorf("raw handedness = %s, want %s", raw.Handedness, HandLeft)
		}
	})

	t.Run("only first hand is used", func(t *testing.T) {
		first := OpenPalmLandmarks(0.3, 0.5)
		second := FistLandmarks(0.7, 0.5)

		obs := Observe([]HandLandmarks{first, second}, 880, 420, true)
		if !obs.Fingers.AllExtended() {
			t.Errorf("fingers = %s, want the open first hand", obs.Fingers)
		}
	})
}

func TestFingersUp(t *testing.T) {
	tests := []struct {
		name    string
		fingers Fingers
	}{
		{"open palm", Fingers{true, true, true, true, true}},
		{"pointing", Pointing},
		{"fist", Fingers{}},
		{"peace", Fingers{false, true, true, false, false}},
		{"thumb only", Fingers{true, false, false, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hand := HandPose(0.5, 0.5, tt.fingers)
			obs := Observe([]HandLandmarks{hand}, 880, 420, true)

			if obs.Fingers != tt.fingers {
				t.Errorf("fingers = %s, want %s", obs.Fingers, tt.fingers)
			}
		})
	}

	t.Run("thumb rule depends on handedness", func(t *testing.T) {
		var points [NumLandmarks]image.Point
		points[ThumbIP] = image.Pt(100, 100)
		points[ThumbTip] = image.Pt(120, 100)

		if !FingersUp(points, HandRight)[Thumb] {
			t.Error("right thumb tip outside the IP joint should be up")
		}
		if FingersUp(points, HandLeft)[Thumb] {
			t.Error("left thumb tip on that side should be down")
		}
	})
}

func TestFingers(t *testing.T) {
	if !(Fingers{true, true, true, true, true}).AllExtended() {
		t.Error("all true should be AllExtended")
	}
	if Pointing.AllExtended() {
		t.Error("pointing should not be AllExtended")
	}
	if got := Pointing.String(); got != "01000" {
		t.Errorf("String() = %q, want 01000", got)
	}
}

func TestPointingLandmarks_TipPosition(t *testing.T) {
	hand := PointingLandmarks(0.75, 0.5)
	obs := Observe([]HandLandmarks{hand}, 1000, 1000, true)

	tip := obs.Tip(Index)
	if tip.X < 749 || tip.X > 750 || tip.Y < 499 || tip.Y > 500 {
		t.Errorf("index tip = %v, want about (750,500)", tip)
	}
}

func TestTranslate(t *testing.T) {
	hand := OpenPalmLandmarks(0.4, 0.5)
	moved := hand.Translate(0.1, 0)

	if moved.Points[Wrist].X-hand.Points[Wrist].X < 0.099 {
		t.Errorf("wrist moved by %f, want 0.1", moved.Points[Wrist].X-hand.Points[Wrist].X)
	}
	if hand.Points[Wrist].X != 0.4 {
		t.Error("Translate must not modify the receiver")
	}
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("plays script then fixed hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{FistLandmarks(0.5, 0.5)})
		mock.SetScript([][]HandLandmarks{
			{OpenPalmLandmarks(0.5, 0.5)},
			nil,
		})

		first, _ := mock.Detect(nil)
		second, _ := mock.Detect(nil)
		third, _ := mock.Detect(nil)

		if len(first) != 1 || len(second) != 0 || len(third) != 1 {
			t.Errorf("got %d, %d, %d hands; want 1, 0, 1", len(first), len(second), len(third))
		}
		if mock.Calls() != 3 {
			t.Errorf("Calls() = %d, want 3", mock.Calls())
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestDecodeResponse(t *testing.T) {
	t.Run("hands", func(t *testing.T) {
		line := []byte(`{"hands":[{"handedness":"Left","score":0.9,"points":[{"x":0.1,"y":0.2,"z":0.0}]}]}` + "\n")

		hands, err := decodeResponse(line)
		if err != nil {
			t.Fatalf("decodeResponse() error = %v", err)
		}
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}
		if hands[0].Points[Wrist].X != 0.1 || hands[0].Handedness != HandLeft {
			t.Errorf("unexpected hand %+v", hands[0])
		}
	})

	t.Run("service error", func(t *testing.T) {
		if _, err := decodeResponse([]byte(`{"error":"model missing"}`)); err == nil {
			t.Error("expected error from service error field")
		}
	})

	t.Run("bad json", func(t *testing.T) {
		if _, err := decodeResponse([]byte(`not json`)); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestNewMediaPipeDetector_MissingScript(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Script = "/nonexistent/mediapipe_service.py"

	_, err := NewMediaPipeDetector(cfg, nil)
	if !errors.Is(err, ErrScriptNotFound) {
		t.Errorf("error = %v, want %v", err, ErrScriptNotFound)
	}
}
