package server

import (
	"encoding/json"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/display"
	"github.com/ayusman/mudra/internal/navigator"
)

func TestHub_Present(t *testing.T) {
	hub := NewHub(discardLogger)

	frame, seq, updated := hub.Frame()
	if frame != nil || seq != 0 {
		t.Fatalf("expected empty hub, got %d bytes seq %d", len(frame), seq)
	}

	slide := gocv.NewMatWithSize(40, 60, gocv.MatTypeCV8UC3)
	defer slide.Close()
	camera := gocv.NewMat()
	defer camera.Close()

	quit, err := hub.Present(slide, camera)
	if quit || err != nil {
		t.Fatalf("Present() = %v, %v; want false, nil", quit, err)
	}

	select {
	case <-updated:
	default:
		t.Fatal("update channel should close after Present")
	}

	frame, seq, _ = hub.Frame()
	if seq != 1 {
		t.Errorf("seq = %d, want 1", seq)
	}
	if len(frame) < 4 || frame[0] != 0xFF || frame[1] != 0xD8 {
		t.Errorf("frame is not a JPEG: % x", frame[:min(4, len(frame))])
	}

	decoded, err := gocv.IMDecode(frame, gocv.IMReadColor)
	if err != nil {
		t.Fatalf("IMDecode() error = %v", err)
	}
	defer decoded.Close()
	if decoded.Cols() != 60 || decoded.Rows() != 40 {
		t.Errorf("decoded size = %dx%d, want 60x40", decoded.Cols(), decoded.Rows())
	}
}

func TestHub_PresentEmpty(t *testing.T) {
	hub := NewHub(discardLogger)
	empty := gocv.NewMat()
	defer empty.Close()

	if _, err := hub.Present(empty, empty); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if _, seq, _ := hub.Frame(); seq != 0 {
		t.Errorf("empty composite should not be published, seq = %d", seq)
	}
}

func TestHub_Navigated(t *testing.T) {
	hub := NewHub(discardLogger)

	ch := hub.subscribe()
	if hub.Clients() != 1 {
		t.Fatalf("Clients() = %d, want 1", hub.Clients())
	}

	hub.Navigated(navigator.Navigation{Deck: "talk", From: 2, To: 3, Total: 5})

	select {
	case msg := <-ch:
		var ev map[string]any
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("invalid event JSON: %v", err)
		}
		if ev["type"] != "navigate" || ev["from"] != float64(2) || ev["to"] != float64(3) ||
			ev["slide"] != float64(3) || ev["total"] != float64(5) {
			t.Errorf("unexpected event %v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}

	last, ok := hub.Last()
	if !ok || last.To != 3 {
		t.Errorf("Last() = %+v, %v", last, ok)
	}

	hub.unsubscribe(ch)
	if hub.Clients() != 0 {
		t.Errorf("Clients() = %d after unsubscribe, want 0", hub.Clients())
	}
}

func TestHub_SlowClientDoesNotBlock(t *testing.T) {
	hub := NewHub(discardLogger)
	hub.subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < clientBuffer*4; i++ {
			hub.Navigated(navigator.Navigation{From: i, To: i + 1, Total: 1000})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Navigated blocked on a slow client")
	}
}

func TestHub_Close(t *testing.T) {
	hub := NewHub(discardLogger)
	ch := hub.subscribe()

	hub.Close()
	hub.Close()

	if _, ok := <-ch; ok {
		t.Error("client channel should be closed")
	}
	if hub.subscribe() != nil {
		t.Error("subscribe after Close should return nil")
	}
}

func TestHub_IsSinkAndObserver(t *testing.T) {
	var _ display.Sink = (*Hub)(nil)
	var _ navigator.Observer = (*Hub)(nil)
}
