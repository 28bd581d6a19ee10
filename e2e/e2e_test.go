package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/deck"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/display"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/navigator"
	"github.com/ayusman/mudra/internal/render"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	slideDir := filepath.Join(tmpDir, "slides")
	if err := os.MkdirAll(slideDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// Written in reverse so the scan cannot rely on directory order.
	for i := 3; i >= 1; i-- {
		m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, float64(60*i), 0, 0), 420, 880, gocv.MatTypeCV8UC3)
		ok := gocv.IMWrite(filepath.Join(slideDir, fmt.Sprintf("Slide%d.png", i)), m)
		m.Close()
		if !ok {
			t.Fatalf("write slide %d", i)
		}
	}

	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	meta, err := deck.Import(s, "lecture", slideDir)
	if err != nil {
		t.Fatalf("deck.Import() error = %v", err)
	}
	_, slides, err := deck.Load(s, meta.Name, deck.DefaultCacheSize)
	if err != nil {
		t.Fatalf("deck.Load() error = %v", err)
	}
	defer slides.Close()

	hub := server.NewHub(logger)
	ts := httptest.NewServer(server.New(server.Config{Store: s, Hub: hub, Logger: logger}))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial events: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("websocket client never subscribed")
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Run("PresentWithSwipes", func(t *testing.T) {
		frame := gocv.NewMatWithSize(420, 880, gocv.MatTypeCV8UC3)
		defer frame.Close()

		det := detector.NewMockDetector()
		det.SetScript([][]detector.HandLandmarks{
			{detector.OpenPalmLandmarks(0.2, 0.5)},
			{detector.OpenPalmLandmarks(0.4, 0.5)}, // next
			nil, nil, nil,
			{detector.PointingLandmarks(0.8, 0.5)},
			{detector.PointingLandmarks(0.85, 0.55)},
		})

		recorder := display.NewRecorder(8, false)
		session, err := app.New(app.Config{
			Camera:    capture.NewMockCamera([]*gocv.Mat{&frame}, true),
			Detector:  det,
			Slides:    slides,
			Sink:      display.Tee{recorder, hub},
			Observers: []navigator.Observer{hub},
			Store:     s,
			DeckID:    meta.ID,
			DeckName:  meta.Name,
			Gesture: gesture.Config{
				MovementThreshold: gesture.DefaultMovementThreshold,
				Width:             880,
				Height:            420,
				PointMarginY:      gesture.DefaultPointMarginY,
			},
			Navigator: navigator.Config{CooldownFrames: 2},
			Style:     render.DefaultStyle(),
			FlipType:  true,
			Logger:    logger,
		})
		if err != nil {
			t.Fatalf("app.New() error = %v", err)
		}

		if err := session.Run(context.Background()); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if got := session.Summary(); got.Navigations != 1 || got.LastSlide != 1 {
			t.Errorf("summary = %+v, want one navigation ending on slide 1", got)
		}
		if recorder.Presented() != 8 {
			t.Errorf("presented %d frames, want 8", recorder.Presented())
		}
	})

	t.Run("AudienceReceivesNavigation", func(t *testing.T) {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read event: %v", err)
		}

		var ev server.Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if ev.Type != "navigate" || ev.From != 0 || ev.To != 1 || ev.Total != 3 || ev.Deck != "lecture" {
			t.Errorf("event = %+v", ev)
		}
	})

	t.Run("StateReportsLastSlide", func(t *testing.T) {
		var ev server.Event
		getJSON(t, ts.URL+"/api/state", &ev)
		if ev.Slide != 1 {
			t.Errorf("state slide = %d, want 1", ev.Slide)
		}
	})

	t.Run("LatestFrameAvailable", func(t *testing.T) {
		frame, seq, _ := hub.Frame()
		if len(frame) == 0 || seq != 8 {
			t.Errorf("frame len %d seq %d, want a JPEG after 8 frames", len(frame), seq)
		}
	})

	t.Run("SessionListed", func(t *testing.T) {
		var body struct {
			Sessions []store.Session `json:"sessions"`
		}
		getJSON(t, ts.URL+"/api/decks/"+meta.ID+"/sessions", &body)
		if len(body.Sessions) != 1 {
			t.Fatalf("sessions = %d, want 1", len(body.Sessions))
		}
		got := body.Sessions[0]
		if got.Navigations != 1 || got.LastSlide != 1 || got.EndedAt == nil {
			t.Errorf("session = %+v", got)
		}
	})

	t.Run("SlidesInSequenceOrder", func(t *testing.T) {
		var body struct {
			Slides []store.SlideRef `json:"slides"`
		}
		getJSON(t, ts.URL+"/api/decks/"+meta.ID, &body)
		if len(body.Slides) != 3 {
			t.Fatalf("slides = %d, want 3", len(body.Slides))
		}
		for i, ref := range body.Slides {
			if ref.Seq != i+1 || ref.Position != i {
				t.Errorf("slide %d = %+v", i, ref)
			}
		}
	})
}

func getJSON(t *testing.T, url string, v any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s status = %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}
