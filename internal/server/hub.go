package server

import (
	"encoding/json"
	"log/slog"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/navigator"
)

// clientBuffer is the number of pending event messages per WebSocket client.
const clientBuffer = 16

// Event is the message broadcast to WebSocket clients.
type Event struct {
	Type string `json:"type"`
	navigator.Navigation
	Slide int `json:"slide"`
}

// Hub shares the session with the audience view. It is a display sink that
// keeps the latest composite as JPEG, and a navigation observer that fans
// slide changes out to WebSocket clients. Neither path blocks the frame loop.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	frame   []byte
	seq     uint64
	updated chan struct{}
	last    *navigator.Navigation

	clientsMu sync.Mutex
	clients   map[chan []byte]struct{}
	closed    bool
}

// NewHub returns an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:  logger,
		updated: make(chan struct{}),
		clients: make(map[chan []byte]struct{}),
	}
}

// Present encodes the composite and wakes stream readers. The camera view
// stays local to the presenter.
func (h *Hub) Present(slide, _ gocv.Mat) (bool, error) {
	if slide.Empty() {
		return false, nil
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, slide)
	if err != nil {
		// A lost audience frame is not worth ending the session.
		h.logger.Warn("encode stream frame", slog.Any("error", err))
		return false, nil
	}
	data := append([]byte(nil), buf.GetBytes()...)
	buf.Close()

	h.mu.Lock()
	h.frame = data
	h.seq++
	close(h.updated)
	h.updated = make(chan struct{})
	h.mu.Unlock()

	return false, nil
}

// Frame returns the latest JPEG, its sequence number and a channel closed on
// the next update.
func (h *Hub) Frame() ([]byte, uint64, <-chan struct{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.frame, h.seq, h.updated
}

// Navigated broadcasts the slide change to every WebSocket client. Slow
// clients miss messages instead of stalling the caller.
func (h *Hub) Navigated(n navigator.Navigation) {
	h.mu.Lock()
	h.last = &n
	h.mu.Unlock()

	msg, err := json.Marshal(Event{Type: "navigate", Navigation: n, Slide: n.To})
	if err != nil {
		h.logger.Error("marshal navigation event", slog.Any("error", err))
		return
	}

	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Last returns the most recent slide change, if any.
func (h *Hub) Last() (navigator.Navigation, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.last == nil {
		return navigator.Navigation{}, false
	}
	return *h.last, true
}

// subscribe registers a client channel. It returns nil once the hub is closed.
func (h *Hub) subscribe() chan []byte {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	if h.closed {
		return nil
	}
	ch := make(chan []byte, clientBuffer)
	h.clients[ch] = struct{}{}
	return ch
}

func (h *Hub) unsubscribe(ch chan []byte) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
}

// Clients returns the number of connected WebSocket clients.
func (h *Hub) Clients() int {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() error {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	for ch := range h.clients {
		delete(h.clients, ch)
		close(ch)
	}
	return nil
}
