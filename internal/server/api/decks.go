package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ayusman/mudra/internal/deck"
	"github.com/ayusman/mudra/internal/store"
)

// DeckHandler serves deck manifests stored in the database.
type DeckHandler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewDeckHandler creates a new DeckHandler with the given store.
func NewDeckHandler(s *store.Store, logger *slog.Logger) *DeckHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckHandler{store: s, logger: logger}
}

// Routes mounts the deck endpoints on r.
func (h *DeckHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/sessions", h.sessions)
	r.Get("/{id}/slides/{position}", h.slide)
}

type createDeckRequest struct {
	Name string `json:"name"`
	Dir  string `json:"dir"`
}

type deckResponse struct {
	*store.Deck
	Slides []store.SlideRef `json:"slides,omitempty"`
}

type listDecksResponse struct {
	Decks []*store.Deck `json:"decks"`
}

type listSessionsResponse struct {
	Sessions []*store.Session `json:"sessions"`
}

// list handles GET /api/decks.
func (h *DeckHandler) list(w http.ResponseWriter, r *http.Request) {
	decks, err := h.store.Decks().List()
	if err != nil {
		h.logger.Error("list decks failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Failed to list decks")
		return
	}
	if decks == nil {
		decks = []*store.Deck{}
	}
	writeJSON(w, http.StatusOK, listDecksResponse{Decks: decks})
}

// create handles POST /api/decks and imports a slide directory.
func (h *DeckHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" || req.Dir == "" {
		writeError(w, http.StatusBadRequest, "Name and dir are required")
		return
	}

	d, err := deck.Import(h.store, req.Name, req.Dir)
	if err != nil {
		if errors.Is(err, deck.ErrEmptyDeck) || errors.Is(err, deck.ErrNoSequence) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.logger.Error("import deck failed", slog.String("name", req.Name), slog.Any("error", err))
		writeError(w, http.StatusBadRequest, "Failed to import deck")
		return
	}

	writeJSON(w, http.StatusCreated, d)
}

// get handles GET /api/decks/{id}.
func (h *DeckHandler) get(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookup(w, r)
	if !ok {
		return
	}

	slides, err := h.store.Decks().Slides(d.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load slides")
		return
	}

	writeJSON(w, http.StatusOK, deckResponse{Deck: d, Slides: slides})
}

// delete handles DELETE /api/decks/{id}.
func (h *DeckHandler) delete(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := h.store.Decks().Delete(d.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete deck")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// sessions handles GET /api/decks/{id}/sessions.
func (h *DeckHandler) sessions(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookup(w, r)
	if !ok {
		return
	}

	sessions, err := h.store.Sessions().ListByDeck(d.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []*store.Session{}
	}

	writeJSON(w, http.StatusOK, listSessionsResponse{Sessions: sessions})
}

// slide handles GET /api/decks/{id}/slides/{position} and serves the image file.
func (h *DeckHandler) slide(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookup(w, r)
	if !ok {
		return
	}

	pos, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil || pos < 0 || pos >= d.SlideCount {
		writeError(w, http.StatusNotFound, "Slide not found")
		return
	}

	slides, err := h.store.Decks().Slides(d.ID)
	if err != nil || pos >= len(slides) {
		writeError(w, http.StatusNotFound, "Slide not found")
		return
	}

	http.ServeFile(w, r, slides[pos].Path)
}

// lookup resolves the {id} parameter as a deck ID or name.
func (h *DeckHandler) lookup(w http.ResponseWriter, r *http.Request) (*store.Deck, bool) {
	d, err := h.store.Decks().Resolve(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Deck not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "Failed to get deck")
		return nil, false
	}
	return d, true
}
