package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/myboulders/api/internal/auth"
	"github.com/myboulders/api/internal/service"
)

// JournalHandler covers the journal of completed routes. All routes require
// authentication; the service layer enforces that entries can only be read
// and mutated by their owner.
//
//	GET    /api/journal/          → list own entries
//	POST   /api/journal/          → log a completed route
//	GET    /api/journal/edit/{id} → one entry
//	PUT    /api/journal/edit/{id} → partial update
//	DELETE /api/journal/edit/{id} → remove entry
type JournalHandler struct {
	journal *service.JournalService
	logger  *slog.Logger
}

func NewJournalHandler(journal *service.JournalService, logger *slog.Logger) *JournalHandler {
	return &JournalHandler{journal: journal, logger: logger}
}

func (h *JournalHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	entries, err := h.journal.List(r.Context(), principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// HandleCreate logs a completed route.
//
// Body: {"route_type", "difficulty", "date"?, "flash"?, "image_url"?}
// The date is ISO 8601; omitted means "now".
func (h *JournalHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req struct {
		RouteType  string `json:"route_type"`
		Difficulty string `json:"difficulty"`
		Date       string `json:"date"`
		Flash      bool   `json:"flash"`
		ImageURL   string `json:"image_url"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.journal.Create(r.Context(), principal.ID, service.CreateEntryInput{
		RouteType:  req.RouteType,
		Difficulty: req.Difficulty,
		Date:       req.Date,
		Flash:      req.Flash,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *JournalHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	entry, err := h.journal.Get(r.Context(), principal.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// HandleUpdate applies a partial update. Absent JSON fields stay unchanged,
// which is why the request struct uses pointers.
func (h *JournalHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req struct {
		RouteType  *string `json:"route_type"`
		Difficulty *string `json:"difficulty"`
		Date       *string `json:"date"`
		Flash      *bool   `json:"flash"`
		ImageURL   *string `json:"image_url"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.journal.Update(r.Context(), principal.ID, chi.URLParam(r, "id"), service.UpdateEntryInput{
		RouteType:  req.RouteType,
		Difficulty: req.Difficulty,
		Date:       req.Date,
		Flash:      req.Flash,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *JournalHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	if err := h.journal.Delete(r.Context(), principal.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "entry deleted"})
}
