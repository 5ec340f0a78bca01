package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/myboulders/api/internal/apperror"
	"github.com/myboulders/api/internal/auth"
	"github.com/myboulders/api/internal/service"
)

// GoalHandler covers climbing goals.
//
//	GET    /api/goals/              → list own goals
//	POST   /api/goals/              → create
//	PUT    /api/goals/{id}          → partial update
//	POST   /api/goals/{id}/complete → toggle completion
//	DELETE /api/goals/{id}          → remove
type GoalHandler struct {
	goals  *service.GoalService
	logger *slog.Logger
}

func NewGoalHandler(goals *service.GoalService, logger *slog.Logger) *GoalHandler {
	return &GoalHandler{goals: goals, logger: logger}
}

func (h *GoalHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	goals, err := h.goals.List(r.Context(), principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

// HandleCreate adds a goal.
//
// Body: {"title", "description"?, "target_date"?} — target_date is YYYY-MM-DD.
func (h *GoalHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		TargetDate  string `json:"target_date"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	goal, err := h.goals.Create(r.Context(), principal.ID, req.Title, req.Description, req.TargetDate)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		TargetDate  *string `json:"target_date"`
		Completed   *bool   `json:"completed"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	goal, err := h.goals.Update(r.Context(), principal.ID, chi.URLParam(r, "id"), service.UpdateGoalInput{
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  req.TargetDate,
		Completed:   req.Completed,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

// HandleComplete marks a goal complete (or reopens it). The "completed" field
// is required so a missing body can't silently complete a goal.
//
// Body: {"completed": true|false}
func (h *GoalHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req struct {
		Completed *bool `json:"completed"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Completed == nil {
		writeError(w, apperror.ValidationFailed("completed", "completed is required"))
		return
	}

	goal, err := h.goals.SetCompleted(r.Context(), principal.ID, chi.URLParam(r, "id"), *req.Completed)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	if err := h.goals.Delete(r.Context(), principal.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "goal deleted"})
}
