package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/myboulders/api/internal/auth"
	"github.com/myboulders/api/internal/service"
)

// AchievementHandler covers the append-only achievement log.
//
//	GET  /api/achievements/user/{id} → achievements of any user
//	POST /api/achievements/add       → record one for the acting user
type AchievementHandler struct {
	achievements *service.AchievementService
	logger       *slog.Logger
}

func NewAchievementHandler(achievements *service.AchievementService, logger *slog.Logger) *AchievementHandler {
	return &AchievementHandler{achievements: achievements, logger: logger}
}

func (h *AchievementHandler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	achievements, err := h.achievements.ListByUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, achievements)
}

// HandleAdd records an achievement for the acting user.
//
// Body: {"achievement_name", "date"?} — date is YYYY-MM-DD, default now.
func (h *AchievementHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req struct {
		AchievementName string `json:"achievement_name"`
		Date            string `json:"date"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	achievement, err := h.achievements.Add(r.Context(), principal.ID, req.AchievementName, req.Date)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, achievement)
}
