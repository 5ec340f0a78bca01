package handler

import (
	"log/slog"
	"net/http"

	"github.com/myboulders/api/internal/service"
)

// LeaderboardHandler serves the completed-routes ranking.
//
//	GET /api/leaderboard/ → [{"username", "completed_routes_count"}, ...]
type LeaderboardHandler struct {
	leaderboard *service.LeaderboardService
	logger      *slog.Logger
}

func NewLeaderboardHandler(leaderboard *service.LeaderboardService, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard, logger: logger}
}

func (h *LeaderboardHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.leaderboard.Leaderboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rows)
}
