package handler

import (
	"log/slog"
	"net/http"

	"github.com/myboulders/api/internal/service"
)

// UserHandler covers user lookup and account deletion.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// HandleSearch finds a user by username or ID. Username wins when both query
// parameters are present. The password hash never appears in the projection —
// model.User excludes it from JSON.
//
// HTTP: GET /api/users/search?username=alice | ?user_id=abc
// Auth: required
func (h *UserHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Search(r.Context(),
		r.URL.Query().Get("user_id"),
		r.URL.Query().Get("username"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleDelete removes an account and everything it owns.
//
// HTTP: DELETE /api/users/delete
// Body: {"user_id"} or {"username"}
// Auth: required
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string `json:"user_id"`
		Username string `json:"username"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.Delete(r.Context(), req.UserID, req.Username); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
