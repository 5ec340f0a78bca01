package handler

import (
	"log/slog"
	"net/http"

	"github.com/myboulders/api/internal/auth"
	"github.com/myboulders/api/internal/service"
)

// AuthHandler covers the session lifecycle:
//
//	POST /api/auth/register → create the account
//	POST /api/auth/login    → verify credentials, set the token cookie
//	POST /api/auth/logout   → clear the cookie
//	GET  /api/auth/me       → current user (auth required)
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, logger: logger}
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/auth/register
// Body: {"username", "password", "email", "profile_image_url"?, "birthdate"?}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username        string `json:"username"`
		Password        string `json:"password"`
		Email           string `json:"email"`
		ProfileImageURL string `json:"profile_image_url"`
		Birthdate       string `json:"birthdate"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username:        req.Username,
		Password:        req.Password,
		Email:           req.Email,
		ProfileImageURL: req.ProfileImageURL,
		Birthdate:       req.Birthdate,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleLogin verifies credentials and sets the session cookie.
//
// HTTP: POST /api/auth/login
// Body: {"username", "password"}
//
// The token is delivered as an HttpOnly cookie so browser scripts can't read
// it; the cookie's MaxAge matches the token lifetime so both expire together.
// Clients that prefer headers can use the token from the response body as
// "Authorization: Bearer".
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(auth.TokenLifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		// Secure: true, // requires HTTPS
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"user":  result.User,
		"token": result.Token,
	})
}

// HandleLogout clears the session cookie. The token itself stays valid until
// expiry — sessions are stateless — but the browser no longer sends it.
//
// HTTP: POST /api/auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the authenticated user's own record.
//
// HTTP: GET /api/auth/me
// Auth: required
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		// Unreachable on a RequireAuth-protected route.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	user, err := h.auth.GetUserByID(r.Context(), principal.ID)
	if err != nil {
		h.logger.Error("me: looking up principal", slog.String("userID", principal.ID))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
