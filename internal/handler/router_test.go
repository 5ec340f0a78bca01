package handler_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/myboulders/api/internal/auth"
	"github.com/myboulders/api/internal/handler"
	"github.com/myboulders/api/internal/imgur"
	sqliteRepo "github.com/myboulders/api/internal/repository/sqlite"
	"github.com/myboulders/api/internal/service"
)

// newTestRouter wires the full API against an in-memory database, the same
// route table the server builds. Image uploads use an anonymous client that
// is never allowed to reach the network in these tests (only validation
// failures are exercised here).
func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	db, err := sqliteRepo.New(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("handler-test-secret-0123")
	if err != nil {
		t.Fatalf("creating token service: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(4)
	imgurClient := imgur.NewClient("test-client-id", logger)

	authHandler := handler.NewAuthHandler(service.NewAuthService(db, tokens, passwords, logger), logger)
	userHandler := handler.NewUserHandler(service.NewUserService(db, logger), logger)
	journalHandler := handler.NewJournalHandler(service.NewJournalService(db, logger), logger)
	goalHandler := handler.NewGoalHandler(service.NewGoalService(db, logger), logger)
	achievementHandler := handler.NewAchievementHandler(service.NewAchievementService(db, logger), logger)
	leaderboardHandler := handler.NewLeaderboardHandler(service.NewLeaderboardService(db, logger), logger)
	imageHandler := handler.NewImageHandler(service.NewImageService(imgurClient, db, db, logger), logger)

	requireAuth := auth.RequireAuth(tokens)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/logout", authHandler.HandleLogout)
			r.With(requireAuth).Get("/me", authHandler.HandleMe)
		})
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/users/search", userHandler.HandleSearch)
			r.Delete("/users/delete", userHandler.HandleDelete)
			r.Route("/journal", func(r chi.Router) {
				r.Get("/", journalHandler.HandleList)
				r.Post("/", journalHandler.HandleCreate)
				r.Get("/edit/{id}", journalHandler.HandleGet)
				r.Put("/edit/{id}", journalHandler.HandleUpdate)
				r.Delete("/edit/{id}", journalHandler.HandleDelete)
			})
			r.Route("/goals", func(r chi.Router) {
				r.Get("/", goalHandler.HandleList)
				r.Post("/", goalHandler.HandleCreate)
				r.Put("/{id}", goalHandler.HandleUpdate)
				r.Post("/{id}/complete", goalHandler.HandleComplete)
				r.Delete("/{id}", goalHandler.HandleDelete)
			})
			r.Route("/achievements", func(r chi.Router) {
				r.Get("/user/{id}", achievementHandler.HandleListByUser)
				r.Post("/add", achievementHandler.HandleAdd)
			})
			r.Get("/leaderboard/", leaderboardHandler.HandleLeaderboard)
			r.Route("/images", func(r chi.Router) {
				r.Post("/upload", imageHandler.HandleUpload)
				r.Delete("/delete", imageHandler.HandleDelete)
			})
		})
	})
	return router
}

// doJSON sends a JSON request through the router. The token, when non-empty,
// rides in the session cookie exactly as a browser would send it.
func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// newBearerRequest builds a request that authenticates via the
// Authorization header instead of the cookie.
func newBearerRequest(t *testing.T, method, path, token string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req, httptest.NewRecorder()
}

// registerAndLogin creates an account and returns its session token.
func registerAndLogin(t *testing.T, router http.Handler, username string) string {
	t.Helper()

	rr := doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"password": "secret-password",
		"email":    username + "@example.com",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: status = %d, body = %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": "secret-password",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("login response has no token: %s", rr.Body.String())
	}
	return resp.Token
}
