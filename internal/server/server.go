// Package server wires the application together: database, services,
// handlers, middleware, and the route table. main.go stays minimal; all
// dependency construction happens here, in one place.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/myboulders/api/internal/auth"
	"github.com/myboulders/api/internal/config"
	"github.com/myboulders/api/internal/handler"
	"github.com/myboulders/api/internal/imgur"
	"github.com/myboulders/api/internal/middleware"
	sqliteRepo "github.com/myboulders/api/internal/repository/sqlite"
	"github.com/myboulders/api/internal/service"
)

// Server owns the router and the database connection; the connection is
// closed during graceful shutdown so the WAL is flushed before exit.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
//
//	sqlite.DB → services → handlers → routes
//
// Each layer receives only what it needs: services get repository
// interfaces, handlers get services, the router gets handlers.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the route table.
//
//	POST   /api/auth/register           POST   /api/goals/
//	POST   /api/auth/login              GET    /api/goals/
//	POST   /api/auth/logout             PUT    /api/goals/{id}
//	GET    /api/auth/me                 POST   /api/goals/{id}/complete
//	GET    /api/users/search            DELETE /api/goals/{id}
//	DELETE /api/users/delete            GET    /api/achievements/user/{id}
//	GET    /api/journal/                POST   /api/achievements/add
//	POST   /api/journal/                GET    /api/leaderboard/
//	GET    /api/journal/edit/{id}       POST   /api/images/upload
//	PUT    /api/journal/edit/{id}       DELETE /api/images/delete
//	DELETE /api/journal/edit/{id}
//
// Everything except register/login/logout requires a valid session token.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	s.router.Use(cors.New(cors.Options{
		AllowedOrigins:   s.config.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	var imgurClient *imgur.Client
	if s.config.ImgurClientSecret != "" && s.config.ImgurRefreshToken != "" {
		imgurClient = imgur.NewClientWithAccount(
			s.config.ImgurClientID,
			s.config.ImgurClientSecret,
			s.config.ImgurRefreshToken,
			s.logger,
		)
	} else {
		imgurClient = imgur.NewClient(s.config.ImgurClientID, s.logger)
	}

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	userService := service.NewUserService(s.db, s.logger)
	journalService := service.NewJournalService(s.db, s.logger)
	goalService := service.NewGoalService(s.db, s.logger)
	achievementService := service.NewAchievementService(s.db, s.logger)
	leaderboardService := service.NewLeaderboardService(s.db, s.logger)
	imageService := service.NewImageService(imgurClient, s.db, s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)
	journalHandler := handler.NewJournalHandler(journalService, s.logger)
	goalHandler := handler.NewGoalHandler(goalService, s.logger)
	achievementHandler := handler.NewAchievementHandler(achievementService, s.logger)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService, s.logger)
	imageHandler := handler.NewImageHandler(imageService, s.logger)

	requireAuth := auth.RequireAuth(tokens)

	s.router.Route("/api", func(r chi.Router) {
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

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30s, close
// the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // image uploads can be slow
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
