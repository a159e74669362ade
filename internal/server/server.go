// Package server wires the application together: router, middleware, stores,
// services, handlers, and the HTTP server lifecycle.
//
// Everything is assembled in New (the composition root). main.go only loads
// configuration, opens the optional remote store, and calls Start.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/devtrack/internal/auth"
	"github.com/sakif/devtrack/internal/config"
	"github.com/sakif/devtrack/internal/handler"
	"github.com/sakif/devtrack/internal/middleware"
	"github.com/sakif/devtrack/internal/repository"
	sqliteRepo "github.com/sakif/devtrack/internal/repository/sqlite"
	"github.com/sakif/devtrack/internal/service"
)

// Server owns the router, the local store, and the configuration. The local
// store is closed during graceful shutdown; the remote store (if any) is
// owned and closed by main.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	local  *sqliteRepo.DB
}

// New assembles the full dependency chain:
//
//	sqlite.DB (local) + remote UserStore (may be nil)
//	  → StreakService / LearningService / ProfileService
//	  → AuthService (when a JWT secret is configured)
//	  → handlers → routes
//
// remote may be nil; every service then runs in local-only mode.
func New(cfg *config.Config, logger *slog.Logger, remote repository.UserStore) (*Server, error) {
	local, err := sqliteRepo.New(cfg.Local.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		local:  local,
	}

	if err := s.setupRoutes(remote); err != nil {
		local.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware, services, and route handlers.
//
// Route structure:
//
//	GET  /auth/google/login     → redirect to Google
//	GET  /auth/google/callback  → complete sign-in, set session cookie
//	POST /auth/logout           → clear session cookie
//	GET  /api/me                → authenticated user's document
//	GET  /api/streak            → current streak record
//	POST /api/streak/checkin    → record today's qualifying action
//	GET  /api/learnings         → learning log, newest first
//	POST /api/learnings         → append one learning
//	GET  /api/stats             → derived counters
//	GET  /api/profile           → editable profile
//	PUT  /api/profile           → replace editable profile
//
// Without a JWT secret none of the routes above are registered and only
// /healthz responds.
func (s *Server) setupRoutes(remote repository.UserStore) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	streakService := service.NewStreakService(s.local, remote, s.logger)
	learningService := service.NewLearningService(s.local, remote, s.logger)
	profileService := service.NewProfileService(s.local, remote, s.logger)

	if s.config.Auth.JWTSecret == "" {
		s.logger.Warn("JWT secret not set, authentication and API routes disabled")
		return nil
	}

	tokens, err := auth.NewTokenService(s.config.Auth.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	authService := service.NewAuthService(profileService, tokens, s.logger)

	if s.config.Auth.GoogleClientID != "" {
		google := auth.NewGoogleProvider(
			s.config.Auth.GoogleClientID,
			s.config.Auth.GoogleClientSecret,
			s.config.Auth.GoogleCallbackURL,
		)
		authHandler := handler.NewAuthHandler(google, authService, s.logger)

		s.router.Get("/auth/google/login", authHandler.HandleGoogleLogin)
		s.router.Get("/auth/google/callback", authHandler.HandleGoogleCallback)
		s.router.Post("/auth/logout", authHandler.HandleLogout)

		s.router.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/api/me", authHandler.HandleMe)
		})
	} else {
		s.logger.Warn("Google OAuth not configured, sign-in routes disabled")
	}

	streakHandler := handler.NewStreakHandler(streakService, s.logger)
	learningHandler := handler.NewLearningHandler(learningService, s.logger)
	profileHandler := handler.NewProfileHandler(profileService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/streak", streakHandler.HandleGet)
		r.Post("/streak/checkin", streakHandler.HandleCheckIn)

		r.Get("/learnings", learningHandler.HandleList)
		r.Post("/learnings", learningHandler.HandleAppend)
		r.Get("/stats", learningHandler.HandleStats)

		r.Get("/profile", profileHandler.HandleGet)
		r.Put("/profile", profileHandler.HandlePut)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests within
// the shutdown timeout, close the local store.
func (s *Server) Start() error {
	defer s.local.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Server.Port),
			slog.String("localStore", s.config.Local.DBPath),
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

		ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
