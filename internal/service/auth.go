package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/devtrack/internal/auth"
	"github.com/sakif/devtrack/internal/model"
)

// AuthService orchestrates sign-in: it turns a verified identity into a
// bootstrapped user document and a session token.
//
// It sits between the HTTP auth handler and the rest of the system:
//
//	AuthHandler (HTTP) → AuthService → ProfileService (bootstrap)
//	                   ↘ TokenService (JWT)
//
// Cancellation and denial never reach this layer — the handler resolves
// those to "no user" before an identity exists to sign in.
type AuthService struct {
	profiles *ProfileService
	tokens   *auth.TokenService
	logger   *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(profiles *ProfileService, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		profiles: profiles,
		tokens:   tokens,
		logger:   logger,
	}
}

// AuthResult bundles the bootstrapped user document with the issued session
// token so the handler can set the cookie and respond in one step.
type AuthResult struct {
	User  *model.UserData
	Token string
}

// SignIn completes a sign-in for a verified identity: runs the first-login
// bootstrap (create the document, or refresh it for a returning user) and
// issues a session token for the uid.
func (s *AuthService) SignIn(ctx context.Context, identity model.Identity) (*AuthResult, error) {
	data, err := s.profiles.Bootstrap(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("service/auth: bootstrapping user %s: %w", identity.UID, err)
	}

	token, err := s.tokens.Generate(identity.UID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for %s: %w", identity.UID, err)
	}

	s.logger.Info("user signed in",
		slog.String("uid", identity.UID),
		slog.String("username", data.Username),
	)

	return &AuthResult{User: data, Token: token}, nil
}

// CurrentUser returns the full user document for an authenticated uid.
// Used by the /api/me handler after the middleware validates the session.
func (s *AuthService) CurrentUser(ctx context.Context, uid string) (*model.UserData, error) {
	return s.profiles.UserData(ctx, uid)
}
