// Package auth provides the identity provider (Google OAuth) and session
// token handling for the API.
//
// SESSION FLOW:
//  1. GET /auth/google/login → browser redirected to Google
//  2. Google calls back with a code; the server exchanges it for an identity
//  3. AuthService bootstraps the user document and issues a JWT
//  4. The JWT rides in an HttpOnly cookie; middleware validates it on every
//     API call and puts the uid in the request context
//
// The JWT is stateless — the uid and expiry live inside the signed token, so
// validation needs no store lookup, only the HMAC secret.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// issuer is pinned into every token and required on validation, so tokens
// minted by other apps sharing a secret are still rejected.
const issuer = "devtrack"

// TokenService handles JWT creation and validation. It holds the HMAC
// secret used for both signing and verifying.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret. The secret
// should be at least 32 bytes of random data in production
// (JWT_SECRET=$(openssl rand -hex 32)).
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. The standard "sub" claim carries the uid.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given uid.
// Token lifetime: 15 minutes; after expiry the client re-authenticates.
func (s *TokenService) Generate(uid string) (string, error) {
	return s.GenerateWithDuration(uid, 15*time.Minute)
}

// GenerateWithDuration creates a token with a custom expiry. Used in tests
// and for issuing longer-lived tokens.
func (s *TokenService) GenerateWithDuration(uid string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns the uid it
// encodes. The signature, expiry, issuer, and algorithm (pinned to HS256)
// are all checked.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
