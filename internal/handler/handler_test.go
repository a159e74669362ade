package handler_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sakif/devtrack/internal/apperror"
	"github.com/sakif/devtrack/internal/auth"
)

// memStore is an in-memory LocalStore for handler tests.
type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	raw, ok := m.data[key]
	if !ok {
		return nil, apperror.NotFound("record", key)
	}
	return raw, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTokenService builds the TokenService the tests mint session cookies
// with; the same instance backs the RequireAuth middleware.
func newTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	require.NoError(t, err)
	return tokens
}

// serve runs req through RequireAuth(tokens) into h, the same chain the
// router assembles, and returns the recorder.
func serve(t *testing.T, tokens *auth.TokenService, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	auth.RequireAuth(tokens)(h).ServeHTTP(rr, req)
	return rr
}

// withSession attaches a valid session cookie for uid.
func withSession(t *testing.T, tokens *auth.TokenService, req *http.Request, uid string) *http.Request {
	t.Helper()
	token, err := tokens.Generate(uid)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	return req
}
