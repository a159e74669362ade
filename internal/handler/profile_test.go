package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/devtrack/internal/handler"
	"github.com/sakif/devtrack/internal/model"
	"github.com/sakif/devtrack/internal/service"
)

func newProfileHandler(local *memStore) *handler.ProfileHandler {
	svc := service.NewProfileService(local, nil, testLogger())
	return handler.NewProfileHandler(svc, testLogger())
}

func TestProfileHandler_GetDefaultsForNewUser(t *testing.T) {
	tokens := newTokenService(t)
	h := newProfileHandler(newMemStore())

	req := withSession(t, tokens,
		httptest.NewRequest(http.MethodGet, "/api/profile", nil), "u1")
	rr := serve(t, tokens, h.HandleGet, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var p model.Profile
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&p))
	assert.Equal(t, "Anonymous Dev", p.Name)
	assert.Equal(t, "@devuser", p.Username)
}

func TestProfileHandler_PutThenGetRoundTrip(t *testing.T) {
	tokens := newTokenService(t)
	local := newMemStore()
	h := newProfileHandler(local)

	edited := model.Profile{
		Name:        "Ana Dev",
		Username:    "@anadev",
		Bio:         "shipping Go services",
		BannerColor: "#112233",
		Links:       []model.SocialLink{{ID: "l1", Label: "GitHub", URL: "https://github.com/anadev"}},
		Projects:    []model.ProjectImage{},
	}
	body, err := json.Marshal(edited)
	require.NoError(t, err)

	req := withSession(t, tokens,
		httptest.NewRequest(http.MethodPut, "/api/profile", bytes.NewReader(body)), "u1")
	rr := serve(t, tokens, h.HandlePut, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	req = withSession(t, tokens,
		httptest.NewRequest(http.MethodGet, "/api/profile", nil), "u1")
	rr = serve(t, tokens, h.HandleGet, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	var got model.Profile
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, edited, got)
}

func TestProfileHandler_PutRejectsInvalidJSON(t *testing.T) {
	tokens := newTokenService(t)
	h := newProfileHandler(newMemStore())

	req := withSession(t, tokens,
		httptest.NewRequest(http.MethodPut, "/api/profile", bytes.NewBufferString(`{"name":`)), "u1")
	rr := serve(t, tokens, h.HandlePut, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestProfileHandler_ProfilesAreKeyedByUser(t *testing.T) {
	tokens := newTokenService(t)
	local := newMemStore()
	h := newProfileHandler(local)

	body, _ := json.Marshal(model.Profile{Name: "User One", Links: []model.SocialLink{}, Projects: []model.ProjectImage{}})
	req := withSession(t, tokens,
		httptest.NewRequest(http.MethodPut, "/api/profile", bytes.NewReader(body)), "u1")
	rr := serve(t, tokens, h.HandlePut, req)
	require.Equal(t, http.StatusOK, rr.Code)

	// u2 must still see the defaults.
	req = withSession(t, tokens,
		httptest.NewRequest(http.MethodGet, "/api/profile", nil), "u2")
	rr = serve(t, tokens, h.HandleGet, req)

	var p model.Profile
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&p))
	assert.Equal(t, "Anonymous Dev", p.Name)
}
