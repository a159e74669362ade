package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/devtrack/internal/auth"
	"github.com/sakif/devtrack/internal/model"
	"github.com/sakif/devtrack/internal/service"
)

// ProfileHandler exposes the editable profile.
//
// Routes:
//   - HandleGet → GET /api/profile  the profile, remote or cached
//   - HandlePut → PUT /api/profile  full replacement of the editable fields
type ProfileHandler struct {
	profiles *service.ProfileService
	logger   *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// HandleGet returns the user's profile. Never 404s: a user with no saved
// profile gets the defaults.
//
// HTTP: GET /api/profile
// Auth: required
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	profile, err := h.profiles.Load(r.Context(), uid)
	if err != nil {
		h.logger.Error("HandleGet: loading profile failed",
			slog.String("uid", uid),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandlePut replaces the editable profile fields with the request body.
//
// HTTP: PUT /api/profile
// Auth: required
func (h *ProfileHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var profile model.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := h.profiles.Save(r.Context(), uid, profile); err != nil {
		h.logger.Error("HandlePut: saving profile failed",
			slog.String("uid", uid),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
