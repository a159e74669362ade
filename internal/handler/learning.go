package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/devtrack/internal/auth"
	"github.com/sakif/devtrack/internal/service"
)

// LearningHandler exposes the append-only learning log.
//
// Routes:
//   - HandleList   → GET  /api/learnings  log, newest first
//   - HandleAppend → POST /api/learnings  record one learning
type LearningHandler struct {
	learnings *service.LearningService
	logger    *slog.Logger
}

// NewLearningHandler creates a LearningHandler.
func NewLearningHandler(learnings *service.LearningService, logger *slog.Logger) *LearningHandler {
	return &LearningHandler{learnings: learnings, logger: logger}
}

// appendLearningRequest is the POST body.
type appendLearningRequest struct {
	Text string `json:"text"`
}

// HandleList returns the learning log, newest entry first.
//
// HTTP: GET /api/learnings
// Auth: required
func (h *LearningHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	log, err := h.learnings.List(r.Context(), uid)
	if err != nil {
		h.logger.Error("HandleList: loading learnings failed",
			slog.String("uid", uid),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, log)
}

// HandleAppend records one learning and returns the grown log.
// Whitespace-only text is rejected with 400.
//
// HTTP: POST /api/learnings
// Auth: required
func (h *LearningHandler) HandleAppend(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var req appendLearningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "request body must be valid JSON",
		})
		return
	}

	log, err := h.learnings.Append(r.Context(), uid, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, log)
}

// HandleStats returns the derived counters (total hours, skills, learnings).
//
// HTTP: GET /api/stats
// Auth: required
func (h *LearningHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	stats, err := h.learnings.Stats(r.Context(), uid)
	if err != nil {
		h.logger.Error("HandleStats: loading stats failed",
			slog.String("uid", uid),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
