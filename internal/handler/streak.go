package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/devtrack/internal/auth"
	"github.com/sakif/devtrack/internal/service"
	"github.com/sakif/devtrack/internal/streak"
)

// StreakHandler exposes the streak record over HTTP.
//
// Routes:
//   - HandleGet     → GET  /api/streak          current record, read-only
//   - HandleCheckIn → POST /api/streak/checkin  apply today's qualifying action
type StreakHandler struct {
	streaks *service.StreakService
	logger  *slog.Logger
}

// NewStreakHandler creates a StreakHandler.
func NewStreakHandler(streaks *service.StreakService, logger *slog.Logger) *StreakHandler {
	return &StreakHandler{streaks: streaks, logger: logger}
}

// streakResponse is the record plus its display label.
type streakResponse struct {
	Count    int    `json:"count"`
	LastDate string `json:"lastDate"`
	Status   string `json:"status"`
}

// HandleGet returns the current streak record without mutating it.
//
// HTTP: GET /api/streak
// Auth: required
func (h *StreakHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	rec, err := h.streaks.Get(r.Context(), uid)
	if err != nil {
		h.logger.Error("HandleGet: loading streak failed",
			slog.String("uid", uid),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, streakResponse{
		Count:    rec.Count,
		LastDate: rec.LastDate,
		Status:   streak.Status(rec.Count),
	})
}

// HandleCheckIn records a qualifying action for today and returns the
// updated record. Safe to call repeatedly on the same day.
//
// HTTP: POST /api/streak/checkin
// Auth: required
func (h *StreakHandler) HandleCheckIn(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	rec, err := h.streaks.CheckIn(r.Context(), uid)
	if err != nil {
		h.logger.Error("HandleCheckIn: check-in failed",
			slog.String("uid", uid),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, streakResponse{
		Count:    rec.Count,
		LastDate: rec.LastDate,
		Status:   streak.Status(rec.Count),
	})
}
