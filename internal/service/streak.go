package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/devtrack/internal/model"
	"github.com/sakif/devtrack/internal/repository"
	"github.com/sakif/devtrack/internal/streak"
)

// StreakService records daily check-ins and keeps the streak record in sync
// between the stores. The computation itself lives in the streak package;
// this layer only loads, applies, and persists.
type StreakService struct {
	local  repository.LocalStore
	remote repository.UserStore // nil when the remote store is not configured
	logger *slog.Logger

	// Now is the clock used for day computations. Overridable in tests;
	// defaults to time.Now.
	Now func() time.Time
}

// NewStreakService creates a StreakService. remote may be nil — the service
// then runs local-only, the same degraded mode it enters when the remote
// store stops responding.
func NewStreakService(local repository.LocalStore, remote repository.UserStore, logger *slog.Logger) *StreakService {
	return &StreakService{
		local:  local,
		remote: remote,
		logger: logger,
		Now:    time.Now,
	}
}

// Get returns the current streak record without mutating it.
//
// The local record is preferred; when it is absent (fresh install, wiped
// cache) the remote document is consulted and the local cache refilled. A
// user with no record anywhere gets the zero record.
func (s *StreakService) Get(ctx context.Context, uid string) (model.StreakRecord, error) {
	var rec model.StreakRecord
	if getJSON(ctx, s.local, repository.Key(repository.KeyStreak, uid), &rec) {
		return rec, nil
	}

	if s.remote != nil {
		data, err := s.remote.Get(ctx, uid)
		if err == nil {
			rec = data.StreakRecord()
			if err := putJSON(ctx, s.local, repository.Key(repository.KeyStreak, uid), rec); err != nil {
				return model.StreakRecord{}, fmt.Errorf("caching streak for %s: %w", uid, err)
			}
			return rec, nil
		}
		s.logger.Warn("remote streak read failed, using local state",
			slog.String("uid", uid),
			slog.String("error", err.Error()),
		)
	}

	return model.StreakRecord{}, nil
}

// CheckIn applies one qualifying action at "now" to the user's streak and
// persists the result: remote first (best-effort merge of the streak
// fields), then the local record unconditionally.
//
// Calling CheckIn twice on the same calendar day is harmless — the engine
// returns the record unchanged and the persisted state stays identical.
func (s *StreakService) CheckIn(ctx context.Context, uid string) (model.StreakRecord, error) {
	current, err := s.Get(ctx, uid)
	if err != nil {
		return model.StreakRecord{}, err
	}

	updated := streak.Update(s.Now(), streak.Record{Count: current.Count, LastDate: current.LastDate})
	rec := model.StreakRecord{Count: updated.Count, LastDate: updated.LastDate}

	// Remote write first, so the failure classification is settled before
	// the local write runs. updatedAt is stamped server-side.
	if s.remote != nil {
		err := s.remote.Patch(ctx, uid, map[string]any{
			"streak":         rec.Count,
			"lastStreakDate": rec.LastDate,
		})
		if err != nil {
			s.logger.Warn("remote streak write failed, keeping local",
				slog.String("uid", uid),
				slog.String("error", err.Error()),
			)
		}
	}

	// Local write always happens, whatever the remote outcome.
	if err := putJSON(ctx, s.local, repository.Key(repository.KeyStreak, uid), rec); err != nil {
		return model.StreakRecord{}, fmt.Errorf("saving streak for %s: %w", uid, err)
	}

	if rec != current {
		s.logger.Info("streak updated",
			slog.String("uid", uid),
			slog.Int("count", rec.Count),
			slog.String("lastDate", rec.LastDate),
		)
	}

	return rec, nil
}
