package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/devtrack/internal/apperror"
	"github.com/sakif/devtrack/internal/model"
	"github.com/sakif/devtrack/internal/repository"
)

// LearningService manages the append-only learning log and the derived
// stats counters.
//
// The log is ordered newest first; entries are immutable once appended.
// The stats record's learnings field is recomputed from the log length on
// every mutation — it is never incremented independently.
type LearningService struct {
	local  repository.LocalStore
	remote repository.UserStore // nil when the remote store is not configured
	logger *slog.Logger

	// Now is the clock stamped onto new entries. Overridable in tests.
	Now func() time.Time
}

// NewLearningService creates a LearningService. remote may be nil.
func NewLearningService(local repository.LocalStore, remote repository.UserStore, logger *slog.Logger) *LearningService {
	return &LearningService{
		local:  local,
		remote: remote,
		logger: logger,
		Now:    time.Now,
	}
}

// List returns the user's learning log, newest first. An absent or corrupt
// local record falls back to the remote document, then to the empty log.
func (s *LearningService) List(ctx context.Context, uid string) ([]model.LearningEntry, error) {
	var log []model.LearningEntry
	if getJSON(ctx, s.local, repository.Key(repository.KeyLearnings, uid), &log) {
		return log, nil
	}

	if s.remote != nil {
		data, err := s.remote.Get(ctx, uid)
		if err == nil {
			log = data.Learnings
			if log == nil {
				log = []model.LearningEntry{}
			}
			if err := putJSON(ctx, s.local, repository.Key(repository.KeyLearnings, uid), log); err != nil {
				return nil, fmt.Errorf("caching learnings for %s: %w", uid, err)
			}
			return log, nil
		}
		s.logger.Warn("remote learnings read failed, using local state",
			slog.String("uid", uid),
			slog.String("error", err.Error()),
		)
	}

	return []model.LearningEntry{}, nil
}

// Append validates text, creates an entry with a fresh id and the current
// timestamp, and prepends it to the log. The grown log is mirrored remotely
// best-effort and always written locally; the stats record is brought back
// into lockstep in the same call.
//
// Whitespace-only text is rejected with apperror.ErrValidation and nothing
// is persisted.
func (s *LearningService) Append(ctx context.Context, uid, text string) ([]model.LearningEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("text", "learning text is required")
	}

	log, err := s.List(ctx, uid)
	if err != nil {
		return nil, err
	}

	entry := model.LearningEntry{
		ID:   xid.New().String(),
		Text: text,
		Date: s.Now(),
	}
	updated := append([]model.LearningEntry{entry}, log...)

	// Remote first, best-effort.
	if s.remote != nil {
		if err := s.remote.Patch(ctx, uid, map[string]any{"learnings": updated}); err != nil {
			s.logger.Warn("remote learnings write failed, keeping local",
				slog.String("uid", uid),
				slog.String("error", err.Error()),
			)
		}
	}

	// Local always.
	if err := putJSON(ctx, s.local, repository.Key(repository.KeyLearnings, uid), updated); err != nil {
		return nil, fmt.Errorf("saving learnings for %s: %w", uid, err)
	}

	if err := s.refreshStats(ctx, uid, len(updated)); err != nil {
		return nil, err
	}

	s.logger.Info("learning appended",
		slog.String("uid", uid),
		slog.String("entryID", entry.ID),
		slog.Int("count", len(updated)),
	)

	return updated, nil
}

// Count returns the length of the learning log. It is always recomputed
// from the log itself.
func (s *LearningService) Count(ctx context.Context, uid string) (int, error) {
	log, err := s.List(ctx, uid)
	if err != nil {
		return 0, err
	}
	return len(log), nil
}

// Stats returns the user's counters with the learnings field recomputed
// from the current log length, whatever the stored stats record says.
func (s *LearningService) Stats(ctx context.Context, uid string) (model.Stats, error) {
	var stats model.Stats
	getJSON(ctx, s.local, repository.Key(repository.KeyStats, uid), &stats)

	count, err := s.Count(ctx, uid)
	if err != nil {
		return model.Stats{}, err
	}
	stats.Learnings = count

	return stats, nil
}

// refreshStats rewrites the local stats record with the new log length,
// keeping the derived field in lockstep with the log it was derived from.
func (s *LearningService) refreshStats(ctx context.Context, uid string, count int) error {
	var stats model.Stats
	getJSON(ctx, s.local, repository.Key(repository.KeyStats, uid), &stats)
	stats.Learnings = count

	if err := putJSON(ctx, s.local, repository.Key(repository.KeyStats, uid), stats); err != nil {
		return fmt.Errorf("saving stats for %s: %w", uid, err)
	}
	return nil
}
