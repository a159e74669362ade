// Package service contains the business logic of the progress-tracking core.
//
// Three services live here, one per domain concern: StreakService (daily
// check-ins), LearningService (the append-only learning log), and
// ProfileService (profile edits and the local/remote sync policy). An
// AuthService orchestrates sign-in on top of ProfileService.
//
// Every service receives its collaborators — repository.LocalStore,
// repository.UserStore, *slog.Logger — through its constructor. Nothing is
// reached through package-level globals, so tests inject in-memory fakes and
// failing remotes with plain function calls.
//
// THE SYNC POLICY (shared by all services):
// Writes go to the remote store first, best-effort; a remote failure is
// logged as a warning and never surfaced to the caller. The local write then
// happens unconditionally — after every save the local store holds the
// result, whatever the remote outcome. Reads prefer the remote store and
// refresh the local cache on success; on remote failure they serve the local
// value. The worst case anywhere is stale data, never a hard failure.
package service

import (
	"context"
	"encoding/json"

	"github.com/sakif/devtrack/internal/repository"
)

// getJSON reads the record under key and decodes it into v. It reports
// false when the record is absent — and also when the stored bytes fail to
// parse, since a corrupt cache entry is indistinguishable from no cache
// entry for every caller in this package (offline-first: default, don't
// propagate).
func getJSON(ctx context.Context, local repository.LocalStore, key string, v any) bool {
	raw, err := local.Get(ctx, key)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false
	}
	return true
}

// putJSON encodes v and writes it under key.
func putJSON(ctx context.Context, local repository.LocalStore, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return local.Set(ctx, key, raw)
}
