package repository

import (
	"context"

	"github.com/sakif/devtrack/internal/model"
)

// Fixed local-store keys, one per logical record. Each key is namespaced
// with the owning uid ("DEVTRACK_STREAK:u123") since the server holds many
// users' caches side by side. There is no transaction across keys — each
// record is independently readable and writable.
const (
	KeyStreak    = "DEVTRACK_STREAK"
	KeyLearnings = "DEVTRACK_LEARNINGS"
	KeyStats     = "DEVTRACK_STATS"
	KeyProfile   = "DEVTRACK_PROFILE"
	KeyUserCache = "DEVTRACK_USER_CACHE"
)

// Key builds the namespaced local-store key for a logical record.
func Key(name, uid string) string {
	return name + ":" + uid
}

// LocalStore is the durable on-device key/value cache. Values are opaque
// bytes (JSON documents in practice). Get returns apperror.ErrNotFound for
// absent keys.
type LocalStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// UserStore is the remote document store, addressed by user id.
//
// Create writes the full document and stamps server-assigned created/updated
// timestamps; Patch merges only the named fields into an existing document
// and stamps updatedAt. Both are atomic per call. Any transport or store
// failure surfaces as an error the service layer classifies as non-fatal.
type UserStore interface {
	Get(ctx context.Context, uid string) (*model.UserData, error)
	Create(ctx context.Context, data *model.UserData) error
	Patch(ctx context.Context, uid string, fields map[string]any) error
}
