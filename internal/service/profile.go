package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/devtrack/internal/apperror"
	"github.com/sakif/devtrack/internal/model"
	"github.com/sakif/devtrack/internal/repository"
)

// ProfileService reconciles the user profile between the local cache and the
// remote document store, and runs the first-login bootstrap.
//
// The remote store is authoritative when reachable; the local store is the
// fallback of record when it is not. Save and Load never fail just because
// the network is down — offline degrades to local state, and the condition
// is logged, not raised.
type ProfileService struct {
	local  repository.LocalStore
	remote repository.UserStore // nil when the remote store is not configured
	logger *slog.Logger
}

// NewProfileService creates a ProfileService. remote may be nil.
func NewProfileService(local repository.LocalStore, remote repository.UserStore, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		local:  local,
		remote: remote,
		logger: logger,
	}
}

// Save persists a profile edit.
//
// Step 1: remote write, update-or-create — patch the named profile fields
// into the existing document, or create a default document merged with the
// profile when none exists yet. Failure here is classified non-fatal and
// logged. Step 2: the full profile is written to the local store
// unconditionally, after the remote outcome is known.
func (s *ProfileService) Save(ctx context.Context, uid string, profile model.Profile) error {
	if s.remote != nil {
		if err := s.saveRemote(ctx, uid, profile); err != nil {
			s.logger.Warn("remote profile write failed, keeping local",
				slog.String("uid", uid),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := putJSON(ctx, s.local, repository.Key(repository.KeyProfile, uid), profile); err != nil {
		return fmt.Errorf("saving profile for %s: %w", uid, err)
	}

	s.logger.Info("profile saved", slog.String("uid", uid))
	return nil
}

func (s *ProfileService) saveRemote(ctx context.Context, uid string, profile model.Profile) error {
	err := s.remote.Patch(ctx, uid, map[string]any{
		"name":        profile.Name,
		"username":    profile.Username,
		"bio":         profile.Bio,
		"avatarUri":   profile.AvatarURI,
		"bannerUri":   profile.BannerURI,
		"bannerColor": profile.BannerColor,
		"links":       profile.Links,
		"projects":    profile.Projects,
	})
	if !errors.Is(err, apperror.ErrNotFound) {
		return err
	}

	// No document yet — create one: defaults merged with the edited
	// profile, timestamps assigned by the server.
	data := defaultUserData(model.Identity{UID: uid})
	applyProfile(data, profile)
	return s.remote.Create(ctx, data)
}

// Load returns the user's profile.
//
// Remote read first; on success the local cache is refreshed from the
// remote value before it is returned (read-through fill). On remote failure
// the local value is served, and when that too is absent the default
// profile — the offline case never errors.
func (s *ProfileService) Load(ctx context.Context, uid string) (model.Profile, error) {
	if s.remote != nil {
		data, err := s.remote.Get(ctx, uid)
		switch {
		case err == nil:
			profile := data.Profile()
			if err := putJSON(ctx, s.local, repository.Key(repository.KeyProfile, uid), profile); err != nil {
				return model.Profile{}, fmt.Errorf("caching profile for %s: %w", uid, err)
			}
			return profile, nil
		case errors.Is(err, apperror.ErrNotFound):
			// Reachable but no document — fall through to local state.
		default:
			s.logger.Warn("remote profile read failed, using local state",
				slog.String("uid", uid),
				slog.String("error", err.Error()),
			)
		}
	}

	var profile model.Profile
	if getJSON(ctx, s.local, repository.Key(repository.KeyProfile, uid), &profile) {
		return profile, nil
	}
	return model.DefaultProfile(), nil
}

// Bootstrap runs the first-login create-or-update path.
//
// No remote document: a complete default document is created — zero streak,
// empty learning log, zero stats, identity-derived name/username — in a
// single atomic write. Existing document: only the photo and the update
// timestamp are patched, matching what a returning sign-in may change.
// Either way the local user-data cache is refreshed with the result.
//
// When the remote store is unreachable the document is assembled locally
// (from the cache if present, otherwise from the identity) so that sign-in
// still succeeds offline.
func (s *ProfileService) Bootstrap(ctx context.Context, identity model.Identity) (*model.UserData, error) {
	if identity.UID == "" {
		return nil, apperror.ValidationFailed("uid", "identity uid is required")
	}

	data, err := s.bootstrapRemote(ctx, identity)
	if err != nil {
		s.logger.Warn("remote bootstrap failed, continuing with local state",
			slog.String("uid", identity.UID),
			slog.String("error", err.Error()),
		)
		data = s.localUserData(ctx, identity)
	}

	if err := putJSON(ctx, s.local, repository.Key(repository.KeyUserCache, identity.UID), data); err != nil {
		return nil, fmt.Errorf("caching user data for %s: %w", identity.UID, err)
	}

	return data, nil
}

func (s *ProfileService) bootstrapRemote(ctx context.Context, identity model.Identity) (*model.UserData, error) {
	if s.remote == nil {
		return nil, apperror.Unavailable("bootstrap", errors.New("remote store not configured"))
	}

	existing, err := s.remote.Get(ctx, identity.UID)
	if errors.Is(err, apperror.ErrNotFound) {
		// First login — create the full default document.
		data := defaultUserData(identity)
		if err := s.remote.Create(ctx, data); err != nil {
			return nil, err
		}
		s.logger.Info("user document created",
			slog.String("uid", identity.UID),
			slog.String("username", data.Username),
		)
		return data, nil
	}
	if err != nil {
		return nil, err
	}

	// Returning user — refresh only the photo; the server stamps updatedAt.
	if err := s.remote.Patch(ctx, identity.UID, map[string]any{"photoURL": identity.PhotoURL}); err != nil {
		return nil, err
	}
	existing.PhotoURL = identity.PhotoURL
	return existing, nil
}

// localUserData reconstructs a user document without the remote store: the
// cached copy if one exists, otherwise a fresh default from the identity.
func (s *ProfileService) localUserData(ctx context.Context, identity model.Identity) *model.UserData {
	var cached model.UserData
	if getJSON(ctx, s.local, repository.Key(repository.KeyUserCache, identity.UID), &cached) {
		cached.PhotoURL = identity.PhotoURL
		return &cached
	}
	return defaultUserData(identity)
}

// UserData returns the full user document: remote when reachable (refreshing
// the cache), cached otherwise. A user with no document and no cache yields
// apperror.ErrNotFound.
func (s *ProfileService) UserData(ctx context.Context, uid string) (*model.UserData, error) {
	if s.remote != nil {
		data, err := s.remote.Get(ctx, uid)
		if err == nil {
			if err := putJSON(ctx, s.local, repository.Key(repository.KeyUserCache, uid), data); err != nil {
				return nil, fmt.Errorf("caching user data for %s: %w", uid, err)
			}
			return data, nil
		}
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		s.logger.Warn("remote user read failed, using local cache",
			slog.String("uid", uid),
			slog.String("error", err.Error()),
		)
	}

	var cached model.UserData
	if getJSON(ctx, s.local, repository.Key(repository.KeyUserCache, uid), &cached) {
		return &cached, nil
	}
	return nil, apperror.NotFound("user", uid)
}

// UsernameSlug derives the default handle from a display name: lowercased,
// whitespace removed, prefixed with "@". "Ana Dev" → "@anadev".
func UsernameSlug(displayName string) string {
	if strings.TrimSpace(displayName) == "" {
		displayName = "dev"
	}
	slug := strings.ToLower(displayName)
	slug = strings.Join(strings.Fields(slug), "")
	return "@" + slug
}

// defaultUserData builds the document a brand-new user starts with.
func defaultUserData(identity model.Identity) *model.UserData {
	name := identity.DisplayName
	if name == "" {
		name = "Dev"
	}
	return &model.UserData{
		UID:         identity.UID,
		Name:        name,
		Username:    UsernameSlug(identity.DisplayName),
		Email:       identity.Email,
		PhotoURL:    identity.PhotoURL,
		Bio:         "",
		BannerColor: "#1a1040",
		Links:       []model.SocialLink{},
		Projects:    []model.ProjectImage{},
		Streak:      0,
		LastDate:    "",
		Learnings:   []model.LearningEntry{},
		Hours:       0,
		Skills:      0,
	}
}

// applyProfile overlays the editable fields onto a document.
func applyProfile(data *model.UserData, profile model.Profile) {
	data.Name = profile.Name
	data.Username = profile.Username
	data.Bio = profile.Bio
	data.AvatarURI = profile.AvatarURI
	data.BannerURI = profile.BannerURI
	data.BannerColor = profile.BannerColor
	data.Links = profile.Links
	data.Projects = profile.Projects
}
