package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/sakif/devtrack/internal/apperror"
	"github.com/sakif/devtrack/internal/model"
)

// mockLocal is an in-memory LocalStore. failSet simulates a broken local
// store; a corrupt entry is planted with putRaw.
type mockLocal struct {
	data    map[string][]byte
	failSet bool
}

func newMockLocal() *mockLocal {
	return &mockLocal{data: make(map[string][]byte)}
}

func (m *mockLocal) Get(_ context.Context, key string) ([]byte, error) {
	raw, ok := m.data[key]
	if !ok {
		return nil, apperror.NotFound("record", key)
	}
	return raw, nil
}

func (m *mockLocal) Set(_ context.Context, key string, value []byte) error {
	if m.failSet {
		return errors.New("mock: local store write failed")
	}
	m.data[key] = value
	return nil
}

func (m *mockLocal) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mockLocal) putRaw(key string, value []byte) {
	m.data[key] = value
}

// getAs decodes the stored record into v, failing the test on any miss.
func (m *mockLocal) getAs(t *testing.T, key string, v any) {
	t.Helper()
	raw, ok := m.data[key]
	if !ok {
		t.Fatalf("local store has no record under %q", key)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decoding local record %q: %v", key, err)
	}
}

// mockRemote is an in-memory UserStore. fail makes every call error, which
// is how the tests simulate an unreachable remote store.
type mockRemote struct {
	users map[string]*model.UserData
	fail  bool

	patches []map[string]any // record of Patch calls, in order
}

func newMockRemote() *mockRemote {
	return &mockRemote{users: make(map[string]*model.UserData)}
}

func (m *mockRemote) Get(_ context.Context, uid string) (*model.UserData, error) {
	if m.fail {
		return nil, errors.New("mock: remote store unreachable")
	}
	data, ok := m.users[uid]
	if !ok {
		return nil, apperror.NotFound("user", uid)
	}
	copied := *data
	return &copied, nil
}

func (m *mockRemote) Create(_ context.Context, data *model.UserData) error {
	if m.fail {
		return errors.New("mock: remote store unreachable")
	}
	if _, ok := m.users[data.UID]; ok {
		return nil // existing document left untouched
	}
	copied := *data
	m.users[data.UID] = &copied
	return nil
}

func (m *mockRemote) Patch(_ context.Context, uid string, fields map[string]any) error {
	if m.fail {
		return errors.New("mock: remote store unreachable")
	}
	data, ok := m.users[uid]
	if !ok {
		return apperror.NotFound("user", uid)
	}
	m.patches = append(m.patches, fields)

	// Shallow merge of the fields the services actually patch.
	for k, v := range fields {
		switch k {
		case "streak":
			data.Streak = v.(int)
		case "lastStreakDate":
			data.LastDate = v.(string)
		case "learnings":
			data.Learnings = v.([]model.LearningEntry)
		case "photoURL":
			data.PhotoURL = v.(string)
		case "name":
			data.Name = v.(string)
		case "username":
			data.Username = v.(string)
		case "bio":
			data.Bio = v.(string)
		case "avatarUri":
			data.AvatarURI = v.(string)
		case "bannerUri":
			data.BannerURI = v.(string)
		case "bannerColor":
			data.BannerColor = v.(string)
		case "links":
			data.Links = v.([]model.SocialLink)
		case "projects":
			data.Projects = v.([]model.ProjectImage)
		}
	}
	return nil
}

// seedLocal marshals v and plants it under key, bypassing the service layer.
func seedLocal(t *testing.T, local *mockLocal, key string, v any) {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("encoding seed record %q: %v", key, err)
	}
	local.putRaw(key, raw)
}

// testLogger discards everything below error so test output stays readable.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
