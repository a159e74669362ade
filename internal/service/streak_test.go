package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/devtrack/internal/model"
	"github.com/sakif/devtrack/internal/repository"
)

func newStreakService(local *mockLocal, remote *mockRemote) *StreakService {
	var r repository.UserStore
	if remote != nil {
		r = remote
	}
	s := NewStreakService(local, r, testLogger())
	// Fixed clock: Wed 2025-06-18 10:30 local time.
	s.Now = func() time.Time {
		return time.Date(2025, 6, 18, 10, 30, 0, 0, time.Local)
	}
	return s
}

func TestStreakCheckIn_FirstEver(t *testing.T) {
	local := newMockLocal()
	s := newStreakService(local, nil)

	rec, err := s.CheckIn(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Count)
	assert.Equal(t, "2025-06-18", rec.LastDate)

	// The record must be on disk after the call.
	var stored model.StreakRecord
	local.getAs(t, repository.Key(repository.KeyStreak, "u1"), &stored)
	assert.Equal(t, rec, stored)
}

func TestStreakCheckIn_ConsecutiveDay(t *testing.T) {
	local := newMockLocal()
	s := newStreakService(local, nil)

	seedLocal(t, local, repository.Key(repository.KeyStreak, "u1"),
		model.StreakRecord{Count: 6, LastDate: "2025-06-17"})

	rec, err := s.CheckIn(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 7, rec.Count)
	assert.Equal(t, "2025-06-18", rec.LastDate)
}

func TestStreakCheckIn_SameDayIsIdempotent(t *testing.T) {
	local := newMockLocal()
	s := newStreakService(local, nil)

	first, err := s.CheckIn(context.Background(), "u1")
	require.NoError(t, err)

	second, err := s.CheckIn(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var stored model.StreakRecord
	local.getAs(t, repository.Key(repository.KeyStreak, "u1"), &stored)
	assert.Equal(t, first, stored)
}

func TestStreakCheckIn_GapResetsToOne(t *testing.T) {
	local := newMockLocal()
	s := newStreakService(local, nil)

	seedLocal(t, local, repository.Key(repository.KeyStreak, "u1"),
		model.StreakRecord{Count: 42, LastDate: "2025-06-10"})

	rec, err := s.CheckIn(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Count)
	assert.Equal(t, "2025-06-18", rec.LastDate)
}

func TestStreakCheckIn_RemoteFailureStillPersistsLocally(t *testing.T) {
	local := newMockLocal()
	remote := newMockRemote()
	remote.fail = true
	s := newStreakService(local, remote)

	rec, err := s.CheckIn(context.Background(), "u1")
	require.NoError(t, err, "a dead remote store must not fail the check-in")
	assert.Equal(t, 1, rec.Count)

	var stored model.StreakRecord
	local.getAs(t, repository.Key(repository.KeyStreak, "u1"), &stored)
	assert.Equal(t, rec, stored)
}

func TestStreakCheckIn_PatchesRemoteFields(t *testing.T) {
	local := newMockLocal()
	remote := newMockRemote()
	remote.users["u1"] = &model.UserData{UID: "u1", Streak: 3, LastDate: "2025-06-17"}
	s := newStreakService(local, remote)

	rec, err := s.CheckIn(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, rec.Count)

	require.Len(t, remote.patches, 1)
	assert.Equal(t, 4, remote.patches[0]["streak"])
	assert.Equal(t, "2025-06-18", remote.patches[0]["lastStreakDate"])
}

func TestStreakGet_FillsCacheFromRemote(t *testing.T) {
	local := newMockLocal()
	remote := newMockRemote()
	remote.users["u1"] = &model.UserData{UID: "u1", Streak: 9, LastDate: "2025-06-17"}
	s := newStreakService(local, remote)

	rec, err := s.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, model.StreakRecord{Count: 9, LastDate: "2025-06-17"}, rec)

	var cached model.StreakRecord
	local.getAs(t, repository.Key(repository.KeyStreak, "u1"), &cached)
	assert.Equal(t, rec, cached)
}

func TestStreakGet_NoRecordAnywhereIsZero(t *testing.T) {
	local := newMockLocal()
	s := newStreakService(local, nil)

	rec, err := s.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, model.StreakRecord{}, rec)
}

func TestStreakGet_CorruptLocalRecordIsTreatedAsAbsent(t *testing.T) {
	local := newMockLocal()
	local.putRaw(repository.Key(repository.KeyStreak, "u1"), []byte("{not json"))
	s := newStreakService(local, nil)

	rec, err := s.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, model.StreakRecord{}, rec)
}
