package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dom/sleep-tracker/internal/domain"
	"github.com/dom/sleep-tracker/internal/repository/postgres"
	"github.com/dom/sleep-tracker/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSleepSessionRepository_Create(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSleepSessionRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	start := testutil.TestNow.Add(-6 * time.Hour)

	first, err := domain.NewSleepSession(user.ID, start, testutil.TestNow)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	second, err := domain.NewSleepSession(user.ID, start.Add(time.Hour), testutil.TestNow)
	require.NoError(t, err)
	err = repo.Create(ctx, second)
	assert.ErrorIs(t, err, domain.ErrActiveSessionExists)

	orphan, err := domain.NewSleepSession(uuid.New(), start, testutil.TestNow)
	require.NoError(t, err)
	err = repo.Create(ctx, orphan)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSleepSessionRepository_Create_ConcurrentOpen(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSleepSessionRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	const workers = 8
	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			session, err := domain.NewSleepSession(user.ID, testutil.TestNow.Add(-time.Duration(i+1)*time.Hour), testutil.TestNow)
			if err != nil {
				results <- err
				return
			}
			results <- repo.Create(ctx, session)
		}(i)
	}
	wg.Wait()
	close(results)

	var ok, conflict int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrActiveSessionExists):
			conflict++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, conflict)
}

func TestSleepSessionRepository_CloseOpen(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSleepSessionRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	open := testutil.NewSleepSessionBuilder().WithUser(user).
		StartedAt(testutil.TestNow.Add(-7 * time.Hour)).Open().
		Build(t, testDB.DB)

	t.Run("close callback error rolls back", func(t *testing.T) {
		_, err := repo.CloseOpen(ctx, user.ID, func(s *domain.SleepSession) error {
			return s.Close(s.StartTime.Add(-time.Minute), testutil.TestNow)
		})
		assert.ErrorIs(t, err, domain.ErrValidation)

		got, err := repo.GetOpenByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, got.EndTime)
	})

	t.Run("closes the open session", func(t *testing.T) {
		end := testutil.TestNow
		closed, err := repo.CloseOpen(ctx, user.ID, func(s *domain.SleepSession) error {
			return s.Close(end, testutil.TestNow)
		})
		require.NoError(t, err)
		assert.Equal(t, open.ID, closed.ID)

		var stored domain.SleepSession
		require.NoError(t, testDB.DB.First(&stored, "id = ?", open.ID).Error)
		require.NotNil(t, stored.EndTime)
		assert.True(t, stored.EndTime.Equal(end))
		require.NotNil(t, stored.DurationMicros)
		assert.Equal(t, (7 * time.Hour).Microseconds(), *stored.DurationMicros)
	})

	t.Run("nothing left to close", func(t *testing.T) {
		called := false
		_, err := repo.CloseOpen(ctx, user.ID, func(s *domain.SleepSession) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, domain.ErrNoActiveSession)
		assert.False(t, called)

		_, err = repo.GetOpenByUserID(ctx, user.ID)
		assert.ErrorIs(t, err, domain.ErrNoActiveSession)
	})
}

func TestSleepSessionRepository_ListCompletedByUserIDs(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSleepSessionRepository(testDB.DB)
	ctx := context.Background()

	b, _ := testutil.NewUserBuilder().WithDisplayName("bea").Build(t, testDB.DB)
	c, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	since := testutil.TestNow.Add(-7 * 24 * time.Hour)

	bShort := testutil.NewSleepSessionBuilder().WithUser(b).
		StartedAt(testutil.TestNow.Add(-30 * time.Hour)).Lasting(5 * time.Hour).
		Build(t, testDB.DB)
	cLong := testutil.NewSleepSessionBuilder().WithUser(c).
		StartedAt(testutil.TestNow.Add(-50 * time.Hour)).Lasting(9 * time.Hour).
		Build(t, testDB.DB)
	testutil.NewSleepSessionBuilder().WithUser(b).
		StartedAt(testutil.TestNow.Add(-2 * time.Hour)).Open().
		Build(t, testDB.DB)
	testutil.NewSleepSessionBuilder().WithUser(c).
		StartedAt(since.Add(-time.Hour)).Lasting(10 * time.Hour).
		Build(t, testDB.DB)
	testutil.NewSleepSessionBuilder().WithUser(other).Build(t, testDB.DB)

	sessions, err := repo.ListCompletedByUserIDs(ctx, []uuid.UUID{b.ID, c.ID}, since)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, cLong.ID, sessions[0].ID)
	assert.Equal(t, bShort.ID, sessions[1].ID)

	require.NotNil(t, sessions[1].User)
	assert.Equal(t, "bea", sessions[1].User.DisplayName)
	assert.Empty(t, sessions[1].User.PasswordHash)

	sessions, err = repo.ListCompletedByUserIDs(ctx, nil, since)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSleepSessionRepository_DeleteUserCascades(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSleepSessionRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	testutil.NewSleepSessionBuilder().WithUser(user).Build(t, testDB.DB)

	require.NoError(t, testDB.DB.Delete(&domain.User{}, "id = ?", user.ID).Error)

	sessions, err := repo.ListByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
