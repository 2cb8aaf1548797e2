package postgres_test

import (
	"context"
	"sync"
	"testing"

	"github.com/dom/sleep-tracker/internal/domain"
	"github.com/dom/sleep-tracker/internal/repository/postgres"
	"github.com/dom/sleep-tracker/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUser(name string) *domain.User {
	return &domain.User{
		ID:           uuid.New(),
		DisplayName:  name,
		PasswordHash: "$2a$04$hash",
		CreatedAt:    testutil.TestNow,
		UpdatedAt:    testutil.TestNow,
	}
}

func TestUserRepository_Create_DisplayNameTaken(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("night_owl")))

	err := repo.Create(ctx, newUser("night_owl"))
	assert.ErrorIs(t, err, domain.ErrDisplayNameTaken)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	// Names are compared exactly
	assert.NoError(t, repo.Create(ctx, newUser("Night_Owl")))
}

func TestUserRepository_Create_ConcurrentSameName(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(ctx, newUser("early_bird"))
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrDisplayNameTaken)
	}
	assert.Equal(t, 1, created)

	var count int64
	require.NoError(t, testDB.DB.Model(&domain.User{}).Where("display_name = ?", "early_bird").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository_Lookups(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	sleeper, _ := testutil.NewUserBuilder().WithDisplayName("sleeper").Build(t, testDB.DB)

	tests := []struct {
		name    string
		lookup  func() (*domain.User, error)
		wantErr error
	}{
		{
			name:   "by id",
			lookup: func() (*domain.User, error) { return repo.GetByID(ctx, sleeper.ID) },
		},
		{
			name:   "by display name",
			lookup: func() (*domain.User, error) { return repo.GetByDisplayName(ctx, "sleeper") },
		},
		{
			name:    "unknown id",
			lookup:  func() (*domain.User, error) { return repo.GetByID(ctx, uuid.New()) },
			wantErr: gorm.ErrRecordNotFound,
		},
		{
			name:    "unknown display name",
			lookup:  func() (*domain.User, error) { return repo.GetByDisplayName(ctx, "insomniac") },
			wantErr: gorm.ErrRecordNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := tt.lookup()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, sleeper.ID, user.ID)
			assert.Equal(t, "sleeper", user.DisplayName)
			assert.True(t, user.CreatedAt.Equal(testutil.TestNow), "created_at %s", user.CreatedAt)
		})
	}
}
