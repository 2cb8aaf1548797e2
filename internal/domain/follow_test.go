package domain_test

import (
	"testing"
	"time"

	"github.com/dom/sleep-tracker/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFollow(t *testing.T) {
	now := time.Date(2025, 2, 15, 12, 0, 0, 0, time.UTC)
	a, b := uuid.New(), uuid.New()

	tests := []struct {
		name     string
		follower uuid.UUID
		followed uuid.UUID
		wantErr  error
	}{
		{name: "distinct users", follower: a, followed: b},
		{name: "self follow", follower: a, followed: a, wantErr: domain.ErrSelfFollow},
		{name: "missing follower", follower: uuid.Nil, followed: b, wantErr: domain.ErrValidation},
		{name: "missing followed", follower: a, followed: uuid.Nil, wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			follow, err := domain.NewFollow(tt.follower, tt.followed, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.follower, follow.FollowerID)
			assert.Equal(t, tt.followed, follow.FollowedID)
			assert.Equal(t, now, follow.CreatedAt)
		})
	}
}
