package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dom/sleep-tracker/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	err := domain.Validation("end_time must be after start_time")

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.NotErrorIs(t, err, domain.ErrActiveSessionExists)
	assert.Equal(t, "end_time must be after start_time", err.Error())

	wrapped := fmt.Errorf("close session: %w", domain.ErrNoActiveSession)
	assert.ErrorIs(t, wrapped, domain.ErrNoActiveSession)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.ErrorKind
	}{
		{"validation", domain.Validation("bad"), domain.KindValidation},
		{"active session", domain.ErrActiveSessionExists, domain.KindConflict},
		{"self follow", domain.ErrSelfFollow, domain.KindConflict},
		{"already following", domain.ErrAlreadyFollowing, domain.KindConflict},
		{"no active session", domain.ErrNoActiveSession, domain.KindNotFound},
		{"not following", domain.ErrNotFollowing, domain.KindNotFound},
		{"target not found", domain.ErrTargetNotFound, domain.KindNotFound},
		{"wrapped storage", domain.Storage(errors.New("connection reset")), domain.KindStorage},
		{"plain error", errors.New("boom"), domain.KindStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.KindOf(tt.err))
		})
	}
}

func TestStorage(t *testing.T) {
	assert.NoError(t, domain.Storage(nil))

	cause := errors.New("connection reset")
	err := domain.Storage(cause)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, cause)

	assert.Same(t, domain.ErrAlreadyFollowing, domain.Storage(domain.ErrAlreadyFollowing))
}
