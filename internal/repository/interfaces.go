package repository

import (
	"context"
	"time"

	"github.com/dom/sleep-tracker/internal/domain"
	"github.com/google/uuid"
)

// UserRepository stores accounts. A taken display name surfaces as
// domain.ErrDisplayNameTaken; lookups that miss return gorm.ErrRecordNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByDisplayName(ctx context.Context, displayName string) (*domain.User, error)
}

// AuthSessionRepository stores refresh sessions.
type AuthSessionRepository interface {
	Create(ctx context.Context, session *domain.AuthSession) error
	// GetByUserID returns the user's newest refresh session.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.AuthSession, error)
	// Delete removes one session and returns gorm.ErrRecordNotFound when it
	// was already gone, so a refresh token is spent at most once.
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

// SleepSessionRepository persists sleep sessions. Implementations enforce at
// most one open session per user at the storage layer and report a violation
// as domain.ErrActiveSessionExists.
type SleepSessionRepository interface {
	Create(ctx context.Context, session *domain.SleepSession) error
	GetOpenByUserID(ctx context.Context, userID uuid.UUID) (*domain.SleepSession, error)
	// CloseOpen locks the user's open session, applies close and persists the
	// result atomically. close must not touch storage.
	CloseOpen(ctx context.Context, userID uuid.UUID, close func(*domain.SleepSession) error) (*domain.SleepSession, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.SleepSession, error)
	// ListCompletedByUserIDs returns closed sessions of the given users that
	// started at or after since, with the owning User preloaded.
	ListCompletedByUserIDs(ctx context.Context, userIDs []uuid.UUID, since time.Time) ([]*domain.SleepSession, error)
}

// FollowRepository persists the directed follow edge relation. Duplicate
// edges surface as domain.ErrAlreadyFollowing.
type FollowRepository interface {
	Create(ctx context.Context, follow *domain.Follow) error
	Delete(ctx context.Context, followerID, followedID uuid.UUID) error
	ListFollowing(ctx context.Context, userID uuid.UUID) ([]*domain.User, error)
	ListFollowers(ctx context.Context, userID uuid.UUID) ([]*domain.User, error)
	ListFollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type Repositories struct {
	User         UserRepository
	AuthSession  AuthSessionRepository
	SleepSession SleepSessionRepository
	Follow       FollowRepository
}
