package postgres

import (
	"context"

	"github.com/dom/sleep-tracker/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type authSessionRepository struct {
	db *gorm.DB
}

func NewAuthSessionRepository(db *gorm.DB) *authSessionRepository {
	return &authSessionRepository{db: db}
}

func (r *authSessionRepository) Create(ctx context.Context, session *domain.AuthSession) error {
	return translateError(r.db.WithContext(ctx).Create(session).Error)
}

// GetByUserID returns the newest refresh session. Older rows can only exist
// when a concurrent login slipped in between delete and insert.
func (r *authSessionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.AuthSession, error) {
	var session domain.AuthSession
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete spends a refresh session. Of two concurrent refreshes with the same
// token only one sees RowsAffected == 1.
func (r *authSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.AuthSession{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *authSessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).Delete(&domain.AuthSession{}, "user_id = ?", userID).Error)
}
