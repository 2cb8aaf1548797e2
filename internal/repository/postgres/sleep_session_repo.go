package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/dom/sleep-tracker/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sleepSessionRepository struct {
	db *gorm.DB
}

func NewSleepSessionRepository(db *gorm.DB) *sleepSessionRepository {
	return &sleepSessionRepository{db: db}
}

// Create inserts an open session. A second open session for the same user is
// rejected by idx_sleep_sessions_one_open, even across processes.
func (r *sleepSessionRepository) Create(ctx context.Context, session *domain.SleepSession) error {
	return translateError(r.db.WithContext(ctx).Create(session).Error)
}

func (r *sleepSessionRepository) GetOpenByUserID(ctx context.Context, userID uuid.UUID) (*domain.SleepSession, error) {
	var session domain.SleepSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND end_time IS NULL", userID).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNoActiveSession
	}
	if err != nil {
		return nil, translateError(err)
	}
	return &session, nil
}

func (r *sleepSessionRepository) CloseOpen(ctx context.Context, userID uuid.UUID, close func(*domain.SleepSession) error) (*domain.SleepSession, error) {
	var closed *domain.SleepSession

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session domain.SleepSession
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND end_time IS NULL", userID).
			First(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNoActiveSession
		}
		if err != nil {
			return err
		}

		if err := close(&session); err != nil {
			return err
		}

		result := tx.Model(&domain.SleepSession{}).
			Where("id = ? AND end_time IS NULL", session.ID).
			Updates(map[string]interface{}{
				"end_time":    session.EndTime,
				"duration_us": session.DurationMicros,
				"updated_at":  session.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return domain.ErrNoActiveSession
		}

		closed = &session
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}
	return closed, nil
}

// ListByUserID returns the user's sessions, most recently created first.
func (r *sleepSessionRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.SleepSession, error) {
	var sessions []*domain.SleepSession
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, translateError(err)
	}
	return sessions, nil
}

func (r *sleepSessionRepository) ListCompletedByUserIDs(ctx context.Context, userIDs []uuid.UUID, since time.Time) ([]*domain.SleepSession, error) {
	sessions := []*domain.SleepSession{}
	if len(userIDs) == 0 {
		return sessions, nil
	}

	err := r.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "display_name", "created_at")
		}).
		Where("user_id IN ?", userIDs).
		Where("start_time >= ?", since).
		Where("end_time IS NOT NULL").
		Order("duration_us DESC, start_time DESC, id").
		Find(&sessions).Error
	if err != nil {
		return nil, translateError(err)
	}
	return sessions, nil
}
