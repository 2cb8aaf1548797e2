package postgres

import (
	"context"

	"github.com/dom/sleep-tracker/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// followRepository stores the single follows edge table. Following and
// followers are the two directions of the same rows.
type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *followRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, follow *domain.Follow) error {
	return translateError(r.db.WithContext(ctx).Create(follow).Error)
}

func (r *followRepository) Delete(ctx context.Context, followerID, followedID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&domain.Follow{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFollowing
	}
	return nil
}

// userPublicColumns leaves the password hash out of graph listings.
const userPublicColumns = "users.id, users.display_name, users.created_at, users.updated_at"

// ListFollowing returns the users userID follows.
func (r *followRepository) ListFollowing(ctx context.Context, userID uuid.UUID) ([]*domain.User, error) {
	var users []*domain.User
	err := r.db.WithContext(ctx).
		Select(userPublicColumns).
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC, users.id").
		Find(&users).Error
	if err != nil {
		return nil, translateError(err)
	}
	return users, nil
}

// ListFollowers returns the users following userID.
func (r *followRepository) ListFollowers(ctx context.Context, userID uuid.UUID) ([]*domain.User, error) {
	var users []*domain.User
	err := r.db.WithContext(ctx).
		Select(userPublicColumns).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", userID).
		Order("follows.created_at DESC, users.id").
		Find(&users).Error
	if err != nil {
		return nil, translateError(err)
	}
	return users, nil
}

func (r *followRepository) ListFollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&domain.Follow{}).
		Where("follower_id = ?", userID).
		Order("followed_id").
		Pluck("followed_id", &ids).Error
	if err != nil {
		return nil, translateError(err)
	}
	return ids, nil
}
