package service

import (
	"context"
	"errors"

	"github.com/dom/sleep-tracker/internal/clock"
	"github.com/dom/sleep-tracker/internal/domain"
	"github.com/dom/sleep-tracker/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FollowService manages the directed follow graph.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	clock      clock.Clock
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository, clk clock.Clock) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		clock:      clk,
	}
}

// Follow creates the edge followerID -> followedID.
func (s *FollowService) Follow(ctx context.Context, followerID, followedID uuid.UUID) (*domain.Follow, error) {
	if followerID == followedID {
		return nil, domain.ErrSelfFollow
	}

	target, err := s.resolveTarget(ctx, followedID)
	if err != nil {
		return nil, err
	}

	follow, err := domain.NewFollow(followerID, target.ID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.followRepo.Create(ctx, follow); err != nil {
		return nil, err
	}

	follow.Followed = target
	return follow, nil
}

// Unfollow removes the edge followerID -> followedID.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID uuid.UUID) error {
	if _, err := s.resolveTarget(ctx, followedID); err != nil {
		return err
	}
	return s.followRepo.Delete(ctx, followerID, followedID)
}

// ListFollowing returns the users userID follows.
func (s *FollowService) ListFollowing(ctx context.Context, userID uuid.UUID) ([]*domain.User, error) {
	return s.followRepo.ListFollowing(ctx, userID)
}

// ListFollowers returns the users following userID.
func (s *FollowService) ListFollowers(ctx context.Context, userID uuid.UUID) ([]*domain.User, error) {
	return s.followRepo.ListFollowers(ctx, userID)
}

func (s *FollowService) resolveTarget(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if id == uuid.Nil {
		return nil, domain.ErrTargetNotFound
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTargetNotFound
	}
	if err != nil {
		return nil, domain.Storage(err)
	}
	return user, nil
}
