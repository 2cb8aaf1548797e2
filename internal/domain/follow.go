package domain

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge: Follower sees Followed's sleep sessions in their feed.
type Follow struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FollowerID uuid.UUID `json:"followerId" gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair"`
	FollowedID uuid.UUID `json:"followedId" gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair;index"`
	CreatedAt  time.Time `json:"createdAt"`

	Follower *User `json:"follower,omitempty" gorm:"foreignKey:FollowerID"`
	Followed *User `json:"followed,omitempty" gorm:"foreignKey:FollowedID"`
}

// NewFollow builds the edge follower -> followed.
func NewFollow(followerID, followedID uuid.UUID, now time.Time) (*Follow, error) {
	if followerID == uuid.Nil || followedID == uuid.Nil {
		return nil, Validation("follower_id and followed_id are required")
	}
	if followerID == followedID {
		return nil, ErrSelfFollow
	}
	return &Follow{
		ID:         uuid.New(),
		FollowerID: followerID,
		FollowedID: followedID,
		CreatedAt:  NormalizeTime(now),
	}, nil
}
