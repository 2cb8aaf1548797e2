package postgres

import (
	"errors"

	"github.com/dom/sleep-tracker/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names from migrations/.
const (
	constraintOneOpenSession     = "idx_sleep_sessions_one_open"
	constraintSessionEndAfterStr = "chk_sleep_sessions_end_after_start"
	constraintFollowPair         = "idx_follows_pair"
	constraintFollowNotSelf      = "chk_follows_not_self"
	constraintFollowFollowed     = "fk_follows_followed"
	constraintFollowFollower     = "fk_follows_follower"
	constraintSessionUser        = "fk_sleep_sessions_user"
	constraintUserDisplayName    = "idx_users_display_name"
)

// translateError maps constraint violations to the domain errors they enforce
// and wraps everything else as a storage failure.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.ConstraintName {
		case constraintOneOpenSession:
			return domain.ErrActiveSessionExists
		case constraintSessionEndAfterStr:
			return domain.Validation("end_time must be after start_time")
		case constraintFollowPair:
			return domain.ErrAlreadyFollowing
		case constraintFollowNotSelf:
			return domain.ErrSelfFollow
		case constraintFollowFollowed:
			return domain.ErrTargetNotFound
		case constraintFollowFollower, constraintSessionUser:
			return domain.ErrUserNotFound
		case constraintUserDisplayName:
			return domain.ErrDisplayNameTaken
		}
	}

	return domain.Storage(err)
}
