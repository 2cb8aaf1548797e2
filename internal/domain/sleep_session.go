package domain

import (
	"time"

	"github.com/google/uuid"
)

// SleepSession is one sleep interval of a user. It is open while EndTime is
// nil and becomes immutable once closed.
type SleepSession struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID         uuid.UUID  `json:"userId" gorm:"type:uuid;not null"`
	StartTime      time.Time  `json:"startTime" gorm:"not null"`
	EndTime        *time.Time `json:"endTime"`
	DurationMicros *int64     `json:"-" gorm:"column:duration_us"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// NormalizeTime converts t to UTC at the precision Postgres stores, so a
// duration computed in memory equals the one derived from stored columns.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// NewSleepSession creates an open session for userID starting at startTime.
func NewSleepSession(userID uuid.UUID, startTime, now time.Time) (*SleepSession, error) {
	if userID == uuid.Nil {
		return nil, Validation("user_id is required")
	}
	if startTime.IsZero() {
		return nil, Validation("start_time is required")
	}

	createdAt := NormalizeTime(now)
	return &SleepSession{
		ID:        uuid.New(),
		UserID:    userID,
		StartTime: NormalizeTime(startTime),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// IsOpen reports whether the session has not been clocked out yet.
func (s *SleepSession) IsOpen() bool {
	return s.EndTime == nil
}

// Close sets the end time and derives the duration. Either both are set or
// the session is left untouched.
func (s *SleepSession) Close(endTime, now time.Time) error {
	if !s.IsOpen() {
		return ErrNoActiveSession
	}
	if endTime.IsZero() {
		return Validation("end_time is required")
	}

	end := NormalizeTime(endTime)
	if !end.After(s.StartTime) {
		return Validation("end_time must be after start_time")
	}

	micros := end.Sub(s.StartTime).Microseconds()
	s.EndTime = &end
	s.DurationMicros = &micros
	s.UpdatedAt = NormalizeTime(now)
	return nil
}

// Duration returns the session length; ok is false while the session is open.
func (s *SleepSession) Duration() (d time.Duration, ok bool) {
	if s.DurationMicros == nil {
		return 0, false
	}
	return time.Duration(*s.DurationMicros) * time.Microsecond, true
}
