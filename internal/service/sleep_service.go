package service

import (
	"context"
	"time"

	"github.com/dom/sleep-tracker/internal/clock"
	"github.com/dom/sleep-tracker/internal/domain"
	"github.com/dom/sleep-tracker/internal/repository"
	"github.com/google/uuid"
)

// SleepService owns the clock-in / clock-out lifecycle of sleep sessions.
type SleepService struct {
	sessionRepo repository.SleepSessionRepository
	clock       clock.Clock
}

func NewSleepService(sessionRepo repository.SleepSessionRepository, clk clock.Clock) *SleepService {
	return &SleepService{
		sessionRepo: sessionRepo,
		clock:       clk,
	}
}

// Open clocks the user in. It fails with domain.ErrActiveSessionExists when
// the user already has an open session; the check is the storage layer's
// unique index, so concurrent opens cannot both succeed.
func (s *SleepService) Open(ctx context.Context, userID uuid.UUID, startTime time.Time) (*domain.SleepSession, error) {
	session, err := domain.NewSleepSession(userID, startTime, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Close clocks the user out of their open session and derives its duration.
func (s *SleepService) Close(ctx context.Context, userID uuid.UUID, endTime time.Time) (*domain.SleepSession, error) {
	now := s.clock.Now()
	return s.sessionRepo.CloseOpen(ctx, userID, func(session *domain.SleepSession) error {
		return session.Close(endTime, now)
	})
}

// Active returns the user's open session, or domain.ErrNoActiveSession.
func (s *SleepService) Active(ctx context.Context, userID uuid.UUID) (*domain.SleepSession, error) {
	return s.sessionRepo.GetOpenByUserID(ctx, userID)
}

// List returns the user's sessions, most recently created first.
func (s *SleepService) List(ctx context.Context, userID uuid.UUID) ([]*domain.SleepSession, error) {
	return s.sessionRepo.ListByUserID(ctx, userID)
}
