package service

import (
	"bytes"
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/dom/sleep-tracker/internal/clock"
	"github.com/dom/sleep-tracker/internal/domain"
	"github.com/dom/sleep-tracker/internal/repository"
	"github.com/google/uuid"
)

// FeedService answers "recent completed sleep of the users I follow".
type FeedService struct {
	followRepo  repository.FollowRepository
	sessionRepo repository.SleepSessionRepository
	clock       clock.Clock
	window      time.Duration
}

func NewFeedService(followRepo repository.FollowRepository, sessionRepo repository.SleepSessionRepository, clk clock.Clock, window time.Duration) *FeedService {
	return &FeedService{
		followRepo:  followRepo,
		sessionRepo: sessionRepo,
		clock:       clk,
		window:      window,
	}
}

// WindowStart is the default lower bound on start time for the feed.
func (s *FeedService) WindowStart() time.Time {
	return s.clock.Now().Add(-s.window)
}

// FollowingFeed returns the closed sessions of users followed by userID that
// started at or after windowStart (nil means the default window), longest
// first. Following nobody yields an empty feed.
func (s *FeedService) FollowingFeed(ctx context.Context, userID uuid.UUID, windowStart *time.Time) ([]domain.FeedEntry, error) {
	since := s.WindowStart()
	if windowStart != nil {
		since = *windowStart
	}

	followed, err := s.followRepo.ListFollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(followed) == 0 {
		return []domain.FeedEntry{}, nil
	}

	sessions, err := s.sessionRepo.ListCompletedByUserIDs(ctx, followed, since)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.FeedEntry, 0, len(sessions))
	for _, session := range sessions {
		if session.IsOpen() || session.StartTime.Before(since) {
			continue
		}

		owner := domain.UserRef{ID: session.UserID}
		if session.User != nil {
			owner = session.User.Ref()
		}
		session.User = nil

		entries = append(entries, domain.FeedEntry{Session: session, Owner: owner})
	}

	RankFeed(entries)
	return entries, nil
}

// RankFeed orders entries by duration descending. Ties go to the later start
// time, then to the smaller session id, so the order is fully deterministic.
func RankFeed(entries []domain.FeedEntry) {
	slices.SortStableFunc(entries, func(a, b domain.FeedEntry) int {
		da, _ := a.Session.Duration()
		db, _ := b.Session.Duration()
		if c := cmp.Compare(db, da); c != 0 {
			return c
		}
		if c := b.Session.StartTime.Compare(a.Session.StartTime); c != 0 {
			return c
		}
		return bytes.Compare(a.Session.ID[:], b.Session.ID[:])
	})
}
