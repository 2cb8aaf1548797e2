package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/sleep-tracker/internal/clock"
	"github.com/dom/sleep-tracker/internal/domain"
	"github.com/dom/sleep-tracker/internal/repository/postgres"
	"github.com/dom/sleep-tracker/internal/service"
	"github.com/dom/sleep-tracker/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedWindow = 7 * 24 * time.Hour

func newFeedService(t *testing.T) (*service.FeedService, *testutil.TestDB) {
	t.Helper()
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	return service.NewFeedService(repos.Follow, repos.SleepSession, clock.NewMock(testutil.TestNow), feedWindow), testDB
}

func closedSession(start time.Time, d time.Duration) *domain.SleepSession {
	s, _ := domain.NewSleepSession(uuid.New(), start, start)
	_ = s.Close(start.Add(d), start.Add(d))
	return s
}

func TestRankFeed(t *testing.T) {
	now := testutil.TestNow
	long := closedSession(now.Add(-48*time.Hour), 9*time.Hour)
	earlyTie := closedSession(now.Add(-72*time.Hour), 7*time.Hour)
	lateTie := closedSession(now.Add(-24*time.Hour), 7*time.Hour)
	short := closedSession(now.Add(-12*time.Hour), 5*time.Hour)

	sameA := closedSession(now.Add(-96*time.Hour), 6*time.Hour)
	sameB := closedSession(now.Add(-96*time.Hour), 6*time.Hour)
	sameA.ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	sameB.ID = uuid.MustParse("00000000-0000-0000-0000-000000000002")

	entries := []domain.FeedEntry{
		{Session: short}, {Session: sameB}, {Session: earlyTie},
		{Session: long}, {Session: sameA}, {Session: lateTie},
	}
	service.RankFeed(entries)

	got := make([]*domain.SleepSession, len(entries))
	for i, e := range entries {
		got[i] = e.Session
	}
	assert.Equal(t, []*domain.SleepSession{long, lateTie, earlyTie, sameA, sameB, short}, got)
}

func TestFeedService_WindowExcludesOldSessions(t *testing.T) {
	feedService, testDB := newFeedService(t)
	ctx := context.Background()

	a, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	b, _ := testutil.NewUserBuilder().WithDisplayName("bob").Build(t, testDB.DB)
	testutil.CreateFollow(t, testDB.DB, a, b)

	recent := testutil.NewSleepSessionBuilder().WithUser(b).
		StartedAt(testutil.TestNow.Add(-2 * 24 * time.Hour)).Lasting(8 * time.Hour).
		Build(t, testDB.DB)
	testutil.NewSleepSessionBuilder().WithUser(b).
		StartedAt(testutil.TestNow.Add(-10 * 24 * time.Hour)).Lasting(9 * time.Hour).
		Build(t, testDB.DB)

	feed, err := feedService.FollowingFeed(ctx, a.ID, nil)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, recent.ID, feed[0].Session.ID)
	assert.Equal(t, domain.UserRef{ID: b.ID, DisplayName: "bob"}, feed[0].Owner)
	d, ok := feed[0].Session.Duration()
	require.True(t, ok)
	assert.Equal(t, 8*time.Hour, d)
}

func TestFeedService_RanksByDuration(t *testing.T) {
	feedService, testDB := newFeedService(t)
	ctx := context.Background()

	a, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	b, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	c, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	testutil.CreateFollow(t, testDB.DB, a, b)
	testutil.CreateFollow(t, testDB.DB, a, c)

	bSession := testutil.NewSleepSessionBuilder().WithUser(b).
		StartedAt(testutil.TestNow.Add(-30 * time.Hour)).Lasting(6 * time.Hour).
		Build(t, testDB.DB)
	cSession := testutil.NewSleepSessionBuilder().WithUser(c).
		StartedAt(testutil.TestNow.Add(-54 * time.Hour)).Lasting(8 * time.Hour).
		Build(t, testDB.DB)

	feed, err := feedService.FollowingFeed(ctx, a.ID, nil)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, cSession.ID, feed[0].Session.ID)
	assert.Equal(t, c.ID, feed[0].Owner.ID)
	assert.Equal(t, bSession.ID, feed[1].Session.ID)
	assert.Equal(t, b.ID, feed[1].Owner.ID)
}

func TestFeedService_NoFollows(t *testing.T) {
	feedService, testDB := newFeedService(t)
	ctx := context.Background()

	a, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	// Someone else's sleep never leaks into an empty feed
	testutil.NewSleepSessionBuilder().Build(t, testDB.DB)

	feed, err := feedService.FollowingFeed(ctx, a.ID, nil)
	require.NoError(t, err)
	assert.NotNil(t, feed)
	assert.Empty(t, feed)
}

func TestFeedService_Exclusions(t *testing.T) {
	feedService, testDB := newFeedService(t)
	ctx := context.Background()

	a, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	followed, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	stranger, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	follower, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	testutil.CreateFollow(t, testDB.DB, a, followed)
	testutil.CreateFollow(t, testDB.DB, follower, a)

	// Open session of a followed user
	testutil.NewSleepSessionBuilder().WithUser(followed).
		StartedAt(testutil.TestNow.Add(-2 * time.Hour)).Open().
		Build(t, testDB.DB)
	// Users not followed by a
	testutil.NewSleepSessionBuilder().WithUser(stranger).Build(t, testDB.DB)
	testutil.NewSleepSessionBuilder().WithUser(follower).Build(t, testDB.DB)
	// a's own sleep
	testutil.NewSleepSessionBuilder().WithUser(a).Build(t, testDB.DB)

	feed, err := feedService.FollowingFeed(ctx, a.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestFeedService_ExplicitWindow(t *testing.T) {
	feedService, testDB := newFeedService(t)
	ctx := context.Background()

	a, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	b, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	testutil.CreateFollow(t, testDB.DB, a, b)

	boundary := testutil.TestNow.Add(-3 * 24 * time.Hour)
	atBoundary := testutil.NewSleepSessionBuilder().WithUser(b).
		StartedAt(boundary).Lasting(7 * time.Hour).
		Build(t, testDB.DB)
	testutil.NewSleepSessionBuilder().WithUser(b).
		StartedAt(boundary.Add(-time.Minute)).Lasting(10 * time.Hour).
		Build(t, testDB.DB)
	inside := testutil.NewSleepSessionBuilder().WithUser(b).
		StartedAt(testutil.TestNow.Add(-20 * time.Hour)).Lasting(9 * time.Hour).
		Build(t, testDB.DB)

	feed, err := feedService.FollowingFeed(ctx, a.ID, &boundary)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, inside.ID, feed[0].Session.ID)
	assert.Equal(t, atBoundary.ID, feed[1].Session.ID)

	for i := 1; i < len(feed); i++ {
		prev, _ := feed[i-1].Session.Duration()
		cur, _ := feed[i].Session.Duration()
		assert.GreaterOrEqual(t, prev, cur)
	}
}

func TestFeedService_WindowStart(t *testing.T) {
	clk := clock.NewMock(testutil.TestNow)
	feedService := service.NewFeedService(nil, nil, clk, feedWindow)

	assert.True(t, feedService.WindowStart().Equal(testutil.TestNow.Add(-feedWindow)))

	clk.Advance(24 * time.Hour)
	assert.True(t, feedService.WindowStart().Equal(testutil.TestNow.Add(-6*24*time.Hour)))
}
