package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestVisitsAndStats(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	visits := []Visit{
		{HashedIP: "aaaa", Path: "/", Timestamp: now.Add(-time.Hour)},
		{HashedIP: "aaaa", Path: "/", Timestamp: now.Add(-2 * time.Hour)},
		{HashedIP: "bbbb", Path: "/", Locale: "en", Timestamp: now.AddDate(0, 0, -3)},
		{HashedIP: "cccc", Path: "/", Timestamp: now.AddDate(0, 0, -30)},
	}
	for _, v := range visits {
		require.NoError(t, s.RecordVisit(ctx, v))
	}

	subs := []Submission{
		{Outcome: OutcomeQueued, Channels: []string{"telegram", "email"}, HashedIP: "aaaa", Timestamp: now},
		{Outcome: OutcomeQueued, Channels: []string{"telegram"}, HashedIP: "bbbb", Timestamp: now},
		{Outcome: OutcomeFailed, Channels: []string{"phone"}, HashedIP: "bbbb", Timestamp: now},
		{Outcome: OutcomeInvalid, Channels: []string{"telegram"}, HashedIP: "cccc", Timestamp: now},
	}
	for _, sub := range subs {
		require.NoError(t, s.RecordSubmission(ctx, sub))
	}

	stats, err := s.Stats(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalVisitors)
	assert.Equal(t, int64(3), stats.UniqueVisitors)
	assert.Equal(t, int64(2), stats.VisitorsToday)
	assert.Equal(t, int64(3), stats.VisitorsThisWeek)
	assert.Equal(t, int64(4), stats.TotalSubmissions)
	assert.Equal(t, int64(2), stats.Queued)
	assert.Equal(t, int64(1), stats.Failed)
	assert.Equal(t, int64(1), stats.Invalid)
	assert.Equal(t, []ChannelStat{{"telegram", 2}, {"email", 1}}, stats.TopChannels)
	require.Len(t, stats.RecentVisitors, 4)
	assert.Equal(t, now.Add(-time.Hour), stats.RecentVisitors[0].Timestamp)

	recent, err := s.RecentSubmissions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 4)
	assert.Equal(t, OutcomeInvalid, recent[0].Outcome, "same timestamp falls back to id order")
	assert.Equal(t, []string{"telegram", "email"}, recent[3].Channels)
}

func TestCleanupVisitors(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	now := time.Now().UTC()

	require.NoError(t, s.RecordVisit(ctx, Visit{HashedIP: "old", Timestamp: now.AddDate(-2, 0, 0)}))
	require.NoError(t, s.RecordVisit(ctx, Visit{HashedIP: "new", Timestamp: now}))

	n, err := s.CleanupVisitors(ctx, now.AddDate(-1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	left, err := s.RecentVisitors(ctx, 10)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "new", left[0].HashedIP)
}
