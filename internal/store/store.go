// Package store keeps privacy-conscious site metrics in a sqlite file:
// hashed visitor hits and contact submission outcomes. Message text and
// contact handles are never stored.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Outcome is how a contact submission attempt ended.
type Outcome string

const (
	OutcomeQueued  Outcome = "queued"
	OutcomeInvalid Outcome = "invalid"
	OutcomeFailed  Outcome = "failed"
)

// Visit is one tracked page view. HashedIP is salted, never a raw address.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Locale    string    `json:"locale,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Submission is the audit trail of one contact attempt.
type Submission struct {
	ID        int64     `json:"id"`
	Outcome   Outcome   `json:"outcome"`
	Channels  []string  `json:"channels"`
	HashedIP  string    `json:"hashed_ip"`
	Timestamp time.Time `json:"timestamp"`
}

type ChannelStat struct {
	Channel string `json:"channel"`
	Count   int64  `json:"count"`
}

type Stats struct {
	TotalVisitors    int64         `json:"total_visitors"`
	UniqueVisitors   int64         `json:"unique_visitors"`
	VisitorsToday    int64         `json:"visitors_today"`
	VisitorsThisWeek int64         `json:"visitors_this_week"`
	TotalSubmissions int64         `json:"total_submissions"`
	Queued           int64         `json:"queued"`
	Failed           int64         `json:"failed"`
	Invalid          int64         `json:"invalid"`
	TopChannels      []ChannelStat `json:"top_channels"`
	RecentVisitors   []Visit       `json:"recent_visitors"`
}

const schema = `
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	path TEXT,
	locale TEXT,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_visitors_created_at ON visitors(created_at);

CREATE TABLE IF NOT EXISTS submissions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	outcome TEXT NOT NULL,
	channels TEXT NOT NULL,
	hashed_ip TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_submissions_created_at ON submissions(created_at);
`

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the sqlite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // sqlite

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) RecordVisit(ctx context.Context, v Visit) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, locale, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, v.HashedIP, v.UserAgent, v.Path, v.Locale, v.Timestamp.Unix())
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

func (s *Store) RecordSubmission(ctx context.Context, sub Submission) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (outcome, channels, hashed_ip, created_at)
		VALUES (?, ?, ?, ?)
	`, string(sub.Outcome), strings.Join(sub.Channels, ","), sub.HashedIP, sub.Timestamp.Unix())
	if err != nil {
		return fmt.Errorf("record submission: %w", err)
	}
	return nil
}

// CleanupVisitors deletes visitor rows older than before.
func (s *Store) CleanupVisitors(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE created_at < ?`, before.Unix())
	if err != nil {
		return 0, fmt.Errorf("cleanup visitors: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		log.Printf("Privacy cleanup: removed %d visitor records before %s", n, before.Format(time.DateOnly))
	}
	return n, nil
}

func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), COALESCE(locale, ''), created_at
		FROM visitors
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query visitors: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		var ts int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Locale, &ts); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		v.Timestamp = time.Unix(ts, 0).UTC()
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

func (s *Store) RecentSubmissions(ctx context.Context, limit int) ([]Submission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, outcome, channels, hashed_ip, created_at
		FROM submissions
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var sub Submission
		var outcome, channels string
		var ts int64
		if err := rows.Scan(&sub.ID, &outcome, &channels, &sub.HashedIP, &ts); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		sub.Outcome = Outcome(outcome)
		sub.Channels = splitChannels(channels)
		sub.Timestamp = time.Unix(ts, 0).UTC()
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Stats aggregates the dashboard numbers relative to now.
func (s *Store) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	stats := &Stats{}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.AddDate(0, 0, -7)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE created_at >= ?`, []any{dayStart.Unix()}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE created_at >= ?`, []any{weekAgo.Unix()}},
		{&stats.TotalSubmissions, `SELECT COUNT(*) FROM submissions`, nil},
		{&stats.Queued, `SELECT COUNT(*) FROM submissions WHERE outcome = ?`, []any{string(OutcomeQueued)}},
		{&stats.Failed, `SELECT COUNT(*) FROM submissions WHERE outcome = ?`, []any{string(OutcomeFailed)}},
		{&stats.Invalid, `SELECT COUNT(*) FROM submissions WHERE outcome = ?`, []any{string(OutcomeInvalid)}},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	top, err := s.channelCounts(ctx)
	if err != nil {
		return nil, err
	}
	stats.TopChannels = top

	stats.RecentVisitors, err = s.RecentVisitors(ctx, 50)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// channelCounts tallies channels over queued submissions.
func (s *Store) channelCounts(ctx context.Context) ([]ChannelStat, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT channels FROM submissions WHERE outcome = ?`, string(OutcomeQueued))
	if err != nil {
		return nil, fmt.Errorf("query channel usage: %w", err)
	}
	defer rows.Close()

	tally := make(map[string]int64)
	for rows.Next() {
		var channels string
		if err := rows.Scan(&channels); err != nil {
			return nil, fmt.Errorf("scan channel usage: %w", err)
		}
		for _, ch := range splitChannels(channels) {
			tally[ch]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]ChannelStat, 0, len(tally))
	for ch, n := range tally {
		out = append(out, ChannelStat{Channel: ch, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Channel < out[j].Channel
	})
	return out, nil
}

func splitChannels(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
