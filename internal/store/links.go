package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"jobscout/internal/core/ats"
)

// LinkStatus is the lifecycle state of a discovered link.
type LinkStatus string

const (
	StatusNew     LinkStatus = "new"
	StatusClaimed LinkStatus = "claimed"
	StatusScraped LinkStatus = "scraped"
	StatusError   LinkStatus = "error"
)

// ErrTerminalStatus is returned when a transition is attempted out of a
// terminal state (scraped or error).
var ErrTerminalStatus = errors.New("link is in a terminal status")

// ErrLinkNotFound is returned when a status update targets an unknown link id.
var ErrLinkNotFound = errors.New("link not found")

// Link is a validated, deduplicated, classified posting URL tracked through
// the scrape lifecycle.
type Link struct {
	ID            int64
	URL           string
	HostType      ats.HostType
	Source        string
	Status        LinkStatus
	DiscoveredAt  time.Time
	ScrapedAt     *time.Time
	LastError     *string
	LastCheckedAt *time.Time
}

// InsertIgnoringDuplicates batch-inserts links with status new. A link whose
// URL already exists is silently skipped; only operational errors fail the
// batch. Returns the number of rows actually inserted.
func (s *Store) InsertIgnoringDuplicates(ctx context.Context, links []Link) (int, error) {
	if len(links) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning insert transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO job_links
		(url, host_type, source, status, discovered_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, l := range links {
		res, err := stmt.ExecContext(ctx, l.URL, string(l.HostType), l.Source, string(StatusNew), l.DiscoveredAt.UTC())
		if err != nil {
			return 0, fmt.Errorf("inserting link %s: %w", l.URL, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing insert: %w", err)
	}
	return inserted, nil
}

// TakeUnscraped atomically claims up to limit links with status new, oldest
// first, moving them to claimed so no two workers process the same link.
func (s *Store) TakeUnscraped(ctx context.Context, limit int) ([]Link, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning claim transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT id, url, host_type, source, status, discovered_at
		FROM job_links WHERE status = ? ORDER BY discovered_at, id LIMIT ?`,
		string(StatusNew), limit)
	if err != nil {
		return nil, fmt.Errorf("selecting unscraped links: %w", err)
	}

	var links []Link
	for rows.Next() {
		var l Link
		var host, status string
		if err := rows.Scan(&l.ID, &l.URL, &host, &l.Source, &status, &l.DiscoveredAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning link row: %w", err)
		}
		l.HostType = ats.HostType(host)
		l.Status = LinkStatus(status)
		links = append(links, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating link rows: %w", err)
	}

	for i := range links {
		if _, err := tx.ExecContext(ctx, `UPDATE job_links SET status = ? WHERE id = ?`,
			string(StatusClaimed), links[i].ID); err != nil {
			return nil, fmt.Errorf("claiming link %d: %w", links[i].ID, err)
		}
		links[i].Status = StatusClaimed
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing claim: %w", err)
	}
	return links, nil
}

// MarkScraped transitions a claimed (or new) link to scraped and stamps
// scraped_at. Terminal states are never left.
func (s *Store) MarkScraped(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE job_links
		SET status = ?, scraped_at = ?, last_error = NULL
		WHERE id = ? AND status IN (?, ?)`,
		string(StatusScraped), time.Now().UTC(), id, string(StatusNew), string(StatusClaimed))
	if err != nil {
		return fmt.Errorf("marking link %d scraped: %w", id, err)
	}
	return s.checkTransition(ctx, res, id)
}

// MarkError transitions a claimed (or new) link to error, recording the
// message and a checked-at timestamp. Errored links are not retried
// automatically.
func (s *Store) MarkError(ctx context.Context, id int64, message string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE job_links
		SET status = ?, last_error = ?, last_checked_at = ?
		WHERE id = ? AND status IN (?, ?)`,
		string(StatusError), message, time.Now().UTC(), id, string(StatusNew), string(StatusClaimed))
	if err != nil {
		return fmt.Errorf("marking link %d errored: %w", id, err)
	}
	return s.checkTransition(ctx, res, id)
}

// Release returns a claimed link to new, leaving it eligible for a later
// claim. Used when extraction is cancelled mid-flight. Releasing a link that
// is already new is a no-op; releasing a terminal link fails.
func (s *Store) Release(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE job_links SET status = ? WHERE id = ? AND status = ?`,
		string(StatusNew), id, string(StatusClaimed))
	if err != nil {
		return fmt.Errorf("releasing link %d: %w", id, err)
	}
	return s.checkTransition(ctx, res, id)
}

func (s *Store) checkTransition(ctx context.Context, res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}
	var status string
	err = s.db.QueryRowContext(ctx, `SELECT status FROM job_links WHERE id = ?`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("link %d: %w", id, ErrLinkNotFound)
	}
	if err != nil {
		return fmt.Errorf("reading status of link %d: %w", id, err)
	}
	switch LinkStatus(status) {
	case StatusScraped, StatusError:
		return fmt.Errorf("link %d has status %s: %w", id, status, ErrTerminalStatus)
	}
	// Zero rows on a non-terminal link: another writer got there first
	// (e.g. Release on a link already back to new). Treat as a no-op.
	return nil
}

// LinkExists reports whether a URL is already tracked.
func (s *Store) LinkExists(ctx context.Context, url string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM job_links WHERE url = ?`, url).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking link existence: %w", err)
	}
	return true, nil
}

// FindLinks returns up to limit tracked links, newest-discovered first,
// optionally filtered by status. Consumed by the reporting layer.
func (s *Store) FindLinks(ctx context.Context, status LinkStatus, limit int) ([]Link, error) {
	query := `SELECT id, url, host_type, source, status, discovered_at, scraped_at, last_error, last_checked_at
		FROM job_links`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY discovered_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying links: %w", err)
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		var l Link
		var host, st string
		if err := rows.Scan(&l.ID, &l.URL, &host, &l.Source, &st, &l.DiscoveredAt, &l.ScrapedAt, &l.LastError, &l.LastCheckedAt); err != nil {
			return nil, fmt.Errorf("scanning link row: %w", err)
		}
		l.HostType = ats.HostType(host)
		l.Status = LinkStatus(st)
		links = append(links, l)
	}
	return links, rows.Err()
}

// CountLinksByStatus returns link counts keyed by lifecycle status.
func (s *Store) CountLinksByStatus(ctx context.Context) (map[LinkStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM job_links GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting links: %w", err)
	}
	defer rows.Close()

	counts := make(map[LinkStatus]int)
	for rows.Next() {
		var st string
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, fmt.Errorf("scanning count row: %w", err)
		}
		counts[LinkStatus(st)] = n
	}
	return counts, rows.Err()
}
