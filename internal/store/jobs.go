package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// JobRecord is the structured result of extracting fields from a posting
// page. At most one record exists per link; re-scraping overwrites it.
type JobRecord struct {
	ID             int64     `json:"id"`
	LinkID         int64     `json:"link_id"`
	Title          *string   `json:"title"`
	Company        *string   `json:"company"`
	Location       *string   `json:"location"`
	RemoteType     *string   `json:"remote_type"`
	Salary         *string   `json:"salary"`
	Description    *string   `json:"description"`
	Requirements   []string  `json:"requirements"`
	JobType        *string   `json:"job_type"`
	PostedDate     *string   `json:"posted_date"`
	ApplicationURL *string   `json:"application_url"`
	ScrapedAt      time.Time `json:"scraped_at"`
	Success        bool      `json:"success"`
}

// UpsertJob inserts or replaces the job record for rec.LinkID.
func (s *Store) UpsertJob(ctx context.Context, rec JobRecord) error {
	reqs := rec.Requirements
	if reqs == nil {
		reqs = []string{}
	}
	reqJSON, err := json.Marshal(reqs)
	if err != nil {
		return fmt.Errorf("encoding requirements: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO job_records
		(link_id, title, company, location, remote_type, salary, description,
		 requirements, job_type, posted_date, application_url, scraped_at, success)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(link_id) DO UPDATE SET
			title = excluded.title,
			company = excluded.company,
			location = excluded.location,
			remote_type = excluded.remote_type,
			salary = excluded.salary,
			description = excluded.description,
			requirements = excluded.requirements,
			job_type = excluded.job_type,
			posted_date = excluded.posted_date,
			application_url = excluded.application_url,
			scraped_at = excluded.scraped_at,
			success = excluded.success`,
		rec.LinkID, rec.Title, rec.Company, rec.Location, rec.RemoteType, rec.Salary,
		rec.Description, string(reqJSON), rec.JobType, rec.PostedDate, rec.ApplicationURL,
		rec.ScrapedAt.UTC(), rec.Success)
	if err != nil {
		return fmt.Errorf("upserting job record for link %d: %w", rec.LinkID, err)
	}
	return nil
}

// FindAllJobs returns every job record in insertion order.
func (s *Store) FindAllJobs(ctx context.Context) ([]JobRecord, error) {
	return s.queryJobs(ctx, `SELECT id, link_id, title, company, location, remote_type,
		salary, description, requirements, job_type, posted_date, application_url,
		scraped_at, success FROM job_records ORDER BY id`)
}

// FindJobsByLinkIDs returns the job records for the given link ids, in
// insertion order. Unknown ids are simply absent from the result.
func (s *Store) FindJobsByLinkIDs(ctx context.Context, linkIDs []int64) ([]JobRecord, error) {
	if len(linkIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(linkIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(linkIDs))
	for i, id := range linkIDs {
		args[i] = id
	}
	return s.queryJobs(ctx, `SELECT id, link_id, title, company, location, remote_type,
		salary, description, requirements, job_type, posted_date, application_url,
		scraped_at, success FROM job_records WHERE link_id IN (`+placeholders+`) ORDER BY id`, args...)
}

// FindJobByLinkID returns the job record for one link, or ErrJobNotFound.
func (s *Store) FindJobByLinkID(ctx context.Context, linkID int64) (*JobRecord, error) {
	jobs, err := s.FindJobsByLinkIDs(ctx, []int64{linkID})
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, ErrJobNotFound
	}
	return &jobs[0], nil
}

// ErrJobNotFound is returned when no job record exists for a link.
var ErrJobNotFound = errors.New("job record not found")

func (s *Store) queryJobs(ctx context.Context, query string, args ...any) ([]JobRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying job records: %w", err)
	}
	defer rows.Close()

	var jobs []JobRecord
	for rows.Next() {
		rec, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, rec)
	}
	return jobs, rows.Err()
}

func scanJob(rows *sql.Rows) (JobRecord, error) {
	var rec JobRecord
	var reqJSON string
	if err := rows.Scan(&rec.ID, &rec.LinkID, &rec.Title, &rec.Company, &rec.Location,
		&rec.RemoteType, &rec.Salary, &rec.Description, &reqJSON, &rec.JobType,
		&rec.PostedDate, &rec.ApplicationURL, &rec.ScrapedAt, &rec.Success); err != nil {
		return rec, fmt.Errorf("scanning job record: %w", err)
	}
	if err := json.Unmarshal([]byte(reqJSON), &rec.Requirements); err != nil {
		// A corrupt requirements column degrades to "none" rather than
		// failing the whole read.
		rec.Requirements = []string{}
	}
	if rec.Requirements == nil {
		rec.Requirements = []string{}
	}
	return rec, nil
}
