// Package ingest turns raw leads into deduplicated, classified job links.
package ingest

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"jobscout/internal/core/ats"
	"jobscout/internal/core/leads"
	"jobscout/internal/logger"
	"jobscout/internal/store"
)

// Collector produces raw leads from a listing source.
type Collector interface {
	Collect(ctx context.Context, sourceURL string) ([]leads.Lead, error)
}

type Service struct {
	log       *logger.Logger
	collector Collector
	store     *store.Store
}

// Result summarizes one ingest run.
type Result struct {
	RunID      string `json:"run_id"`
	SourceURL  string `json:"source_url"`
	LeadsFound int    `json:"leads_found"`
	Accepted   int    `json:"accepted"`
	Inserted   int    `json:"inserted"`
	Skipped    int    `json:"skipped"`
}

func NewService(collector Collector, st *store.Store) *Service {
	return &Service{log: logger.New("IngestService"), collector: collector, store: st}
}

// Ingest collects leads from sourceURL, keeps only normalized URLs that look
// like real postings on a known ATS, and records them. Links already tracked
// are counted as skipped, not re-inserted.
func (s *Service) Ingest(ctx context.Context, runID, sourceURL string) (*Result, error) {
	found, err := s.collector.Collect(ctx, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("collecting leads: %w", err)
	}

	now := time.Now().UTC()
	var accepted []store.Link
	for _, lead := range found {
		normalized := ats.NormalizeApplyURL(lead.ApplyURL)
		u, err := url.Parse(normalized)
		if err != nil || !ats.IsPostingURL(u) {
			continue
		}
		accepted = append(accepted, store.Link{
			URL:          normalized,
			HostType:     ats.Classify(u.Host),
			Source:       sourceURL,
			DiscoveredAt: now,
		})
	}

	inserted, err := s.store.InsertIgnoringDuplicates(ctx, accepted)
	if err != nil {
		return nil, fmt.Errorf("storing links: %w", err)
	}

	result := &Result{
		RunID:      runID,
		SourceURL:  sourceURL,
		LeadsFound: len(found),
		Accepted:   len(accepted),
		Inserted:   inserted,
		Skipped:    len(found) - len(accepted),
	}
	s.log.LogInfof("run %s: %d leads, %d accepted, %d new", runID, result.LeadsFound, result.Accepted, result.Inserted)
	return result, nil
}
