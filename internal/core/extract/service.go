// Package extract drains claimed job links through the renderer and the
// model, persisting one job record per link.
package extract

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"jobscout/internal/core/fetch"
	"jobscout/internal/logger"
	"jobscout/internal/store"
)

// PageFetcher renders a posting URL into text.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (*fetch.Page, error)
}

// Extractor asks the model for structured fields from page text.
type Extractor interface {
	ExtractJob(ctx context.Context, pageText, sourceURL string) (string, error)
}

type Service struct {
	log         *logger.Logger
	fetcher     PageFetcher
	llm         Extractor
	store       *store.Store
	concurrency int
}

// Result summarizes one extraction batch.
type Result struct {
	RunID     string `json:"run_id"`
	Claimed   int    `json:"claimed"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Released  int    `json:"released"`
}

func NewService(fetcher PageFetcher, llm Extractor, st *store.Store, concurrency int) *Service {
	if concurrency <= 0 {
		concurrency = 2
	}
	return &Service{
		log:         logger.New("ExtractService"),
		fetcher:     fetcher,
		llm:         llm,
		store:       st,
		concurrency: concurrency,
	}
}

// ExtractBatch claims up to limit unscraped links and processes them
// concurrently. Each link fails or succeeds on its own; one bad posting never
// aborts the batch. On cancellation, unprocessed claims are returned to new.
func (s *Service) ExtractBatch(ctx context.Context, runID string, limit int) (*Result, error) {
	links, err := s.store.TakeUnscraped(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("claiming links: %w", err)
	}

	result := &Result{RunID: runID, Claimed: len(links)}
	if len(links) == 0 {
		s.log.LogInfof("run %s: nothing to extract", runID)
		return result, nil
	}

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)

	for _, link := range links {
		link := link
		g.Go(func() error {
			outcome := s.processLink(ctx, link)
			mu.Lock()
			switch outcome {
			case outcomeSuccess:
				result.Succeeded++
			case outcomeFailed:
				result.Failed++
			case outcomeReleased:
				result.Released++
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	s.log.LogInfof("run %s: %d claimed, %d succeeded, %d failed, %d released",
		runID, result.Claimed, result.Succeeded, result.Failed, result.Released)
	return result, nil
}

type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeFailed
	outcomeReleased
)

func (s *Service) processLink(ctx context.Context, link store.Link) outcome {
	if ctx.Err() != nil {
		return s.release(link)
	}

	page, err := s.fetcher.FetchPage(ctx, link.URL)
	if err != nil {
		return s.fail(ctx, link, fmt.Errorf("fetch: %w", err))
	}

	raw, err := s.llm.ExtractJob(ctx, TruncateContent(page.Text), link.URL)
	if err != nil {
		return s.fail(ctx, link, fmt.Errorf("model call: %w", err))
	}

	ext, err := ParseModelResponse(raw)
	if err != nil {
		return s.fail(ctx, link, err)
	}

	rec := ext.Record(link.ID, link.URL, time.Now().UTC())
	if err := s.store.UpsertJob(ctx, rec); err != nil {
		return s.fail(ctx, link, fmt.Errorf("persist: %w", err))
	}
	if err := s.store.MarkScraped(ctx, link.ID); err != nil {
		s.log.LogErrorf("link %d extracted but not marked scraped: %v", link.ID, err)
	}
	return outcomeSuccess
}

// fail records a failure record and moves the link to error. A failure caused
// by cancellation releases the claim instead, so the link is retried later.
func (s *Service) fail(ctx context.Context, link store.Link, cause error) outcome {
	if ctx.Err() != nil {
		return s.release(link)
	}
	s.log.LogWarnf("link %d (%s): %v", link.ID, link.URL, cause)

	desc := "Scraping failed: " + cause.Error()
	rec := store.JobRecord{
		LinkID:         link.ID,
		Description:    &desc,
		ApplicationURL: &link.URL,
		ScrapedAt:      time.Now().UTC(),
		Success:        false,
	}
	// Store writes below run on a fresh context so a cancellation arriving
	// mid-failure still leaves consistent state behind.
	bg, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.UpsertJob(bg, rec); err != nil {
		s.log.LogErrorf("recording failure for link %d: %v", link.ID, err)
	}
	if err := s.store.MarkError(bg, link.ID, cause.Error()); err != nil {
		s.log.LogErrorf("marking link %d errored: %v", link.ID, err)
	}
	return outcomeFailed
}

func (s *Service) release(link store.Link) outcome {
	bg, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.Release(bg, link.ID); err != nil {
		s.log.LogErrorf("releasing link %d: %v", link.ID, err)
	}
	return outcomeReleased
}
