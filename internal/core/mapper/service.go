// Package mapper crawls a company careers site and records any posting links
// it finds, feeding the same pipeline as listing ingestion.
package mapper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly"

	"jobscout/internal/core/ats"
	"jobscout/internal/logger"
	"jobscout/internal/store"
)

const (
	defaultDepth   = 2
	maxDepth       = 4
	crawlParallel  = 2
	crawlDelay     = 500 * time.Millisecond
	crawlUserAgent = "Mozilla/5.0 (compatible; jobscout/1.0)"
)

type Service struct {
	log   *logger.Logger
	store *store.Store
}

// Result summarizes one careers-site crawl.
type Result struct {
	StartURL string `json:"start_url"`
	Visited  int    `json:"visited"`
	Found    int    `json:"found"`
	Inserted int    `json:"inserted"`
}

func NewService(st *store.Store) *Service {
	return &Service{log: logger.New("MapperService"), store: st}
}

// MapSite crawls startURL up to depth, staying on the starting domain plus
// known ATS hosts, and stores every link that passes the posting filter.
func (s *Service) MapSite(ctx context.Context, startURL string, depth int) (*Result, error) {
	start, err := url.Parse(startURL)
	if err != nil || !strings.HasPrefix(start.Scheme, "http") {
		return nil, fmt.Errorf("invalid start url %q", startURL)
	}
	if depth <= 0 {
		depth = defaultDepth
	}
	if depth > maxDepth {
		depth = maxDepth
	}

	var (
		mu      sync.Mutex
		visited int
		found   = make(map[string]ats.HostType)
	)

	c := colly.NewCollector(
		colly.MaxDepth(depth),
		colly.Async(true),
		colly.UserAgent(crawlUserAgent),
	)
	if err := c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: crawlParallel, RandomDelay: crawlDelay}); err != nil {
		return nil, fmt.Errorf("configuring crawl limits: %w", err)
	}

	startHost := strings.ToLower(start.Host)
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		mu.Lock()
		visited++
		mu.Unlock()
	})

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		raw := e.Request.AbsoluteURL(e.Attr("href"))
		if raw == "" {
			return
		}
		normalized := ats.NormalizeApplyURL(raw)
		u, err := url.Parse(normalized)
		if err != nil {
			return
		}

		if ats.IsPostingURL(u) {
			mu.Lock()
			found[normalized] = ats.Classify(u.Host)
			mu.Unlock()
			return
		}

		// Follow links only within the starting site or onto a known ATS
		// board; anything else is off-topic.
		host := strings.ToLower(u.Host)
		if host == startHost || ats.Classify(host) != ats.Other {
			_ = e.Request.Visit(raw)
		}
	})

	if err := c.Visit(startURL); err != nil {
		return nil, fmt.Errorf("starting crawl at %s: %w", startURL, err)
	}
	c.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	links := make([]store.Link, 0, len(found))
	for u, host := range found {
		links = append(links, store.Link{URL: u, HostType: host, Source: startURL, DiscoveredAt: now})
	}
	inserted, err := s.store.InsertIgnoringDuplicates(ctx, links)
	if err != nil {
		return nil, fmt.Errorf("storing crawled links: %w", err)
	}

	result := &Result{StartURL: startURL, Visited: visited, Found: len(found), Inserted: inserted}
	s.log.LogInfof("mapped %s: %d pages, %d postings, %d new", startURL, visited, len(found), inserted)
	return result, nil
}
