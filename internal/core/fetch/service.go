// Package fetch renders pages through a headless browser and extracts the
// visible text a job posting actually shows.
package fetch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	html2markdown "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/playwright-community/playwright-go"
	"golang.org/x/time/rate"

	"jobscout/internal/logger"
	rds "jobscout/internal/platform/redis"
)

// Page is the rendered content of one fetched URL.
type Page struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	HTML     string `json:"html"`
	Selector string `json:"selector"`
}

// contentSelectors is the prioritized chain tried for visible text. The first
// candidate whose text exceeds minContentLength wins; a near-empty shell
// (cookie banner, loading skeleton) falls through to the next candidate.
var contentSelectors = []string{
	"main",
	"[role='main']",
	".job-description",
	".job-details",
	".posting",
	".content",
	"article",
	"#content",
	"body",
}

const minContentLength = 500

// cacheTTL bounds how long rendered text is reused across extraction runs.
const cacheTTL = 15 * time.Minute

type Options struct {
	Headless    bool
	NavTimeout  time.Duration
	SettleDelay time.Duration
	// RatePerSecond caps navigations to stay polite with target sites.
	RatePerSecond float64
}

// Service drives a shared headless Chromium instance. Each fetch opens and
// closes its own page context, so concurrent fetches do not share state.
type Service struct {
	log     *logger.Logger
	redis   *rds.Service
	opts    Options
	limiter *rate.Limiter

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
}

func NewService(opts Options, redis *rds.Service) *Service {
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = 30 * time.Second
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = 2 * time.Second
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 1
	}
	return &Service{
		log:     logger.New("FetchService"),
		redis:   redis,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1),
	}
}

// Close tears down the browser and the playwright driver.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser != nil {
		_ = s.browser.Close()
		s.browser = nil
	}
	if s.pw != nil {
		err := s.pw.Stop()
		s.pw = nil
		return err
	}
	return nil
}

func (s *Service) ensureBrowser() (playwright.Browser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser != nil {
		return s.browser, nil
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("playwright run: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(s.opts.Headless),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-blink-features=AutomationControlled",
		},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch: %w", err)
	}
	s.pw = pw
	s.browser = browser
	return browser, nil
}

// FetchPage renders url and returns its visible text, preferring the first
// content selector that yields substantial text. Results are cached briefly
// so a re-run does not re-render unchanged pages.
func (s *Service) FetchPage(ctx context.Context, url string) (*Page, error) {
	if cached := s.getCached(ctx, url); cached != nil {
		s.log.LogDebugf("cache hit for %s", url)
		return cached, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := s.ensureBrowser()
	if err != nil {
		return nil, err
	}

	browserCtx, err := browser.NewContext()
	if err != nil {
		return nil, fmt.Errorf("new browser context: %w", err)
	}
	defer browserCtx.Close()

	page, err := browserCtx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("new page: %w", err)
	}

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(s.opts.NavTimeout.Milliseconds())),
	}); err != nil {
		return nil, fmt.Errorf("goto failed: %w", err)
	}

	// Bounded wait for network idle, then a short settle for lazy content.
	// Idle never arriving is not fatal; we take whatever rendered.
	if err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(float64(s.opts.NavTimeout.Milliseconds())),
	}); err != nil {
		s.log.LogWarnf("network idle not reached for %s: %v", url, err)
	}
	page.WaitForTimeout(float64(s.opts.SettleDelay.Milliseconds()))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	title, _ := page.Title()
	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("reading page content: %w", err)
	}

	text, selector := s.extractText(page)
	if strings.TrimSpace(text) == "" {
		// Last resort when even body text is empty: flatten the HTML.
		text = htmlToText(html)
		selector = "html"
	}

	result := &Page{URL: url, Title: title, Text: text, HTML: html, Selector: selector}
	s.cache(ctx, url, result)
	s.log.LogInfof("fetched %s via %q (%d chars)", url, selector, len(text))
	return result, nil
}

// extractText walks the selector chain and returns the first candidate with
// enough text, falling back to full body text.
func (s *Service) extractText(page playwright.Page) (string, string) {
	for _, selector := range contentSelectors {
		locator := page.Locator(selector).First()
		count, err := locator.Count()
		if err != nil || count == 0 {
			continue
		}
		text, err := locator.InnerText()
		if err != nil {
			continue
		}
		if len(text) > minContentLength {
			return text, selector
		}
	}

	body, err := page.Locator("body").First().InnerText()
	if err != nil {
		return "", ""
	}
	return body, "body"
}

// htmlToText converts raw HTML into readable text via markdown conversion.
func htmlToText(html string) string {
	conv := html2markdown.NewConverter("", true, nil)
	md, err := conv.ConvertString(html)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(md)
}

// Cache helpers

func (s *Service) getCached(ctx context.Context, url string) *Page {
	if s.redis == nil {
		return nil
	}
	var p Page
	if err := s.redis.CacheGet(ctx, cacheKey(url), &p); err != nil {
		return nil
	}
	return &p
}

func (s *Service) cache(ctx context.Context, url string, p *Page) {
	if s.redis == nil {
		return
	}
	_ = s.redis.CacheSet(ctx, cacheKey(url), p, cacheTTL)
}

func cacheKey(url string) string {
	safe := strings.NewReplacer(":", "_", "/", "_", "?", "_", "&", "_").Replace(url)
	return "page:" + safe
}
