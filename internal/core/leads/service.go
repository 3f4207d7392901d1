// Package leads scrapes the aggregated listing table into raw Lead rows.
package leads

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobscout/internal/core/fetch"
	"jobscout/internal/logger"
)

// Fetcher renders a URL and returns its content.
type Fetcher interface {
	FetchPage(ctx context.Context, url string) (*fetch.Page, error)
}

type Service struct {
	log     *logger.Logger
	fetcher Fetcher
}

func NewService(fetcher Fetcher) *Service {
	return &Service{log: logger.New("LeadsService"), fetcher: fetcher}
}

// Collect fetches sourceURL and parses its listing table into leads. A page
// with no recognizable table yields an empty slice, not an error; the layout
// changing upstream should read as "nothing found", not a pipeline failure.
func (s *Service) Collect(ctx context.Context, sourceURL string) ([]Lead, error) {
	page, err := s.fetcher.FetchPage(ctx, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("fetching source page: %w", err)
	}

	leads, err := ParseListing(page.HTML, sourceURL)
	if err != nil {
		return nil, err
	}
	s.log.LogInfof("collected %d leads from %s", len(leads), sourceURL)
	return leads, nil
}

// ParseListing extracts leads from listing-page HTML. Exported separately so
// the parsing rules are testable without a browser.
func ParseListing(html, sourceURL string) ([]Lead, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing listing html: %w", err)
	}

	table := doc.Find("div#readme table, article.markdown-body table").First()
	if table.Length() == 0 {
		table = doc.Find("table").First()
	}
	if table.Length() == 0 {
		return []Lead{}, nil
	}

	var leads []Lead
	lastCompany := ""
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}

		company := parseCompany(cells.Eq(0), lastCompany)
		if company != "" {
			lastCompany = company
		}

		role := strings.TrimSpace(cells.Eq(1).Text())
		if company == "" || role == "" {
			return
		}
		location := parseLocation(cells.Eq(2))
		applyURL := parseApplyURL(cells.Eq(3))
		if applyURL == "" {
			return
		}

		leads = append(leads, Lead{
			Company:   company,
			Role:      role,
			Location:  location,
			ApplyURL:  applyURL,
			SourceURL: sourceURL,
		})
	})

	return leads, nil
}

// parseCompany reads the company cell. A "↳" marker means the row continues
// the previous company; anchor text is preferred over the raw cell text since
// the cell may carry badge images.
func parseCompany(cell *goquery.Selection, lastCompany string) string {
	text := strings.TrimSpace(cell.Text())
	if strings.HasPrefix(text, "↳") {
		return lastCompany
	}
	if anchor := cell.Find("a").First(); anchor.Length() > 0 {
		if t := strings.TrimSpace(anchor.Text()); t != "" {
			return t
		}
	}
	return text
}

// parseLocation keeps <br>-separated locations on separate lines.
func parseLocation(cell *goquery.Selection) string {
	htmlText, err := cell.Html()
	if err != nil {
		return strings.TrimSpace(cell.Text())
	}
	htmlText = strings.ReplaceAll(htmlText, "<br>", "\n")
	htmlText = strings.ReplaceAll(htmlText, "<br/>", "\n")
	htmlText = strings.ReplaceAll(htmlText, "<br />", "\n")
	frag, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return strings.TrimSpace(cell.Text())
	}
	return strings.TrimSpace(frag.Text())
}

// parseApplyURL picks the first direct application link in the apply cell,
// skipping aggregator-owned redirect links.
func parseApplyURL(cell *goquery.Selection) string {
	var href string
	cell.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		h, _ := a.Attr("href")
		if h == "" || strings.Contains(h, "simplify.jobs") {
			return true
		}
		href = h
		return false
	})
	return href
}
