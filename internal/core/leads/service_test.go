package leads

import (
	"context"
	"testing"

	"jobscout/internal/core/fetch"
)

type fakeFetcher struct {
	html string
	err  error
}

func (f *fakeFetcher) FetchPage(_ context.Context, url string) (*fetch.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &fetch.Page{URL: url, HTML: f.html, Text: f.html}, nil
}

const listingHTML = `
<div id="readme">
 <table>
  <thead><tr><th>Company</th><th>Role</th><th>Location</th><th>Application</th></tr></thead>
  <tbody>
   <tr>
    <td><a href="https://acme.example">Acme Corp</a></td>
    <td>Software Engineer</td>
    <td>NYC<br>Remote</td>
    <td><a href="https://simplify.jobs/p/123">Simplify</a>
        <a href="https://jobs.ashbyhq.com/acme/abc-123">Apply</a></td>
   </tr>
   <tr>
    <td>↳</td>
    <td>Platform Engineer</td>
    <td>SF</td>
    <td><a href="https://boards.greenhouse.io/acme/jobs/400123">Apply</a></td>
   </tr>
   <tr>
    <td>Closed Inc</td>
    <td>Data Scientist</td>
    <td>Austin, TX</td>
    <td>🔒</td>
   </tr>
   <tr>
    <td>Short Row</td>
    <td>Incomplete</td>
   </tr>
  </tbody>
 </table>
</div>`

func TestCollect(t *testing.T) {
	svc := NewService(&fakeFetcher{html: listingHTML})

	leads, err := svc.Collect(context.Background(), "https://example.com/listings")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(leads) != 2 {
		t.Fatalf("expected 2 leads, got %d: %+v", len(leads), leads)
	}

	first := leads[0]
	if first.Company != "Acme Corp" {
		t.Errorf("company = %q, want Acme Corp", first.Company)
	}
	if first.Role != "Software Engineer" {
		t.Errorf("role = %q", first.Role)
	}
	if first.Location != "NYC\nRemote" {
		t.Errorf("location = %q, want multi-line", first.Location)
	}
	if first.ApplyURL != "https://jobs.ashbyhq.com/acme/abc-123" {
		t.Errorf("simplify link should be skipped, got %q", first.ApplyURL)
	}
	if first.SourceURL != "https://example.com/listings" {
		t.Errorf("source url = %q", first.SourceURL)
	}

	second := leads[1]
	if second.Company != "Acme Corp" {
		t.Errorf("continuation row should inherit company, got %q", second.Company)
	}
	if second.ApplyURL != "https://boards.greenhouse.io/acme/jobs/400123" {
		t.Errorf("apply url = %q", second.ApplyURL)
	}
}

func TestParseListingNoTable(t *testing.T) {
	leads, err := ParseListing("<html><body><p>nothing here</p></body></html>", "https://x")
	if err != nil {
		t.Fatalf("ParseListing: %v", err)
	}
	if len(leads) != 0 {
		t.Fatalf("expected no leads, got %d", len(leads))
	}
}

func TestParseListingLockedRowSkipped(t *testing.T) {
	leads, err := ParseListing(listingHTML, "https://x")
	if err != nil {
		t.Fatalf("ParseListing: %v", err)
	}
	for _, l := range leads {
		if l.Company == "Closed Inc" {
			t.Fatalf("row without application link should be skipped: %+v", l)
		}
	}
}
