package ingest

import (
	"context"
	"testing"

	"jobscout/internal/core/ats"
	"jobscout/internal/core/leads"
	"jobscout/internal/store"
)

type fakeCollector struct {
	leads []leads.Lead
	err   error
}

func (f *fakeCollector) Collect(context.Context, string) ([]leads.Lead, error) {
	return f.leads, f.err
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestIngestFiltersAndStores(t *testing.T) {
	collector := &fakeCollector{leads: []leads.Lead{
		// normalized, valid posting
		{Company: "Acme", ApplyURL: "https://boards.greenhouse.io/acme/jobs/400123?utm_source=x&ref=Simplify"},
		// skip-listed host
		{Company: "Agg", ApplyURL: "https://simplify.jobs/p/abc"},
		// known vendor, index path
		{Company: "Lever", ApplyURL: "https://jobs.lever.co/acme"},
		// unknown host
		{Company: "Own", ApplyURL: "https://careers.example.com/jobs/1"},
	}}
	st := newTestStore(t)
	svc := NewService(collector, st)

	res, err := svc.Ingest(context.Background(), "run-1", "https://src")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.LeadsFound != 4 || res.Accepted != 1 || res.Inserted != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	links, err := st.FindLinks(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("FindLinks: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("expected 1 stored link, got %d", len(links))
	}
	if links[0].URL != "https://boards.greenhouse.io/acme/jobs/400123" {
		t.Errorf("tracking params should be stripped, got %q", links[0].URL)
	}
	if links[0].HostType != ats.Greenhouse {
		t.Errorf("host type = %v", links[0].HostType)
	}
	if links[0].Status != store.StatusNew {
		t.Errorf("status = %v", links[0].Status)
	}
}

func TestIngestIdempotent(t *testing.T) {
	collector := &fakeCollector{leads: []leads.Lead{
		{ApplyURL: "https://boards.greenhouse.io/acme/jobs/400123"},
	}}
	st := newTestStore(t)
	svc := NewService(collector, st)

	if _, err := svc.Ingest(context.Background(), "run-1", "https://src"); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	res, err := svc.Ingest(context.Background(), "run-2", "https://src")
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if res.Inserted != 0 {
		t.Fatalf("duplicate run inserted %d links", res.Inserted)
	}
}
