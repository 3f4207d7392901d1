package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func strptr(s string) *string { return &s }

func seedLink(t *testing.T, st *Store, url string) int64 {
	t.Helper()
	ctx := context.Background()
	if _, err := st.InsertIgnoringDuplicates(ctx, []Link{link(url)}); err != nil {
		t.Fatalf("seeding link: %v", err)
	}
	links, err := st.FindLinks(ctx, "", 1)
	if err != nil || len(links) == 0 {
		t.Fatalf("reading seeded link: %v", err)
	}
	return links[0].ID
}

func TestUpsertJobOverwrites(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	linkID := seedLink(t, st, "https://a.example/jobs/1")

	first := JobRecord{
		LinkID:       linkID,
		Title:        strptr("Engineer"),
		Requirements: []string{"Go"},
		ScrapedAt:    time.Now().UTC(),
		Success:      true,
	}
	if err := st.UpsertJob(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := first
	second.Title = strptr("Senior Engineer")
	second.Requirements = []string{"Go", "SQL"}
	if err := st.UpsertJob(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	jobs, err := st.FindAllJobs(ctx)
	if err != nil {
		t.Fatalf("FindAllJobs: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("re-scrape created a second record: %d", len(jobs))
	}
	if *jobs[0].Title != "Senior Engineer" || len(jobs[0].Requirements) != 2 {
		t.Errorf("record not overwritten: %+v", jobs[0])
	}
}

func TestUpsertJobNilFields(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	linkID := seedLink(t, st, "https://a.example/jobs/1")

	rec := JobRecord{LinkID: linkID, ScrapedAt: time.Now().UTC(), Success: false}
	if err := st.UpsertJob(ctx, rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := st.FindJobByLinkID(ctx, linkID)
	if err != nil {
		t.Fatalf("FindJobByLinkID: %v", err)
	}
	if got.Title != nil || got.Salary != nil {
		t.Errorf("nil fields round-tripped as %+v", got)
	}
	if got.Requirements == nil || len(got.Requirements) != 0 {
		t.Errorf("requirements = %#v, want empty slice", got.Requirements)
	}
}

func TestFindJobByLinkIDMissing(t *testing.T) {
	st := newTestStore(t)
	if _, err := st.FindJobByLinkID(context.Background(), 42); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("err = %v, want ErrJobNotFound", err)
	}
}

func TestFindJobsByLinkIDs(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if _, err := st.InsertIgnoringDuplicates(ctx, []Link{
		link("https://a.example/jobs/1"),
		link("https://a.example/jobs/2"),
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	links, err := st.FindLinks(ctx, "", 10)
	if err != nil || len(links) != 2 {
		t.Fatalf("FindLinks: %v", err)
	}

	for _, l := range links {
		rec := JobRecord{LinkID: l.ID, Title: strptr(l.URL), ScrapedAt: time.Now().UTC(), Success: true}
		if err := st.UpsertJob(ctx, rec); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	got, err := st.FindJobsByLinkIDs(ctx, []int64{links[0].ID, 9999})
	if err != nil {
		t.Fatalf("FindJobsByLinkIDs: %v", err)
	}
	if len(got) != 1 || got[0].LinkID != links[0].ID {
		t.Fatalf("got %+v", got)
	}
}
