package match

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"jobscout/internal/core/ats"
	"jobscout/internal/store"
)

func TestMatchStored(t *testing.T) {
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()

	urls := []string{
		"https://boards.greenhouse.io/a/jobs/1",
		"https://boards.greenhouse.io/a/jobs/2",
		"https://boards.greenhouse.io/a/jobs/3",
	}
	var seeded []store.Link
	for _, u := range urls {
		seeded = append(seeded, store.Link{URL: u, HostType: ats.Greenhouse, Source: "t", DiscoveredAt: time.Now().UTC()})
	}
	if _, err := st.InsertIgnoringDuplicates(ctx, seeded); err != nil {
		t.Fatalf("seeding: %v", err)
	}
	links, err := st.FindLinks(ctx, "", 10)
	if err != nil || len(links) != 3 {
		t.Fatalf("FindLinks: %v", err)
	}

	records := []store.JobRecord{
		{LinkID: links[0].ID, Requirements: []string{"Go", "SQL"}, Success: true, ScrapedAt: time.Now().UTC()},
		{LinkID: links[1].ID, Requirements: []string{"Rust"}, Success: true, ScrapedAt: time.Now().UTC()},
		// Failure records never enter matching.
		{LinkID: links[2].ID, Requirements: []string{"Go"}, Success: false, ScrapedAt: time.Now().UTC()},
	}
	for _, r := range records {
		if err := st.UpsertJob(ctx, r); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	profile := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(profile, []byte("skills:\n  - Go\n  - SQL\n"), 0o644); err != nil {
		t.Fatalf("writing profile: %v", err)
	}
	svc := NewService(st, profile)

	// Skills come from the profile when the caller supplies none.
	matches, err := svc.MatchStored(ctx, nil, 0)
	if err != nil {
		t.Fatalf("MatchStored: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches (failure record excluded), got %d", len(matches))
	}
	if matches[0].Score != 100 || matches[0].Job.LinkID != links[0].ID {
		t.Errorf("best match = %+v", matches[0])
	}

	capped, err := svc.MatchStored(ctx, []string{"go"}, 1)
	if err != nil {
		t.Fatalf("MatchStored with limit: %v", err)
	}
	if len(capped) != 1 {
		t.Fatalf("limit not applied: %d matches", len(capped))
	}
}
