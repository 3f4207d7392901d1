package ats

import "testing"

func TestNormalizeApplyURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"strips utm keeps rest",
			"https://boards.greenhouse.io/acme/jobs/123?utm_source=x&id=5",
			"https://boards.greenhouse.io/acme/jobs/123?id=5",
		},
		{
			"strips ref simplify",
			"https://jobs.lever.co/acme/abc123def456?ref=Simplify",
			"https://jobs.lever.co/acme/abc123def456",
		},
		{
			"ref case insensitive",
			"https://jobs.lever.co/acme/abc123def456?ref=simplify&gh_src=x",
			"https://jobs.lever.co/acme/abc123def456?gh_src=x",
		},
		{
			"keeps unrelated ref",
			"https://example.com/apply?ref=newsletter",
			"https://example.com/apply?ref=newsletter",
		},
		{
			"utm key case insensitive",
			"https://example.com/apply?UTM_Campaign=summer&id=5",
			"https://example.com/apply?id=5",
		},
		{
			"preserves order of survivors",
			"https://example.com/apply?b=2&utm_medium=email&a=1",
			"https://example.com/apply?b=2&a=1",
		},
		{
			"no query unchanged",
			"https://example.com/apply",
			"https://example.com/apply",
		},
		{
			"fragment preserved",
			"https://example.com/apply?utm_source=x#team",
			"https://example.com/apply#team",
		},
		{
			"unparseable returned as-is",
			"http://exa mple.com/?utm_source=x",
			"http://exa mple.com/?utm_source=x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeApplyURL(tt.in); got != tt.want {
				t.Errorf("NormalizeApplyURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
