package ats

import (
	"net/url"
	"regexp"
	"strings"
)

// Redirectors and aggregators whose links never point at a posting directly.
var skipHosts = []string{
	"github.com", "simplify.jobs", "app.simplify.jobs", "link.simplify.jobs",
	"docs.google.com", "bit.ly", "t.co", "lnkd.in", "medium.com",
}

// Per-vendor path shapes that look like an actual job posting. Listing pages
// mix index and search links with true postings; only the latter pass.
var postingPaths = map[HostType]*regexp.Regexp{
	Greenhouse:      regexp.MustCompile(`^/[^/]+/jobs/\d+(/.*)?$`),
	Lever:           regexp.MustCompile(`^/[^/]+/[0-9a-f\-]{8,}(/.*)?$`),
	Ashby:           regexp.MustCompile(`^/(jobs|[^/]+/jobs)/[0-9A-Za-z\-]+(/.*)?$`),
	Workday:         regexp.MustCompile(`^/.+/job/.+/(JR|R|REQ|Job)-?[0-9A-Za-z\-]+.*$`),
	SmartRecruiters: regexp.MustCompile(`^/[^/]+/[^/]*-?\d+-.+$`),
	Breezy:          regexp.MustCompile(`^/p/[0-9a-z]{6,}(-.+)?$`),
	Jobvite:         regexp.MustCompile(`^/.*/job/[^/]+(/.*)?$`),
	ICIMS:           regexp.MustCompile(`^/jobs/\d+/.+$`),
	Eightfold:       regexp.MustCompile(`^/.*/careers/job/\d+.*$`),
	Workable:        regexp.MustCompile(`^/[^/]+/j/[0-9A-Z]{6,}(/.*)?$`),
	Wellfound:       regexp.MustCompile(`^/(l|job)/\d+.*$`),
}

// IsPostingURL reports whether u points directly at a job posting on a known
// ATS. Skip-listed hosts, unknown vendors, and index/search paths all fail.
func IsPostingURL(u *url.URL) bool {
	if u == nil || !strings.HasPrefix(u.Scheme, "http") {
		return false
	}
	host := strings.ToLower(u.Host)
	if host == "" {
		return false
	}
	for _, s := range skipHosts {
		if strings.Contains(host, s) {
			return false
		}
	}

	vendor := Classify(host)
	if vendor == Other {
		return false
	}

	shape, ok := postingPaths[vendor]
	if !ok {
		return false
	}
	return shape.MatchString(u.Path)
}
