// Package ats classifies job-posting URLs by applicant tracking system vendor
// and decides whether a URL points at a real posting rather than an index or
// redirector page.
package ats

import "strings"

// HostType tags the ATS vendor hosting a posting.
type HostType string

const (
	Ashby           HostType = "ASHBY"
	Greenhouse      HostType = "GREENHOUSE"
	Lever           HostType = "LEVER"
	Workday         HostType = "WORKDAY"
	SmartRecruiters HostType = "SMARTRECRUITERS"
	Breezy          HostType = "BREEZY"
	Jobvite         HostType = "JOBVITE"
	ICIMS           HostType = "ICIMS"
	Eightfold       HostType = "EIGHTFOLD"
	Workable        HostType = "WORKABLE"
	Wellfound       HostType = "WELLFOUND"
	Other           HostType = "OTHER"
)

// hostFragments maps vendor domain fragments to their tag. Order matters only
// in that the first matching fragment wins; the fragments are mutually
// exclusive in practice.
var hostFragments = []struct {
	fragment string
	host     HostType
}{
	{"ashbyhq.com", Ashby},
	{"boards.greenhouse.io", Greenhouse},
	{"greenhouse.io", Greenhouse},
	{"lever.co", Lever},
	{"myworkdayjobs.com", Workday},
	{"workdayjobs.com", Workday},
	{"smartrecruiters.com", SmartRecruiters},
	{"breezy.hr", Breezy},
	{"jobvite.com", Jobvite},
	{"icims.com", ICIMS},
	{"eightfold.ai", Eightfold},
	{"workable.com", Workable},
	{"wellfound.com", Wellfound},
	{"angel.co", Wellfound},
}

// Classify maps a hostname to its ATS vendor tag. An empty or unrecognized
// host classifies as Other.
func Classify(host string) HostType {
	if host == "" {
		return Other
	}
	h := strings.ToLower(host)
	for _, entry := range hostFragments {
		if strings.Contains(h, entry.fragment) {
			return entry.host
		}
	}
	return Other
}
