// Package match scores stored job records against a candidate's skills.
package match

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"jobscout/internal/store"
)

// ErrNoSkills is returned when scoring is requested without any skills.
var ErrNoSkills = errors.New("no candidate skills provided")

// Match is one scored job, best matches first.
type Match struct {
	Job         store.JobRecord `json:"job"`
	Score       float64         `json:"score"`
	Matched     []string        `json:"matched"`
	Missing     []string        `json:"missing"`
	Explanation string          `json:"explanation"`
}

// synonyms maps a skill spelling to equivalent spellings seen in postings.
var synonyms = map[string][]string{
	"js":         {"javascript"},
	"javascript": {"js"},
	"ts":         {"typescript"},
	"typescript": {"ts"},
	"k8s":        {"kubernetes"},
	"kubernetes": {"k8s"},
	"postgres":   {"postgresql"},
	"postgresql": {"postgres"},
	"react.js":   {"react", "reactjs"},
	"node.js":    {"node", "nodejs"},
}

// Score ranks jobs by the share of their requirements the candidate covers.
// Jobs with no stated requirements are left out entirely; a missing
// requirements list says nothing about fit. The order is stable for equal
// scores, so input order breaks ties.
func Score(candidateSkills []string, jobs []store.JobRecord) ([]Match, error) {
	variants := skillVariants(candidateSkills)
	if len(variants) == 0 {
		return nil, ErrNoSkills
	}

	var matches []Match
	for _, job := range jobs {
		if len(job.Requirements) == 0 {
			continue
		}

		var matched, missing []string
		for _, req := range job.Requirements {
			if requirementMatches(req, variants) {
				matched = append(matched, req)
			} else {
				missing = append(missing, req)
			}
		}

		score := math.Round(float64(len(matched))/float64(len(job.Requirements))*1000) / 10
		matches = append(matches, Match{
			Job:         job,
			Score:       score,
			Matched:     matched,
			Missing:     missing,
			Explanation: explain(matched, missing, len(job.Requirements)),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	return matches, nil
}

// skillVariants lowercases each skill and expands known synonym spellings.
func skillVariants(skills []string) [][]string {
	var out [][]string
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		out = append(out, append([]string{s}, synonyms[s]...))
	}
	return out
}

// requirementMatches reports whether any variant of any skill matches the
// requirement text. Containment runs both ways: "JavaScript ES6" covers a
// bare "JavaScript" requirement just as "PostgreSQL" covers "postgres".
func requirementMatches(requirement string, variants [][]string) bool {
	reqLower := strings.ToLower(strings.TrimSpace(requirement))
	if reqLower == "" {
		return false
	}
	for _, vs := range variants {
		for _, v := range vs {
			if reqLower == v || strings.Contains(reqLower, v) || strings.Contains(v, reqLower) {
				return true
			}
		}
	}
	return false
}

const explainTermLimit = 5

// explain builds a matched line and a missing line, each capped at a handful
// of terms. A line with nothing to report is omitted entirely.
func explain(matched, missing []string, total int) string {
	var lines []string
	if len(matched) > 0 {
		lines = append(lines, fmt.Sprintf("Matched %d of %d requirements%s", len(matched), total, termList(matched)))
	}
	if len(missing) > 0 {
		lines = append(lines, "Missing"+termList(missing))
	}
	return strings.Join(lines, "\n")
}

func termList(terms []string) string {
	if len(terms) == 0 {
		return ""
	}
	shown := terms
	extra := 0
	if len(shown) > explainTermLimit {
		extra = len(shown) - explainTermLimit
		shown = shown[:explainTermLimit]
	}
	out := ": " + strings.Join(shown, ", ")
	if extra > 0 {
		out += fmt.Sprintf(" and %d more", extra)
	}
	return out
}
