package match

import (
	"errors"
	"strings"
	"testing"

	"jobscout/internal/store"
)

func job(id int64, reqs ...string) store.JobRecord {
	return store.JobRecord{ID: id, LinkID: id, Requirements: reqs, Success: true}
}

func TestScoreRanksByCoverage(t *testing.T) {
	jobs := []store.JobRecord{
		job(1, "Go", "Kubernetes", "Terraform"),
		job(2, "Go", "SQL"),
		job(3, "Rust", "C++"),
	}

	matches, err := Score([]string{"go", "k8s", "sql"}, jobs)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}

	if matches[0].Job.ID != 2 || matches[0].Score != 100 {
		t.Errorf("best match = job %d score %v", matches[0].Job.ID, matches[0].Score)
	}
	if matches[1].Job.ID != 1 || matches[1].Score != 66.7 {
		t.Errorf("second match = job %d score %v", matches[1].Job.ID, matches[1].Score)
	}
	if matches[2].Job.ID != 3 || matches[2].Score != 0 {
		t.Errorf("last match = job %d score %v", matches[2].Job.ID, matches[2].Score)
	}
	if !strings.Contains(matches[1].Explanation, "Missing: Terraform") {
		t.Errorf("explanation = %q", matches[1].Explanation)
	}
	if strings.Contains(matches[0].Explanation, "Missing") {
		t.Errorf("full match should have no missing line: %q", matches[0].Explanation)
	}
	if matches[2].Explanation != "Missing: Rust, C++" {
		t.Errorf("zero-coverage match should carry only the missing line, got %q", matches[2].Explanation)
	}
}

func TestScoreSkillContainsRequirement(t *testing.T) {
	jobs := []store.JobRecord{job(1, "JavaScript", "Rust")}

	matches, err := Score([]string{"JavaScript ES6"}, jobs)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	m := matches[0]
	if m.Score != 50 {
		t.Fatalf("score = %v, matched %v", m.Score, m.Matched)
	}
	if len(m.Matched) != 1 || m.Matched[0] != "JavaScript" {
		t.Errorf("skill broader than requirement should still match it: %v", m.Matched)
	}
}

func TestScorePartialCoverage(t *testing.T) {
	jobs := []store.JobRecord{job(1, "python", "Docker", "AWS")}

	matches, err := Score([]string{"Python", "AWS"}, jobs)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	m := matches[0]
	if m.Score != 66.7 {
		t.Errorf("score = %v, want 66.7", m.Score)
	}
	if len(m.Matched) != 2 || m.Matched[0] != "python" || m.Matched[1] != "AWS" {
		t.Errorf("matched = %v", m.Matched)
	}
	if len(m.Missing) != 1 || m.Missing[0] != "Docker" {
		t.Errorf("missing = %v", m.Missing)
	}
}

func TestScoreSynonyms(t *testing.T) {
	jobs := []store.JobRecord{job(1, "JavaScript", "Node.js experience", "PostgreSQL")}

	matches, err := Score([]string{"JS", "node", "postgres"}, jobs)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	m := matches[0]
	if m.Score != 100 {
		t.Fatalf("score = %v, matched %v", m.Score, m.Matched)
	}
	// Matched terms keep the posting's casing.
	if m.Matched[0] != "JavaScript" {
		t.Errorf("matched = %v", m.Matched)
	}
}

func TestScoreSkipsJobsWithoutRequirements(t *testing.T) {
	jobs := []store.JobRecord{job(1), job(2, "Go")}

	matches, err := Score([]string{"go"}, jobs)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(matches) != 1 || matches[0].Job.ID != 2 {
		t.Fatalf("jobs without requirements should be excluded: %+v", matches)
	}
}

func TestScoreNoSkills(t *testing.T) {
	if _, err := Score(nil, []store.JobRecord{job(1, "Go")}); !errors.Is(err, ErrNoSkills) {
		t.Fatalf("err = %v, want ErrNoSkills", err)
	}
	if _, err := Score([]string{"  ", ""}, []store.JobRecord{job(1, "Go")}); !errors.Is(err, ErrNoSkills) {
		t.Fatalf("blank skills err = %v, want ErrNoSkills", err)
	}
}

func TestExplanationCapsTerms(t *testing.T) {
	jobs := []store.JobRecord{job(1, "Go", "SQL", "Docker", "Redis", "Kafka", "gRPC", "AWS")}

	matches, err := Score([]string{"go", "sql", "docker", "redis", "kafka", "grpc", "aws"}, jobs)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	exp := matches[0].Explanation
	if !strings.Contains(exp, "and 2 more") {
		t.Errorf("explanation = %q", exp)
	}
	if !strings.HasPrefix(exp, "Matched 7 of 7 requirements:") {
		t.Errorf("explanation = %q", exp)
	}
}
