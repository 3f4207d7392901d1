package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"jobscout/internal/store"
)

// maxContentLength bounds the page text handed to the model.
const maxContentLength = 50_000

const truncationNotice = "\n\n[Content truncated for length]"

// ErrEmptyResponse is returned when the model produced nothing usable.
var ErrEmptyResponse = errors.New("model returned an empty extraction")

// Extraction mirrors the JSON contract the model is instructed to return.
// Every field is optional; null and absent both mean "not stated".
type Extraction struct {
	Title          *string `json:"title"`
	Company        *string `json:"company"`
	Location       *string `json:"location"`
	RemoteType     *string `json:"remote_type"`
	Salary         *string `json:"salary"`
	Description    *string `json:"description"`
	JobType        *string `json:"job_type"`
	PostedDate     *string `json:"posted_date"`
	ApplicationURL *string `json:"application_url"`

	// Requirements is decoded leniently: the model occasionally returns a
	// string or object here instead of an array, which degrades to none.
	Requirements []string `json:"-"`

	RawRequirements json.RawMessage `json:"requirements"`
}

// ParseModelResponse decodes a model reply into an Extraction. Markdown code
// fences are stripped first; an empty body or bare "{}" counts as a failed
// extraction, not a success with no fields.
func ParseModelResponse(raw string) (*Extraction, error) {
	cleaned := stripCodeFences(raw)
	if cleaned == "" || cleaned == "{}" {
		return nil, ErrEmptyResponse
	}

	var ext Extraction
	if err := json.Unmarshal([]byte(cleaned), &ext); err != nil {
		return nil, fmt.Errorf("decoding extraction json: %w", err)
	}

	ext.Requirements = decodeRequirements(ext.RawRequirements)
	ext.RawRequirements = nil
	return &ext, nil
}

func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func decodeRequirements(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var reqs []string
	if err := json.Unmarshal(raw, &reqs); err != nil || reqs == nil {
		return []string{}
	}
	return reqs
}

// Record converts the extraction into a stored job record for linkID.
// fallbackURL fills application_url when the page never stated one.
func (e *Extraction) Record(linkID int64, fallbackURL string, now time.Time) store.JobRecord {
	rec := store.JobRecord{
		LinkID:         linkID,
		Title:          e.Title,
		Company:        e.Company,
		Location:       e.Location,
		RemoteType:     e.RemoteType,
		Salary:         e.Salary,
		Description:    e.Description,
		Requirements:   e.Requirements,
		JobType:        e.JobType,
		PostedDate:     e.PostedDate,
		ApplicationURL: e.ApplicationURL,
		ScrapedAt:      now,
		Success:        true,
	}
	if rec.ApplicationURL == nil || *rec.ApplicationURL == "" {
		rec.ApplicationURL = &fallbackURL
	}
	return rec
}

// TruncateContent caps text at maxContentLength, preferring to cut at a
// sentence boundary near the limit so the model does not see a half sentence.
// The hard cut never splits a multibyte rune.
func TruncateContent(text string) string {
	if len(text) <= maxContentLength {
		return text
	}
	limit := maxContentLength
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	cut := text[:limit]
	if idx := strings.LastIndexByte(cut[limit-500:], '.'); idx >= 0 {
		cut = cut[:limit-500+idx+1]
	}
	return cut + truncationNotice
}
