package match

import (
	"context"
	"fmt"

	"jobscout/internal/logger"
	"jobscout/internal/store"
)

type Service struct {
	log         *logger.Logger
	store       *store.Store
	profilePath string
}

func NewService(st *store.Store, profilePath string) *Service {
	return &Service{log: logger.New("MatchService"), store: st, profilePath: profilePath}
}

// MatchStored scores every successfully extracted job against skills. When
// skills is empty the configured profile file supplies them. A positive limit
// caps the output to the best N matches.
func (s *Service) MatchStored(ctx context.Context, skills []string, limit int) ([]Match, error) {
	if len(skills) == 0 {
		profile, err := LoadProfile(s.profilePath)
		if err != nil {
			return nil, fmt.Errorf("loading candidate profile: %w", err)
		}
		skills = profile.Skills
	}

	jobs, err := s.store.FindAllJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading jobs: %w", err)
	}

	extracted := jobs[:0:0]
	for _, j := range jobs {
		if j.Success {
			extracted = append(extracted, j)
		}
	}

	matches, err := Score(skills, extracted)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	s.log.LogInfof("scored %d jobs against %d skills", len(matches), len(skills))
	return matches, nil
}
