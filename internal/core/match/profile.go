package match

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CandidateProfile is the on-disk description of who we match jobs for.
type CandidateProfile struct {
	Name   string   `yaml:"name"`
	Skills []string `yaml:"skills"`
}

// LoadProfile reads a candidate profile from a YAML file.
func LoadProfile(path string) (*CandidateProfile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	var p CandidateProfile
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	return &p, nil
}
