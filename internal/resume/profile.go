// Package resume defines the structured profile extracted from a candidate's
// resume. Profiles are produced by an external analyzer, normalized on
// construction and read-only afterwards.
package resume

import "github.com/Saro259/TalentMatch-AI/internal/normalize"

// Profile is the structured extraction the match engine consumes. Token sets
// are normalized, deduplicated and sorted. ExperienceYears is nil when the
// candidate's total experience could not be determined; when present it is
// non-negative. Empty token sets are valid states, not errors.
type Profile struct {
	Skills          []string
	ExperienceYears *float64
	Qualifications  []string
}

// NewProfile builds a normalized profile. Negative experience values are
// treated as unknown.
func NewProfile(skills []string, experienceYears *float64, qualifications []string) *Profile {
	if experienceYears != nil && *experienceYears < 0 {
		experienceYears = nil
	}

	return &Profile{
		Skills:          normalize.Tokens(skills),
		ExperienceYears: experienceYears,
		Qualifications:  normalize.Tokens(qualifications),
	}
}

// Years is a convenience for building the ExperienceYears pointer.
func Years(v float64) *float64 {
	return &v
}
