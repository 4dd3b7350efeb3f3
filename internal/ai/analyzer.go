// Package ai defines the narrow interface the matching pipeline uses to turn
// extracted resume text into a structured profile. Provider implementations
// live in subpackages.
package ai

import (
	"context"
	"fmt"

	"github.com/Saro259/TalentMatch-AI/internal/resume"
)

// Analyzer produces a resume profile from extracted resume text.
type Analyzer interface {
	Analyze(ctx context.Context, resumeText string) (*resume.Profile, error)
}

// AnalysisError wraps any analyzer failure: unreachable service, malformed
// response, missing credential. Callers treat it as "no usable profile" and
// never invoke matching without one.
type AnalysisError struct {
	Provider string
	Err      error
}

func (e *AnalysisError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("resume analysis (%s): %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("resume analysis: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}
