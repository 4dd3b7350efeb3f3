package gemini

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Saro259/TalentMatch-AI/internal/ai"
)

type stubGenerator struct {
	response   string
	err        error
	failures   int
	calls      int
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	if s.failures > 0 {
		s.failures--
		return "", errors.New("temporary failure")
	}
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func newTestAnalyzer(stub *stubGenerator, maxRetries int) *Analyzer {
	analyzer := NewAnalyzer(stub, zap.NewNop(), maxRetries, 0)
	analyzer.retryDelay = 0
	return analyzer
}

func TestAnalyzerAnalyze(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{response: `{
		"skills": ["Python", "SQL", "python"],
		"experience_years": 2.5,
		"qualifications": ["BSc Computer Science"],
		"past_roles": ["Data Analyst"]
	}`}
	analyzer := newTestAnalyzer(stub, 1)

	profile, err := analyzer.Analyze(context.Background(), "some resume text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(profile.Skills, []string{"python", "sql"}) {
		t.Fatalf("unexpected skills: %v", profile.Skills)
	}
	if profile.ExperienceYears == nil || *profile.ExperienceYears != 2.5 {
		t.Fatalf("unexpected experience: %v", profile.ExperienceYears)
	}
	if !reflect.DeepEqual(profile.Qualifications, []string{"bsc computer science"}) {
		t.Fatalf("unexpected qualifications: %v", profile.Qualifications)
	}

	if !strings.Contains(stub.lastPrompt, "some resume text") {
		t.Fatalf("expected resume text in prompt")
	}
}

func TestAnalyzerStripsCodeFences(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{response: "```json\n{\"skills\": [\"go\"], \"experience_years\": 1}\n```"}
	analyzer := newTestAnalyzer(stub, 1)

	profile, err := analyzer.Analyze(context.Background(), "resume")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(profile.Skills, []string{"go"}) {
		t.Fatalf("unexpected skills: %v", profile.Skills)
	}
}

func TestAnalyzerCoercesStringNumbers(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{response: `{"skills": ["go"], "experience_years": "3.5"}`}
	analyzer := newTestAnalyzer(stub, 1)

	profile, err := analyzer.Analyze(context.Background(), "resume")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.ExperienceYears == nil || *profile.ExperienceYears != 3.5 {
		t.Fatalf("unexpected experience: %v", profile.ExperienceYears)
	}
}

func TestAnalyzerExperienceFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
		want     *float64
	}{
		{
			name:     "zero years with past roles estimates from role count",
			response: `{"skills": [], "experience_years": 0, "past_roles": ["Dev", "Senior Dev"]}`,
			want:     floatPtr(3),
		},
		{
			name:     "zero years without roles stays zero",
			response: `{"skills": [], "experience_years": 0}`,
			want:     floatPtr(0),
		},
		{
			name:     "null years without roles is unknown",
			response: `{"skills": [], "experience_years": null}`,
			want:     nil,
		},
		{
			name:     "absent years with roles estimates",
			response: `{"skills": [], "past_roles": ["Dev"]}`,
			want:     floatPtr(1.5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			analyzer := newTestAnalyzer(&stubGenerator{response: tt.response}, 1)
			profile, err := analyzer.Analyze(context.Background(), "resume")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			switch {
			case tt.want == nil && profile.ExperienceYears != nil:
				t.Fatalf("expected unknown experience, got %v", *profile.ExperienceYears)
			case tt.want != nil && profile.ExperienceYears == nil:
				t.Fatalf("expected %v years, got unknown", *tt.want)
			case tt.want != nil && *profile.ExperienceYears != *tt.want:
				t.Fatalf("expected %v years, got %v", *tt.want, *profile.ExperienceYears)
			}
		})
	}
}

func TestAnalyzerRetriesAndSucceeds(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{
		response: `{"skills": ["go"]}`,
		failures: 2,
	}
	analyzer := newTestAnalyzer(stub, 3)

	profile, err := analyzer.Analyze(context.Background(), "resume")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", stub.calls)
	}
	if !reflect.DeepEqual(profile.Skills, []string{"go"}) {
		t.Fatalf("unexpected skills: %v", profile.Skills)
	}
}

func TestAnalyzerRetriesExhausted(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{err: errors.New("service unreachable")}
	analyzer := newTestAnalyzer(stub, 2)

	_, err := analyzer.Analyze(context.Background(), "resume")
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if stub.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", stub.calls)
	}

	var analysisErr *ai.AnalysisError
	if !errors.As(err, &analysisErr) {
		t.Fatalf("expected AnalysisError, got %T: %v", err, err)
	}
	if analysisErr.Provider != "gemini" {
		t.Fatalf("unexpected provider: %q", analysisErr.Provider)
	}
}

func TestAnalyzerRejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	analyzer := newTestAnalyzer(&stubGenerator{response: "the candidate seems fine"}, 1)

	_, err := analyzer.Analyze(context.Background(), "resume")

	var analysisErr *ai.AnalysisError
	if !errors.As(err, &analysisErr) {
		t.Fatalf("expected AnalysisError, got %T: %v", err, err)
	}
}

func TestAnalyzerRejectsEmptyResumeText(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{response: "{}"}
	analyzer := newTestAnalyzer(stub, 1)

	if _, err := analyzer.Analyze(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty resume text")
	}
	if stub.calls != 0 {
		t.Fatalf("expected no generator calls, got %d", stub.calls)
	}
}

func TestTruncateAtWord(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("word ", 1200) // 6000 chars
	got := truncateAtWord(long, maxResumeChars)

	if len([]rune(got)) > maxResumeChars {
		t.Fatalf("expected at most %d runes, got %d", maxResumeChars, len([]rune(got)))
	}
	if strings.HasSuffix(got, " ") || !strings.HasSuffix(got, "word") {
		t.Fatalf("expected truncation at a word boundary, got tail %q", got[len(got)-10:])
	}

	short := "short text"
	if truncateAtWord(short, maxResumeChars) != short {
		t.Fatalf("expected short text unchanged")
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
