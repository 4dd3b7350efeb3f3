// Package gemini implements the resume analyzer on top of the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/Saro259/TalentMatch-AI/internal/ai"
	"github.com/Saro259/TalentMatch-AI/internal/resume"
	"github.com/Saro259/TalentMatch-AI/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const (
	providerName        = "gemini"
	defaultMaxLogLength = 200
	defaultRetryDelay   = 2 * time.Second

	// maxResumeChars bounds the prompt size; longer resumes are cut at the
	// last word boundary before the limit.
	maxResumeChars = 4000

	// estimatedYearsPerRole backs the fallback estimate when the model
	// reports zero experience but lists past roles.
	estimatedYearsPerRole = 1.5
)

// Analyzer extracts a structured resume profile with Gemini. Failed calls are
// retried with linear backoff before the whole analysis is reported as an
// AnalysisError.
type Analyzer struct {
	generator  contentGenerator
	maxRetries int
	retryDelay time.Duration
	maxLogLen  int
	logger     *zap.Logger
}

// NewAnalyzer builds an analyzer. maxRetries below 1 means a single attempt;
// maxLogLength bounds prompt/response previews in debug logs.
func NewAnalyzer(generator contentGenerator, logger *zap.Logger, maxRetries, maxLogLength int) *Analyzer {
	if maxRetries < 1 {
		maxRetries = 1
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{
		generator:  generator,
		maxRetries: maxRetries,
		retryDelay: defaultRetryDelay,
		maxLogLen:  maxLogLength,
		logger:     logger,
	}
}

// Analyze prompts Gemini with the resume text and parses the structured
// response into a profile.
func (a *Analyzer) Analyze(ctx context.Context, resumeText string) (*resume.Profile, error) {
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		return nil, &ai.AnalysisError{Provider: providerName, Err: fmt.Errorf("resume text is empty")}
	}

	prompt := buildPrompt(truncateAtWord(resumeText, maxResumeChars))

	a.logger.Debug("resume analysis request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generate(ctx, prompt)
	if err != nil {
		return nil, &ai.AnalysisError{Provider: providerName, Err: err}
	}

	a.logger.Debug("resume analysis response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	profile, err := parseProfile(raw)
	if err != nil {
		return nil, &ai.AnalysisError{Provider: providerName, Err: err}
	}

	return profile, nil
}

func (a *Analyzer) generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= a.maxRetries; attempt++ {
		raw, err := a.generator.GenerateContent(ctx, prompt)
		if err == nil {
			return raw, nil
		}

		lastErr = err
		a.logger.Warn("resume analysis attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", a.maxRetries),
			zap.Error(err),
		)

		if attempt < a.maxRetries {
			if waitErr := utils.WaitFor(ctx, a.retryDelay*time.Duration(attempt)); waitErr != nil {
				return "", waitErr
			}
		}
	}
	return "", lastErr
}

func buildPrompt(resumeText string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Resume:\n{{RESUME_TEXT}}\n\nJSON Response:"
	}
	return strings.ReplaceAll(template, "{{RESUME_TEXT}}", resumeText)
}

// truncateAtWord cuts text to at most limit runes, backing up to the last
// space so a word is never cut in half.
func truncateAtWord(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	truncated := string(runes[:limit])
	if idx := strings.LastIndex(truncated, " "); idx > 0 {
		truncated = truncated[:idx]
	}
	return truncated
}

// rawProfile is the JSON shape requested from the model.
type rawProfile struct {
	Skills          []string `mapstructure:"skills"`
	ExperienceYears float64  `mapstructure:"experience_years"`
	Qualifications  []string `mapstructure:"qualifications"`
	PastRoles       []string `mapstructure:"past_roles"`
}

// parseProfile cleans the model output, parses the JSON and converts it into
// a normalized profile. Weak decoding tolerates the loose typing LLM
// responses are prone to (numbers as strings and the like).
func parseProfile(raw string) (*resume.Profile, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse analyzer response: %w", err)
	}

	var rp rawProfile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &rp,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("build response decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode analyzer response: %w", err)
	}

	years := experienceYears(data, rp)

	return resume.NewProfile(rp.Skills, years, rp.Qualifications), nil
}

// experienceYears resolves the reported experience. An absent or null field
// means unknown. Zero years with listed past roles is almost always the model
// failing to add up dates, so the total is estimated from the role count.
func experienceYears(data map[string]any, rp rawProfile) *float64 {
	value, present := data["experience_years"]
	if !present || value == nil {
		if len(rp.PastRoles) > 0 {
			return resume.Years(float64(len(rp.PastRoles)) * estimatedYearsPerRole)
		}
		return nil
	}

	if rp.ExperienceYears == 0 && len(rp.PastRoles) > 0 {
		return resume.Years(float64(len(rp.PastRoles)) * estimatedYearsPerRole)
	}

	return resume.Years(rp.ExperienceYears)
}

// extractJSON strips markdown code fences some models wrap around the JSON.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
