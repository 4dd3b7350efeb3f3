// Package matching implements the relevance engine: it scores a resume
// profile against every posting in a job dataset using a weighted
// attribute-overlap model and returns a deterministically ranked result set.
// Match is a pure function of its inputs; neither the profile nor the
// dataset is mutated.
package matching

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/Saro259/TalentMatch-AI/internal/catalog"
	"github.com/Saro259/TalentMatch-AI/internal/normalize"
	"github.com/Saro259/TalentMatch-AI/internal/resume"
)

var (
	ErrNilProfile = errors.New("resume profile is required")
	ErrNilDataset = errors.New("job dataset is required")
)

const weightSumTolerance = 1e-9

// Weights distribute the relevance score across the three scored attributes.
// They are a configuration surface: callers may override the defaults as long
// as the weights are non-negative and sum to 1.
type Weights struct {
	Skills         float64 `mapstructure:"skills" json:"skills"`
	Experience     float64 `mapstructure:"experience" json:"experience"`
	Qualifications float64 `mapstructure:"qualifications" json:"qualifications"`
}

// DefaultWeights returns the stock weighting: skills dominate, experience
// and qualifications refine.
func DefaultWeights() Weights {
	return Weights{Skills: 0.5, Experience: 0.2, Qualifications: 0.3}
}

func (w Weights) Sum() float64 {
	return w.Skills + w.Experience + w.Qualifications
}

func (w Weights) Validate() error {
	if w.Skills < 0 || w.Experience < 0 || w.Qualifications < 0 {
		return fmt.Errorf("weights must be non-negative: %+v", w)
	}
	if math.Abs(w.Sum()-1) > weightSumTolerance {
		return fmt.Errorf("weights must sum to 1, got %v", w.Sum())
	}
	return nil
}

// Options tune a single match pass. TopN <= 0 returns every posting.
// MinScore drops results scoring below the threshold; the zero value keeps
// everything.
type Options struct {
	TopN     int
	MinScore float64
}

// Engine scores profiles against datasets with a fixed weighting.
type Engine struct {
	weights Weights
	logger  *zap.Logger
}

// NewEngine validates the weights and builds an engine. A nil logger falls
// back to a no-op logger.
func NewEngine(weights Weights, logger *zap.Logger) (*Engine, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{weights: weights, logger: logger}, nil
}

// Match scores every posting in the dataset and returns results ordered by
// score descending, ties broken by skill score descending, then by job id
// ascending. Identical inputs always produce identical output. An empty
// dataset yields empty results, not an error; Match fails only on nil inputs.
func (e *Engine) Match(profile *resume.Profile, dataset *catalog.Dataset, opts *Options) (*Results, error) {
	if profile == nil {
		return nil, ErrNilProfile
	}
	if dataset == nil {
		return nil, ErrNilDataset
	}
	if opts == nil {
		opts = &Options{}
	}

	skills := normalize.Set(profile.Skills)
	qualifications := normalize.Set(profile.Qualifications)

	items := make([]*Result, 0, dataset.Len())
	for posting := range dataset.All() {
		result := e.score(skills, qualifications, profile.ExperienceYears, posting)
		if result.Score < opts.MinScore {
			continue
		}
		items = append(items, result)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		if items[i].SkillScore != items[j].SkillScore {
			return items[i].SkillScore > items[j].SkillScore
		}
		return items[i].JobID < items[j].JobID
	})

	if opts.TopN > 0 && len(items) > opts.TopN {
		items = items[:opts.TopN]
	}

	e.logger.Debug("match pass completed",
		zap.Int("postings", dataset.Len()),
		zap.Int("results", len(items)),
		zap.Int("top_n", opts.TopN),
		zap.Float64("min_score", opts.MinScore),
	)

	return &Results{Items: items}, nil
}

func (e *Engine) score(skills, qualifications map[string]struct{}, years *float64, posting *catalog.JobPosting) *Result {
	skillScore, matched, missing := overlapScore(skills, posting.RequiredSkills)
	qualificationScore, _, _ := overlapScore(qualifications, posting.RequiredQualifications)
	expScore := experienceScore(years, posting.MinExperienceYears)

	score := e.weights.Skills*skillScore +
		e.weights.Experience*expScore +
		e.weights.Qualifications*qualificationScore

	return &Result{
		JobID:              posting.ID,
		Score:              score,
		SkillScore:         skillScore,
		ExperienceScore:    expScore,
		QualificationScore: qualificationScore,
		MatchedSkills:      matched,
		MissingSkills:      missing,
	}
}

// overlapScore computes the fraction of required tokens the candidate covers.
// A posting that requires nothing has no requirement to fail and scores 1.
// The matched and missing lists keep the required set's sorted order.
func overlapScore(have map[string]struct{}, required []string) (float64, []string, []string) {
	matched := make([]string, 0, len(required))
	missing := make([]string, 0, len(required))

	for _, token := range required {
		if _, ok := have[token]; ok {
			matched = append(matched, token)
		} else {
			missing = append(missing, token)
		}
	}

	if len(required) == 0 {
		return 1, matched, missing
	}

	return float64(len(matched)) / float64(len(required)), matched, missing
}

// experienceScore grades the candidate's experience against the posting's
// minimum. No minimum means no requirement to fail. Below the minimum the
// score degrades proportionally; unknown experience against a real minimum
// gets a neutral 0.5.
func experienceScore(years *float64, minYears float64) float64 {
	if minYears <= 0 {
		return 1
	}
	if years == nil {
		return 0.5
	}
	if *years >= minYears {
		return 1
	}
	return *years / minYears
}
