package matching

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/Saro259/TalentMatch-AI/internal/catalog"
)

// Result is the relevance assessment of a single posting. Score and the
// component scores are in [0, 1]. MatchedSkills and MissingSkills partition
// the posting's required skills by whether the candidate covers them.
type Result struct {
	JobID              string   `json:"job_id"`
	Score              float64  `json:"score"`
	SkillScore         float64  `json:"skill_score"`
	ExperienceScore    float64  `json:"experience_score"`
	QualificationScore float64  `json:"qualification_score"`
	MatchedSkills      []string `json:"matched_skills"`
	MissingSkills      []string `json:"missing_skills"`
}

// Results holds one match pass's output in rank order. Produced fresh per
// Match call; the caller owns it.
type Results struct {
	Items []*Result
}

func (r *Results) Len() int {
	return len(r.Items)
}

func (r *Results) FindByID(id string) *Result {
	for _, result := range r.Items {
		if result.JobID == id {
			return result
		}
	}
	return nil
}

// Report builds display rows in rank order, resolving titles and companies
// through the dataset the results were matched against.
func (r *Results) Report(dataset *catalog.Dataset) []map[string]string {
	report := make([]map[string]string, 0, len(r.Items))
	for rank, result := range r.Items {
		row := map[string]string{
			"rank":           fmt.Sprintf("%d", rank+1),
			"job_id":         result.JobID,
			"match":          fmt.Sprintf("%.1f%%", result.Score*100),
			"skills":         fmt.Sprintf("%.0f%%", result.SkillScore*100),
			"experience":     fmt.Sprintf("%.0f%%", result.ExperienceScore*100),
			"qualifications": fmt.Sprintf("%.0f%%", result.QualificationScore*100),
		}

		if len(result.MatchedSkills) > 0 {
			row["matched_skills"] = strings.Join(result.MatchedSkills, ", ")
		}
		if len(result.MissingSkills) > 0 {
			row["missing_skills"] = strings.Join(result.MissingSkills, ", ")
		}

		if posting := dataset.FindByID(result.JobID); posting != nil {
			row["title"] = posting.Title
			row["company"] = posting.Company
		}

		report = append(report, row)
	}
	return report
}

// DumpToTmpFile writes the match table to a temporary CSV file and returns
// its name.
func (r *Results) DumpToTmpFile(dataset *catalog.Dataset) (string, error) {
	file, err := os.CreateTemp("", "matches_*.csv")
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := []string{
		"rank", "job_id", "title", "company",
		"score", "skill_score", "experience_score", "qualification_score",
		"matched_skills", "missing_skills",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for rank, result := range r.Items {
		var title, company string
		if posting := dataset.FindByID(result.JobID); posting != nil {
			title = posting.Title
			company = posting.Company
		}

		record := []string{
			fmt.Sprintf("%d", rank+1),
			result.JobID,
			title,
			company,
			fmt.Sprintf("%.4f", result.Score),
			fmt.Sprintf("%.4f", result.SkillScore),
			fmt.Sprintf("%.4f", result.ExperienceScore),
			fmt.Sprintf("%.4f", result.QualificationScore),
			strings.Join(result.MatchedSkills, "; "),
			strings.Join(result.MissingSkills, "; "),
		}
		if err := writer.Write(record); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return file.Name(), nil
}
