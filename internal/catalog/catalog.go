// Package catalog loads the job posting catalog from a tabular source into
// validated, normalized in-memory records. A Dataset is built once per
// session and is read-only afterwards, so concurrent matching passes over the
// same dataset need no locking.
package catalog

import "iter"

// JobPosting is one validated row of the catalog. Title, Company and
// Description are display-only; the scoring fields are normalized token sets
// and a minimum experience requirement.
type JobPosting struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description,omitempty"`

	RequiredSkills         []string `json:"required_skills"`
	MinExperienceYears     float64  `json:"min_experience_years"`
	RequiredQualifications []string `json:"required_qualifications"`
}

// Dataset holds the loaded postings in source order. Immutable after Load.
type Dataset struct {
	postings []*JobPosting
	byID     map[string]*JobPosting
}

func (d *Dataset) Len() int {
	return len(d.postings)
}

// Postings returns the postings in load order. The returned slice is a fresh
// copy so callers cannot reorder the dataset; the pointed-to records are
// shared and must be treated as read-only.
func (d *Dataset) Postings() []*JobPosting {
	out := make([]*JobPosting, len(d.postings))
	copy(out, d.postings)
	return out
}

// All iterates the postings in load order. The sequence is finite and
// restartable: every ranging pass yields the same records in the same order.
func (d *Dataset) All() iter.Seq[*JobPosting] {
	return func(yield func(*JobPosting) bool) {
		for _, p := range d.postings {
			if !yield(p) {
				return
			}
		}
	}
}

// FindByID returns the posting with the given id, nil when absent.
func (d *Dataset) FindByID(id string) *JobPosting {
	return d.byID[id]
}
