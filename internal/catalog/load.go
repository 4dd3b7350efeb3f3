package catalog

import (
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Saro259/TalentMatch-AI/internal/normalize"
)

// Column names recognized in the catalog header, matched case-insensitively.
const (
	colID             = "id"
	colTitle          = "title"
	colCompany        = "company"
	colDescription    = "description"
	colSkills         = "required_skills"
	colMinExperience  = "min_experience_years"
	colQualifications = "required_qualifications"
)

// tokenSeparator splits skill/qualification cells. Catalog exports carry
// comma-separated keyword lists; semicolons and pipes avoid CSV quoting traps.
func tokenSeparator(r rune) bool {
	return r == ';' || r == '|' || r == ','
}

// LoadFile opens path and loads the catalog, transparently decompressing
// catalogs with a .gz suffix.
func LoadFile(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("open gzip catalog: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return Load(reader)
}

// Load parses a CSV catalog with a header row. Required columns: id, title,
// company. Rows with an empty id fail the load with MissingIdentifier,
// duplicate ids fail with DuplicateIdentifier, and a failed load yields zero
// records. Missing or unparseable requirement cells are defaulted (empty
// token set, zero minimum experience): the posting states no requirement, it
// is never dropped.
func Load(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &DatasetError{Kind: MalformedRow, Err: errors.New("catalog is empty")}
	}
	if err != nil {
		return nil, &DatasetError{Kind: MalformedRow, Err: err}
	}

	columns, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	dataset := &Dataset{byID: make(map[string]*JobPosting)}

	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &DatasetError{Kind: MalformedRow, Row: row, Err: err}
		}

		id := strings.TrimSpace(cell(record, columns, colID))
		if id == "" {
			return nil, &DatasetError{Kind: MissingIdentifier, Row: row}
		}
		if _, exists := dataset.byID[id]; exists {
			return nil, &DatasetError{Kind: DuplicateIdentifier, Row: row, ID: id}
		}

		posting := &JobPosting{
			ID:                     id,
			Title:                  strings.TrimSpace(cell(record, columns, colTitle)),
			Company:                strings.TrimSpace(cell(record, columns, colCompany)),
			Description:            strings.TrimSpace(cell(record, columns, colDescription)),
			RequiredSkills:         parseTokens(cell(record, columns, colSkills)),
			MinExperienceYears:     parseMinExperience(cell(record, columns, colMinExperience)),
			RequiredQualifications: parseTokens(cell(record, columns, colQualifications)),
		}

		dataset.byID[id] = posting
		dataset.postings = append(dataset.postings, posting)
	}

	return dataset, nil
}

// mapHeader resolves column names to indexes. Headers are matched
// case-insensitively; blank headers and spreadsheet "Unnamed:" artifact
// columns are ignored.
func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for idx, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || strings.HasPrefix(name, "unnamed") {
			continue
		}
		if _, ok := columns[name]; !ok {
			columns[name] = idx
		}
	}

	for _, required := range []string{colID, colTitle, colCompany} {
		if _, ok := columns[required]; !ok {
			return nil, &DatasetError{
				Kind: MalformedRow,
				Err:  fmt.Errorf("missing required column %q", required),
			}
		}
	}

	return columns, nil
}

// cell returns the record value for a named column, or "" when the column is
// absent from the header or the record is short.
func cell(record []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func parseTokens(cellValue string) []string {
	return normalize.Tokens(strings.FieldsFunc(cellValue, tokenSeparator))
}

// parseMinExperience defaults to 0 when the cell is empty, unparseable or
// negative: "no requirement stated" means "no experience requirement".
func parseMinExperience(cellValue string) float64 {
	trimmed := strings.TrimSpace(cellValue)
	if trimmed == "" {
		return 0
	}
	years, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || years < 0 {
		return 0
	}
	return years
}
