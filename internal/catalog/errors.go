package catalog

import "fmt"

// ErrorKind classifies dataset load failures so callers can branch on them.
type ErrorKind string

const (
	// MissingIdentifier marks a row with an empty id cell.
	MissingIdentifier ErrorKind = "missing_identifier"
	// DuplicateIdentifier marks an id that appears more than once.
	DuplicateIdentifier ErrorKind = "duplicate_identifier"
	// MalformedRow marks rows the CSV reader could not parse at all.
	MalformedRow ErrorKind = "malformed_row"
)

// DatasetError reports a catalog load failure with the offending row
// identified where possible. Row is 1-based counting data rows, 0 when the
// failure is not tied to a specific row.
type DatasetError struct {
	Kind ErrorKind
	Row  int
	ID   string
	Err  error
}

func (e *DatasetError) Error() string {
	msg := fmt.Sprintf("dataset: %s", e.Kind)
	if e.Row > 0 {
		msg = fmt.Sprintf("%s (row %d)", msg, e.Row)
	}
	if e.ID != "" {
		msg = fmt.Sprintf("%s (id %q)", msg, e.ID)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *DatasetError) Unwrap() error {
	return e.Err
}
