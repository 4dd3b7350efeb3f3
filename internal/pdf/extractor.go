// Package pdf extracts plain text from uploaded resume PDFs. It is a thin
// collaborator in front of the matching core: the core only ever sees the
// extracted text, never the file.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractionError wraps any failure to turn a PDF byte stream into text.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("pdf extraction: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Extract returns the whitespace-normalized plain text of every page.
// The underlying reader panics on some malformed files, so the panic is
// converted into an ExtractionError instead of taking down the session.
func Extract(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Err: fmt.Errorf("malformed pdf: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Err: err}
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &ExtractionError{Err: err}
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", &ExtractionError{Err: err}
	}

	normalized := normalizeWhitespace(buf.String())
	if normalized == "" {
		return "", &ExtractionError{Err: fmt.Errorf("no extractable text")}
	}

	return normalized, nil
}

// ExtractFile reads path and extracts its text.
func ExtractFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ExtractionError{Err: err}
	}
	return Extract(data)
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
