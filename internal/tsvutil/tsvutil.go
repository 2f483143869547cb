// File: internal/tsvutil/tsvutil.go
// Brief: Internal tsvutil package implementation for 'tsvutil'.

// Package tsvutil provides tab-separated record helpers.

package tsvutil

import (
	"encoding/csv"
	"io"
)

// NewReader returns a CSV reader tuned for tab-separated translation
// tables: variable record lengths and lazy quoting, since exported
// files may carry unbalanced quotes inside translated text.
func NewReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

// NewWriter returns a CSV writer producing tab-separated records with
// CRLF row endings, matching what translation platforms export.
func NewWriter(w io.Writer) *csv.Writer {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'
	writer.UseCRLF = true
	return writer
}
