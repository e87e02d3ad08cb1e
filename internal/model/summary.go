package model

import (
	"time"

	"github.com/google/uuid"
)

// ImportedFile is the audit record of one processed source file.
type ImportedFile struct {
	RunID         uuid.UUID
	Dataset       string
	Category      string
	Path          string
	SHA256        string
	RowsRead      int64
	RowsLoaded    int64
	RowsDiscarded int64
	ImportedAt    time.Time
}

// CategorySummary captures metrics for one category pass.
type CategorySummary struct {
	Category      string
	Files         []string
	RowsRead      int64
	RowsDiscarded int64 // dropped by the value-name / value-code rules or NOMINAL filter
	RowsUnmatched int64 // diagcats rows that resolved zero visits
	Observations  int64
	Duration      time.Duration
}

// ImportSummary captures metrics from a single import run.
type ImportSummary struct {
	RunID         uuid.UUID
	Dataset       string
	InputDir      string
	Categories    []CategorySummary
	DurationTotal time.Duration
}

// Totals sums row and observation counts across categories.
func (s *ImportSummary) Totals() (read, discarded, observations int64) {
	for _, c := range s.Categories {
		read += c.RowsRead
		discarded += c.RowsDiscarded
		observations += c.Observations
	}
	return read, discarded, observations
}
