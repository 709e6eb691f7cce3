package core

import (
	"errors"
	"fmt"
)

// ErrNoDataRows is returned by ImportOutcome.Err when the file held a header
// but no candidate rows.
var ErrNoDataRows = errors.New("empty file: no candidate rows to import")

// RowFailure records why a single source row was not created.
type RowFailure struct {
	Row    int      `json:"row"`             // 1-based source line number
	Field  Field    `json:"field,omitempty"` // First offending field; empty for submission errors
	Reason string   `json:"reason"`
	Data   []string `json:"data,omitempty"` // Original cells, for the failed-rows export
}

// Detail renders the failure as a single line for users.
func (f RowFailure) Detail() string {
	return fmt.Sprintf("Row %d: %s", f.Row, f.Reason)
}

// RowStatus is the fate of one data row.
type RowStatus string

const (
	RowCreated RowStatus = "created"
	RowFailed  RowStatus = "failed"
	RowSkipped RowStatus = "skipped"
)

// RowResult is reported once per data row as the submitter finishes it.
type RowResult struct {
	Row     int
	Status  RowStatus
	Failure *RowFailure
}

// OutcomeStatus classifies a finished import.
type OutcomeStatus string

const (
	StatusSuccess OutcomeStatus = "success"
	StatusPartial OutcomeStatus = "partial"
	StatusFailed  OutcomeStatus = "failed"
)

// ImportOutcome aggregates the per-row results of one import.
// SuccessCount + FailCount + SkippedBlank always equals TotalRows.
type ImportOutcome struct {
	TotalRows    int          `json:"totalRows"`
	SuccessCount int          `json:"successCount"`
	FailCount    int          `json:"failCount"`
	SkippedBlank int          `json:"skippedBlank"`
	Failures     []RowFailure `json:"failures"`
}

// add folds one row result into the outcome. Results must arrive in row order.
func (o *ImportOutcome) add(r RowResult) {
	switch r.Status {
	case RowCreated:
		o.SuccessCount++
	case RowSkipped:
		o.SkippedBlank++
	case RowFailed:
		o.FailCount++
		if r.Failure != nil {
			o.Failures = append(o.Failures, *r.Failure)
		}
	}
}

// Status derives the import status from the counts.
func (o ImportOutcome) Status() OutcomeStatus {
	switch {
	case o.SuccessCount > 0 && o.FailCount == 0:
		return StatusSuccess
	case o.SuccessCount > 0:
		return StatusPartial
	default:
		return StatusFailed
	}
}

// Err returns nil unless the import created nothing. The error carries the
// first failure's detail line.
func (o ImportOutcome) Err() error {
	if o.Status() != StatusFailed {
		return nil
	}
	if len(o.Failures) == 0 {
		return ErrNoDataRows
	}
	return &ImportFailedError{First: o.Failures[0], Failed: o.FailCount}
}

// Summary is the one-line notification shown after an import.
func (o ImportOutcome) Summary() string {
	switch o.Status() {
	case StatusSuccess:
		return fmt.Sprintf("Imported %d candidate(s)", o.SuccessCount)
	case StatusPartial:
		return fmt.Sprintf("Imported %d of %d candidate(s); %d failed",
			o.SuccessCount, o.SuccessCount+o.FailCount, o.FailCount)
	default:
		if err := o.Err(); err != nil {
			return err.Error()
		}
		return "Import failed"
	}
}

// ImportFailedError reports an import in which no row was created.
type ImportFailedError struct {
	First  RowFailure
	Failed int
}

func (e *ImportFailedError) Error() string {
	return fmt.Sprintf("import failed: no candidates created (%d failed). %s", e.Failed, e.First.Detail())
}
