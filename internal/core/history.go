package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	db "github.com/JonMunkholm/hireboard/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrImportNotFound is returned for unknown or expired import IDs.
var ErrImportNotFound = errors.New("import not found")

// ImportSummary is one entry of the import history.
type ImportSummary struct {
	ID           string        `json:"id"`
	FileName     string        `json:"fileName"`
	StartedBy    string        `json:"startedBy,omitempty"`
	Headers      []string      `json:"headers"`
	Status       OutcomeStatus `json:"status"`
	TotalRows    int           `json:"totalRows"`
	SuccessCount int           `json:"successCount"`
	FailCount    int           `json:"failCount"`
	SkippedBlank int           `json:"skippedBlank"`
	Cancelled    bool          `json:"cancelled"`
	DurationMs   int64         `json:"durationMs"`
	FinishedAt   time.Time     `json:"finishedAt"`
}

// ImportStore persists finished imports and their failed rows.
type ImportStore interface {
	SaveImport(ctx context.Context, res ImportResult) error
	ListImports(ctx context.Context, limit int) ([]ImportSummary, error)
	GetImport(ctx context.Context, id string) (*ImportSummary, error)
	FailedRows(ctx context.Context, id string) ([]RowFailure, error)
}

// summaryOf converts an in-memory result to its history form.
func summaryOf(res ImportResult) ImportSummary {
	return ImportSummary{
		ID:           res.ImportID,
		FileName:     res.FileName,
		StartedBy:    res.StartedBy,
		Headers:      res.Headers,
		Status:       res.Status,
		TotalRows:    res.Outcome.TotalRows,
		SuccessCount: res.Outcome.SuccessCount,
		FailCount:    res.Outcome.FailCount,
		SkippedBlank: res.Outcome.SkippedBlank,
		Cancelled:    res.Cancelled,
		DurationMs:   res.Duration.Milliseconds(),
		FinishedAt:   res.FinishedAt,
	}
}

// PGImportStore keeps import history in PostgreSQL.
type PGImportStore struct {
	pool *pgxpool.Pool
}

// NewPGImportStore returns a store backed by pool.
func NewPGImportStore(pool *pgxpool.Pool) *PGImportStore {
	return &PGImportStore{pool: pool}
}

// SaveImport writes the import row and its failures in one transaction.
// Failures are bulk-loaded with COPY.
func (s *PGImportStore) SaveImport(ctx context.Context, res ImportResult) error {
	id, err := parseImportID(res.ImportID)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("history store: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	q := db.New(s.pool).WithTx(tx)

	o := res.Outcome
	err = q.InsertCandidateImport(ctx, db.InsertCandidateImportParams{
		ID:           id,
		FileName:     res.FileName,
		StartedBy:    pgtype.Text{String: res.StartedBy, Valid: res.StartedBy != ""},
		CsvHeaders:   nonNil(res.Headers),
		Status:       string(res.Status),
		TotalRows:    int32(o.TotalRows),
		SuccessCount: int32(o.SuccessCount),
		FailCount:    int32(o.FailCount),
		SkippedBlank: int32(o.SkippedBlank),
		Cancelled:    res.Cancelled,
		DurationMs:   int32(res.Duration.Milliseconds()),
		FinishedAt:   pgtype.Timestamptz{Time: res.FinishedAt, Valid: true},
	})
	if err != nil {
		return fmt.Errorf("history store: insert import: %w", err)
	}

	if len(o.Failures) > 0 {
		params := make([]db.InsertCandidateImportFailuresParams, len(o.Failures))
		for i, f := range o.Failures {
			params[i] = db.InsertCandidateImportFailuresParams{
				ImportID:   id,
				LineNumber: int32(f.Row),
				Field:      pgtype.Text{String: string(f.Field), Valid: f.Field != ""},
				Reason:     f.Reason,
				RowData:    nonNil(f.Data),
			}
		}
		if _, err := q.InsertCandidateImportFailures(ctx, params); err != nil {
			return fmt.Errorf("history store: copy failures: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("history store: commit: %w", err)
	}
	return nil
}

// ListImports returns the most recent imports first.
func (s *PGImportStore) ListImports(ctx context.Context, limit int) ([]ImportSummary, error) {
	rows, err := db.New(s.pool).ListCandidateImports(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("history store: list: %w", err)
	}

	out := make([]ImportSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, summaryFromRow(row))
	}
	return out, nil
}

// GetImport returns one import or ErrImportNotFound.
func (s *PGImportStore) GetImport(ctx context.Context, id string) (*ImportSummary, error) {
	pgID, err := parseImportID(id)
	if err != nil {
		return nil, err
	}

	row, err := db.New(s.pool).GetCandidateImport(ctx, pgID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrImportNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("history store: get: %w", err)
	}

	sum := summaryFromRow(row)
	return &sum, nil
}

// FailedRows returns the failures of one import in row order.
func (s *PGImportStore) FailedRows(ctx context.Context, id string) ([]RowFailure, error) {
	pgID, err := parseImportID(id)
	if err != nil {
		return nil, err
	}

	rows, err := db.New(s.pool).GetCandidateImportFailures(ctx, pgID)
	if err != nil {
		return nil, fmt.Errorf("history store: failures: %w", err)
	}

	out := make([]RowFailure, 0, len(rows))
	for _, row := range rows {
		out = append(out, RowFailure{
			Row:    int(row.LineNumber),
			Field:  Field(row.Field.String),
			Reason: row.Reason,
			Data:   row.RowData,
		})
	}
	return out, nil
}

// Prune deletes history older than cutoff and returns how many imports went.
func (s *PGImportStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := db.New(s.pool).DeleteCandidateImportsBefore(ctx, pgtype.Timestamptz{Time: cutoff, Valid: true})
	if err != nil {
		return 0, fmt.Errorf("history store: prune: %w", err)
	}
	return n, nil
}

func summaryFromRow(row db.CandidateImport) ImportSummary {
	return ImportSummary{
		ID:           uuid.UUID(row.ID.Bytes).String(),
		FileName:     row.FileName,
		StartedBy:    row.StartedBy.String,
		Headers:      row.CsvHeaders,
		Status:       OutcomeStatus(row.Status),
		TotalRows:    int(row.TotalRows),
		SuccessCount: int(row.SuccessCount),
		FailCount:    int(row.FailCount),
		SkippedBlank: int(row.SkippedBlank),
		Cancelled:    row.Cancelled,
		DurationMs:   int64(row.DurationMs),
		FinishedAt:   row.FinishedAt.Time,
	}
}

func parseImportID(id string) (pgtype.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("%w: invalid id %q", ErrImportNotFound, id)
	}
	return pgtype.UUID{Bytes: u, Valid: true}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
