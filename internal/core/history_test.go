package core

import (
	"context"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	db "github.com/JonMunkholm/hireboard/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestParseImportID(t *testing.T) {
	valid := uuid.New()

	tests := []struct {
		name    string
		id      string
		want    pgtype.UUID
		wantErr bool
	}{
		{"canonical", valid.String(), pgtype.UUID{Bytes: valid, Valid: true}, false},
		{"upper case", strings.ToUpper(valid.String()), pgtype.UUID{Bytes: valid, Valid: true}, false},
		{"empty", "", pgtype.UUID{}, true},
		{"garbage", "nope", pgtype.UUID{}, true},
		{"truncated", valid.String()[:20], pgtype.UUID{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseImportID(tt.id)
			if tt.wantErr {
				if !errors.Is(err, ErrImportNotFound) {
					t.Errorf("error = %v, want ErrImportNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseImportID: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSummaryFromRow(t *testing.T) {
	id := uuid.New()
	finished := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		row  db.CandidateImport
		want ImportSummary
	}{
		{
			name: "full row",
			row: db.CandidateImport{
				ID:           pgtype.UUID{Bytes: id, Valid: true},
				FileName:     "batch.csv",
				StartedBy:    pgtype.Text{String: "hr@example.com", Valid: true},
				CsvHeaders:   []string{"Name", "Email"},
				Status:       string(StatusPartial),
				TotalRows:    4,
				SuccessCount: 2,
				FailCount:    1,
				SkippedBlank: 1,
				Cancelled:    true,
				DurationMs:   1500,
				FinishedAt:   pgtype.Timestamptz{Time: finished, Valid: true},
			},
			want: ImportSummary{
				ID:           id.String(),
				FileName:     "batch.csv",
				StartedBy:    "hr@example.com",
				Headers:      []string{"Name", "Email"},
				Status:       StatusPartial,
				TotalRows:    4,
				SuccessCount: 2,
				FailCount:    1,
				SkippedBlank: 1,
				Cancelled:    true,
				DurationMs:   1500,
				FinishedAt:   finished,
			},
		},
		{
			name: "null started_by",
			row: db.CandidateImport{
				ID:         pgtype.UUID{Bytes: id, Valid: true},
				FileName:   "anon.csv",
				CsvHeaders: []string{},
				Status:     string(StatusFailed),
				FinishedAt: pgtype.Timestamptz{Time: finished, Valid: true},
			},
			want: ImportSummary{
				ID:         id.String(),
				FileName:   "anon.csv",
				Headers:    []string{},
				Status:     StatusFailed,
				FinishedAt: finished,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := summaryFromRow(tt.row)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("summary = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// testPool connects to HIREBOARD_TEST_DATABASE_URL and applies the schema.
// The test is skipped when the variable is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("HIREBOARD_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("HIREBOARD_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile("../../sql/schema/001_candidate_imports.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	up, _, _ := strings.Cut(string(schema), "-- +goose Down")
	if _, err := pool.Exec(ctx, up); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return pool
}

func TestPGImportStore_RoundTrip(t *testing.T) {
	pool := testPool(t)
	store := NewPGImportStore(pool)
	ctx := context.Background()

	res := ImportResult{
		ImportID:   uuid.New().String(),
		FileName:   "batch.csv",
		StartedBy:  "hr@example.com",
		Headers:    []string{"Name", "Email"},
		Status:     StatusPartial,
		Duration:   1200 * time.Millisecond,
		FinishedAt: time.Now().UTC().Truncate(time.Microsecond),
		Outcome: ImportOutcome{
			TotalRows:    2,
			SuccessCount: 1,
			FailCount:    1,
			Failures:     []RowFailure{{Row: 3, Field: FieldEmail, Reason: "email is required", Data: []string{"Ravi", ""}}},
		},
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, "DELETE FROM candidate_imports WHERE id = $1", res.ImportID)
	})

	if err := store.SaveImport(ctx, res); err != nil {
		t.Fatalf("SaveImport: %v", err)
	}

	sum, err := store.GetImport(ctx, res.ImportID)
	if err != nil {
		t.Fatalf("GetImport: %v", err)
	}
	if sum.StartedBy != res.StartedBy || sum.FailCount != 1 || sum.DurationMs != 1200 {
		t.Errorf("summary = %+v", sum)
	}

	rows, err := store.FailedRows(ctx, res.ImportID)
	if err != nil {
		t.Fatalf("FailedRows: %v", err)
	}
	if len(rows) != 1 || rows[0].Row != 3 || rows[0].Field != FieldEmail {
		t.Errorf("failures = %+v", rows)
	}

	if _, err := store.GetImport(ctx, uuid.New().String()); !errors.Is(err, ErrImportNotFound) {
		t.Errorf("unknown import error = %v, want ErrImportNotFound", err)
	}
}
