package core

// submitter.go sends validated candidate rows to the backend.
//
// Rows are independent: a validation failure, a backend rejection or a
// transport error is recorded against that row and the batch moves on. The
// outcome is always assembled in source row order, including in pool mode
// where submissions finish out of order.
//
// Cancellation does not drop rows. Once the context is done, every valid row
// not yet submitted is failed with ReasonCancelled so the counts still add up.

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ReasonCancelled is the failure reason for rows never submitted because the
// import was cancelled or timed out.
const ReasonCancelled = "import cancelled"

// DefaultSubmitDelay is the pause between consecutive submissions.
const DefaultSubmitDelay = 150 * time.Millisecond

// Submitter creates one backend record per valid row.
type Submitter struct {
	Creator CandidateCreator

	// Delay is the pause between consecutive submissions. Zero disables it.
	Delay time.Duration

	// Concurrency above 1 submits through a bounded pool of that size.
	Concurrency int

	// OnRow, if set, is called once per row as it finishes. Calls are
	// serialized but in pool mode may arrive out of row order.
	OnRow ProgressCallback

	mu sync.Mutex
}

// Submit processes every job and returns the aggregated outcome.
func (s *Submitter) Submit(ctx context.Context, jobs []RowJob) ImportOutcome {
	results := make([]RowResult, len(jobs))

	if s.Concurrency > 1 {
		s.submitPool(ctx, jobs, results)
	} else {
		s.submitSequential(ctx, jobs, results)
	}

	out := ImportOutcome{TotalRows: len(jobs), Failures: []RowFailure{}}
	for _, r := range results {
		out.add(r)
	}
	return out
}

func (s *Submitter) submitSequential(ctx context.Context, jobs []RowJob, results []RowResult) {
	submitted := 0
	for i, job := range jobs {
		if !job.Valid() {
			results[i] = s.finish(localResult(job))
			continue
		}
		if submitted > 0 {
			pause(ctx, s.Delay)
		}
		if ctx.Err() != nil {
			results[i] = s.finish(cancelledResult(job))
			continue
		}
		submitted++
		results[i] = s.finish(s.submitOne(ctx, job))
	}
}

func (s *Submitter) submitPool(ctx context.Context, jobs []RowJob, results []RowResult) {
	var g errgroup.Group
	g.SetLimit(s.Concurrency)

	launched := 0
	for i, job := range jobs {
		if !job.Valid() {
			results[i] = s.finish(localResult(job))
			continue
		}
		if launched > 0 {
			pause(ctx, s.Delay)
		}
		if ctx.Err() != nil {
			results[i] = s.finish(cancelledResult(job))
			continue
		}
		launched++
		g.Go(func() error {
			results[i] = s.finish(s.submitOne(ctx, job))
			return nil
		})
	}

	_ = g.Wait()
}

func (s *Submitter) submitOne(ctx context.Context, job RowJob) RowResult {
	start := time.Now()
	err := s.Creator.CreateCandidate(ctx, job.Record.Trimmed())
	submitDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		return RowResult{
			Row:    job.Row,
			Status: RowFailed,
			Failure: &RowFailure{
				Row:    job.Row,
				Reason: err.Error(),
				Data:   job.Cells,
			},
		}
	}
	return RowResult{Row: job.Row, Status: RowCreated}
}

// finish records metrics and reports the row to OnRow.
func (s *Submitter) finish(r RowResult) RowResult {
	importRowsTotal.WithLabelValues(string(r.Status)).Inc()

	if s.OnRow != nil {
		s.mu.Lock()
		s.OnRow(r)
		s.mu.Unlock()
	}
	return r
}

// localResult resolves rows that never reach the backend.
func localResult(job RowJob) RowResult {
	if job.Blank {
		return RowResult{Row: job.Row, Status: RowSkipped}
	}
	return RowResult{Row: job.Row, Status: RowFailed, Failure: job.validationFailure()}
}

func cancelledResult(job RowJob) RowResult {
	return RowResult{
		Row:    job.Row,
		Status: RowFailed,
		Failure: &RowFailure{
			Row:    job.Row,
			Reason: ReasonCancelled,
			Data:   job.Cells,
		},
	}
}

// pause waits for d or until ctx is done.
func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
