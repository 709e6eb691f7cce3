package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// makeJobs builds n valid jobs numbered from line 2 upwards.
func makeJobs(n int) []RowJob {
	jobs := make([]RowJob, n)
	for i := range jobs {
		rec := validRecord()
		rec.Name = fmt.Sprintf("Candidate %d", i)
		rec.Email = fmt.Sprintf("c%d@example.com", i)
		jobs[i] = RowJob{Row: i + 2, Cells: rec.Values(), Record: rec}
	}
	return jobs
}

func TestSubmitter_SequentialOrder(t *testing.T) {
	jobs := makeJobs(5)

	var seen []string
	creator := CreatorFunc(func(ctx context.Context, rec CandidateRecord) error {
		seen = append(seen, rec.Email)
		return nil
	})

	out := (&Submitter{Creator: creator}).Submit(context.Background(), jobs)

	if out.SuccessCount != 5 {
		t.Fatalf("SuccessCount = %d, want 5", out.SuccessCount)
	}
	for i, email := range seen {
		if want := fmt.Sprintf("c%d@example.com", i); email != want {
			t.Errorf("submission %d = %s, want %s", i, email, want)
		}
	}
}

func TestSubmitter_FailureDoesNotAbort(t *testing.T) {
	jobs := makeJobs(4)
	jobs[1].Errors = []FieldError{{Field: FieldPhone, Message: "is required"}}

	creator := CreatorFunc(func(ctx context.Context, rec CandidateRecord) error {
		if rec.Email == "c2@example.com" {
			return errors.New("backend rejected: duplicate email")
		}
		return nil
	})

	out := (&Submitter{Creator: creator}).Submit(context.Background(), jobs)

	if out.SuccessCount != 2 || out.FailCount != 2 {
		t.Fatalf("outcome = %+v", out)
	}
	if out.Failures[0].Row != 3 || out.Failures[0].Field != FieldPhone {
		t.Errorf("first failure = %+v, want row 3 phone", out.Failures[0])
	}
	if out.Failures[1].Row != 4 || out.Failures[1].Reason != "backend rejected: duplicate email" {
		t.Errorf("second failure = %+v, want row 4 backend message", out.Failures[1])
	}
	if len(out.Failures[1].Data) == 0 {
		t.Error("failure should keep original cells")
	}
}

func TestSubmitter_TotalFailure(t *testing.T) {
	jobs := makeJobs(3)
	creator := CreatorFunc(func(ctx context.Context, rec CandidateRecord) error {
		return errors.New("backend unavailable")
	})

	out := (&Submitter{Creator: creator}).Submit(context.Background(), jobs)

	if out.Status() != StatusFailed || out.FailCount != 3 {
		t.Fatalf("outcome = %+v", out)
	}
	if out.Err() == nil {
		t.Error("expected error for total failure")
	}
}

func TestSubmitter_Delay(t *testing.T) {
	jobs := makeJobs(3)
	jobs = append(jobs, RowJob{Row: 10, Blank: true})

	var (
		mu    sync.Mutex
		times []time.Time
	)
	creator := CreatorFunc(func(ctx context.Context, rec CandidateRecord) error {
		mu.Lock()
		times = append(times, time.Now())
		mu.Unlock()
		return nil
	})

	delay := 30 * time.Millisecond
	start := time.Now()
	(&Submitter{Creator: creator, Delay: delay}).Submit(context.Background(), jobs)
	elapsed := time.Since(start)

	// Two pauses between three submissions; blank rows add none.
	if elapsed < 2*delay {
		t.Errorf("elapsed %v, want at least %v", elapsed, 2*delay)
	}
	for i := 1; i < len(times); i++ {
		if gap := times[i].Sub(times[i-1]); gap < delay-5*time.Millisecond {
			t.Errorf("gap %d = %v, want about %v", i, gap, delay)
		}
	}
}

func TestSubmitter_PoolPreservesRowOrder(t *testing.T) {
	jobs := makeJobs(12)
	for i := range jobs {
		if i%3 == 0 {
			jobs[i].Record.Notes = "reject"
		}
	}

	var inFlight, peak int32
	creator := CreatorFunc(func(ctx context.Context, rec CandidateRecord) error {
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}

		// Later rows finish first.
		var idx int
		fmt.Sscanf(rec.Email, "c%d@", &idx)
		time.Sleep(time.Duration(12-idx) * time.Millisecond)
		if rec.Notes == "reject" {
			return fmt.Errorf("backend rejected: %s", rec.Email)
		}
		return nil
	})

	var callbacks int32
	sub := &Submitter{
		Creator:     creator,
		Concurrency: 4,
		OnRow:       func(RowResult) { atomic.AddInt32(&callbacks, 1) },
	}
	out := sub.Submit(context.Background(), jobs)

	if out.SuccessCount != 8 || out.FailCount != 4 {
		t.Fatalf("outcome = %+v", out)
	}
	for i := 1; i < len(out.Failures); i++ {
		if out.Failures[i].Row <= out.Failures[i-1].Row {
			t.Errorf("failures out of order: %+v", out.Failures)
		}
	}
	if got := atomic.LoadInt32(&peak); got > 4 {
		t.Errorf("peak concurrency = %d, want <= 4", got)
	}
	if got := atomic.LoadInt32(&callbacks); got != 12 {
		t.Errorf("OnRow called %d times, want 12", got)
	}
}

func TestSubmitter_CancelFailsRemainingRows(t *testing.T) {
	for _, concurrency := range []int{1, 3} {
		t.Run(fmt.Sprintf("concurrency=%d", concurrency), func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			jobs := makeJobs(6)
			jobs = append(jobs, RowJob{Row: 20, Blank: true})

			var calls int32
			creator := CreatorFunc(func(ctx context.Context, rec CandidateRecord) error {
				if atomic.AddInt32(&calls, 1) == 2 {
					cancel()
				}
				return nil
			})

			sub := &Submitter{Creator: creator, Concurrency: concurrency, Delay: 5 * time.Millisecond}
			out := sub.Submit(ctx, jobs)

			if out.SuccessCount+out.FailCount+out.SkippedBlank != out.TotalRows {
				t.Fatalf("counts do not add up: %+v", out)
			}
			if out.TotalRows != 7 || out.SkippedBlank != 1 {
				t.Errorf("outcome = %+v", out)
			}
			if out.FailCount == 0 {
				t.Fatal("expected cancelled rows")
			}
			for _, f := range out.Failures {
				if f.Reason != ReasonCancelled {
					t.Errorf("failure reason = %q, want %q", f.Reason, ReasonCancelled)
				}
			}
			if got := int(atomic.LoadInt32(&calls)); got != out.SuccessCount {
				t.Errorf("creator called %d times, %d successes", got, out.SuccessCount)
			}
		})
	}
}

// successCount + failCount + skippedBlank == totalRows for mixed inputs.
func TestSubmitter_CountingInvariant(t *testing.T) {
	for n := 0; n < 20; n++ {
		jobs := makeJobs(n)
		for i := range jobs {
			switch i % 4 {
			case 1:
				jobs[i].Blank = true
			case 2:
				jobs[i].Errors = []FieldError{{Field: FieldSkills, Message: "is required"}}
			}
		}

		creator := CreatorFunc(func(ctx context.Context, rec CandidateRecord) error {
			if len(rec.Email)%2 == 0 {
				return errors.New("backend rejected")
			}
			return nil
		})

		for _, concurrency := range []int{1, 2} {
			out := (&Submitter{Creator: creator, Concurrency: concurrency}).Submit(context.Background(), jobs)
			if out.SuccessCount+out.FailCount+out.SkippedBlank != n || out.TotalRows != n {
				t.Errorf("n=%d concurrency=%d: %+v", n, concurrency, out)
			}
			if len(out.Failures) != out.FailCount {
				t.Errorf("n=%d: %d failures listed, FailCount %d", n, len(out.Failures), out.FailCount)
			}
		}
	}
}
