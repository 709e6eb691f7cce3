package core

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/JonMunkholm/hireboard/internal/config"
)

// memStore is an in-memory ImportStore.
type memStore struct {
	mu      sync.Mutex
	imports map[string]ImportResult
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{imports: make(map[string]ImportResult)}
}

func (m *memStore) SaveImport(ctx context.Context, res ImportResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.imports[res.ImportID] = res
	return nil
}

func (m *memStore) ListImports(ctx context.Context, limit int) ([]ImportSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ImportSummary, 0, len(m.imports))
	for _, res := range m.imports {
		out = append(out, summaryOf(res))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FinishedAt.After(out[j].FinishedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) GetImport(ctx context.Context, id string) (*ImportSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.imports[id]
	if !ok {
		return nil, ErrImportNotFound
	}
	sum := summaryOf(res)
	return &sum, nil
}

func (m *memStore) FailedRows(ctx context.Context, id string) ([]RowFailure, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.imports[id]
	if !ok {
		return nil, ErrImportNotFound
	}
	return res.Outcome.Failures, nil
}

func testImportConfig() config.ImportConfig {
	return config.ImportConfig{
		MaxFileSize:     1 << 20,
		MaxConcurrent:   2,
		MaxWaitTime:     50 * time.Millisecond,
		SubmitDelay:     0,
		Concurrency:     1,
		Timeout:         5 * time.Second,
		ResultRetention: time.Minute,
	}
}

const serviceCSV = exampleHeader + "\n" +
	"Asha,asha@example.com,9876543210,3 years,10L,14L,30 days,Go,linkedin.com/in/asha\n" +
	"Ravi,,9123456780,2 years,8L,11L,15 days,Java,linkedin.com/in/ravi\n" +
	",,,,,,,,\n" +
	"Meera,meera@example.com,9000000000,1 year,4L,6L,15 days,React,linkedin.com/in/meera\n"

func waitResult(t *testing.T, svc *Service, id string) *ImportResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := svc.WaitResult(ctx, id)
	if err != nil {
		t.Fatalf("WaitResult: %v", err)
	}
	return res
}

func TestService_ImportLifecycle(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, testImportConfig())

	id, err := svc.StartImport(context.Background(), acceptAll(), ImportMeta{FileName: "batch.csv", StartedBy: "hr@example.com"}, serviceCSV)
	if err != nil {
		t.Fatalf("StartImport: %v", err)
	}

	res := waitResult(t, svc, id)

	o := res.Outcome
	if o.TotalRows != 4 || o.SuccessCount != 2 || o.FailCount != 1 || o.SkippedBlank != 1 {
		t.Errorf("outcome = %+v", o)
	}
	if res.Status != StatusPartial || res.Cancelled || res.Error != "" {
		t.Errorf("result = %+v", res)
	}

	p, err := svc.Progress(id)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if p.Phase != PhaseComplete || p.Processed != 4 || p.Percent() != 100 {
		t.Errorf("progress = %+v", p)
	}

	saved, err := store.GetImport(context.Background(), id)
	if err != nil {
		t.Fatalf("import not saved: %v", err)
	}
	if saved.StartedBy != "hr@example.com" || saved.FailCount != 1 {
		t.Errorf("saved summary = %+v", saved)
	}

	headers, rows, err := svc.FailedRows(context.Background(), id)
	if err != nil {
		t.Fatalf("FailedRows: %v", err)
	}
	if len(headers) != 9 || len(rows) != 1 || rows[0].Row != 3 {
		t.Errorf("FailedRows = %v %+v", headers, rows)
	}
}

func TestService_SchemaErrorReturnedUpfront(t *testing.T) {
	svc := NewService(nil, testImportConfig())

	calls := 0
	creator := CreatorFunc(func(ctx context.Context, rec CandidateRecord) error {
		calls++
		return nil
	})

	_, err := svc.StartImport(context.Background(), creator, ImportMeta{}, "Name,Phone\nAsha,1\n")

	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
	if calls != 0 {
		t.Errorf("creator called %d times", calls)
	}
	if got := svc.LimiterStatus().Active; got != 0 {
		t.Errorf("schema error should not hold a slot, Active = %d", got)
	}
}

func TestService_TotalFailure(t *testing.T) {
	svc := NewService(nil, testImportConfig())
	creator := CreatorFunc(func(ctx context.Context, rec CandidateRecord) error {
		return errors.New("backend rejected: duplicate email")
	})

	id, err := svc.StartImport(context.Background(), creator, ImportMeta{FileName: "dup.csv"}, serviceCSV)
	if err != nil {
		t.Fatalf("StartImport: %v", err)
	}

	res := waitResult(t, svc, id)
	if res.Status != StatusFailed {
		t.Errorf("Status = %s, want failed", res.Status)
	}
	if !strings.Contains(res.Error, "Row 3") {
		t.Errorf("Error %q should carry the first failure", res.Error)
	}

	p, _ := svc.Progress(id)
	if p.Phase != PhaseFailed {
		t.Errorf("Phase = %s, want failed", p.Phase)
	}
}

func TestService_Cancel(t *testing.T) {
	cfg := testImportConfig()
	cfg.SubmitDelay = 200 * time.Millisecond
	svc := NewService(newMemStore(), cfg)

	id, err := svc.StartImport(context.Background(), acceptAll(), ImportMeta{}, serviceCSV)
	if err != nil {
		t.Fatalf("StartImport: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	if err := svc.CancelImport(id); err != nil {
		t.Fatalf("CancelImport: %v", err)
	}

	res := waitResult(t, svc, id)
	if !res.Cancelled {
		t.Error("result should be marked cancelled")
	}
	o := res.Outcome
	if o.SuccessCount+o.FailCount+o.SkippedBlank != o.TotalRows {
		t.Errorf("counts do not add up: %+v", o)
	}
	if o.SuccessCount != 1 {
		t.Errorf("SuccessCount = %d, want 1", o.SuccessCount)
	}
	last := o.Failures[len(o.Failures)-1]
	if last.Row != 5 || last.Reason != ReasonCancelled {
		t.Errorf("last failure = %+v, want row 5 cancelled", last)
	}

	p, _ := svc.Progress(id)
	if p.Phase != PhaseCancelled {
		t.Errorf("Phase = %s, want cancelled", p.Phase)
	}
}

func TestService_SubscribeProgress(t *testing.T) {
	release := make(chan struct{})
	creator := CreatorFunc(func(ctx context.Context, rec CandidateRecord) error {
		<-release
		return nil
	})

	svc := NewService(nil, testImportConfig())
	id, err := svc.StartImport(context.Background(), creator, ImportMeta{}, serviceCSV)
	if err != nil {
		t.Fatalf("StartImport: %v", err)
	}

	ch, err := svc.SubscribeProgress(id)
	if err != nil {
		t.Fatalf("SubscribeProgress: %v", err)
	}
	first := <-ch
	if first.ImportID != id || first.TotalRows != 4 {
		t.Errorf("first update = %+v", first)
	}

	close(release)

	var last ImportProgress
	timeout := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case p, ok := <-ch:
			if !ok {
				done = true
				break
			}
			last = p
		case <-timeout:
			t.Fatal("progress channel never closed")
		}
	}

	if !last.Phase.Terminal() {
		t.Errorf("last update phase = %s, want terminal", last.Phase)
	}

	// Subscribing after completion yields the final state and a closed channel.
	late, err := svc.SubscribeProgress(id)
	if err != nil {
		t.Fatalf("late SubscribeProgress: %v", err)
	}
	if p := <-late; p.Phase != PhaseComplete {
		t.Errorf("late phase = %s", p.Phase)
	}
	if _, ok := <-late; ok {
		t.Error("late channel should be closed")
	}
}

func TestService_ResultWhileRunning(t *testing.T) {
	release := make(chan struct{})
	creator := CreatorFunc(func(ctx context.Context, rec CandidateRecord) error {
		<-release
		return nil
	})

	svc := NewService(nil, testImportConfig())
	id, err := svc.StartImport(context.Background(), creator, ImportMeta{}, serviceCSV)
	if err != nil {
		t.Fatalf("StartImport: %v", err)
	}

	if _, err := svc.Result(id); !errors.Is(err, ErrImportRunning) {
		t.Errorf("Result while running = %v, want ErrImportRunning", err)
	}
	if _, _, err := svc.FailedRows(context.Background(), id); !errors.Is(err, ErrImportRunning) {
		t.Errorf("FailedRows while running = %v, want ErrImportRunning", err)
	}

	close(release)
	waitResult(t, svc, id)
}

func TestService_LimitsConcurrentImports(t *testing.T) {
	release := make(chan struct{})
	creator := CreatorFunc(func(ctx context.Context, rec CandidateRecord) error {
		<-release
		return nil
	})

	svc := NewService(nil, testImportConfig())

	var ids []string
	for range 2 {
		id, err := svc.StartImport(context.Background(), creator, ImportMeta{}, serviceCSV)
		if err != nil {
			t.Fatalf("StartImport: %v", err)
		}
		ids = append(ids, id)
	}

	if _, err := svc.StartImport(context.Background(), creator, ImportMeta{}, serviceCSV); !errors.Is(err, ErrTooManyImports) {
		t.Errorf("third import error = %v, want ErrTooManyImports", err)
	}

	close(release)
	for _, id := range ids {
		waitResult(t, svc, id)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := svc.WaitForImports(ctx); err != nil {
		t.Errorf("WaitForImports: %v", err)
	}
}

func TestService_UnknownImport(t *testing.T) {
	svc := NewService(nil, testImportConfig())

	if _, err := svc.Progress("nope"); !errors.Is(err, ErrImportNotFound) {
		t.Errorf("Progress error = %v", err)
	}
	if err := svc.CancelImport("nope"); !errors.Is(err, ErrImportNotFound) {
		t.Errorf("CancelImport error = %v", err)
	}
	if _, _, err := svc.FailedRows(context.Background(), "nope"); !errors.Is(err, ErrImportNotFound) {
		t.Errorf("FailedRows error = %v", err)
	}
	if _, err := svc.History(context.Background(), 10); err == nil {
		t.Error("History without a store should fail")
	}
}

func TestService_FailedRowsFromStoreAfterCleanup(t *testing.T) {
	store := newMemStore()
	cfg := testImportConfig()
	cfg.ResultRetention = 20 * time.Millisecond
	svc := NewService(store, cfg)

	id, err := svc.StartImport(context.Background(), acceptAll(), ImportMeta{}, serviceCSV)
	if err != nil {
		t.Fatalf("StartImport: %v", err)
	}
	waitResult(t, svc, id)

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := svc.Progress(id); errors.Is(err, ErrImportNotFound) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("import was never cleaned up")
		}
		time.Sleep(10 * time.Millisecond)
	}

	headers, rows, err := svc.FailedRows(context.Background(), id)
	if err != nil {
		t.Fatalf("FailedRows after cleanup: %v", err)
	}
	if len(headers) != 9 || len(rows) != 1 {
		t.Errorf("FailedRows = %v %+v", headers, rows)
	}

	hist, err := svc.History(context.Background(), 10)
	if err != nil || len(hist) != 1 || hist[0].ID != id {
		t.Errorf("History = %+v, %v", hist, err)
	}
}

func TestService_Preview(t *testing.T) {
	svc := NewService(nil, testImportConfig())

	pv, err := svc.Preview(serviceCSV)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if pv.ValidRows != 2 || pv.BlankRows != 1 || len(pv.Invalid) != 1 {
		t.Errorf("preview = %+v", pv)
	}

	if _, err := svc.Preview(""); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("Preview(empty) = %v, want ErrEmptyFile", err)
	}
}

type pruningStore struct {
	*memStore
	cutoffs chan time.Time
}

func (p *pruningStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	p.cutoffs <- cutoff
	return 0, nil
}

func TestService_HistoryPruner(t *testing.T) {
	store := &pruningStore{memStore: newMemStore(), cutoffs: make(chan time.Time, 8)}
	svc := NewService(store, testImportConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.StartHistoryPruner(ctx, PruneConfig{Retention: time.Hour, Interval: 20 * time.Millisecond})
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case cutoff := <-store.cutoffs:
			if age := time.Since(cutoff); age < time.Hour || age > time.Hour+time.Minute {
				t.Errorf("cutoff age = %v, want about 1h", age)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("prune %d never ran", i+1)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pruner did not stop on cancel")
	}
}

func TestService_HistoryPrunerDisabled(t *testing.T) {
	svc := NewService(newMemStore(), testImportConfig())

	done := make(chan struct{})
	go func() {
		svc.StartHistoryPruner(context.Background(), PruneConfig{Retention: time.Hour})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pruner should return when the store cannot prune")
	}
}

func TestService_StopAccepting(t *testing.T) {
	svc := NewService(nil, testImportConfig())
	svc.StopAccepting()

	_, err := svc.StartImport(context.Background(), acceptAll(), ImportMeta{}, serviceCSV)
	if !errors.Is(err, ErrShuttingDown) {
		t.Fatalf("StartImport = %v, want ErrShuttingDown", err)
	}
	if got := MapError(err).Code; got != "IMP008" {
		t.Errorf("code = %s, want IMP008", got)
	}
	if got := svc.LimiterStatus().Active; got != 0 {
		t.Errorf("Active = %d, want 0", got)
	}
}

func TestService_Authorize(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, testImportConfig())

	id, err := svc.StartImport(context.Background(), acceptAll(), ImportMeta{StartedBy: "hr@example.com"}, serviceCSV)
	if err != nil {
		t.Fatalf("StartImport: %v", err)
	}
	waitResult(t, svc, id)

	noStore := NewService(nil, testImportConfig())

	tests := []struct {
		name    string
		svc     *Service
		id      string
		user    string
		wantErr bool
	}{
		{"owner", svc, id, "hr@example.com", false},
		{"owner ignores case", svc, id, "HR@Example.com", false},
		{"other user", svc, id, "ops@example.com", true},
		{"empty user", svc, id, "", true},
		{"unknown import", svc, "nope", "hr@example.com", true},
		{"unknown without store", noStore, "nope", "hr@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.svc.Authorize(context.Background(), tt.id, tt.user)
			if !tt.wantErr {
				if err != nil {
					t.Errorf("Authorize = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrImportNotFound) {
				t.Errorf("Authorize = %v, want ErrImportNotFound", err)
			}
		})
	}
}

func TestService_AuthorizeFromStore(t *testing.T) {
	store := newMemStore()
	cfg := testImportConfig()
	cfg.ResultRetention = 20 * time.Millisecond
	svc := NewService(store, cfg)

	id, err := svc.StartImport(context.Background(), acceptAll(), ImportMeta{StartedBy: "hr@example.com"}, serviceCSV)
	if err != nil {
		t.Fatalf("StartImport: %v", err)
	}
	waitResult(t, svc, id)

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := svc.Progress(id); errors.Is(err, ErrImportNotFound) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("import was never cleaned up")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := svc.Authorize(context.Background(), id, "hr@example.com"); err != nil {
		t.Errorf("owner after cleanup = %v", err)
	}
	if err := svc.Authorize(context.Background(), id, "ops@example.com"); !errors.Is(err, ErrImportNotFound) {
		t.Errorf("other user after cleanup = %v, want ErrImportNotFound", err)
	}
}
