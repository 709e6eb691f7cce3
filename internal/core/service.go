package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/JonMunkholm/hireboard/internal/config"
	"github.com/google/uuid"
)

// ErrImportRunning is returned when a result is requested before the import
// has finished.
var ErrImportRunning = errors.New("import still running")

// errNoStore is returned by history operations when no store is configured.
var errNoStore = errors.New("history store: not configured")

// saveTimeout bounds writing a finished import to the history store.
const saveTimeout = 10 * time.Second

// Service runs candidate imports and keeps recent ones queryable.
type Service struct {
	store   ImportStore
	cfg     config.ImportConfig
	limiter *ImportLimiter

	mu      sync.RWMutex
	imports map[string]*activeImport
}

type activeImport struct {
	ID        string
	FileName  string
	StartedBy string
	Cancel    context.CancelFunc
	Done      chan struct{}

	mu        sync.Mutex
	progress  ImportProgress
	result    *ImportResult
	listeners []chan ImportProgress
}

// ImportMeta describes who started an import and from which file.
type ImportMeta struct {
	FileName  string
	StartedBy string
}

// NewService creates a Service. store may be nil, in which case history
// operations return an error and finished imports live only in memory.
func NewService(store ImportStore, cfg config.ImportConfig) *Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	if cfg.ResultRetention <= 0 {
		cfg.ResultRetention = 5 * time.Minute
	}

	return &Service{
		store:   store,
		cfg:     cfg,
		limiter: NewImportLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		imports: make(map[string]*activeImport),
	}
}

// MaxFileSize returns the configured upload size limit in bytes.
func (s *Service) MaxFileSize() int64 {
	return s.cfg.MaxFileSize
}

// Preview parses, maps and validates text without submitting anything.
func (s *Service) Preview(text string) (ImportPreview, error) {
	plan, err := PlanImport(text)
	if err != nil {
		return ImportPreview{}, err
	}
	return plan.Preview(), nil
}

// StartImport validates the file's structure and then submits its rows in
// the background through creator. It returns the import ID immediately.
//
// Empty files and schema errors are returned here and nothing is submitted.
// Returns ErrTooManyImports if no import slot frees up in time.
func (s *Service) StartImport(ctx context.Context, creator CandidateCreator, meta ImportMeta, text string) (string, error) {
	plan, err := PlanImport(text)
	if err != nil {
		return "", err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return "", err
	}

	importID := uuid.New().String()
	importCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)

	ai := &activeImport{
		ID:        importID,
		FileName:  meta.FileName,
		StartedBy: meta.StartedBy,
		Cancel:    cancel,
		Done:      make(chan struct{}),
		progress: ImportProgress{
			ImportID:  importID,
			FileName:  meta.FileName,
			Phase:     PhaseStarting,
			TotalRows: plan.TotalRows(),
		},
	}

	s.mu.Lock()
	s.imports[importID] = ai
	s.mu.Unlock()

	slog.Info("import started",
		"import_id", importID,
		"file", meta.FileName,
		"user", meta.StartedBy,
		"rows", plan.TotalRows(),
	)

	go func() {
		defer s.limiter.Release()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("panic in import", "import_id", importID, "panic", r)
				ai.finish(&ImportResult{
					ImportID:   importID,
					FileName:   meta.FileName,
					StartedBy:  meta.StartedBy,
					Headers:    plan.Headers,
					Status:     StatusFailed,
					FinishedAt: time.Now(),
					Error:      fmt.Sprintf("internal error: %v", r),
				}, PhaseFailed)
				s.cleanup(importID, s.cfg.ResultRetention)
			}
		}()
		s.run(importCtx, ai, plan, creator)
	}()

	return importID, nil
}

// run submits the plan and records the result.
func (s *Service) run(ctx context.Context, ai *activeImport, plan *ImportPlan, creator CandidateCreator) {
	start := time.Now()
	defer ai.Cancel()

	ai.update(func(p *ImportProgress) { p.Phase = PhaseSubmitting })

	sub := &Submitter{
		Creator:     creator,
		Delay:       s.cfg.SubmitDelay,
		Concurrency: s.cfg.Concurrency,
		OnRow: func(r RowResult) {
			ai.update(func(p *ImportProgress) {
				p.Processed++
				switch r.Status {
				case RowCreated:
					p.Succeeded++
				case RowFailed:
					p.Failed++
				case RowSkipped:
					p.SkippedBlank++
				}
			})
		},
	}

	outcome := sub.Submit(ctx, plan.Jobs)
	ctxErr := ctx.Err()

	res := &ImportResult{
		ImportID:   ai.ID,
		FileName:   ai.FileName,
		StartedBy:  ai.StartedBy,
		Headers:    plan.Headers,
		Outcome:    outcome,
		Status:     outcome.Status(),
		Cancelled:  ctxErr != nil,
		Duration:   time.Since(start),
		FinishedAt: time.Now(),
	}

	phase := PhaseComplete
	switch {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		phase = PhaseCancelled
		res.Error = "import cancelled: timed out after " + s.cfg.Timeout.String()
	case ctxErr != nil:
		phase = PhaseCancelled
		res.Error = ReasonCancelled
	case outcome.Err() != nil:
		phase = PhaseFailed
		res.Error = outcome.Err().Error()
	}

	importsTotal.WithLabelValues(string(res.Status)).Inc()
	importDuration.Observe(res.Duration.Seconds())

	if s.store != nil {
		saveCtx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		if err := s.store.SaveImport(saveCtx, *res); err != nil {
			slog.Error("failed to save import history", "import_id", ai.ID, "error", err)
		}
		cancel()
	}

	slog.Info("import finished",
		"import_id", ai.ID,
		"status", res.Status,
		"succeeded", outcome.SuccessCount,
		"failed", outcome.FailCount,
		"skipped_blank", outcome.SkippedBlank,
		"cancelled", res.Cancelled,
		"duration", res.Duration,
	)

	ai.finish(res, phase)
	s.cleanup(ai.ID, s.cfg.ResultRetention)
}

func (s *Service) lookup(importID string) (*activeImport, error) {
	s.mu.RLock()
	ai, ok := s.imports[importID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrImportNotFound, importID)
	}
	return ai, nil
}

// SubscribeProgress returns a channel of progress updates. The current state
// is sent first and the channel is closed when the import finishes.
func (s *Service) SubscribeProgress(importID string) (<-chan ImportProgress, error) {
	ai, err := s.lookup(importID)
	if err != nil {
		return nil, err
	}

	ch := make(chan ImportProgress, 16)

	ai.mu.Lock()
	defer ai.mu.Unlock()

	ch <- ai.progress
	if ai.result != nil {
		close(ch)
		return ch, nil
	}
	ai.listeners = append(ai.listeners, ch)
	return ch, nil
}

// Progress returns the current progress without blocking.
func (s *Service) Progress(importID string) (ImportProgress, error) {
	ai, err := s.lookup(importID)
	if err != nil {
		return ImportProgress{}, err
	}

	ai.mu.Lock()
	defer ai.mu.Unlock()
	return ai.progress, nil
}

// CancelImport stops an import. Rows not yet submitted are failed with
// ReasonCancelled.
func (s *Service) CancelImport(importID string) error {
	ai, err := s.lookup(importID)
	if err != nil {
		return err
	}
	ai.Cancel()
	return nil
}

// Result returns the finished result, or ErrImportRunning if the import is
// still in progress.
func (s *Service) Result(importID string) (*ImportResult, error) {
	ai, err := s.lookup(importID)
	if err != nil {
		return nil, err
	}

	ai.mu.Lock()
	defer ai.mu.Unlock()
	if ai.result == nil {
		return nil, ErrImportRunning
	}
	return ai.result, nil
}

// WaitResult blocks until the import finishes or ctx ends.
func (s *Service) WaitResult(ctx context.Context, importID string) (*ImportResult, error) {
	ai, err := s.lookup(importID)
	if err != nil {
		return nil, err
	}

	select {
	case <-ai.Done:
		return s.Result(importID)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Authorize reports whether user started the import. Imports started by
// someone else are reported as not found so their IDs reveal nothing.
// Finished imports no longer in memory are checked against the store.
func (s *Service) Authorize(ctx context.Context, importID, user string) error {
	owner := ""
	if ai, err := s.lookup(importID); err == nil {
		owner = ai.StartedBy
	} else if s.store != nil {
		sum, err := s.store.GetImport(ctx, importID)
		if err != nil {
			return err
		}
		owner = sum.StartedBy
	} else {
		return err
	}

	if owner == "" || !strings.EqualFold(owner, user) {
		return fmt.Errorf("%w: %s", ErrImportNotFound, importID)
	}
	return nil
}

// StopAccepting refuses new imports from now on. Running imports continue;
// use WaitForImports to let them finish.
func (s *Service) StopAccepting() {
	s.limiter.Close()
}

// History returns the most recent finished imports.
func (s *Service) History(ctx context.Context, limit int) ([]ImportSummary, error) {
	if s.store == nil {
		return nil, errNoStore
	}
	if limit <= 0 {
		limit = 50
	}
	return s.store.ListImports(ctx, limit)
}

// FailedRows returns the original header row and the failed rows of an
// import, from memory while it is retained and from the store afterwards.
func (s *Service) FailedRows(ctx context.Context, importID string) ([]string, []RowFailure, error) {
	if res, err := s.Result(importID); err == nil {
		return res.Headers, res.Outcome.Failures, nil
	} else if errors.Is(err, ErrImportRunning) {
		return nil, nil, err
	}

	if s.store == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrImportNotFound, importID)
	}

	sum, err := s.store.GetImport(ctx, importID)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.store.FailedRows(ctx, importID)
	if err != nil {
		return nil, nil, err
	}
	return sum.Headers, rows, nil
}

// LimiterStatus reports import slot usage.
func (s *Service) LimiterStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until running imports finish or ctx ends.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// update applies fn to the progress and broadcasts the new state.
func (ai *activeImport) update(fn func(*ImportProgress)) {
	ai.mu.Lock()
	defer ai.mu.Unlock()

	fn(&ai.progress)
	ai.broadcastLocked()
}

// finish stores the result, sends the final progress and closes listeners.
func (ai *activeImport) finish(res *ImportResult, phase ImportPhase) {
	ai.mu.Lock()
	defer ai.mu.Unlock()

	if ai.result != nil {
		return
	}

	ai.result = res
	ai.progress.Phase = phase
	ai.progress.Error = res.Error
	ai.broadcastLocked()

	for _, ch := range ai.listeners {
		close(ch)
	}
	ai.listeners = nil
	close(ai.Done)
}

func (ai *activeImport) broadcastLocked() {
	for _, ch := range ai.listeners {
		select {
		case ch <- ai.progress:
		default:
			// Listener is slow, skip this update
		}
	}
}

// cleanup forgets the import after the retention delay.
func (s *Service) cleanup(importID string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.imports, importID)
		s.mu.Unlock()
	})
}
