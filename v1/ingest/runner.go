package ingest

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog/audit"
	"github.com/Aleph-Alpha/catalog-ingest/v1/logger"
)

// ErrRunnerClosed is returned by Submit after Shutdown has begun.
var ErrRunnerClosed = errors.New("ingest runner is shut down")

// Executor runs one ingestion to completion.
type Executor interface {
	Run(ctx context.Context, req Request) (Result, error)
}

// Runner executes accepted uploads in the background. Runs of one provider
// are serialized by the provider lock; runs of different providers proceed
// in parallel up to the configured limit.
type Runner struct {
	exec      Executor
	providers ProviderDirectory
	lock      ProviderLock
	sem       *semaphore.Weighted
	metrics   *Metrics
	audit     audit.Recorder
	log       logger.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup

	// onDone observes every finished run; tests use it.
	onDone func(Request, Result, error)
}

// NewRunner builds a Runner. rec receives a failure event for accepted
// uploads that never start; it may be nil.
func NewRunner(cfg Config, exec Executor, providers ProviderDirectory, lock ProviderLock, rec audit.Recorder, m *Metrics, log logger.Logger) *Runner {
	cfg = cfg.withDefaults()
	if rec == nil {
		rec = discardAudit{}
	}
	return &Runner{
		exec:      exec,
		providers: providers,
		lock:      lock,
		sem:       semaphore.NewWeighted(cfg.MaxConcurrentRuns),
		metrics:   m,
		audit:     rec,
		log:       log,
	}
}

// Submit starts a run and returns without waiting for it. The run does not
// inherit ctx's cancellation, so an HTTP request finishing early does not
// abort the ingestion; ctx only contributes its values such as trace ids.
func (r *Runner) Submit(ctx context.Context, req Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRunnerClosed
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.execute(context.WithoutCancel(ctx), req)
	}()
	return nil
}

func (r *Runner) execute(ctx context.Context, req Request) {
	fields := map[string]interface{}{
		"provider_key": req.ProviderKey,
		"file_ref":     req.FileRef,
	}

	key := r.lockKey(ctx, req.ProviderKey)
	release, err := r.lock.Acquire(ctx, key)
	if err != nil {
		r.log.ErrorWithContext(ctx, "could not acquire provider upload lock", err, fields)
		r.notStarted(ctx, req, key, ReasonProviderLock, err)
		return
	}
	defer release()

	if err := r.sem.Acquire(ctx, 1); err != nil {
		r.log.ErrorWithContext(ctx, "could not acquire a run slot", err, fields)
		r.notStarted(ctx, req, key, ReasonRunSlot, err)
		return
	}
	defer r.sem.Release(1)

	r.metrics.runStarted()
	defer r.metrics.runFinished()

	res, err := r.exec.Run(ctx, req)
	r.done(req, res, err)
}

// lockKey resolves the provider so that requests naming it by id and by
// code contend for the same lock. Unknown providers lock on the raw key;
// the run rejects them anyway.
func (r *Runner) lockKey(ctx context.Context, key string) string {
	if r.providers == nil {
		return key
	}
	p, err := r.providers.GetByIDOrCode(ctx, key)
	if err != nil || p == nil {
		return key
	}
	return p.ID
}

// notStarted reports an accepted upload that never reached the pipeline,
// so the uploader can see the outcome in the audit trail.
func (r *Runner) notStarted(ctx context.Context, req Request, providerID, reason string, err error) {
	r.audit.Record(ctx, audit.ActionVersionFailed, map[string]string{
		audit.KeyProviderID: providerID,
		audit.KeyFileRef:    req.FileRef,
		audit.KeyActor:      req.Actor,
		audit.KeyReason:     reason,
	})
	r.done(req, Result{Outcome: OutcomeFailed, Reason: reason}, err)
}

func (r *Runner) done(req Request, res Result, err error) {
	if r.onDone != nil {
		r.onDone(req, res, err)
	}
}

// Shutdown stops accepting runs and waits for the in-flight ones, or for
// ctx to end.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
