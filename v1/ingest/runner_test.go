package ingest

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog"
	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog/audit"
	"github.com/Aleph-Alpha/catalog-ingest/v1/logger"
)

// chanLock is an in-process provider lock.
type chanLock struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
	keys  []string
}

func newChanLock() *chanLock { return &chanLock{locks: map[string]chan struct{}{}} }

func (l *chanLock) Acquire(ctx context.Context, providerID string) (func(), error) {
	l.mu.Lock()
	ch, ok := l.locks[providerID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[providerID] = ch
	}
	l.keys = append(l.keys, providerID)
	l.mu.Unlock()

	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	var once sync.Once
	return func() { once.Do(func() { <-ch }) }, nil
}

// gatedExecutor tracks overlap per provider and overall.
type gatedExecutor struct {
	inner   Executor
	delay   time.Duration
	running atomic.Int32
	peak    atomic.Int32
}

func (g *gatedExecutor) Run(ctx context.Context, req Request) (Result, error) {
	n := g.running.Add(1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(g.delay)
	defer g.running.Add(-1)
	return g.inner.Run(ctx, req)
}

type collected struct {
	mu      sync.Mutex
	results []Result
	wg      sync.WaitGroup
}

func (c *collected) observe(_ Request, res Result, _ error) {
	c.mu.Lock()
	c.results = append(c.results, res)
	c.mu.Unlock()
	c.wg.Done()
}

func TestBackToBackUploadsAreSerialized(t *testing.T) {
	f := newFixture(DefaultConfig())
	exec := &gatedExecutor{inner: f.pipeline, delay: 20 * time.Millisecond}
	lock := newChanLock()
	runner := NewRunner(DefaultConfig(), exec, newFakeProviders(f.provider), lock, nil, nil, logger.NewNop())
	c := &collected{}
	runner.onDone = c.observe

	first := f.upload("uploads/a.csv", "SKU-1")
	second := f.upload("uploads/b.csv", "SKU-2")
	// The second request names the provider by code; both must contend for one lock.
	second.ProviderKey = f.provider.Code

	c.wg.Add(2)
	require.NoError(t, runner.Submit(context.Background(), first))
	require.NoError(t, runner.Submit(context.Background(), second))
	c.wg.Wait()

	assert.EqualValues(t, 1, exec.peak.Load())
	assert.Equal(t, []string{"prov-1", "prov-1"}, lock.keys)

	require.Len(t, c.results, 2)
	for _, res := range c.results {
		assert.Equal(t, OutcomeActivated, res.Outcome)
	}
	assert.Len(t, f.ledger.byStatus("prov-1", catalog.StatusActive), 1)
	assert.Len(t, f.ledger.byStatus("prov-1", catalog.StatusArchived), 1)
	assert.Len(t, f.items.activeVersions("prov-1"), 1)
}

func TestSubmitDetachesFromCallerContext(t *testing.T) {
	f := newFixture(DefaultConfig())
	runner := NewRunner(DefaultConfig(), f.pipeline, nil, newChanLock(), nil, nil, logger.NewNop())
	c := &collected{}
	runner.onDone = c.observe

	ctx, cancel := context.WithCancel(context.Background())
	c.wg.Add(1)
	require.NoError(t, runner.Submit(ctx, f.upload("uploads/a.csv", "SKU-1")))
	cancel()
	c.wg.Wait()

	require.Len(t, c.results, 1)
	assert.Equal(t, OutcomeActivated, c.results[0].Outcome)
}

func TestConcurrentRunsAreBounded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxConcurrentRuns = 2
	exec := &gatedExecutor{inner: executorFunc(func(context.Context, Request) (Result, error) {
		return Result{Outcome: OutcomeActivated}, nil
	}), delay: 30 * time.Millisecond}
	runner := NewRunner(cfg, exec, nil, newChanLock(), nil, nil, logger.NewNop())
	c := &collected{}
	runner.onDone = c.observe

	c.wg.Add(5)
	for _, p := range []string{"p1", "p2", "p3", "p4", "p5"} {
		require.NoError(t, runner.Submit(context.Background(), Request{ProviderKey: p}))
	}
	c.wg.Wait()

	assert.LessOrEqual(t, exec.peak.Load(), int32(2))
}

func TestShutdownWaitsAndRefusesNewRuns(t *testing.T) {
	exec := &gatedExecutor{inner: executorFunc(func(context.Context, Request) (Result, error) {
		return Result{Outcome: OutcomeActivated}, nil
	}), delay: 30 * time.Millisecond}
	runner := NewRunner(DefaultConfig(), exec, nil, newChanLock(), nil, nil, logger.NewNop())

	require.NoError(t, runner.Submit(context.Background(), Request{ProviderKey: "p1"}))
	require.NoError(t, runner.Shutdown(context.Background()))
	assert.Zero(t, exec.running.Load())

	assert.ErrorIs(t, runner.Submit(context.Background(), Request{ProviderKey: "p1"}), ErrRunnerClosed)
}

type failingLock struct{ err error }

func (l failingLock) Acquire(context.Context, string) (func(), error) { return nil, l.err }

func TestLockFailureIsAuditedAndSkipsRun(t *testing.T) {
	f := newFixture(DefaultConfig())
	var ran atomic.Bool
	exec := executorFunc(func(context.Context, Request) (Result, error) {
		ran.Store(true)
		return Result{Outcome: OutcomeActivated}, nil
	})
	rec := &recordingAudit{}
	runner := NewRunner(DefaultConfig(), exec, newFakeProviders(f.provider), failingLock{err: errBoom}, rec, nil, logger.NewNop())
	c := &collected{}
	runner.onDone = c.observe

	req := Request{ProviderKey: f.provider.Code, FileRef: "uploads/a.csv", Actor: "tester"}
	c.wg.Add(1)
	require.NoError(t, runner.Submit(context.Background(), req))
	c.wg.Wait()

	assert.False(t, ran.Load())
	require.Len(t, c.results, 1)
	assert.Equal(t, OutcomeFailed, c.results[0].Outcome)
	assert.Equal(t, ReasonProviderLock, c.results[0].Reason)

	require.Len(t, rec.events, 1)
	ev := rec.last()
	assert.Equal(t, audit.ActionVersionFailed, ev.Action)
	assert.Equal(t, map[string]string{
		audit.KeyProviderID: "prov-1",
		audit.KeyFileRef:    "uploads/a.csv",
		audit.KeyActor:      "tester",
		audit.KeyReason:     ReasonProviderLock,
	}, ev.Metadata)
}

type executorFunc func(context.Context, Request) (Result, error)

func (f executorFunc) Run(ctx context.Context, req Request) (Result, error) { return f(ctx, req) }
