package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog"
	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog/audit"
	"github.com/Aleph-Alpha/catalog-ingest/v1/logger"
	"github.com/Aleph-Alpha/catalog-ingest/v1/tracer"
)

// Request asks for one upload to be ingested.
type Request struct {
	// ProviderKey is the provider id or code as given by the caller.
	ProviderKey string
	FileRef     string
	Actor       string
}

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeActivated Outcome = "activated"
	OutcomeRejected  Outcome = "rejected"
	OutcomeFailed    Outcome = "failed"
)

// Result describes a finished run. Version is nil for rejected uploads.
type Result struct {
	Outcome  Outcome
	Version  *catalog.Version
	Previous *catalog.Version
	Reason   string
}

// Deps are the collaborators of a Pipeline. Metrics and Tracer are optional.
type Deps struct {
	Providers ProviderDirectory
	Rows      RowReader
	Ledger    VersionLedger
	Items     ItemStore
	Vectors   VectorIndex
	Embedder  Embedder
	Audit     audit.Recorder
	Logger    logger.Logger
	Metrics   *Metrics
	Tracer    *tracer.Tracer

	// Sleep and Now default to real time.
	Sleep SleepFunc
	Now   func() time.Time
	// NewID names new versions; defaults to random UUIDs.
	NewID func() string
}

// Pipeline turns a validated upload into a new ACTIVE catalog version or
// leaves the previous one untouched.
type Pipeline struct {
	cfg       Config
	validator *Validator
	ledger    VersionLedger
	items     ItemStore
	vectors   VectorIndex
	embedder  Embedder
	audit     audit.Recorder
	log       logger.Logger
	metrics   *Metrics
	tracer    *tracer.Tracer
	now       func() time.Time
	newID     func() string

	// remote retries the embedding provider and vector index, store the ledger and item store.
	remote retrier
	store  retrier
}

// run is the state threaded through the steps of one ingestion.
type run struct {
	req       Request
	provider  catalog.Provider
	rows      []catalog.Row
	version   catalog.Version
	items     []catalog.Item
	vectors   []catalog.VectorRecord
	previous  *catalog.Version
	activated bool
}

func NewPipeline(cfg Config, deps Deps) *Pipeline {
	cfg = cfg.withDefaults()
	if deps.Sleep == nil {
		deps.Sleep = sleepContext
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	if deps.Audit == nil {
		deps.Audit = discardAudit{}
	}

	p := &Pipeline{
		cfg:       cfg,
		validator: NewValidator(deps.Providers, deps.Rows, deps.Logger),
		ledger:    deps.Ledger,
		items:     deps.Items,
		vectors:   deps.Vectors,
		embedder:  deps.Embedder,
		audit:     deps.Audit,
		log:       deps.Logger,
		metrics:   deps.Metrics,
		tracer:    deps.Tracer,
		now:       deps.Now,
		newID:     deps.NewID,
	}
	p.remote = retrier{
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.BaseDelay,
		sleep:       deps.Sleep,
		retryable:   IsRetryable,
		onAttempt:   p.metrics.remoteAttempt,
	}
	p.store = retrier{
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.BaseDelay,
		sleep:       deps.Sleep,
		retryable:   IsRetryableStoreError,
	}
	return p
}

// Run ingests one upload to completion. It returns a *PreconditionError for
// rejected uploads and a *StepError when a created version failed; in both
// cases the previously ACTIVE version is still the one being served.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	start := p.now()
	ctx, end := p.span(ctx, "ingest.run", map[string]interface{}{
		"provider_key": req.ProviderKey,
		"file_ref":     req.FileRef,
	})

	res, err := p.execute(ctx, req)

	end(err)
	p.metrics.observeRun(res.Outcome, p.now().Sub(start))
	return res, err
}

func (p *Pipeline) execute(ctx context.Context, req Request) (Result, error) {
	validated, err := p.validator.Validate(ctx, req.ProviderKey, req.FileRef)
	if err != nil {
		reason := RejectionReason(err)
		if reason == "" {
			reason = err.Error()
		}
		p.log.WarnWithContext(ctx, "catalog upload rejected", err, map[string]interface{}{
			"provider_key": req.ProviderKey,
			"file_ref":     req.FileRef,
			"reason":       reason,
		})
		p.audit.Record(ctx, audit.ActionUploadRejected, map[string]string{
			audit.KeyProviderID: req.ProviderKey,
			audit.KeyFileRef:    req.FileRef,
			audit.KeyActor:      req.Actor,
			audit.KeyReason:     reason,
		})
		return Result{Outcome: OutcomeRejected, Reason: reason}, err
	}

	r := &run{req: req, provider: validated.Provider, rows: validated.Rows}

	// The id is fixed before the first attempt so a retried open finds the
	// row an earlier attempt may have committed.
	versionID := p.newID()
	err = p.store.do(ctx, "opening catalog version", func(ctx context.Context) error {
		v, err := p.ledger.Open(ctx, versionID, r.provider.ID, req.FileRef)
		if err != nil {
			return err
		}
		r.version = v
		return nil
	})
	if err != nil {
		p.log.ErrorWithContext(ctx, "could not open catalog version", err, map[string]interface{}{
			"provider_id": r.provider.ID,
			"file_ref":    req.FileRef,
		})
		p.audit.Record(ctx, audit.ActionVersionFailed, map[string]string{
			audit.KeyProviderID: r.provider.ID,
			audit.KeyFileRef:    req.FileRef,
			audit.KeyActor:      req.Actor,
			audit.KeyReason:     ReasonOpenVersion,
		})
		return Result{Outcome: OutcomeFailed, Reason: ReasonOpenVersion}, fmt.Errorf("%s: %w", ReasonOpenVersion, err)
	}

	p.log.InfoWithContext(ctx, "catalog version opened", nil, map[string]interface{}{
		"provider_id":    r.provider.ID,
		"version_id":     r.version.ID,
		"version_number": r.version.VersionNumber,
		"rows":           len(r.rows),
	})

	if err := runSaga(ctx, p.log, p.steps(r)); err != nil {
		reason := ReasonFinalizeActivation
		var se *StepError
		if errors.As(err, &se) {
			reason = se.Reason
		}
		if cleanupErr := p.Fail(ctx, Failure{
			ProviderID: r.provider.ID,
			VersionID:  r.version.ID,
			FileRef:    req.FileRef,
			Actor:      req.Actor,
			Reason:     reason,
			Cause:      err,
		}); cleanupErr != nil {
			p.log.ErrorWithContext(ctx, "failed version was not fully cleaned up", cleanupErr, map[string]interface{}{
				"provider_id": r.provider.ID,
				"version_id":  r.version.ID,
				"critical":    true,
			})
		}
		v := r.version
		v.Status = catalog.StatusFailed
		return Result{Outcome: OutcomeFailed, Version: &v, Reason: reason}, err
	}

	p.retire(ctx, r)

	v := r.version
	v.Status = catalog.StatusActive
	p.log.InfoWithContext(ctx, "catalog version activated", nil, map[string]interface{}{
		"provider_id":    r.provider.ID,
		"version_id":     v.ID,
		"version_number": v.VersionNumber,
		"items":          len(r.items),
	})
	return Result{Outcome: OutcomeActivated, Version: &v, Previous: r.previous}, nil
}

func (p *Pipeline) steps(r *run) []Step {
	steps := []Step{
		{
			Name:    "stage-items",
			Reason:  ReasonSaveItems,
			Forward: func(ctx context.Context) error { return p.stage(ctx, r) },
		},
		{
			Name:    "embed-items",
			Reason:  ReasonEmbeddings,
			Forward: func(ctx context.Context) error { return p.embed(ctx, r) },
		},
		{
			Name:    "publish-vectors",
			Reason:  ReasonPublishVectors,
			Forward: func(ctx context.Context) error { return p.publish(ctx, r) },
			Compensate: func(ctx context.Context) error {
				return p.remote.do(ctx, "deleting vectors of failed version", func(ctx context.Context) error {
					return p.vectors.DeleteByVersion(ctx, r.version.ProviderID, r.version.ID)
				})
			},
		},
	}
	return append(steps, p.activationSteps(r)...)
}

// span starts a trace span when a tracer is configured. The returned func
// records err on the span and ends it.
func (p *Pipeline) span(ctx context.Context, name string, attrs map[string]interface{}) (context.Context, func(error)) {
	if p.tracer == nil {
		return ctx, func(error) {}
	}
	ctx, span := p.tracer.StartSpan(ctx, name)
	p.tracer.SetAttributes(span, attrs)
	return ctx, func(err error) {
		if err != nil {
			p.tracer.RecordErrorOnSpan(span, err)
		}
		span.End()
	}
}

type discardAudit struct{}

func (discardAudit) Record(context.Context, audit.Action, map[string]string) {}
