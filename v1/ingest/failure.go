package ingest

import (
	"context"
	"errors"

	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog/audit"
)

// Failure describes a run that created a version and then failed.
type Failure struct {
	ProviderID string
	VersionID  string
	FileRef    string
	Actor      string
	Reason     string
	Cause      error
}

// Fail records the failure, moves the version to FAILED and deletes its
// never-activated items. It is safe to call more than once for the same
// version, and it refuses to fail a version that is ACTIVE. The returned
// error joins whatever cleanup could not be done.
func (p *Pipeline) Fail(ctx context.Context, f Failure) error {
	fields := map[string]interface{}{
		"provider_id": f.ProviderID,
		"version_id":  f.VersionID,
		"file_ref":    f.FileRef,
		"reason":      f.Reason,
	}
	p.log.ErrorWithContext(ctx, "catalog version failed", f.Cause, fields)

	p.audit.Record(ctx, audit.ActionVersionFailed, map[string]string{
		audit.KeyProviderID: f.ProviderID,
		audit.KeyVersionID:  f.VersionID,
		audit.KeyFileRef:    f.FileRef,
		audit.KeyActor:      f.Actor,
		audit.KeyReason:     f.Reason,
	})

	var errs []error
	if err := p.store.do(ctx, "marking version failed", func(ctx context.Context) error {
		return p.ledger.MarkFailed(ctx, f.VersionID)
	}); err != nil {
		p.log.ErrorWithContext(ctx, "could not mark catalog version failed", err, fields)
		errs = append(errs, err)
	}

	if err := p.store.do(ctx, "deleting staged items", func(ctx context.Context) error {
		_, err := p.items.DeleteInactive(ctx, f.VersionID)
		return err
	}); err != nil {
		p.log.WarnWithContext(ctx, "could not delete staged items of failed version", err, fields)
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
