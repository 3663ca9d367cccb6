package ingest

import (
	"context"
	"time"

	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog/audit"
)

// activationSteps are the two fatal cutover steps. The ledger transaction
// in the first is the commit point; the second promotes the staged items.
func (p *Pipeline) activationSteps(r *run) []Step {
	return []Step{
		{
			Name:   "activate-version",
			Reason: ReasonFinalizeActivation,
			Forward: func(ctx context.Context) error {
				return p.store.do(ctx, "activating version", func(ctx context.Context) error {
					prev, err := p.ledger.Activate(ctx, r.version.ProviderID, r.version.ID)
					if err != nil {
						return err
					}
					r.previous = prev
					r.activated = true
					return nil
				})
			},
			Compensate: func(ctx context.Context) error {
				if !r.activated {
					return nil
				}
				prevID := ""
				if r.previous != nil {
					prevID = r.previous.ID
				}
				err := p.store.do(ctx, "reverting activation", func(ctx context.Context) error {
					return p.ledger.RevertActivation(ctx, r.version.ID, prevID)
				})
				if err == nil {
					r.activated = false
				}
				return err
			},
		},
		{
			Name:   "activate-items",
			Reason: ReasonFinalizeActivation,
			Forward: func(ctx context.Context) error {
				return p.setItemsActive(ctx, r.version.ID, true)
			},
			Compensate: func(ctx context.Context) error {
				return p.setItemsActive(ctx, r.version.ID, false)
			},
		},
	}
}

// retire runs the non-fatal cutover steps once the new version is live:
// deactivate the previous version's items, drop its vectors and record
// the activation. Failures here are logged and leave the run successful.
func (p *Pipeline) retire(ctx context.Context, r *run) {
	if prev := r.previous; prev != nil {
		if err := p.setItemsActive(ctx, prev.ID, false); err != nil {
			p.log.ErrorWithContext(ctx, "failed to deactivate items of archived version", err, map[string]interface{}{
				"provider_id": r.version.ProviderID,
				"version_id":  prev.ID,
			})
		}

		if err := p.remote.do(ctx, "deleting archived vectors", func(ctx context.Context) error {
			return p.vectors.DeleteByVersion(ctx, r.version.ProviderID, prev.ID)
		}); err != nil {
			p.log.WarnWithContext(ctx, "failed to delete vectors of archived version", err, map[string]interface{}{
				"provider_id": r.version.ProviderID,
				"version_id":  prev.ID,
			})
		}
	}

	md := map[string]string{
		audit.KeyProviderID: r.version.ProviderID,
		audit.KeyVersionID:  r.version.ID,
		audit.KeyFileRef:    r.req.FileRef,
		audit.KeyActor:      r.req.Actor,
	}
	if r.previous != nil {
		md["archivedVersionId"] = r.previous.ID
	}
	p.audit.Record(ctx, audit.ActionVersionActivated, md)
}

func (p *Pipeline) setItemsActive(ctx context.Context, versionID string, active bool) error {
	var at time.Time
	if !active {
		at = p.now().UTC()
	}
	return p.store.do(ctx, "updating item active flags", func(ctx context.Context) error {
		_, err := p.items.SetActive(ctx, versionID, active, at)
		return err
	})
}
