package versions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog"
	"github.com/Aleph-Alpha/catalog-ingest/v1/postgres"
)

var (
	// ErrVersionNotFound is returned when the referenced version row does not exist.
	ErrVersionNotFound = errors.New("catalog version not found")

	// ErrInvalidTransition is returned when a status change would break the lifecycle.
	ErrInvalidTransition = errors.New("invalid catalog version transition")
)

// singleActiveIndex backs the "at most one ACTIVE version per provider" rule in the store itself.
const singleActiveIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_catalog_versions_single_active
	ON catalog_versions (provider_id) WHERE status = 'ACTIVE'`

// Ledger owns the authoritative version records.
type Ledger struct {
	db  postgres.Client
	now func() time.Time
}

func NewLedger(db postgres.Client) *Ledger {
	return &Ledger{db: db, now: time.Now}
}

// Migrate creates the catalog_versions table and its partial unique index.
func (l *Ledger) Migrate() error {
	if err := l.db.Migrate(&catalog.Version{}); err != nil {
		return err
	}
	_, err := l.db.Exec(context.Background(), singleActiveIndex)
	return err
}

// Open inserts a PROCESSING version with the caller's id, numbered one
// above the provider's highest existing number. Concurrent opens for the
// same provider are serialized by a transaction-scoped advisory lock; the
// unique index on (provider_id, version_number) remains as the last line of
// defence and surfaces as postgres.ErrDuplicateKey.
//
// Opening an id that already exists for the same provider returns the
// stored row, so a retry after a lost commit acknowledgement does not leave
// a second PROCESSING version behind.
func (l *Ledger) Open(ctx context.Context, versionID, providerID, fileRef string) (catalog.Version, error) {
	var created catalog.Version

	err := l.db.Transaction(ctx, func(tx postgres.Client) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext(?))", providerID); err != nil {
			return fmt.Errorf("lock provider versions: %w", err)
		}

		var existing []catalog.Version
		if err := tx.Query(ctx).Where("id = ?", versionID).Limit(1).Find(&existing); err != nil {
			return fmt.Errorf("look up version %s: %w", versionID, err)
		}
		if len(existing) > 0 {
			if existing[0].ProviderID != providerID || existing[0].OriginalFile != fileRef {
				return fmt.Errorf("%w: version %s already exists for another upload", ErrInvalidTransition, versionID)
			}
			created = existing[0]
			return nil
		}

		var last struct{ Max int }
		if err := tx.Query(ctx).
			Raw("SELECT COALESCE(MAX(version_number), 0) AS max FROM catalog_versions WHERE provider_id = ?", providerID).
			Scan(&last); err != nil {
			return fmt.Errorf("read last version number: %w", err)
		}

		now := l.now().UTC()
		created = catalog.Version{
			ID:            versionID,
			ProviderID:    providerID,
			VersionNumber: last.Max + 1,
			OriginalFile:  fileRef,
			Status:        catalog.StatusProcessing,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		return tx.Create(ctx, &created)
	})
	if err != nil {
		return catalog.Version{}, err
	}
	return created, nil
}

// Activate is the cutover commit point. In one transaction it archives the
// provider's current ACTIVE version, if it is a different one, and marks
// versionID ACTIVE. It returns the archived version, or nil for a first
// activation.
//
// Activating a version that is already ACTIVE succeeds and returns the
// version it replaced, so a retry after a lost commit acknowledgement
// reports the same predecessor as the attempt that committed.
func (l *Ledger) Activate(ctx context.Context, providerID, versionID string) (*catalog.Version, error) {
	var previous *catalog.Version

	err := l.db.Transaction(ctx, func(tx postgres.Client) error {
		target, err := lockVersion(ctx, tx, versionID)
		if err != nil {
			return err
		}
		if target.ProviderID != providerID {
			return fmt.Errorf("%w: version %s belongs to provider %s", ErrInvalidTransition, versionID, target.ProviderID)
		}
		if target.Status == catalog.StatusActive {
			previous, err = replaced(ctx, tx, target)
			return err
		}
		if !target.Status.CanTransitionTo(catalog.StatusActive) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, target.Status, catalog.StatusActive)
		}

		var current []catalog.Version
		if err := tx.Query(ctx).
			Where("provider_id = ? AND status = ? AND id <> ?", providerID, catalog.StatusActive, versionID).
			ForUpdate().
			Find(&current); err != nil {
			return err
		}

		now := l.now().UTC()
		for i := range current {
			if err := setStatus(ctx, tx, current[i].ID, catalog.StatusActive, catalog.StatusArchived, now); err != nil {
				return err
			}
			archived := current[i]
			archived.Status = catalog.StatusArchived
			archived.UpdatedAt = now
			previous = &archived
		}

		var replacedID interface{}
		if previous != nil {
			replacedID = previous.ID
		}
		return setStatus(ctx, tx, versionID, catalog.StatusProcessing, catalog.StatusActive, now,
			field{"replaced_version_id", replacedID})
	})
	if err != nil {
		return nil, err
	}
	return previous, nil
}

// RevertActivation undoes a committed Activate whose follow-up steps failed:
// versionID goes back to PROCESSING (so it can then be failed) and
// previousID, when set, is restored to ACTIVE. Both happen in one
// transaction so readers never see zero or two ACTIVE versions. Reverting
// an already reverted version is a no-op.
func (l *Ledger) RevertActivation(ctx context.Context, versionID, previousID string) error {
	return l.db.Transaction(ctx, func(tx postgres.Client) error {
		target, err := lockVersion(ctx, tx, versionID)
		if err != nil {
			return err
		}
		if target.Status == catalog.StatusProcessing && target.ReplacedVersionID == nil {
			return nil
		}

		now := l.now().UTC()
		if err := setStatus(ctx, tx, versionID, catalog.StatusActive, catalog.StatusProcessing, now,
			field{"replaced_version_id", nil}); err != nil {
			return err
		}
		if previousID == "" {
			return nil
		}
		return setStatus(ctx, tx, previousID, catalog.StatusArchived, catalog.StatusActive, now)
	})
}

// MarkFailed moves a PROCESSING version to FAILED. Calling it again for an
// already FAILED version is a no-op; an ACTIVE or ARCHIVED version is never
// touched.
func (l *Ledger) MarkFailed(ctx context.Context, versionID string) error {
	n, err := l.db.UpdateWhere(ctx, &catalog.Version{},
		map[string]interface{}{"status": catalog.StatusFailed, "updated_at": l.now().UTC()},
		"id = ? AND status = ?", versionID, catalog.StatusProcessing)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	v, err := l.Get(ctx, versionID)
	if err != nil {
		return err
	}
	if v.Status == catalog.StatusFailed {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, v.Status, catalog.StatusFailed)
}

// Get loads one version.
func (l *Ledger) Get(ctx context.Context, versionID string) (*catalog.Version, error) {
	var v catalog.Version
	err := l.db.First(ctx, &v, "id = ?", versionID)
	if errors.Is(err, postgres.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrVersionNotFound, versionID)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Active returns the provider's ACTIVE version or nil.
func (l *Ledger) Active(ctx context.Context, providerID string) (*catalog.Version, error) {
	var found []catalog.Version
	if err := l.db.Query(ctx).
		Where("provider_id = ? AND status = ?", providerID, catalog.StatusActive).
		Limit(1).
		Find(&found); err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

// List returns the provider's versions, newest first.
func (l *Ledger) List(ctx context.Context, providerID string) ([]catalog.Version, error) {
	var out []catalog.Version
	err := l.db.Query(ctx).
		Where("provider_id = ?", providerID).
		Order("version_number DESC").
		Find(&out)
	return out, err
}

func lockVersion(ctx context.Context, tx postgres.Client, versionID string) (*catalog.Version, error) {
	var v catalog.Version
	err := tx.Query(ctx).Where("id = ?", versionID).ForUpdate().First(&v)
	if errors.Is(err, postgres.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrVersionNotFound, versionID)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// replaced loads the version an ACTIVE target archived, or nil.
func replaced(ctx context.Context, tx postgres.Client, target *catalog.Version) (*catalog.Version, error) {
	if target.ReplacedVersionID == nil {
		return nil, nil
	}
	var v catalog.Version
	if err := tx.First(ctx, &v, "id = ?", *target.ReplacedVersionID); err != nil {
		return nil, fmt.Errorf("load replaced version %s: %w", *target.ReplacedVersionID, err)
	}
	return &v, nil
}

type field struct {
	column string
	value  interface{}
}

// setStatus performs a compare-and-set on the status column, writing extra
// columns in the same statement.
func setStatus(ctx context.Context, tx postgres.Client, id string, from, to catalog.VersionStatus, now time.Time, extra ...field) error {
	attrs := map[string]interface{}{"status": to, "updated_at": now}
	for _, f := range extra {
		attrs[f.column] = f.value
	}
	n, err := tx.UpdateWhere(ctx, &catalog.Version{}, attrs, "id = ? AND status = ?", id, from)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: version %s is not %s", ErrInvalidTransition, id, from)
	}
	return nil
}
