package postgres

import (
	"context"

	"gorm.io/gorm"
)

// cloneWithTx returns a Postgres sharing p's configuration whose handle is tx.
func (p *Postgres) cloneWithTx(tx *gorm.DB) *Postgres {
	clone := &Postgres{
		cfg:             p.cfg,
		shutdownSignal:  p.shutdownSignal,
		retryChanSignal: p.retryChanSignal,
	}
	clone.client.Store(tx)
	return clone
}

// Transaction executes fn within a database transaction.
// If fn returns an error, the transaction is rolled back; otherwise, it's committed.
//
// Example usage:
//
//	err := pg.Transaction(ctx, func(tx postgres.Client) error {
//		if _, err := tx.UpdateWhere(ctx, &Version{}, archived, "id = ?", oldID); err != nil {
//			return err
//		}
//		_, err := tx.UpdateWhere(ctx, &Version{}, active, "id = ?", newID)
//		return err
//	})
func (p *Postgres) Transaction(ctx context.Context, fn func(tx Client) error) error {
	return TranslateError(p.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(p.cloneWithTx(tx))
	}))
}
