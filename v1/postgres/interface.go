package postgres

import (
	"context"

	"gorm.io/gorm"
)

// Client is the relational store contract used by the catalog repositories.
//
// Transaction hands the callback a Client bound to the open transaction, so
// repositories can run the same code inside or outside a transaction.
type Client interface {
	Find(ctx context.Context, dest interface{}, conditions ...interface{}) error
	First(ctx context.Context, dest interface{}, conditions ...interface{}) error
	Create(ctx context.Context, value interface{}) error
	UpdateWhere(ctx context.Context, model interface{}, attrs interface{}, condition string, args ...interface{}) (int64, error)
	Exec(ctx context.Context, sql string, values ...interface{}) (int64, error)

	// Query provides a chainable builder. The builder must be finished with
	// one of its terminal methods.
	Query(ctx context.Context) *QueryBuilder

	Transaction(ctx context.Context, fn func(tx Client) error) error
	Migrate(models ...interface{}) error

	// DB returns the current gorm handle.
	DB() *gorm.DB

	GracefulShutdown() error
}
