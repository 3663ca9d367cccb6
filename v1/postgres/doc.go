// Package postgres wraps gorm with the PostgreSQL (pgx) driver.
//
// It provides connection monitoring with automatic reconnection, a small set
// of context-aware operations, a chainable QueryBuilder and transactions that
// hand the callback a Client bound to the transaction.
//
// All errors returned by the package pass through TranslateError, which maps
// gorm and SQLSTATE errors onto the sentinel errors declared in errors.go:
//
//	err := pg.Create(ctx, &row)
//	if errors.Is(err, postgres.ErrDuplicateKey) {
//	    // unique constraint hit
//	}
//
// # Configuration
//
//	POSTGRES_HOST, POSTGRES_PORT, POSTGRES_USER, POSTGRES_PASSWORD,
//	POSTGRES_DB_NAME, POSTGRES_SSL_MODE,
//	POSTGRES_MAX_OPEN_CONNS, POSTGRES_MAX_IDLE_CONNS, POSTGRES_CONN_MAX_LIFETIME
package postgres
