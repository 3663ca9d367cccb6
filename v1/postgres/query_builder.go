package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Query starts a chainable query bound to ctx.
//
// Example:
//
//	var versions []Version
//	err := pg.Query(ctx).
//	    Where("provider_id = ?", id).
//	    Order("version_number DESC").
//	    Find(&versions)
func (p *Postgres) Query(ctx context.Context) *QueryBuilder {
	return &QueryBuilder{db: p.DB().WithContext(ctx)}
}

// QueryBuilder wraps a *gorm.DB chain. Terminal methods translate errors.
type QueryBuilder struct {
	db *gorm.DB
}

func (qb *QueryBuilder) Model(value interface{}) *QueryBuilder {
	qb.db = qb.db.Model(value)
	return qb
}

func (qb *QueryBuilder) Select(query interface{}, args ...interface{}) *QueryBuilder {
	qb.db = qb.db.Select(query, args...)
	return qb
}

func (qb *QueryBuilder) Where(query interface{}, args ...interface{}) *QueryBuilder {
	qb.db = qb.db.Where(query, args...)
	return qb
}

func (qb *QueryBuilder) Or(query interface{}, args ...interface{}) *QueryBuilder {
	qb.db = qb.db.Or(query, args...)
	return qb
}

func (qb *QueryBuilder) Order(value interface{}) *QueryBuilder {
	qb.db = qb.db.Order(value)
	return qb
}

func (qb *QueryBuilder) Limit(limit int) *QueryBuilder {
	qb.db = qb.db.Limit(limit)
	return qb
}

// ForUpdate adds FOR UPDATE row locking.
func (qb *QueryBuilder) ForUpdate() *QueryBuilder {
	qb.db = qb.db.Clauses(clause.Locking{Strength: "UPDATE"})
	return qb
}

// Raw replaces the statement with raw SQL.
func (qb *QueryBuilder) Raw(sql string, values ...interface{}) *QueryBuilder {
	qb.db = qb.db.Raw(sql, values...)
	return qb
}

func (qb *QueryBuilder) Find(dest interface{}) error {
	return TranslateError(qb.db.Find(dest).Error)
}

func (qb *QueryBuilder) First(dest interface{}) error {
	return TranslateError(qb.db.First(dest).Error)
}

func (qb *QueryBuilder) Scan(dest interface{}) error {
	return TranslateError(qb.db.Scan(dest).Error)
}

func (qb *QueryBuilder) Count(count *int64) error {
	return TranslateError(qb.db.Count(count).Error)
}
