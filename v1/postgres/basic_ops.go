package postgres

import (
	"context"
)

// Find retrieves all records matching conditions into dest.
func (p *Postgres) Find(ctx context.Context, dest interface{}, conditions ...interface{}) error {
	return TranslateError(p.DB().WithContext(ctx).Find(dest, conditions...).Error)
}

// First retrieves the first record matching conditions, ordered by primary key.
// It returns ErrRecordNotFound when nothing matches.
func (p *Postgres) First(ctx context.Context, dest interface{}, conditions ...interface{}) error {
	return TranslateError(p.DB().WithContext(ctx).First(dest, conditions...).Error)
}

// Create inserts value.
func (p *Postgres) Create(ctx context.Context, value interface{}) error {
	return TranslateError(p.DB().WithContext(ctx).Create(value).Error)
}

// UpdateWhere applies attrs to every row of model matching condition and
// returns the number of rows affected.
//
// Example:
//
//	n, err := pg.UpdateWhere(ctx, &Version{}, map[string]interface{}{"status": "ARCHIVED"},
//	    "provider_id = ? AND status = ?", providerID, "ACTIVE")
func (p *Postgres) UpdateWhere(ctx context.Context, model interface{}, attrs interface{}, condition string, args ...interface{}) (int64, error) {
	result := p.DB().WithContext(ctx).Model(model).Where(condition, args...).Updates(attrs)
	return result.RowsAffected, TranslateError(result.Error)
}

// Exec runs raw SQL and returns the number of rows affected.
func (p *Postgres) Exec(ctx context.Context, sql string, values ...interface{}) (int64, error) {
	result := p.DB().WithContext(ctx).Exec(sql, values...)
	return result.RowsAffected, TranslateError(result.Error)
}
