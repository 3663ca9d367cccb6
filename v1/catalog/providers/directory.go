package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog"
	"github.com/Aleph-Alpha/catalog-ingest/v1/postgres"
)

// Directory resolves providers from the relational store.
type Directory struct {
	db postgres.Client
}

func NewDirectory(db postgres.Client) *Directory {
	return &Directory{db: db}
}

// GetByIDOrCode looks the provider up by id when key is a UUID and by code
// (case-insensitive) otherwise. A missing provider yields (nil, nil).
func (d *Directory) GetByIDOrCode(ctx context.Context, key string) (*catalog.Provider, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}

	var p catalog.Provider
	q := d.db.Query(ctx).Model(&catalog.Provider{})
	if _, err := uuid.Parse(key); err == nil {
		q = q.Where("id = ?", key)
	} else {
		q = q.Where("LOWER(code) = ?", strings.ToLower(key))
	}

	err := q.First(&p)
	if errors.Is(err, postgres.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup provider %q: %w", key, err)
	}
	return &p, nil
}

// Migrate creates the providers table.
func (d *Directory) Migrate() error {
	return d.db.Migrate(&catalog.Provider{})
}
