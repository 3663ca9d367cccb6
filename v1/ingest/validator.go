package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog"
	"github.com/Aleph-Alpha/catalog-ingest/v1/logger"
)

// Validated is an upload that passed every precondition.
type Validated struct {
	Provider catalog.Provider
	Rows     []catalog.Row
}

// Validator checks an upload before any version is created. Checks stop
// at the first failure, in this order: provider, rows present, required
// fields, provider code.
type Validator struct {
	providers ProviderDirectory
	rows      RowReader
	log       logger.Logger
}

func NewValidator(providers ProviderDirectory, rows RowReader, log logger.Logger) *Validator {
	return &Validator{providers: providers, rows: rows, log: log}
}

// Validate returns a *PreconditionError for rejected uploads and a plain
// error when the provider directory itself fails. A file that cannot be
// read is rejected like an empty one.
func (v *Validator) Validate(ctx context.Context, providerKey, fileRef string) (Validated, error) {
	provider, err := v.providers.GetByIDOrCode(ctx, providerKey)
	if err != nil {
		return Validated{}, fmt.Errorf("look up provider %s: %w", providerKey, err)
	}
	if provider == nil {
		return Validated{}, reject(ReasonProviderNotFound)
	}

	rows, err := v.rows.ReadRows(ctx, fileRef)
	if err != nil {
		v.log.WarnWithContext(ctx, "could not read uploaded file", err, map[string]interface{}{
			"provider_id": provider.ID,
			"file_ref":    fileRef,
		})
		return Validated{}, reject(ReasonEmptyFile)
	}
	if len(rows) == 0 {
		return Validated{}, reject(ReasonEmptyFile)
	}

	for i, row := range rows {
		for _, field := range catalog.RequiredFields {
			if strings.TrimSpace(row.Field(field)) != "" {
				continue
			}
			sku := strings.TrimSpace(row.SKU)
			if sku == "" {
				return Validated{}, reject("Missing required field %s for row %d", field, i+1)
			}
			return Validated{}, reject("Missing required field %s for sku %s", field, sku)
		}
	}

	expected := strings.ToLower(strings.TrimSpace(provider.Code))
	for _, row := range rows {
		if strings.ToLower(strings.TrimSpace(row.ProviderCode)) != expected {
			return Validated{}, reject("providerCode %q for sku %s does not match provider code %q",
				strings.TrimSpace(row.ProviderCode), strings.TrimSpace(row.SKU), provider.Code)
		}
	}

	return Validated{Provider: *provider, Rows: rows}, nil
}
