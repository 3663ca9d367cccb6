package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog"
	"github.com/Aleph-Alpha/catalog-ingest/v1/logger"
)

func validRow(sku string) catalog.Row {
	return catalog.Row{ProviderCode: "ACME", SKU: sku, Name: "n", Description: "d", Category: "c"}
}

func TestValidatorReportsFirstMissingField(t *testing.T) {
	tests := []struct {
		name   string
		rows   []catalog.Row
		reason string
	}{
		{
			name: "missing name names the sku",
			rows: []catalog.Row{validRow("A"), func() catalog.Row {
				r := validRow("B")
				r.Name = "  "
				return r
			}()},
			reason: "Missing required field name for sku B",
		},
		{
			name: "missing provider code is checked first",
			rows: []catalog.Row{func() catalog.Row {
				r := validRow("A")
				r.ProviderCode = ""
				r.Category = ""
				return r
			}()},
			reason: "Missing required field providerCode for sku A",
		},
		{
			name: "first failing row wins",
			rows: []catalog.Row{
				func() catalog.Row { r := validRow("A"); r.Description = ""; return r }(),
				func() catalog.Row { r := validRow(""); return r }(),
			},
			reason: "Missing required field description for sku A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(
				newFakeProviders(catalog.Provider{ID: "p", Code: "ACME", Active: true}),
				&fakeRows{files: map[string][]catalog.Row{"f": tt.rows}},
				logger.NewNop(),
			)

			_, err := v.Validate(context.Background(), "p", "f")

			require.ErrorIs(t, err, ErrPrecondition)
			assert.Equal(t, tt.reason, RejectionReason(err))
		})
	}
}

func TestValidatorLookupFailureIsNotARejection(t *testing.T) {
	providers := newFakeProviders()
	providers.err = errBoom
	v := NewValidator(providers, &fakeRows{}, logger.NewNop())

	_, err := v.Validate(context.Background(), "p", "f")

	require.ErrorIs(t, err, errBoom)
	assert.NotErrorIs(t, err, ErrPrecondition)
	assert.Empty(t, RejectionReason(err))
}

func TestValidatorAcceptsByCode(t *testing.T) {
	v := NewValidator(
		newFakeProviders(catalog.Provider{ID: "p", Code: "ACME", Active: true}),
		&fakeRows{files: map[string][]catalog.Row{"f": {validRow("A")}}},
		logger.NewNop(),
	)

	got, err := v.Validate(context.Background(), "ACME", "f")

	require.NoError(t, err)
	assert.Equal(t, "p", got.Provider.ID)
	assert.Len(t, got.Rows, 1)
}

func TestValidatorAcceptsInactiveProvider(t *testing.T) {
	v := NewValidator(
		newFakeProviders(catalog.Provider{ID: "p", Code: "ACME", Active: false}),
		&fakeRows{files: map[string][]catalog.Row{"f": {validRow("A")}}},
		logger.NewNop(),
	)

	got, err := v.Validate(context.Background(), "p", "f")

	require.NoError(t, err)
	assert.Equal(t, "p", got.Provider.ID)
	assert.Len(t, got.Rows, 1)
}

func TestValidatorTreatsUnreadableFileAsEmpty(t *testing.T) {
	v := NewValidator(
		newFakeProviders(catalog.Provider{ID: "p", Code: "ACME", Active: true}),
		&fakeRows{err: errBoom},
		logger.NewNop(),
	)

	_, err := v.Validate(context.Background(), "p", "f")

	require.ErrorIs(t, err, ErrPrecondition)
	assert.Equal(t, ReasonEmptyFile, RejectionReason(err))
}
