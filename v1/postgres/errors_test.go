package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"gorm not found", gorm.ErrRecordNotFound, ErrRecordNotFound},
		{"gorm duplicate", gorm.ErrDuplicatedKey, ErrDuplicateKey},
		{"gorm fk", fmt.Errorf("insert: %w", gorm.ErrForeignKeyViolated), ErrForeignKey},
		{"pg unique", &pgconn.PgError{Code: "23505"}, ErrDuplicateKey},
		{"pg not null", &pgconn.PgError{Code: "23502"}, ErrInvalidData},
		{"pg deadlock", &pgconn.PgError{Code: "40P01"}, ErrSerialization},
		{"pg admin shutdown class 08", &pgconn.PgError{Code: "08006"}, ErrConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranslateError(tt.in)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.in)
		})
	}
}

func TestTranslateErrorPassThrough(t *testing.T) {
	assert.NoError(t, TranslateError(nil))

	other := errors.New("syntax error")
	assert.Same(t, other, TranslateError(other))

	already := TranslateError(gorm.ErrDuplicatedKey)
	assert.Equal(t, already, TranslateError(already))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&pgconn.PgError{Code: "40001"}))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.False(t, IsRetryable(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsRetryable(gorm.ErrRecordNotFound))
	assert.False(t, IsRetryable(nil))
}
