package repository

import (
	"context"

	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/shared/dto"

	"github.com/shopspring/decimal"
)

// Store is the persistence contract every domain repository embeds.
// Get returns the zero value of T and a nil error when nothing matches.
type Store[T any] interface {
	Insert(ctx context.Context, model T) error
	InsertBulk(ctx context.Context, models []T) error
	Exist(ctx context.Context, filter dto.FilterGroup) (bool, error)
	Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error)
	GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error)
	Count(ctx context.Context, filter dto.FilterGroup) (int, error)
	Sum(ctx context.Context, column string, filter dto.FilterGroup) (decimal.Decimal, error)
	Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error
	Delete(ctx context.Context, filter dto.FilterGroup) error
}

// New picks the postgres repository when a connection is available and
// falls back to the in-process store otherwise.
func New[T any](entityName, tableName, primaryColumn string, db *postgres.Connection, otl otel.Otel) Store[T] {
	if db == nil || db.Write == nil {
		return NewMemory[T](entityName, primaryColumn, otl)
	}

	repo := NewRepository[T](entityName, tableName, primaryColumn, db, otl)

	return &repo
}
