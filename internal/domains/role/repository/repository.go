package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/role/model"
	gDto "hotel/shared/dto"
	gRepo "hotel/shared/repository"
)

type Role interface {
	Insert(ctx context.Context, model model.Role) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Role, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Role, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Store[model.Role]
}

func New(db *postgres.Connection, otel otel.Otel) Role {
	return &repositoryImpl{
		Store: gRepo.New[model.Role](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
