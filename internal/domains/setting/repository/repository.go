package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/setting/model"
	gDto "hotel/shared/dto"
	gRepo "hotel/shared/repository"
)

type Setting interface {
	Insert(ctx context.Context, model model.Setting) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Setting, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Store[model.Setting]
}

func New(db *postgres.Connection, otel otel.Otel) Setting {
	return &repositoryImpl{
		Store: gRepo.New[model.Setting](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
