package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"hotel/config"
	"hotel/infras/otel/mocks"
	tableMocks "hotel/internal/domains/table/mocks"
	"hotel/internal/domains/table/model"
	"hotel/internal/domains/table/model/dto"
	"hotel/internal/domains/table/repository"
	"hotel/internal/domains/table/service"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/event"
	eventMocks "hotel/shared/event/mocks"
	"hotel/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newService(t *testing.T) (service.Table, repository.Table, *eventMocks.Recorder) {
	t.Helper()

	otl := mocks.NewOtel()
	repo := repository.New(nil, otl)
	recorder := eventMocks.NewRecorder()

	return service.New(repo, &config.Config{}, cache.NewRedisCache(nil, otl), otl, recorder), repo, recorder
}

func userContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "host-1")
}

func TestTableService_Create(t *testing.T) {
	svc, repo, _ := newService(t)

	created, err := svc.Create(userContext(), dto.CreateTableRequest{Number: "T1", Capacity: 4, Location: model.LocationIndoor})
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, created.Status)
	assert.NotEmpty(t, created.ID)

	_, err = svc.Create(userContext(), dto.CreateTableRequest{Number: "T1", Capacity: 2, Location: model.LocationRooftop})
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	count, err := repo.Count(context.Background(), gDto.FilterGroup{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestTableService_GetAllFilters(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	for _, table := range []model.Table{
		{ID: "t1", Number: "T1", Capacity: 2, Location: model.LocationIndoor, Status: model.StatusAvailable},
		{ID: "t2", Number: "T2", Capacity: 6, Location: model.LocationPoolside, Status: model.StatusOccupied},
		{ID: "t3", Number: "T3", Capacity: 4, Location: model.LocationIndoor, Status: model.StatusAvailable},
	} {
		require.NoError(t, repo.Insert(ctx, table))
	}

	tests := []struct {
		name  string
		query dto.TableQuery
		want  []string
	}{
		{name: "location", query: dto.TableQuery{Location: model.LocationIndoor}, want: []string{"T1", "T3"}},
		{name: "status", query: dto.TableQuery{Status: model.StatusOccupied}, want: []string{"T2"}},
		{name: "seats at least four", query: dto.TableQuery{MinCapacity: 4}, want: []string{"T2", "T3"}},
		{name: "free indoor for four", query: dto.TableQuery{Location: model.LocationIndoor, Status: model.StatusAvailable, MinCapacity: 4}, want: []string{"T3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.GetAll(ctx, gDto.QueryParams{Page: 1, Limit: 10}, tt.query.Filter())
			require.NoError(t, err)

			numbers := []string{}
			for _, table := range res.Tables {
				numbers = append(numbers, table.Number)
			}

			assert.Equal(t, tt.want, numbers)
		})
	}
}

func TestTableService_Update(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, model.Table{ID: "t1", Number: "T1", Capacity: 2, Location: model.LocationIndoor}))
	require.NoError(t, repo.Insert(ctx, model.Table{ID: "t2", Number: "T2", Capacity: 4, Location: model.LocationIndoor}))

	capacity := 6

	require.NoError(t, svc.Update(userContext(), dto.UpdateTableRequest{Capacity: &capacity, Location: model.LocationRooftop}, "t1"))

	got, err := svc.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 6, got.Capacity)
	assert.Equal(t, model.LocationRooftop, got.Location)
	assert.Equal(t, "T1", got.Number)

	err = svc.Update(userContext(), dto.UpdateTableRequest{Number: "T2"}, "t1")
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	err = svc.Update(userContext(), dto.UpdateTableRequest{}, "t1")
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

	err = svc.Update(userContext(), dto.UpdateTableRequest{Number: "T9"}, "missing")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestTableService_StatusAndDelete(t *testing.T) {
	svc, repo, recorder := newService(t)
	require.NoError(t, repo.Insert(context.Background(), model.Table{ID: "t1", Number: "T1", Status: model.StatusAvailable}))

	require.NoError(t, svc.UpdateStatus(userContext(), dto.UpdateTableStatusRequest{Status: model.StatusOccupied}, "t1"))

	events := recorder.Wait(1, time.Second)
	require.Len(t, events, 1)
	assert.Equal(t, event.TableStatusChanged, events[0].Type)

	err := svc.Delete(userContext(), "t1")
	assert.Equal(t, http.StatusConflict, failure.GetCode(err), "occupied tables stay")

	require.NoError(t, svc.UpdateStatus(userContext(), dto.UpdateTableStatusRequest{Status: model.StatusCleaning}, "t1"))
	require.NoError(t, svc.Delete(userContext(), "t1"))

	err = svc.Delete(userContext(), "t1")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestTableService_RepositoryErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	otl := mocks.NewOtel()
	repo := tableMocks.NewMockTable(ctrl)

	svc := service.New(repo, &config.Config{}, cache.NewRedisCache(nil, otl), otl, event.Noop())

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Table{ID: "t1", Status: model.StatusAvailable}, nil)
	repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errors.New("foreign key violation"))

	err := svc.Delete(userContext(), "t1")
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
}
