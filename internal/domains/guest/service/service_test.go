package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"hotel/config"
	"hotel/infras/otel/mocks"
	bookingModel "hotel/internal/domains/booking/model"
	bookingRepository "hotel/internal/domains/booking/repository"
	guestMocks "hotel/internal/domains/guest/mocks"
	"hotel/internal/domains/guest/model"
	"hotel/internal/domains/guest/model/dto"
	"hotel/internal/domains/guest/repository"
	"hotel/internal/domains/guest/service"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newService(t *testing.T) (service.Guest, repository.Guest, bookingRepository.Booking) {
	t.Helper()

	otl := mocks.NewOtel()
	repo := repository.New(nil, otl)
	bookingRepo := bookingRepository.New(nil, otl)

	return service.New(repo, bookingRepo, &config.Config{}, cache.NewRedisCache(nil, otl), otl), repo, bookingRepo
}

func userContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "reception-1")
}

func TestGuestService_CreateAndSearch(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := userContext()

	for _, req := range []dto.CreateGuestRequest{
		{FullName: "Rajesh Sharma", Email: "rajesh@example.com", Phone: "+91 98111 22233", VIP: true},
		{FullName: "Anita Desai", Email: "anita@example.com", Phone: "+91 98444 55566"},
		{FullName: "Vikram Rao", Email: "vikram@example.com", Phone: "+91 98777 88899"},
	} {
		created, err := svc.Create(ctx, req)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "reception-1", created.CreatedBy)
	}

	search := func(term string) gDto.FilterGroup {
		return gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{Field: model.FieldFullName, Operator: gDto.FilterOperatorLike, Value: term, ArgName: "search_name"},
				gDto.Filter{Field: model.FieldEmail, Operator: gDto.FilterOperatorLike, Value: term, ArgName: "search_email"},
				gDto.Filter{Field: model.FieldPhone, Operator: gDto.FilterOperatorLike, Value: term, ArgName: "search_phone"},
			},
		}
	}

	tests := []struct {
		name   string
		filter gDto.FilterGroup
		want   []string
	}{
		{name: "name", filter: search("RAJ"), want: []string{"Rajesh Sharma"}},
		{name: "email", filter: search("anita@"), want: []string{"Anita Desai"}},
		{name: "phone", filter: search("98777"), want: []string{"Vikram Rao"}},
		{name: "vip", filter: gDto.FilterGroup{Filters: []any{gDto.Filter{Field: model.FieldVIP, Operator: gDto.FilterOperatorEq, Value: true}}}, want: []string{"Rajesh Sharma"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.GetAll(ctx, gDto.QueryParams{Page: 1, Limit: 10}, tt.filter)
			require.NoError(t, err)

			names := []string{}
			for _, guest := range res.Guests {
				names = append(names, guest.FullName)
			}

			assert.Equal(t, tt.want, names)
			assert.Equal(t, 1, res.TotalPage)
		})
	}
}

func TestGuestService_Update(t *testing.T) {
	svc, repo, _ := newService(t)
	require.NoError(t, repo.Insert(context.Background(), model.Guest{ID: "g1", FullName: "Rajesh Sharma", Email: "rajesh@example.com"}))

	vip := true

	require.NoError(t, svc.Update(userContext(), dto.UpdateGuestRequest{Phone: "+91 90000 00000", VIP: &vip}, "g1"))

	got, err := svc.Get(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "+91 90000 00000", got.Phone)
	assert.True(t, got.VIP)
	assert.Equal(t, "Rajesh Sharma", got.FullName)
	assert.Equal(t, "rajesh@example.com", got.Email)

	err = svc.Update(userContext(), dto.UpdateGuestRequest{}, "g1")
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

	err = svc.Update(userContext(), dto.UpdateGuestRequest{Notes: "x"}, "missing")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestGuestService_DeleteAndStays(t *testing.T) {
	svc, repo, bookingRepo := newService(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, model.Guest{ID: "g1", FullName: "Rajesh Sharma"}))
	require.NoError(t, repo.Insert(ctx, model.Guest{ID: "g2", FullName: "Anita Desai"}))

	march := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, bookingRepo.Insert(ctx, bookingModel.Booking{ID: "b1", GuestID: "g1", RoomID: "r1", CheckIn: march, CheckOut: march.AddDate(0, 0, 2), Status: bookingModel.StatusCheckedOut}))
	require.NoError(t, bookingRepo.Insert(ctx, bookingModel.Booking{ID: "b2", GuestID: "g1", RoomID: "r1", CheckIn: march.AddDate(0, 1, 0), CheckOut: march.AddDate(0, 1, 3), Status: bookingModel.StatusConfirmed}))
	require.NoError(t, bookingRepo.Insert(ctx, bookingModel.Booking{ID: "b3", GuestID: "g2", RoomID: "r2", CheckIn: march, CheckOut: march.AddDate(0, 0, 1), Status: bookingModel.StatusCancelled}))

	stays, err := svc.Stays(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, stays, 2)
	assert.Equal(t, "b2", stays[0].ID, "latest stay first")
	assert.Equal(t, 3, stays[0].Nights)

	_, err = svc.Stays(ctx, "missing")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

	err = svc.Delete(userContext(), "g1")
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	require.NoError(t, svc.Delete(userContext(), "g2"))

	count, err := repo.Count(ctx, gDto.FilterGroup{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	err = svc.Delete(userContext(), "g2")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestGuestService_RepositoryErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	otl := mocks.NewOtel()
	repo := guestMocks.NewMockGuest(ctrl)

	svc := service.New(repo, bookingRepository.New(nil, otl), &config.Config{}, cache.NewRedisCache(nil, otl), otl)

	repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))

	_, err := svc.Create(userContext(), dto.CreateGuestRequest{FullName: "Rajesh Sharma"})
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))

	repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(failure.Conflict("guest already exists"))

	_, err = svc.Create(userContext(), dto.CreateGuestRequest{FullName: "Rajesh Sharma"})
	assert.Equal(t, http.StatusConflict, failure.GetCode(err), "repository failures keep their status")
}
