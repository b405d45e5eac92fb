package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"hotel/config"
	"hotel/infras/otel/mocks"
	s3Mocks "hotel/infras/s3/mocks"
	bookingModel "hotel/internal/domains/booking/model"
	bookingRepository "hotel/internal/domains/booking/repository"
	roomMocks "hotel/internal/domains/room/mocks"
	"hotel/internal/domains/room/model"
	"hotel/internal/domains/room/model/dto"
	"hotel/internal/domains/room/repository"
	"hotel/internal/domains/room/service"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/event"
	eventMocks "hotel/shared/event/mocks"
	"hotel/shared/failure"
	gModel "hotel/shared/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	svc         service.Room
	repo        repository.Room
	bookingRepo bookingRepository.Booking
	recorder    *eventMocks.Recorder
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	otl := mocks.NewOtel()

	f := fixture{
		repo:        repository.New(nil, otl),
		bookingRepo: bookingRepository.New(nil, otl),
		recorder:    eventMocks.NewRecorder(),
	}

	f.svc = service.New(f.repo, f.bookingRepo, &config.Config{}, cache.NewRedisCache(nil, otl), otl, s3Mocks.NewMockS3(ctrl), f.recorder)

	return f
}

func userContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "manager-1")
}

func (f fixture) seedRoom(t *testing.T, id, number, roomType string, capacity int) {
	t.Helper()

	require.NoError(t, f.repo.Insert(context.Background(), model.Room{
		ID:            id,
		Number:        number,
		Type:          roomType,
		Capacity:      capacity,
		PricePerNight: decimal.NewFromInt(2500),
		Status:        model.StatusAvailable,
		Active:        true,
		Metadata:      gModel.NewMetadata(time.Now(), "seed"),
	}))
}

func (f fixture) seedBooking(t *testing.T, id, roomID, status string, checkIn, checkOut time.Time) {
	t.Helper()

	require.NoError(t, f.bookingRepo.Insert(context.Background(), bookingModel.Booking{
		ID:       id,
		RoomID:   roomID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Status:   status,
	}))
}

func date(day int) time.Time {
	return time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC)
}

func TestRoomService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := userContext()

	req := dto.CreateRoomRequest{
		Number:        "101",
		Type:          model.TypeDeluxe,
		Floor:         1,
		Capacity:      2,
		PricePerNight: decimal.RequireFromString("4500.00"),
		Amenities:     []string{"wifi", "ac"},
	}

	require.NoError(t, f.svc.Create(ctx, req))

	rooms, err := f.svc.GetAll(ctx, gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})
	require.NoError(t, err)
	require.Len(t, rooms.Rooms, 1)

	created := rooms.Rooms[0]
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.StatusAvailable, created.Status)
	assert.True(t, created.Active)
	assert.Equal(t, []string{"wifi", "ac"}, created.Amenities)
	assert.Equal(t, "manager-1", created.CreatedBy)

	err = f.svc.Create(ctx, req)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}

func TestRoomService_CreateUploadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	otl := mocks.NewOtel()
	storage := s3Mocks.NewMockS3(ctrl)
	repo := repository.New(nil, otl)

	svc := service.New(repo, bookingRepository.New(nil, otl), &config.Config{}, cache.NewRedisCache(nil, otl), otl, storage, event.Noop())

	storage.EXPECT().
		UploadFile(gomock.Any(), gomock.Any(), model.EntityName, gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New("bucket unavailable"))

	err := svc.Create(userContext(), dto.CreateRoomRequest{
		Number:   "201",
		Type:     model.TypeSuite,
		Capacity: 4,
		Image:    testImageHeader(),
	})
	assert.Error(t, err)

	count, err := repo.Count(context.Background(), gDto.FilterGroup{})
	require.NoError(t, err)
	assert.Zero(t, count, "no room is stored when the image upload fails")
}

func TestRoomService_Update(t *testing.T) {
	capacity := 3
	price := decimal.RequireFromString("3100.50")

	tests := []struct {
		name     string
		id       string
		req      dto.UpdateRoomRequest
		wantCode int
	}{
		{name: "merges supplied fields", id: "r1", req: dto.UpdateRoomRequest{Capacity: &capacity, PricePerNight: &price}},
		{name: "empty request", id: "r1", req: dto.UpdateRoomRequest{}, wantCode: http.StatusBadRequest},
		{name: "unknown room", id: "missing", req: dto.UpdateRoomRequest{Description: "sea view"}, wantCode: http.StatusNotFound},
		{name: "number taken by another room", id: "r1", req: dto.UpdateRoomRequest{Number: "102"}, wantCode: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seedRoom(t, "r1", "101", model.TypeDouble, 2)
			f.seedRoom(t, "r2", "102", model.TypeSingle, 1)

			err := f.svc.Update(userContext(), tt.req, tt.id)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)

			got, err := f.svc.Get(context.Background(), "r1")
			require.NoError(t, err)
			assert.Equal(t, 3, got.Capacity)
			assert.True(t, price.Equal(got.PricePerNight))
			assert.Equal(t, "101", got.Number, "fields that were not supplied stay untouched")
			assert.Equal(t, model.TypeDouble, got.Type)
			assert.Equal(t, "manager-1", got.ModifiedBy)
		})
	}
}

func TestRoomService_UpdateStatus(t *testing.T) {
	f := newFixture(t)
	f.seedRoom(t, "r1", "101", model.TypeDouble, 2)

	require.NoError(t, f.svc.UpdateStatus(userContext(), dto.UpdateRoomStatusRequest{Status: model.StatusMaintenance}, "r1"))

	got, err := f.svc.Get(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusMaintenance, got.Status)

	events := f.recorder.Wait(1, time.Second)
	require.Len(t, events, 1)
	assert.Equal(t, event.RoomStatusChanged, events[0].Type)

	var change event.StatusChange
	require.NoError(t, events[0].Decode(&change))
	assert.Equal(t, event.StatusChange{From: model.StatusAvailable, To: model.StatusMaintenance}, change)

	err = f.svc.UpdateStatus(userContext(), dto.UpdateRoomStatusRequest{Status: model.StatusCleaning}, "missing")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestRoomService_Delete(t *testing.T) {
	f := newFixture(t)
	f.seedRoom(t, "r1", "101", model.TypeDouble, 2)
	f.seedRoom(t, "r2", "102", model.TypeDouble, 2)
	f.seedBooking(t, "b1", "r1", bookingModel.StatusConfirmed, date(10), date(12))
	f.seedBooking(t, "b2", "r2", bookingModel.StatusCheckedOut, date(1), date(3))

	err := f.svc.Delete(userContext(), "r1")
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	require.NoError(t, f.svc.Delete(userContext(), "r2"))

	exist, err := f.repo.Exist(context.Background(), shared.FilterByID("r2", model.FieldID, model.TableName))
	require.NoError(t, err)
	assert.False(t, exist)

	count, err := f.repo.Count(context.Background(), gDto.FilterGroup{})
	require.NoError(t, err)
	assert.Equal(t, 1, count, "only the targeted room is removed")

	err = f.svc.Delete(userContext(), "r2")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestRoomService_Available(t *testing.T) {
	f := newFixture(t)
	f.seedRoom(t, "r1", "101", model.TypeDouble, 2)
	f.seedRoom(t, "r2", "102", model.TypeDouble, 2)
	f.seedRoom(t, "r3", "301", model.TypeFamily, 5)
	f.seedBooking(t, "b1", "r1", bookingModel.StatusConfirmed, date(10), date(13))
	f.seedBooking(t, "b2", "r2", bookingModel.StatusCancelled, date(10), date(13))
	f.seedBooking(t, "b3", "r3", bookingModel.StatusPending, date(8), date(10))

	tests := []struct {
		name     string
		req      dto.AvailableRoomsRequest
		want     []string
		wantCode int
	}{
		{name: "overlap hides the room", req: dto.AvailableRoomsRequest{CheckIn: "2025-03-11", CheckOut: "2025-03-12"}, want: []string{"102", "301"}},
		{name: "checkout day is free for the next guest", req: dto.AvailableRoomsRequest{CheckIn: "2025-03-13", CheckOut: "2025-03-14"}, want: []string{"101", "102", "301"}},
		{name: "capacity filter", req: dto.AvailableRoomsRequest{CheckIn: "2025-03-10", CheckOut: "2025-03-11", Capacity: 4}, want: []string{"301"}},
		{name: "reversed dates", req: dto.AvailableRoomsRequest{CheckIn: "2025-03-12", CheckOut: "2025-03-10"}, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rooms, err := f.svc.Available(context.Background(), tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)

			numbers := []string{}
			for _, room := range rooms {
				numbers = append(numbers, room.Number)
			}

			assert.Equal(t, tt.want, numbers)
		})
	}
}

func TestRoomService_RepositoryErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	otl := mocks.NewOtel()
	repo := roomMocks.NewMockRoom(ctrl)

	svc := service.New(repo, bookingRepository.New(nil, otl), &config.Config{}, cache.NewRedisCache(nil, otl), otl, s3Mocks.NewMockS3(ctrl), event.Noop())

	repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("database error"))

	_, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})
	assert.Error(t, err)

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, errors.New("database error"))

	_, err = svc.Get(context.Background(), "r1")
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
}

func testImageHeader() *multipart.FileHeader {
	return &multipart.FileHeader{Filename: "Suite.JPG", Size: 512}
}
