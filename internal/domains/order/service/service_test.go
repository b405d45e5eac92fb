package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"hotel/config"
	"hotel/infras/otel/mocks"
	s3Mocks "hotel/infras/s3/mocks"
	bookingModel "hotel/internal/domains/booking/model"
	bookingRepository "hotel/internal/domains/booking/repository"
	foodModel "hotel/internal/domains/fooditem/model"
	foodRepository "hotel/internal/domains/fooditem/repository"
	orderMocks "hotel/internal/domains/order/mocks"
	"hotel/internal/domains/order/model"
	"hotel/internal/domains/order/model/dto"
	"hotel/internal/domains/order/repository"
	"hotel/internal/domains/order/service"
	settingRepository "hotel/internal/domains/setting/repository"
	settingService "hotel/internal/domains/setting/service"
	tableModel "hotel/internal/domains/table/model"
	tableRepository "hotel/internal/domains/table/repository"
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
	svc         service.Order
	repo        repository.Order
	foodRepo    foodRepository.FoodItem
	tableRepo   tableRepository.Table
	bookingRepo bookingRepository.Booking
	recorder    *eventMocks.Recorder
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	otl := mocks.NewOtel()
	redis := cache.NewRedisCache(nil, otl)
	cfg := &config.Config{}
	cfg.App.Hotel.TaxRate = "5"

	f := fixture{
		repo:        repository.New(nil, otl),
		foodRepo:    foodRepository.New(nil, otl),
		tableRepo:   tableRepository.New(nil, otl),
		bookingRepo: bookingRepository.New(nil, otl),
		recorder:    eventMocks.NewRecorder(),
	}

	settings := settingService.New(settingRepository.New(nil, otl), cfg, redis, otl, s3Mocks.NewMockS3(gomock.NewController(t)))
	f.svc = service.New(f.repo, f.foodRepo, f.tableRepo, f.bookingRepo, settings, cfg, redis, otl, f.recorder)

	f.seedFood(t, "food-dosa", "Masala Dosa", "180", true)
	f.seedFood(t, "food-chai", "Masala Chai", "40", true)
	f.seedFood(t, "food-biryani", "Veg Biryani", "320", false)
	f.seedTable(t, "table-1", "T1", tableModel.StatusAvailable)
	f.seedTable(t, "table-2", "T2", tableModel.StatusCleaning)

	return f
}

func userContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "waiter-1")
}

func (f fixture) seedFood(t *testing.T, id, name, price string, available bool) {
	t.Helper()

	require.NoError(t, f.foodRepo.Insert(context.Background(), foodModel.FoodItem{
		ID:        id,
		Name:      name,
		Category:  foodModel.CategoryMainCourse,
		Price:     decimal.RequireFromString(price),
		Available: available,
		Metadata:  gModel.NewMetadata(time.Now(), "seed"),
	}))
}

func (f fixture) seedTable(t *testing.T, id, number, status string) {
	t.Helper()

	require.NoError(t, f.tableRepo.Insert(context.Background(), tableModel.Table{
		ID:       id,
		Number:   number,
		Capacity: 4,
		Location: tableModel.LocationIndoor,
		Status:   status,
		Metadata: gModel.NewMetadata(time.Now(), "seed"),
	}))
}

func (f fixture) seedBooking(t *testing.T, id, status string) {
	t.Helper()

	require.NoError(t, f.bookingRepo.Insert(context.Background(), bookingModel.Booking{
		ID:            id,
		BookingNumber: "BK-20250310-" + id,
		GuestName:     "Rajesh Sharma",
		RoomID:        "room-101",
		RoomNumber:    "101",
		Status:        status,
		PaymentStatus: bookingModel.PaymentStatusPending,
		Metadata:      gModel.NewMetadata(time.Now(), "seed"),
	}))
}

func (f fixture) table(t *testing.T, id string) tableModel.Table {
	t.Helper()

	table, err := f.tableRepo.Get(context.Background(), shared.FilterByID(id, tableModel.FieldID, tableModel.TableName))
	require.NoError(t, err)

	return table
}

func dineIn(items ...dto.OrderItemRequest) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{OrderType: model.TypeDineIn, TableID: "table-1", Items: items}
}

func TestOrderService_Create(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Create(userContext(), dineIn(
		dto.OrderItemRequest{FoodItemID: "food-dosa", Quantity: 2},
		dto.OrderItemRequest{FoodItemID: "food-chai", Quantity: 3, Notes: "less sugar"},
	))
	require.NoError(t, err)

	assert.Regexp(t, `^OD-\d{8}-[0-9A-F]{6}$`, res.OrderNumber)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Masala Dosa", res.Items[0].Name)
	assert.True(t, decimal.RequireFromString("360").Equal(res.Items[0].Amount))
	assert.Equal(t, "less sugar", res.Items[1].Notes)
	assert.True(t, decimal.RequireFromString("480").Equal(res.Subtotal))
	assert.True(t, decimal.RequireFromString("24").Equal(res.Tax))
	assert.True(t, decimal.RequireFromString("504").Equal(res.Total))
	assert.Equal(t, model.StatusPending, res.Status)
	assert.Equal(t, model.PaymentStatusPending, res.PaymentStatus)
	assert.Equal(t, model.MethodCash, res.PaymentMethod)
	assert.Equal(t, "waiter-1", res.CreatedBy)

	assert.Equal(t, tableModel.StatusOccupied, f.table(t, "table-1").Status)
	assert.ElementsMatch(t, []event.Type{event.TableStatusChanged, event.OrderCreated}, f.recorder.Types(2, time.Second))
}

func TestOrderService_CreateRejected(t *testing.T) {
	f := newFixture(t)
	f.seedBooking(t, "bk-pending", bookingModel.StatusPending)

	tests := []struct {
		name string
		req  dto.CreateOrderRequest
		code int
	}{
		{name: "no items", req: dineIn(), code: http.StatusBadRequest},
		{name: "unknown food item", req: dineIn(dto.OrderItemRequest{FoodItemID: "food-pizza", Quantity: 1}), code: http.StatusNotFound},
		{name: "unavailable food item", req: dineIn(dto.OrderItemRequest{FoodItemID: "food-biryani", Quantity: 1}), code: http.StatusConflict},
		{
			name: "unknown table",
			req:  dto.CreateOrderRequest{OrderType: model.TypeDineIn, TableID: "table-9", Items: []dto.OrderItemRequest{{FoodItemID: "food-chai", Quantity: 1}}},
			code: http.StatusNotFound,
		},
		{
			name: "table being cleaned",
			req:  dto.CreateOrderRequest{OrderType: model.TypeDineIn, TableID: "table-2", Items: []dto.OrderItemRequest{{FoodItemID: "food-chai", Quantity: 1}}},
			code: http.StatusConflict,
		},
		{
			name: "room service without a checked-in stay",
			req:  dto.CreateOrderRequest{OrderType: model.TypeRoomService, BookingID: "bk-pending", Items: []dto.OrderItemRequest{{FoodItemID: "food-chai", Quantity: 1}}},
			code: http.StatusConflict,
		},
		{
			name: "room service for unknown booking",
			req:  dto.CreateOrderRequest{OrderType: model.TypeRoomService, BookingID: "bk-none", Items: []dto.OrderItemRequest{{FoodItemID: "food-chai", Quantity: 1}}},
			code: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(userContext(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.code, failure.GetCode(err))
		})
	}

	count, err := f.repo.Count(context.Background(), gDto.FilterGroup{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestOrderService_RoomService(t *testing.T) {
	f := newFixture(t)
	f.seedBooking(t, "bk-inhouse", bookingModel.StatusCheckedIn)

	res, err := f.svc.Create(userContext(), dto.CreateOrderRequest{
		OrderType: model.TypeRoomService,
		BookingID: "bk-inhouse",
		TableID:   "table-1",
		Items:     []dto.OrderItemRequest{{FoodItemID: "food-chai", Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, "101", res.RoomNumber)
	assert.Equal(t, "Rajesh Sharma", res.GuestName)
	assert.Equal(t, model.MethodRoomCharge, res.PaymentMethod)
	assert.Empty(t, res.TableID)
	assert.Equal(t, tableModel.StatusAvailable, f.table(t, "table-1").Status)
}

func TestOrderService_StatusLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := userContext()

	first, err := f.svc.Create(ctx, dineIn(dto.OrderItemRequest{FoodItemID: "food-dosa", Quantity: 1}))
	require.NoError(t, err)

	second, err := f.svc.Create(ctx, dineIn(dto.OrderItemRequest{FoodItemID: "food-chai", Quantity: 1}))
	require.NoError(t, err)

	err = f.svc.UpdateStatus(ctx, dto.UpdateOrderStatusRequest{Status: model.StatusServed}, first.ID)
	require.Error(t, err, "pending cannot jump to served")
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	for _, next := range []string{model.StatusPreparing, model.StatusReady, model.StatusServed} {
		require.NoError(t, f.svc.UpdateStatus(ctx, dto.UpdateOrderStatusRequest{Status: next}, first.ID))
	}

	assert.Equal(t, tableModel.StatusOccupied, f.table(t, "table-1").Status, "second order still seated")

	require.NoError(t, f.svc.UpdateStatus(ctx, dto.UpdateOrderStatusRequest{Status: model.StatusCancelled}, second.ID))
	assert.Equal(t, tableModel.StatusAvailable, f.table(t, "table-1").Status)

	err = f.svc.UpdateStatus(ctx, dto.UpdateOrderStatusRequest{Status: model.StatusPreparing}, second.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	got, err := f.svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusServed, got.Status)
}

func TestOrderService_PaymentStatus(t *testing.T) {
	f := newFixture(t)
	ctx := userContext()

	order, err := f.svc.Create(ctx, dineIn(dto.OrderItemRequest{FoodItemID: "food-dosa", Quantity: 1}))
	require.NoError(t, err)

	err = f.svc.UpdatePaymentStatus(ctx, dto.UpdateOrderPaymentStatusRequest{PaymentStatus: model.PaymentStatusRefunded}, order.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	require.NoError(t, f.svc.UpdatePaymentStatus(ctx, dto.UpdateOrderPaymentStatusRequest{PaymentStatus: model.PaymentStatusPaid}, order.ID))
	require.NoError(t, f.svc.UpdatePaymentStatus(ctx, dto.UpdateOrderPaymentStatusRequest{PaymentStatus: model.PaymentStatusPaid}, order.ID), "same status is a no-op")
	require.NoError(t, f.svc.UpdatePaymentStatus(ctx, dto.UpdateOrderPaymentStatusRequest{PaymentStatus: model.PaymentStatusRefunded}, order.ID))

	got, err := f.svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusRefunded, got.PaymentStatus)
}

func TestOrderService_UpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := userContext()

	order, err := f.svc.Create(ctx, dineIn(dto.OrderItemRequest{FoodItemID: "food-dosa", Quantity: 1}))
	require.NoError(t, err)

	err = f.svc.Update(ctx, dto.UpdateOrderRequest{}, order.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

	require.NoError(t, f.svc.Update(ctx, dto.UpdateOrderRequest{Notes: "extra chutney", PaymentMethod: model.MethodUPI}, order.ID))

	got, err := f.svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "extra chutney", got.Notes)
	assert.Equal(t, model.MethodUPI, got.PaymentMethod)
	assert.Len(t, got.Items, 1, "items are untouched")

	require.NoError(t, f.svc.Delete(ctx, order.ID))
	assert.Equal(t, tableModel.StatusAvailable, f.table(t, "table-1").Status)

	_, err = f.svc.Get(ctx, order.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

	err = f.svc.Delete(ctx, order.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestOrderService_Search(t *testing.T) {
	f := newFixture(t)
	f.seedBooking(t, "bk-inhouse", bookingModel.StatusCheckedIn)
	ctx := userContext()

	_, err := f.svc.Create(ctx, dineIn(dto.OrderItemRequest{FoodItemID: "food-dosa", Quantity: 1}))
	require.NoError(t, err)

	roomOrder, err := f.svc.Create(ctx, dto.CreateOrderRequest{
		OrderType: model.TypeRoomService,
		BookingID: "bk-inhouse",
		Items:     []dto.OrderItemRequest{{FoodItemID: "food-chai", Quantity: 1}},
	})
	require.NoError(t, err)

	res, err := f.svc.GetAll(ctx, gDto.QueryParams{}, dto.OrderQuery{Search: "rajesh"}.Filter())
	require.NoError(t, err)
	require.Len(t, res.Orders, 1)
	assert.Equal(t, roomOrder.ID, res.Orders[0].ID)

	res, err = f.svc.GetAll(ctx, gDto.QueryParams{}, dto.OrderQuery{OrderType: model.TypeDineIn, TableID: "table-1"}.Filter())
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)

	res, err = f.svc.GetAll(ctx, gDto.QueryParams{}, dto.OrderQuery{Search: roomOrder.OrderNumber[3:11]}.Filter())
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalData, "both orders share the date part of their number")
}

func TestOrderService_RepositoryError(t *testing.T) {
	otl := mocks.NewOtel()
	ctrl := gomock.NewController(t)
	repo := orderMocks.NewMockOrder(ctrl)
	redis := cache.NewRedisCache(nil, otl)
	settings := settingService.New(settingRepository.New(nil, otl), &config.Config{}, redis, otl, s3Mocks.NewMockS3(ctrl))

	svc := service.New(repo, foodRepository.New(nil, otl), tableRepository.New(nil, otl), bookingRepository.New(nil, otl), settings, &config.Config{}, redis, otl, event.Noop())

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Order{}, errors.New("connection refused"))

	_, err := svc.Get(context.Background(), "order-1")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
}
