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
	invoiceMocks "hotel/internal/domains/invoice/mocks"
	"hotel/internal/domains/invoice/model"
	"hotel/internal/domains/invoice/model/dto"
	"hotel/internal/domains/invoice/repository"
	"hotel/internal/domains/invoice/service"
	orderModel "hotel/internal/domains/order/model"
	orderRepository "hotel/internal/domains/order/repository"
	roomModel "hotel/internal/domains/room/model"
	roomRepository "hotel/internal/domains/room/repository"
	settingRepository "hotel/internal/domains/setting/repository"
	settingService "hotel/internal/domains/setting/service"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/event"
	eventMocks "hotel/shared/event/mocks"
	"hotel/shared/failure"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	svc         service.Invoice
	bookingRepo bookingRepository.Booking
	orderRepo   orderRepository.Order
	recorder    *eventMocks.Recorder
}

func day(value string) time.Time {
	parsed, err := timezone.ParseDate(value)
	if err != nil {
		panic(err)
	}

	return parsed
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	otl := mocks.NewOtel()
	redis := cache.NewRedisCache(nil, otl)
	cfg := &config.Config{}
	cfg.App.Hotel.TaxRate = "12"

	roomRepo := roomRepository.New(nil, otl)
	f := fixture{
		bookingRepo: bookingRepository.New(nil, otl),
		orderRepo:   orderRepository.New(nil, otl),
		recorder:    eventMocks.NewRecorder(),
	}

	settings := settingService.New(settingRepository.New(nil, otl), cfg, redis, otl, s3Mocks.NewMockS3(gomock.NewController(t)))
	f.svc = service.New(repository.New(nil, otl), f.bookingRepo, roomRepo, f.orderRepo, settings, cfg, redis, otl, f.recorder)

	ctx := context.Background()
	meta := gModel.NewMetadata(time.Now(), "seed")

	require.NoError(t, roomRepo.Insert(ctx, roomModel.Room{
		ID: "room-101", Number: "101", Type: roomModel.TypeDouble, Capacity: 2,
		PricePerNight: decimal.RequireFromString("2500"), Status: roomModel.StatusOccupied, Active: true, Metadata: meta,
	}))

	require.NoError(t, f.bookingRepo.Insert(ctx, bookingModel.Booking{
		ID: "bk-1", BookingNumber: "BK-20250310-AAAAAA", GuestName: "Rajesh Sharma",
		RoomID: "room-101", RoomNumber: "101", CheckIn: day("2025-03-10"), CheckOut: day("2025-03-13"),
		TotalAmount: decimal.RequireFromString("7500"), Status: bookingModel.StatusCheckedIn,
		PaymentStatus: bookingModel.PaymentStatusPending, Metadata: meta,
	}))

	require.NoError(t, f.bookingRepo.Insert(ctx, bookingModel.Booking{
		ID: "bk-cancelled", BookingNumber: "BK-20250310-CCCCCC", GuestName: "Anita Rao",
		RoomID: "room-101", RoomNumber: "101", CheckIn: day("2025-04-01"), CheckOut: day("2025-04-02"),
		Status: bookingModel.StatusCancelled, PaymentStatus: bookingModel.PaymentStatusPending, Metadata: meta,
	}))

	for _, order := range []orderModel.Order{
		{ID: "od-1", OrderNumber: "OD-20250311-AAAAAA", BookingID: "bk-1", Subtotal: decimal.RequireFromString("400"), PaymentMethod: orderModel.MethodRoomCharge, Status: orderModel.StatusServed, PaymentStatus: orderModel.PaymentStatusPending},
		{ID: "od-2", OrderNumber: "OD-20250311-BBBBBB", BookingID: "bk-1", Subtotal: decimal.RequireFromString("100"), PaymentMethod: orderModel.MethodRoomCharge, Status: orderModel.StatusCancelled, PaymentStatus: orderModel.PaymentStatusPending},
		{ID: "od-3", OrderNumber: "OD-20250312-CCCCCC", BookingID: "bk-1", Subtotal: decimal.RequireFromString("250"), PaymentMethod: orderModel.MethodCash, Status: orderModel.StatusServed, PaymentStatus: orderModel.PaymentStatusPaid},
	} {
		order.OrderType = orderModel.TypeRoomService
		order.Metadata = meta
		require.NoError(t, f.orderRepo.Insert(ctx, order))
	}

	return f
}

func userContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "accounts-1")
}

func TestInvoiceService_Generate(t *testing.T) {
	f := newFixture(t)
	discount := decimal.RequireFromString("100")

	res, err := f.svc.Generate(userContext(), dto.GenerateInvoiceRequest{BookingID: "bk-1", Discount: &discount})
	require.NoError(t, err)

	assert.Regexp(t, `^INV-\d{8}-[0-9A-F]{6}$`, res.InvoiceNumber)
	assert.Equal(t, "Rajesh Sharma", res.GuestName)
	require.Len(t, res.Items, 2, "room line plus the open room-charge order")
	assert.Equal(t, 3, res.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("2500").Equal(res.Items[0].UnitPrice))
	assert.Equal(t, "Cafe order OD-20250311-AAAAAA", res.Items[1].Description)

	assert.True(t, decimal.RequireFromString("7900").Equal(res.Subtotal))
	assert.True(t, decimal.RequireFromString("948").Equal(res.Tax))
	assert.True(t, decimal.RequireFromString("8748").Equal(res.Total))
	assert.Equal(t, model.StatusDraft, res.Status)
	assert.Equal(t, "2025-03-13", res.DueDate, "due at check-out by default")
	assert.Empty(t, res.IssuedAt)

	_, err = f.svc.Generate(userContext(), dto.GenerateInvoiceRequest{BookingID: "bk-1"})
	require.Error(t, err, "one open invoice per booking")
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}

func TestInvoiceService_GenerateBillsBookingTotal(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.bookingRepo.Insert(context.Background(), bookingModel.Booking{
		ID: "bk-corporate", BookingNumber: "BK-20250501-DDDDDD", GuestName: "Kavya Menon",
		RoomID: "room-101", RoomNumber: "101", CheckIn: day("2025-05-01"), CheckOut: day("2025-05-04"),
		TotalAmount: decimal.RequireFromString("6000"), Status: bookingModel.StatusConfirmed,
		PaymentStatus: bookingModel.PaymentStatusPending, Metadata: gModel.NewMetadata(time.Now(), "seed"),
	}))

	res, err := f.svc.Generate(userContext(), dto.GenerateInvoiceRequest{BookingID: "bk-corporate"})
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	assert.Equal(t, "Room 101 (double), 3 night(s)", res.Items[0].Description)
	assert.Equal(t, 3, res.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("2000").Equal(res.Items[0].UnitPrice))
	assert.True(t, decimal.RequireFromString("6000").Equal(res.Items[0].Amount), "negotiated total, not 3 x 2500")
	assert.True(t, decimal.RequireFromString("6000").Equal(res.Subtotal))
	assert.True(t, decimal.RequireFromString("6720").Equal(res.Total))
}
func TestInvoiceService_GenerateRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Generate(userContext(), dto.GenerateInvoiceRequest{BookingID: "bk-none"})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

	_, err = f.svc.Generate(userContext(), dto.GenerateInvoiceRequest{BookingID: "bk-cancelled"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}

func TestInvoiceService_DiscountNeverNegative(t *testing.T) {
	f := newFixture(t)
	ctx := userContext()

	res, err := f.svc.Generate(ctx, dto.GenerateInvoiceRequest{BookingID: "bk-1", DueDate: "2025-03-20"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-20", res.DueDate)

	huge := decimal.RequireFromString("100000")
	require.NoError(t, f.svc.Update(ctx, dto.UpdateInvoiceRequest{Discount: &huge, Notes: "complimentary stay"}, res.ID))

	got, err := f.svc.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.True(t, got.Total.IsZero())
	assert.True(t, huge.Equal(got.Discount))
	assert.Equal(t, "complimentary stay", got.Notes)
}

func TestInvoiceService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := userContext()

	res, err := f.svc.Generate(ctx, dto.GenerateInvoiceRequest{BookingID: "bk-1"})
	require.NoError(t, err)

	err = f.svc.UpdateStatus(ctx, dto.UpdateInvoiceStatusRequest{Status: model.StatusPaid}, res.ID)
	require.Error(t, err, "draft cannot be paid before it is issued")
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	require.NoError(t, f.svc.UpdateStatus(ctx, dto.UpdateInvoiceStatusRequest{Status: model.StatusIssued}, res.ID))

	got, err := f.svc.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusIssued, got.Status)
	assert.NotEmpty(t, got.IssuedAt)

	err = f.svc.Update(ctx, dto.UpdateInvoiceRequest{Notes: "late edit"}, res.ID)
	require.Error(t, err, "issued invoices are frozen")
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	err = f.svc.Delete(ctx, res.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	require.NoError(t, f.svc.UpdateStatus(ctx, dto.UpdateInvoiceStatusRequest{Status: model.StatusPaid}, res.ID))

	err = f.svc.UpdateStatus(ctx, dto.UpdateInvoiceStatusRequest{Status: model.StatusCancelled}, res.ID)
	require.Error(t, err, "paid is terminal")
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	assert.ElementsMatch(t, []event.Type{event.InvoiceIssued, event.InvoiceStatusChanged}, f.recorder.Types(2, time.Second))
}

func TestInvoiceService_CancelAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := userContext()

	res, err := f.svc.Generate(ctx, dto.GenerateInvoiceRequest{BookingID: "bk-1"})
	require.NoError(t, err)

	require.NoError(t, f.svc.UpdateStatus(ctx, dto.UpdateInvoiceStatusRequest{Status: model.StatusCancelled}, res.ID))

	again, err := f.svc.Generate(ctx, dto.GenerateInvoiceRequest{BookingID: "bk-1"})
	require.NoError(t, err, "a cancelled invoice does not block a new one")

	list, err := f.svc.GetAll(ctx, gDto.QueryParams{}, dto.InvoiceQuery{Search: "rajesh", BookingID: "bk-1"}.Filter())
	require.NoError(t, err)
	assert.Equal(t, 2, list.TotalData)

	require.NoError(t, f.svc.Delete(ctx, res.ID))
	require.NoError(t, f.svc.Delete(ctx, again.ID))

	err = f.svc.Delete(ctx, res.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

	err = f.svc.Update(ctx, dto.UpdateInvoiceRequest{}, again.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestInvoiceService_RepositoryError(t *testing.T) {
	otl := mocks.NewOtel()
	ctrl := gomock.NewController(t)
	repo := invoiceMocks.NewMockInvoice(ctrl)
	redis := cache.NewRedisCache(nil, otl)
	settings := settingService.New(settingRepository.New(nil, otl), &config.Config{}, redis, otl, s3Mocks.NewMockS3(ctrl))

	svc := service.New(repo, bookingRepository.New(nil, otl), roomRepository.New(nil, otl), orderRepository.New(nil, otl), settings, &config.Config{}, redis, otl, event.Noop())

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Invoice{}, errors.New("connection refused"))

	_, err := svc.Get(context.Background(), "invoice-1")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
}
