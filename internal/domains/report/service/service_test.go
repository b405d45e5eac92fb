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
	orderModel "hotel/internal/domains/order/model"
	orderRepository "hotel/internal/domains/order/repository"
	paymentMocks "hotel/internal/domains/payment/mocks"
	paymentModel "hotel/internal/domains/payment/model"
	paymentRepository "hotel/internal/domains/payment/repository"
	"hotel/internal/domains/report/service"
	roomModel "hotel/internal/domains/room/model"
	roomRepository "hotel/internal/domains/room/repository"
	staffModel "hotel/internal/domains/staff/model"
	staffRepository "hotel/internal/domains/staff/repository"
	"hotel/shared/cache"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	svc         service.Report
	roomRepo    roomRepository.Room
	bookingRepo bookingRepository.Booking
	orderRepo   orderRepository.Order
	staffRepo   staffRepository.Staff
	paymentRepo paymentRepository.Payment
}

var meta = gModel.NewMetadata(time.Now(), "seed")

func newFixture(t *testing.T) fixture {
	t.Helper()

	otl := mocks.NewOtel()
	f := fixture{
		roomRepo:    roomRepository.New(nil, otl),
		bookingRepo: bookingRepository.New(nil, otl),
		orderRepo:   orderRepository.New(nil, otl),
		staffRepo:   staffRepository.New(nil, otl),
		paymentRepo: paymentRepository.New(nil, otl),
	}

	f.svc = service.New(f.roomRepo, f.bookingRepo, f.orderRepo, f.staffRepo, f.paymentRepo, &config.Config{}, cache.NewRedisCache(nil, otl), otl)

	for _, room := range []roomModel.Room{
		{ID: "room-101", Number: "101", Status: roomModel.StatusOccupied, Active: true},
		{ID: "room-102", Number: "102", Status: roomModel.StatusAvailable, Active: true},
		{ID: "room-103", Number: "103", Status: roomModel.StatusMaintenance, Active: true},
		{ID: "room-104", Number: "104", Status: roomModel.StatusAvailable, Active: false},
	} {
		room.Type = roomModel.TypeDouble
		room.Capacity = 2
		room.PricePerNight = decimal.RequireFromString("2500")
		room.Metadata = meta
		require.NoError(t, f.roomRepo.Insert(context.Background(), room))
	}

	return f
}

func (f fixture) seedBooking(t *testing.T, id, roomID string, checkIn, checkOut time.Time, status string) {
	t.Helper()

	require.NoError(t, f.bookingRepo.Insert(context.Background(), bookingModel.Booking{
		ID: id, BookingNumber: "BK-" + id, GuestName: "Guest " + id, RoomID: roomID,
		CheckIn: checkIn, CheckOut: checkOut, Status: status,
		PaymentStatus: bookingModel.PaymentStatusPending, Metadata: meta,
	}))
}

func (f fixture) seedPayment(t *testing.T, id, method, amount, status string, paidAt time.Time) {
	t.Helper()

	require.NoError(t, f.paymentRepo.Insert(context.Background(), paymentModel.Payment{
		ID: id, Reference: "PY-" + id, Amount: decimal.RequireFromString(amount),
		Method: method, Status: status, PaidAt: paidAt, Metadata: meta,
	}))
}

func at(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := timezone.Parse(time.DateTime, value)
	require.NoError(t, err)

	return parsed
}

func window(t *testing.T, from, to string) gDto.DateRange {
	t.Helper()

	start, err := timezone.ParseDate(from)
	require.NoError(t, err)

	end, err := timezone.ParseDate(to)
	require.NoError(t, err)

	return gDto.DateRange{From: start, To: end}
}

func TestReportService_Dashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	today := timezone.Today()

	f.seedBooking(t, "b1", "room-101", today.AddDate(0, 0, -1), today.AddDate(0, 0, 2), bookingModel.StatusCheckedIn)
	f.seedBooking(t, "b2", "room-102", today, today.AddDate(0, 0, 1), bookingModel.StatusConfirmed)
	f.seedBooking(t, "b3", "room-102", today.AddDate(0, 0, 5), today.AddDate(0, 0, 7), bookingModel.StatusPending)
	f.seedBooking(t, "b4", "room-103", today.AddDate(0, 0, -2), today, bookingModel.StatusCheckedOut)

	for _, order := range []orderModel.Order{
		{ID: "od-1", OrderNumber: "OD-1", Status: orderModel.StatusPreparing},
		{ID: "od-2", OrderNumber: "OD-2", Status: orderModel.StatusServed},
	} {
		order.OrderType = orderModel.TypeDineIn
		order.PaymentStatus = orderModel.PaymentStatusPending
		order.Metadata = meta
		require.NoError(t, f.orderRepo.Insert(ctx, order))
	}

	for _, staff := range []staffModel.Staff{
		{ID: "st-1", FullName: "Priya Nair", Status: staffModel.StatusActive},
		{ID: "st-2", FullName: "Arjun Mehta", Status: staffModel.StatusActive},
		{ID: "st-3", FullName: "Kavya Iyer", Status: staffModel.StatusOnLeave},
	} {
		staff.Metadata = meta
		require.NoError(t, f.staffRepo.Insert(ctx, staff))
	}

	noon := today.Add(12 * time.Hour)
	f.seedPayment(t, "p1", paymentModel.MethodCash, "1000", paymentModel.StatusCompleted, noon)
	f.seedPayment(t, "p2", paymentModel.MethodCard, "500.50", paymentModel.StatusCompleted, noon)
	f.seedPayment(t, "p3", paymentModel.MethodCash, "300", paymentModel.StatusRefunded, noon)
	f.seedPayment(t, "p4", paymentModel.MethodUPI, "900", paymentModel.StatusCompleted, today.AddDate(-1, 0, 0))

	res, err := f.svc.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalRooms)
	assert.Equal(t, map[string]int{
		roomModel.StatusAvailable:   2,
		roomModel.StatusOccupied:    1,
		roomModel.StatusReserved:    0,
		roomModel.StatusMaintenance: 1,
		roomModel.StatusCleaning:    0,
	}, res.RoomsByStatus)

	assert.Equal(t, 2, res.OccupiedTonight)
	assert.Equal(t, "66.67", res.OccupancyRate.String())
	assert.Equal(t, 1, res.CheckInsToday)
	assert.Equal(t, 1, res.CheckOutsToday)
	assert.Equal(t, 1, res.PendingBookings)
	assert.Equal(t, 1, res.ActiveOrders)
	assert.Equal(t, 2, res.ActiveStaff)
	assert.Equal(t, "1500.5", res.RevenueToday.String())
	assert.Equal(t, "1500.5", res.RevenueMonth.String())
}

func TestReportService_DashboardEmpty(t *testing.T) {
	otl := mocks.NewOtel()
	svc := service.New(roomRepository.New(nil, otl), bookingRepository.New(nil, otl), orderRepository.New(nil, otl),
		staffRepository.New(nil, otl), paymentRepository.New(nil, otl), &config.Config{}, cache.NewRedisCache(nil, otl), otl)

	res, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Zero(t, res.TotalRooms)
	assert.True(t, res.OccupancyRate.IsZero(), "no rooms means no rate rather than a division by zero")
	assert.True(t, res.RevenueToday.IsZero())
}

func TestReportService_Revenue(t *testing.T) {
	f := newFixture(t)

	f.seedPayment(t, "p1", paymentModel.MethodCash, "1000", paymentModel.StatusCompleted, at(t, "2025-03-01 10:00:00"))
	f.seedPayment(t, "p2", paymentModel.MethodUPI, "250", paymentModel.StatusCompleted, at(t, "2025-03-03 18:00:00"))
	f.seedPayment(t, "p3", paymentModel.MethodCard, "500", paymentModel.StatusCompleted, at(t, "2025-03-03 23:59:00"))
	f.seedPayment(t, "p4", paymentModel.MethodCash, "300", paymentModel.StatusRefunded, at(t, "2025-03-02 09:00:00"))
	f.seedPayment(t, "p5", paymentModel.MethodCash, "700", paymentModel.StatusFailed, at(t, "2025-03-02 09:30:00"))
	f.seedPayment(t, "p6", paymentModel.MethodCash, "400", paymentModel.StatusCompleted, at(t, "2025-03-04 00:00:00"))

	res, err := f.svc.Revenue(context.Background(), window(t, "2025-03-01", "2025-03-03"))
	require.NoError(t, err)

	assert.Equal(t, "2025-03-01", res.From)
	assert.Equal(t, "2025-03-03", res.To)
	assert.Equal(t, 3, res.Payments)
	assert.Equal(t, "1750", res.Total.String())

	require.Len(t, res.Days, 3)
	assert.Equal(t, "2025-03-01", res.Days[0].Date)
	assert.Equal(t, "1000", res.Days[0].Amount.String())
	assert.True(t, res.Days[1].Amount.IsZero(), "refunded and failed payments are not revenue")
	assert.Equal(t, "750", res.Days[2].Amount.String())
	assert.Equal(t, 2, res.Days[2].Payments)

	require.Len(t, res.Methods, 3)
	assert.Equal(t, paymentModel.MethodCash, res.Methods[0].Method)
	assert.Equal(t, paymentModel.MethodCard, res.Methods[1].Method)
	assert.Equal(t, paymentModel.MethodUPI, res.Methods[2].Method)
	assert.Equal(t, "250", res.Methods[2].Amount.String())
}

func TestReportService_Occupancy(t *testing.T) {
	f := newFixture(t)

	f.seedBooking(t, "b1", "room-101", at(t, "2025-03-09 00:00:00"), at(t, "2025-03-12 00:00:00"), bookingModel.StatusCheckedIn)
	f.seedBooking(t, "b2", "room-102", at(t, "2025-03-11 00:00:00"), at(t, "2025-03-13 00:00:00"), bookingModel.StatusConfirmed)
	f.seedBooking(t, "b3", "room-103", at(t, "2025-03-10 00:00:00"), at(t, "2025-03-12 00:00:00"), bookingModel.StatusCancelled)

	res, err := f.svc.Occupancy(context.Background(), window(t, "2025-03-10", "2025-03-12"))
	require.NoError(t, err)

	assert.Equal(t, 3, res.Rooms)
	assert.Equal(t, uint64(4), res.RoomNights)
	assert.Equal(t, "44.44", res.AverageRate.String())

	require.Len(t, res.Nights, 3)
	assert.Equal(t, []int{1, 2, 1}, []int{res.Nights[0].Occupied, res.Nights[1].Occupied, res.Nights[2].Occupied})
	assert.Equal(t, "2025-03-11", res.Nights[1].Date)
	assert.Equal(t, "66.67", res.Nights[1].Rate.String())
}

func TestReportService_RepositoryError(t *testing.T) {
	otl := mocks.NewOtel()
	ctrl := gomock.NewController(t)
	paymentRepo := paymentMocks.NewMockPayment(ctrl)

	svc := service.New(roomRepository.New(nil, otl), bookingRepository.New(nil, otl), orderRepository.New(nil, otl),
		staffRepository.New(nil, otl), paymentRepo, &config.Config{}, cache.NewRedisCache(nil, otl), otl)

	paymentRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	_, err := svc.Revenue(context.Background(), window(t, "2025-03-01", "2025-03-03"))
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
}
