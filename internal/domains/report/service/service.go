package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"hotel/config"
	"hotel/infras/otel"
	bookingModel "hotel/internal/domains/booking/model"
	bookingRepository "hotel/internal/domains/booking/repository"
	orderModel "hotel/internal/domains/order/model"
	orderRepository "hotel/internal/domains/order/repository"
	paymentModel "hotel/internal/domains/payment/model"
	paymentDto "hotel/internal/domains/payment/model/dto"
	paymentRepository "hotel/internal/domains/payment/repository"
	"hotel/internal/domains/report/model"
	"hotel/internal/domains/report/model/dto"
	roomModel "hotel/internal/domains/room/model"
	roomRepository "hotel/internal/domains/room/repository"
	staffModel "hotel/internal/domains/staff/model"
	staffRepository "hotel/internal/domains/staff/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/money"
	"hotel/shared/timezone"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type Report interface {
	Dashboard(ctx context.Context) (dto.DashboardResponse, error)
	Revenue(ctx context.Context, window gDto.DateRange) (dto.RevenueResponse, error)
	Occupancy(ctx context.Context, window gDto.DateRange) (dto.OccupancyResponse, error)
}

type serviceImpl struct {
	roomRepo    roomRepository.Room
	bookingRepo bookingRepository.Booking
	orderRepo   orderRepository.Order
	staffRepo   staffRepository.Staff
	paymentRepo paymentRepository.Payment
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	roomRepo roomRepository.Room,
	bookingRepo bookingRepository.Booking,
	orderRepo orderRepository.Order,
	staffRepo staffRepository.Staff,
	paymentRepo paymentRepository.Payment,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Report {
	return &serviceImpl{
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
		orderRepo:   orderRepo,
		staffRepo:   staffRepo,
		paymentRepo: paymentRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

var roomStatuses = []string{
	roomModel.StatusAvailable,
	roomModel.StatusOccupied,
	roomModel.StatusReserved,
	roomModel.StatusMaintenance,
	roomModel.StatusCleaning,
}

// Dashboard gathers the front page counters concurrently.
func (s *serviceImpl) Dashboard(ctx context.Context) (res dto.DashboardResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Dashboard")
	defer scope.End()
	defer scope.TraceIfError(err)

	today := timezone.Today()
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	cacheKey := shared.BuildCacheKey(model.CacheDashboard, dto.Day(today))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	byStatus := make([]int, len(roomStatuses))
	group, groupCtx := errgroup.WithContext(ctx)

	for i, roomStatus := range roomStatuses {
		group.Go(func() error {
			count, err := s.roomRepo.Count(groupCtx, shared.FilterByField(roomModel.FieldStatus, roomStatus))
			byStatus[i] = count

			return err
		})
	}

	group.Go(func() error {
		count, err := s.roomRepo.Count(groupCtx, shared.FilterByField(roomModel.FieldActive, true))
		res.TotalRooms = count

		return err
	})

	group.Go(func() error {
		index, err := s.bookingRepo.Occupancy(groupCtx, today, tomorrow)
		if err != nil {
			return err
		}

		res.OccupiedTonight = len(index.OccupiedOn(today))

		return nil
	})

	group.Go(func() error {
		count, err := s.bookingRepo.Count(groupCtx, bookingDay(bookingModel.FieldCheckIn, today, bookingModel.ActiveStatuses...))
		res.CheckInsToday = count

		return err
	})

	group.Go(func() error {
		count, err := s.bookingRepo.Count(groupCtx, bookingDay(bookingModel.FieldCheckOut, today, bookingModel.StatusCheckedIn, bookingModel.StatusCheckedOut))
		res.CheckOutsToday = count

		return err
	})

	group.Go(func() error {
		count, err := s.bookingRepo.Count(groupCtx, shared.FilterByField(bookingModel.FieldStatus, bookingModel.StatusPending))
		res.PendingBookings = count

		return err
	})

	group.Go(func() error {
		count, err := s.orderRepo.Count(groupCtx, gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{Field: orderModel.FieldStatus, Operator: gDto.FilterOperatorIn, Value: orderModel.ActiveStatuses, Table: orderModel.TableName},
			},
		})
		res.ActiveOrders = count

		return err
	})

	group.Go(func() error {
		count, err := s.staffRepo.Count(groupCtx, shared.FilterByField(staffModel.FieldStatus, staffModel.StatusActive))
		res.ActiveStaff = count

		return err
	})

	group.Go(func() error {
		revenue, err := s.paymentRepo.Sum(groupCtx, paymentModel.FieldAmount, paymentDto.CompletedBetween(today, tomorrow))
		res.RevenueToday = money.Round(revenue)

		return err
	})

	group.Go(func() error {
		revenue, err := s.paymentRepo.Sum(groupCtx, paymentModel.FieldAmount, paymentDto.CompletedBetween(monthStart, tomorrow))
		res.RevenueMonth = money.Round(revenue)

		return err
	})

	if err = group.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to build dashboard")

		return res, fmt.Errorf("failed to build dashboard: %w", err)
	}

	res.RoomsByStatus = make(map[string]int, len(roomStatuses))
	for i, roomStatus := range roomStatuses {
		res.RoomsByStatus[roomStatus] = byStatus[i]
	}

	res.OccupancyRate = dto.Rate(int64(res.OccupiedTonight), int64(res.TotalRooms))

	s.save(ctx, cacheKey, res)

	return res, nil
}

// Revenue totals completed payments per day and per method. Refunded and
// failed payments do not count.
func (s *serviceImpl) Revenue(ctx context.Context, window gDto.DateRange) (res dto.RevenueResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Revenue")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(model.CacheRevenue, dto.Day(window.From), dto.Day(window.To))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	payments, err := s.paymentRepo.GetAll(ctx, gDto.QueryParams{}, paymentDto.CompletedBetween(window.From, window.End()))
	if err != nil {
		log.Error().Err(err).Msg("failed to get payments for revenue")

		return res, fmt.Errorf("failed to get payments for revenue: %w", err)
	}

	res.From, res.To = dto.Day(window.From), dto.Day(window.To)
	res.Total = decimal.Zero
	res.Payments = len(payments)

	days := map[string]int{}
	res.Days = make([]dto.DailyRevenue, 0, window.Days())

	for day := window.From; day.Before(window.End()); day = day.AddDate(0, 0, 1) {
		days[dto.Day(day)] = len(res.Days)
		res.Days = append(res.Days, dto.DailyRevenue{Date: dto.Day(day), Amount: decimal.Zero})
	}

	methods := map[string]*dto.MethodRevenue{}

	for _, payment := range payments {
		res.Total = res.Total.Add(payment.Amount)

		if i, ok := days[dto.Day(timezone.ToAppTime(payment.PaidAt))]; ok {
			res.Days[i].Amount = res.Days[i].Amount.Add(payment.Amount)
			res.Days[i].Payments++
		}

		method, ok := methods[payment.Method]
		if !ok {
			method = &dto.MethodRevenue{Method: payment.Method, Amount: decimal.Zero}
			methods[payment.Method] = method
		}

		method.Amount = method.Amount.Add(payment.Amount)
		method.Payments++
	}

	res.Total = money.Round(res.Total)

	res.Methods = make([]dto.MethodRevenue, 0, len(methods))
	for _, method := range methods {
		method.Amount = money.Round(method.Amount)
		res.Methods = append(res.Methods, *method)
	}

	slices.SortFunc(res.Methods, func(a, b dto.MethodRevenue) int {
		if cmp := b.Amount.Cmp(a.Amount); cmp != 0 {
			return cmp
		}

		return strings.Compare(a.Method, b.Method)
	})

	s.save(ctx, cacheKey, res)

	return res, nil
}

// Occupancy counts held rooms per night of the window against the active rooms.
func (s *serviceImpl) Occupancy(ctx context.Context, window gDto.DateRange) (res dto.OccupancyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Occupancy")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(model.CacheOccupancy, dto.Day(window.From), dto.Day(window.To))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	rooms, err := s.roomRepo.Count(ctx, shared.FilterByField(roomModel.FieldActive, true))
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms for occupancy")

		return res, fmt.Errorf("failed to count rooms for occupancy: %w", err)
	}

	index, err := s.bookingRepo.Occupancy(ctx, window.From, window.End())
	if err != nil {
		log.Error().Err(err).Msg("failed to load occupancy")

		return res, fmt.Errorf("failed to load occupancy: %w", err)
	}

	res.RoomNights, err = index.Occupied(window.From, window.End())
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	res.From, res.To = dto.Day(window.From), dto.Day(window.To)
	res.Rooms = rooms
	res.AverageRate = dto.Rate(int64(res.RoomNights), int64(rooms*window.Days()))

	res.Nights = make([]dto.NightOccupancy, 0, window.Days())
	for day := window.From; day.Before(window.End()); day = day.AddDate(0, 0, 1) {
		occupied := len(index.OccupiedOn(day))

		res.Nights = append(res.Nights, dto.NightOccupancy{
			Date:     dto.Day(day),
			Occupied: occupied,
			Rate:     dto.Rate(int64(occupied), int64(rooms)),
		})
	}

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save report to cache")
		}
	}()
}

func bookingDay(field string, day time.Time, statuses ...string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: field, ArgName: field + "_day", Operator: gDto.FilterOperatorEq, Value: day, Table: bookingModel.TableName},
			gDto.Filter{Field: bookingModel.FieldStatus, Operator: gDto.FilterOperatorIn, Value: statuses, Table: bookingModel.TableName},
		},
	}
}
