package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hotel/config"
	"hotel/infras/otel"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/repository"
	guestModel "hotel/internal/domains/guest/model"
	guestRepository "hotel/internal/domains/guest/repository"
	roomModel "hotel/internal/domains/room/model"
	roomRepository "hotel/internal/domains/room/repository"
	"hotel/shared"
	"hotel/shared/availability"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/event"
	"hotel/shared/failure"
	"hotel/shared/money"
	"hotel/shared/status"
	"hotel/shared/timezone"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	UpdateStatus(ctx context.Context, req dto.UpdateBookingStatusRequest, id string) error
	UpdatePaymentStatus(ctx context.Context, req dto.UpdatePaymentStatusRequest, id string) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (dto.BookingStatsResponse, error)
}

// roomFollows is the room status each booking status pushes the room towards.
var roomFollows = map[string]string{
	model.StatusConfirmed:  roomModel.StatusReserved,
	model.StatusCheckedIn:  roomModel.StatusOccupied,
	model.StatusCheckedOut: roomModel.StatusCleaning,
	model.StatusCancelled:  roomModel.StatusAvailable,
}

// roomMoves limits which room statuses a booking may overwrite, so a cancelled
// reservation never frees a room that is occupied or under maintenance.
var roomMoves = status.Transitions{
	roomModel.StatusAvailable: {roomModel.StatusReserved, roomModel.StatusOccupied},
	roomModel.StatusReserved:  {roomModel.StatusOccupied, roomModel.StatusAvailable},
	roomModel.StatusCleaning:  {roomModel.StatusOccupied},
	roomModel.StatusOccupied:  {roomModel.StatusCleaning},
}

type serviceImpl struct {
	repo      repository.Booking
	roomRepo  roomRepository.Room
	guestRepo guestRepository.Guest
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	publisher event.Publisher

	// stays serialises the availability check with the write that follows it.
	stays sync.Mutex
}

func New(
	repo repository.Booking,
	roomRepo roomRepository.Room,
	guestRepo guestRepository.Guest,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	publisher event.Publisher,
) Booking {
	return &serviceImpl{
		repo:      repo,
		roomRepo:  roomRepo,
		guestRepo: guestRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		publisher: publisher,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	checkIn, checkOut, err := req.Dates()
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	if !checkOut.After(checkIn) {
		return res, failure.BadRequestFromString("check_out must be after check_in") //nolint:wrapcheck
	}

	room, err := s.findRoom(ctx, req.RoomID)
	if err != nil {
		return res, err
	}

	if !room.Active || room.Status == roomModel.StatusMaintenance {
		return res, failure.Conflictf("room %s is not open for booking", room.Number) //nolint:wrapcheck
	}

	actor := shared.Actor(ctx)
	booking := req.ToModel(actor, checkIn, checkOut)
	booking.RoomNumber = room.Number
	booking.TotalAmount = money.Line(room.PricePerNight, availability.Nights(checkIn, checkOut))

	if req.TotalAmount != nil {
		booking.TotalAmount = money.Round(*req.TotalAmount)
	}

	if req.GuestID != constant.Empty {
		if err = s.applyGuest(ctx, &booking); err != nil {
			return res, err
		}
	}

	s.stays.Lock()
	defer s.stays.Unlock()

	if err = s.ensureAvailable(ctx, room.ID, checkIn, checkOut, constant.Empty); err != nil {
		return res, err
	}

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to insert booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	res.FromModel(booking)

	if booking.Status == model.StatusConfirmed {
		s.followRoom(ctx, booking.RoomID, booking.Status)
	}

	event.Dispatch(ctx, s.publisher, event.New(event.BookingCreated, model.EntityName, booking.ID, actor, res))
	s.invalidate(ctx, constant.Empty)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheGetAll, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	var (
		total  int
		models []model.Booking
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		var err error

		total, err = s.Count(groupCtx, req, filter)

		return err
	})

	group.Go(func() error {
		var err error

		models, err = s.repo.GetAll(groupCtx, req, filter)

		return err
	})

	if err = group.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheCount, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(model.CacheGet, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return failure.BadRequestFromString("no booking fields to update") //nolint:wrapcheck
	}

	s.stays.Lock()
	defer s.stays.Unlock()

	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if current.Status != model.StatusPending && current.Status != model.StatusConfirmed {
		return failure.Conflictf("a %s booking cannot be changed", current.Status) //nolint:wrapcheck
	}

	checkIn, checkOut, err := req.Stay(current)
	if err != nil {
		return failure.BadRequest(err) //nolint:wrapcheck
	}

	if !checkOut.After(checkIn) {
		return failure.BadRequestFromString("check_out must be after check_in") //nolint:wrapcheck
	}

	roomID := current.RoomID
	if req.RoomID != constant.Empty {
		roomID = req.RoomID
	}

	updatedFields := shared.TransformFields(req, shared.Actor(ctx))

	total := current.TotalAmount
	if req.TotalAmount != nil {
		total = money.Round(*req.TotalAmount)
		updatedFields[model.FieldTotalAmount] = total
	}

	roomChanged := roomID != current.RoomID
	if roomChanged || !checkIn.Equal(current.CheckIn) || !checkOut.Equal(current.CheckOut) {
		room, err := s.findRoom(ctx, roomID)
		if err != nil {
			return err
		}

		if roomChanged && (!room.Active || room.Status == roomModel.StatusMaintenance) {
			return failure.Conflictf("room %s is not open for booking", room.Number) //nolint:wrapcheck
		}

		if err = s.ensureAvailable(ctx, roomID, checkIn, checkOut, current.ID); err != nil {
			return err
		}

		updatedFields[model.FieldRoomID] = roomID
		updatedFields[model.FieldRoomNumber] = room.Number
		updatedFields[model.FieldCheckIn] = checkIn
		updatedFields[model.FieldCheckOut] = checkOut

		if req.TotalAmount == nil {
			total = money.Line(room.PricePerNight, availability.Nights(checkIn, checkOut))
			updatedFields[model.FieldTotalAmount] = total
		}
	}

	if current.PaidAmount.IsPositive() && !total.Equal(current.TotalAmount) {
		if total.LessThan(current.PaidAmount) {
			return failure.Conflictf("total of %s is below the %s already paid", total, current.PaidAmount) //nolint:wrapcheck
		}

		updatedFields[model.FieldPaymentStatus] = settledStatus(total, current.PaidAmount)
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return fmt.Errorf("failed to update booking: %w", err)
	}

	if roomChanged && current.Status == model.StatusConfirmed {
		s.followRoom(ctx, current.RoomID, model.StatusCancelled)
		s.followRoom(ctx, roomID, model.StatusConfirmed)
	}

	event.Dispatch(ctx, s.publisher, event.New(event.BookingUpdated, model.EntityName, id, shared.Actor(ctx), nil))
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateBookingStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if booking.Status == req.Status {
		return nil
	}

	if err = model.StatusTransitions.Check(model.EntityName, booking.Status, req.Status); err != nil {
		return err
	}

	actor := shared.Actor(ctx)
	updatedFields := shared.TransformFields(struct {
		Status string `db:"status"`
	}{Status: req.Status}, actor)

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	s.followRoom(ctx, booking.RoomID, req.Status)

	event.Dispatch(ctx, s.publisher, event.New(event.BookingStatusChanged, model.EntityName, id, actor, event.StatusChange{
		From: booking.Status,
		To:   req.Status,
	}))
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) UpdatePaymentStatus(ctx context.Context, req dto.UpdatePaymentStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdatePaymentStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if booking.PaymentStatus == req.PaymentStatus {
		return nil
	}

	if err = model.PaymentStatusTransitions.Check(model.EntityName+" payment", booking.PaymentStatus, req.PaymentStatus); err != nil {
		return err
	}

	actor := shared.Actor(ctx)
	updatedFields := shared.TransformFields(struct {
		PaymentStatus string `db:"payment_status"`
	}{PaymentStatus: req.PaymentStatus}, actor)

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking payment status")

		return fmt.Errorf("failed to update booking payment status: %w", err)
	}

	event.Dispatch(ctx, s.publisher, event.New(event.BookingPaymentStatusChanged, model.EntityName, id, actor, event.StatusChange{
		From: booking.PaymentStatus,
		To:   req.PaymentStatus,
	}))
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	if booking.Status == model.StatusConfirmed {
		s.followRoom(ctx, booking.RoomID, model.StatusCancelled)
	}

	event.Dispatch(ctx, s.publisher, event.New(event.BookingDeleted, model.EntityName, id, shared.Actor(ctx), nil))
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Stats(ctx context.Context) (res dto.BookingStatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Stats")
	defer scope.End()
	defer scope.TraceIfError(err)

	today := timezone.Today()
	cacheKey := shared.BuildCacheKey(model.CacheStats, timezone.Format(today, constant.DateOnlyFormat))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	group, groupCtx := errgroup.WithContext(ctx)

	counts := map[string]*int{
		model.StatusPending:    &res.Pending,
		model.StatusConfirmed:  &res.Confirmed,
		model.StatusCheckedIn:  &res.CheckedIn,
		model.StatusCheckedOut: &res.CheckedOut,
		model.StatusCancelled:  &res.Cancelled,
	}

	for bookingStatus, target := range counts {
		group.Go(func() error {
			count, err := s.repo.Count(groupCtx, shared.FilterByField(model.FieldStatus, bookingStatus))
			*target = count

			return err
		})
	}

	group.Go(func() error {
		count, err := s.repo.Count(groupCtx, dayFilter(model.FieldCheckIn, today, model.ActiveStatuses))
		res.ArrivalsToday = count

		return err
	})

	group.Go(func() error {
		count, err := s.repo.Count(groupCtx, dayFilter(model.FieldCheckOut, today, []string{model.StatusCheckedIn, model.StatusCheckedOut}))
		res.DeparturesToday = count

		return err
	})

	group.Go(func() error {
		revenue, err := s.repo.Sum(groupCtx, model.FieldPaidAmount, gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorNotEq, Value: model.StatusCancelled, Table: model.TableName},
			},
		})
		res.Revenue = money.Round(revenue)

		return err
	})

	if err = group.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to compute booking stats")

		return res, fmt.Errorf("failed to compute booking stats: %w", err)
	}

	res.Total = res.Pending + res.Confirmed + res.CheckedIn + res.CheckedOut + res.Cancelled

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking stats to cache")
		}
	}()

	return res, nil
}

func dayFilter(field string, day time.Time, statuses []string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: field, ArgName: field + "_day", Operator: gDto.FilterOperatorEq, Value: day, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorIn, Value: statuses, Table: model.TableName},
		},
	}
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) findRoom(ctx context.Context, id string) (roomModel.Room, error) {
	room, err := s.roomRepo.Get(ctx, shared.FilterByID(id, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return room, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return room, failure.NotFound("room not found") //nolint:wrapcheck
	}

	return room, nil
}

// applyGuest copies the guest profile onto the booking, keeping contact
// details the request supplied explicitly.
func (s *serviceImpl) applyGuest(ctx context.Context, booking *model.Booking) error {
	guest, err := s.guestRepo.Get(ctx, shared.FilterByID(booking.GuestID, guestModel.FieldID, guestModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get guest")

		return fmt.Errorf("failed to get guest: %w", err)
	}

	if guest.ID == constant.Empty {
		return failure.NotFound("guest not found") //nolint:wrapcheck
	}

	booking.GuestName = guest.FullName

	if booking.GuestEmail == constant.Empty {
		booking.GuestEmail = guest.Email
	}

	if booking.GuestPhone == constant.Empty {
		booking.GuestPhone = guest.Phone
	}

	return nil
}

func (s *serviceImpl) ensureAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time, exceptID string) error {
	index, err := s.repo.Occupancy(ctx, checkIn, checkOut, roomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load room occupancy")

		return fmt.Errorf("failed to load room occupancy: %w", err)
	}

	free, err := index.Available(roomID, checkIn, checkOut, exceptID)
	if err != nil {
		return failure.BadRequest(err) //nolint:wrapcheck
	}

	if !free {
		return failure.Conflict(availability.ErrOverlap.Error()) //nolint:wrapcheck
	}

	return nil
}

// followRoom moves the room along with the booking. Failures are logged
// because the booking change itself has already been stored.
func (s *serviceImpl) followRoom(ctx context.Context, roomID, bookingStatus string) {
	target, ok := roomFollows[bookingStatus]
	if !ok {
		return
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil || room.ID == constant.Empty {
		log.Warn().Err(err).Str("room_id", roomID).Msg("room of booking not found, status left untouched")

		return
	}

	if !roomMoves.Allows(room.Status, target) {
		return
	}

	actor := shared.Actor(ctx)
	updatedFields := shared.TransformFields(struct {
		Status string `db:"status"`
	}{Status: target}, actor)

	if err = s.roomRepo.Update(ctx, updatedFields, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName)); err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to move room status with booking")

		return
	}

	event.Dispatch(ctx, s.publisher, event.New(event.RoomStatusChanged, roomModel.EntityName, roomID, actor, event.StatusChange{
		From: room.Status,
		To:   target,
	}))

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(roomModel.CacheGet, roomID)); err != nil {
			log.Error().Err(err).Msg("failed to delete room cache")
		}

		shared.InvalidateCaches(c, s.cache, roomModel.CacheGetAll)
		shared.InvalidateCaches(c, s.cache, roomModel.CacheCount)
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(model.CacheGet, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete booking cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, model.CacheGetAll)
		shared.InvalidateCaches(c, s.cache, model.CacheCount)
		shared.InvalidateCaches(c, s.cache, model.CacheStats)
	}()
}

// settledStatus is the payment status a booking with paid > 0 holds against total.
func settledStatus(total, paid decimal.Decimal) string {
	if paid.GreaterThanOrEqual(total) {
		return model.PaymentStatusPaid
	}

	return model.PaymentStatusPartial
}
