package service

import (
	"context"
	"fmt"

	"hotel/config"
	"hotel/infras/otel"
	bookingModel "hotel/internal/domains/booking/model"
	bookingRepository "hotel/internal/domains/booking/repository"
	"hotel/internal/domains/invoice/model"
	"hotel/internal/domains/invoice/model/dto"
	"hotel/internal/domains/invoice/repository"
	orderModel "hotel/internal/domains/order/model"
	orderRepository "hotel/internal/domains/order/repository"
	roomModel "hotel/internal/domains/room/model"
	roomRepository "hotel/internal/domains/room/repository"
	settingService "hotel/internal/domains/setting/service"
	"hotel/shared"
	"hotel/shared/availability"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/event"
	"hotel/shared/failure"
	"hotel/shared/money"
	"hotel/shared/timezone"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type Invoice interface {
	Generate(ctx context.Context, req dto.GenerateInvoiceRequest) (dto.InvoiceResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetInvoicesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.InvoiceResponse, error)
	Update(ctx context.Context, req dto.UpdateInvoiceRequest, id string) error
	UpdateStatus(ctx context.Context, req dto.UpdateInvoiceStatusRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Invoice
	bookingRepo bookingRepository.Booking
	roomRepo    roomRepository.Room
	orderRepo   orderRepository.Order
	settings    settingService.Setting
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	publisher   event.Publisher
}

func New(
	repo repository.Invoice,
	bookingRepo bookingRepository.Booking,
	roomRepo roomRepository.Room,
	orderRepo orderRepository.Order,
	settings settingService.Setting,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	publisher event.Publisher,
) Invoice {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		orderRepo:   orderRepo,
		settings:    settings,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		publisher:   publisher,
	}
}

func (s *serviceImpl) Generate(ctx context.Context, req dto.GenerateInvoiceRequest) (res dto.InvoiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Generate")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.findBooking(ctx, req.BookingID)
	if err != nil {
		return res, err
	}

	if booking.Status == bookingModel.StatusCancelled {
		return res, failure.Conflictf("booking %s is cancelled", booking.BookingNumber) //nolint:wrapcheck
	}

	open, err := s.repo.Exist(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldBookingID, Operator: gDto.FilterOperatorEq, Value: booking.ID, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorNotEq, Value: model.StatusCancelled, Table: model.TableName},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check invoices of booking")

		return res, fmt.Errorf("failed to check invoices of booking: %w", err)
	}

	if open {
		return res, failure.Conflictf("booking %s already has an invoice", booking.BookingNumber) //nolint:wrapcheck
	}

	dueDate := booking.CheckOut
	if req.DueDate != constant.Empty {
		if dueDate, err = timezone.ParseDate(req.DueDate); err != nil {
			return res, failure.BadRequest(err) //nolint:wrapcheck
		}
	}

	setting, err := s.settings.Current(ctx)
	if err != nil {
		return res, err
	}

	invoice := req.ToModel(shared.Actor(ctx), dueDate)
	invoice.GuestName = booking.GuestName
	invoice.TaxRate = setting.TaxRate

	if invoice.Items, err = s.lines(ctx, booking); err != nil {
		return res, err
	}

	invoice.Compute()

	if err = s.repo.Insert(ctx, invoice); err != nil {
		log.Error().Err(err).Msg("failed to insert invoice")

		return res, fmt.Errorf("failed to generate invoice: %w", err)
	}

	res.FromModel(invoice)
	s.invalidate(ctx, constant.Empty)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetInvoicesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheGetAll, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for invoices")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get invoices")

		return res, fmt.Errorf("failed to get invoices: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save invoices to cache")
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
		log.Error().Err(err).Msg("failed to count invoices")

		return res, fmt.Errorf("failed to count invoices: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save invoice count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.InvoiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(model.CacheGet, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	invoice, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(invoice)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save invoice to cache")
		}
	}()

	return res, nil
}

// Update edits a draft invoice and recomputes its totals.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateInvoiceRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return failure.BadRequestFromString("no invoice fields to update") //nolint:wrapcheck
	}

	invoice, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if invoice.Status != model.StatusDraft {
		return failure.Conflictf("invoice %s is %s, only drafts can be edited", invoice.InvoiceNumber, invoice.Status) //nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, shared.Actor(ctx))

	if req.DueDate != constant.Empty {
		dueDate, err := timezone.ParseDate(req.DueDate)
		if err != nil {
			return failure.BadRequest(err) //nolint:wrapcheck
		}

		updatedFields[model.FieldDueDate] = dueDate
	}

	if req.Discount != nil {
		invoice.Discount = *req.Discount
		invoice.Compute()

		updatedFields[model.FieldDiscount] = invoice.Discount
		updatedFields[model.FieldTotal] = invoice.Total
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update invoice")

		return fmt.Errorf("failed to update invoice: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateInvoiceStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	invoice, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if invoice.Status == req.Status {
		return nil
	}

	if err = model.StatusTransitions.Check(model.EntityName, invoice.Status, req.Status); err != nil {
		return err
	}

	actor := shared.Actor(ctx)
	updatedFields := shared.TransformFields(req, actor)
	updatedFields[model.FieldStatus] = req.Status

	if req.Status == model.StatusIssued {
		issuedAt := timezone.Now()
		updatedFields[model.FieldIssuedAt] = &issuedAt
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update invoice status")

		return fmt.Errorf("failed to update invoice status: %w", err)
	}

	eventType := event.InvoiceStatusChanged
	if req.Status == model.StatusIssued {
		eventType = event.InvoiceIssued
	}

	event.Dispatch(ctx, s.publisher, event.New(eventType, model.EntityName, id, actor, event.StatusChange{
		From: invoice.Status,
		To:   req.Status,
	}))
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	invoice, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if invoice.Status != model.StatusDraft && invoice.Status != model.StatusCancelled {
		return failure.Conflictf("invoice %s is %s, only drafts or cancelled invoices can be deleted", invoice.InvoiceNumber, invoice.Status) //nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete invoice")

		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Invoice, error) {
	invoice, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get invoice")

		return invoice, fmt.Errorf("failed to get invoice: %w", err)
	}

	if invoice.ID == constant.Empty {
		return invoice, failure.NotFound("invoice not found") //nolint:wrapcheck
	}

	return invoice, nil
}

func (s *serviceImpl) findBooking(ctx context.Context, id string) (bookingModel.Booking, error) {
	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(id, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	return booking, nil
}

// lines bills the stay at the booking total, the amount payments settle against,
// plus every open room-charge cafe order.
func (s *serviceImpl) lines(ctx context.Context, booking bookingModel.Booking) ([]model.Line, error) {
	nights := availability.Nights(booking.CheckIn, booking.CheckOut)

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(booking.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	description := fmt.Sprintf("Room %s, %d night(s)", booking.RoomNumber, nights)
	if room.ID != constant.Empty {
		description = fmt.Sprintf("Room %s (%s), %d night(s)", booking.RoomNumber, room.Type, nights)
	}

	stay := model.Line{
		Description: description,
		Quantity:    1,
		UnitPrice:   booking.TotalAmount,
		Amount:      booking.TotalAmount,
	}

	if nights > 0 {
		stay.Quantity = nights
		stay.UnitPrice = money.Round(booking.TotalAmount.Div(decimal.NewFromInt(int64(nights))))
	}

	lines := []model.Line{stay}

	orders, err := s.orderRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: orderModel.FieldBookingID, Operator: gDto.FilterOperatorEq, Value: booking.ID, Table: orderModel.TableName},
			gDto.Filter{Field: orderModel.FieldPaymentMethod, Operator: gDto.FilterOperatorEq, Value: orderModel.MethodRoomCharge, Table: orderModel.TableName},
			gDto.Filter{Field: orderModel.FieldPaymentStatus, Operator: gDto.FilterOperatorEq, Value: orderModel.PaymentStatusPending, Table: orderModel.TableName},
			gDto.Filter{Field: orderModel.FieldStatus, Operator: gDto.FilterOperatorNotEq, Value: orderModel.StatusCancelled, Table: orderModel.TableName},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get room-charge orders")

		return nil, fmt.Errorf("failed to get room-charge orders: %w", err)
	}

	for _, order := range orders {
		lines = append(lines, model.Line{
			Description: "Cafe order " + order.OrderNumber,
			Quantity:    1,
			UnitPrice:   order.Subtotal,
			Amount:      order.Subtotal,
		})
	}

	return lines, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(model.CacheGet, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete invoice cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, model.CacheGetAll)
		shared.InvalidateCaches(c, s.cache, model.CacheCount)
	}()
}
