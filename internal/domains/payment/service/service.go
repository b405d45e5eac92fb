package service

import (
	"context"
	"fmt"
	"sync"

	"hotel/config"
	"hotel/infras/otel"
	bookingModel "hotel/internal/domains/booking/model"
	bookingRepository "hotel/internal/domains/booking/repository"
	orderModel "hotel/internal/domains/order/model"
	orderRepository "hotel/internal/domains/order/repository"
	"hotel/internal/domains/payment/model"
	"hotel/internal/domains/payment/model/dto"
	"hotel/internal/domains/payment/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/event"
	"hotel/shared/failure"
	"hotel/shared/money"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type Payment interface {
	Create(ctx context.Context, req dto.CreatePaymentRequest) (dto.PaymentResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPaymentsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.PaymentResponse, error)
	Update(ctx context.Context, req dto.UpdatePaymentRequest, id string) error
	Refund(ctx context.Context, id string) (dto.PaymentResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Payment
	bookingRepo bookingRepository.Booking
	orderRepo   orderRepository.Order
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	publisher   event.Publisher

	// settle serialises the balance check with the write that follows it.
	settle sync.Mutex
}

func New(
	repo repository.Payment,
	bookingRepo bookingRepository.Booking,
	orderRepo orderRepository.Order,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	publisher event.Publisher,
) Payment {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		orderRepo:   orderRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		publisher:   publisher,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreatePaymentRequest) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if (req.BookingID == constant.Empty) == (req.OrderID == constant.Empty) {
		return res, failure.BadRequestFromString("a payment needs exactly one of booking_id or order_id") //nolint:wrapcheck
	}

	actor := shared.Actor(ctx)

	payment, err := req.ToModel(actor)
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	s.settle.Lock()
	defer s.settle.Unlock()

	var apply func() error

	if payment.BookingID != constant.Empty {
		apply, err = s.chargeBooking(ctx, &payment)
	} else {
		apply, err = s.chargeOrder(ctx, &payment)
	}

	if err != nil {
		return res, err
	}

	if err = s.repo.Insert(ctx, payment); err != nil {
		log.Error().Err(err).Msg("failed to insert payment")

		return res, fmt.Errorf("failed to record payment: %w", err)
	}

	if payment.Status == model.StatusCompleted {
		if err = apply(); err != nil {
			if err := s.repo.Delete(ctx, shared.FilterByID(payment.ID, model.FieldID, model.TableName)); err != nil {
				log.Error().Err(err).Str("reference", payment.Reference).Msg("failed to roll back payment")
			}

			return res, err
		}
	}

	res.FromModel(payment)

	event.Dispatch(ctx, s.publisher, event.New(event.PaymentRecorded, model.EntityName, payment.ID, actor, res))
	s.invalidate(ctx, constant.Empty)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPaymentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheGetAll, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for payments")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payments")

		return res, fmt.Errorf("failed to get payments: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save payments to cache")
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
		log.Error().Err(err).Msg("failed to count payments")

		return res, fmt.Errorf("failed to count payments: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save payment count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(model.CacheGet, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	payment, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(payment)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save payment to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdatePaymentRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return failure.BadRequestFromString("no payment fields to update") //nolint:wrapcheck
	}

	if _, err = s.find(ctx, id); err != nil {
		return err
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, shared.Actor(ctx)), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update payment")

		return fmt.Errorf("failed to update payment: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// Refund returns a completed payment and takes it back off the booking or order it settled.
func (s *serviceImpl) Refund(ctx context.Context, id string) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Refund")
	defer scope.End()
	defer scope.TraceIfError(err)

	s.settle.Lock()
	defer s.settle.Unlock()

	payment, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if err = model.StatusTransitions.Check(model.EntityName, payment.Status, model.StatusRefunded); err != nil {
		return res, err
	}

	actor := shared.Actor(ctx)
	updatedFields := shared.TransformFields(dto.UpdatePaymentRequest{}, actor)
	updatedFields[model.FieldStatus] = model.StatusRefunded

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to refund payment")

		return res, fmt.Errorf("failed to refund payment: %w", err)
	}

	if payment.BookingID != constant.Empty {
		s.refundBooking(ctx, payment)
	} else {
		s.refundOrder(ctx, payment)
	}

	payment.Status = model.StatusRefunded
	res.FromModel(payment)

	event.Dispatch(ctx, s.publisher, event.New(event.PaymentRefunded, model.EntityName, id, actor, res))
	s.invalidate(ctx, id)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	payment, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if payment.Status != model.StatusFailed {
		return failure.Conflictf("only failed payments can be deleted, %s is %s", payment.Reference, payment.Status) //nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete payment")

		return fmt.Errorf("failed to delete payment: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Payment, error) {
	payment, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return payment, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		return payment, failure.NotFound("payment not found") //nolint:wrapcheck
	}

	return payment, nil
}

// chargeBooking checks the payment fits the booking balance and returns the
// write that adds it to paid_amount.
func (s *serviceImpl) chargeBooking(ctx context.Context, payment *model.Payment) (func() error, error) {
	booking, err := s.findBooking(ctx, payment.BookingID)
	if err != nil {
		return nil, err
	}

	if payment.GuestName == constant.Empty {
		payment.GuestName = booking.GuestName
	}

	if payment.Status != model.StatusCompleted {
		return nil, nil //nolint:nilnil
	}

	if booking.Status == bookingModel.StatusCancelled {
		return nil, failure.Conflictf("booking %s is cancelled", booking.BookingNumber) //nolint:wrapcheck
	}

	if payment.Amount.GreaterThan(booking.Balance()) {
		return nil, failure.Conflictf("payment of %s exceeds the outstanding balance of %s", payment.Amount, booking.Balance()) //nolint:wrapcheck
	}

	paid := money.Round(booking.PaidAmount.Add(payment.Amount))

	paymentStatus := bookingModel.PaymentStatusPartial
	if paid.Equal(booking.TotalAmount) {
		paymentStatus = bookingModel.PaymentStatusPaid
	}

	return func() error {
		return s.settleBooking(ctx, booking, paid, paymentStatus)
	}, nil
}

// chargeOrder checks the payment settles the whole order and returns the write
// that marks it paid.
func (s *serviceImpl) chargeOrder(ctx context.Context, payment *model.Payment) (func() error, error) {
	order, err := s.findOrder(ctx, payment.OrderID)
	if err != nil {
		return nil, err
	}

	if payment.GuestName == constant.Empty {
		payment.GuestName = order.GuestName
	}

	if payment.Status != model.StatusCompleted {
		return nil, nil //nolint:nilnil
	}

	if order.Status == orderModel.StatusCancelled {
		return nil, failure.Conflictf("order %s is cancelled", order.OrderNumber) //nolint:wrapcheck
	}

	if err = orderModel.PaymentStatusTransitions.Check(orderModel.EntityName+" payment", order.PaymentStatus, orderModel.PaymentStatusPaid); err != nil {
		return nil, err
	}

	if !payment.Amount.Equal(order.Total) {
		return nil, failure.BadRequestf("amount must equal the order total of %s", order.Total) //nolint:wrapcheck
	}

	return func() error {
		return s.settleOrder(ctx, order, orderModel.PaymentStatusPaid)
	}, nil
}

func (s *serviceImpl) refundBooking(ctx context.Context, payment model.Payment) {
	booking, err := s.findBooking(ctx, payment.BookingID)
	if err != nil {
		log.Warn().Err(err).Str("booking_id", payment.BookingID).Msg("booking of refunded payment not found")

		return
	}

	paid := money.NonNegative(money.Round(booking.PaidAmount.Sub(payment.Amount)))

	paymentStatus := bookingModel.PaymentStatusPartial
	if paid.IsZero() {
		paymentStatus = bookingModel.PaymentStatusRefunded
	}

	if err = s.settleBooking(ctx, booking, paid, paymentStatus); err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to take refund off booking")
	}
}

func (s *serviceImpl) refundOrder(ctx context.Context, payment model.Payment) {
	order, err := s.findOrder(ctx, payment.OrderID)
	if err != nil {
		log.Warn().Err(err).Str("order_id", payment.OrderID).Msg("order of refunded payment not found")

		return
	}

	if !orderModel.PaymentStatusTransitions.Allows(order.PaymentStatus, orderModel.PaymentStatusRefunded) {
		return
	}

	if err = s.settleOrder(ctx, order, orderModel.PaymentStatusRefunded); err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("failed to refund order")
	}
}

func (s *serviceImpl) settleBooking(ctx context.Context, booking bookingModel.Booking, paid decimal.Decimal, paymentStatus string) error {
	actor := shared.Actor(ctx)
	updatedFields := shared.TransformFields(dto.UpdatePaymentRequest{}, actor)
	updatedFields[bookingModel.FieldPaidAmount] = paid
	updatedFields[bookingModel.FieldPaymentStatus] = paymentStatus

	if err := s.bookingRepo.Update(ctx, updatedFields, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking balance")

		return fmt.Errorf("failed to update booking balance: %w", err)
	}

	if booking.PaymentStatus != paymentStatus {
		event.Dispatch(ctx, s.publisher, event.New(event.BookingPaymentStatusChanged, bookingModel.EntityName, booking.ID, actor, event.StatusChange{
			From: booking.PaymentStatus,
			To:   paymentStatus,
		}))
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(bookingModel.CacheGet, booking.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking cache")
		}

		shared.InvalidateCaches(c, s.cache, bookingModel.CacheGetAll)
		shared.InvalidateCaches(c, s.cache, bookingModel.CacheCount)
		shared.InvalidateCaches(c, s.cache, bookingModel.CacheStats)
	}()

	return nil
}

func (s *serviceImpl) settleOrder(ctx context.Context, order orderModel.Order, paymentStatus string) error {
	actor := shared.Actor(ctx)
	updatedFields := shared.TransformFields(dto.UpdatePaymentRequest{}, actor)
	updatedFields[orderModel.FieldPaymentStatus] = paymentStatus

	if err := s.orderRepo.Update(ctx, updatedFields, shared.FilterByID(order.ID, orderModel.FieldID, orderModel.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update order payment status")

		return fmt.Errorf("failed to update order payment status: %w", err)
	}

	event.Dispatch(ctx, s.publisher, event.New(event.OrderPaymentStatusChanged, orderModel.EntityName, order.ID, actor, event.StatusChange{
		From: order.PaymentStatus,
		To:   paymentStatus,
	}))

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(orderModel.CacheGet, order.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete order cache")
		}

		shared.InvalidateCaches(c, s.cache, orderModel.CacheGetAll)
		shared.InvalidateCaches(c, s.cache, orderModel.CacheCount)
	}()

	return nil
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

func (s *serviceImpl) findOrder(ctx context.Context, id string) (orderModel.Order, error) {
	order, err := s.orderRepo.Get(ctx, shared.FilterByID(id, orderModel.FieldID, orderModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get order")

		return order, fmt.Errorf("failed to get order: %w", err)
	}

	if order.ID == constant.Empty {
		return order, failure.NotFound("order not found") //nolint:wrapcheck
	}

	return order, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(model.CacheGet, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete payment cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, model.CacheGetAll)
		shared.InvalidateCaches(c, s.cache, model.CacheCount)
	}()
}
