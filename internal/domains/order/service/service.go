package service

import (
	"context"
	"fmt"
	"sync"

	"hotel/config"
	"hotel/infras/otel"
	bookingModel "hotel/internal/domains/booking/model"
	bookingRepository "hotel/internal/domains/booking/repository"
	foodModel "hotel/internal/domains/fooditem/model"
	foodRepository "hotel/internal/domains/fooditem/repository"
	"hotel/internal/domains/order/model"
	"hotel/internal/domains/order/model/dto"
	"hotel/internal/domains/order/repository"
	settingService "hotel/internal/domains/setting/service"
	tableModel "hotel/internal/domains/table/model"
	tableRepository "hotel/internal/domains/table/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/event"
	"hotel/shared/failure"
	"hotel/shared/money"

	"github.com/rs/zerolog/log"
)

type Order interface {
	Create(ctx context.Context, req dto.CreateOrderRequest) (dto.OrderResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetOrdersResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.OrderResponse, error)
	Update(ctx context.Context, req dto.UpdateOrderRequest, id string) error
	UpdateStatus(ctx context.Context, req dto.UpdateOrderStatusRequest, id string) error
	UpdatePaymentStatus(ctx context.Context, req dto.UpdateOrderPaymentStatusRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Order
	foodRepo    foodRepository.FoodItem
	tableRepo   tableRepository.Table
	bookingRepo bookingRepository.Booking
	settings    settingService.Setting
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	publisher   event.Publisher

	// seating serialises the table check with the order that occupies it.
	seating sync.Mutex
}

func New(
	repo repository.Order,
	foodRepo foodRepository.FoodItem,
	tableRepo tableRepository.Table,
	bookingRepo bookingRepository.Booking,
	settings settingService.Setting,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	publisher event.Publisher,
) Order {
	return &serviceImpl{
		repo:        repo,
		foodRepo:    foodRepo,
		tableRepo:   tableRepo,
		bookingRepo: bookingRepo,
		settings:    settings,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		publisher:   publisher,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateOrderRequest) (res dto.OrderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor := shared.Actor(ctx)
	order := req.ToModel(actor)

	if order.Items, err = s.lines(ctx, req.Items); err != nil {
		return res, err
	}

	setting, err := s.settings.Current(ctx)
	if err != nil {
		return res, err
	}

	for _, item := range order.Items {
		order.Subtotal = order.Subtotal.Add(item.Amount)
	}

	order.Tax = money.Percent(order.Subtotal, setting.TaxRate)
	order.Total = money.Round(order.Subtotal.Add(order.Tax))

	if order.OrderType == model.TypeRoomService {
		if err = s.applyBooking(ctx, &order); err != nil {
			return res, err
		}
	}

	s.seating.Lock()
	defer s.seating.Unlock()

	var table tableModel.Table

	if order.OrderType == model.TypeDineIn {
		if table, err = s.findTable(ctx, order.TableID); err != nil {
			return res, err
		}

		if table.Status == tableModel.StatusCleaning {
			return res, failure.Conflictf("table %s is being cleaned", table.Number) //nolint:wrapcheck
		}
	}

	if err = s.repo.Insert(ctx, order); err != nil {
		log.Error().Err(err).Msg("failed to insert order")

		return res, fmt.Errorf("failed to create order: %w", err)
	}

	if table.ID != constant.Empty {
		s.moveTable(ctx, table, tableModel.StatusOccupied)
	}

	res.FromModel(order)

	event.Dispatch(ctx, s.publisher, event.New(event.OrderCreated, model.EntityName, order.ID, actor, res))
	s.invalidate(ctx, constant.Empty)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetOrdersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheGetAll, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for orders")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get orders")

		return res, fmt.Errorf("failed to get orders: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save orders to cache")
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
		log.Error().Err(err).Msg("failed to count orders")

		return res, fmt.Errorf("failed to count orders: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save order count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.OrderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(model.CacheGet, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	order, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(order)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save order to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateOrderRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return failure.BadRequestFromString("no order fields to update") //nolint:wrapcheck
	}

	if _, err = s.find(ctx, id); err != nil {
		return err
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, shared.Actor(ctx)), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update order")

		return fmt.Errorf("failed to update order: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateOrderStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	order, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if order.Status == req.Status {
		return nil
	}

	if err = model.StatusTransitions.Check(model.EntityName, order.Status, req.Status); err != nil {
		return err
	}

	actor := shared.Actor(ctx)
	updatedFields := shared.TransformFields(req, actor)
	updatedFields[model.FieldStatus] = req.Status

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update order status")

		return fmt.Errorf("failed to update order status: %w", err)
	}

	from := order.Status

	order.Status = req.Status
	if order.Closed() && order.TableID != constant.Empty {
		s.releaseTable(ctx, order.TableID, order.ID)
	}

	event.Dispatch(ctx, s.publisher, event.New(event.OrderStatusChanged, model.EntityName, id, actor, event.StatusChange{
		From: from,
		To:   req.Status,
	}))
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) UpdatePaymentStatus(ctx context.Context, req dto.UpdateOrderPaymentStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdatePaymentStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	order, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if order.PaymentStatus == req.PaymentStatus {
		return nil
	}

	if err = model.PaymentStatusTransitions.Check(model.EntityName+" payment", order.PaymentStatus, req.PaymentStatus); err != nil {
		return err
	}

	actor := shared.Actor(ctx)
	updatedFields := shared.TransformFields(req, actor)
	updatedFields[model.FieldPaymentStatus] = req.PaymentStatus

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update order payment status")

		return fmt.Errorf("failed to update order payment status: %w", err)
	}

	event.Dispatch(ctx, s.publisher, event.New(event.OrderPaymentStatusChanged, model.EntityName, id, actor, event.StatusChange{
		From: order.PaymentStatus,
		To:   req.PaymentStatus,
	}))
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	order, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete order")

		return fmt.Errorf("failed to delete order: %w", err)
	}

	if !order.Closed() && order.TableID != constant.Empty {
		s.releaseTable(ctx, order.TableID, order.ID)
	}

	event.Dispatch(ctx, s.publisher, event.New(event.OrderDeleted, model.EntityName, id, shared.Actor(ctx), nil))
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Order, error) {
	order, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get order")

		return order, fmt.Errorf("failed to get order: %w", err)
	}

	if order.ID == constant.Empty {
		return order, failure.NotFound("order not found") //nolint:wrapcheck
	}

	return order, nil
}

// lines prices every requested item from the menu.
func (s *serviceImpl) lines(ctx context.Context, items []dto.OrderItemRequest) ([]model.Item, error) {
	if len(items) == 0 {
		return nil, failure.BadRequestFromString("an order needs at least one item") //nolint:wrapcheck
	}

	lines := make([]model.Item, 0, len(items))

	for _, item := range items {
		food, err := s.foodRepo.Get(ctx, shared.FilterByID(item.FoodItemID, foodModel.FieldID, foodModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get food item")

			return nil, fmt.Errorf("failed to get food item: %w", err)
		}

		if food.ID == constant.Empty {
			return nil, failure.NotFoundf("food item %s not found", item.FoodItemID) //nolint:wrapcheck
		}

		if !food.Available {
			return nil, failure.Conflictf("%s is not available", food.Name) //nolint:wrapcheck
		}

		lines = append(lines, model.Item{
			FoodItemID: food.ID,
			Name:       food.Name,
			Quantity:   item.Quantity,
			UnitPrice:  food.Price,
			Notes:      item.Notes,
			Amount:     money.Line(food.Price, item.Quantity),
		})
	}

	return lines, nil
}

// applyBooking bills a room-service order to a guest currently in house.
func (s *serviceImpl) applyBooking(ctx context.Context, order *model.Order) error {
	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(order.BookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found") //nolint:wrapcheck
	}

	if booking.Status != bookingModel.StatusCheckedIn {
		return failure.Conflictf("booking %s is not checked in", booking.BookingNumber) //nolint:wrapcheck
	}

	order.RoomNumber = booking.RoomNumber

	if order.GuestName == constant.Empty {
		order.GuestName = booking.GuestName
	}

	return nil
}

func (s *serviceImpl) findTable(ctx context.Context, id string) (tableModel.Table, error) {
	table, err := s.tableRepo.Get(ctx, shared.FilterByID(id, tableModel.FieldID, tableModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get table")

		return table, fmt.Errorf("failed to get table: %w", err)
	}

	if table.ID == constant.Empty {
		return table, failure.NotFound("table not found") //nolint:wrapcheck
	}

	return table, nil
}

// releaseTable frees the table once no other open order sits at it.
func (s *serviceImpl) releaseTable(ctx context.Context, tableID, orderID string) {
	s.seating.Lock()
	defer s.seating.Unlock()

	open, err := s.repo.Exist(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldTableID, Operator: gDto.FilterOperatorEq, Value: tableID, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorIn, Value: model.ActiveStatuses, Table: model.TableName},
			gDto.Filter{Field: model.FieldID, Operator: gDto.FilterOperatorNotEq, Value: orderID, Table: model.TableName},
		},
	})
	if err != nil {
		log.Error().Err(err).Str("table_id", tableID).Msg("failed to check open orders of table")

		return
	}

	if open {
		return
	}

	table, err := s.tableRepo.Get(ctx, shared.FilterByID(tableID, tableModel.FieldID, tableModel.TableName))
	if err != nil || table.ID == constant.Empty {
		log.Warn().Err(err).Str("table_id", tableID).Msg("table of order not found, status left untouched")

		return
	}

	if table.Status == tableModel.StatusOccupied {
		s.moveTable(ctx, table, tableModel.StatusAvailable)
	}
}

// moveTable sets the table status. Failures are logged because the order
// change itself has already been stored.
func (s *serviceImpl) moveTable(ctx context.Context, table tableModel.Table, target string) {
	if table.Status == target {
		return
	}

	actor := shared.Actor(ctx)
	updatedFields := shared.TransformFields(struct {
		Status string `db:"status"`
	}{Status: target}, actor)

	if err := s.tableRepo.Update(ctx, updatedFields, shared.FilterByID(table.ID, tableModel.FieldID, tableModel.TableName)); err != nil {
		log.Error().Err(err).Str("table_id", table.ID).Msg("failed to move table status with order")

		return
	}

	event.Dispatch(ctx, s.publisher, event.New(event.TableStatusChanged, tableModel.EntityName, table.ID, actor, event.StatusChange{
		From: table.Status,
		To:   target,
	}))

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(tableModel.CacheGet, table.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete table cache")
		}

		shared.InvalidateCaches(c, s.cache, tableModel.CacheGetAll)
		shared.InvalidateCaches(c, s.cache, tableModel.CacheCount)
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(model.CacheGet, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete order cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, model.CacheGetAll)
		shared.InvalidateCaches(c, s.cache, model.CacheCount)
	}()
}
