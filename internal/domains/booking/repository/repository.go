package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/booking/model"
	"hotel/shared/availability"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gRepo "hotel/shared/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Sum(ctx context.Context, column string, filter gDto.FilterGroup) (decimal.Decimal, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	Overlapping(ctx context.Context, from, to time.Time, roomIDs ...string) ([]model.Booking, error)
	Occupancy(ctx context.Context, from, to time.Time, roomIDs ...string) (*availability.Index, error)
}

type repositoryImpl struct {
	gRepo.Store[model.Booking]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Store: gRepo.New[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:  otel,
	}
}

// OverlapFilter matches active bookings whose stay shares at least one night with [from, to).
func OverlapFilter(from, to time.Time, roomIDs ...string) gDto.FilterGroup {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldCheckIn, ArgName: "overlap_to", Operator: gDto.FilterOperatorLess, Value: to, Table: model.TableName},
			gDto.Filter{Field: model.FieldCheckOut, ArgName: "overlap_from", Operator: gDto.FilterOperatorGreater, Value: from, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, ArgName: "overlap_status", Operator: gDto.FilterOperatorIn, Value: model.ActiveStatuses, Table: model.TableName},
		},
	}

	if len(roomIDs) > 0 {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldRoomID,
			ArgName:  "overlap_room",
			Operator: gDto.FilterOperatorIn,
			Value:    roomIDs,
			Table:    model.TableName,
		})
	}

	return filter
}

func (r *repositoryImpl) Overlapping(ctx context.Context, from, to time.Time, roomIDs ...string) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Overlapping")
	defer scope.End()

	bookings, err := r.GetAll(ctx, gDto.QueryParams{}, OverlapFilter(from, to, roomIDs...))
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get overlapping bookings: %w", err)
	}

	return bookings, nil
}

// Occupancy loads every active stay touching [from, to) into a fresh availability
// index, optionally limited to roomIDs.
func (r *repositoryImpl) Occupancy(ctx context.Context, from, to time.Time, roomIDs ...string) (*availability.Index, error) {
	bookings, err := r.Overlapping(ctx, from, to, roomIDs...)
	if err != nil {
		return nil, err
	}

	index := availability.NewIndex()

	for _, booking := range bookings {
		if err := index.Reserve(booking.RoomID, booking.ID, booking.CheckIn, booking.CheckOut); err != nil {
			log.Warn().Err(err).Str("booking_number", booking.BookingNumber).Msg("skipping booking in occupancy index")
		}
	}

	return index, nil
}
