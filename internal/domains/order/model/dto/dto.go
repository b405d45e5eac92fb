package dto

import (
	"hotel/internal/domains/order/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderItemRequest struct {
	FoodItemID string `json:"food_item_id" validate:"required,max=36"`
	Quantity   int    `json:"quantity"     validate:"required,min=1,max=50"`
	Notes      string `json:"notes"        validate:"omitempty,max=200"`
}

type CreateOrderRequest struct {
	OrderType     string             `json:"order_type"     validate:"required,oneof=dine-in room-service takeaway"`
	TableID       string             `json:"table_id"       validate:"required_if=OrderType dine-in,max=36"`
	BookingID     string             `json:"booking_id"     validate:"required_if=OrderType room-service,max=36"`
	GuestName     string             `json:"guest_name"     validate:"omitempty,max=100"`
	Items         []OrderItemRequest `json:"items"          validate:"required,min=1,max=50,dive"`
	PaymentMethod string             `json:"payment_method" validate:"omitempty,oneof=cash card upi room-charge"`
	Notes         string             `json:"notes"          validate:"omitempty,max=500"`
}

// ToModel fills what the request alone decides. Lines, amounts, table and
// room details are resolved by the service.
func (c *CreateOrderRequest) ToModel(user string) model.Order {
	now := timezone.Now()

	paymentMethod := c.PaymentMethod
	if paymentMethod == constant.Empty {
		paymentMethod = model.MethodCash

		if c.OrderType == model.TypeRoomService {
			paymentMethod = model.MethodRoomCharge
		}
	}

	order := model.Order{
		ID:            uuid.NewString(),
		OrderNumber:   shared.GenerateReference(model.NumberPrefix, now),
		OrderType:     c.OrderType,
		GuestName:     c.GuestName,
		Status:        model.StatusPending,
		PaymentStatus: model.PaymentStatusPending,
		PaymentMethod: paymentMethod,
		Notes:         c.Notes,
		Metadata:      gModel.NewMetadata(now, user),
	}

	switch c.OrderType {
	case model.TypeDineIn:
		order.TableID = c.TableID
	case model.TypeRoomService:
		order.BookingID = c.BookingID
	}

	return order
}

type UpdateOrderRequest struct {
	PaymentMethod string `db:"payment_method" json:"payment_method" validate:"omitempty,oneof=cash card upi room-charge"`
	Notes         string `db:"notes"          json:"notes"          validate:"omitempty,max=500"`
}

func (u *UpdateOrderRequest) IsEmpty() bool {
	return *u == UpdateOrderRequest{}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending preparing ready served cancelled"`
}

type UpdateOrderPaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending paid refunded"`
}

// OrderQuery holds the list filters accepted by GET /orders.
type OrderQuery struct {
	Search        string
	Status        string
	PaymentStatus string
	OrderType     string
	TableID       string
	BookingID     string
}

// Filter builds the filter group. Search matches order number or guest name.
func (q OrderQuery) Filter() gDto.FilterGroup {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if q.Search != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Search(model.TableName, q.Search, model.FieldOrderNumber, model.FieldGuestName))
	}

	for _, pair := range [][2]string{
		{model.FieldStatus, q.Status},
		{model.FieldPaymentStatus, q.PaymentStatus},
		{model.FieldOrderType, q.OrderType},
		{model.FieldTableID, q.TableID},
		{model.FieldBookingID, q.BookingID},
	} {
		if pair[1] != constant.Empty {
			filter.Filters = append(filter.Filters, gDto.Filter{Field: pair[0], Operator: gDto.FilterOperatorEq, Value: pair[1], Table: model.TableName})
		}
	}

	return filter
}

type OrderItemResponse struct {
	FoodItemID string          `json:"food_item_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Notes      string          `json:"notes"`
	Amount     decimal.Decimal `json:"amount"`
}

type OrderResponse struct {
	ID            string              `json:"id"`
	OrderNumber   string              `json:"order_number"`
	OrderType     string              `json:"order_type"`
	TableID       string              `json:"table_id"`
	RoomNumber    string              `json:"room_number"`
	BookingID     string              `json:"booking_id"`
	GuestName     string              `json:"guest_name"`
	Items         []OrderItemResponse `json:"items"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	Tax           decimal.Decimal     `json:"tax"`
	Total         decimal.Decimal     `json:"total"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status"`
	PaymentMethod string              `json:"payment_method"`
	Notes         string              `json:"notes"`
	gDto.Metadata
}

func (r *OrderResponse) FromModel(model model.Order) {
	r.ID = model.ID
	r.OrderNumber = model.OrderNumber
	r.OrderType = model.OrderType
	r.TableID = model.TableID
	r.RoomNumber = model.RoomNumber
	r.BookingID = model.BookingID
	r.GuestName = model.GuestName
	r.Subtotal = model.Subtotal
	r.Tax = model.Tax
	r.Total = model.Total
	r.Status = model.Status
	r.PaymentStatus = model.PaymentStatus
	r.PaymentMethod = model.PaymentMethod
	r.Notes = model.Notes
	r.Metadata.FromModel(model.Metadata)

	r.Items = make([]OrderItemResponse, len(model.Items))
	for i, item := range model.Items {
		r.Items[i] = OrderItemResponse(item)
	}
}

type GetOrdersResponse struct {
	Orders    []OrderResponse `json:"orders"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetOrdersResponse) FromModels(models []model.Order, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Orders = make([]OrderResponse, len(models))
	for i, mod := range models {
		r.Orders[i].FromModel(mod)
	}
}
