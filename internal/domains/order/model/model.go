package model

import (
	"hotel/shared/model"
	"hotel/shared/status"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "orders"
	EntityName = "order"

	FieldID            = "id"
	FieldOrderNumber   = "order_number"
	FieldOrderType     = "order_type"
	FieldTableID       = "table_id"
	FieldRoomNumber    = "room_number"
	FieldBookingID     = "booking_id"
	FieldGuestName     = "guest_name"
	FieldItems         = "items"
	FieldSubtotal      = "subtotal"
	FieldTax           = "tax"
	FieldTotal         = "total"
	FieldStatus        = "status"
	FieldPaymentStatus = "payment_status"
	FieldPaymentMethod = "payment_method"
	FieldNotes         = "notes"

	NumberPrefix = "OD"
)

// Cache prefixes are exported so payments, which settle orders, can invalidate them.
const (
	CacheGet    = "order:get"
	CacheGetAll = "order:gets"
	CacheCount  = "order:count"
)

const (
	TypeDineIn      = "dine-in"
	TypeRoomService = "room-service"
	TypeTakeaway    = "takeaway"
)

const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusServed    = "served"
	StatusCancelled = "cancelled"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

const (
	MethodCash       = "cash"
	MethodCard       = "card"
	MethodUPI        = "upi"
	MethodRoomCharge = "room-charge"
)

// ActiveStatuses are orders still being worked on by the kitchen.
var ActiveStatuses = []string{StatusPending, StatusPreparing, StatusReady}

var StatusTransitions = status.Transitions{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusServed},
}

var PaymentStatusTransitions = status.Transitions{
	PaymentStatusPending: {PaymentStatusPaid},
	PaymentStatusPaid:    {PaymentStatusRefunded},
}

type Item struct {
	FoodItemID string          `json:"food_item_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Notes      string          `json:"notes,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}

type Order struct {
	ID            string               `db:"id"`
	OrderNumber   string               `db:"order_number"`
	OrderType     string               `db:"order_type"`
	TableID       string               `db:"table_id"`
	RoomNumber    string               `db:"room_number"`
	BookingID     string               `db:"booking_id"`
	GuestName     string               `db:"guest_name"`
	Items         model.JSONList[Item] `db:"items"`
	Subtotal      decimal.Decimal      `db:"subtotal"`
	Tax           decimal.Decimal      `db:"tax"`
	Total         decimal.Decimal      `db:"total"`
	Status        string               `db:"status"`
	PaymentStatus string               `db:"payment_status"`
	PaymentMethod string               `db:"payment_method"`
	Notes         string               `db:"notes"`
	model.Metadata
}

// Closed orders no longer hold their table.
func (o Order) Closed() bool {
	return o.Status == StatusServed || o.Status == StatusCancelled
}
