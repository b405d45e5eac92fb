package model

import (
	"time"

	"hotel/shared/model"
	"hotel/shared/status"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldBookingNumber   = "booking_number"
	FieldGuestID         = "guest_id"
	FieldGuestName       = "guest_name"
	FieldGuestEmail      = "guest_email"
	FieldGuestPhone      = "guest_phone"
	FieldRoomID          = "room_id"
	FieldRoomNumber      = "room_number"
	FieldCheckIn         = "check_in"
	FieldCheckOut        = "check_out"
	FieldAdults          = "adults"
	FieldChildren        = "children"
	FieldTotalAmount     = "total_amount"
	FieldPaidAmount      = "paid_amount"
	FieldStatus          = "status"
	FieldPaymentStatus   = "payment_status"
	FieldSource          = "source"
	FieldSpecialRequests = "special_requests"

	NumberPrefix = "BK"
)

// Cache prefixes are exported so payments, which move paid_amount, can invalidate them.
const (
	CacheGet    = "booking:get"
	CacheGetAll = "booking:gets"
	CacheCount  = "booking:count"
	CacheStats  = "booking:stats"
)

const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusCheckedIn  = "checked-in"
	StatusCheckedOut = "checked-out"
	StatusCancelled  = "cancelled"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPartial  = "partial"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

const (
	SourceWalkIn  = "walk-in"
	SourcePhone   = "phone"
	SourceWebsite = "website"
	SourceOTA     = "ota"
)

// ActiveStatuses hold a room for their nights.
var ActiveStatuses = []string{StatusPending, StatusConfirmed, StatusCheckedIn}

var StatusTransitions = status.Transitions{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn: {StatusCheckedOut},
}

var PaymentStatusTransitions = status.Transitions{
	PaymentStatusPending: {PaymentStatusPartial, PaymentStatusPaid},
	PaymentStatusPartial: {PaymentStatusPaid, PaymentStatusRefunded},
	PaymentStatusPaid:    {PaymentStatusRefunded},
}

type Booking struct {
	ID              string          `db:"id"`
	BookingNumber   string          `db:"booking_number"`
	GuestID         string          `db:"guest_id"`
	GuestName       string          `db:"guest_name"`
	GuestEmail      string          `db:"guest_email"`
	GuestPhone      string          `db:"guest_phone"`
	RoomID          string          `db:"room_id"`
	RoomNumber      string          `db:"room_number"`
	CheckIn         time.Time       `db:"check_in"`
	CheckOut        time.Time       `db:"check_out"`
	Adults          int             `db:"adults"`
	Children        int             `db:"children"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	PaidAmount      decimal.Decimal `db:"paid_amount"`
	Status          string          `db:"status"`
	PaymentStatus   string          `db:"payment_status"`
	Source          string          `db:"source"`
	SpecialRequests string          `db:"special_requests"`
	model.Metadata
}

func (b Booking) Active() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed || b.Status == StatusCheckedIn
}

// Balance is what remains to be paid.
func (b Booking) Balance() decimal.Decimal {
	return b.TotalAmount.Sub(b.PaidAmount)
}
