package model

import (
	"time"

	"hotel/shared/model"
	"hotel/shared/status"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID            = "id"
	FieldReference     = "reference"
	FieldBookingID     = "booking_id"
	FieldOrderID       = "order_id"
	FieldGuestName     = "guest_name"
	FieldAmount        = "amount"
	FieldMethod        = "method"
	FieldStatus        = "status"
	FieldTransactionID = "transaction_id"
	FieldNotes         = "notes"
	FieldPaidAt        = "paid_at"

	ReferencePrefix = "PY"

	CacheGet    = "payment:get"
	CacheGetAll = "payment:gets"
	CacheCount  = "payment:count"
)

const (
	StatusCompleted = "completed"
	StatusRefunded  = "refunded"
	StatusFailed    = "failed"
)

const (
	MethodCash         = "cash"
	MethodCard         = "card"
	MethodUPI          = "upi"
	MethodBankTransfer = "bank-transfer"
	MethodRoomCharge   = "room-charge"
)

var StatusTransitions = status.Transitions{
	StatusCompleted: {StatusRefunded},
}

type Payment struct {
	ID            string          `db:"id"`
	Reference     string          `db:"reference"`
	BookingID     string          `db:"booking_id"`
	OrderID       string          `db:"order_id"`
	GuestName     string          `db:"guest_name"`
	Amount        decimal.Decimal `db:"amount"`
	Method        string          `db:"method"`
	Status        string          `db:"status"`
	TransactionID string          `db:"transaction_id"`
	Notes         string          `db:"notes"`
	PaidAt        time.Time       `db:"paid_at"`
	model.Metadata
}
