package model

import (
	"time"

	"hotel/shared/model"
	"hotel/shared/money"
	"hotel/shared/status"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "invoices"
	EntityName = "invoice"

	FieldID            = "id"
	FieldInvoiceNumber = "invoice_number"
	FieldBookingID     = "booking_id"
	FieldGuestName     = "guest_name"
	FieldItems         = "items"
	FieldSubtotal      = "subtotal"
	FieldTaxRate       = "tax_rate"
	FieldTax           = "tax"
	FieldDiscount      = "discount"
	FieldTotal         = "total"
	FieldStatus        = "status"
	FieldIssuedAt      = "issued_at"
	FieldDueDate       = "due_date"
	FieldNotes         = "notes"

	NumberPrefix = "INV"

	CacheGet    = "invoice:get"
	CacheGetAll = "invoice:gets"
	CacheCount  = "invoice:count"
)

const (
	StatusDraft     = "draft"
	StatusIssued    = "issued"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

var StatusTransitions = status.Transitions{
	StatusDraft:  {StatusIssued, StatusCancelled},
	StatusIssued: {StatusPaid, StatusCancelled},
}

type Line struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

type Invoice struct {
	ID            string               `db:"id"`
	InvoiceNumber string               `db:"invoice_number"`
	BookingID     string               `db:"booking_id"`
	GuestName     string               `db:"guest_name"`
	Items         model.JSONList[Line] `db:"items"`
	Subtotal      decimal.Decimal      `db:"subtotal"`
	TaxRate       decimal.Decimal      `db:"tax_rate"`
	Tax           decimal.Decimal      `db:"tax"`
	Discount      decimal.Decimal      `db:"discount"`
	Total         decimal.Decimal      `db:"total"`
	Status        string               `db:"status"`
	IssuedAt      *time.Time           `db:"issued_at"`
	DueDate       time.Time            `db:"due_date"`
	Notes         string               `db:"notes"`
	model.Metadata
}

// Compute derives subtotal, tax and total from the lines, the stored rate and
// the discount. The total never goes below zero.
func (i *Invoice) Compute() {
	i.Subtotal = decimal.Zero
	for _, line := range i.Items {
		i.Subtotal = i.Subtotal.Add(line.Amount)
	}

	i.Subtotal = money.Round(i.Subtotal)
	i.Tax = money.Percent(i.Subtotal, i.TaxRate)
	i.Total = money.NonNegative(money.Round(i.Subtotal.Add(i.Tax).Sub(i.Discount)))
}
