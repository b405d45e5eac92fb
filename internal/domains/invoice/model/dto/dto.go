package dto

import (
	"time"

	"hotel/internal/domains/invoice/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GenerateInvoiceRequest bills a booking: its room nights plus cafe orders charged to the room.
type GenerateInvoiceRequest struct {
	BookingID string           `json:"booking_id" validate:"required,max=36"`
	Discount  *decimal.Decimal `json:"discount"   validate:"omitempty,dmin=0"`
	DueDate   string           `json:"due_date"   validate:"omitempty,datetime=2006-01-02"`
	Notes     string           `json:"notes"      validate:"omitempty,max=500"`
}

// ToModel fills what the request alone decides. Lines, guest and rate come from the service.
func (g *GenerateInvoiceRequest) ToModel(user string, dueDate time.Time) model.Invoice {
	now := timezone.Now()

	discount := decimal.Zero
	if g.Discount != nil {
		discount = *g.Discount
	}

	return model.Invoice{
		ID:            uuid.NewString(),
		InvoiceNumber: shared.GenerateReference(model.NumberPrefix, now),
		BookingID:     g.BookingID,
		Discount:      discount,
		Status:        model.StatusDraft,
		DueDate:       dueDate,
		Notes:         g.Notes,
		Metadata:      gModel.NewMetadata(now, user),
	}
}

// UpdateInvoiceRequest edits a draft. Discount and due date have no db tag
// because the service recomputes totals and parses the date.
type UpdateInvoiceRequest struct {
	Notes    string           `db:"notes"  json:"notes"    validate:"omitempty,max=500"`
	Discount *decimal.Decimal `json:"discount" validate:"omitempty,dmin=0"`
	DueDate  string           `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

func (u *UpdateInvoiceRequest) IsEmpty() bool {
	return *u == UpdateInvoiceRequest{}
}

type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft issued paid cancelled"`
}

// InvoiceQuery holds the list filters accepted by GET /invoices.
type InvoiceQuery struct {
	Search    string
	Status    string
	BookingID string
}

// Filter builds the filter group. Search matches invoice number or guest name.
func (q InvoiceQuery) Filter() gDto.FilterGroup {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if q.Search != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Search(model.TableName, q.Search, model.FieldInvoiceNumber, model.FieldGuestName))
	}

	if q.Status != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: q.Status, Table: model.TableName})
	}

	if q.BookingID != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldBookingID, Operator: gDto.FilterOperatorEq, Value: q.BookingID, Table: model.TableName})
	}

	return filter
}

type LineResponse struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

type InvoiceResponse struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	BookingID     string          `json:"booking_id"`
	GuestName     string          `json:"guest_name"`
	Items         []LineResponse  `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	IssuedAt      string          `json:"issued_at"`
	DueDate       string          `json:"due_date"`
	Notes         string          `json:"notes"`
	gDto.Metadata
}

func (r *InvoiceResponse) FromModel(model model.Invoice) {
	r.ID = model.ID
	r.InvoiceNumber = model.InvoiceNumber
	r.BookingID = model.BookingID
	r.GuestName = model.GuestName
	r.Subtotal = model.Subtotal
	r.TaxRate = model.TaxRate
	r.Tax = model.Tax
	r.Discount = model.Discount
	r.Total = model.Total
	r.Status = model.Status
	r.DueDate = timezone.Format(model.DueDate, constant.DateOnlyFormat)
	r.Notes = model.Notes
	r.Metadata.FromModel(model.Metadata)

	r.IssuedAt = constant.Empty
	if model.IssuedAt != nil {
		r.IssuedAt = timezone.Format(*model.IssuedAt, constant.DateFormat)
	}

	r.Items = make([]LineResponse, len(model.Items))
	for i, line := range model.Items {
		r.Items[i] = LineResponse(line)
	}
}

type GetInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetInvoicesResponse) FromModels(models []model.Invoice, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Invoices = make([]InvoiceResponse, len(models))
	for i, mod := range models {
		r.Invoices[i].FromModel(mod)
	}
}
