package dto

import (
	"time"

	"hotel/internal/domains/payment/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/money"
	"hotel/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest records money received against exactly one booking or order.
type CreatePaymentRequest struct {
	BookingID     string          `json:"booking_id"     validate:"required_without=OrderID,excluded_with=OrderID,max=36"`
	OrderID       string          `json:"order_id"       validate:"required_without=BookingID,excluded_with=BookingID,max=36"`
	GuestName     string          `json:"guest_name"     validate:"omitempty,max=100"`
	Amount        decimal.Decimal `json:"amount"         validate:"dgt=0"`
	Method        string          `json:"method"         validate:"required,oneof=cash card upi bank-transfer room-charge"`
	Status        string          `json:"status"         validate:"omitempty,oneof=completed failed"`
	TransactionID string          `json:"transaction_id" validate:"omitempty,max=100"`
	Notes         string          `json:"notes"          validate:"omitempty,max=500"`
	PaidAt        string          `json:"paid_at"        validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

func (c *CreatePaymentRequest) ToModel(user string) (model.Payment, error) {
	now := timezone.Now()

	paidAt := now
	if c.PaidAt != constant.Empty {
		parsed, err := timezone.Parse(constant.DateFormat, c.PaidAt)
		if err != nil {
			return model.Payment{}, err
		}

		paidAt = parsed
	}

	status := c.Status
	if status == constant.Empty {
		status = model.StatusCompleted
	}

	return model.Payment{
		ID:            uuid.NewString(),
		Reference:     shared.GenerateReference(model.ReferencePrefix, now),
		BookingID:     c.BookingID,
		OrderID:       c.OrderID,
		GuestName:     c.GuestName,
		Amount:        money.Round(c.Amount),
		Method:        c.Method,
		Status:        status,
		TransactionID: c.TransactionID,
		Notes:         c.Notes,
		PaidAt:        paidAt,
		Metadata:      gModel.NewMetadata(now, user),
	}, nil
}

type UpdatePaymentRequest struct {
	TransactionID string `db:"transaction_id" json:"transaction_id" validate:"omitempty,max=100"`
	Notes         string `db:"notes"          json:"notes"          validate:"omitempty,max=500"`
}

func (u *UpdatePaymentRequest) IsEmpty() bool {
	return *u == UpdatePaymentRequest{}
}

// PaymentQuery holds the list filters accepted by GET /payments.
type PaymentQuery struct {
	Search    string
	Status    string
	Method    string
	BookingID string
	OrderID   string
	PaidAt    *gDto.DateRange
}

// Filter builds the filter group. Search matches reference or guest name.
func (q PaymentQuery) Filter() gDto.FilterGroup {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if q.Search != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Search(model.TableName, q.Search, model.FieldReference, model.FieldGuestName))
	}

	for _, pair := range [][2]string{
		{model.FieldStatus, q.Status},
		{model.FieldMethod, q.Method},
		{model.FieldBookingID, q.BookingID},
		{model.FieldOrderID, q.OrderID},
	} {
		if pair[1] != constant.Empty {
			filter.Filters = append(filter.Filters, gDto.Filter{Field: pair[0], Operator: gDto.FilterOperatorEq, Value: pair[1], Table: model.TableName})
		}
	}

	if q.PaidAt != nil {
		filter.Filters = append(filter.Filters, q.PaidAt.Filters(model.FieldPaidAt, model.TableName)...)
	}

	return filter
}

// CompletedBetween matches payments that still count as revenue in [from, to).
func CompletedBetween(from, to time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: model.StatusCompleted, Table: model.TableName},
			gDto.Filter{Field: model.FieldPaidAt, ArgName: "paid_at_from", Operator: gDto.FilterOperatorGreaterEq, Value: from, Table: model.TableName},
			gDto.Filter{Field: model.FieldPaidAt, ArgName: "paid_at_to", Operator: gDto.FilterOperatorLess, Value: to, Table: model.TableName},
		},
	}
}

type PaymentResponse struct {
	ID            string          `json:"id"`
	Reference     string          `json:"reference"`
	BookingID     string          `json:"booking_id"`
	OrderID       string          `json:"order_id"`
	GuestName     string          `json:"guest_name"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Status        string          `json:"status"`
	TransactionID string          `json:"transaction_id"`
	Notes         string          `json:"notes"`
	PaidAt        string          `json:"paid_at"`
	gDto.Metadata
}

func (r *PaymentResponse) FromModel(model model.Payment) {
	r.ID = model.ID
	r.Reference = model.Reference
	r.BookingID = model.BookingID
	r.OrderID = model.OrderID
	r.GuestName = model.GuestName
	r.Amount = model.Amount
	r.Method = model.Method
	r.Status = model.Status
	r.TransactionID = model.TransactionID
	r.Notes = model.Notes
	r.PaidAt = timezone.Format(model.PaidAt, constant.DateFormat)
	r.Metadata.FromModel(model.Metadata)
}

type GetPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetPaymentsResponse) FromModels(models []model.Payment, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Payments = make([]PaymentResponse, len(models))
	for i, mod := range models {
		r.Payments[i].FromModel(mod)
	}
}
