package validator_test

import (
	"net/http"
	"strings"
	"testing"

	"hotel/shared/failure"
	"hotel/shared/validator"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type roomRequest struct {
	Number   string           `json:"number" validate:"required"`
	Email    string           `json:"email" validate:"omitempty,email"`
	Capacity int              `json:"capacity" validate:"gte=1,lte=10"`
	Type     string           `json:"type" validate:"oneof=single double suite"`
	Price    decimal.Decimal  `json:"price" validate:"dmin=0"`
	TaxRate  decimal.Decimal  `json:"tax_rate" validate:"dmin=0,dmax=100"`
	Deposit  *decimal.Decimal `json:"deposit" validate:"omitempty,dgt=0"`
	CheckIn  string           `json:"check_in" validate:"omitempty,datetime=2006-01-02"`
}

func validRoom() roomRequest {
	return roomRequest{
		Number:   "101",
		Capacity: 2,
		Type:     "double",
		Price:    decimal.RequireFromString("2500.00"),
		TaxRate:  decimal.NewFromInt(12),
	}
}

func TestValidateStruct(t *testing.T) {
	zero := decimal.Zero
	deposit := decimal.RequireFromString("500")

	tests := []struct {
		name    string
		mutate  func(r *roomRequest)
		wantErr string
	}{
		{name: "valid request", mutate: func(_ *roomRequest) {}},
		{name: "valid optional fields", mutate: func(r *roomRequest) {
			r.Deposit = &deposit
			r.CheckIn = "2025-03-10"
			r.Email = "front@hotel.test"
		}},
		{name: "missing number", mutate: func(r *roomRequest) { r.Number = "" }, wantErr: "Number is required"},
		{name: "capacity out of range", mutate: func(r *roomRequest) { r.Capacity = 11 }, wantErr: "Capacity must be less than or equal to 10"},
		{name: "unknown type", mutate: func(r *roomRequest) { r.Type = "villa" }, wantErr: "Type must be one of single double suite"},
		{name: "negative price", mutate: func(r *roomRequest) { r.Price = decimal.RequireFromString("-0.01") }, wantErr: "Price must be greater than or equal to 0"},
		{name: "tax rate above hundred", mutate: func(r *roomRequest) { r.TaxRate = decimal.RequireFromString("100.5") }, wantErr: "TaxRate must be less than or equal to 100"},
		{name: "zero deposit", mutate: func(r *roomRequest) { r.Deposit = &zero }, wantErr: "Deposit must be greater than 0"},
		{name: "bad date", mutate: func(r *roomRequest) { r.CheckIn = "10/03/2025" }, wantErr: "CheckIn must match the format 2006-01-02"},
		{name: "bad email", mutate: func(r *roomRequest) { r.Email = "front-desk" }, wantErr: "Email must be a valid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRoom()
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)

			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			assert.EqualError(t, err, tt.wantErr)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name    string
		field   any
		tag     string
		wantErr bool
	}{
		{name: "valid required string", field: "test", tag: "required"},
		{name: "empty required string", field: "", tag: "required", wantErr: true},
		{name: "valid oneof", field: "manager", tag: "oneof=admin manager staff"},
		{name: "invalid oneof", field: "guest", tag: "oneof=admin manager staff", wantErr: true},
		{name: "decimal lower bound", field: decimal.NewFromInt(5), tag: "dmin=5"},
		{name: "decimal below bound", field: decimal.NewFromInt(4), tag: "dmin=5", wantErr: true},
		{name: "empty tag accepts zero value", field: "", tag: "empty"},
		{name: "empty tag rejects value", field: "x", tag: "empty", wantErr: true},
		{name: "slug", field: "front-desk-2", tag: "slug"},
		{name: "slug with uppercase", field: "Front-Desk", tag: "slug", wantErr: true},
		{name: "slug with trailing hyphen", field: "front-", tag: "slug", wantErr: true},
		{name: "permission", field: "bookings:update-status", tag: "permission"},
		{name: "wildcard permission", field: "*:*", tag: "permission"},
		{name: "permission without action", field: "bookings", tag: "permission", wantErr: true},
		{name: "data uri png", field: "data:image/png;base64,iVBORw0KGgo=", tag: "mimetypes=image/png image/jpeg"},
		{name: "data uri wrong type", field: "data:text/plain;base64,SGVsbG8=", tag: "mimetypes=image/png image/jpeg", wantErr: true},
		{name: "data uri without base64 marker", field: "data:image/png,iVBORw0KGgo=", tag: "mimetypes=image/png", wantErr: true},
		{name: "plain string is not a data uri", field: "image/png", tag: "mimetypes=image/png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid body", body: `{"number":"101","capacity":2,"type":"suite","price":"4500.00","tax_rate":"12"}`},
		{name: "price as json number", body: `{"number":"101","capacity":2,"type":"suite","price":4500,"tax_rate":12}`},
		{name: "invalid field", body: `{"number":"101","capacity":0,"type":"suite","price":"1","tax_rate":"12"}`, wantErr: true},
		{name: "malformed body", body: `{"number":}`, wantErr: true},
		{name: "empty body", body: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data roomRequest

			err := validator.Validate(strings.NewReader(tt.body), &data)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
