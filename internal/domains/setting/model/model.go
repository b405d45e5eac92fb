package model

import (
	"hotel/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "settings"
	EntityName = "setting"

	// DefaultID names the single settings row.
	DefaultID = "default"

	FieldID           = "id"
	FieldHotelName    = "hotel_name"
	FieldAddress      = "address"
	FieldPhone        = "phone"
	FieldEmail        = "email"
	FieldWebsite      = "website"
	FieldLogo         = "logo"
	FieldCurrency     = "currency"
	FieldTaxRate      = "tax_rate"
	FieldCheckInTime  = "check_in_time"
	FieldCheckOutTime = "check_out_time"
	FieldTimezone     = "timezone"

	CacheGet = "setting:get"
)

type Setting struct {
	ID           string          `db:"id"`
	HotelName    string          `db:"hotel_name"`
	Address      string          `db:"address"`
	Phone        string          `db:"phone"`
	Email        string          `db:"email"`
	Website      string          `db:"website"`
	Logo         string          `db:"logo"`
	Currency     string          `db:"currency"`
	TaxRate      decimal.Decimal `db:"tax_rate"`
	CheckInTime  string          `db:"check_in_time"`
	CheckOutTime string          `db:"check_out_time"`
	Timezone     string          `db:"timezone"`
	model.Metadata
}
