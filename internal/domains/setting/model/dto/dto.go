package dto

import (
	"mime/multipart"

	"hotel/config"
	"hotel/internal/domains/setting/model"
	gDto "hotel/shared/dto"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type UpdateSettingRequest struct {
	HotelName    string           `db:"hotel_name"     json:"hotel_name"     validate:"omitempty,max=100"`
	Address      string           `db:"address"        json:"address"        validate:"omitempty,max=255"`
	Phone        string           `db:"phone"          json:"phone"          validate:"omitempty,max=20"`
	Email        string           `db:"email"          json:"email"          validate:"omitempty,email,max=100"`
	Website      string           `db:"website"        json:"website"        validate:"omitempty,url,max=255"`
	Currency     string           `db:"currency"       json:"currency"       validate:"omitempty,iso4217"`
	TaxRate      *decimal.Decimal `db:"tax_rate"       json:"tax_rate"       validate:"omitempty,dmin=0,dmax=100"`
	CheckInTime  string           `db:"check_in_time"  json:"check_in_time"  validate:"omitempty,datetime=15:04"`
	CheckOutTime string           `db:"check_out_time" json:"check_out_time" validate:"omitempty,datetime=15:04"`
	Timezone     string           `db:"timezone"       json:"timezone"       validate:"omitempty,timezone"`
}

func (u *UpdateSettingRequest) IsEmpty() bool {
	return *u == UpdateSettingRequest{}
}

type UploadLogoRequest struct {
	Logo     *multipart.FileHeader `json:"logo" validate:"required,mimetypes=image/png image/jpg image/jpeg image/svg+xml,maxfilesize=1"`
	LogoFile multipart.File        `json:"-"`
}

// Defaults builds the settings served before anything was saved.
func Defaults(cfg *config.Config) model.Setting {
	taxRate, err := decimal.NewFromString(cfg.App.Hotel.TaxRate)
	if err != nil {
		log.Warn().Err(err).Str("taxRate", cfg.App.Hotel.TaxRate).Msg("invalid default tax rate, using zero")

		taxRate = decimal.Zero
	}

	return model.Setting{
		ID:           model.DefaultID,
		HotelName:    cfg.App.Hotel.Name,
		Currency:     cfg.App.Hotel.Currency,
		TaxRate:      taxRate,
		CheckInTime:  cfg.App.Hotel.CheckInTime,
		CheckOutTime: cfg.App.Hotel.CheckOutTime,
		Timezone:     cfg.App.Timezone,
	}
}

type SettingResponse struct {
	HotelName    string          `json:"hotel_name"`
	Address      string          `json:"address"`
	Phone        string          `json:"phone"`
	Email        string          `json:"email"`
	Website      string          `json:"website"`
	Logo         string          `json:"logo"`
	Currency     string          `json:"currency"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	CheckInTime  string          `json:"check_in_time"`
	CheckOutTime string          `json:"check_out_time"`
	Timezone     string          `json:"timezone"`
	gDto.Metadata
}

func (r *SettingResponse) FromModel(model model.Setting) {
	r.HotelName = model.HotelName
	r.Address = model.Address
	r.Phone = model.Phone
	r.Email = model.Email
	r.Website = model.Website
	r.Logo = model.Logo
	r.Currency = model.Currency
	r.TaxRate = model.TaxRate
	r.CheckInTime = model.CheckInTime
	r.CheckOutTime = model.CheckOutTime
	r.Timezone = model.Timezone
	r.Metadata.FromModel(model.Metadata)
}
