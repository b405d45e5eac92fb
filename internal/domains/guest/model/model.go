package model

import (
	"hotel/shared/model"
)

const (
	TableName  = "guests"
	EntityName = "guest"

	FieldID          = "id"
	FieldFullName    = "full_name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldAddress     = "address"
	FieldNationality = "nationality"
	FieldIDType      = "id_type"
	FieldIDNumber    = "id_number"
	FieldVIP         = "vip"
	FieldNotes       = "notes"
)

const (
	IDTypePassport       = "passport"
	IDTypeNationalID     = "national-id"
	IDTypeDrivingLicense = "driving-license"
)

type Guest struct {
	ID          string `db:"id"`
	FullName    string `db:"full_name"`
	Email       string `db:"email"`
	Phone       string `db:"phone"`
	Address     string `db:"address"`
	Nationality string `db:"nationality"`
	IDType      string `db:"id_type"`
	IDNumber    string `db:"id_number"`
	VIP         bool   `db:"vip"`
	Notes       string `db:"notes"`
	model.Metadata
}
