package dto

import (
	"hotel/internal/domains/guest/model"
	"hotel/shared"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
)

type CreateGuestRequest struct {
	FullName    string `json:"full_name"   validate:"required,max=100"`
	Email       string `json:"email"       validate:"omitempty,email,max=100"`
	Phone       string `json:"phone"       validate:"omitempty,max=20"`
	Address     string `json:"address"     validate:"omitempty,max=255"`
	Nationality string `json:"nationality" validate:"omitempty,max=50"`
	IDType      string `json:"id_type"     validate:"omitempty,oneof=passport national-id driving-license"`
	IDNumber    string `json:"id_number"   validate:"required_with=IDType,max=50"`
	VIP         bool   `json:"vip"`
	Notes       string `json:"notes"       validate:"omitempty,max=500"`
}

func (c *CreateGuestRequest) ToModel(user string) model.Guest {
	return model.Guest{
		ID:          uuid.NewString(),
		FullName:    c.FullName,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		Nationality: c.Nationality,
		IDType:      c.IDType,
		IDNumber:    c.IDNumber,
		VIP:         c.VIP,
		Notes:       c.Notes,
		Metadata:    gModel.NewMetadata(timezone.Now(), user),
	}
}

type UpdateGuestRequest struct {
	FullName    string `db:"full_name"   json:"full_name"   validate:"omitempty,max=100"`
	Email       string `db:"email"       json:"email"       validate:"omitempty,email,max=100"`
	Phone       string `db:"phone"       json:"phone"       validate:"omitempty,max=20"`
	Address     string `db:"address"     json:"address"     validate:"omitempty,max=255"`
	Nationality string `db:"nationality" json:"nationality" validate:"omitempty,max=50"`
	IDType      string `db:"id_type"     json:"id_type"     validate:"omitempty,oneof=passport national-id driving-license"`
	IDNumber    string `db:"id_number"   json:"id_number"   validate:"omitempty,max=50"`
	VIP         *bool  `db:"vip"         json:"vip"`
	Notes       string `db:"notes"       json:"notes"       validate:"omitempty,max=500"`
}

func (u *UpdateGuestRequest) IsEmpty() bool {
	return *u == UpdateGuestRequest{}
}

type GuestResponse struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Nationality string `json:"nationality"`
	IDType      string `json:"id_type"`
	IDNumber    string `json:"id_number"`
	VIP         bool   `json:"vip"`
	Notes       string `json:"notes"`
	gDto.Metadata
}

func (r *GuestResponse) FromModel(model model.Guest) {
	r.ID = model.ID
	r.FullName = model.FullName
	r.Email = model.Email
	r.Phone = model.Phone
	r.Address = model.Address
	r.Nationality = model.Nationality
	r.IDType = model.IDType
	r.IDNumber = model.IDNumber
	r.VIP = model.VIP
	r.Notes = model.Notes
	r.Metadata.FromModel(model.Metadata)
}

type GetGuestsResponse struct {
	Guests    []GuestResponse `json:"guests"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetGuestsResponse) FromModels(models []model.Guest, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Guests = make([]GuestResponse, len(models))
	for i, mod := range models {
		r.Guests[i].FromModel(mod)
	}
}

type GuestQuery struct {
	Search string
	VIP    *bool
}

// Filter matches the search term against name, email and phone.
func (q GuestQuery) Filter() gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: []any{}}

	if q.Search != "" {
		filter.Filters = append(filter.Filters, gDto.Search(model.TableName, q.Search, model.FieldFullName, model.FieldEmail, model.FieldPhone))
	}

	if q.VIP != nil {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldVIP, Operator: gDto.FilterOperatorEq, Value: *q.VIP, Table: model.TableName})
	}

	return filter
}
