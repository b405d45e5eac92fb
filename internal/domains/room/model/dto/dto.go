package dto

import (
	"mime/multipart"
	"time"

	"hotel/internal/domains/room/model"
	"hotel/shared"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type CreateRoomRequest struct {
	Number        string                `json:"number"          validate:"required,max=10"`
	Type          string                `json:"type"            validate:"required,oneof=single double deluxe suite family"`
	Floor         int                   `json:"floor"           validate:"gte=0,lte=200"`
	Capacity      int                   `json:"capacity"        validate:"required,min=1,max=20"`
	PricePerNight decimal.Decimal       `json:"price_per_night" validate:"dmin=0"`
	Amenities     []string              `json:"amenities"       validate:"omitempty,dive,required,max=50"`
	Description   string                `json:"description"     validate:"omitempty,max=500"`
	Image         *multipart.FileHeader `json:"image"           validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile     multipart.File        `json:"-"`
	Active        *bool                 `json:"active"          validate:"omitempty"`
}

func (c *CreateRoomRequest) ToModel(user string, imageURL string) model.Room {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Room{
		ID:            uuid.NewString(),
		Number:        c.Number,
		Type:          c.Type,
		Floor:         c.Floor,
		Capacity:      c.Capacity,
		PricePerNight: c.PricePerNight,
		Status:        model.StatusAvailable,
		Amenities:     pq.StringArray(c.Amenities),
		Description:   c.Description,
		Image:         imageURL,
		Active:        active,
		Metadata:      gModel.NewMetadata(timezone.Now(), user),
	}
}

type UpdateRoomRequest struct {
	Number        string                `db:"number"          json:"number"          validate:"omitempty,max=10"`
	Type          string                `db:"type"            json:"type"            validate:"omitempty,oneof=single double deluxe suite family"`
	Floor         *int                  `db:"floor"           json:"floor"           validate:"omitempty,gte=0,lte=200"`
	Capacity      *int                  `db:"capacity"        json:"capacity"        validate:"omitempty,min=1,max=20"`
	PricePerNight *decimal.Decimal      `db:"price_per_night" json:"price_per_night" validate:"omitempty,dmin=0"`
	Amenities     pq.StringArray        `db:"amenities"       json:"amenities"       validate:"omitempty,dive,required,max=50"`
	Description   string                `db:"description"     json:"description"     validate:"omitempty,max=500"`
	Image         *multipart.FileHeader `json:"image"         validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile     multipart.File        `json:"-"`
	Active        *bool                 `db:"active"          json:"active"          validate:"omitempty"`
}

// IsEmpty reports whether the request carries nothing to change.
func (u *UpdateRoomRequest) IsEmpty() bool {
	return u.Number == "" && u.Type == "" && u.Floor == nil && u.Capacity == nil &&
		u.PricePerNight == nil && u.Amenities == nil && u.Description == "" && u.Image == nil && u.Active == nil
}

type UpdateRoomStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available occupied reserved maintenance cleaning"`
}

type AvailableRoomsRequest struct {
	CheckIn  string `json:"check_in"  validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Capacity int    `json:"capacity"  validate:"omitempty,min=1"`
	Type     string `json:"type"      validate:"omitempty,oneof=single double deluxe suite family"`
}

// Dates parses the stay window. Validation has already checked the format.
func (a *AvailableRoomsRequest) Dates() (checkIn, checkOut time.Time, err error) {
	checkIn, err = timezone.ParseDate(a.CheckIn)
	if err != nil {
		return checkIn, checkOut, err
	}

	checkOut, err = timezone.ParseDate(a.CheckOut)

	return checkIn, checkOut, err
}

type RoomResponse struct {
	ID            string          `json:"id"`
	Number        string          `json:"number"`
	Type          string          `json:"type"`
	Floor         int             `json:"floor"`
	Capacity      int             `json:"capacity"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
	Status        string          `json:"status"`
	Amenities     []string        `json:"amenities"`
	Description   string          `json:"description"`
	Image         string          `json:"image"`
	Active        bool            `json:"active"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Number = model.Number
	r.Type = model.Type
	r.Floor = model.Floor
	r.Capacity = model.Capacity
	r.PricePerNight = model.PricePerNight
	r.Status = model.Status
	r.Amenities = []string(model.Amenities)
	r.Description = model.Description
	r.Image = model.Image
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)

	if r.Amenities == nil {
		r.Amenities = []string{}
	}
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
