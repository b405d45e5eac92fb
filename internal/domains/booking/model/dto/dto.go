package dto

import (
	"time"

	"hotel/internal/domains/booking/model"
	"hotel/shared"
	"hotel/shared/availability"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateBookingRequest struct {
	GuestID         string           `json:"guest_id"         validate:"omitempty,max=36"`
	GuestName       string           `json:"guest_name"       validate:"required_without=GuestID,max=100"`
	GuestEmail      string           `json:"guest_email"      validate:"omitempty,email,max=100"`
	GuestPhone      string           `json:"guest_phone"      validate:"omitempty,max=20"`
	RoomID          string           `json:"room_id"          validate:"required,max=36"`
	CheckIn         string           `json:"check_in"         validate:"required,datetime=2006-01-02"`
	CheckOut        string           `json:"check_out"        validate:"required,datetime=2006-01-02"`
	Adults          int              `json:"adults"           validate:"omitempty,min=1,max=20"`
	Children        int              `json:"children"         validate:"omitempty,min=0,max=20"`
	TotalAmount     *decimal.Decimal `json:"total_amount"     validate:"omitempty,dmin=0"`
	Source          string           `json:"source"           validate:"omitempty,oneof=walk-in phone website ota"`
	SpecialRequests string           `json:"special_requests" validate:"omitempty,max=500"`
	Status          string           `json:"status"           validate:"omitempty,oneof=pending confirmed"`
}

// Dates parses the stay. Validation has already checked the format.
func (c *CreateBookingRequest) Dates() (checkIn, checkOut time.Time, err error) {
	return parseStay(c.CheckIn, c.CheckOut)
}

// ToModel fills everything the request alone decides. Room, guest and total
// are resolved by the service.
func (c *CreateBookingRequest) ToModel(user string, checkIn, checkOut time.Time) model.Booking {
	now := timezone.Now()

	adults := c.Adults
	if adults == 0 {
		adults = 1
	}

	source := c.Source
	if source == constant.Empty {
		source = model.SourceWalkIn
	}

	status := c.Status
	if status == constant.Empty {
		status = model.StatusPending
	}

	return model.Booking{
		ID:              uuid.NewString(),
		BookingNumber:   shared.GenerateReference(model.NumberPrefix, now),
		GuestID:         c.GuestID,
		GuestName:       c.GuestName,
		GuestEmail:      c.GuestEmail,
		GuestPhone:      c.GuestPhone,
		RoomID:          c.RoomID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Adults:          adults,
		Children:        c.Children,
		PaidAmount:      decimal.Zero,
		Status:          status,
		PaymentStatus:   model.PaymentStatusPending,
		Source:          source,
		SpecialRequests: c.SpecialRequests,
		Metadata:        gModel.NewMetadata(now, user),
	}
}

// UpdateBookingRequest changes booking details. Room and dates have no db tag
// because moving a stay goes through the availability check first.
type UpdateBookingRequest struct {
	GuestName       string           `db:"guest_name"       json:"guest_name"       validate:"omitempty,max=100"`
	GuestEmail      string           `db:"guest_email"      json:"guest_email"      validate:"omitempty,email,max=100"`
	GuestPhone      string           `db:"guest_phone"      json:"guest_phone"      validate:"omitempty,max=20"`
	RoomID          string           `json:"room_id"          validate:"omitempty,max=36"`
	CheckIn         string           `json:"check_in"         validate:"omitempty,datetime=2006-01-02"`
	CheckOut        string           `json:"check_out"        validate:"omitempty,datetime=2006-01-02"`
	Adults          *int             `db:"adults"           json:"adults"           validate:"omitempty,min=1,max=20"`
	Children        *int             `db:"children"         json:"children"         validate:"omitempty,min=0,max=20"`
	TotalAmount     *decimal.Decimal `db:"total_amount"     json:"total_amount"     validate:"omitempty,dmin=0"`
	Source          string           `db:"source"           json:"source"           validate:"omitempty,oneof=walk-in phone website ota"`
	SpecialRequests string           `db:"special_requests" json:"special_requests" validate:"omitempty,max=500"`
}

func (u *UpdateBookingRequest) IsEmpty() bool {
	return *u == UpdateBookingRequest{}
}

// Stay applies the requested dates over the current ones.
func (u *UpdateBookingRequest) Stay(current model.Booking) (checkIn, checkOut time.Time, err error) {
	checkIn, checkOut = current.CheckIn, current.CheckOut

	if u.CheckIn != constant.Empty {
		if checkIn, err = timezone.ParseDate(u.CheckIn); err != nil {
			return checkIn, checkOut, err
		}
	}

	if u.CheckOut != constant.Empty {
		if checkOut, err = timezone.ParseDate(u.CheckOut); err != nil {
			return checkIn, checkOut, err
		}
	}

	return checkIn, checkOut, nil
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed checked-in checked-out cancelled"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending partial paid refunded"`
}

// BookingQuery holds the list filters accepted by GET /bookings.
type BookingQuery struct {
	Search        string
	Status        string
	PaymentStatus string
	RoomID        string
	GuestID       string
	CheckIn       *gDto.DateRange
}

// Filter builds the filter group. Search matches guest name, booking id or
// booking number, case-insensitively.
func (q BookingQuery) Filter() gDto.FilterGroup {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if q.Search != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Search(model.TableName, q.Search, model.FieldGuestName, model.FieldID, model.FieldBookingNumber))
	}

	for _, pair := range [][2]string{
		{model.FieldStatus, q.Status},
		{model.FieldPaymentStatus, q.PaymentStatus},
		{model.FieldRoomID, q.RoomID},
		{model.FieldGuestID, q.GuestID},
	} {
		if pair[1] != constant.Empty {
			filter.Filters = append(filter.Filters, gDto.Filter{Field: pair[0], Operator: gDto.FilterOperatorEq, Value: pair[1], Table: model.TableName})
		}
	}

	if q.CheckIn != nil {
		filter.Filters = append(filter.Filters, q.CheckIn.Filters(model.FieldCheckIn, model.TableName)...)
	}

	return filter
}

type BookingResponse struct {
	ID              string          `json:"id"`
	BookingNumber   string          `json:"booking_number"`
	GuestID         string          `json:"guest_id"`
	GuestName       string          `json:"guest_name"`
	GuestEmail      string          `json:"guest_email"`
	GuestPhone      string          `json:"guest_phone"`
	RoomID          string          `json:"room_id"`
	RoomNumber      string          `json:"room_number"`
	CheckIn         string          `json:"check_in"`
	CheckOut        string          `json:"check_out"`
	Nights          int             `json:"nights"`
	Adults          int             `json:"adults"`
	Children        int             `json:"children"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	Balance         decimal.Decimal `json:"balance"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	Source          string          `json:"source"`
	SpecialRequests string          `json:"special_requests"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.BookingNumber = model.BookingNumber
	r.GuestID = model.GuestID
	r.GuestName = model.GuestName
	r.GuestEmail = model.GuestEmail
	r.GuestPhone = model.GuestPhone
	r.RoomID = model.RoomID
	r.RoomNumber = model.RoomNumber
	r.CheckIn = timezone.Format(model.CheckIn, constant.DateOnlyFormat)
	r.CheckOut = timezone.Format(model.CheckOut, constant.DateOnlyFormat)
	r.Nights = availability.Nights(model.CheckIn, model.CheckOut)
	r.Adults = model.Adults
	r.Children = model.Children
	r.TotalAmount = model.TotalAmount
	r.PaidAmount = model.PaidAmount
	r.Balance = model.Balance()
	r.Status = model.Status
	r.PaymentStatus = model.PaymentStatus
	r.Source = model.Source
	r.SpecialRequests = model.SpecialRequests
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type BookingStatsResponse struct {
	Total           int             `json:"total"`
	Pending         int             `json:"pending"`
	Confirmed       int             `json:"confirmed"`
	CheckedIn       int             `json:"checked_in"`
	CheckedOut      int             `json:"checked_out"`
	Cancelled       int             `json:"cancelled"`
	ArrivalsToday   int             `json:"arrivals_today"`
	DeparturesToday int             `json:"departures_today"`
	Revenue         decimal.Decimal `json:"revenue"`
}

func parseStay(rawCheckIn, rawCheckOut string) (checkIn, checkOut time.Time, err error) {
	if checkIn, err = timezone.ParseDate(rawCheckIn); err != nil {
		return checkIn, checkOut, err
	}

	checkOut, err = timezone.ParseDate(rawCheckOut)

	return checkIn, checkOut, err
}
