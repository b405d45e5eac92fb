package dto

import (
	"time"

	"hotel/internal/domains/staff/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateStaffRequest struct {
	FullName   string          `json:"full_name"  validate:"required,max=100"`
	Email      string          `json:"email"      validate:"required,email,max=100"`
	Phone      string          `json:"phone"      validate:"omitempty,max=20"`
	Position   string          `json:"position"   validate:"required,max=50"`
	Department string          `json:"department" validate:"required,oneof=front-office housekeeping kitchen maintenance management security"`
	Salary     decimal.Decimal `json:"salary"     validate:"dmin=0"`
	Shift      string          `json:"shift"      validate:"required,oneof=morning evening night"`
	Status     string          `json:"status"     validate:"omitempty,oneof=active on-leave inactive"`
	JoinDate   string          `json:"join_date"  validate:"omitempty,datetime=2006-01-02"`
}

// ToModel defaults the status to active and the join date to today.
func (c *CreateStaffRequest) ToModel(user string, joinDate time.Time) model.Staff {
	status := c.Status
	if status == constant.Empty {
		status = model.StatusActive
	}

	return model.Staff{
		ID:         uuid.NewString(),
		FullName:   c.FullName,
		Email:      c.Email,
		Phone:      c.Phone,
		Position:   c.Position,
		Department: c.Department,
		Salary:     c.Salary,
		Shift:      c.Shift,
		Status:     status,
		JoinDate:   joinDate,
		Metadata:   gModel.NewMetadata(timezone.Now(), user),
	}
}

func (c *CreateStaffRequest) ParseJoinDate() (time.Time, error) {
	if c.JoinDate == constant.Empty {
		return timezone.Today(), nil
	}

	return timezone.ParseDate(c.JoinDate)
}

type UpdateStaffRequest struct {
	FullName   string           `db:"full_name"  json:"full_name"  validate:"omitempty,max=100"`
	Email      string           `db:"email"      json:"email"      validate:"omitempty,email,max=100"`
	Phone      string           `db:"phone"      json:"phone"      validate:"omitempty,max=20"`
	Position   string           `db:"position"   json:"position"   validate:"omitempty,max=50"`
	Department string           `db:"department" json:"department" validate:"omitempty,oneof=front-office housekeeping kitchen maintenance management security"`
	Salary     *decimal.Decimal `db:"salary"     json:"salary"     validate:"omitempty,dmin=0"`
	Shift      string           `db:"shift"      json:"shift"      validate:"omitempty,oneof=morning evening night"`
	JoinDate   string           `json:"join_date"  validate:"omitempty,datetime=2006-01-02"`
}

func (u *UpdateStaffRequest) IsEmpty() bool {
	return *u == UpdateStaffRequest{}
}

type UpdateStaffStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active on-leave inactive"`
}

type StaffQuery struct {
	Search     string
	Department string
	Status     string
	Shift      string
}

func (q StaffQuery) Filter() gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: []any{}}

	if q.Search != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Search(model.TableName, q.Search, model.FieldFullName, model.FieldEmail))
	}

	for _, pair := range [][2]string{
		{model.FieldDepartment, q.Department},
		{model.FieldStatus, q.Status},
		{model.FieldShift, q.Shift},
	} {
		if pair[1] == constant.Empty {
			continue
		}

		filter.Filters = append(filter.Filters, gDto.Filter{Field: pair[0], Operator: gDto.FilterOperatorEq, Value: pair[1], Table: model.TableName})
	}

	return filter
}

type StaffResponse struct {
	ID         string          `json:"id"`
	FullName   string          `json:"full_name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	Position   string          `json:"position"`
	Department string          `json:"department"`
	Salary     decimal.Decimal `json:"salary"`
	Shift      string          `json:"shift"`
	Status     string          `json:"status"`
	JoinDate   string          `json:"join_date"`
	gDto.Metadata
}

func (r *StaffResponse) FromModel(model model.Staff) {
	r.ID = model.ID
	r.FullName = model.FullName
	r.Email = model.Email
	r.Phone = model.Phone
	r.Position = model.Position
	r.Department = model.Department
	r.Salary = model.Salary
	r.Shift = model.Shift
	r.Status = model.Status
	r.JoinDate = timezone.Format(model.JoinDate, constant.DateOnlyFormat)
	r.Metadata.FromModel(model.Metadata)
}

type GetStaffResponse struct {
	Staff     []StaffResponse `json:"staff"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetStaffResponse) FromModels(models []model.Staff, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Staff = make([]StaffResponse, len(models))
	for i, mod := range models {
		r.Staff[i].FromModel(mod)
	}
}
