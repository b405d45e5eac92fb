package dto

import (
	"hotel/internal/domains/user/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Email        string  `json:"email"                   validate:"required,email,max=255"`
	Password     string  `json:"password"                validate:"required,min=8,max=72"`
	Level        string  `json:"level"                   validate:"omitempty,slug,max=50"`
	FullName     *string `json:"full_name,omitempty"     validate:"omitempty,min=2,max=100"`
	ProfileImage *string `json:"profile_image,omitempty" validate:"omitempty,url"`
	IsVerified   *bool   `json:"is_verified,omitempty"`
}

// Role returns the requested role, falling back to the least privileged one.
func (r *CreateUserRequest) Role() string {
	if r.Level == constant.Empty {
		return constant.RoleStaff
	}

	return r.Level
}

func (r *CreateUserRequest) ToModel(user string, hashedPassword string) model.User {
	isVerified := false
	if r.IsVerified != nil {
		isVerified = *r.IsVerified
	}

	return model.User{
		ID:           uuid.NewString(),
		Email:        r.Email,
		Password:     hashedPassword,
		Level:        r.Role(),
		FullName:     r.FullName,
		ProfileImage: r.ProfileImage,
		IsVerified:   isVerified,
		Active:       true,
		Metadata:     gModel.NewMetadata(timezone.Now(), user),
	}
}

type UpdateUserRequest struct {
	Level        *string `db:"level"         json:"level,omitempty"         validate:"omitempty,slug,max=50"`
	FullName     *string `db:"full_name"     json:"full_name,omitempty"     validate:"omitempty,min=2,max=100"`
	ProfileImage *string `db:"profile_image" json:"profile_image,omitempty" validate:"omitempty,url"`
	IsVerified   *bool   `db:"is_verified"   json:"is_verified,omitempty"`
	Active       *bool   `db:"active"        json:"active,omitempty"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (u *UpdateUserRequest) IsEmpty() bool {
	return *u == UpdateUserRequest{}
}

// UserQuery holds the list filters accepted by GET /users.
type UserQuery struct {
	Search string
	Level  string
	Active *bool
}

// Filter builds the filter group. Search matches email or full name.
func (q UserQuery) Filter() gDto.FilterGroup {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if q.Search != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Search(model.TableName, q.Search, model.FieldEmail, model.FieldFullName))
	}

	if q.Level != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldLevel, Operator: gDto.FilterOperatorEq, Value: q.Level, Table: model.TableName})
	}

	if q.Active != nil {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldActive, Operator: gDto.FilterOperatorEq, Value: *q.Active, Table: model.TableName})
	}

	return filter
}

type UserResponse struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Level        string  `json:"level"`
	FullName     *string `json:"full_name,omitempty"`
	ProfileImage *string `json:"profile_image,omitempty"`
	IsVerified   bool    `json:"is_verified"`
	LastLogin    string  `json:"last_login"`
	Active       bool    `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.Level = model.Level
	r.FullName = model.FullName
	r.ProfileImage = model.ProfileImage
	r.IsVerified = model.IsVerified
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)

	r.LastLogin = constant.Empty
	if model.LastLogin != nil {
		r.LastLogin = timezone.Format(*model.LastLogin, constant.DateFormat)
	}
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
