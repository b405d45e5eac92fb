package dto

import (
	"slices"
	"strings"

	"hotel/internal/domains/role/model"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CreateRoleRequest struct {
	Name        string   `json:"name"        validate:"required,max=50,slug"`
	Description string   `json:"description" validate:"omitempty,max=255"`
	Permissions []string `json:"permissions" validate:"required,min=1,dive,permission"`
}

func (c *CreateRoleRequest) ToModel(user string) model.Role {
	return model.Role{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Description: c.Description,
		Permissions: NormalizePermissions(c.Permissions),
		Metadata:    gModel.NewMetadata(timezone.Now(), user),
	}
}

type UpdateRoleRequest struct {
	Name        string         `db:"name"        json:"name"        validate:"omitempty,max=50,slug"`
	Description string         `db:"description" json:"description" validate:"omitempty,max=255"`
	Permissions pq.StringArray `db:"permissions" json:"permissions" validate:"omitempty,min=1,dive,permission"`
}

func (u *UpdateRoleRequest) IsEmpty() bool {
	return u.Name == constant.Empty && u.Description == constant.Empty && u.Permissions == nil
}

// NormalizePermissions lowercases, sorts and deduplicates permission strings.
func NormalizePermissions(permissions []string) pq.StringArray {
	res := make([]string, 0, len(permissions))
	for _, permission := range permissions {
		res = append(res, strings.ToLower(strings.TrimSpace(permission)))
	}

	slices.Sort(res)

	return slices.Compact(res)
}

type RoleResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
	IsSystem    bool     `json:"is_system"`
	gDto.Metadata
}

func (r *RoleResponse) FromModel(model model.Role) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.Permissions = []string(model.Permissions)
	r.IsSystem = model.IsSystem
	r.Metadata.FromModel(model.Metadata)

	if r.Permissions == nil {
		r.Permissions = []string{}
	}
}

// GetRolesResponse is never paginated; the role table is small and cached whole.
type GetRolesResponse struct {
	Roles     []RoleResponse `json:"roles"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRolesResponse) FromModels(models []model.Role) {
	r.TotalData = len(models)
	r.TotalPage = 1
	r.Roles = make([]RoleResponse, len(models))
	for i, mod := range models {
		r.Roles[i].FromModel(mod)
	}
}
