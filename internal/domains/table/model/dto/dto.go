package dto

import (
	"hotel/internal/domains/table/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
)

type CreateTableRequest struct {
	Number   string `json:"number"   validate:"required,max=10"`
	Capacity int    `json:"capacity" validate:"required,min=1,max=30"`
	Location string `json:"location" validate:"required,oneof=indoor outdoor rooftop poolside"`
}

func (c *CreateTableRequest) ToModel(user string) model.Table {
	return model.Table{
		ID:       uuid.NewString(),
		Number:   c.Number,
		Capacity: c.Capacity,
		Location: c.Location,
		Status:   model.StatusAvailable,
		Metadata: gModel.NewMetadata(timezone.Now(), user),
	}
}

type UpdateTableRequest struct {
	Number   string `db:"number"   json:"number"   validate:"omitempty,max=10"`
	Capacity *int   `db:"capacity" json:"capacity" validate:"omitempty,min=1,max=30"`
	Location string `db:"location" json:"location" validate:"omitempty,oneof=indoor outdoor rooftop poolside"`
}

func (u *UpdateTableRequest) IsEmpty() bool {
	return *u == UpdateTableRequest{}
}

type UpdateTableStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available occupied reserved cleaning"`
}

type TableQuery struct {
	Location    string
	Status      string
	MinCapacity int
}

func (q TableQuery) Filter() gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: []any{}}

	if q.Location != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldLocation, Operator: gDto.FilterOperatorEq, Value: q.Location, Table: model.TableName})
	}

	if q.Status != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: q.Status, Table: model.TableName})
	}

	if q.MinCapacity > 0 {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldCapacity, Operator: gDto.FilterOperatorGreaterEq, Value: q.MinCapacity, Table: model.TableName})
	}

	return filter
}

type TableResponse struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	Capacity int    `json:"capacity"`
	Location string `json:"location"`
	Status   string `json:"status"`
	gDto.Metadata
}

func (r *TableResponse) FromModel(model model.Table) {
	r.ID = model.ID
	r.Number = model.Number
	r.Capacity = model.Capacity
	r.Location = model.Location
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type GetTablesResponse struct {
	Tables    []TableResponse `json:"tables"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetTablesResponse) FromModels(models []model.Table, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Tables = make([]TableResponse, len(models))
	for i, mod := range models {
		r.Tables[i].FromModel(mod)
	}
}
