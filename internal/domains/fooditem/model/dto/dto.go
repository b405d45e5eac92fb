package dto

import (
	"mime/multipart"

	"hotel/internal/domains/fooditem/model"
	"hotel/shared"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gModel "hotel/shared/model"
	"hotel/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateFoodItemRequest struct {
	Name               string                `json:"name"                validate:"required,max=100"`
	Category           string                `json:"category"            validate:"required,oneof=breakfast main-course starter dessert beverage snack"`
	Description        string                `json:"description"         validate:"omitempty,max=500"`
	Price              decimal.Decimal       `json:"price"               validate:"dmin=0"`
	Available          *bool                 `json:"available"`
	Vegetarian         bool                  `json:"vegetarian"`
	PreparationMinutes int                   `json:"preparation_minutes" validate:"gte=0,lte=240"`
	Image              *multipart.FileHeader `json:"image"               validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile          multipart.File        `json:"-"`
}

// ToModel lists the item as available unless told otherwise.
func (c *CreateFoodItemRequest) ToModel(user, imageURL string) model.FoodItem {
	available := true
	if c.Available != nil {
		available = *c.Available
	}

	return model.FoodItem{
		ID:                 uuid.NewString(),
		Name:               c.Name,
		Category:           c.Category,
		Description:        c.Description,
		Price:              c.Price,
		Image:              imageURL,
		Available:          available,
		Vegetarian:         c.Vegetarian,
		PreparationMinutes: c.PreparationMinutes,
		Metadata:           gModel.NewMetadata(timezone.Now(), user),
	}
}

type UpdateFoodItemRequest struct {
	Name               string                `db:"name"                json:"name"                validate:"omitempty,max=100"`
	Category           string                `db:"category"            json:"category"            validate:"omitempty,oneof=breakfast main-course starter dessert beverage snack"`
	Description        string                `db:"description"         json:"description"         validate:"omitempty,max=500"`
	Price              *decimal.Decimal      `db:"price"               json:"price"               validate:"omitempty,dmin=0"`
	Available          *bool                 `db:"available"           json:"available"`
	Vegetarian         *bool                 `db:"vegetarian"          json:"vegetarian"`
	PreparationMinutes *int                  `db:"preparation_minutes" json:"preparation_minutes" validate:"omitempty,gte=0,lte=240"`
	Image              *multipart.FileHeader `json:"image"               validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile          multipart.File        `json:"-"`
}

func (u *UpdateFoodItemRequest) IsEmpty() bool {
	return u.Name == constant.Empty && u.Category == constant.Empty && u.Description == constant.Empty &&
		u.Price == nil && u.Available == nil && u.Vegetarian == nil && u.PreparationMinutes == nil && u.Image == nil
}

type FoodItemQuery struct {
	Search     string
	Category   string
	Available  *bool
	Vegetarian *bool
}

func (q FoodItemQuery) Filter() gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: []any{}}

	if q.Search != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Search(model.TableName, q.Search, model.FieldName, model.FieldDescription))
	}

	if q.Category != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldCategory, Operator: gDto.FilterOperatorEq, Value: q.Category, Table: model.TableName})
	}

	if q.Available != nil {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldAvailable, Operator: gDto.FilterOperatorEq, Value: *q.Available, Table: model.TableName})
	}

	if q.Vegetarian != nil {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldVegetarian, Operator: gDto.FilterOperatorEq, Value: *q.Vegetarian, Table: model.TableName})
	}

	return filter
}

type FoodItemResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Category           string          `json:"category"`
	Description        string          `json:"description"`
	Price              decimal.Decimal `json:"price"`
	Image              string          `json:"image"`
	Available          bool            `json:"available"`
	Vegetarian         bool            `json:"vegetarian"`
	PreparationMinutes int             `json:"preparation_minutes"`
	gDto.Metadata
}

func (r *FoodItemResponse) FromModel(model model.FoodItem) {
	r.ID = model.ID
	r.Name = model.Name
	r.Category = model.Category
	r.Description = model.Description
	r.Price = model.Price
	r.Image = model.Image
	r.Available = model.Available
	r.Vegetarian = model.Vegetarian
	r.PreparationMinutes = model.PreparationMinutes
	r.Metadata.FromModel(model.Metadata)
}

type GetFoodItemsResponse struct {
	FoodItems []FoodItemResponse `json:"food_items"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetFoodItemsResponse) FromModels(models []model.FoodItem, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.FoodItems = make([]FoodItemResponse, len(models))
	for i, mod := range models {
		r.FoodItems[i].FromModel(mod)
	}
}

type AvailabilityResponse struct {
	ID        string `json:"id"`
	Available bool   `json:"available"`
}
