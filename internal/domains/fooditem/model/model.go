package model

import (
	"hotel/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "food_items"
	EntityName = "food-item"

	FieldID                 = "id"
	FieldName               = "name"
	FieldCategory           = "category"
	FieldDescription        = "description"
	FieldPrice              = "price"
	FieldImage              = "image"
	FieldAvailable          = "available"
	FieldVegetarian         = "vegetarian"
	FieldPreparationMinutes = "preparation_minutes"
)

const (
	CacheGet    = "food-item:get"
	CacheGetAll = "food-item:gets"
	CacheCount  = "food-item:count"
)

const (
	CategoryBreakfast  = "breakfast"
	CategoryMainCourse = "main-course"
	CategoryStarter    = "starter"
	CategoryDessert    = "dessert"
	CategoryBeverage   = "beverage"
	CategorySnack      = "snack"
)

type FoodItem struct {
	ID                 string          `db:"id"`
	Name               string          `db:"name"`
	Category           string          `db:"category"`
	Description        string          `db:"description"`
	Price              decimal.Decimal `db:"price"`
	Image              string          `db:"image"`
	Available          bool            `db:"available"`
	Vegetarian         bool            `db:"vegetarian"`
	PreparationMinutes int             `db:"preparation_minutes"`
	model.Metadata
}
