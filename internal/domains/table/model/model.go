package model

import "hotel/shared/model"

const (
	TableName  = "cafe_tables"
	EntityName = "table"

	FieldID       = "id"
	FieldNumber   = "number"
	FieldCapacity = "capacity"
	FieldLocation = "location"
	FieldStatus   = "status"
)

// Cache prefixes are exported so orders, which seat and free tables, can invalidate them.
const (
	CacheGet    = "table:get"
	CacheGetAll = "table:gets"
	CacheCount  = "table:count"
)

const (
	LocationIndoor   = "indoor"
	LocationOutdoor  = "outdoor"
	LocationRooftop  = "rooftop"
	LocationPoolside = "poolside"
)

const (
	StatusAvailable = "available"
	StatusOccupied  = "occupied"
	StatusReserved  = "reserved"
	StatusCleaning  = "cleaning"
)

type Table struct {
	ID       string `db:"id"`
	Number   string `db:"number"`
	Capacity int    `db:"capacity"`
	Location string `db:"location"`
	Status   string `db:"status"`
	model.Metadata
}
