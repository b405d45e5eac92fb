package model

import (
	"hotel/shared/model"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID            = "id"
	FieldNumber        = "number"
	FieldType          = "type"
	FieldFloor         = "floor"
	FieldCapacity      = "capacity"
	FieldPricePerNight = "price_per_night"
	FieldStatus        = "status"
	FieldAmenities     = "amenities"
	FieldDescription   = "description"
	FieldImage         = "image"
	FieldActive        = "active"
)

// Cache prefixes are exported so services that move room status can invalidate them.
const (
	CacheGet    = "room:get"
	CacheGetAll = "room:gets"
	CacheCount  = "room:count"
)

const (
	StatusAvailable   = "available"
	StatusOccupied    = "occupied"
	StatusReserved    = "reserved"
	StatusMaintenance = "maintenance"
	StatusCleaning    = "cleaning"
)

const (
	TypeSingle = "single"
	TypeDouble = "double"
	TypeDeluxe = "deluxe"
	TypeSuite  = "suite"
	TypeFamily = "family"
)

type Room struct {
	ID            string          `db:"id"`
	Number        string          `db:"number"`
	Type          string          `db:"type"`
	Floor         int             `db:"floor"`
	Capacity      int             `db:"capacity"`
	PricePerNight decimal.Decimal `db:"price_per_night"`
	Status        string          `db:"status"`
	Amenities     pq.StringArray  `db:"amenities"`
	Description   string          `db:"description"`
	Image         string          `db:"image"`
	Active        bool            `db:"active"`
	model.Metadata
}
