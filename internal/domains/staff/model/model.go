package model

import (
	"time"

	"hotel/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "staff"
	EntityName = "staff"

	FieldID         = "id"
	FieldFullName   = "full_name"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldPosition   = "position"
	FieldDepartment = "department"
	FieldSalary     = "salary"
	FieldShift      = "shift"
	FieldStatus     = "status"
	FieldJoinDate   = "join_date"
)

const (
	CacheGet    = "staff:get"
	CacheGetAll = "staff:gets"
	CacheCount  = "staff:count"
)

const (
	DepartmentFrontOffice  = "front-office"
	DepartmentHousekeeping = "housekeeping"
	DepartmentKitchen      = "kitchen"
	DepartmentMaintenance  = "maintenance"
	DepartmentManagement   = "management"
	DepartmentSecurity     = "security"
)

const (
	ShiftMorning = "morning"
	ShiftEvening = "evening"
	ShiftNight   = "night"
)

const (
	StatusActive   = "active"
	StatusOnLeave  = "on-leave"
	StatusInactive = "inactive"
)

type Staff struct {
	ID         string          `db:"id"`
	FullName   string          `db:"full_name"`
	Email      string          `db:"email"`
	Phone      string          `db:"phone"`
	Position   string          `db:"position"`
	Department string          `db:"department"`
	Salary     decimal.Decimal `db:"salary"`
	Shift      string          `db:"shift"`
	Status     string          `db:"status"`
	JoinDate   time.Time       `db:"join_date"`
	model.Metadata
}
