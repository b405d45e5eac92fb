package model

import (
	"hotel/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "roles"
	EntityName = "role"

	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldPermissions = "permissions"
	FieldIsSystem    = "is_system"
)

// CacheList holds the whole role table, read by the roles page on every load.
const (
	CacheGet  = "role:get"
	CacheList = "role:list"
)

type Role struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	Permissions pq.StringArray `db:"permissions"`
	IsSystem    bool           `db:"is_system"`
	model.Metadata
}
