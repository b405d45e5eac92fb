// Package constant holds names shared across layers: context keys, roles,
// column names, request parameters and formats.
package constant

import "time"

type contextKey string

// Keys the auth middleware stores on the request context.
const (
	ContextKeyUserID    contextKey = "user_id"
	ContextKeyUserEmail contextKey = "user_email"
	ContextKeyUserRole  contextKey = "user_role"
	ContextKeyTokenID   contextKey = "token_id"
)

// System roles seeded by the first migration. Custom roles live only in the roles table.
const (
	RoleAdmin        = "admin"
	RoleManager      = "manager"
	RoleReceptionist = "receptionist"
	RoleStaff        = "staff"
)

// Audit actors used when no user is on the context.
const (
	System           = "system"
	SelfRegistration = "self-registration"
)

const (
	FieldID         = "id"
	FieldStatus     = "status"
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
)

const (
	PqErrorCodeUniqueViolation = "23505"
	PqErrorCodeFkViolation     = "23503"
	PqErrorCodeExclusion       = "23P01"
)

const (
	DateFormat     = time.RFC3339
	DateOnlyFormat = time.DateOnly
	CompactDate    = "20060102"

	MinutesToSeconds = 60
	HoursInDay       = 24
)

const (
	Asterix = "*"
	Empty   = ""
)
