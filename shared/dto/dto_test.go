package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"hotel/shared/constant"
	"hotel/shared/dto"
	"hotel/shared/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_FromModel(t *testing.T) {
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	modified := created.Add(26 * time.Hour)

	var metadata dto.Metadata
	metadata.FromModel(model.Metadata{
		CreatedAt:  created,
		CreatedBy:  "frontdesk@hotel.test",
		ModifiedAt: modified,
	})

	parsedCreated, err := time.Parse(constant.DateFormat, metadata.CreatedAt)
	require.NoError(t, err)
	assert.True(t, parsedCreated.Equal(created))

	parsedModified, err := time.Parse(constant.DateFormat, metadata.ModifiedAt)
	require.NoError(t, err)
	assert.True(t, parsedModified.Equal(modified))

	assert.Equal(t, "frontdesk@hotel.test", metadata.CreatedBy)
	assert.Empty(t, metadata.ModifiedBy)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		withDefaults bool
		expected     dto.QueryParams
	}{
		{
			name:     "all parameters",
			query:    "page=2&limit=20&sort_by=check_in&sort_dir=asc",
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "check_in", SortDir: dto.SortDirAsc},
		},
		{
			name:         "defaults",
			withDefaults: true,
			expected:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "nothing without defaults",
			expected: dto.QueryParams{},
		},
		{
			name:         "garbage page and limit",
			query:        "page=abc&limit=-4",
			withDefaults: true,
			expected:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:         "limit is capped",
			query:        "limit=5000",
			withDefaults: true,
			expected:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.MaxValueLimit},
		},
		{
			name:     "unknown sort direction is dropped",
			query:    "sort_by=total&sort_dir=sideways",
			expected: dto.QueryParams{SortBy: "total"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/bookings?"+tt.query, nil)

			var params dto.QueryParams
			params.FromRequest(req, tt.withDefaults)

			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestQueryParams_Offset(t *testing.T) {
	assert.Equal(t, 0, (&dto.QueryParams{}).Offset())
	assert.Equal(t, 0, (&dto.QueryParams{Page: 1, Limit: 10}).Offset())
	assert.Equal(t, 40, (&dto.QueryParams{Page: 3, Limit: 20}).Offset())
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name   string
		filter dto.Filter
		where  string
		args   map[string]any
	}{
		{
			name:   "equality with table",
			filter: dto.Filter{Field: "status", Operator: dto.FilterOperatorEq, Value: "confirmed", Table: "bookings"},
			where:  "bookings.status = :status",
			args:   map[string]any{"status": "confirmed"},
		},
		{
			name:   "custom arg name",
			filter: dto.Filter{Field: "check_in", ArgName: "from", Operator: dto.FilterOperatorGreaterEq, Value: "2025-01-01"},
			where:  "check_in >= :from",
			args:   map[string]any{"from": "2025-01-01"},
		},
		{
			name:   "like wraps the value",
			filter: dto.Filter{Field: "name", Operator: dto.FilterOperatorLike, Value: "ana"},
			where:  "LOWER(name) LIKE LOWER(:name)",
			args:   map[string]any{"name": "%ana%"},
		},
		{
			name:   "in expands slices",
			filter: dto.Filter{Field: "status", Operator: dto.FilterOperatorIn, Value: []string{"pending", "confirmed"}},
			where:  "status IN (:status_0, :status_1)",
			args:   map[string]any{"status_0": "pending", "status_1": "confirmed"},
		},
		{
			name:   "empty in matches nothing",
			filter: dto.Filter{Field: "status", Operator: dto.FilterOperatorIn, Value: []string{}},
			where:  "FALSE",
			args:   map[string]any{},
		},
		{
			name:   "is null",
			filter: dto.Filter{Field: "booking_id", Operator: dto.FilterIsNull},
			where:  "booking_id IS NULL",
			args:   map[string]any{},
		},
		{
			name:   "unknown operator",
			filter: dto.Filter{Field: "x", Operator: "between"},
			where:  "",
			args:   map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.where, where)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.And(
		dto.Filter{Field: "status", Operator: dto.FilterOperatorNotEq, Value: "cancelled"},
		dto.Search("guests", "lee", "name", "email"),
		dto.Filter{Field: "x", Operator: "between"},
	)

	where, args := group.GetWhereClause()

	assert.Equal(t,
		"(status != :status AND (LOWER(guests.name) LIKE LOWER(:search_name) OR LOWER(guests.email) LIKE LOWER(:search_email)))",
		where,
	)
	assert.Equal(t, map[string]any{
		"status":       "cancelled",
		"search_name":  "%lee%",
		"search_email": "%lee%",
	}, args)
}

func TestFilterGroup_Empty(t *testing.T) {
	group := dto.And()

	where, args := group.GetWhereClause()

	assert.Empty(t, where)
	assert.Empty(t, args)
}
