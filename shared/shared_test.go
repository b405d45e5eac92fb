package shared_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"hotel/shared"
	"hotel/shared/constant"
	"hotel/shared/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertStringToBool(t *testing.T) {
	assert.Nil(t, shared.ConvertStringToBool(""))
	assert.Nil(t, shared.ConvertStringToBool("vip"))

	for _, raw := range []string{"true", "1", "T"} {
		value := shared.ConvertStringToBool(raw)
		require.NotNil(t, value, raw)
		assert.True(t, *value, raw)
	}

	for _, raw := range []string{"false", "0", "F"} {
		value := shared.ConvertStringToBool(raw)
		require.NotNil(t, value, raw)
		assert.False(t, *value, raw)
	}
}

func TestConvertStringToInt(t *testing.T) {
	value, err := shared.ConvertStringToInt(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, 12, value)

	_, err = shared.ConvertStringToInt("twelve")
	assert.Error(t, err)
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{total: 0, limit: 10, want: 1},
		{total: 25, limit: 0, want: 1},
		{total: 10, limit: 10, want: 1},
		{total: 11, limit: 10, want: 2},
		{total: 99, limit: 25, want: 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, shared.CalculateTotalPage(tt.total, tt.limit), "total=%d limit=%d", tt.total, tt.limit)
	}
}

type roomPatch struct {
	Status   string  `db:"status"`
	Floor    int     `db:"floor"`
	Price    float64 `db:"price"`
	Notes    *string `db:"notes"`
	Internal string
}

func TestTransformFields(t *testing.T) {
	notes := "sea view"
	before := time.Now()

	fields := shared.TransformFields(roomPatch{Status: "maintenance", Notes: &notes, Internal: "x"}, "manager-1")

	assert.Equal(t, "maintenance", fields["status"])
	assert.Equal(t, &notes, fields["notes"])
	assert.NotContains(t, fields, "floor")
	assert.NotContains(t, fields, "price")
	assert.NotContains(t, fields, "Internal")
	assert.Equal(t, "manager-1", fields[constant.FieldModifiedBy])

	modified, ok := fields[constant.FieldModifiedAt].(time.Time)
	require.True(t, ok)
	assert.False(t, modified.Before(before.Add(-time.Second)))
}

func TestTransformFields_OnlyAudit(t *testing.T) {
	fields := shared.TransformFields(roomPatch{}, "staff-7")

	assert.Len(t, fields, 2)
	assert.Equal(t, "staff-7", fields[constant.FieldModifiedBy])
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("r-101", constant.FieldID, "rooms")

	where, args := group.GetWhereClause()

	assert.Equal(t, "(rooms.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "r-101"}, args)
	assert.Equal(t, dto.FilterGroupOperatorAnd, group.Operator)
}

func TestFilterByField(t *testing.T) {
	group := shared.FilterByField("booking_id", "b-1")
	where, args := group.GetWhereClause()

	assert.Equal(t, "(booking_id = :booking_id)", where)
	assert.Equal(t, map[string]any{"booking_id": "b-1"}, args)
}

func TestActor(t *testing.T) {
	assert.Equal(t, constant.System, shared.Actor(context.Background()))

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-9")
	assert.Equal(t, "user-9", shared.Actor(ctx))
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "rooms", shared.BuildCacheKey("rooms"))
	assert.Equal(t, "rooms:id:r-1", shared.BuildCacheKey("rooms", "id", "r-1"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 2, Limit: 10, SortBy: "number", SortDir: dto.SortDirAsc}
	vacant := shared.FilterByField(constant.FieldStatus, "available")
	occupied := shared.FilterByField(constant.FieldStatus, "occupied")

	first := shared.BuildCacheKeyWithQuery("rooms:list", params, vacant)

	assert.Equal(t, first, shared.BuildCacheKeyWithQuery("rooms:list", params, vacant))
	assert.NotEqual(t, first, shared.BuildCacheKeyWithQuery("rooms:list", params, occupied))
	assert.Regexp(t, `^rooms:list:2:10:number:ASC:`, first)
}

func TestGenerateReference(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	first := shared.GenerateReference("BK", at)
	second := shared.GenerateReference("BK", at)

	assert.Regexp(t, regexp.MustCompile(`^BK-20250310-[0-9A-F]{6}$`), first)
	assert.NotEqual(t, first, second)
}
