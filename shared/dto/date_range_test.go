package dto_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRange_FromRequest(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantFrom string
		wantTo   string
		wantDays int
		wantCode int
	}{
		{name: "explicit bounds", query: "from=2025-03-01&to=2025-03-31", wantFrom: "2025-03-01", wantTo: "2025-03-31", wantDays: 31},
		{name: "single day", query: "from=2025-03-10&to=2025-03-10", wantFrom: "2025-03-10", wantTo: "2025-03-10", wantDays: 1},
		{name: "only to", query: "to=2025-03-07", wantFrom: "2025-03-01", wantTo: "2025-03-07", wantDays: 7},
		{name: "bad format", query: "from=10-03-2025", wantCode: http.StatusBadRequest},
		{name: "reversed", query: "from=2025-03-10&to=2025-03-01", wantCode: http.StatusBadRequest},
		{name: "a full leap year", query: "from=2024-01-01&to=2024-12-31", wantFrom: "2024-01-01", wantTo: "2024-12-31", wantDays: 366},
		{name: "longer than a year", query: "from=2024-01-01&to=2025-01-01", wantCode: http.StatusBadRequest},
		{name: "decades", query: "from=1970-01-01&to=2100-12-31", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/v1/reports/revenue?"+tt.query, nil)

			var dateRange dto.DateRange

			err := dateRange.FromRequest(r, 7)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantFrom, timezone.Format(dateRange.From, "2006-01-02"))
			assert.Equal(t, tt.wantTo, timezone.Format(dateRange.To, "2006-01-02"))
			assert.Equal(t, tt.wantDays, dateRange.Days())
		})
	}
}

func TestDateRange_Defaults(t *testing.T) {
	var dateRange dto.DateRange

	require.NoError(t, dateRange.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil), 30))
	assert.Equal(t, timezone.Today(), dateRange.To)
	assert.Equal(t, 30, dateRange.Days())
}

func TestDateRange_Filters(t *testing.T) {
	from, err := timezone.ParseDate("2025-03-01")
	require.NoError(t, err)

	dateRange := dto.DateRange{From: from, To: from.AddDate(0, 0, 2)}

	group := dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd, Filters: dateRange.Filters("paid_at", "payments")}
	clause, args := group.GetWhereClause()

	assert.Contains(t, clause, "payments.paid_at >= :paid_at_from")
	assert.Contains(t, clause, "payments.paid_at < :paid_at_to")
	assert.Equal(t, from, args["paid_at_from"])
	assert.Equal(t, from.AddDate(0, 0, 3), args["paid_at_to"])
}
