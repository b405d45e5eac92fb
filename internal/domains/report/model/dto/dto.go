package dto

import (
	"time"

	"hotel/shared/constant"
	"hotel/shared/money"
	"hotel/shared/timezone"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type DashboardResponse struct {
	TotalRooms      int             `json:"total_rooms"`
	RoomsByStatus   map[string]int  `json:"rooms_by_status"`
	OccupiedTonight int             `json:"occupied_tonight"`
	OccupancyRate   decimal.Decimal `json:"occupancy_rate"`
	CheckInsToday   int             `json:"check_ins_today"`
	CheckOutsToday  int             `json:"check_outs_today"`
	PendingBookings int             `json:"pending_bookings"`
	ActiveOrders    int             `json:"active_orders"`
	ActiveStaff     int             `json:"active_staff"`
	RevenueToday    decimal.Decimal `json:"revenue_today"`
	RevenueMonth    decimal.Decimal `json:"revenue_month"`
}

type DailyRevenue struct {
	Date     string          `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Payments int             `json:"payments"`
}

type MethodRevenue struct {
	Method   string          `json:"method"`
	Amount   decimal.Decimal `json:"amount"`
	Payments int             `json:"payments"`
}

type RevenueResponse struct {
	From     string          `json:"from"`
	To       string          `json:"to"`
	Total    decimal.Decimal `json:"total"`
	Days     []DailyRevenue  `json:"days"`
	Methods  []MethodRevenue `json:"methods"`
	Payments int             `json:"payments"`
}

type NightOccupancy struct {
	Date     string          `json:"date"`
	Occupied int             `json:"occupied"`
	Rate     decimal.Decimal `json:"rate"`
}

type OccupancyResponse struct {
	From        string           `json:"from"`
	To          string           `json:"to"`
	Rooms       int              `json:"rooms"`
	RoomNights  uint64           `json:"room_nights"`
	AverageRate decimal.Decimal  `json:"average_rate"`
	Nights      []NightOccupancy `json:"nights"`
}

// Rate is part out of whole as a percentage with two decimals, zero when whole is zero.
func Rate(part, whole int64) decimal.Decimal {
	if whole <= 0 {
		return decimal.Zero
	}

	return money.Round(decimal.NewFromInt(part).Mul(hundred).Div(decimal.NewFromInt(whole)))
}

// Day formats a calendar day the way every report keys it.
func Day(t time.Time) string {
	return timezone.Format(t, constant.DateOnlyFormat)
}
