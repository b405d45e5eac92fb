// Package model names the report caches. Reports own no table; they read
// rooms, bookings, orders, staff and payments.
package model

const (
	EntityName = "report"

	CacheDashboard = "report:dashboard"
	CacheRevenue   = "report:revenue"
	CacheOccupancy = "report:occupancy"
)
