// Package timezone pins every clock read and date parse to the hotel's local zone.
//
// Stays are counted in nights, so "today" and a YYYY-MM-DD check-in date must mean
// the same calendar day at the front desk regardless of where the server runs:
//
//	today := timezone.Today()                       // midnight, hotel time
//	checkIn, err := timezone.ParseDate("2025-03-10") // midnight, hotel time
//	nights := int(checkOut.Sub(checkIn).Hours() / 24)
//
// The zone starts from APP_TIMEZONE (an IANA name such as "Asia/Kolkata"). An unknown
// or empty name falls back to UTC. Saving the timezone setting calls SetLocation.
package timezone
