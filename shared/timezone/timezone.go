package timezone

import (
	"fmt"
	"sync/atomic"
	"time"

	"hotel/config"

	"github.com/rs/zerolog/log"
)

const fallbackZone = "UTC"

var current atomic.Pointer[time.Location]

func init() {
	name := config.Get().App.Timezone
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")

		name = fallbackZone
	}

	if err := SetLocation(name); err != nil {
		log.Error().
			Err(err).
			Str("timezone", name).
			Msg("Failed to load timezone, falling back to UTC. Use IANA names like 'Asia/Kolkata' or 'Europe/Paris'")

		current.Store(time.UTC)
	}
}

// SetLocation switches the hotel zone, e.g. after the timezone setting changes.
func SetLocation(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("unknown timezone %q: %w", name, err)
	}

	current.Store(loc)
	log.Info().Str("timezone", loc.String()).Msg("Application timezone set")

	return nil
}

// GetLocation returns the hotel zone, UTC until one is set.
func GetLocation() *time.Location {
	if loc := current.Load(); loc != nil {
		return loc
	}

	return time.UTC
}

func Now() time.Time {
	return time.Now().In(GetLocation())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// Parse reads value in the hotel zone unless the layout carries an offset.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation())
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// ParseDate reads a YYYY-MM-DD date as midnight hotel time.
func ParseDate(value string) (time.Time, error) {
	return Parse(time.DateOnly, value)
}

func StartOfDay(t time.Time) time.Time {
	local := ToAppTime(t)

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

// Today is midnight of the current hotel day.
func Today() time.Time {
	return StartOfDay(Now())
}
