package timezone_test

import (
	"testing"
	"time"

	"hotel/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useZone(t *testing.T, name string) {
	t.Helper()

	previous := timezone.GetLocation().String()

	require.NoError(t, timezone.SetLocation(name))
	t.Cleanup(func() { _ = timezone.SetLocation(previous) })
}

func TestSetLocation(t *testing.T) {
	useZone(t, "Asia/Kolkata")

	assert.Equal(t, "Asia/Kolkata", timezone.GetLocation().String())
	assert.Equal(t, "Asia/Kolkata", timezone.Now().Location().String())

	assert.Error(t, timezone.SetLocation("Mars/Olympus"))
	assert.Equal(t, "Asia/Kolkata", timezone.GetLocation().String())
}

func TestFormat(t *testing.T) {
	useZone(t, "Asia/Kolkata")

	at := time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-01-02 01:30", timezone.Format(at, "2006-01-02 15:04"))
}

func TestParseDate(t *testing.T) {
	useZone(t, "America/New_York")

	date, err := timezone.ParseDate("2025-03-10")
	require.NoError(t, err)

	assert.Equal(t, 10, date.Day())
	assert.Equal(t, 0, date.Hour())
	assert.Equal(t, "America/New_York", date.Location().String())

	_, err = timezone.ParseDate("10/03/2025")
	assert.Error(t, err)
}

func TestStartOfDay(t *testing.T) {
	useZone(t, "Asia/Kolkata")

	// 22:00 UTC is already the next morning in Kolkata.
	late := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	start := timezone.StartOfDay(late)

	assert.Equal(t, 11, start.Day())
	assert.Equal(t, 0, start.Hour())

	today := timezone.Today()
	assert.Equal(t, 0, today.Hour())
	assert.Equal(t, 0, today.Minute())
}
