// Package availability tracks which nights each room is held for, using one
// roaring bitmap of night numbers per booking and per room.
package availability

import (
	"errors"
	"sync"
	"time"

	"hotel/shared/constant"

	"github.com/RoaringBitmap/roaring"
)

var (
	ErrOverlap      = errors.New("room is already booked for the requested nights")
	ErrInvalidRange = errors.New("check-out must be after check-in")
)

// Night numbers a calendar date as days since the Unix epoch. Only the
// year/month/day of t in its own location are used.
func Night(t time.Time) uint32 {
	date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	return uint32(date.Unix() / int64(constant.HoursInDay*time.Hour/time.Second))
}

// Date converts a night number back to midnight UTC.
func Date(night uint32) time.Time {
	return time.Unix(int64(night)*int64(constant.HoursInDay*time.Hour/time.Second), 0).UTC()
}

// Range holds every night from checkIn up to but excluding checkOut.
func Range(checkIn, checkOut time.Time) (*roaring.Bitmap, error) {
	from, to := Night(checkIn), Night(checkOut)
	if to <= from {
		return nil, ErrInvalidRange
	}

	nights := roaring.New()
	nights.AddRange(uint64(from), uint64(to))

	return nights, nil
}

// Nights counts the nights between two dates, never less than zero.
func Nights(checkIn, checkOut time.Time) int {
	from, to := Night(checkIn), Night(checkOut)
	if to <= from {
		return 0
	}

	return int(to - from)
}

type hold struct {
	roomID string
	nights *roaring.Bitmap
}

// Index is safe for concurrent use.
type Index struct {
	mu    sync.RWMutex
	rooms map[string]*roaring.Bitmap
	holds map[string]hold
}

func NewIndex() *Index {
	return &Index{
		rooms: map[string]*roaring.Bitmap{},
		holds: map[string]hold{},
	}
}

// Reserve holds the nights for bookingID. Re-reserving the same booking
// replaces its previous hold, so date or room changes go through here too.
func (i *Index) Reserve(roomID, bookingID string, checkIn, checkOut time.Time) error {
	nights, err := Range(checkIn, checkOut)
	if err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	previous, had := i.holds[bookingID]
	if had {
		i.remove(bookingID, previous)
	}

	if booked, ok := i.rooms[roomID]; ok && booked.Intersects(nights) {
		if had {
			i.add(bookingID, previous)
		}

		return ErrOverlap
	}

	i.add(bookingID, hold{roomID: roomID, nights: nights})

	return nil
}

// Release drops the hold of bookingID, if any.
func (i *Index) Release(bookingID string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if previous, ok := i.holds[bookingID]; ok {
		i.remove(bookingID, previous)
	}
}

// Available reports whether roomID is free for every requested night,
// ignoring the hold of exceptBookingID when it is set.
func (i *Index) Available(roomID string, checkIn, checkOut time.Time, exceptBookingID string) (bool, error) {
	nights, err := Range(checkIn, checkOut)
	if err != nil {
		return false, err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	booked, ok := i.rooms[roomID]
	if !ok {
		return true, nil
	}

	if except, held := i.holds[exceptBookingID]; held && except.roomID == roomID {
		booked = roaring.AndNot(booked, except.nights)
	}

	return !booked.Intersects(nights), nil
}

// Occupied sums the held room-nights inside [from, to).
func (i *Index) Occupied(from, to time.Time) (uint64, error) {
	window, err := Range(from, to)
	if err != nil {
		return 0, err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	var total uint64

	for _, booked := range i.rooms {
		total += booked.AndCardinality(window)
	}

	return total, nil
}

// OccupiedOn lists the rooms held on the night of day.
func (i *Index) OccupiedOn(day time.Time) []string {
	night := Night(day)

	i.mu.RLock()
	defer i.mu.RUnlock()

	rooms := []string{}

	for roomID, booked := range i.rooms {
		if booked.Contains(night) {
			rooms = append(rooms, roomID)
		}
	}

	return rooms
}

func (i *Index) add(bookingID string, h hold) {
	booked, ok := i.rooms[h.roomID]
	if !ok {
		booked = roaring.New()
		i.rooms[h.roomID] = booked
	}

	booked.Or(h.nights)
	i.holds[bookingID] = h
}

func (i *Index) remove(bookingID string, h hold) {
	delete(i.holds, bookingID)

	booked, ok := i.rooms[h.roomID]
	if !ok {
		return
	}

	booked.AndNot(h.nights)

	if booked.IsEmpty() {
		delete(i.rooms, h.roomID)
	}
}
