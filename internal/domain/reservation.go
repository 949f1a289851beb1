package domain

import (
	"time"

	"github.com/davm17/BLS-BookingService/pkg/types"
)

// ReservationEntry identifies one unit of held capacity for a
// product/resource/time window, linked to one order in the external
// reservation store. Multiple entries can exist per order
// (e.g. multi-date bookings), so a lookup by order is not unique.
type ReservationEntry struct {
	ID         int64
	ProductID  int64
	ResourceID *int64
	StartDate  time.Time
	EndDate    time.Time
	FromTime   types.TimeString
	ToTime     types.TimeString
	Quantity   int
	CreatedAt  time.Time
}

// Slot returns the entry's time window as a slot string,
// the same shape the order line meta stores.
func (e *ReservationEntry) Slot() types.TimeSlot {
	if e.FromTime.IsZero() {
		return ""
	}
	return types.NewTimeSlot(e.FromTime, e.ToTime)
}

// Matches reports whether this entry holds the capacity for the booking's
// current window. The composite key depends on the booking type: date only,
// date range for multi-day, date plus time slot for time-based types,
// date plus duration window for duration types.
func (e *ReservationEntry) Matches(b *Booking) bool {
	if !sameCalendarDay(e.StartDate, b.StartDate) {
		return false
	}

	switch b.BookingType {
	case TypeMultiDay:
		return sameCalendarDay(e.EndDate, b.EndDate)
	case TypeDateTime, TypeMultidatesFixedTime:
		return e.Slot() == b.TimeSlot
	case TypeDurationTime:
		return e.FromTime == b.TimeSlot.From() && e.ToTime == b.TimeSlot.To()
	default:
		return true
	}
}

// MatchEntry returns the first entry matching the booking's current window
// and the total number of structural matches. More than one match is
// possible when an order holds identical windows; the first one in stored
// order wins and the caller should log the ambiguity.
func MatchEntry(entries []*ReservationEntry, b *Booking) (*ReservationEntry, int) {
	var first *ReservationEntry
	matches := 0

	for _, entry := range entries {
		if entry.Matches(b) {
			if first == nil {
				first = entry
			}
			matches++
		}
	}

	return first, matches
}

// sameCalendarDay compares two timestamps at day granularity
func sameCalendarDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
