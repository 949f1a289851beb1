package domain

import (
	"time"

	"github.com/davm17/BLS-BookingService/pkg/types"
)

// BookingStatus represents the status of a booking.
// The set mirrors the statuses of the external order system;
// "cancelled" is terminal for edit purposes.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusPaid      BookingStatus = "paid"
	StatusComplete  BookingStatus = "complete"
	StatusCancelled BookingStatus = "cancelled"
)

// BookingType determines which time fields of a booking are meaningful.
type BookingType string

const (
	TypeSingleDay           BookingType = "single_day"
	TypeMultiDay            BookingType = "multi_day"
	TypeDateTime            BookingType = "date_time"
	TypeMultidates          BookingType = "multidates"
	TypeMultidatesFixedTime BookingType = "multidates_fixed_time"
	TypeDurationTime        BookingType = "duration_time"
)

// IsValid reports whether t is one of the known booking types
func (t BookingType) IsValid() bool {
	switch t {
	case TypeSingleDay, TypeMultiDay, TypeDateTime,
		TypeMultidates, TypeMultidatesFixedTime, TypeDurationTime:
		return true
	}
	return false
}

// HasTimeSlot reports whether bookings of this type carry a time slot
func (t BookingType) HasTimeSlot() bool {
	return t == TypeDateTime || t == TypeMultidatesFixedTime || t == TypeDurationTime
}

// HasEndDate reports whether bookings of this type carry a separate end date
func (t BookingType) HasEndDate() bool {
	return t == TypeMultiDay
}

// Booking represents a reservation of a bookable product for a time window,
// quantity, resource and set of participants, linked to a commercial order.
type Booking struct {
	ID          int64
	ProductID   int64
	OrderID     int64
	OrderItemID int64
	CustomerID  int64

	BookingType BookingType
	StartDate   time.Time      // date component; for time-based types the time slot carries the hours
	EndDate     time.Time      // meaningful for multi_day and duration_time, otherwise equals StartDate
	TimeSlot    types.TimeSlot // "HH:MM - HH:MM" for time-based types, empty otherwise
	Duration    int            // selected duration count for duration_time, 0 otherwise

	Quantity   int
	ResourceID *int64
	Persons    PersonMap

	Status BookingStatus
	Cost   float64 // derived; the order ledger is authoritative for money

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCancelled returns true if the booking is in the terminal cancelled state
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsPaid returns true if the booking is in a settled state
func (b *Booking) IsPaid() bool {
	return b.Status == StatusPaid
}

// StartAt returns the exact start moment of the booking: the start date
// combined with the slot start time for time-based types.
func (b *Booking) StartAt() time.Time {
	start := time.Date(b.StartDate.Year(), b.StartDate.Month(), b.StartDate.Day(),
		0, 0, 0, 0, b.StartDate.Location())

	if b.BookingType.HasTimeSlot() && !b.TimeSlot.IsZero() {
		if at, err := b.TimeSlot.From().On(start); err == nil {
			return at
		}
	}

	return start
}

// SecondsUntilStart returns the number of seconds between now and the
// booking's start. Negative if the booking has already started.
func (b *Booking) SecondsUntilStart(now time.Time) int64 {
	return int64(b.StartAt().Sub(now) / time.Second)
}

// Days returns the length of the booking in days (at least 1);
// only multi-day bookings span more than one.
func (b *Booking) Days() int {
	if b.BookingType != TypeMultiDay || b.EndDate.IsZero() {
		return 1
	}
	days := int(b.EndDate.Sub(b.StartDate).Hours()/24 + 0.5)
	if days < 1 {
		return 1
	}
	return days
}
