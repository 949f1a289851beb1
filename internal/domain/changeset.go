package domain

import (
	"time"

	"github.com/davm17/BLS-BookingService/pkg/types"
)

// ChangeSet is the computed set of field-level differences between a
// booking's current and proposed state. Created per edit request,
// consumed within the same request, never persisted.
//
// A nil dimension means "unchanged"; a non-nil one carries the concrete
// before/after values needed for audit notes and reconciliation.
type ChangeSet struct {
	Quantity *QuantityChange
	Date     *DateChange
	Time     *TimeChange
	Resource *ResourceChange
	Persons  *PersonsChange
	Status   *StatusChange
	Price    *PriceChange
}

// QuantityChange before/after quantities
type QuantityChange struct {
	Old int
	New int
}

// DateChange before/after dates; end dates are zero for types without one
type DateChange struct {
	OldStart time.Time
	NewStart time.Time
	OldEnd   time.Time
	NewEnd   time.Time
}

// TimeChange before/after time slots and, for duration types, duration counts
type TimeChange struct {
	OldSlot     types.TimeSlot
	NewSlot     types.TimeSlot
	OldDuration int
	NewDuration int
}

// ResourceChange before/after resource identifiers
type ResourceChange struct {
	Old *int64
	New *int64
}

// PersonsChange before/after participant mappings
type PersonsChange struct {
	Old PersonMap
	New PersonMap
}

// StatusChange before/after statuses
type StatusChange struct {
	Old BookingStatus
	New BookingStatus
}

// PriceChange before/after line totals
type PriceChange struct {
	OldTotal float64
	NewTotal float64
}

// IsEmpty returns true if no dimension changed
func (c *ChangeSet) IsEmpty() bool {
	return c.Quantity == nil && c.Date == nil && c.Time == nil &&
		c.Resource == nil && c.Persons == nil && c.Status == nil && c.Price == nil
}

// HasScheduleChange returns true if the date or the time slot changed.
// A schedule change always requires releasing and re-creating the
// reservation entry.
func (c *ChangeSet) HasScheduleChange() bool {
	return c.Date != nil || c.Time != nil
}

// RequiresReallocation returns true if the held inventory has to be
// replaced: either the schedule changed or the booking is being cancelled.
func (c *ChangeSet) RequiresReallocation() bool {
	if c.HasScheduleChange() {
		return true
	}
	return c.Status != nil && c.Status.New == StatusCancelled
}

// HasInventoryChange returns true if any dimension other than status/price
// changed, i.e. the reservation or its denormalized line data must be synced.
func (c *ChangeSet) HasInventoryChange() bool {
	return c.Quantity != nil || c.Date != nil || c.Time != nil ||
		c.Resource != nil || c.Persons != nil
}
