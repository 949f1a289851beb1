package edit_booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davm17/BLS-BookingService/internal/domain"
	"github.com/davm17/BLS-BookingService/internal/integrations/catalogservice"
	"github.com/davm17/BLS-BookingService/pkg/ptr"
	"github.com/davm17/BLS-BookingService/pkg/types"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func singleDayBooking() *domain.Booking {
	return &domain.Booking{
		ID:          1,
		ProductID:   10,
		OrderID:     100,
		OrderItemID: 1000,
		CustomerID:  7,
		BookingType: domain.TypeSingleDay,
		StartDate:   date(2025, time.June, 10),
		EndDate:     date(2025, time.June, 10),
		Quantity:    2,
		Status:      domain.StatusPaid,
		Cost:        50,
	}
}

func TestDetect_NoChanges(t *testing.T) {
	booking := singleDayBooking()
	req := &Request{
		BookingID: 1,
		UserID:    7,
		Quantity:  ptr.Ptr(2),
	}

	changes := Detect(booking, req, &catalogservice.Product{})

	assert.True(t, changes.IsEmpty())
}

func TestDetect_QuantityChange(t *testing.T) {
	booking := singleDayBooking()
	req := &Request{Quantity: ptr.Ptr(3)}

	changes := Detect(booking, req, &catalogservice.Product{})

	require.NotNil(t, changes.Quantity)
	assert.Equal(t, 2, changes.Quantity.Old)
	assert.Equal(t, 3, changes.Quantity.New)
	assert.Nil(t, changes.Date)
	assert.False(t, changes.HasScheduleChange())
}

func TestDetect_MissingQuantityNormalizedToOne(t *testing.T) {
	booking := singleDayBooking() // quantity 2
	req := &Request{}

	changes := Detect(booking, req, &catalogservice.Product{})

	require.NotNil(t, changes.Quantity)
	assert.Equal(t, 1, changes.Quantity.New)
}

func TestDetect_DateComparedAtDayGranularity(t *testing.T) {
	booking := singleDayBooking()
	// Та же календарная дата с другим временем суток - не изменение
	sameDay := time.Date(2025, time.June, 10, 15, 30, 0, 0, time.UTC)
	req := &Request{
		StartDate: &sameDay,
		Quantity:  ptr.Ptr(2),
	}

	changes := Detect(booking, req, &catalogservice.Product{})

	assert.Nil(t, changes.Date)
}

func TestDetect_DateChange(t *testing.T) {
	booking := singleDayBooking()
	newStart := date(2025, time.June, 15)
	req := &Request{
		StartDate: &newStart,
		Quantity:  ptr.Ptr(2),
	}

	changes := Detect(booking, req, &catalogservice.Product{})

	require.NotNil(t, changes.Date)
	assert.Equal(t, date(2025, time.June, 10), changes.Date.OldStart)
	assert.Equal(t, newStart, changes.Date.NewStart)
	assert.True(t, changes.HasScheduleChange())
}

func TestDetect_MultiDayEndDateChange(t *testing.T) {
	booking := singleDayBooking()
	booking.BookingType = domain.TypeMultiDay
	booking.EndDate = date(2025, time.June, 12)

	newEnd := date(2025, time.June, 14)
	req := &Request{
		EndDate:  &newEnd,
		Quantity: ptr.Ptr(2),
	}

	changes := Detect(booking, req, &catalogservice.Product{})

	require.NotNil(t, changes.Date)
	assert.Equal(t, date(2025, time.June, 12), changes.Date.OldEnd)
	assert.Equal(t, newEnd, changes.Date.NewEnd)
}

func TestDetect_TimeSlotChange(t *testing.T) {
	booking := singleDayBooking()
	booking.BookingType = domain.TypeDateTime
	booking.TimeSlot = types.TimeSlot("10:00 - 12:00")

	newSlot := types.TimeSlot("14:00 - 16:00")
	req := &Request{
		TimeSlot: &newSlot,
		Quantity: ptr.Ptr(2),
	}

	changes := Detect(booking, req, &catalogservice.Product{})

	require.NotNil(t, changes.Time)
	assert.Equal(t, "10:00 - 12:00", changes.Time.OldSlot.String())
	assert.Equal(t, "14:00 - 16:00", changes.Time.NewSlot.String())
}

func TestDetect_DurationChangeRebuildsSlot(t *testing.T) {
	booking := singleDayBooking()
	booking.BookingType = domain.TypeDurationTime
	booking.TimeSlot = types.TimeSlot("10:00 - 12:00")
	booking.Duration = 2

	product := &catalogservice.Product{
		DurationSettings: &catalogservice.DurationSettings{Duration: 1, Unit: "hours"},
	}

	req := &Request{
		Duration: ptr.Ptr(3),
		Quantity: ptr.Ptr(2),
	}

	changes := Detect(booking, req, product)

	require.NotNil(t, changes.Time)
	assert.Equal(t, "10:00 - 13:00", changes.Time.NewSlot.String())
	assert.Equal(t, 2, changes.Time.OldDuration)
	assert.Equal(t, 3, changes.Time.NewDuration)
}

func TestDetect_ResourceOnlyWhenSupplied(t *testing.T) {
	booking := singleDayBooking()
	booking.ResourceID = ptr.Ptr(int64(5))

	t.Run("field absent", func(t *testing.T) {
		changes := Detect(booking, &Request{Quantity: ptr.Ptr(2)}, &catalogservice.Product{})
		assert.Nil(t, changes.Resource)
	})

	t.Run("same resource", func(t *testing.T) {
		req := &Request{ResourceID: ptr.Ptr(int64(5)), Quantity: ptr.Ptr(2)}
		changes := Detect(booking, req, &catalogservice.Product{})
		assert.Nil(t, changes.Resource)
	})

	t.Run("different resource", func(t *testing.T) {
		req := &Request{ResourceID: ptr.Ptr(int64(6)), Quantity: ptr.Ptr(2)}
		changes := Detect(booking, req, &catalogservice.Product{})
		require.NotNil(t, changes.Resource)
		assert.Equal(t, int64(5), *changes.Resource.Old)
		assert.Equal(t, int64(6), *changes.Resource.New)
	})
}

func TestDetect_PersonsStructuralEquality(t *testing.T) {
	booking := singleDayBooking()
	booking.Persons = domain.PersonMap{1: 2, 2: 1}

	t.Run("equal mapping", func(t *testing.T) {
		req := &Request{
			Persons:  domain.PersonMap{1: 2, 2: 1},
			Quantity: ptr.Ptr(2),
		}
		changes := Detect(booking, req, &catalogservice.Product{})
		assert.Nil(t, changes.Persons)
	})

	t.Run("changed counts", func(t *testing.T) {
		req := &Request{
			Persons:  domain.PersonMap{1: 3, 2: 1},
			Quantity: ptr.Ptr(2),
		}
		changes := Detect(booking, req, &catalogservice.Product{})
		require.NotNil(t, changes.Persons)
		assert.Equal(t, 3, changes.Persons.New[1])
	})

	t.Run("aggregate count", func(t *testing.T) {
		booking := singleDayBooking()
		booking.Persons = domain.PersonMap{domain.AggregatePersonKey: 4}

		req := &Request{
			Persons:  domain.PersonMap{domain.AggregatePersonKey: 5},
			Quantity: ptr.Ptr(2),
		}
		changes := Detect(booking, req, &catalogservice.Product{})
		require.NotNil(t, changes.Persons)
		assert.True(t, changes.Persons.New.IsAggregate())
	})
}

func TestDetect_StatusChange(t *testing.T) {
	booking := singleDayBooking()
	req := &Request{
		Status:   ptr.Ptr(domain.StatusCancelled),
		Quantity: ptr.Ptr(2),
	}

	changes := Detect(booking, req, &catalogservice.Product{})

	require.NotNil(t, changes.Status)
	assert.Equal(t, domain.StatusPaid, changes.Status.Old)
	assert.Equal(t, domain.StatusCancelled, changes.Status.New)
	assert.True(t, changes.RequiresReallocation())
}

func TestDetect_CombinedChanges(t *testing.T) {
	booking := singleDayBooking()
	booking.BookingType = domain.TypeDateTime
	booking.TimeSlot = types.TimeSlot("10:00 - 12:00")

	newStart := date(2025, time.June, 20)
	newSlot := types.TimeSlot("16:00 - 18:00")
	req := &Request{
		StartDate: &newStart,
		TimeSlot:  &newSlot,
		Quantity:  ptr.Ptr(4),
	}

	changes := Detect(booking, req, &catalogservice.Product{})

	assert.NotNil(t, changes.Date)
	assert.NotNil(t, changes.Time)
	assert.NotNil(t, changes.Quantity)
	assert.True(t, changes.HasScheduleChange())
	assert.True(t, changes.HasInventoryChange())
}
