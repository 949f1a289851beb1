package edit_booking

import (
	"fmt"
	"time"

	"github.com/davm17/BLS-BookingService/internal/domain"
	usecase "github.com/davm17/BLS-BookingService/internal/usecase/edit_booking"
	"github.com/davm17/BLS-BookingService/pkg/types"
)

// EditBookingRequest HTTP request model.
// Непереданные поля не меняются (кроме количества: отсутствующее
// количество считается равным 1).
type EditBookingRequest struct {
	StartDate     *string       `json:"startDate,omitempty"` // "2025-06-10"
	EndDate       *string       `json:"endDate,omitempty"`
	TimeSlot      *string       `json:"timeSlot,omitempty"` // "10:00 - 12:00"
	Duration      *int          `json:"duration,omitempty"`
	Quantity      *int          `json:"quantity,omitempty"`
	ResourceID    *int64        `json:"resourceId,omitempty"`
	Persons       map[int64]int `json:"persons,omitempty"`
	Status        *string       `json:"status,omitempty"`
	ChargedAmount *float64      `json:"chargedAmount,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель usecase
func (r *EditBookingRequest) ToUseCaseRequest(bookingID, userID int64) (*usecase.Request, error) {
	req := &usecase.Request{
		BookingID:     bookingID,
		UserID:        userID,
		Duration:      r.Duration,
		Quantity:      r.Quantity,
		ResourceID:    r.ResourceID,
		ChargedAmount: r.ChargedAmount,
	}

	if r.StartDate != nil {
		parsed, err := time.Parse(domain.DateFormat, *r.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate %q", *r.StartDate)
		}
		req.StartDate = &parsed
	}

	if r.EndDate != nil {
		parsed, err := time.Parse(domain.DateFormat, *r.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate %q", *r.EndDate)
		}
		req.EndDate = &parsed
	}

	if r.TimeSlot != nil {
		slot := types.TimeSlot(*r.TimeSlot)
		req.TimeSlot = &slot
	}

	if r.Persons != nil {
		req.Persons = domain.PersonMap(r.Persons)
	}

	if r.Status != nil {
		status := domain.BookingStatus(*r.Status)
		req.Status = &status
	}

	return req, nil
}
