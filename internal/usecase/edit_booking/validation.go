package edit_booking

import (
	"fmt"

	"github.com/davm17/BLS-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.StartDate != nil && req.StartDate.IsZero() {
		return fmt.Errorf("%w: startDate must not be empty", ErrInvalidInput)
	}

	if req.EndDate != nil && req.EndDate.IsZero() {
		return fmt.Errorf("%w: endDate must not be empty", ErrInvalidInput)
	}

	if req.TimeSlot != nil {
		if err := req.TimeSlot.Validate(); err != nil {
			return fmt.Errorf("%w: invalid timeSlot format: %v", ErrInvalidInput, err)
		}
	}

	if req.Status != nil && !statusKnown(*req.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
	}

	if req.ChargedAmount != nil && *req.ChargedAmount < 0 {
		return fmt.Errorf("%w: chargedAmount must not be negative", ErrInvalidInput)
	}

	return nil
}

// statusKnown проверяет, что статус из запроса известен сервису
func statusKnown(status domain.BookingStatus) bool {
	switch status {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusPaid,
		domain.StatusComplete, domain.StatusCancelled:
		return true
	}
	return false
}
