package cancel_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/davm17/BLS-BookingService/internal/api/handlers"
	"github.com/davm17/BLS-BookingService/internal/api/middleware"
	usecase "github.com/davm17/BLS-BookingService/internal/usecase/cancel_booking"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "бронирование не найдено"
	msgForbidden        = "доступ запрещен"
	msgAlreadyCancelled = "бронирование уже отменено"
	msgNotCancellable   = "бронирование не может быть отменено"
	msgExternalFailure  = "не удалось применить отмену во внешнем сервисе"
)

type Handler struct {
	useCase CancelBookingUseCase
	logger  Logger
}

func NewHandler(useCase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем bookingId из URL
	vars := mux.Vars(r)
	bookingIDStr := vars["bookingId"]

	bookingID, err := strconv.ParseInt(bookingIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), &usecase.Request{
		BookingID: bookingID,
		UserID:    userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, usecase.ErrBookingNotFound),
			errors.Is(err, usecase.ErrProductNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Not found: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, usecase.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, usecase.ErrAlreadyCancelled):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Already cancelled: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgAlreadyCancelled)

		case errors.Is(err, usecase.ErrNotCancellable):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Not cancellable: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgNotCancellable)

		case errors.Is(err, usecase.ErrExternalWrite):
			h.logger.Error("PATCH /bookings/{id}/cancel - External write failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgExternalFailure)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed to cancel booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled successfully: booking_id=%d, user_id=%d, refund=%t",
		bookingID, userID, resp.RefundInitiated)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
