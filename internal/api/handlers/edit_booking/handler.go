package edit_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/davm17/BLS-BookingService/internal/api/handlers"
	"github.com/davm17/BLS-BookingService/internal/api/middleware"
	usecase "github.com/davm17/BLS-BookingService/internal/usecase/edit_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgImmutable          = "отмененное бронирование нельзя изменить"
	msgExternalFailure    = "не удалось применить изменение во внешнем сервисе"
)

type Handler struct {
	useCase EditBookingUseCase
	logger  Logger
}

func NewHandler(useCase EditBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// validationResponse тело ответа при отклонении валидатором
type validationResponse struct {
	Code       int         `json:"code"`
	Message    string      `json:"message"`
	Violations interface{} `json:"violations"`
}

// Handle PUT /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем bookingId из URL
	vars := mux.Vars(r)
	bookingIDStr := vars["bookingId"]

	bookingID, err := strconv.ParseInt(bookingIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PUT /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /bookings/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Декодируем body
	var req EditBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest(bookingID, userID)
	if err != nil {
		h.logger.Warn("PUT /bookings/{id} - Invalid request fields: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	resp, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		var validationErr *usecase.ValidationError

		switch {
		case errors.As(err, &validationErr):
			h.logger.Warn("PUT /bookings/{id} - Validation rejected: booking_id=%d, violations=%d",
				bookingID, len(validationErr.Violations))
			handlers.RespondJSON(w, http.StatusUnprocessableEntity, validationResponse{
				Code:       http.StatusUnprocessableEntity,
				Message:    "изменение отклонено валидацией",
				Violations: validationErr.Violations,
			})

		case errors.Is(err, usecase.ErrInvalidInput):
			h.logger.Warn("PUT /bookings/{id} - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, usecase.ErrBookingNotFound),
			errors.Is(err, usecase.ErrProductNotFound),
			errors.Is(err, usecase.ErrOrderNotFound):
			h.logger.Warn("PUT /bookings/{id} - Not found: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, usecase.ErrAccessDenied):
			h.logger.Warn("PUT /bookings/{id} - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, usecase.ErrImmutableBooking):
			h.logger.Warn("PUT /bookings/{id} - Immutable booking: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgImmutable)

		case errors.Is(err, usecase.ErrExternalWrite):
			h.logger.Error("PUT /bookings/{id} - External write failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgExternalFailure)

		default:
			h.logger.Error("PUT /bookings/{id} - Failed to edit booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id} - Booking updated successfully: booking_id=%d, user_id=%d, changes=%v",
		bookingID, userID, resp.Changes)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
