package get_order_bookings

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/davm17/BLS-BookingService/internal/api/handlers"
)

const (
	msgInvalidOrderID = "некорректный ID заказа"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/orders/{orderId}/bookings
// Внутренняя ручка для сервиса заказов; не требует X-User-ID.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем orderId из URL
	vars := mux.Vars(r)
	orderIDStr := vars["orderId"]

	orderID, err := strconv.ParseInt(orderIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /orders/{orderId}/bookings - Invalid order ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrderID)
		return
	}

	resp, err := h.service.GetOrderBookings(r.Context(), orderID)
	if err != nil {
		h.logger.Error("GET /orders/{orderId}/bookings - Failed to get bookings: order_id=%d, error=%v",
			orderID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /orders/{orderId}/bookings - Bookings retrieved: order_id=%d, count=%d",
		orderID, len(resp.Bookings))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
