package get_order_bookings

import (
	"context"

	"github.com/davm17/BLS-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetOrderBookings(ctx context.Context, orderID int64) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
