package bookings

import (
	"context"
	"time"

	"github.com/davm17/BLS-BookingService/internal/domain"
	"github.com/davm17/BLS-BookingService/internal/integrations/orderservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByCustomerID(ctx context.Context, customerID int64) ([]*domain.Booking, error)
	GetByOrderID(ctx context.Context, orderID int64) ([]*domain.Booking, error)
}

// OrderServiceClient интерфейс клиента для OrderService
type OrderServiceClient interface {
	GetOrder(ctx context.Context, orderID int64) (*orderservice.Order, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
