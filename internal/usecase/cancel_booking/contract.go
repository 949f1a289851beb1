package cancel_booking

import (
	"context"
	"time"

	"github.com/davm17/BLS-BookingService/internal/domain"
	"github.com/davm17/BLS-BookingService/internal/integrations/catalogservice"
	"github.com/davm17/BLS-BookingService/internal/integrations/orderservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
}

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	FindEntriesForOrder(ctx context.Context, orderID int64) ([]*domain.ReservationEntry, error)
	Release(ctx context.Context, entryID int64) error
}

// OrderServiceClient интерфейс клиента для OrderService
type OrderServiceClient interface {
	GetUser(ctx context.Context, userID int64) (*orderservice.User, error)
	AppendNote(ctx context.Context, orderID int64, text string) error
	MaybeRefund(ctx context.Context, orderID, itemID int64) (bool, error)
}

// CatalogServiceClient интерфейс клиента для CatalogService
type CatalogServiceClient interface {
	GetProduct(ctx context.Context, productID int64) (*catalogservice.Product, error)
	GetGlobalPolicy(ctx context.Context) (*catalogservice.GlobalPolicy, error)
}

// CalendarClient интерфейс клиента синхронизации календарей
type CalendarClient interface {
	BookingReleased(ctx context.Context, booking *domain.Booking)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
