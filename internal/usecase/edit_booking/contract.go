package edit_booking

import (
	"context"

	"github.com/davm17/BLS-BookingService/internal/domain"
	"github.com/davm17/BLS-BookingService/internal/integrations/catalogservice"
	"github.com/davm17/BLS-BookingService/internal/integrations/orderservice"
	"github.com/davm17/BLS-BookingService/internal/service/sanity"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
}

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	FindEntriesForOrder(ctx context.Context, orderID int64) ([]*domain.ReservationEntry, error)
	Release(ctx context.Context, entryID int64) error
	Create(ctx context.Context, orderID int64, entry *domain.ReservationEntry) (*domain.ReservationEntry, error)
	DeleteOrderLink(ctx context.Context, orderID, entryID int64) error
}

// OrderServiceClient интерфейс клиента для OrderService
type OrderServiceClient interface {
	GetOrder(ctx context.Context, orderID int64) (*orderservice.Order, error)
	GetLineItem(ctx context.Context, orderID, itemID int64) (*orderservice.LineItem, error)
	GetUser(ctx context.Context, userID int64) (*orderservice.User, error)
	UpdateLineItemMeta(ctx context.Context, itemID int64, key, value string) error
	SetLineAmounts(ctx context.Context, itemID int64, subtotal, tax, total float64) error
	RecalculateTotals(ctx context.Context, orderID int64) error
	AppendNote(ctx context.Context, orderID int64, text string) error
}

// CatalogServiceClient интерфейс клиента для CatalogService
type CatalogServiceClient interface {
	GetProduct(ctx context.Context, productID int64) (*catalogservice.Product, error)
	GetGlobalPolicy(ctx context.Context) (*catalogservice.GlobalPolicy, error)
}

// CalendarClient интерфейс клиента синхронизации календарей
type CalendarClient interface {
	BookingReleased(ctx context.Context, booking *domain.Booking)
	BookingCreated(ctx context.Context, booking *domain.Booking)
}

// SanityValidator интерфейс валидатора изменений
type SanityValidator interface {
	Validate(booking *domain.Booking, product *catalogservice.Product, changes *domain.ChangeSet) []sanity.Violation
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
