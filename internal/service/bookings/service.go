package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "github.com/davm17/BLS-BookingService/internal/infra/storage/booking"
	orderClient "github.com/davm17/BLS-BookingService/internal/integrations/orderservice"
	"github.com/davm17/BLS-BookingService/internal/service/bookings/models"
)

// Service сервис для чтения бронирований
type Service struct {
	bookingRepo  BookingRepository
	orderClient  OrderServiceClient
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	orderClient OrderServiceClient,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		orderClient:  orderClient,
		timeProvider: &realTimeProvider{},
		logger:       logger,
	}
}

type realTimeProvider struct{}

func (p *realTimeProvider) Now() time.Time { return time.Now() }

// GetByID получает бронирование по ID.
// Пользователь может видеть только свое бронирование.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.CustomerID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя,
// разделенную на предстоящие и прошедшие по времени начала.
// Бронирования, чей заказ больше не существует в системе заказов,
// пропускаются - их не к чему привязать и отслеживать.
func (s *Service) GetUserBookings(ctx context.Context, userID int64) (*models.UserBookingsResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d", userID)

	bookings, err := s.bookingRepo.GetByCustomerID(ctx, userID)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()

	resp := &models.UserBookingsResponse{
		Upcoming: make([]models.BookingResponse, 0),
		Past:     make([]models.BookingResponse, 0),
	}

	for _, booking := range bookings {
		if !s.orderExists(ctx, booking.OrderID) {
			s.logger.Warn("GetUserBookings: skipping booking id=%d, order id=%d no longer exists",
				booking.ID, booking.OrderID)
			continue
		}

		dto := models.FromDomainBooking(booking)
		if !booking.StartAt().Before(now) {
			resp.Upcoming = append(resp.Upcoming, *dto)
		} else {
			resp.Past = append(resp.Past, *dto)
		}
	}

	s.logger.Info("GetUserBookings: user=%d has %d upcoming and %d past bookings",
		userID, len(resp.Upcoming), len(resp.Past))
	return resp, nil
}

// GetOrderBookings получает бронирования, привязанные к заказу
func (s *Service) GetOrderBookings(ctx context.Context, orderID int64) (*models.BookingListResponse, error) {
	s.logger.Info("GetOrderBookings: fetching bookings for order=%d", orderID)

	bookings, err := s.bookingRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		s.logger.Error("GetOrderBookings: repository error for order=%d: %v", orderID, err)
		return nil, fmt.Errorf("%w: GetOrderBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// orderExists проверяет, что заказ еще существует в системе заказов
func (s *Service) orderExists(ctx context.Context, orderID int64) bool {
	_, err := s.orderClient.GetOrder(ctx, orderID)
	if err == nil {
		return true
	}
	if errors.Is(err, orderClient.ErrOrderNotFound) {
		return false
	}
	// При недоступности сервиса заказов показываем бронирование:
	// скрывать данные из-за временного сбоя хуже, чем показать лишнее
	s.logger.Warn("orderExists: failed to check order id=%d: %v", orderID, err)
	return true
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}
