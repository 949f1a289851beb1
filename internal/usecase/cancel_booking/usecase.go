package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/davm17/BLS-BookingService/internal/domain"
	bookingRepo "github.com/davm17/BLS-BookingService/internal/infra/storage/booking"
	catalogClient "github.com/davm17/BLS-BookingService/internal/integrations/catalogservice"
)

// UseCase use case для отмены бронирования
type UseCase struct {
	bookingRepo     BookingRepository
	reservationRepo ReservationRepository
	orderClient     OrderServiceClient
	catalogClient   CatalogServiceClient
	calendarClient  CalendarClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	policyOpts      PolicyOptions
	processRefunds  bool
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	reservationRepo ReservationRepository,
	orderClient OrderServiceClient,
	catalogClient CatalogServiceClient,
	calendarClient CalendarClient,
	txManager TransactionManager,
	policyOpts PolicyOptions,
	processRefunds bool,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:     bookingRepo,
		reservationRepo: reservationRepo,
		orderClient:     orderClient,
		catalogClient:   catalogClient,
		calendarClient:  calendarClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		policyOpts:      policyOpts,
		processRefunds:  processRefunds,
		logger:          logger,
	}
}

// Execute выполняет use case отмены бронирования.
//
// Порядок записей выбран так, чтобы полуприменённая отмена не выглядела
// успешной: аудиторская заметка пишется до изменения данных, статус
// бронирования фиксируется последним.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d, user=%d", req.BookingID, req.UserID)

	// 1. Валидация входных данных
	if req.BookingID <= 0 || req.UserID <= 0 {
		return nil, fmt.Errorf("%w: bookingID and userID must be positive", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	// 2. Получаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CancelBooking: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CancelBooking: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if booking.CustomerID != req.UserID {
		uc.logger.Warn("CancelBooking: user=%d is not the owner of booking id=%d", req.UserID, req.BookingID)
		return nil, ErrAccessDenied
	}

	if booking.IsCancelled() {
		uc.logger.Warn("CancelBooking: booking id=%d is already cancelled", req.BookingID)
		return nil, ErrAlreadyCancelled
	}

	// 3. Получаем политики и проверяем право на отмену
	window, err := uc.resolveWindow(ctx, booking.ProductID)
	if err != nil {
		return nil, err
	}

	if !IsCancellable(booking, now, window) {
		uc.logger.Warn("CancelBooking: booking id=%d is not cancellable (status=%s, seconds_until_start=%d, cutoff=%d, effective=%t)",
			booking.ID, booking.Status, booking.SecondsUntilStart(now), window.Seconds, window.Effective)
		return nil, ErrNotCancellable
	}

	// 4. Имя пользователя для аудиторской заметки.
	// Недоступность профиля не должна блокировать отмену.
	actorName := uc.actorName(ctx, req.UserID)

	// 5. Аудиторская заметка пишется до мутаций
	note := fmt.Sprintf("%s has cancelled Booking #%d.", actorName, booking.ID)
	if err := uc.orderClient.AppendNote(ctx, booking.OrderID, note); err != nil {
		uc.logger.Error("CancelBooking: failed to append note to order id=%d: %v", booking.OrderID, err)
		return nil, fmt.Errorf("%w: failed to append order note: %v", ErrExternalWrite, err)
	}

	// 6. Освобождаем резервацию и меняем статус в одной сериализуемой
	// транзакции; статус пишется последним
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Перечитываем бронирование под блокировкой
		locked, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			return fmt.Errorf("%w: failed to lock booking: %v", ErrInternal, err)
		}

		if locked.IsCancelled() {
			return ErrAlreadyCancelled
		}

		// 6.2. Находим и освобождаем запись резервации
		if err := uc.releaseReservation(txCtx, locked); err != nil {
			return err
		}

		// 6.3. Статус - последняя запись
		if err := uc.bookingRepo.UpdateStatus(txCtx, locked.ID, domain.StatusCancelled); err != nil {
			return fmt.Errorf("%w: failed to update booking status: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	// 7. Уведомляем календарь (fire-and-forget)
	uc.calendarClient.BookingReleased(ctx, booking)

	// 8. Опционально запускаем возврат средств.
	// Бронирование уже отменено, сбой возврата не откатывает отмену.
	refunded := false
	if uc.processRefunds {
		refunded, err = uc.orderClient.MaybeRefund(ctx, booking.OrderID, booking.OrderItemID)
		if err != nil {
			uc.logger.Error("CancelBooking: refund failed for order=%d item=%d: %v",
				booking.OrderID, booking.OrderItemID, err)
			refunded = false
		}
	}

	uc.logger.Info("CancelBooking: booking id=%d cancelled by user=%d (refund=%t)",
		booking.ID, req.UserID, refunded)

	return &Response{
		ID:              booking.ID,
		Status:          string(domain.StatusCancelled),
		RefundInitiated: refunded,
	}, nil
}

// resolveWindow получает политики из каталога и разрешает окно отмены
func (uc *UseCase) resolveWindow(ctx context.Context, productID int64) (domain.CutoffWindow, error) {
	product, err := uc.catalogClient.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrProductNotFound) {
			uc.logger.Warn("CancelBooking: product id=%d not found", productID)
			return domain.CutoffWindow{}, ErrProductNotFound
		}
		uc.logger.Error("CancelBooking: failed to get product id=%d: %v", productID, err)
		return domain.CutoffWindow{}, fmt.Errorf("%w: failed to get product: %v", ErrInternal, err)
	}

	global, err := uc.catalogClient.GetGlobalPolicy(ctx)
	if err != nil {
		uc.logger.Error("CancelBooking: failed to get global policy: %v", err)
		return domain.CutoffWindow{}, fmt.Errorf("%w: failed to get global policy: %v", ErrInternal, err)
	}

	return ResolveCutoff(product.CancellationPolicy.ToDomain(), global.ToDomain(), productID, uc.policyOpts), nil
}

// releaseReservation находит запись резервации бронирования и освобождает ее.
// Отсутствие записи не блокирует отмену: удерживать уже нечего.
func (uc *UseCase) releaseReservation(ctx context.Context, booking *domain.Booking) error {
	entries, err := uc.reservationRepo.FindEntriesForOrder(ctx, booking.OrderID)
	if err != nil {
		return fmt.Errorf("%w: failed to find reservation entries: %v", ErrInternal, err)
	}

	entry, matches := domain.MatchEntry(entries, booking)
	if entry == nil {
		uc.logger.Warn("CancelBooking: no reservation entry matches booking id=%d (order=%d)",
			booking.ID, booking.OrderID)
		return nil
	}

	if matches > 1 {
		uc.logger.Warn("CancelBooking: %d reservation entries match booking id=%d, using first entry id=%d",
			matches, booking.ID, entry.ID)
	}

	if err := uc.reservationRepo.Release(ctx, entry.ID); err != nil {
		return fmt.Errorf("%w: failed to release reservation entry id=%d: %v", ErrExternalWrite, entry.ID, err)
	}

	return nil
}

// actorName возвращает отображаемое имя пользователя для заметок
func (uc *UseCase) actorName(ctx context.Context, userID int64) string {
	user, err := uc.orderClient.GetUser(ctx, userID)
	if err != nil {
		uc.logger.Warn("CancelBooking: failed to resolve user id=%d name: %v", userID, err)
		return fmt.Sprintf("Customer #%d", userID)
	}
	if user.DisplayName == "" {
		return fmt.Sprintf("Customer #%d", userID)
	}
	return user.DisplayName
}
