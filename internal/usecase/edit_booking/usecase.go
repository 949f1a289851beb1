package edit_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/davm17/BLS-BookingService/internal/domain"
	bookingRepo "github.com/davm17/BLS-BookingService/internal/infra/storage/booking"
	catalogClient "github.com/davm17/BLS-BookingService/internal/integrations/catalogservice"
	orderClient "github.com/davm17/BLS-BookingService/internal/integrations/orderservice"
)

// UseCase use case для изменения бронирования
type UseCase struct {
	bookingRepo     BookingRepository
	reservationRepo ReservationRepository
	orderClient     OrderServiceClient
	catalogClient   CatalogServiceClient
	calendarClient  CalendarClient
	validator       SanityValidator
	txManager       TransactionManager

	// priceEditDisabled принудительно выключает изменение цены при
	// редактировании (внешняя ручка, по умолчанию цена пересчитывается)
	priceEditDisabled bool

	logger Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	reservationRepo ReservationRepository,
	orderClient OrderServiceClient,
	catalogClient CatalogServiceClient,
	calendarClient CalendarClient,
	validator SanityValidator,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:     bookingRepo,
		reservationRepo: reservationRepo,
		orderClient:     orderClient,
		catalogClient:   catalogClient,
		calendarClient:  calendarClient,
		validator:       validator,
		txManager:       txManager,
		logger:          logger,
	}
}

// DisablePriceChanges выключает пересчет цены при редактировании
func (uc *UseCase) DisablePriceChanges() *UseCase {
	uc.priceEditDisabled = true
	return uc
}

// Execute выполняет use case изменения бронирования.
//
// Последовательность записей подобрана так, чтобы полуприменённое
// изменение не выглядело успешным: заметки и метаданные заказа пишутся
// до транзакции, резервация и поля бронирования (включая статус)
// фиксируются в одной сериализуемой транзакции последними.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("EditBooking: booking=%d, user=%d", req.BookingID, req.UserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("EditBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("EditBooking: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("EditBooking: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if booking.CustomerID != req.UserID {
		uc.logger.Warn("EditBooking: user=%d is not the owner of booking id=%d", req.UserID, req.BookingID)
		return nil, ErrAccessDenied
	}

	// Отмененное бронирование неизменяемо
	if booking.IsCancelled() {
		uc.logger.Warn("EditBooking: booking id=%d is cancelled and immutable", req.BookingID)
		return nil, ErrImmutableBooking
	}

	// 3. Получаем внешние данные: продукт, глобальную политику, заказ и позицию
	product, global, order, line, err := uc.loadExternal(ctx, booking)
	if err != nil {
		return nil, err
	}

	// 4. Классифицируем изменения
	changes := Detect(booking, req, product)

	// 5. Применяем изменения к копии и сверяем цену
	updated := applyChanges(booking, changes)
	uc.reconcilePrice(req, changes, updated, booking, line, global)

	// 6. Пустой набор изменений - никаких записей
	if changes.IsEmpty() {
		uc.logger.Info("EditBooking: no changes detected for booking id=%d", booking.ID)
		return buildResponse(booking, 0, changes), nil
	}

	// 7. Валидатор изменений
	if violations := uc.validator.Validate(booking, product, changes); len(violations) > 0 {
		uc.logger.Warn("EditBooking: %d validation violations for booking id=%d", len(violations), booking.ID)
		return nil, &ValidationError{Violations: violations}
	}

	cancelling := changes.Status != nil && changes.Status.New == domain.StatusCancelled

	// 8. Аудиторские заметки пишутся до мутаций
	actor := uc.actorName(ctx, req.UserID)
	for _, note := range buildNotes(actor, booking.ID, changes, product, global, order) {
		if err := uc.orderClient.AppendNote(ctx, booking.OrderID, note); err != nil {
			uc.logger.Error("EditBooking: failed to append note to order id=%d: %v", booking.OrderID, err)
			return nil, fmt.Errorf("%w: failed to append order note: %v", ErrExternalWrite, err)
		}
	}

	// 9. Денормализованные метаданные позиции заказа
	if changes.HasInventoryChange() {
		if err := uc.syncLineMeta(ctx, booking.OrderItemID, updated, product, global); err != nil {
			uc.logger.Error("EditBooking: failed to sync line meta for item id=%d: %v", booking.OrderItemID, err)
			return nil, err
		}
	}

	// 10. Новые суммы позиции и пересчет итогов заказа
	if changes.Price != nil {
		if err := uc.applyPrice(ctx, booking, changes.Price.NewTotal, order); err != nil {
			return nil, err
		}
	}

	// 11. Резервация и поля бронирования - в одной сериализуемой
	// транзакции; статус уходит вместе с последней записью
	var reservationID int64

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 11.1. Перечитываем бронирование под блокировкой
		locked, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			return fmt.Errorf("%w: failed to lock booking: %v", ErrInternal, err)
		}

		if locked.IsCancelled() {
			return ErrImmutableBooking
		}

		// 11.2. Переразмещаем удержанную вместимость при изменении
		// расписания или отмене
		if changes.RequiresReallocation() {
			reservationID, err = uc.reconcileReservation(txCtx, locked, updated, cancelling)
			if err != nil {
				return err
			}
		}

		// 11.3. Поля бронирования, статус в том числе - последняя запись
		if err := uc.bookingRepo.Update(txCtx, updated); err != nil {
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	// 12. Уведомляем календарь (fire-and-forget)
	if changes.RequiresReallocation() {
		uc.calendarClient.BookingReleased(ctx, booking)
		if !cancelling {
			uc.calendarClient.BookingCreated(ctx, updated)
		}
	}

	uc.logger.Info("EditBooking: booking id=%d updated by user=%d (reservation=%d, price_changed=%t)",
		booking.ID, req.UserID, reservationID, changes.Price != nil)

	return buildResponse(updated, reservationID, changes), nil
}

// loadExternal получает продукт, глобальную политику, заказ и позицию заказа
func (uc *UseCase) loadExternal(ctx context.Context, booking *domain.Booking) (
	*catalogClient.Product,
	domain.GlobalPolicy,
	*orderClient.Order,
	*orderClient.LineItem,
	error,
) {
	product, err := uc.catalogClient.GetProduct(ctx, booking.ProductID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrProductNotFound) {
			uc.logger.Warn("EditBooking: product id=%d not found", booking.ProductID)
			return nil, domain.GlobalPolicy{}, nil, nil, ErrProductNotFound
		}
		uc.logger.Error("EditBooking: failed to get product id=%d: %v", booking.ProductID, err)
		return nil, domain.GlobalPolicy{}, nil, nil, fmt.Errorf("%w: failed to get product: %v", ErrInternal, err)
	}

	globalPolicy, err := uc.catalogClient.GetGlobalPolicy(ctx)
	if err != nil {
		uc.logger.Error("EditBooking: failed to get global policy: %v", err)
		return nil, domain.GlobalPolicy{}, nil, nil, fmt.Errorf("%w: failed to get global policy: %v", ErrInternal, err)
	}

	order, err := uc.orderClient.GetOrder(ctx, booking.OrderID)
	if err != nil {
		if errors.Is(err, orderClient.ErrOrderNotFound) {
			uc.logger.Warn("EditBooking: order id=%d not found", booking.OrderID)
			return nil, domain.GlobalPolicy{}, nil, nil, ErrOrderNotFound
		}
		uc.logger.Error("EditBooking: failed to get order id=%d: %v", booking.OrderID, err)
		return nil, domain.GlobalPolicy{}, nil, nil, fmt.Errorf("%w: failed to get order: %v", ErrInternal, err)
	}

	line, err := uc.orderClient.GetLineItem(ctx, booking.OrderID, booking.OrderItemID)
	if err != nil {
		if errors.Is(err, orderClient.ErrLineItemNotFound) {
			uc.logger.Warn("EditBooking: line item id=%d not found in order id=%d", booking.OrderItemID, booking.OrderID)
			return nil, domain.GlobalPolicy{}, nil, nil, ErrOrderNotFound
		}
		uc.logger.Error("EditBooking: failed to get line item id=%d: %v", booking.OrderItemID, err)
		return nil, domain.GlobalPolicy{}, nil, nil, fmt.Errorf("%w: failed to get line item: %v", ErrInternal, err)
	}

	return product, globalPolicy.ToDomain(), order, line, nil
}

// reconcilePrice выполняет финансовую сверку и дописывает ценовое
// измерение в набор изменений
func (uc *UseCase) reconcilePrice(
	req *Request,
	changes *domain.ChangeSet,
	updated *domain.Booking,
	booking *domain.Booking,
	line *orderClient.LineItem,
	global domain.GlobalPolicy,
) {
	if uc.priceEditDisabled {
		return
	}

	// Явная сумма из запроса приходит уже без опций. Итог позиции опции
	// содержит, поэтому при расчете от него опционная составляющая
	// старого состояния вычитается - иначе она была бы учтена дважды.
	charged := line.Total - AddonComponent(line.AddonPrice, booking.Quantity, booking.Days(), global.AddonPerDayPricing)
	if req.ChargedAmount != nil {
		charged = *req.ChargedAmount
	}

	newTotal, changed := ComputePriceDelta(updated.Quantity, PriceInputs{
		ChargedAmount: charged,
		AddonPrice:    line.AddonPrice,
		Days:          updated.Days(),
		AddonPerDay:   global.AddonPerDayPricing,
	}, booking.Cost, booking.Quantity)

	if !changed {
		return
	}

	changes.Price = &domain.PriceChange{
		OldTotal: booking.Cost * float64(booking.Quantity),
		NewTotal: newTotal,
	}

	updated.Cost = newTotal / float64(updated.Quantity)
}

// applyPrice записывает новые суммы позиции и пересчитывает итоги заказа
func (uc *UseCase) applyPrice(ctx context.Context, booking *domain.Booking, newTotal float64, order *orderClient.Order) error {
	subtotal, tax := SplitTax(newTotal, order)

	if err := uc.orderClient.SetLineAmounts(ctx, booking.OrderItemID, subtotal, tax, subtotal+tax); err != nil {
		uc.logger.Error("EditBooking: failed to set line amounts for item id=%d: %v", booking.OrderItemID, err)
		return fmt.Errorf("%w: failed to set line amounts: %v", ErrExternalWrite, err)
	}

	if err := uc.orderClient.RecalculateTotals(ctx, booking.OrderID); err != nil {
		uc.logger.Error("EditBooking: failed to recalculate totals for order id=%d: %v", booking.OrderID, err)
		return fmt.Errorf("%w: failed to recalculate order totals: %v", ErrExternalWrite, err)
	}

	return nil
}

// actorName возвращает отображаемое имя пользователя для заметок
func (uc *UseCase) actorName(ctx context.Context, userID int64) string {
	user, err := uc.orderClient.GetUser(ctx, userID)
	if err != nil {
		uc.logger.Warn("EditBooking: failed to resolve user id=%d name: %v", userID, err)
		return fmt.Sprintf("Customer #%d", userID)
	}
	if user.DisplayName == "" {
		return fmt.Sprintf("Customer #%d", userID)
	}
	return user.DisplayName
}

// applyChanges применяет набор изменений к копии бронирования
func applyChanges(b *domain.Booking, changes *domain.ChangeSet) *domain.Booking {
	updated := *b

	if changes.Quantity != nil {
		updated.Quantity = changes.Quantity.New
	}

	if changes.Date != nil {
		updated.StartDate = changes.Date.NewStart
		if b.BookingType.HasEndDate() {
			updated.EndDate = changes.Date.NewEnd
		} else {
			updated.EndDate = changes.Date.NewStart
		}
	}

	if changes.Time != nil {
		updated.TimeSlot = changes.Time.NewSlot
		updated.Duration = changes.Time.NewDuration
	}

	if changes.Resource != nil {
		updated.ResourceID = changes.Resource.New
	}

	if changes.Persons != nil {
		updated.Persons = changes.Persons.New
	}

	if changes.Status != nil {
		updated.Status = changes.Status.New
	}

	return &updated
}

// buildResponse собирает ответ из нового состояния бронирования
func buildResponse(b *domain.Booking, reservationID int64, changes *domain.ChangeSet) *Response {
	resp := &Response{
		ID:            b.ID,
		Status:        string(b.Status),
		StartDate:     b.StartDate.Format(domain.DateFormat),
		TimeSlot:      b.TimeSlot.String(),
		Duration:      b.Duration,
		Quantity:      b.Quantity,
		ResourceID:    b.ResourceID,
		Persons:       b.Persons,
		Cost:          b.Cost,
		ReservationID: reservationID,
		PriceChanged:  changes.Price != nil,
		Changes:       changedDimensions(changes),
	}

	if b.BookingType.HasEndDate() && !b.EndDate.IsZero() {
		resp.EndDate = b.EndDate.Format(domain.DateFormat)
	}

	return resp
}

// changedDimensions возвращает имена измененных измерений для клиента
func changedDimensions(changes *domain.ChangeSet) []string {
	dims := make([]string, 0)

	if changes.Quantity != nil {
		dims = append(dims, "quantity")
	}
	if changes.Date != nil {
		dims = append(dims, "date")
	}
	if changes.Time != nil {
		dims = append(dims, "time")
	}
	if changes.Resource != nil {
		dims = append(dims, "resource")
	}
	if changes.Persons != nil {
		dims = append(dims, "persons")
	}
	if changes.Status != nil {
		dims = append(dims, "status")
	}
	if changes.Price != nil {
		dims = append(dims, "price")
	}

	return dims
}
