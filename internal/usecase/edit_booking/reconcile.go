package edit_booking

import (
	"context"
	"fmt"

	"github.com/davm17/BLS-BookingService/internal/domain"
)

// reconcileReservation заменяет удержанную вместимость: находит запись
// резервации по старому окну бронирования, освобождает ее и создает
// новую под новое окно. При отмене новая запись не создается.
//
// Порядок строгий - сначала освобождение, потом создание, - чтобы
// вместимость не учитывалась дважды даже на мгновение.
//
// Возвращает ID новой записи резервации (0, если запись не создавалась).
func (uc *UseCase) reconcileReservation(
	ctx context.Context,
	old *domain.Booking,
	updated *domain.Booking,
	cancelling bool,
) (int64, error) {
	entries, err := uc.reservationRepo.FindEntriesForOrder(ctx, old.OrderID)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to find reservation entries: %v", ErrInternal, err)
	}

	entry, matches := domain.MatchEntry(entries, old)

	if entry != nil {
		if matches > 1 {
			uc.logger.Warn("EditBooking: %d reservation entries match booking id=%d, using first entry id=%d",
				matches, old.ID, entry.ID)
		}

		if err := uc.reservationRepo.Release(ctx, entry.ID); err != nil {
			return 0, fmt.Errorf("%w: failed to release reservation entry id=%d: %v", ErrExternalWrite, entry.ID, err)
		}

		// Для multi-day связка запись-заказ сохраняется как история;
		// у остальных типов старая связка удаляется перед созданием новой
		if old.BookingType != domain.TypeMultiDay {
			if err := uc.reservationRepo.DeleteOrderLink(ctx, old.OrderID, entry.ID); err != nil {
				return 0, fmt.Errorf("%w: failed to delete order link for entry id=%d: %v", ErrExternalWrite, entry.ID, err)
			}
		}
	} else {
		uc.logger.Warn("EditBooking: no reservation entry matches booking id=%d (order=%d)",
			old.ID, old.OrderID)
	}

	if cancelling {
		return 0, nil
	}

	created, err := uc.reservationRepo.Create(ctx, old.OrderID, entryFromBooking(updated))
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create reservation entry: %v", ErrExternalWrite, err)
	}

	return created.ID, nil
}

// entryFromBooking собирает запись резервации из нового состояния бронирования
func entryFromBooking(b *domain.Booking) *domain.ReservationEntry {
	endDate := b.StartDate
	if b.BookingType.HasEndDate() && !b.EndDate.IsZero() {
		endDate = b.EndDate
	}

	entry := &domain.ReservationEntry{
		ProductID:  b.ProductID,
		ResourceID: b.ResourceID,
		StartDate:  b.StartDate,
		EndDate:    endDate,
		Quantity:   b.Quantity,
	}

	if b.BookingType.HasTimeSlot() && !b.TimeSlot.IsZero() {
		entry.FromTime = b.TimeSlot.From()
		entry.ToTime = b.TimeSlot.To()
	}

	return entry
}
