package edit_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/davm17/BLS-BookingService/internal/domain"
	"github.com/davm17/BLS-BookingService/internal/integrations/catalogservice"
	"github.com/davm17/BLS-BookingService/internal/integrations/orderservice"
)

// syncLineMeta приводит денормализованные метаданные позиции заказа
// к новому состоянию бронирования: машинные ключи с подчеркиванием
// и отображаемые значения под продуктовыми названиями полей.
func (uc *UseCase) syncLineMeta(
	ctx context.Context,
	itemID int64,
	b *domain.Booking,
	product *catalogservice.Product,
	global domain.GlobalPolicy,
) error {
	meta := map[string]string{
		domain.MetaKeyBookingDate: b.StartDate.Format(domain.DateFormat),
		domain.MetaKeyQuantity:    strconv.Itoa(b.Quantity),

		labelOr(product.Labels.StartDate, domain.DefaultStartDateLabel): b.StartDate.Format(global.DisplayDateFormat()),
	}

	if b.BookingType.HasEndDate() && !b.EndDate.IsZero() {
		meta[domain.MetaKeyCheckoutDate] = b.EndDate.Format(domain.DateFormat)
		meta[labelOr(product.Labels.EndDate, domain.DefaultEndDateLabel)] = b.EndDate.Format(global.DisplayDateFormat())
	}

	if b.BookingType.HasTimeSlot() && !b.TimeSlot.IsZero() {
		meta[domain.MetaKeyTimeSlot] = b.TimeSlot.String()
		meta[labelOr(product.Labels.Time, domain.DefaultTimeLabel)] = b.TimeSlot.String()
	}

	if b.ResourceID != nil {
		meta[domain.MetaKeyResourceID] = strconv.FormatInt(*b.ResourceID, 10)
		meta[labelOr(product.Labels.Resource, domain.DefaultResourceLabel)] = product.ResourceTitle(*b.ResourceID)
	}

	if len(b.Persons) > 0 {
		encoded, err := json.Marshal(b.Persons)
		if err != nil {
			return fmt.Errorf("%w: failed to encode persons: %v", ErrInternal, err)
		}
		meta[domain.MetaKeyPersons] = string(encoded)
		meta[labelOr(product.Labels.Persons, domain.DefaultPersonsLabel)] = formatPersons(b.Persons, product)
	}

	// Стабильный порядок записи ключей
	keys := make([]string, 0, len(meta))
	for key := range meta {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := uc.orderClient.UpdateLineItemMeta(ctx, itemID, key, meta[key]); err != nil {
			return fmt.Errorf("%w: failed to update line meta %q: %v", ErrExternalWrite, key, err)
		}
	}

	return nil
}

// buildNotes собирает аудиторские заметки по каждому измененному
// измерению. Каждая заметка называет пользователя, выполнившего изменение.
func buildNotes(
	actor string,
	bookingID int64,
	changes *domain.ChangeSet,
	product *catalogservice.Product,
	global domain.GlobalPolicy,
	order *orderservice.Order,
) []string {
	notes := make([]string, 0)

	if changes.Date != nil {
		notes = append(notes, fmt.Sprintf("%s has changed the %s of Booking #%d from %s to %s.",
			actor,
			labelOr(product.Labels.StartDate, domain.DefaultStartDateLabel),
			bookingID,
			changes.Date.OldStart.Format(global.DisplayDateFormat()),
			changes.Date.NewStart.Format(global.DisplayDateFormat()),
		))

		if !changes.Date.NewEnd.IsZero() && !sameCalendarDay(changes.Date.OldEnd, changes.Date.NewEnd) {
			notes = append(notes, fmt.Sprintf("%s has changed the %s of Booking #%d from %s to %s.",
				actor,
				labelOr(product.Labels.EndDate, domain.DefaultEndDateLabel),
				bookingID,
				changes.Date.OldEnd.Format(global.DisplayDateFormat()),
				changes.Date.NewEnd.Format(global.DisplayDateFormat()),
			))
		}
	}

	if changes.Time != nil {
		notes = append(notes, fmt.Sprintf("%s has changed the %s of Booking #%d from %s to %s.",
			actor,
			labelOr(product.Labels.Time, domain.DefaultTimeLabel),
			bookingID,
			changes.Time.OldSlot.String(),
			changes.Time.NewSlot.String(),
		))
	}

	if changes.Quantity != nil {
		notes = append(notes, fmt.Sprintf("%s has changed the Quantity of Booking #%d from %d to %d.",
			actor, bookingID, changes.Quantity.Old, changes.Quantity.New))
	}

	if changes.Resource != nil {
		notes = append(notes, fmt.Sprintf("%s has changed the %s of Booking #%d from %s to %s.",
			actor,
			labelOr(product.Labels.Resource, domain.DefaultResourceLabel),
			bookingID,
			resourceTitle(changes.Resource.Old, product),
			resourceTitle(changes.Resource.New, product),
		))
	}

	if changes.Persons != nil {
		notes = append(notes, fmt.Sprintf("%s has changed the %s of Booking #%d from %s to %s.",
			actor,
			labelOr(product.Labels.Persons, domain.DefaultPersonsLabel),
			bookingID,
			formatPersons(changes.Persons.Old, product),
			formatPersons(changes.Persons.New, product),
		))
	}

	if changes.Status != nil {
		notes = append(notes, fmt.Sprintf("%s has changed the status of Booking #%d from %s to %s.",
			actor, bookingID, changes.Status.Old, changes.Status.New))
	}

	if changes.Price != nil {
		notes = append(notes, fmt.Sprintf("%s has changed the cost of Booking #%d from %s%.2f to %s%.2f.",
			actor, bookingID,
			order.CurrencySymbol, changes.Price.OldTotal,
			order.CurrencySymbol, changes.Price.NewTotal,
		))
	}

	return notes
}

// formatPersons форматирует состав участников для заметок и метаданных
func formatPersons(persons domain.PersonMap, product *catalogservice.Product) string {
	if len(persons) == 0 {
		return "0"
	}

	if persons.IsAggregate() {
		return strconv.Itoa(persons.Total())
	}

	typeIDs := make([]int64, 0, len(persons))
	for typeID := range persons {
		typeIDs = append(typeIDs, typeID)
	}
	sort.Slice(typeIDs, func(i, j int) bool { return typeIDs[i] < typeIDs[j] })

	parts := make([]string, 0, len(typeIDs))
	for _, typeID := range typeIDs {
		title := product.PersonTypeTitle(typeID)
		if title == "" {
			title = fmt.Sprintf("Type %d", typeID)
		}
		parts = append(parts, fmt.Sprintf("%s: %d", title, persons[typeID]))
	}

	return strings.Join(parts, ", ")
}

// resourceTitle возвращает название ресурса для заметок
func resourceTitle(resourceID *int64, product *catalogservice.Product) string {
	if resourceID == nil {
		return "none"
	}
	if title := product.ResourceTitle(*resourceID); title != "" {
		return title
	}
	return fmt.Sprintf("Resource #%d", *resourceID)
}

// labelOr возвращает продуктовое название поля или значение по умолчанию
func labelOr(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return label
}
