package sanity

import (
	"fmt"

	"github.com/davm17/BLS-BookingService/internal/domain"
	"github.com/davm17/BLS-BookingService/internal/integrations/catalogservice"
)

// Violation одно нарушение, блокирующее запись изменения.
// Field указывает на измерение изменения, Message - человекочитаемое
// описание для ответа клиенту.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator проверяет предложенное изменение бронирования на
// непротиворечивость перед записью. Возвращает список нарушений;
// пустой список означает, что изменение можно применять.
type Validator struct{}

// NewValidator создает новый экземпляр валидатора
func NewValidator() *Validator {
	return &Validator{}
}

// допустимые переходы статусов; отмененное бронирование не редактируется
// вообще и до валидатора не доходит
var allowedTransitions = map[domain.BookingStatus][]domain.BookingStatus{
	domain.StatusPending:   {domain.StatusConfirmed, domain.StatusPaid, domain.StatusCancelled},
	domain.StatusConfirmed: {domain.StatusPaid, domain.StatusCancelled},
	domain.StatusPaid:      {domain.StatusComplete, domain.StatusCancelled},
	domain.StatusComplete:  {},
}

// Validate проверяет набор изменений относительно текущего бронирования
// и конфигурации продукта
func (v *Validator) Validate(booking *domain.Booking, product *catalogservice.Product, changes *domain.ChangeSet) []Violation {
	violations := make([]Violation, 0)

	violations = append(violations, v.checkStatus(changes)...)
	violations = append(violations, v.checkQuantity(changes)...)
	violations = append(violations, v.checkWindow(booking, changes)...)
	violations = append(violations, v.checkResource(product, changes)...)
	violations = append(violations, v.checkPersons(product, changes)...)

	return violations
}

func (v *Validator) checkStatus(changes *domain.ChangeSet) []Violation {
	if changes.Status == nil {
		return nil
	}

	old, next := changes.Status.Old, changes.Status.New

	allowed, known := allowedTransitions[old]
	if !known {
		return []Violation{{
			Field:   "status",
			Message: fmt.Sprintf("unknown current status %q", old),
		}}
	}

	for _, s := range allowed {
		if s == next {
			return nil
		}
	}

	return []Violation{{
		Field:   "status",
		Message: fmt.Sprintf("status transition %q -> %q is not allowed", old, next),
	}}
}

func (v *Validator) checkQuantity(changes *domain.ChangeSet) []Violation {
	if changes.Quantity == nil {
		return nil
	}

	if changes.Quantity.New < domain.MinQuantity {
		return []Violation{{
			Field:   "quantity",
			Message: fmt.Sprintf("quantity must be at least %d", domain.MinQuantity),
		}}
	}

	return nil
}

func (v *Validator) checkWindow(booking *domain.Booking, changes *domain.ChangeSet) []Violation {
	violations := make([]Violation, 0)

	if changes.Date != nil {
		if changes.Date.NewStart.IsZero() {
			violations = append(violations, Violation{
				Field:   "startDate",
				Message: "start date is required",
			})
		}

		if booking.BookingType.HasEndDate() && !changes.Date.NewEnd.IsZero() &&
			changes.Date.NewEnd.Before(changes.Date.NewStart) {
			violations = append(violations, Violation{
				Field:   "endDate",
				Message: "end date must not be before start date",
			})
		}
	}

	if changes.Time != nil && !changes.Time.NewSlot.IsZero() {
		if err := changes.Time.NewSlot.Validate(); err != nil {
			violations = append(violations, Violation{
				Field:   "timeSlot",
				Message: fmt.Sprintf("invalid time slot: %v", err),
			})
		} else if to := changes.Time.NewSlot.To(); !to.IsZero() &&
			!changes.Time.NewSlot.From().IsBefore(to) {
			violations = append(violations, Violation{
				Field:   "timeSlot",
				Message: "time slot start must be before its end",
			})
		}
	}

	if changes.Time != nil && booking.BookingType == domain.TypeDurationTime &&
		changes.Time.NewDuration <= 0 {
		violations = append(violations, Violation{
			Field:   "duration",
			Message: "duration must be positive",
		})
	}

	return violations
}

func (v *Validator) checkResource(product *catalogservice.Product, changes *domain.ChangeSet) []Violation {
	if changes.Resource == nil || changes.Resource.New == nil {
		return nil
	}

	if product == nil || product.ResourceTitle(*changes.Resource.New) == "" {
		return []Violation{{
			Field:   "resourceId",
			Message: fmt.Sprintf("resource %d is not configured for this product", *changes.Resource.New),
		}}
	}

	return nil
}

func (v *Validator) checkPersons(product *catalogservice.Product, changes *domain.ChangeSet) []Violation {
	if changes.Persons == nil {
		return nil
	}

	violations := make([]Violation, 0)

	for typeID, count := range changes.Persons.New {
		if count < 0 {
			violations = append(violations, Violation{
				Field:   "persons",
				Message: fmt.Sprintf("person count for type %d must not be negative", typeID),
			})
			continue
		}

		if typeID == domain.AggregatePersonKey {
			continue
		}

		if product == nil || product.PersonTypeTitle(typeID) == "" {
			violations = append(violations, Violation{
				Field:   "persons",
				Message: fmt.Sprintf("person type %d is not configured for this product", typeID),
			})
		}
	}

	if changes.Persons.New.Total() == 0 && len(changes.Persons.New) > 0 {
		violations = append(violations, Violation{
			Field:   "persons",
			Message: "at least one participant is required",
		})
	}

	return violations
}
