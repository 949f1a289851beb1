package edit_booking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/davm17/BLS-BookingService/internal/service/sanity"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("edit_booking: booking not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит другому пользователю
	ErrAccessDenied = errors.New("edit_booking: access denied")

	// ErrImmutableBooking возвращается при попытке изменить отмененное
	// бронирование: после отмены бронирование неизменяемо
	ErrImmutableBooking = errors.New("edit_booking: cancelled booking cannot be edited")

	// ErrValidationRejected возвращается, когда валидатор нашел нарушения;
	// никакие записи при этом не выполняются
	ErrValidationRejected = errors.New("edit_booking: validation rejected")

	// ErrProductNotFound возвращается, когда продукт бронирования не найден в каталоге
	ErrProductNotFound = errors.New("edit_booking: product not found")

	// ErrOrderNotFound возвращается, когда заказ бронирования не найден
	ErrOrderNotFound = errors.New("edit_booking: order not found")

	// ErrExternalWrite возвращается при сбое записи во внешний сервис;
	// часть изменений к этому моменту уже могла быть применена
	ErrExternalWrite = errors.New("edit_booking: external write failed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("edit_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("edit_booking: internal error")
)

// ValidationError ошибка валидации с перечнем нарушений.
// Разворачивается в ErrValidationRejected, чтобы обработчик мог
// отличить ее от прочих ошибок, не теряя список нарушений.
type ValidationError struct {
	Violations []sanity.Violation
}

// Error возвращает текстовое описание всех нарушений
func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		messages = append(messages, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return fmt.Sprintf("%v: %s", ErrValidationRejected, strings.Join(messages, "; "))
}

// Unwrap позволяет errors.Is сопоставлять с ErrValidationRejected
func (e *ValidationError) Unwrap() error {
	return ErrValidationRejected
}
