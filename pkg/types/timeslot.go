package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTimeSlot возвращается при некорректном формате слота
var ErrInvalidTimeSlot = errors.New("types: invalid time slot format")

// TimeSlot временной слот в формате "HH:MM - HH:MM" или "HH:MM"
// (слот без времени окончания). Формат совпадает с тем, что хранится
// в метаданных позиции заказа.
type TimeSlot string

// NewTimeSlot собирает слот из времени начала и окончания.
// Если to пустое, слот состоит только из времени начала.
func NewTimeSlot(from, to TimeString) TimeSlot {
	if to.IsZero() {
		return TimeSlot(from)
	}
	return TimeSlot(fmt.Sprintf("%s - %s", from, to))
}

// String возвращает строковое представление
func (s TimeSlot) String() string {
	return string(s)
}

// IsZero возвращает true, если слот не задан
func (s TimeSlot) IsZero() bool {
	return s == ""
}

// From возвращает время начала слота
func (s TimeSlot) From() TimeString {
	from, _ := s.split()
	return from
}

// To возвращает время окончания слота (пустое, если не задано)
func (s TimeSlot) To() TimeString {
	_, to := s.split()
	return to
}

// Validate проверяет формат слота
func (s TimeSlot) Validate() error {
	from, to := s.split()
	if err := from.Validate(); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeSlot, string(s))
	}
	if !to.IsZero() {
		if err := to.Validate(); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTimeSlot, string(s))
		}
	}
	return nil
}

func (s TimeSlot) split() (TimeString, TimeString) {
	parts := strings.SplitN(string(s), "-", 2)
	from := TimeString(strings.TrimSpace(parts[0]))
	if len(parts) == 1 {
		return from, ""
	}
	return from, TimeString(strings.TrimSpace(parts[1]))
}
