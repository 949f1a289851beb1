package types

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeFormat возвращается при некорректном формате времени
var ErrInvalidTimeFormat = errors.New("types: invalid time format, expected HH:MM")

const timeLayout = "15:04"

// TimeString время в формате "HH:MM" (например, "10:00").
// Используется для хранения времени слота без привязки к дате и таймзоне.
type TimeString string

// NewTimeString создает TimeString из time.Time
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// String возвращает строковое представление
func (t TimeString) String() string {
	return string(t)
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет формат времени
func (t TimeString) Validate() error {
	if _, err := time.Parse(timeLayout, string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeFormat, string(t))
	}
	return nil
}

// ToTime парсит TimeString в time.Time (дата - нулевая)
func (t TimeString) ToTime() (time.Time, error) {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, string(t))
	}
	return parsed, nil
}

// AddMinutes возвращает время, сдвинутое на minutes минут вперед
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	parsed, err := t.ToTime()
	if err != nil {
		return "", err
	}
	return NewTimeString(parsed.Add(time.Duration(minutes) * time.Minute)), nil
}

// IsBefore возвращает true, если t раньше other.
// Некорректные значения считаются "не раньше".
func (t TimeString) IsBefore(other TimeString) bool {
	a, err := t.ToTime()
	if err != nil {
		return false
	}
	b, err := other.ToTime()
	if err != nil {
		return false
	}
	return a.Before(b)
}

// IsAfter возвращает true, если t позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return other.IsBefore(t)
}

// On совмещает TimeString с датой date
func (t TimeString) On(date time.Time) (time.Time, error) {
	parsed, err := t.ToTime()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, date.Location()), nil
}
