package edit_booking

import (
	"time"

	"github.com/davm17/BLS-BookingService/internal/domain"
	"github.com/davm17/BLS-BookingService/pkg/types"
)

// Request модель запроса на изменение бронирования.
// nil поля не затрагиваются, кроме Quantity: отсутствующее количество
// нормализуется к 1, как это делает источник данных о заказе.
type Request struct {
	BookingID int64 // ID бронирования
	UserID    int64 // ID пользователя, выполняющего изменение

	StartDate *time.Time      // Новая дата начала
	EndDate   *time.Time      // Новая дата окончания (multi_day)
	TimeSlot  *types.TimeSlot // Новый временной слот (time-based типы)
	Duration  *int            // Новая длительность (duration_time)

	Quantity   *int                  // Новое количество
	ResourceID *int64                // Новый ресурс; nil - поле не передано
	Persons    domain.PersonMap      // Новый состав участников; nil - не передано
	Status     *domain.BookingStatus // Новый статус

	// ChargedAmount сумма, списанная за позицию, из формы изменения.
	// Если не передана, берется текущая сумма позиции заказа.
	ChargedAmount *float64
}

// Response модель ответа на изменение бронирования
type Response struct {
	ID     int64  // ID бронирования
	Status string // Текущий статус после изменения

	StartDate string // Дата начала после изменения
	EndDate   string // Дата окончания (multi_day)
	TimeSlot  string // Временной слот (time-based типы)
	Duration  int    // Длительность (duration_time)

	Quantity   int           // Количество
	ResourceID *int64        // Ресурс
	Persons    map[int64]int // Участники
	Cost       float64       // Стоимость после пересчета

	ReservationID int64    // ID новой записи резервации (0, если не менялась)
	PriceChanged  bool     // Менялась ли цена
	Changes       []string // Измененные измерения (для клиента)
}
