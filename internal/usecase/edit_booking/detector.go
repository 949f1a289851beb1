package edit_booking

import (
	"time"

	"github.com/davm17/BLS-BookingService/internal/domain"
	"github.com/davm17/BLS-BookingService/internal/integrations/catalogservice"
	"github.com/davm17/BLS-BookingService/pkg/types"
)

// Detect сравнивает запрос на изменение с текущим бронированием и
// классифицирует, какие измерения изменились. Чистая функция; ценовое
// измерение заполняется отдельно финансовой сверкой.
//
// Отсутствующее количество нормализуется к 1. Даты сравниваются на
// уровне календарного дня, а не строк. Ресурс сравнивается только
// если поле передано в запросе.
func Detect(current *domain.Booking, req *Request, product *catalogservice.Product) *domain.ChangeSet {
	changes := &domain.ChangeSet{}

	detectQuantity(current, req, changes)
	detectDate(current, req, changes)
	detectTime(current, req, product, changes)
	detectResource(current, req, changes)
	detectPersons(current, req, changes)
	detectStatus(current, req, changes)

	return changes
}

func detectQuantity(current *domain.Booking, req *Request, changes *domain.ChangeSet) {
	newQuantity := domain.MinQuantity
	if req.Quantity != nil {
		newQuantity = *req.Quantity
	}

	if newQuantity != current.Quantity {
		changes.Quantity = &domain.QuantityChange{
			Old: current.Quantity,
			New: newQuantity,
		}
	}
}

func detectDate(current *domain.Booking, req *Request, changes *domain.ChangeSet) {
	newStart := current.StartDate
	if req.StartDate != nil {
		newStart = *req.StartDate
	}

	newEnd := current.EndDate
	if current.BookingType.HasEndDate() && req.EndDate != nil {
		newEnd = *req.EndDate
	}

	startChanged := !sameCalendarDay(newStart, current.StartDate)
	endChanged := current.BookingType.HasEndDate() && !sameCalendarDay(newEnd, current.EndDate)

	if startChanged || endChanged {
		changes.Date = &domain.DateChange{
			OldStart: current.StartDate,
			NewStart: newStart,
			OldEnd:   current.EndDate,
			NewEnd:   newEnd,
		}
	}
}

func detectTime(current *domain.Booking, req *Request, product *catalogservice.Product, changes *domain.ChangeSet) {
	if !current.BookingType.HasTimeSlot() {
		return
	}

	newSlot := proposedSlot(current, req, product)

	newDuration := current.Duration
	if current.BookingType == domain.TypeDurationTime && req.Duration != nil {
		newDuration = *req.Duration
	}

	slotChanged := newSlot.String() != current.TimeSlot.String()
	durationChanged := newDuration != current.Duration

	if slotChanged || durationChanged {
		changes.Time = &domain.TimeChange{
			OldSlot:     current.TimeSlot,
			NewSlot:     newSlot,
			OldDuration: current.Duration,
			NewDuration: newDuration,
		}
	}
}

// proposedSlot вычисляет новый временной слот. Для duration_time слот
// пересобирается из времени начала и выбранной длительности в единицах
// настроек продукта.
func proposedSlot(current *domain.Booking, req *Request, product *catalogservice.Product) types.TimeSlot {
	if current.BookingType == domain.TypeDurationTime {
		from := current.TimeSlot.From()
		if req.TimeSlot != nil {
			from = req.TimeSlot.From()
		}

		duration := current.Duration
		if req.Duration != nil {
			duration = *req.Duration
		}

		if minutes := durationMinutes(product, duration); minutes > 0 {
			if to, err := from.AddMinutes(minutes); err == nil {
				return types.NewTimeSlot(from, to)
			}
		}
	}

	if req.TimeSlot != nil {
		return *req.TimeSlot
	}
	return current.TimeSlot
}

// durationMinutes переводит выбранную длительность в минуты по
// настройкам продукта ("hours" или "mins")
func durationMinutes(product *catalogservice.Product, duration int) int {
	if product == nil || product.DurationSettings == nil || duration <= 0 {
		return 0
	}

	base := product.DurationSettings.Duration * duration
	if product.DurationSettings.Unit == "hours" {
		return base * 60
	}
	return base
}

func detectResource(current *domain.Booking, req *Request, changes *domain.ChangeSet) {
	if req.ResourceID == nil {
		return
	}

	if current.ResourceID != nil && *current.ResourceID == *req.ResourceID {
		return
	}

	changes.Resource = &domain.ResourceChange{
		Old: current.ResourceID,
		New: req.ResourceID,
	}
}

func detectPersons(current *domain.Booking, req *Request, changes *domain.ChangeSet) {
	if req.Persons == nil {
		return
	}

	if current.Persons.Equal(req.Persons) {
		return
	}

	changes.Persons = &domain.PersonsChange{
		Old: current.Persons,
		New: req.Persons,
	}
}

func detectStatus(current *domain.Booking, req *Request, changes *domain.ChangeSet) {
	if req.Status == nil || *req.Status == current.Status {
		return
	}

	changes.Status = &domain.StatusChange{
		Old: current.Status,
		New: *req.Status,
	}
}

// sameCalendarDay сравнивает даты на уровне календарного дня
func sameCalendarDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
