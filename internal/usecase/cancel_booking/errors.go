package cancel_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("cancel_booking: booking not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит другому пользователю
	ErrAccessDenied = errors.New("cancel_booking: access denied")

	// ErrAlreadyCancelled возвращается при повторной отмене
	ErrAlreadyCancelled = errors.New("cancel_booking: booking is already cancelled")

	// ErrNotCancellable возвращается, когда политика отмены не позволяет
	// отменить бронирование (окно истекло, статус не оплачен или отмена
	// для продукта не включена)
	ErrNotCancellable = errors.New("cancel_booking: booking is not cancellable")

	// ErrProductNotFound возвращается, когда продукт бронирования не найден в каталоге
	ErrProductNotFound = errors.New("cancel_booking: product not found")

	// ErrExternalWrite возвращается при сбое записи во внешний сервис
	ErrExternalWrite = errors.New("cancel_booking: external write failed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_booking: internal error")
)
