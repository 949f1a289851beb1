package orderservice

import "errors"

var (
	// ErrOrderNotFound возвращается, когда заказ не найден
	ErrOrderNotFound = errors.New("orderservice client: order not found")

	// ErrLineItemNotFound возвращается, когда позиция заказа не найдена
	ErrLineItemNotFound = errors.New("orderservice client: line item not found")

	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("orderservice client: user not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("orderservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("orderservice client: invalid response")
)
