package cancel_booking

// Request модель запроса на отмену бронирования
type Request struct {
	BookingID int64 // ID бронирования
	UserID    int64 // ID пользователя, выполняющего отмену
}

// Response модель ответа на отмену бронирования
type Response struct {
	ID              int64  // ID бронирования
	Status          string // Новый статус (cancelled)
	RefundInitiated bool   // Был ли инициирован возврат средств
}

// PolicyOptions настройки разрешения политики отмены.
// Заполняются из конфигурации сервиса при сборке usecase.
type PolicyOptions struct {
	// GlobalPrecedence инвертирует обычный приоритет: глобальная
	// политика побеждает продуктовую
	GlobalPrecedence bool

	// ExcludedProductIDs продукты, для которых отмена запрещена
	// независимо от политик
	ExcludedProductIDs []int64
}

// Excluded возвращает true, если продукт запрещен к отмене
func (o PolicyOptions) Excluded(productID int64) bool {
	for _, id := range o.ExcludedProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}
