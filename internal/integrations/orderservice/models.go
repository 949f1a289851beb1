package orderservice

// Order модель заказа из OrderService.
// Заказ - авторитетный источник данных о деньгах.
type Order struct {
	ID               int64   `json:"id"`
	Total            float64 `json:"total"`
	Currency         string  `json:"currency"`
	CurrencySymbol   string  `json:"currency_symbol"`
	PricesIncludeTax bool    `json:"prices_include_tax"`
	TaxEnabled       bool    `json:"tax_enabled"`
	TaxRate          float64 `json:"tax_rate"` // например, 0.20 для 20%
}

// LineItem позиция заказа
type LineItem struct {
	ID         int64   `json:"id"`
	OrderID    int64   `json:"order_id"`
	ProductID  int64   `json:"product_id"`
	Quantity   int     `json:"quantity"`
	Subtotal   float64 `json:"subtotal"`
	Total      float64 `json:"total"`
	AddonPrice float64 `json:"addon_price"` // цена опций (add-on) за единицу
}

// User пользователь, от имени которого выполняется изменение.
// Имя нужно для аудиторских заметок в заказе.
type User struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
}

// lineAmountsRequest тело запроса на обновление сумм позиции
type lineAmountsRequest struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// lineMetaRequest тело запроса на обновление метаданных позиции
type lineMetaRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// noteRequest тело запроса на добавление заметки к заказу
type noteRequest struct {
	Text string `json:"text"`
}

// refundResponse ответ на запрос возврата средств
type refundResponse struct {
	Refunded bool `json:"refunded"`
}

// ErrorResponse модель ошибки от OrderService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
