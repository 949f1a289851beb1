package edit_booking

import "github.com/davm17/BLS-BookingService/internal/integrations/orderservice"

// PriceInputs входные данные расчета новой стоимости позиции
type PriceInputs struct {
	// ChargedAmount базовая списанная сумма без опционной составляющей:
	// цена опций добавляется при расчете отдельно
	ChargedAmount float64

	// AddonPrice цена опций (add-on) за единицу
	AddonPrice float64

	// Days длительность бронирования в днях
	Days int

	// AddonPerDay умножает цену опций на количество дней
	// (multi-day бронирования с посуточными опциями)
	AddonPerDay bool
}

// ComputePriceDelta пересчитывает стоимость позиции и решает, изменилась
// ли цена. Чистая функция.
//
// Цена за единицу - списанная сумма, поделенная на новое количество,
// плюс цена опций (при посуточных опциях - умноженная на количество
// дней). Сравнение идет со старой стоимостью, умноженной на старое
// количество: так хранит стоимость источник данных о бронированиях.
func ComputePriceDelta(newQuantity int, in PriceInputs, oldCost float64, oldQuantity int) (float64, bool) {
	if newQuantity < 1 {
		newQuantity = 1
	}

	unitPrice := in.ChargedAmount/float64(newQuantity) +
		AddonComponent(in.AddonPrice, 1, in.Days, in.AddonPerDay)

	newTotal := unitPrice * float64(newQuantity)
	changed := oldCost*float64(oldQuantity) != newTotal

	return newTotal, changed
}

// AddonComponent возвращает опционную составляющую стоимости позиции
// для quantity единиц. При посуточных опциях цена опций масштабируется
// на количество дней. Чистая функция; нужна и для расчета новой
// стоимости, и для выделения базовой суммы из итога позиции, который
// опции уже содержит.
func AddonComponent(addonPrice float64, quantity, days int, perDay bool) float64 {
	if quantity < 1 {
		quantity = 1
	}
	if perDay && days > 1 {
		addonPrice *= float64(days)
	}
	return addonPrice * float64(quantity)
}

// SplitTax раскладывает новую стоимость позиции на налогооблагаемую базу
// и налог по настройкам заказа. Возвращает (subtotal, tax); итог позиции -
// их сумма.
func SplitTax(total float64, order *orderservice.Order) (float64, float64) {
	if !order.TaxEnabled || order.TaxRate <= 0 {
		return total, 0
	}

	if order.PricesIncludeTax {
		subtotal := total / (1 + order.TaxRate)
		return subtotal, total - subtotal
	}

	return total, total * order.TaxRate
}
