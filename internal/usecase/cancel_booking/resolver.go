package cancel_booking

import (
	"time"

	"github.com/davm17/BLS-BookingService/internal/domain"
)

// ResolveCutoff разрешает окно отмены для продукта из продуктовой
// и глобальной политик. Чистая функция: никаких обращений к внешним
// сервисам, весь ввод передается явно.
//
// Порядок разрешения:
//  1. Продукт из списка исключений - отмена запрещена.
//  2. Включенность: продуктовый флаг, при его отсутствии - глобальная
//     политика. Флаг GlobalPrecedence принудительно переключает
//     включенность на глобальную политику.
//  3. Длительность окна: продуктовая (unit * duration), иначе глобальная
//     (часы * 3600), иначе минимальное окно в 60 секунд - "включено без
//     явного окна" означает отмену хотя бы за минуту до начала.
func ResolveCutoff(
	product domain.ProductCancellationPolicy,
	global domain.GlobalPolicy,
	productID int64,
	opts PolicyOptions,
) domain.CutoffWindow {
	if opts.Excluded(productID) {
		return domain.CutoffWindow{}
	}

	globalEnabled := global.MinimumHoursBeforeCancel != nil

	enabled := product.Enabled
	if !enabled {
		enabled = globalEnabled
	}
	if opts.GlobalPrecedence {
		enabled = globalEnabled
	}

	if !enabled {
		return domain.CutoffWindow{}
	}

	switch {
	case !opts.GlobalPrecedence && product.Enabled && product.HasWindow():
		return domain.CutoffWindow{
			Seconds:   product.Unit.Seconds(product.Duration),
			Effective: true,
		}
	case globalEnabled:
		return domain.CutoffWindow{
			Seconds:   int64(*global.MinimumHoursBeforeCancel) * 60 * 60,
			Effective: true,
		}
	default:
		return domain.CutoffWindow{
			Seconds:   domain.MinimalCutoffSeconds,
			Effective: true,
		}
	}
}

// IsCancellable решает, можно ли отменить бронирование в момент now
// при разрешенном окне window. Правила проверяются по порядку, первое
// нарушенное дает отказ:
//   - бронирование еще не началось;
//   - бронирование оплачено;
//   - окно отмены вообще действует;
//   - до начала осталось не меньше, чем требует окно.
func IsCancellable(booking *domain.Booking, now time.Time, window domain.CutoffWindow) bool {
	if booking.StartAt().Before(now) {
		return false
	}

	if !booking.IsPaid() {
		return false
	}

	if !window.Effective {
		return false
	}

	return booking.SecondsUntilStart(now) >= window.Seconds
}
