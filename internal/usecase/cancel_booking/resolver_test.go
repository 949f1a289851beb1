package cancel_booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davm17/BLS-BookingService/internal/domain"
	"github.com/davm17/BLS-BookingService/pkg/ptr"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func paidBooking(start time.Time) *domain.Booking {
	return &domain.Booking{
		ID:          1,
		ProductID:   10,
		CustomerID:  7,
		BookingType: domain.TypeSingleDay,
		StartDate:   start,
		Quantity:    1,
		Status:      domain.StatusPaid,
	}
}

func TestResolveCutoff_ProductWindow(t *testing.T) {
	product := domain.ProductCancellationPolicy{
		Enabled:  true,
		Unit:     domain.UnitHour,
		Duration: 24,
	}

	window := ResolveCutoff(product, domain.GlobalPolicy{}, 10, PolicyOptions{})

	require.True(t, window.Effective)
	assert.Equal(t, int64(24*60*60), window.Seconds)
}

func TestResolveCutoff_UnitConversion(t *testing.T) {
	tests := []struct {
		name     string
		unit     domain.CancellationUnit
		duration int
		want     int64
	}{
		{"days", domain.UnitDay, 2, 2 * 24 * 60 * 60},
		{"hours", domain.UnitHour, 12, 12 * 60 * 60},
		{"minutes", domain.UnitMinute, 30, 30 * 60},
		{"unknown unit", domain.CancellationUnit("week"), 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := domain.ProductCancellationPolicy{
				Enabled:  true,
				Unit:     tt.unit,
				Duration: tt.duration,
			}

			window := ResolveCutoff(product, domain.GlobalPolicy{}, 10, PolicyOptions{})

			require.True(t, window.Effective)
			assert.Equal(t, tt.want, window.Seconds)
		})
	}
}

func TestResolveCutoff_GlobalFallback(t *testing.T) {
	product := domain.ProductCancellationPolicy{Enabled: false}
	global := domain.GlobalPolicy{MinimumHoursBeforeCancel: ptr.Ptr(12)}

	window := ResolveCutoff(product, global, 10, PolicyOptions{})

	require.True(t, window.Effective)
	assert.Equal(t, int64(12*60*60), window.Seconds)
}

func TestResolveCutoff_DisabledEverywhere(t *testing.T) {
	window := ResolveCutoff(domain.ProductCancellationPolicy{}, domain.GlobalPolicy{}, 10, PolicyOptions{})

	assert.False(t, window.Effective)
	assert.Zero(t, window.Seconds)
}

func TestResolveCutoff_EnabledWithoutWindow(t *testing.T) {
	// Включено без явного окна - минимальное окно в 60 секунд
	product := domain.ProductCancellationPolicy{Enabled: true}

	window := ResolveCutoff(product, domain.GlobalPolicy{}, 10, PolicyOptions{})

	require.True(t, window.Effective)
	assert.Equal(t, int64(domain.MinimalCutoffSeconds), window.Seconds)
}

func TestResolveCutoff_GlobalPrecedence(t *testing.T) {
	product := domain.ProductCancellationPolicy{
		Enabled:  true,
		Unit:     domain.UnitHour,
		Duration: 24,
	}

	t.Run("global wins over product window", func(t *testing.T) {
		global := domain.GlobalPolicy{MinimumHoursBeforeCancel: ptr.Ptr(6)}

		window := ResolveCutoff(product, global, 10, PolicyOptions{GlobalPrecedence: true})

		require.True(t, window.Effective)
		assert.Equal(t, int64(6*60*60), window.Seconds)
	})

	t.Run("global absent disables cancellation", func(t *testing.T) {
		window := ResolveCutoff(product, domain.GlobalPolicy{}, 10, PolicyOptions{GlobalPrecedence: true})

		assert.False(t, window.Effective)
	})
}

func TestResolveCutoff_ExcludedProduct(t *testing.T) {
	product := domain.ProductCancellationPolicy{
		Enabled:  true,
		Unit:     domain.UnitHour,
		Duration: 24,
	}
	opts := PolicyOptions{ExcludedProductIDs: []int64{10, 20}}

	window := ResolveCutoff(product, domain.GlobalPolicy{}, 10, opts)

	assert.False(t, window.Effective)
}

func TestResolveCutoff_Pure(t *testing.T) {
	product := domain.ProductCancellationPolicy{
		Enabled:  true,
		Unit:     domain.UnitDay,
		Duration: 1,
	}
	global := domain.GlobalPolicy{MinimumHoursBeforeCancel: ptr.Ptr(12)}

	first := ResolveCutoff(product, global, 10, PolicyOptions{})
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, ResolveCutoff(product, global, 10, PolicyOptions{}))
	}
}

func TestIsCancellable_WithinWindow(t *testing.T) {
	// Бронирование 2025-06-10, окно 24 часа, сейчас 2025-06-08: 48ч >= 24ч
	booking := paidBooking(date(2025, time.June, 10))
	now := date(2025, time.June, 8)
	window := domain.CutoffWindow{Seconds: 24 * 60 * 60, Effective: true}

	assert.True(t, IsCancellable(booking, now, window))
}

func TestIsCancellable_WindowExpired(t *testing.T) {
	// Осталось 22 часа при окне в 24 часа
	booking := paidBooking(date(2025, time.June, 10))
	now := time.Date(2025, time.June, 9, 2, 0, 0, 0, time.UTC)
	window := domain.CutoffWindow{Seconds: 24 * 60 * 60, Effective: true}

	assert.False(t, IsCancellable(booking, now, window))
}

func TestIsCancellable_GlobalFallbackWindow(t *testing.T) {
	// Продуктовая политика выключена, глобальная 12 часов, осталось 15
	booking := paidBooking(time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC))
	now := time.Date(2025, time.June, 9, 9, 0, 0, 0, time.UTC)

	window := ResolveCutoff(
		domain.ProductCancellationPolicy{Enabled: false},
		domain.GlobalPolicy{MinimumHoursBeforeCancel: ptr.Ptr(12)},
		booking.ProductID,
		PolicyOptions{},
	)

	require.True(t, window.Effective)
	assert.True(t, IsCancellable(booking, now, window))
}

func TestIsCancellable_StartedBooking(t *testing.T) {
	booking := paidBooking(date(2025, time.June, 1))
	now := date(2025, time.June, 2)
	window := domain.CutoffWindow{Seconds: 60, Effective: true}

	assert.False(t, IsCancellable(booking, now, window))
}

func TestIsCancellable_UnpaidBooking(t *testing.T) {
	booking := paidBooking(date(2025, time.June, 10))
	booking.Status = domain.StatusPending
	now := date(2025, time.June, 1)
	window := domain.CutoffWindow{Seconds: 60, Effective: true}

	assert.False(t, IsCancellable(booking, now, window))
}

func TestIsCancellable_NoEffectiveWindow(t *testing.T) {
	booking := paidBooking(date(2025, time.June, 10))
	now := date(2025, time.June, 1)

	assert.False(t, IsCancellable(booking, now, domain.CutoffWindow{}))
}

func TestIsCancellable_MonotonicInTimeRemaining(t *testing.T) {
	// Если отмена доступна за T секунд до начала, она доступна и за T' > T
	booking := paidBooking(date(2025, time.June, 10))
	window := domain.CutoffWindow{Seconds: 24 * 60 * 60, Effective: true}

	eligibleAt := time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC)
	require.True(t, IsCancellable(booking, eligibleAt, window))

	for hours := 1; hours <= 72; hours++ {
		earlier := eligibleAt.Add(-time.Duration(hours) * time.Hour)
		assert.True(t, IsCancellable(booking, earlier, window),
			"expected eligible %d hours earlier", hours)
	}
}
