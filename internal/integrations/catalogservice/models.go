package catalogservice

import "github.com/davm17/BLS-BookingService/internal/domain"

// Product модель бронируемого продукта из каталога.
// Сервис бронирований только читает конфигурацию продукта,
// каталогом он не владеет.
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	BookingType string `json:"booking_type"`

	CancellationPolicy CancellationPolicy `json:"cancellation_policy"`
	DurationSettings   *DurationSettings  `json:"duration_settings,omitempty"`

	Resources   []Resource   `json:"resources,omitempty"`
	PersonTypes []PersonType `json:"person_types,omitempty"`

	Labels Labels `json:"labels"`
}

// CancellationPolicy продуктовая политика отмены
type CancellationPolicy struct {
	Enabled  bool   `json:"enabled"`
	Unit     string `json:"unit"` // day | hour | minute
	Duration int    `json:"duration"`
}

// ToDomain конвертирует политику в domain модель
func (p CancellationPolicy) ToDomain() domain.ProductCancellationPolicy {
	return domain.ProductCancellationPolicy{
		Enabled:  p.Enabled,
		Unit:     domain.CancellationUnit(p.Unit),
		Duration: p.Duration,
	}
}

// DurationSettings настройки продукта типа duration_time:
// выбранная пользователем длительность умножается на Duration
// в единицах Unit ("hours" или "mins")
type DurationSettings struct {
	Duration int    `json:"duration"`
	Unit     string `json:"unit"`
}

// Resource бронируемый ресурс продукта
type Resource struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// PersonType типизированная категория участников
type PersonType struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Labels отображаемые названия полей бронирования для продукта
type Labels struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Time      string `json:"time"`
	Resource  string `json:"resource"`
	Persons   string `json:"persons"`
}

// GlobalPolicy глобальная конфигурация бронирований (singleton)
type GlobalPolicy struct {
	MinimumHoursBeforeCancel *int   `json:"minimum_hours_before_cancel,omitempty"`
	DateFormat               string `json:"date_format"`
	TimeFormat               string `json:"time_format"`
	AddonPerDayPricing       bool   `json:"addon_per_day_pricing"`
}

// ToDomain конвертирует глобальную политику в domain модель
func (g *GlobalPolicy) ToDomain() domain.GlobalPolicy {
	if g == nil {
		return domain.GlobalPolicy{}
	}
	return domain.GlobalPolicy{
		MinimumHoursBeforeCancel: g.MinimumHoursBeforeCancel,
		DateFormat:               g.DateFormat,
		TimeFormat:               g.TimeFormat,
		AddonPerDayPricing:       g.AddonPerDayPricing,
	}
}

// ResourceTitle возвращает название ресурса по ID или пустую строку
func (p *Product) ResourceTitle(resourceID int64) string {
	for _, r := range p.Resources {
		if r.ID == resourceID {
			return r.Title
		}
	}
	return ""
}

// PersonTypeTitle возвращает название категории участников по ID
func (p *Product) PersonTypeTitle(personTypeID int64) string {
	for _, pt := range p.PersonTypes {
		if pt.ID == personTypeID {
			return pt.Title
		}
	}
	return ""
}
