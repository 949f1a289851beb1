package domain

// CancellationUnit is the unit of a product-level cancellation window.
type CancellationUnit string

const (
	UnitDay    CancellationUnit = "day"
	UnitHour   CancellationUnit = "hour"
	UnitMinute CancellationUnit = "minute"
)

// Seconds converts a duration expressed in this unit to seconds.
// Unknown units convert to 0, matching the source system's behaviour.
func (u CancellationUnit) Seconds(duration int) int64 {
	if duration <= 0 {
		return 0
	}

	switch u {
	case UnitDay:
		return int64(duration) * 24 * 60 * 60
	case UnitHour:
		return int64(duration) * 60 * 60
	case UnitMinute:
		return int64(duration) * 60
	default:
		return 0
	}
}

// ProductCancellationPolicy is the per-product cancellation override,
// read from product configuration. Enabled is an explicit switch
// independent of whether a window is configured.
type ProductCancellationPolicy struct {
	Enabled  bool
	Unit     CancellationUnit
	Duration int
}

// HasWindow reports whether both unit and a positive duration are configured
func (p ProductCancellationPolicy) HasWindow() bool {
	return p.Unit != "" && p.Duration > 0
}

// GlobalPolicy is the singleton booking configuration read from the catalog.
// It is passed in explicitly; there is no process-wide state.
type GlobalPolicy struct {
	// MinimumHoursBeforeCancel enables global cancellation when non-nil.
	// Zero means configured with no lead time required.
	MinimumHoursBeforeCancel *int

	DateFormat string // Go layout used for display-formatted dates
	TimeFormat string // Go layout used for display-formatted times

	// AddonPerDayPricing scales add-on unit prices by the number of days
	// of a multi-day booking when computing the new line price.
	AddonPerDayPricing bool
}

// DisplayDateFormat returns the configured date layout or the default
func (g GlobalPolicy) DisplayDateFormat() string {
	if g.DateFormat == "" {
		return DefaultDisplayDateFormat
	}
	return g.DateFormat
}

// DisplayTimeFormat returns the configured time layout or the default
func (g GlobalPolicy) DisplayTimeFormat() string {
	if g.TimeFormat == "" {
		return DefaultDisplayTimeFormat
	}
	return g.TimeFormat
}

// CutoffWindow is the resolved cancellation cutoff for one booking:
// the minimum lead time before start at or beyond which cancellation
// is permitted. At most one effective window exists per booking.
type CutoffWindow struct {
	Seconds   int64
	Effective bool
}
