package domain

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
	TimeFormat = "15:04"      // HH:MM

	DefaultDisplayDateFormat = "02.01.2006"
	DefaultDisplayTimeFormat = "15:04"
)

// Order line meta keys written by the reconciler.
// Machine-formatted keys are prefixed with an underscore;
// display values are stored under product-level labels.
const (
	MetaKeyBookingDate  = "_booking_date"
	MetaKeyCheckoutDate = "_checkout_date"
	MetaKeyTimeSlot     = "_time_slot"
	MetaKeyResourceID   = "_resource_id"
	MetaKeyPersons      = "_persons"
	MetaKeyQuantity     = "_qty"
)

// Default display labels for line meta; products may override them
const (
	DefaultStartDateLabel = "Start Date"
	DefaultEndDateLabel   = "End Date"
	DefaultTimeLabel      = "Booking Time"
	DefaultResourceLabel  = "Resource Type"
	DefaultPersonsLabel   = "Persons"
)

// Business validation constants
const (
	MinQuantity = 1

	// MinimalCutoffSeconds is the cutoff applied when cancellation is
	// switched on for a product with no explicit window configured:
	// the booking must be cancelled at least this long before it starts.
	MinimalCutoffSeconds = 60
)
