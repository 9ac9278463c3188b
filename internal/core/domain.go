package core

import (
	"fmt"
	"time"
)

type (
	// RawRecord is one order line item exactly as read from the upload,
	// before any parsing or enrichment.
	RawRecord struct {
		OrderID    string
		OrderDate  string
		OrderTime  string
		Category   string
		Size       string
		Name       string
		Quantity   string
		TotalPrice string
	}

	// TimeOfDay is a wall-clock time without a calendar date.
	TimeOfDay struct {
		Hour   int `json:"hour"`
		Minute int `json:"minute"`
		Second int `json:"second"`
	}

	// Row is a normalized order line item. Rows are immutable once
	// built: every derived field is a pure function of OrderDate and
	// OrderTime and is never edited independently of its source.
	Row struct {
		OrderID    string    `json:"order_id"`
		OrderDate  time.Time `json:"order_date"`
		OrderTime  TimeOfDay `json:"order_time"`
		Category   string    `json:"pizza_category"`
		Size       string    `json:"pizza_size"`
		Name       string    `json:"pizza_name"`
		Quantity   int64     `json:"quantity"`
		TotalPrice Money     `json:"total_price_cents"`

		// Derived calendar fields.
		Hour    int    `json:"hour"`
		Month   int    `json:"month"`
		Year    int    `json:"year"`
		Quarter int    `json:"quarter"`
		Weekday string `json:"weekday"`
		Week    int    `json:"week"`
	}

	// Dataset is the full normalized record set for one upload. It is
	// built once per upload and treated as read-only afterwards, so it
	// is safe to share across concurrent report requests without locking.
	Dataset struct {
		Key        string    `json:"key"` // content hash of the uploaded bytes
		IngestedAt time.Time `json:"ingested_at"`
		Rows       []Row     `json:"rows"`
	}

	// DateRange bounds a filter, inclusive on both ends.
	DateRange struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	}

	// Filter narrows the working record subset per user interaction.
	// It never mutates the dataset it is applied to.
	Filter struct {
		Category string     `json:"category,omitempty"` // "" or "All" keeps every category
		Dates    *DateRange `json:"dates,omitempty"`
	}
)

// AllCategories is the sentinel category value that disables category
// filtering.
const AllCategories = "All"

// String renders the time in HH:MM:SS form, the same format it is
// parsed from.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Matches reports whether the row satisfies both filter constraints.
func (f Filter) Matches(r Row) bool {
	if f.Category != "" && f.Category != AllCategories && r.Category != f.Category {
		return false
	}
	if f.Dates != nil {
		if r.OrderDate.Before(f.Dates.Start) || r.OrderDate.After(f.Dates.End) {
			return false
		}
	}
	return true
}

// IsAll reports whether the filter retains every row.
func (f Filter) IsAll() bool {
	return (f.Category == "" || f.Category == AllCategories) && f.Dates == nil
}

// Validate checks range invariants on the derived fields. A row
// produced by the normalizer always passes; this exists as a guard for
// rows rehydrated from a registry backend.
func (r Row) Validate() error {
	if r.Hour < 0 || r.Hour > 23 {
		return fmt.Errorf("hour %d out of range: %w", r.Hour, ErrInvalidDerivedField)
	}
	if r.Month < 1 || r.Month > 12 {
		return fmt.Errorf("month %d out of range: %w", r.Month, ErrInvalidDerivedField)
	}
	if r.Quarter < 1 || r.Quarter > 4 {
		return fmt.Errorf("quarter %d out of range: %w", r.Quarter, ErrInvalidDerivedField)
	}
	if r.Week < 1 || r.Week > 53 {
		return fmt.Errorf("week %d out of range: %w", r.Week, ErrInvalidDerivedField)
	}
	if r.Quantity < 1 {
		return fmt.Errorf("quantity %d out of range: %w", r.Quantity, ErrInvalidQuantity)
	}
	return nil
}
