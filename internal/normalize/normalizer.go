// Package normalize turns raw records into normalized rows enriched
// with derived calendar fields.
//
// Normalization is deterministic, total, and fail-fast: the first
// malformed field aborts the whole input with a ParseError naming the
// offending row and column. Calling Normalize twice on identical input
// yields identical output, which is what lets the session layer skip
// recomputation on a cache hit.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"pizzapulse/internal/core"
)

// timeLayout is the only accepted order_time format.
const timeLayout = "15:04:05"

// dateLayouts are the accepted order_date formats, tried in order. The
// month-first layout matches how the reference datasets are exported.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
}

// Normalize parses every raw record and derives its calendar fields,
// preserving input order. It either returns a row per input record or
// the first error encountered; it never drops rows.
func Normalize(records []core.RawRecord) ([]core.Row, error) {
	rows := make([]core.Row, 0, len(records))
	for i, rec := range records {
		row, err := normalizeOne(i, rec)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func normalizeOne(i int, rec core.RawRecord) (core.Row, error) {
	date, err := parseDate(rec.OrderDate)
	if err != nil {
		return core.Row{}, &core.ParseError{Row: i, Column: "order_date", Value: rec.OrderDate, Err: err}
	}

	tod, err := parseTimeOfDay(rec.OrderTime)
	if err != nil {
		return core.Row{}, &core.ParseError{Row: i, Column: "order_time", Value: rec.OrderTime, Err: err}
	}

	qty, err := parseQuantity(rec.Quantity)
	if err != nil {
		return core.Row{}, &core.ParseError{Row: i, Column: "quantity", Value: rec.Quantity, Err: err}
	}

	price, err := core.ParseMoney(rec.TotalPrice)
	if err != nil {
		return core.Row{}, &core.ParseError{Row: i, Column: "total_price", Value: rec.TotalPrice, Err: err}
	}

	month := int(date.Month())
	_, week := date.ISOWeek()

	return core.Row{
		OrderID:    strings.TrimSpace(rec.OrderID),
		OrderDate:  date,
		OrderTime:  tod,
		Category:   strings.TrimSpace(rec.Category),
		Size:       strings.TrimSpace(rec.Size),
		Name:       strings.TrimSpace(rec.Name),
		Quantity:   qty,
		TotalPrice: price,

		Hour:    tod.Hour,
		Month:   month,
		Year:    date.Year(),
		Quarter: (month + 2) / 3,
		Weekday: date.Weekday().String(),
		Week:    week,
	}, nil
}

// parseDate accepts the supported layouts and pins the result to UTC
// midnight so date comparisons are exact.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// parseTimeOfDay enforces the fixed HH:MM:SS format.
func parseTimeOfDay(s string) (core.TimeOfDay, error) {
	t, err := time.Parse(timeLayout, strings.TrimSpace(s))
	if err != nil {
		return core.TimeOfDay{}, err
	}
	return core.TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
}

func parseQuantity(s string) (int64, error) {
	qty, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, core.ErrInvalidQuantity
	}
	if qty < 1 {
		return 0, core.ErrInvalidQuantity
	}
	return qty, nil
}
