package normalize

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"pizzapulse/internal/core"
)

func record(date, tod, qty, price string) core.RawRecord {
	return core.RawRecord{
		OrderID:    "1",
		OrderDate:  date,
		OrderTime:  tod,
		Category:   "Classic",
		Size:       "M",
		Name:       "The Hawaiian Pizza",
		Quantity:   qty,
		TotalPrice: price,
	}
}

func TestNormalizeDerivedFields(t *testing.T) {
	cases := []struct {
		date    string
		hour    int
		month   int
		year    int
		quarter int
		weekday string
		week    int
	}{
		{"2015-01-01", 11, 1, 2015, 1, "Thursday", 1},
		{"2015-06-15", 11, 6, 2015, 2, "Monday", 25},
		{"2015-10-31", 11, 10, 2015, 4, "Saturday", 44},
		// ISO week crosses the calendar year on both sides.
		{"2021-01-01", 11, 1, 2021, 1, "Friday", 53},
		{"2019-12-30", 11, 12, 2019, 4, "Monday", 1},
	}
	for _, tc := range cases {
		rows, err := Normalize([]core.RawRecord{record(tc.date, "11:38:36", "1", "13.25")})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.date, err)
		}
		r := rows[0]
		if r.Hour != tc.hour || r.Month != tc.month || r.Year != tc.year ||
			r.Quarter != tc.quarter || r.Weekday != tc.weekday || r.Week != tc.week {
			t.Fatalf("%s: derived fields mismatch: %+v", tc.date, r)
		}
	}
}

func TestNormalizeAcceptedDateLayouts(t *testing.T) {
	want := time.Date(2015, time.January, 2, 0, 0, 0, 0, time.UTC)
	for _, date := range []string{"2015-01-02", "2015/01/02", "1/2/2015"} {
		rows, err := Normalize([]core.RawRecord{record(date, "11:38:36", "1", "13.25")})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", date, err)
		}
		if !rows[0].OrderDate.Equal(want) {
			t.Fatalf("%s: expected %v, got %v", date, want, rows[0].OrderDate)
		}
	}
}

func TestNormalizeDatePinnedToUTCMidnight(t *testing.T) {
	rows, err := Normalize([]core.RawRecord{record("2015-03-15", "23:59:59", "1", "13.25")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := rows[0].OrderDate
	if d.Hour() != 0 || d.Minute() != 0 || d.Location() != time.UTC {
		t.Fatalf("expected UTC midnight, got %v", d)
	}
}

func TestNormalizeFailFast(t *testing.T) {
	cases := []struct {
		name   string
		rec    core.RawRecord
		column string
	}{
		{"bad date", record("01-01-2015", "11:38:36", "1", "13.25"), "order_date"},
		{"bad time", record("2015-01-01", "11:38", "1", "13.25"), "order_time"},
		{"zero quantity", record("2015-01-01", "11:38:36", "0", "13.25"), "quantity"},
		{"fractional quantity", record("2015-01-01", "11:38:36", "1.5", "13.25"), "quantity"},
		{"negative price", record("2015-01-01", "11:38:36", "1", "-13.25"), "total_price"},
	}
	good := record("2015-01-01", "11:38:36", "1", "13.25")
	for _, tc := range cases {
		_, err := Normalize([]core.RawRecord{good, tc.rec})
		var parseErr *core.ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("%s: expected ParseError, got %v", tc.name, err)
		}
		if parseErr.Row != 1 || parseErr.Column != tc.column {
			t.Fatalf("%s: expected row 1 column %s, got row %d column %s",
				tc.name, tc.column, parseErr.Row, parseErr.Column)
		}
	}
}

func TestNormalizeTrimsStrings(t *testing.T) {
	rec := record("2015-01-01", "11:38:36", "2", "26.50")
	rec.Name = "  The Hawaiian Pizza  "
	rec.Category = " Classic"
	rows, err := Normalize([]core.RawRecord{rec})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Name != "The Hawaiian Pizza" || rows[0].Category != "Classic" {
		t.Fatalf("expected trimmed strings, got %+v", rows[0])
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	records := []core.RawRecord{
		record("2015-01-01", "11:38:36", "1", "13.25"),
		record("2015-06-15", "18:02:59", "3", "51.75"),
	}
	first, err := Normalize(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Normalize(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical input must normalize to identical rows")
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	rows, err := Normalize(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}
