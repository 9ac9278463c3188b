package ingest

import (
	"errors"
	"strings"
	"testing"

	"pizzapulse/internal/core"
)

const sampleHeader = "order_id,order_date,order_time,pizza_category,pizza_size,pizza_name,quantity,total_price"

func TestDecodeEmptyStream(t *testing.T) {
	_, err := Decode(strings.NewReader(""))
	if !errors.Is(err, core.ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
}

func TestDecodeHeaderOnly(t *testing.T) {
	records, err := Decode(strings.NewReader(sampleHeader + "\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected zero records, got %d", len(records))
	}
}

func TestDecodeMissingColumnsListsAll(t *testing.T) {
	// quantity and total_price absent
	header := "order_id,order_date,order_time,pizza_category,pizza_size,pizza_name"
	_, err := Decode(strings.NewReader(header + "\n1,2015-01-01,12:00:00,Classic,M,The Hawaiian Pizza\n"))

	var schemaErr *core.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if len(schemaErr.Missing) != 2 {
		t.Fatalf("expected 2 missing columns, got %v", schemaErr.Missing)
	}
	if schemaErr.Missing[0] != ColQuantity || schemaErr.Missing[1] != ColTotalPrice {
		t.Fatalf("unexpected missing columns: %v", schemaErr.Missing)
	}
}

func TestDecodePreservesOrderAndValues(t *testing.T) {
	input := sampleHeader + "\n" +
		"1,2015-01-01,11:38:36,Classic,M,The Hawaiian Pizza,1,13.25\n" +
		"2,2015-01-01,11:57:40,Veggie,L,\"The Five Cheese Pizza, Deluxe\",2,37.00\n"

	records, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].OrderID != "1" || records[0].TotalPrice != "13.25" {
		t.Fatalf("first record mismatch: %+v", records[0])
	}
	if records[1].Name != "The Five Cheese Pizza, Deluxe" {
		t.Fatalf("quoted field mismatch: %q", records[1].Name)
	}
}

func TestDecodeIgnoresExtraColumnsAndReordersHeader(t *testing.T) {
	// Columns shuffled and one extra, which must be ignored.
	input := "total_price,order_id,unit_price,order_date,order_time,pizza_category,pizza_size,pizza_name,quantity\n" +
		"13.25,42,13.25,2015-06-01,18:00:00,Supreme,XL,The Brie Carre Pizza,1\n"

	records, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].OrderID != "42" || records[0].Category != "Supreme" || records[0].TotalPrice != "13.25" {
		t.Fatalf("record mismatch: %+v", records[0])
	}
}

func TestDecodeStructurallyMalformedRow(t *testing.T) {
	goodRow := "1,2015-01-01,11:38:36,Classic,M,The Hawaiian Pizza,1,13.25\n"
	cases := []struct {
		name string
		bad  string
	}{
		{"unterminated quote", "\"unterminated,2015-01-01\n"},
		{"too few fields", "2,2015-01-01,11:38:36,Classic,M\n"},
		{"too many fields", "2,2015-01-01,11:38:36,Classic,M,The Hawaiian Pizza,1,13.25,extra\n"},
	}
	for _, tc := range cases {
		_, err := Decode(strings.NewReader(sampleHeader + "\n" + goodRow + tc.bad))
		var parseErr *core.ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("%s: expected ParseError, got %v", tc.name, err)
		}
		if parseErr.Row != 1 {
			t.Fatalf("%s: expected row 1, got row %d", tc.name, parseErr.Row)
		}
		if !strings.Contains(err.Error(), "row 1") {
			t.Fatalf("%s: expected row index in error, got %v", tc.name, err)
		}
	}
}
