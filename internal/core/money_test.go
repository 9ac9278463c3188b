package core

import (
	"encoding/json"
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"13.25", 1325, true},
		{"13,25", 1325, true},
		{"0", 0, true}, // fully discounted line item
		{"0.00", 0, true},
		{"0.01", 1, true},
		{".5", 50, true},
		{"12.345", 1234, true}, // rounds down
		{"12.346", 1235, true}, // rounds up
		{"1.005", 101, true},
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{".", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyAddAndUnits(t *testing.T) {
	sum := Money{Cents: 1325}.Add(Money{Cents: 2175})
	if sum.Cents != 3500 {
		t.Fatalf("expected 3500 cents, got %d", sum.Cents)
	}
	if sum.Units() != 35.0 {
		t.Fatalf("expected 35.0 units, got %v", sum.Units())
	}
}

func TestMoneyJSONIsBareCents(t *testing.T) {
	data, err := json.Marshal(Money{Cents: 1325})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "1325" {
		t.Fatalf("expected bare integer, got %s", data)
	}

	var m Money
	if err := json.Unmarshal([]byte("210"), &m); err != nil || m.Cents != 210 {
		t.Fatalf("expected 210 cents, got %d (err=%v)", m.Cents, err)
	}
	if err := json.Unmarshal([]byte(`"210"`), &m); err == nil {
		t.Fatalf("expected error for quoted amount")
	}
}
