package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"0.01", 1, true},
		{"0", 0, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{45000, "450.00"},
		{100050, "1000.50"},
		{-5500, "-55.00"},
	}
	for _, tc := range cases {
		b, err := json.Marshal(Money{Cents: tc.cents})
		if err != nil {
			t.Fatalf("marshal %d: %v", tc.cents, err)
		}
		if string(b) != tc.want {
			t.Errorf("marshal %d = %s, want %s", tc.cents, b, tc.want)
		}
	}

	var m Money
	if err := json.Unmarshal([]byte("123.45"), &m); err != nil || m.Cents != 12345 {
		t.Errorf("unmarshal 123.45 = %d (err=%v), want 12345", m.Cents, err)
	}
}

func TestMoneyArithmetic(t *testing.T) {
	income := Money{Cents: 100000}
	expense := Money{Cents: 45000}
	if got := income.Sub(expense); got.Cents != 55000 {
		t.Errorf("Sub = %d, want 55000", got.Cents)
	}
	if got := expense.Add(Money{Cents: 15000}); got.Cents != 60000 {
		t.Errorf("Add = %d, want 60000", got.Cents)
	}
}
