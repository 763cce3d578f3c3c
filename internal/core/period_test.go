package core

import (
	"errors"
	"testing"
)

func TestResolvePeriod(t *testing.T) {
	cases := []struct {
		year, month int
		endDay      int
		ok          bool
	}{
		{2025, 6, 30, true},
		{2025, 1, 31, true},
		{2024, 2, 29, true}, // leap year
		{2023, 2, 28, true},
		{2025, 12, 31, true},
		{2025, 0, 0, false},
		{2025, 13, 0, false},
		{1899, 6, 0, false},
	}
	for _, tc := range cases {
		p, err := ResolvePeriod(tc.year, tc.month)
		if !tc.ok {
			if !errors.Is(err, ErrInvalidPeriod) {
				t.Fatalf("ResolvePeriod(%d,%d) expected ErrInvalidPeriod, got %v", tc.year, tc.month, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ResolvePeriod(%d,%d) unexpected error: %v", tc.year, tc.month, err)
		}
		if p.Start.Day() != 1 {
			t.Errorf("ResolvePeriod(%d,%d) start day = %d, want 1", tc.year, tc.month, p.Start.Day())
		}
		if p.End.Day() != tc.endDay {
			t.Errorf("ResolvePeriod(%d,%d) end day = %d, want %d", tc.year, tc.month, p.End.Day(), tc.endDay)
		}
		if p.Year() != tc.year || p.Month() != tc.month {
			t.Errorf("ResolvePeriod(%d,%d) window landed in %d-%d", tc.year, tc.month, p.Year(), p.Month())
		}
	}
}

func TestPeriodContains(t *testing.T) {
	p, err := ResolvePeriod(2025, 6)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Contains(NewDate(2025, 6, 1)) || !p.Contains(NewDate(2025, 6, 30)) {
		t.Error("window boundaries should be inclusive")
	}
	if p.Contains(NewDate(2025, 5, 31)) || p.Contains(NewDate(2025, 7, 1)) {
		t.Error("adjacent days must fall outside the window")
	}
}
