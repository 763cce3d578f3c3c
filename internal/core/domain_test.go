package core

import (
	"errors"
	"testing"
)

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		UserID:     1,
		Amount:     Money{Cents: 1000},
		Date:       NewDate(2025, 6, 1),
		Type:       Income,
		CategoryID: 2,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	t.Run("bad type", func(t *testing.T) {
		tx := valid
		tx.Type = "transfer"
		if !errors.Is(tx.Validate(), ErrInvalidType) {
			t.Error("expected ErrInvalidType")
		}
	})
	t.Run("negative amount", func(t *testing.T) {
		tx := valid
		tx.Amount = Money{Cents: -1}
		if !errors.Is(tx.Validate(), ErrInvalidAmount) {
			t.Error("expected ErrInvalidAmount")
		}
	})
	t.Run("missing category", func(t *testing.T) {
		tx := valid
		tx.CategoryID = 0
		if !errors.Is(tx.Validate(), ErrInvalidCategory) {
			t.Error("expected ErrInvalidCategory")
		}
	})
	t.Run("zero date", func(t *testing.T) {
		tx := valid
		tx.Date = Date{}
		if !errors.Is(tx.Validate(), ErrInvalidDate) {
			t.Error("expected ErrInvalidDate")
		}
	})
}

func TestBudgetActiveIn(t *testing.T) {
	june, _ := ResolvePeriod(2025, 6)
	cases := []struct {
		name   string
		start  Date
		end    Date
		active bool
	}{
		{"open ended, started earlier", NewDate(2025, 1, 1), Date{}, true},
		{"starts mid month", NewDate(2025, 6, 15), Date{}, true},
		{"starts after month", NewDate(2025, 7, 1), Date{}, false},
		{"ended before month", NewDate(2025, 1, 1), NewDate(2025, 5, 31), false},
		{"ends on month start", NewDate(2025, 1, 1), NewDate(2025, 6, 1), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := Budget{StartDate: tc.start, EndDate: tc.end}
			if got := b.ActiveIn(june); got != tc.active {
				t.Errorf("ActiveIn = %v, want %v", got, tc.active)
			}
		})
	}
}

func TestBudgetValidate(t *testing.T) {
	b := Budget{
		ExpenseCategoryID: 1,
		Amount:            Money{Cents: 50000},
		Period:            PeriodMonthly,
		StartDate:         NewDate(2025, 1, 1),
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("valid budget rejected: %v", err)
	}
	b.EndDate = NewDate(2024, 12, 1)
	if !errors.Is(b.Validate(), ErrEndBeforeStart) {
		t.Error("expected ErrEndBeforeStart")
	}
	b.EndDate = Date{}
	b.Period = "weekly"
	if !errors.Is(b.Validate(), ErrInvalidBudgetPeriod) {
		t.Error("expected ErrInvalidBudgetPeriod")
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2025, 6, 1)
	b, err := d.MarshalJSON()
	if err != nil || string(b) != `"2025-06-01"` {
		t.Fatalf("MarshalJSON = %s (err=%v)", b, err)
	}
	var zero Date
	b, _ = zero.MarshalJSON()
	if string(b) != "null" {
		t.Errorf("zero date should marshal to null, got %s", b)
	}
	var parsed Date
	if err := parsed.UnmarshalJSON([]byte(`"2025-06-15"`)); err != nil {
		t.Fatal(err)
	}
	if parsed.Day() != 15 {
		t.Errorf("parsed day = %d, want 15", parsed.Day())
	}
}
