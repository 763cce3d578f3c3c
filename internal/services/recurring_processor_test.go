package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"finvision/internal/core"
	"finvision/internal/storage"
)

func TestMonthlyDue(t *testing.T) {
	templateDate := core.NewDate(2025, 1, 15)

	tests := []struct {
		name string
		last core.Date
		now  time.Time
		want bool
	}{
		{
			name: "never materialized",
			last: core.Date{},
			now:  time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "already fired this month",
			last: core.NewDate(2025, 6, 15),
			now:  time.Date(2025, 6, 30, 9, 0, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "new month before target day",
			last: core.NewDate(2025, 5, 15),
			now:  time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "new month on target day",
			last: core.NewDate(2025, 5, 15),
			now:  time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "new month past target day",
			last: core.NewDate(2025, 5, 15),
			now:  time.Date(2025, 6, 20, 9, 0, 0, 0, time.UTC),
			want: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := monthlyDue(tc.last, tc.now, templateDate); got != tc.want {
				t.Errorf("monthlyDue(%v, %v) = %v, want %v", tc.last, tc.now, got, tc.want)
			}
		})
	}
}

func TestMonthlyDueClampsShortMonths(t *testing.T) {
	// Template anchored on the 31st: February fires on the 28th.
	templateDate := core.NewDate(2025, 1, 31)
	last := core.NewDate(2025, 1, 31)

	if monthlyDue(last, time.Date(2025, 2, 27, 9, 0, 0, 0, time.UTC), templateDate) {
		t.Error("due before the clamped day")
	}
	if !monthlyDue(last, time.Date(2025, 2, 28, 9, 0, 0, 0, time.UTC), templateDate) {
		t.Error("not due on the clamped last day of February")
	}
}

func TestInstanceDate(t *testing.T) {
	templateDate := core.NewDate(2025, 1, 31)

	got := instanceDate(templateDate, time.Date(2025, 2, 28, 9, 0, 0, 0, time.UTC))
	if got.String() != "2025-02-28" {
		t.Errorf("instance date = %s, want 2025-02-28", got)
	}

	got = instanceDate(templateDate, time.Date(2025, 3, 31, 9, 0, 0, 0, time.UTC))
	if got.String() != "2025-03-31" {
		t.Errorf("instance date = %s, want 2025-03-31", got)
	}
}

func testRepository(t *testing.T) *storage.Repository {
	t.Helper()

	repo, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestProcessDueMaterializesTemplates(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	u, err := repo.CreateUser(ctx, "Recurring", "recurring@example.com", "hash", "")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	svc := NewTransactionService(repo, nil)
	tpl, err := svc.Create(ctx, core.Transaction{
		UserID:      u.ID,
		Amount:      core.Money{Cents: 120000},
		Date:        core.NewDate(2025, 1, 5),
		Description: "Rent",
		Type:        core.Expense,
		CategoryID:  1,
		IsRecurring: true,
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	now := time.Date(2025, 6, 5, 8, 0, 0, 0, time.UTC)
	processor := NewRecurringProcessor(repo, nil)

	n, err := processor.ProcessDue(ctx, now)
	if err != nil {
		t.Fatalf("ProcessDue: %v", err)
	}
	if n != 1 {
		t.Fatalf("processed = %d, want 1", n)
	}

	// The template plus its instance.
	list, err := repo.ListTransactions(ctx, u.ID, 10, 0)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d transactions, want template plus instance", len(list))
	}
	instance := list[0]
	if instance.IsRecurring {
		t.Error("materialized instance must not itself be a template")
	}
	if instance.Date.String() != "2025-06-05" || instance.Amount.Cents != 120000 {
		t.Errorf("instance = %+v, want rent on 2025-06-05", instance)
	}

	// Second run in the same month is a no-op.
	n, err = processor.ProcessDue(ctx, now.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("ProcessDue again: %v", err)
	}
	if n != 0 {
		t.Errorf("second run processed %d, want 0", n)
	}

	got, err := repo.GetRecurringTemplate(ctx, tpl.ID)
	if err != nil {
		t.Fatalf("get template: %v", err)
	}
	if got.LastMaterialized.String() != "2025-06-05" {
		t.Errorf("last materialized = %s, want 2025-06-05", got.LastMaterialized)
	}
}

func TestProcessOneSkipsWhenNotDue(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	u, err := repo.CreateUser(ctx, "One", "one@example.com", "hash", "")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	tpl, err := repo.CreateTransaction(ctx, core.Transaction{
		UserID:      u.ID,
		Amount:      core.Money{Cents: 999},
		Date:        core.NewDate(2025, 1, 20),
		Type:        core.Expense,
		CategoryID:  2,
		IsRecurring: true,
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	if err := repo.MarkMaterialized(ctx, tpl.ID, core.NewDate(2025, 6, 20)); err != nil {
		t.Fatalf("mark materialized: %v", err)
	}

	processor := NewRecurringProcessor(repo, nil)
	if err := processor.ProcessOne(ctx, tpl.ID, time.Date(2025, 6, 25, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}

	list, err := repo.ListTransactions(ctx, u.ID, 10, 0)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("got %d transactions, want only the template", len(list))
	}
}
