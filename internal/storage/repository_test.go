package storage

import (
	"context"
	"errors"
	"testing"

	"finvision/internal/core"
)

func TestUserLifecycle(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	u, err := repo.CreateUser(ctx, "Ada", "ada@example.com", "hash-1", "555-0100")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == 0 || u.Email != "ada@example.com" {
		t.Fatalf("stored user = %+v", u)
	}

	if _, err := repo.CreateUser(ctx, "Ada 2", "ada@example.com", "hash-2", ""); !errors.Is(err, core.ErrEmailTaken) {
		t.Errorf("duplicate email error = %v, want ErrEmailTaken", err)
	}

	got, hash, err := repo.GetUserByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != u.ID || hash != "hash-1" {
		t.Errorf("got user %+v hash %q", got, hash)
	}

	name := "Ada L."
	updated, err := repo.UpdateUser(ctx, u.ID, core.UserPatch{Name: &name})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.Name != "Ada L." || updated.Email != "ada@example.com" {
		t.Errorf("updated user = %+v", updated)
	}

	if _, _, err := repo.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown email error = %v, want ErrNotFound", err)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()
	u := testUser(t, repo, "tx@example.com")

	tx := seedTransaction(t, repo, u.ID, core.Expense, 2, 2550, core.NewDate(2025, 6, 3))
	if tx.ID == 0 || tx.Amount.Cents != 2550 {
		t.Fatalf("stored transaction = %+v", tx)
	}

	amount := core.Money{Cents: 3000}
	updated, err := repo.UpdateTransaction(ctx, tx.ID, u.ID, core.TransactionPatch{Amount: &amount})
	if err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	if updated.Amount.Cents != 3000 || updated.Date.String() != "2025-06-03" {
		t.Errorf("patched transaction = %+v, want only amount changed", updated)
	}

	// Empty patch is a no-op read.
	same, err := repo.UpdateTransaction(ctx, tx.ID, u.ID, core.TransactionPatch{})
	if err != nil {
		t.Fatalf("empty patch: %v", err)
	}
	if same.Amount.Cents != 3000 {
		t.Errorf("empty patch changed the record: %+v", same)
	}

	other := testUser(t, repo, "other@example.com")
	if _, err := repo.GetTransaction(ctx, tx.ID, other.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("cross-user read error = %v, want ErrNotFound", err)
	}
	if err := repo.DeleteTransaction(ctx, tx.ID, other.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("cross-user delete error = %v, want ErrNotFound", err)
	}

	if err := repo.DeleteTransaction(ctx, tx.ID, u.ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if _, err := repo.GetTransaction(ctx, tx.ID, u.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("deleted read error = %v, want ErrNotFound", err)
	}
}

func TestListTransactionsOrdering(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()
	u := testUser(t, repo, "list@example.com")

	seedTransaction(t, repo, u.ID, core.Expense, 2, 100, core.NewDate(2025, 6, 1))
	seedTransaction(t, repo, u.ID, core.Expense, 2, 200, core.NewDate(2025, 6, 20))
	seedTransaction(t, repo, u.ID, core.Expense, 2, 300, core.NewDate(2025, 6, 10))

	list, err := repo.ListTransactions(ctx, u.ID, 10, 0)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d transactions, want 3", len(list))
	}
	if list[0].Date.String() != "2025-06-20" || list[2].Date.String() != "2025-06-01" {
		t.Errorf("order = %s, %s, %s; want newest first",
			list[0].Date, list[1].Date, list[2].Date)
	}

	page, err := repo.ListTransactions(ctx, u.ID, 1, 1)
	if err != nil {
		t.Fatalf("ListTransactions page: %v", err)
	}
	if len(page) != 1 || page[0].Date.String() != "2025-06-10" {
		t.Errorf("page = %+v, want the middle transaction", page)
	}
}

func TestRecurringTemplates(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()
	u := testUser(t, repo, "recurring@example.com")

	tpl, err := repo.CreateTransaction(ctx, core.Transaction{
		UserID:      u.ID,
		Amount:      core.Money{Cents: 120000},
		Date:        core.NewDate(2025, 1, 31),
		Description: "Rent",
		Type:        core.Expense,
		CategoryID:  1,
		IsRecurring: true,
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	seedTransaction(t, repo, u.ID, core.Expense, 2, 500, core.NewDate(2025, 1, 31))

	templates, err := repo.ListRecurringTemplates(ctx)
	if err != nil {
		t.Fatalf("ListRecurringTemplates: %v", err)
	}
	if len(templates) != 1 || templates[0].Transaction.ID != tpl.ID {
		t.Fatalf("templates = %+v, want only the flagged transaction", templates)
	}
	if !templates[0].LastMaterialized.IsZero() {
		t.Errorf("fresh template has last_materialized %v", templates[0].LastMaterialized)
	}

	if err := repo.MarkMaterialized(ctx, tpl.ID, core.NewDate(2025, 2, 28)); err != nil {
		t.Fatalf("MarkMaterialized: %v", err)
	}
	got, err := repo.GetRecurringTemplate(ctx, tpl.ID)
	if err != nil {
		t.Fatalf("GetRecurringTemplate: %v", err)
	}
	if got.LastMaterialized.String() != "2025-02-28" {
		t.Errorf("last_materialized = %s, want 2025-02-28", got.LastMaterialized)
	}

	if err := repo.MarkMaterialized(ctx, 99999, core.NewDate(2025, 2, 28)); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown template error = %v, want ErrNotFound", err)
	}
}

func TestBudgetLifecycle(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()
	u := testUser(t, repo, "budget@example.com")

	b := seedBudget(t, repo, core.Budget{
		UserID: u.ID, ExpenseCategoryID: 2, Amount: core.Money{Cents: 40000},
		Period: core.PeriodMonthly, StartDate: core.NewDate(2025, 1, 1),
	})
	if !b.EndDate.IsZero() {
		t.Errorf("open-ended budget stored end date %v", b.EndDate)
	}

	end := core.NewDate(2025, 12, 31)
	updated, err := repo.UpdateBudget(ctx, b.ID, u.ID, core.BudgetPatch{EndDate: &end})
	if err != nil {
		t.Fatalf("UpdateBudget: %v", err)
	}
	if updated.EndDate.String() != "2025-12-31" {
		t.Errorf("end date = %v, want 2025-12-31", updated.EndDate)
	}

	// Clearing the end date via a zero Date reopens the budget.
	var zero core.Date
	reopened, err := repo.UpdateBudget(ctx, b.ID, u.ID, core.BudgetPatch{EndDate: &zero})
	if err != nil {
		t.Fatalf("UpdateBudget reopen: %v", err)
	}
	if !reopened.EndDate.IsZero() {
		t.Errorf("reopened budget still has end date %v", reopened.EndDate)
	}

	active, err := repo.ListActiveBudgets(ctx, u.ID, june2025(t))
	if err != nil {
		t.Fatalf("ListActiveBudgets: %v", err)
	}
	if len(active) != 1 {
		t.Errorf("active budgets = %d, want 1", len(active))
	}

	if err := repo.DeleteBudget(ctx, b.ID, u.ID); err != nil {
		t.Fatalf("DeleteBudget: %v", err)
	}
	if _, err := repo.GetBudget(ctx, b.ID, u.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("deleted budget read error = %v, want ErrNotFound", err)
	}
}

func TestSeededCategories(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	expense, err := repo.ListExpenseCategories(ctx)
	if err != nil {
		t.Fatalf("ListExpenseCategories: %v", err)
	}
	if len(expense) != 10 {
		t.Errorf("expense categories = %d, want 10", len(expense))
	}

	income, err := repo.ListIncomeCategories(ctx)
	if err != nil {
		t.Fatalf("ListIncomeCategories: %v", err)
	}
	if len(income) != 7 {
		t.Errorf("income categories = %d, want 7", len(income))
	}
}
