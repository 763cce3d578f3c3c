package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"finvision/internal/core"
)

const budgetColumns = `id, user_id, expense_category_id, amount_cents, period,
	start_date, COALESCE(end_date, '')`

func scanBudget(row interface{ Scan(...any) error }) (core.Budget, error) {
	var (
		b     core.Budget
		start string
		end   string
	)
	err := row.Scan(&b.ID, &b.UserID, &b.ExpenseCategoryID, &b.Amount.Cents,
		&b.Period, &start, &end)
	if err != nil {
		return core.Budget{}, err
	}
	if b.StartDate, err = core.ParseDate(start); err != nil {
		return core.Budget{}, fmt.Errorf("stored start date %q: %w", start, err)
	}
	if end != "" {
		if b.EndDate, err = core.ParseDate(end); err != nil {
			return core.Budget{}, fmt.Errorf("stored end date %q: %w", end, err)
		}
	}
	return b, nil
}

// CreateBudget inserts a budget and returns the stored record.
func (r *Repository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	const q = `
		INSERT INTO budgets (user_id, expense_category_id, amount_cents, period, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING ` + budgetColumns

	var end any
	if !b.EndDate.IsZero() {
		end = b.EndDate.String()
	}
	row := r.db.QueryRowContext(ctx, q,
		b.UserID, b.ExpenseCategoryID, b.Amount.Cents, b.Period, b.StartDate.String(), end)
	stored, err := scanBudget(row)
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	return stored, nil
}

// GetBudget returns a budget owned by the user.
func (r *Repository) GetBudget(ctx context.Context, id, userID int64) (core.Budget, error) {
	const q = `SELECT ` + budgetColumns + ` FROM budgets WHERE id = ? AND user_id = ?`

	stored, err := scanBudget(r.db.QueryRowContext(ctx, q, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return stored, nil
}

// ListBudgets returns all budgets of the user, largest first.
func (r *Repository) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	const q = `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = ?
		ORDER BY amount_cents DESC`

	return r.queryBudgets(ctx, q, userID)
}

// ListActiveBudgets returns the budgets whose lifetime overlaps the window:
// start_date <= window end and (no end_date or end_date >= window start).
func (r *Repository) ListActiveBudgets(ctx context.Context, userID int64, p core.Period) ([]core.Budget, error) {
	const q = `SELECT ` + budgetColumns + ` FROM budgets
		WHERE user_id = ?
		  AND start_date <= ?
		  AND (end_date IS NULL OR end_date >= ?)
		ORDER BY amount_cents DESC`

	return r.queryBudgets(ctx, q, userID, p.End.String(), p.Start.String())
}

func (r *Repository) queryBudgets(ctx context.Context, q string, args ...any) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	return out, nil
}

// UpdateBudget applies a patch to a budget owned by the user.
func (r *Repository) UpdateBudget(ctx context.Context, id, userID int64, patch core.BudgetPatch) (core.Budget, error) {
	if patch.IsEmpty() {
		return r.GetBudget(ctx, id, userID)
	}

	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	var args []any
	if patch.ExpenseCategoryID != nil {
		sets = append(sets, "expense_category_id = ?")
		args = append(args, *patch.ExpenseCategoryID)
	}
	if patch.Amount != nil {
		sets = append(sets, "amount_cents = ?")
		args = append(args, patch.Amount.Cents)
	}
	if patch.Period != nil {
		sets = append(sets, "period = ?")
		args = append(args, *patch.Period)
	}
	if patch.StartDate != nil {
		sets = append(sets, "start_date = ?")
		args = append(args, patch.StartDate.String())
	}
	if patch.EndDate != nil {
		sets = append(sets, "end_date = ?")
		if patch.EndDate.IsZero() {
			args = append(args, nil)
		} else {
			args = append(args, patch.EndDate.String())
		}
	}
	args = append(args, id, userID)

	q := "UPDATE budgets SET " + strings.Join(sets, ", ") +
		" WHERE id = ? AND user_id = ? RETURNING " + budgetColumns

	stored, err := scanBudget(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	return stored, nil
}

// DeleteBudget removes a budget owned by the user.
func (r *Repository) DeleteBudget(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// ListExpenseCategories returns the seeded expense categories.
func (r *Repository) ListExpenseCategories(ctx context.Context) ([]core.Category, error) {
	return r.queryCategories(ctx, `SELECT id, name FROM expense_categories ORDER BY name`)
}

// ListIncomeCategories returns the seeded income categories.
func (r *Repository) ListIncomeCategories(ctx context.Context) ([]core.Category, error) {
	return r.queryCategories(ctx, `SELECT id, name FROM income_categories ORDER BY name`)
}

// CategoryName resolves a category id against the table matching the
// transaction type.
func (r *Repository) CategoryName(ctx context.Context, typ core.TransactionType, id int64) (string, error) {
	table := "expense_categories"
	if typ == core.Income {
		table = "income_categories"
	}

	var name string
	err := r.db.QueryRowContext(ctx, `SELECT name FROM `+table+` WHERE id = ?`, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", core.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("category name: %w", err)
	}
	return name, nil
}

func (r *Repository) queryCategories(ctx context.Context, q string) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	return out, nil
}
