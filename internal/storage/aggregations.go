package storage

import (
	"context"
	"fmt"
	"strconv"

	"finvision/internal/core"
	"finvision/internal/dashboard"
)

// MonthlySummary sums income and expense over the window in one pass.
func (r *Repository) MonthlySummary(ctx context.Context, userID int64, p core.Period) (dashboard.Summary, error) {
	const q = `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END), 0)
		FROM transactions
		WHERE user_id = ? AND date BETWEEN ? AND ?`

	var s dashboard.Summary
	err := r.db.QueryRowContext(ctx, q, userID, p.Start.String(), p.End.String()).
		Scan(&s.Income.Cents, &s.Expense.Cents)
	if err != nil {
		return dashboard.Summary{}, fmt.Errorf("monthly summary: %w", err)
	}
	s.Balance = s.Income.Sub(s.Expense)
	return s, nil
}

// DailyExpenses buckets the window's expenses by day of month. Buckets are
// sparse: days without expenses produce no row. Labels are the bare day
// number without leading zero.
func (r *Repository) DailyExpenses(ctx context.Context, userID int64, p core.Period) ([]dashboard.SeriesPoint, error) {
	const q = `
		SELECT CAST(strftime('%d', date) AS INTEGER) AS day, SUM(amount_cents)
		FROM transactions
		WHERE user_id = ? AND type = 'expense' AND date BETWEEN ? AND ?
		GROUP BY day
		ORDER BY day`

	rows, err := r.db.QueryContext(ctx, q, userID, p.Start.String(), p.End.String())
	if err != nil {
		return nil, fmt.Errorf("daily expenses: %w", err)
	}
	defer rows.Close()

	var out []dashboard.SeriesPoint
	for rows.Next() {
		var (
			day   int
			cents int64
		)
		if err := rows.Scan(&day, &cents); err != nil {
			return nil, fmt.Errorf("scan daily expenses: %w", err)
		}
		out = append(out, dashboard.SeriesPoint{
			Date:  strconv.Itoa(day),
			Total: core.Money{Cents: cents},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("daily expenses: %w", err)
	}
	return out, nil
}

// WeeklyExpenses buckets the window's expenses by ISO week. The bucket label
// is the Monday that starts the week, which can precede the window start for
// the first bucket. date(d, 'weekday 0', '-6 days') is the latest Sunday on
// or after d, minus six days.
func (r *Repository) WeeklyExpenses(ctx context.Context, userID int64, p core.Period) ([]dashboard.SeriesPoint, error) {
	const q = `
		SELECT date(date, 'weekday 0', '-6 days') AS week_start, SUM(amount_cents)
		FROM transactions
		WHERE user_id = ? AND type = 'expense' AND date BETWEEN ? AND ?
		GROUP BY week_start
		ORDER BY week_start`

	rows, err := r.db.QueryContext(ctx, q, userID, p.Start.String(), p.End.String())
	if err != nil {
		return nil, fmt.Errorf("weekly expenses: %w", err)
	}
	defer rows.Close()

	var out []dashboard.SeriesPoint
	for rows.Next() {
		var point dashboard.SeriesPoint
		if err := rows.Scan(&point.Date, &point.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan weekly expenses: %w", err)
		}
		out = append(out, point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("weekly expenses: %w", err)
	}
	return out, nil
}

// IncomeExpenseByDate returns per-date sums split by type, ascending by
// date. The dashboard layer merges the two types into one point per date.
func (r *Repository) IncomeExpenseByDate(ctx context.Context, userID int64, p core.Period) ([]dashboard.TypedTotal, error) {
	const q = `
		SELECT date, type, SUM(amount_cents)
		FROM transactions
		WHERE user_id = ? AND date BETWEEN ? AND ?
		GROUP BY date, type
		ORDER BY date`

	rows, err := r.db.QueryContext(ctx, q, userID, p.Start.String(), p.End.String())
	if err != nil {
		return nil, fmt.Errorf("income/expense by date: %w", err)
	}
	defer rows.Close()

	var out []dashboard.TypedTotal
	for rows.Next() {
		var row dashboard.TypedTotal
		if err := rows.Scan(&row.Date, &row.Type, &row.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan income/expense by date: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("income/expense by date: %w", err)
	}
	return out, nil
}

// ExpenseByCategory sums the window's expenses per category, largest first.
func (r *Repository) ExpenseByCategory(ctx context.Context, userID int64, p core.Period) ([]dashboard.CategoryTotal, error) {
	const q = `
		SELECT ec.name, SUM(t.amount_cents) AS total
		FROM transactions t
		JOIN expense_categories ec ON ec.id = t.category_id
		WHERE t.user_id = ? AND t.type = 'expense' AND t.date BETWEEN ? AND ?
		GROUP BY ec.name
		ORDER BY total DESC`

	return r.queryCategoryTotals(ctx, q, userID, p)
}

// IncomeBySource sums the window's income per source category, largest first.
func (r *Repository) IncomeBySource(ctx context.Context, userID int64, p core.Period) ([]dashboard.CategoryTotal, error) {
	const q = `
		SELECT ic.name, SUM(t.amount_cents) AS total
		FROM transactions t
		JOIN income_categories ic ON ic.id = t.category_id
		WHERE t.user_id = ? AND t.type = 'income' AND t.date BETWEEN ? AND ?
		GROUP BY ic.name
		ORDER BY total DESC`

	return r.queryCategoryTotals(ctx, q, userID, p)
}

func (r *Repository) queryCategoryTotals(ctx context.Context, q string, userID int64, p core.Period) ([]dashboard.CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx, q, userID, p.Start.String(), p.End.String())
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	defer rows.Close()

	var out []dashboard.CategoryTotal
	for rows.Next() {
		var ct dashboard.CategoryTotal
		if err := rows.Scan(&ct.CategoryName, &ct.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan category totals: %w", err)
		}
		out = append(out, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	return out, nil
}

// AssetsByType sums current asset values per type, largest first. Assets are
// point-in-time valuations, so no window applies.
func (r *Repository) AssetsByType(ctx context.Context, userID int64) ([]dashboard.AssetTypeTotal, error) {
	const q = `
		SELECT asset_type, SUM(current_value_cents) AS total
		FROM assets
		WHERE user_id = ?
		GROUP BY asset_type
		ORDER BY total DESC`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("assets by type: %w", err)
	}
	defer rows.Close()

	var out []dashboard.AssetTypeTotal
	for rows.Next() {
		var at dashboard.AssetTypeTotal
		if err := rows.Scan(&at.AssetType, &at.TotalValue.Cents); err != nil {
			return nil, fmt.Errorf("scan assets by type: %w", err)
		}
		out = append(out, at)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("assets by type: %w", err)
	}
	return out, nil
}

// TotalNetWorth sums every asset's current value.
func (r *Repository) TotalNetWorth(ctx context.Context, userID int64) (core.Money, error) {
	const q = `SELECT COALESCE(SUM(current_value_cents), 0) FROM assets WHERE user_id = ?`

	var total core.Money
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&total.Cents); err != nil {
		return core.Money{}, fmt.Errorf("total net worth: %w", err)
	}
	return total, nil
}

// BudgetSpendByCategory joins each active monthly budget with the window's
// expense transactions in its category and returns the raw budget/spent
// pair per category, biggest spend first. Grouping by budget id keeps two
// budgets on the same category as separate rows.
func (r *Repository) BudgetSpendByCategory(ctx context.Context, userID int64, p core.Period) ([]dashboard.BudgetSpendRow, error) {
	const q = `
		SELECT ec.name, b.amount_cents, COALESCE(SUM(t.amount_cents), 0) AS spent
		FROM budgets b
		JOIN expense_categories ec ON ec.id = b.expense_category_id
		LEFT JOIN transactions t
			ON t.user_id = b.user_id
			AND t.category_id = b.expense_category_id
			AND t.type = 'expense'
			AND t.date BETWEEN ?2 AND ?3
		WHERE b.user_id = ?1
			AND b.period = 'monthly'
			AND b.start_date <= ?3
			AND (b.end_date IS NULL OR b.end_date >= ?2)
		GROUP BY b.id, ec.name, b.amount_cents
		ORDER BY spent DESC`

	rows, err := r.db.QueryContext(ctx, q, userID, p.Start.String(), p.End.String())
	if err != nil {
		return nil, fmt.Errorf("budget spend by category: %w", err)
	}
	defer rows.Close()

	var out []dashboard.BudgetSpendRow
	for rows.Next() {
		var row dashboard.BudgetSpendRow
		if err := rows.Scan(&row.CategoryName, &row.BudgetAmount.Cents, &row.SpentAmount.Cents); err != nil {
			return nil, fmt.Errorf("scan budget spend: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("budget spend by category: %w", err)
	}
	return out, nil
}

// BudgetTotals returns the summed budget of all active monthly budgets and
// the summed expenses landing in their categories. The two sums are
// independent scalar subqueries so a budget amount is never multiplied by
// its transaction count.
func (r *Repository) BudgetTotals(ctx context.Context, userID int64, p core.Period) (budget, spent core.Money, err error) {
	const q = `
		SELECT
			COALESCE((
				SELECT SUM(b.amount_cents) FROM budgets b
				WHERE b.user_id = ?1 AND b.period = 'monthly'
					AND b.start_date <= ?3
					AND (b.end_date IS NULL OR b.end_date >= ?2)
			), 0),
			COALESCE((
				SELECT SUM(t.amount_cents) FROM transactions t
				WHERE t.user_id = ?1 AND t.type = 'expense'
					AND t.date BETWEEN ?2 AND ?3
					AND t.category_id IN (
						SELECT b.expense_category_id FROM budgets b
						WHERE b.user_id = ?1 AND b.period = 'monthly'
							AND b.start_date <= ?3
							AND (b.end_date IS NULL OR b.end_date >= ?2)
					)
			), 0)`

	err = r.db.QueryRowContext(ctx, q, userID, p.Start.String(), p.End.String()).
		Scan(&budget.Cents, &spent.Cents)
	if err != nil {
		return core.Money{}, core.Money{}, fmt.Errorf("budget totals: %w", err)
	}
	return budget, spent, nil
}
