// Package dashboard assembles the month dashboard: nine independent
// read-only aggregations fanned out concurrently and merged into a single
// payload. All computational rules that are not plain SQL sums live here:
// the income/expense merge by date, the derived daily/weekly totals and the
// capped budget percentages.
package dashboard

import (
	"fmt"
	"sort"

	"finvision/internal/core"
)

type (
	// Summary is the month's income/expense/balance rollup.
	Summary struct {
		Income  core.Money `json:"income"`
		Expense core.Money `json:"expense"`
		Balance core.Money `json:"balance"`
	}

	// SeriesPoint is one bucket of a sparse expense time series. Date is
	// the day of month ("1".."31") for the daily series and the ISO
	// week-start date (YYYY-MM-DD) for the weekly one.
	SeriesPoint struct {
		Date  string     `json:"date"`
		Total core.Money `json:"total"`
	}

	// TypedTotal is a raw (date, type) -> sum row, merged into
	// IncomeExpensePoints by date.
	TypedTotal struct {
		Date  string
		Type  core.TransactionType
		Total core.Money
	}

	// IncomeExpensePoint carries both sums for one calendar date. A type
	// with no transactions on that date reports zero.
	IncomeExpensePoint struct {
		Date    string     `json:"date"`
		Income  core.Money `json:"income"`
		Expense core.Money `json:"expense"`
	}

	// CategoryTotal is one slice of a category breakdown.
	CategoryTotal struct {
		CategoryName string     `json:"category_name"`
		Total        core.Money `json:"total"`
	}

	// AssetTypeTotal is the summed value of all assets of one type.
	AssetTypeTotal struct {
		AssetType  string     `json:"asset_type"`
		TotalValue core.Money `json:"total_value"`
	}

	// BudgetProgress is the aggregate across all active monthly budgets.
	BudgetProgress struct {
		BudgetAmount core.Money `json:"budget_amount"`
		SpentAmount  core.Money `json:"spent_amount"`
		Percentage   float64    `json:"percentage"`
	}

	// BudgetSpendRow is a raw per-budget (category, budget, spent) row.
	BudgetSpendRow struct {
		CategoryName string
		BudgetAmount core.Money
		SpentAmount  core.Money
	}

	// BudgetCategoryRow is the budget-vs-actual view for one category.
	BudgetCategoryRow struct {
		CategoryName string     `json:"category_name"`
		BudgetAmount core.Money `json:"budget_amount"`
		SpentAmount  core.Money `json:"spent_amount"`
		Remaining    core.Money `json:"remaining"`
		Percentage   float64    `json:"percentage"`
	}

	Expenses struct {
		Daily       []SeriesPoint `json:"daily"`
		Weekly      []SeriesPoint `json:"weekly"`
		Monthly     core.Money    `json:"monthly"`
		DailyTotal  core.Money    `json:"dailyTotal"`
		WeeklyTotal core.Money    `json:"weeklyTotal"`
	}

	Charts struct {
		IncomeExpense     []IncomeExpensePoint `json:"incomeExpense"`
		ExpenseByCategory []CategoryTotal      `json:"expenseByCategory"`
		IncomeBySource    []CategoryTotal      `json:"incomeBySource"`
	}

	Assets struct {
		ByType   []AssetTypeTotal `json:"byType"`
		NetWorth core.Money       `json:"netWorth"`
	}

	Budget struct {
		Progress BudgetProgress `json:"progress"`
	}

	// Payload is the composed dashboard response.
	Payload struct {
		Summary  Summary  `json:"summary"`
		Expenses Expenses `json:"expenses"`
		Charts   Charts   `json:"charts"`
		Assets   Assets   `json:"assets"`
		Budget   Budget   `json:"budget"`
	}
)

// AggregationError reports which sub-query of a composition failed.
type AggregationError struct {
	Op  string
	Err error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation %s: %v", e.Op, e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }

// mergeIncomeExpense folds (date, type) rows into one point per date,
// defaulting the absent type to zero, ascending by date. Lexical order on
// YYYY-MM-DD strings is chronological order.
func mergeIncomeExpense(rows []TypedTotal) []IncomeExpensePoint {
	byDate := make(map[string]*IncomeExpensePoint, len(rows))
	for _, row := range rows {
		point, ok := byDate[row.Date]
		if !ok {
			point = &IncomeExpensePoint{Date: row.Date}
			byDate[row.Date] = point
		}
		if row.Type == core.Income {
			point.Income = row.Total
		} else {
			point.Expense = row.Total
		}
	}

	out := make([]IncomeExpensePoint, 0, len(byDate))
	for _, point := range byDate {
		out = append(out, *point)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// sumSeries adds up a sparse series' totals.
func sumSeries(points []SeriesPoint) core.Money {
	var total core.Money
	for _, p := range points {
		total = total.Add(p.Total)
	}
	return total
}

// progressPercent is spent/budget capped at 100. A zero budget always
// reports 0, never a division error.
func progressPercent(budget, spent core.Money) float64 {
	if budget.Cents <= 0 {
		return 0
	}
	pct := spent.Float() / budget.Float() * 100
	if pct > 100 {
		return 100
	}
	return pct
}
