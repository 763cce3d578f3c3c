package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"finvision/internal/core"
)

// Reader is the set of aggregation queries the composer fans out over.
type Reader interface {
	MonthlySummary(ctx context.Context, userID int64, p core.Period) (Summary, error)
	DailyExpenses(ctx context.Context, userID int64, p core.Period) ([]SeriesPoint, error)
	WeeklyExpenses(ctx context.Context, userID int64, p core.Period) ([]SeriesPoint, error)
	IncomeExpenseByDate(ctx context.Context, userID int64, p core.Period) ([]TypedTotal, error)
	ExpenseByCategory(ctx context.Context, userID int64, p core.Period) ([]CategoryTotal, error)
	IncomeBySource(ctx context.Context, userID int64, p core.Period) ([]CategoryTotal, error)
	AssetsByType(ctx context.Context, userID int64) ([]AssetTypeTotal, error)
	TotalNetWorth(ctx context.Context, userID int64) (core.Money, error)
	BudgetSpendByCategory(ctx context.Context, userID int64, p core.Period) ([]BudgetSpendRow, error)
	BudgetTotals(ctx context.Context, userID int64, p core.Period) (budget, spent core.Money, err error)
}

// Service composes dashboard payloads from a Reader.
type Service struct {
	reader Reader
}

func NewService(reader Reader) *Service {
	return &Service{reader: reader}
}

// Compose resolves the requested month and runs all nine aggregations
// concurrently. The first failure cancels the rest and surfaces as an
// *AggregationError naming the sub-query; no partial payload is returned.
func (s *Service) Compose(ctx context.Context, userID int64, year, month int) (Payload, error) {
	period, err := core.ResolvePeriod(year, month)
	if err != nil {
		return Payload{}, err
	}

	var (
		summary       Summary
		daily         []SeriesPoint
		weekly        []SeriesPoint
		incomeExpense []TypedTotal
		expByCategory []CategoryTotal
		incBySource   []CategoryTotal
		assetTypes    []AssetTypeTotal
		netWorth      core.Money
		budget        core.Money
		spent         core.Money
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.reader.MonthlySummary(ctx, userID, period)
		return wrap("monthly_summary", err)
	})
	g.Go(func() error {
		var err error
		daily, err = s.reader.DailyExpenses(ctx, userID, period)
		return wrap("daily_expenses", err)
	})
	g.Go(func() error {
		var err error
		weekly, err = s.reader.WeeklyExpenses(ctx, userID, period)
		return wrap("weekly_expenses", err)
	})
	g.Go(func() error {
		var err error
		incomeExpense, err = s.reader.IncomeExpenseByDate(ctx, userID, period)
		return wrap("income_expense_by_date", err)
	})
	g.Go(func() error {
		var err error
		expByCategory, err = s.reader.ExpenseByCategory(ctx, userID, period)
		return wrap("expense_by_category", err)
	})
	g.Go(func() error {
		var err error
		incBySource, err = s.reader.IncomeBySource(ctx, userID, period)
		return wrap("income_by_source", err)
	})
	g.Go(func() error {
		var err error
		assetTypes, err = s.reader.AssetsByType(ctx, userID)
		return wrap("assets_by_type", err)
	})
	g.Go(func() error {
		var err error
		netWorth, err = s.reader.TotalNetWorth(ctx, userID)
		return wrap("total_net_worth", err)
	})
	g.Go(func() error {
		var err error
		budget, spent, err = s.reader.BudgetTotals(ctx, userID, period)
		return wrap("budget_totals", err)
	})
	if err := g.Wait(); err != nil {
		return Payload{}, err
	}

	return Payload{
		Summary: summary,
		Expenses: Expenses{
			Daily:       emptyIfNil(daily),
			Weekly:      emptyIfNil(weekly),
			Monthly:     summary.Expense,
			DailyTotal:  sumSeries(daily),
			WeeklyTotal: sumSeries(weekly),
		},
		Charts: Charts{
			IncomeExpense:     mergeIncomeExpense(incomeExpense),
			ExpenseByCategory: emptyIfNil(expByCategory),
			IncomeBySource:    emptyIfNil(incBySource),
		},
		Assets: Assets{
			ByType:   emptyIfNil(assetTypes),
			NetWorth: netWorth,
		},
		Budget: Budget{
			Progress: BudgetProgress{
				BudgetAmount: budget,
				SpentAmount:  spent,
				Percentage:   progressPercent(budget, spent),
			},
		},
	}, nil
}

// BudgetVsActual resolves the month and reports each active monthly budget
// against actual spend in its category, biggest spend first.
func (s *Service) BudgetVsActual(ctx context.Context, userID int64, year, month int) ([]BudgetCategoryRow, error) {
	period, err := core.ResolvePeriod(year, month)
	if err != nil {
		return nil, err
	}

	rows, err := s.reader.BudgetSpendByCategory(ctx, userID, period)
	if err != nil {
		return nil, wrap("budget_spend_by_category", err)
	}

	out := make([]BudgetCategoryRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, BudgetCategoryRow{
			CategoryName: row.CategoryName,
			BudgetAmount: row.BudgetAmount,
			SpentAmount:  row.SpentAmount,
			Remaining:    row.BudgetAmount.Sub(row.SpentAmount),
			Percentage:   progressPercent(row.BudgetAmount, row.SpentAmount),
		})
	}
	return out, nil
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &AggregationError{Op: op, Err: err}
}

// emptyIfNil keeps absent result sets serializing as [] instead of null.
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
