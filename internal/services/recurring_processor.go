package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finvision/internal/core"
	"finvision/internal/sheets"
	"finvision/internal/storage"
)

// RecurringProcessor materializes concrete transactions from recurring
// templates. Templates repeat monthly on the day of month of their own
// date, clamped to shorter months. Materialized instances are optionally
// appended to an external report.
type RecurringProcessor struct {
	storage  *storage.Repository
	exporter sheets.TransactionWriter
}

func NewRecurringProcessor(storage *storage.Repository, exporter sheets.TransactionWriter) *RecurringProcessor {
	return &RecurringProcessor{storage: storage, exporter: exporter}
}

// ProcessDue scans every template and materializes the due ones. One bad
// template never stops the scan.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	templates, err := p.storage.ListRecurringTemplates(ctx)
	if err != nil {
		return 0, fmt.Errorf("list recurring templates: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring templates",
		"total", len(templates),
		"processing_date", now.Format("2006-01-02"))

	processed := 0
	for _, tpl := range templates {
		if !monthlyDue(tpl.LastMaterialized, now, tpl.Transaction.Date) {
			continue
		}
		if err := p.materialize(ctx, tpl, now); err != nil {
			slog.ErrorContext(ctx, "Failed to materialize template",
				"transaction_id", tpl.Transaction.ID, "error", err)
			continue
		}
		processed++
	}

	slog.InfoContext(ctx, "Recurring template processing complete",
		"processed", processed, "total_checked", len(templates))
	return processed, nil
}

// ProcessOne materializes a single template if due, used for queue-driven
// processing.
func (p *RecurringProcessor) ProcessOne(ctx context.Context, transactionID int64, now time.Time) error {
	tpl, err := p.storage.GetRecurringTemplate(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("get recurring template: %w", err)
	}
	if !monthlyDue(tpl.LastMaterialized, now, tpl.Transaction.Date) {
		return nil
	}
	return p.materialize(ctx, tpl, now)
}

func (p *RecurringProcessor) materialize(ctx context.Context, tpl storage.RecurringTemplate, now time.Time) error {
	instance := core.Transaction{
		UserID:      tpl.Transaction.UserID,
		Amount:      tpl.Transaction.Amount,
		Date:        instanceDate(tpl.Transaction.Date, now),
		Description: tpl.Transaction.Description,
		Type:        tpl.Transaction.Type,
		CategoryID:  tpl.Transaction.CategoryID,
	}

	created, err := p.storage.CreateTransaction(ctx, instance)
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}

	today := core.NewDate(now.Year(), int(now.Month()), now.Day())
	if err := p.storage.MarkMaterialized(ctx, tpl.Transaction.ID, today); err != nil {
		// The instance exists; the next scan will see the stale
		// bookkeeping and skip because of the same-month check.
		slog.ErrorContext(ctx, "Failed to record materialization",
			"transaction_id", tpl.Transaction.ID, "error", err)
	}

	slog.InfoContext(ctx, "Materialized recurring transaction",
		"template_id", tpl.Transaction.ID,
		"instance_id", created.ID,
		"date", created.Date.String(),
		"amount_cents", created.Amount.Cents)

	p.export(ctx, created)
	return nil
}

// export appends the instance to the external report. Export failures are
// logged only; the local write already succeeded.
func (p *RecurringProcessor) export(ctx context.Context, t core.Transaction) {
	if p.exporter == nil {
		return
	}
	name, err := p.storage.CategoryName(ctx, t.Type, t.CategoryID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to resolve category for export",
			"transaction_id", t.ID, "error", err)
		name = ""
	}
	if _, err := p.exporter.Append(ctx, t, name); err != nil {
		slog.ErrorContext(ctx, "Failed to export transaction",
			"transaction_id", t.ID, "error", err)
	}
}

// monthlyDue reports whether a monthly template should fire: never in the
// month it already fired, and only once the target day of month (clamped to
// the month's length) has been reached. A never-materialized template is
// due immediately.
func monthlyDue(last core.Date, now time.Time, templateDate core.Date) bool {
	if last.IsZero() {
		return true
	}
	if last.Year() == now.Year() && last.Month() == now.Month() {
		return false
	}

	targetDay := templateDate.Day()
	if lastDay := lastDayOfMonth(now); targetDay > lastDay {
		targetDay = lastDay
	}
	return now.Day() >= targetDay
}

// instanceDate is the template's day of month in now's month, clamped.
func instanceDate(templateDate core.Date, now time.Time) core.Date {
	day := templateDate.Day()
	if lastDay := lastDayOfMonth(now); day > lastDay {
		day = lastDay
	}
	return core.NewDate(now.Year(), int(now.Month()), day)
}

func lastDayOfMonth(now time.Time) int {
	return time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
