// Package worker drives recurring-transaction materialization: it consumes
// template messages from the queue and runs a periodic backup scan so lost
// messages never lose a month.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finvision/internal/amqp"
	"finvision/internal/services"
)

type RecurringWorker struct {
	processor *services.RecurringProcessor
	client    *amqp.Client
	interval  time.Duration
}

func NewRecurringWorker(processor *services.RecurringProcessor, client *amqp.Client, interval time.Duration) *RecurringWorker {
	return &RecurringWorker{
		processor: processor,
		client:    client,
		interval:  interval,
	}
}

// Run blocks until the context is cancelled. It performs a startup scan,
// then processes queue messages and ticks in parallel. Without an AMQP
// client the worker degrades to scan-only mode.
func (w *RecurringWorker) Run(ctx context.Context) error {
	if w.processor == nil {
		return fmt.Errorf("worker not properly initialized")
	}

	if count, err := w.processor.ProcessDue(ctx, time.Now()); err != nil {
		slog.ErrorContext(ctx, "Startup scan failed", "error", err)
	} else {
		slog.InfoContext(ctx, "Startup scan complete", "materialized", count)
	}

	if w.client != nil {
		go func() {
			err := w.client.ConsumeTemplateRegistered(ctx, func(msg *amqp.TemplateRegisteredMessage) error {
				return w.processor.ProcessOne(ctx, msg.TransactionID, time.Now())
			})
			if err != nil && ctx.Err() == nil {
				slog.ErrorContext(ctx, "Queue consumption stopped", "error", err)
			}
		}()
	} else {
		slog.WarnContext(ctx, "AMQP disabled, running scan-only")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Worker stopping", "reason", ctx.Err())
			return ctx.Err()
		case now := <-ticker.C:
			count, err := w.processor.ProcessDue(ctx, now)
			if err != nil {
				slog.ErrorContext(ctx, "Periodic scan failed", "error", err)
				continue
			}
			slog.InfoContext(ctx, "Periodic scan complete",
				"materialized", count,
				"next_check", now.Add(w.interval).Format("15:04:05"))
		}
	}
}
