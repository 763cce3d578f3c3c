// Package services orchestrates writes across storage and messaging.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"finvision/internal/core"
	"finvision/internal/storage"
)

// TemplatePublisher notifies the worker about recurring templates.
type TemplatePublisher interface {
	PublishTemplateRegistered(ctx context.Context, transactionID, userID int64) error
}

// TransactionService validates and persists transactions, and announces
// recurring templates to the worker queue.
type TransactionService struct {
	storage   *storage.Repository
	publisher TemplatePublisher
}

func NewTransactionService(storage *storage.Repository, publisher TemplatePublisher) *TransactionService {
	return &TransactionService{
		storage:   storage,
		publisher: publisher,
	}
}

// Create validates and saves a transaction. A recurring template also gets
// announced on the queue; publish failures are logged, not surfaced, since
// the periodic worker scan picks the template up anyway.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	stored, err := s.storage.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	if stored.IsRecurring {
		s.announceTemplate(ctx, stored.ID, stored.UserID)
	}
	return stored, nil
}

// Update applies a patch. Flipping a transaction into a recurring template
// announces it like a fresh creation.
func (s *TransactionService) Update(ctx context.Context, id, userID int64, patch core.TransactionPatch) (core.Transaction, error) {
	if patch.Amount != nil {
		if err := patch.Amount.Validate(); err != nil {
			return core.Transaction{}, err
		}
	}
	if patch.Type != nil {
		if err := patch.Type.Validate(); err != nil {
			return core.Transaction{}, err
		}
	}

	stored, err := s.storage.UpdateTransaction(ctx, id, userID, patch)
	if err != nil {
		return core.Transaction{}, err
	}

	if stored.IsRecurring && patch.IsRecurring != nil && *patch.IsRecurring {
		s.announceTemplate(ctx, stored.ID, stored.UserID)
	}
	return stored, nil
}

func (s *TransactionService) announceTemplate(ctx context.Context, transactionID, userID int64) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "No template publisher configured, relying on periodic scan",
			"transaction_id", transactionID)
		return
	}
	if err := s.publisher.PublishTemplateRegistered(ctx, transactionID, userID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish template message",
			"transaction_id", transactionID, "error", err)
	}
}
