package services

import (
	"context"
	"errors"
	"testing"

	"finvision/internal/core"
)

type stubPublisher struct {
	published []int64
	err       error
}

func (p *stubPublisher) PublishTemplateRegistered(ctx context.Context, transactionID, userID int64) error {
	p.published = append(p.published, transactionID)
	return p.err
}

func TestCreatePublishesRecurringTemplates(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()
	u, err := repo.CreateUser(ctx, "Pub", "pub@example.com", "hash", "")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	pub := &stubPublisher{}
	svc := NewTransactionService(repo, pub)

	plain, err := svc.Create(ctx, core.Transaction{
		UserID:     u.ID,
		Amount:     core.Money{Cents: 500},
		Date:       core.NewDate(2025, 6, 1),
		Type:       core.Expense,
		CategoryID: 2,
	})
	if err != nil {
		t.Fatalf("create plain: %v", err)
	}
	if len(pub.published) != 0 {
		t.Errorf("plain transaction published %v", pub.published)
	}

	tpl, err := svc.Create(ctx, core.Transaction{
		UserID:      u.ID,
		Amount:      core.Money{Cents: 120000},
		Date:        core.NewDate(2025, 6, 1),
		Type:        core.Expense,
		CategoryID:  1,
		IsRecurring: true,
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	if len(pub.published) != 1 || pub.published[0] != tpl.ID {
		t.Errorf("published = %v, want [%d]", pub.published, tpl.ID)
	}

	// Flipping the plain transaction into a template announces it too.
	recurring := true
	if _, err := svc.Update(ctx, plain.ID, u.ID, core.TransactionPatch{IsRecurring: &recurring}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(pub.published) != 2 || pub.published[1] != plain.ID {
		t.Errorf("published = %v, want the flipped transaction announced", pub.published)
	}
}

func TestCreatePublishFailureDoesNotFailWrite(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()
	u, err := repo.CreateUser(ctx, "Down", "down@example.com", "hash", "")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	pub := &stubPublisher{err: errors.New("broker down")}
	svc := NewTransactionService(repo, pub)

	stored, err := svc.Create(ctx, core.Transaction{
		UserID:      u.ID,
		Amount:      core.Money{Cents: 100},
		Date:        core.NewDate(2025, 6, 1),
		Type:        core.Expense,
		CategoryID:  2,
		IsRecurring: true,
	})
	if err != nil {
		t.Fatalf("create must succeed despite publish failure: %v", err)
	}
	if _, err := repo.GetTransaction(ctx, stored.ID, u.ID); err != nil {
		t.Errorf("transaction not persisted: %v", err)
	}
}

func TestCreateValidates(t *testing.T) {
	repo := testRepository(t)
	svc := NewTransactionService(repo, nil)

	_, err := svc.Create(context.Background(), core.Transaction{
		UserID:     1,
		Amount:     core.Money{Cents: -100},
		Date:       core.NewDate(2025, 6, 1),
		Type:       core.Expense,
		CategoryID: 2,
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("error = %v, want ErrInvalidAmount", err)
	}

	_, err = svc.Create(context.Background(), core.Transaction{
		UserID:     1,
		Amount:     core.Money{Cents: 100},
		Date:       core.NewDate(2025, 6, 1),
		Type:       "transfer",
		CategoryID: 2,
	})
	if !errors.Is(err, core.ErrInvalidType) {
		t.Errorf("error = %v, want ErrInvalidType", err)
	}
}
