package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"finvision/internal/core"
)

const transactionColumns = `id, user_id, amount_cents, date, description, type, category_id, is_recurring, created_at`

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var (
		t       core.Transaction
		dateStr string
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Amount.Cents, &dateStr, &t.Description,
		&t.Type, &t.CategoryID, &t.IsRecurring, &t.CreatedAt)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Date, err = core.ParseDate(dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored date %q: %w", dateStr, err)
	}
	return t, nil
}

// CreateTransaction inserts a transaction and returns the stored record.
func (r *Repository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	const q = `
		INSERT INTO transactions (user_id, amount_cents, date, description, type, category_id, is_recurring)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + transactionColumns

	row := r.db.QueryRowContext(ctx, q,
		t.UserID, t.Amount.Cents, t.Date.String(), t.Description, t.Type, t.CategoryID, t.IsRecurring)
	stored, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return stored, nil
}

// GetTransaction returns a transaction owned by the user.
func (r *Repository) GetTransaction(ctx context.Context, id, userID int64) (core.Transaction, error) {
	const q = `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ? AND user_id = ?`

	stored, err := scanTransaction(r.db.QueryRowContext(ctx, q, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return stored, nil
}

// ListTransactions returns the user's transactions, newest first.
func (r *Repository) ListTransactions(ctx context.Context, userID int64, limit, offset int) ([]core.Transaction, error) {
	const q = `
		SELECT ` + transactionColumns + `
		FROM transactions WHERE user_id = ?
		ORDER BY date DESC, id DESC
		LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

// UpdateTransaction applies a patch to a transaction owned by the user.
func (r *Repository) UpdateTransaction(ctx context.Context, id, userID int64, patch core.TransactionPatch) (core.Transaction, error) {
	if patch.IsEmpty() {
		return r.GetTransaction(ctx, id, userID)
	}

	var (
		sets []string
		args []any
	)
	if patch.Amount != nil {
		sets = append(sets, "amount_cents = ?")
		args = append(args, patch.Amount.Cents)
	}
	if patch.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, patch.Date.String())
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, *patch.Type)
	}
	if patch.CategoryID != nil {
		sets = append(sets, "category_id = ?")
		args = append(args, *patch.CategoryID)
	}
	if patch.IsRecurring != nil {
		sets = append(sets, "is_recurring = ?")
		args = append(args, *patch.IsRecurring)
	}
	args = append(args, id, userID)

	q := "UPDATE transactions SET " + strings.Join(sets, ", ") +
		" WHERE id = ? AND user_id = ? RETURNING " + transactionColumns

	stored, err := scanTransaction(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	return stored, nil
}

// DeleteTransaction removes a transaction owned by the user.
func (r *Repository) DeleteTransaction(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// ListRecurringTemplates returns every transaction flagged as a recurring
// template, across all users, together with its last materialization date
// (zero when never materialized).
func (r *Repository) ListRecurringTemplates(ctx context.Context) ([]RecurringTemplate, error) {
	const q = `
		SELECT ` + transactionColumns + `, COALESCE(last_materialized, '')
		FROM transactions WHERE is_recurring = 1`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list recurring templates: %w", err)
	}
	defer rows.Close()

	var out []RecurringTemplate
	for rows.Next() {
		var (
			t       core.Transaction
			dateStr string
			lastStr string
		)
		err := rows.Scan(&t.ID, &t.UserID, &t.Amount.Cents, &dateStr, &t.Description,
			&t.Type, &t.CategoryID, &t.IsRecurring, &t.CreatedAt, &lastStr)
		if err != nil {
			return nil, fmt.Errorf("scan recurring template: %w", err)
		}
		if t.Date, err = core.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("stored date %q: %w", dateStr, err)
		}
		tpl := RecurringTemplate{Transaction: t}
		if lastStr != "" {
			if tpl.LastMaterialized, err = core.ParseDate(lastStr); err != nil {
				return nil, fmt.Errorf("stored last_materialized %q: %w", lastStr, err)
			}
		}
		out = append(out, tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recurring templates: %w", err)
	}
	return out, nil
}

// GetRecurringTemplate fetches one recurring template by transaction id.
func (r *Repository) GetRecurringTemplate(ctx context.Context, id int64) (RecurringTemplate, error) {
	const q = `
		SELECT ` + transactionColumns + `, COALESCE(last_materialized, '')
		FROM transactions WHERE id = ? AND is_recurring = 1`

	var (
		t       core.Transaction
		dateStr string
		lastStr string
	)
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&t.ID, &t.UserID, &t.Amount.Cents, &dateStr, &t.Description,
			&t.Type, &t.CategoryID, &t.IsRecurring, &t.CreatedAt, &lastStr)
	if errors.Is(err, sql.ErrNoRows) {
		return RecurringTemplate{}, core.ErrNotFound
	}
	if err != nil {
		return RecurringTemplate{}, fmt.Errorf("get recurring template: %w", err)
	}
	if t.Date, err = core.ParseDate(dateStr); err != nil {
		return RecurringTemplate{}, fmt.Errorf("stored date %q: %w", dateStr, err)
	}
	tpl := RecurringTemplate{Transaction: t}
	if lastStr != "" {
		if tpl.LastMaterialized, err = core.ParseDate(lastStr); err != nil {
			return RecurringTemplate{}, fmt.Errorf("stored last_materialized %q: %w", lastStr, err)
		}
	}
	return tpl, nil
}

// MarkMaterialized records that the template produced an instance on the
// given date.
func (r *Repository) MarkMaterialized(ctx context.Context, id int64, on core.Date) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET last_materialized = ? WHERE id = ? AND is_recurring = 1`,
		on.String(), id)
	if err != nil {
		return fmt.Errorf("mark materialized: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark materialized: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// RecurringTemplate pairs a template transaction with its materialization
// bookkeeping.
type RecurringTemplate struct {
	Transaction      core.Transaction
	LastMaterialized core.Date
}
