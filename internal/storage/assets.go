package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"finvision/internal/core"
)

const assetColumns = `id, user_id, name, asset_type, current_value_cents,
	COALESCE(acquisition_date, ''), COALESCE(notes, '')`

func scanAsset(row interface{ Scan(...any) error }) (core.Asset, error) {
	var (
		a       core.Asset
		acqDate string
	)
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.AssetType,
		&a.CurrentValue.Cents, &acqDate, &a.Notes)
	if err != nil {
		return core.Asset{}, err
	}
	if acqDate != "" {
		if a.AcquisitionDate, err = core.ParseDate(acqDate); err != nil {
			return core.Asset{}, fmt.Errorf("stored acquisition date %q: %w", acqDate, err)
		}
	}
	return a, nil
}

// CreateAsset inserts an asset and returns the stored record.
func (r *Repository) CreateAsset(ctx context.Context, a core.Asset) (core.Asset, error) {
	const q = `
		INSERT INTO assets (user_id, name, asset_type, current_value_cents, acquisition_date, notes)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING ` + assetColumns

	var acq any
	if !a.AcquisitionDate.IsZero() {
		acq = a.AcquisitionDate.String()
	}
	row := r.db.QueryRowContext(ctx, q,
		a.UserID, a.Name, a.AssetType, a.CurrentValue.Cents, acq, nullable(a.Notes))
	stored, err := scanAsset(row)
	if err != nil {
		return core.Asset{}, fmt.Errorf("create asset: %w", err)
	}
	return stored, nil
}

// GetAsset returns an asset owned by the user.
func (r *Repository) GetAsset(ctx context.Context, id, userID int64) (core.Asset, error) {
	const q = `SELECT ` + assetColumns + ` FROM assets WHERE id = ? AND user_id = ?`

	stored, err := scanAsset(r.db.QueryRowContext(ctx, q, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Asset{}, core.ErrNotFound
	}
	if err != nil {
		return core.Asset{}, fmt.Errorf("get asset: %w", err)
	}
	return stored, nil
}

// ListAssets returns the user's assets, most valuable first.
func (r *Repository) ListAssets(ctx context.Context, userID int64) ([]core.Asset, error) {
	const q = `SELECT ` + assetColumns + ` FROM assets WHERE user_id = ?
		ORDER BY current_value_cents DESC`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var out []core.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return out, nil
}

// UpdateAsset applies a patch to an asset owned by the user.
func (r *Repository) UpdateAsset(ctx context.Context, id, userID int64, patch core.AssetPatch) (core.Asset, error) {
	if patch.IsEmpty() {
		return r.GetAsset(ctx, id, userID)
	}

	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	var args []any
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.AssetType != nil {
		sets = append(sets, "asset_type = ?")
		args = append(args, *patch.AssetType)
	}
	if patch.CurrentValue != nil {
		sets = append(sets, "current_value_cents = ?")
		args = append(args, patch.CurrentValue.Cents)
	}
	if patch.AcquisitionDate != nil {
		sets = append(sets, "acquisition_date = ?")
		if patch.AcquisitionDate.IsZero() {
			args = append(args, nil)
		} else {
			args = append(args, patch.AcquisitionDate.String())
		}
	}
	if patch.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, nullable(*patch.Notes))
	}
	args = append(args, id, userID)

	q := "UPDATE assets SET " + strings.Join(sets, ", ") +
		" WHERE id = ? AND user_id = ? RETURNING " + assetColumns

	stored, err := scanAsset(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Asset{}, core.ErrNotFound
	}
	if err != nil {
		return core.Asset{}, fmt.Errorf("update asset: %w", err)
	}
	return stored, nil
}

// DeleteAsset removes an asset owned by the user.
func (r *Repository) DeleteAsset(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM assets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
