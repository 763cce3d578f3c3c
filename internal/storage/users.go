package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"finvision/internal/core"
)

// CreateUser inserts a user with an already-hashed password and returns the
// stored record. Duplicate emails map to core.ErrEmailTaken.
func (r *Repository) CreateUser(ctx context.Context, name, email, passwordHash, phoneNumber string) (core.User, error) {
	const q = `
		INSERT INTO users (name, email, password_hash, phone_number)
		VALUES (?, ?, ?, ?)
		RETURNING id, name, email, COALESCE(phone_number, ''), created_at`

	var u core.User
	err := r.db.QueryRowContext(ctx, q, name, email, passwordHash, nullable(phoneNumber)).
		Scan(&u.ID, &u.Name, &u.Email, &u.PhoneNumber, &u.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.User{}, core.ErrEmailTaken
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// GetUserByEmail returns the user and its password hash for credential
// checks. core.ErrNotFound when the email is unknown.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (core.User, string, error) {
	const q = `
		SELECT id, name, email, COALESCE(phone_number, ''), password_hash, created_at
		FROM users WHERE email = ?`

	var (
		u    core.User
		hash string
	)
	err := r.db.QueryRowContext(ctx, q, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.PhoneNumber, &hash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, "", core.ErrNotFound
	}
	if err != nil {
		return core.User{}, "", fmt.Errorf("get user by email: %w", err)
	}
	return u, hash, nil
}

// GetUser returns the user by id.
func (r *Repository) GetUser(ctx context.Context, id int64) (core.User, error) {
	const q = `
		SELECT id, name, email, COALESCE(phone_number, ''), created_at
		FROM users WHERE id = ?`

	var u core.User
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.PhoneNumber, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UpdateUser applies a profile patch. The Password field, when present,
// must already be hashed by the caller. The patch translates into a fixed
// set of conditional assignments; no dynamic SQL fragments.
func (r *Repository) UpdateUser(ctx context.Context, id int64, patch core.UserPatch) (core.User, error) {
	if patch.IsEmpty() {
		return r.GetUser(ctx, id)
	}

	var (
		sets []string
		args []any
	)
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *patch.Email)
	}
	if patch.Password != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *patch.Password)
	}
	if patch.PhoneNumber != nil {
		sets = append(sets, "phone_number = ?")
		args = append(args, nullable(*patch.PhoneNumber))
	}
	args = append(args, id)

	q := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = ? " +
		"RETURNING id, name, email, COALESCE(phone_number, ''), created_at"

	var u core.User
	err := r.db.QueryRowContext(ctx, q, args...).
		Scan(&u.ID, &u.Name, &u.Email, &u.PhoneNumber, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.User{}, core.ErrEmailTaken
		}
		return core.User{}, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}
