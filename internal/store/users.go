// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/consejoregional/portal-go/internal/model"
)

const userColumns = `id, uuid, first_name, last_name, email, phone, password_hash,
	role, enabled, avatar, created_at, updated_at, last_login_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.UUID, &u.FirstName, &u.LastName, &u.Email, &u.Phone,
		&u.PasswordHash, &u.Role, &u.Enabled, &u.Avatar, &u.CreatedAt, &u.UpdatedAt,
		&u.LastLoginAt)
	return u, err
}

// GetUserByID fetches a user by primary key.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByUUID fetches a user by its public UUID.
func (q *Queries) GetUserByUUID(ctx context.Context, uuid string) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE uuid = ?`, uuid)
	return scanUser(row)
}

// GetUserByEmail fetches a user by email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// ListUsersParams holds pagination for ListUsers.
type ListUsersParams struct {
	Limit  int64
	Offset int64
}

// ListUsers returns users ordered by last name.
func (q *Queries) ListUsers(ctx context.Context, arg ListUsersParams) ([]model.User, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY last_name, first_name LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountUsers returns the total number of users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// CreateUserParams holds fields for CreateUser.
type CreateUserParams struct {
	UUID         string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	PasswordHash string
	Role         string
	Enabled      bool
	Avatar       sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUser inserts a user and returns the stored record.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO users (uuid, first_name, last_name, email, phone, password_hash,
			role, enabled, avatar, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.UUID, arg.FirstName, arg.LastName, arg.Email, arg.Phone, arg.PasswordHash,
		arg.Role, arg.Enabled, arg.Avatar, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return q.GetUserByID(ctx, id)
}

// UpdateUserParams holds fields for UpdateUser.
type UpdateUserParams struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Role      string
	UpdatedAt time.Time
}

// UpdateUser updates the editable profile fields of a user.
func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET first_name = ?, last_name = ?, email = ?, phone = ?, role = ?,
			updated_at = ? WHERE id = ?`,
		arg.FirstName, arg.LastName, arg.Email, arg.Phone, arg.Role, arg.UpdatedAt, arg.ID)
	return err
}

// UpdateUserEnabled toggles a user's enabled flag.
func (q *Queries) UpdateUserEnabled(ctx context.Context, id int64, enabled bool, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET enabled = ?, updated_at = ? WHERE id = ?`, enabled, updatedAt, id)
	return err
}

// UpdateUserPassword replaces a user's password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, passwordHash string, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`, passwordHash, updatedAt, id)
	return err
}

// UpdateUserAvatar replaces a user's avatar path.
func (q *Queries) UpdateUserAvatar(ctx context.Context, id int64, avatar sql.NullString, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET avatar = ?, updated_at = ? WHERE id = ?`, avatar, updatedAt, id)
	return err
}

// UpdateUserLastLogin stamps the user's last login time.
func (q *Queries) UpdateUserLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`, at, id)
	return err
}

// DeleteUser removes a user.
func (q *Queries) DeleteUser(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return err
}

// CountUsersByEmail returns how many users already use an email, excluding one id.
// Used for uniqueness validation on create (excludeID = 0) and update.
func (q *Queries) CountUsersByEmail(ctx context.Context, email string, excludeID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ? AND id != ?`, email, excludeID).Scan(&n)
	return n, err
}
