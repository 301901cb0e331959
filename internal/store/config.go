// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/consejoregional/portal-go/internal/model"
)

// GetConfig fetches one configuration item by key.
func (q *Queries) GetConfig(ctx context.Context, key string) (model.Config, error) {
	var c model.Config
	err := q.db.QueryRowContext(ctx,
		`SELECT key, value, type, description, updated_at, updated_by FROM config WHERE key = ?`, key).
		Scan(&c.Key, &c.Value, &c.Type, &c.Description, &c.UpdatedAt, &c.UpdatedBy)
	return c, err
}

// ListConfig returns all configuration items ordered by key.
func (q *Queries) ListConfig(ctx context.Context) ([]model.Config, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT key, value, type, description, updated_at, updated_by FROM config ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []model.Config
	for rows.Next() {
		var c model.Config
		if err := rows.Scan(&c.Key, &c.Value, &c.Type, &c.Description, &c.UpdatedAt, &c.UpdatedBy); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// UpsertConfigParams holds fields for UpsertConfig.
type UpsertConfigParams struct {
	Key         string
	Value       string
	Type        string
	Description string
	UpdatedAt   time.Time
	UpdatedBy   sql.NullInt64
}

// UpsertConfig inserts or replaces a configuration item.
func (q *Queries) UpsertConfig(ctx context.Context, arg UpsertConfigParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO config (key, value, type, description, updated_at, updated_by)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			type = excluded.type,
			description = excluded.description,
			updated_at = excluded.updated_at,
			updated_by = excluded.updated_by`,
		arg.Key, arg.Value, arg.Type, arg.Description, arg.UpdatedAt, arg.UpdatedBy)
	return err
}

// DeleteConfig removes a configuration item.
func (q *Queries) DeleteConfig(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM config WHERE key = ?`, key)
	return err
}
