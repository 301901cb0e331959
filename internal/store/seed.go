// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/consejoregional/portal-go/internal/auth"
	"github.com/consejoregional/portal-go/internal/model"
)

// SeedAdminEmail is the login of the bootstrap administrator account.
const SeedAdminEmail = "admin@consejoregional.gob.pe"

// SeedResult reports what Seed created. AdminPassword is set only when the
// administrator account was created in this run; it is never stored in clear.
type SeedResult struct {
	AdminCreated  bool
	AdminPassword string
}

// Seed creates the bootstrap administrator, the default site configuration and
// the current document year if they are missing. It is safe to run on every
// startup.
func (q *Queries) Seed(ctx context.Context, now time.Time) (SeedResult, error) {
	var res SeedResult

	_, err := q.GetUserByEmail(ctx, SeedAdminEmail)
	switch {
	case err == nil:
		// already seeded
	case errors.Is(err, sql.ErrNoRows):
		password, err := auth.GeneratePassword(16)
		if err != nil {
			return res, fmt.Errorf("seed: generate password: %w", err)
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return res, fmt.Errorf("seed: hash password: %w", err)
		}
		if _, err := q.CreateUser(ctx, CreateUserParams{
			UUID:         uuid.NewString(),
			FirstName:    "Administrador",
			LastName:     "Portal",
			Email:        SeedAdminEmail,
			PasswordHash: hash,
			Role:         model.RoleAdmin,
			Enabled:      true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return res, fmt.Errorf("seed: create admin: %w", err)
		}
		res.AdminCreated = true
		res.AdminPassword = password
	default:
		return res, fmt.Errorf("seed: lookup admin: %w", err)
	}

	defaults := []UpsertConfigParams{
		{Key: model.ConfigKeySiteName, Value: "Consejo Regional", Type: model.ConfigTypeString,
			Description: "Nombre del portal"},
		{Key: model.ConfigKeySiteDescription, Value: "", Type: model.ConfigTypeString,
			Description: "Descripción corta del portal"},
		{Key: model.ConfigKeyLogoURL, Value: "", Type: model.ConfigTypeString,
			Description: "Logo institucional"},
		{Key: model.ConfigKeyFacebookURL, Value: "", Type: model.ConfigTypeString,
			Description: "Página de Facebook"},
		{Key: model.ConfigKeyTwitterURL, Value: "", Type: model.ConfigTypeString,
			Description: "Cuenta de Twitter/X"},
		{Key: model.ConfigKeyYoutubeURL, Value: "", Type: model.ConfigTypeString,
			Description: "Canal de YouTube"},
		{Key: model.ConfigKeyContactEmail, Value: "", Type: model.ConfigTypeString,
			Description: "Correo de contacto"},
		{Key: model.ConfigKeyCopyNormativas, Value: "", Type: model.ConfigTypeMarkdown,
			Description: "Texto introductorio de normativas"},
		{Key: model.ConfigKeyCopyBalances, Value: "", Type: model.ConfigTypeMarkdown,
			Description: "Texto introductorio de balances"},
		{Key: model.ConfigKeyCopyConsejeros, Value: "", Type: model.ConfigTypeMarkdown,
			Description: "Texto introductorio de consejeros"},
	}
	for _, d := range defaults {
		if _, err := q.GetConfig(ctx, d.Key); err == nil {
			continue
		} else if !errors.Is(err, sql.ErrNoRows) {
			return res, fmt.Errorf("seed: lookup config %s: %w", d.Key, err)
		}
		d.UpdatedAt = now
		if err := q.UpsertConfig(ctx, d); err != nil {
			return res, fmt.Errorf("seed: config %s: %w", d.Key, err)
		}
	}

	year := int64(now.Year())
	if _, err := q.GetAnioByValue(ctx, year); errors.Is(err, sql.ErrNoRows) {
		if _, err := q.CreateAnio(ctx, year); err != nil {
			return res, fmt.Errorf("seed: anio %d: %w", year, err)
		}
	} else if err != nil {
		return res, fmt.Errorf("seed: lookup anio: %w", err)
	}

	return res, nil
}
