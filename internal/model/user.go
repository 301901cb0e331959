// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain records shared across the application:
// agenda entries, documents, news articles, council members, users and site
// configuration.
package model

import (
	"database/sql"
	"time"
)

// User roles.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// User is a back-office account. UUID identifies the user in notification
// records; PasswordHash is empty until the user accepts an invitation.
type User struct {
	ID           int64          `json:"id"`
	UUID         string         `json:"uuid"`
	FirstName    string         `json:"firstName"`
	LastName     string         `json:"lastName"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	PasswordHash string         `json:"-"`
	Role         string         `json:"role"`
	Enabled      bool           `json:"enabled"`
	Avatar       sql.NullString `json:"-"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	LastLoginAt  sql.NullTime   `json:"-"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// FullName returns the display name used in listings and email salutations.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
