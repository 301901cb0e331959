// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Config types
const (
	ConfigTypeString   = "string"
	ConfigTypeInt      = "int"
	ConfigTypeBool     = "bool"
	ConfigTypeMarkdown = "markdown"
)

// Config keys for site branding, social links and section copy.
const (
	ConfigKeySiteName       = "site_name"
	ConfigKeySiteDescription = "site_description"
	ConfigKeyLogoURL        = "logo_url"
	ConfigKeyFacebookURL    = "facebook_url"
	ConfigKeyTwitterURL     = "twitter_url"
	ConfigKeyYoutubeURL     = "youtube_url"
	ConfigKeyContactEmail   = "contact_email"
	ConfigKeyCopyNormativas = "copy_normativas"
	ConfigKeyCopyBalances   = "copy_balances"
	ConfigKeyCopyConsejeros = "copy_consejeros"
)

// Config represents a site configuration item. Markdown-typed values are
// rendered to HTML for the public portal.
type Config struct {
	Key         string
	Value       string
	Type        string
	Description string
	UpdatedAt   time.Time
	UpdatedBy   sql.NullInt64
}
