// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/consejoregional/portal-go/internal/cache"
	"github.com/consejoregional/portal-go/internal/model"
	"github.com/consejoregional/portal-go/internal/store"
	"github.com/consejoregional/portal-go/internal/util"
)

const configCachePrefix = "config:"

// ConfigService manages site configuration: branding, social links and the
// markdown section copy rendered on the portal.
type ConfigService struct {
	queries  *store.Queries
	cache    cache.Cache
	markdown goldmark.Markdown
	events   *EventService
}

// NewConfigService creates a new ConfigService. c may be nil to disable
// caching.
func NewConfigService(db *sql.DB, c cache.Cache) *ConfigService {
	return &ConfigService{
		queries: store.New(db),
		cache:   c,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		events: NewEventService(db),
	}
}

// Get returns the raw value of one configuration key, or the fallback when
// the key does not exist.
func (s *ConfigService) Get(ctx context.Context, key, fallback string) string {
	cfg, err := s.queries.GetConfig(ctx, key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Warn("failed to read config", "error", err, "config_key", key)
		}
		return fallback
	}
	return cfg.Value
}

// GetRendered returns the portal-facing value of a key: markdown-typed values
// are rendered to HTML, everything else passes through. Served from cache when
// possible.
func (s *ConfigService) GetRendered(ctx context.Context, key string) (string, error) {
	cacheKey := configCachePrefix + "rendered:" + key
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			return string(data), nil
		}
	}

	cfg, err := s.queries.GetConfig(ctx, key)
	if err != nil {
		return "", err
	}

	value := cfg.Value
	if cfg.Type == model.ConfigTypeMarkdown {
		var buf bytes.Buffer
		if err := s.markdown.Convert([]byte(cfg.Value), &buf); err != nil {
			return "", fmt.Errorf("rendering markdown for %s: %w", key, err)
		}
		value = buf.String()
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, []byte(value), 0); err != nil {
			slog.Warn("failed to cache config value", "error", err, "config_key", key)
		}
	}
	return value, nil
}

// All returns every configuration item keyed by name.
func (s *ConfigService) All(ctx context.Context) (map[string]model.Config, error) {
	items, err := s.queries.ListConfig(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.Config, len(items))
	for _, item := range items {
		out[item.Key] = item
	}
	return out, nil
}

// Set stores a configuration value and invalidates cached reads.
func (s *ConfigService) Set(ctx context.Context, key, value, typ, description string, userID *int64) error {
	switch typ {
	case model.ConfigTypeString, model.ConfigTypeInt, model.ConfigTypeBool, model.ConfigTypeMarkdown:
	default:
		return Invalid("unknown config type %q", typ)
	}

	updatedBy := util.NullInt64FromPtr(userID)
	err := s.queries.UpsertConfig(ctx, store.UpsertConfigParams{
		Key:         key,
		Value:       value,
		Type:        typ,
		Description: description,
		UpdatedAt:   time.Now(),
		UpdatedBy:   updatedBy,
	})
	if err != nil {
		return fmt.Errorf("saving config %s: %w", key, err)
	}
	_ = s.events.LogEvent(ctx, model.EventLevelInfo, model.EventCategoryConfig,
		"config updated: "+key, userID, nil)

	if s.cache != nil {
		if err := s.cache.DeleteByPrefix(ctx, configCachePrefix); err != nil {
			slog.Warn("failed to invalidate config cache", "error", err)
		}
	}
	return nil
}
