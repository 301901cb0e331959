// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"time"
)

// Options selects and configures the cache backend.
type Options struct {
	// RedisURL selects the Redis backend when non-empty.
	RedisURL string

	// Prefix is prepended to every key on the Redis backend.
	Prefix string

	// DefaultTTL is the expiration applied when Set is called with ttl 0.
	DefaultTTL time.Duration

	// CleanupInterval is the expired-entry sweep interval of the memory backend.
	CleanupInterval time.Duration

	// MaxEntries bounds the entry count of the memory backend; 0 means
	// unbounded. Redis enforces its own memory policy.
	MaxEntries int
}

// New creates a cache from the given options: Redis when a URL is configured,
// in-memory otherwise.
func New(opts Options) (Cache, error) {
	if opts.DefaultTTL == 0 {
		opts.DefaultTTL = 5 * time.Minute
	}
	if opts.CleanupInterval == 0 {
		opts.CleanupInterval = time.Minute
	}

	if opts.RedisURL != "" {
		return NewRedis(opts.RedisURL, opts.Prefix, opts.DefaultTTL)
	}
	return NewMemory(opts.DefaultTTL, opts.CleanupInterval, opts.MaxEntries), nil
}
