// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip resolves client IPs to a country code using a MaxMind
// GeoLite2-Country database. Lookups degrade to an empty result when no
// database is configured.
package geoip

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang"
)

var privateCIDRs []*net.IPNet

func init() {
	for _, block := range []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"fc00::/7",
		"fe80::/10",
	} {
		if _, cidr, err := net.ParseCIDR(block); err == nil {
			privateCIDRs = append(privateCIDRs, cidr)
		}
	}
}

// Lookup wraps a GeoLite2-Country reader. The zero value is usable and
// returns empty codes until Init succeeds.
type Lookup struct {
	mu        sync.RWMutex
	db        *maxminddb.Reader
	dbPath    string
	dbModTime time.Time
}

type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// NewLookup creates a disabled Lookup; call Init with a database path to
// enable it.
func NewLookup() *Lookup {
	return &Lookup{}
}

// Init loads the database at path. An empty path leaves lookups disabled.
func (g *Lookup) Init(path string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.dbPath = path
	if path == "" {
		return nil
	}
	return g.load()
}

// load opens or reopens the database. Caller holds the write lock.
func (g *Lookup) load() error {
	info, err := os.Stat(g.dbPath)
	if err != nil {
		return fmt.Errorf("geoip database: %w", err)
	}
	if g.db != nil && info.ModTime().Equal(g.dbModTime) {
		return nil
	}
	if g.db != nil {
		_ = g.db.Close()
		g.db = nil
	}

	db, err := maxminddb.Open(g.dbPath)
	if err != nil {
		return fmt.Errorf("open geoip database: %w", err)
	}
	g.db = db
	g.dbModTime = info.ModTime()
	return nil
}

// Reload reopens the database when the file on disk changed. Intended for a
// periodic job.
func (g *Lookup) Reload() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.dbPath == "" {
		return nil
	}
	return g.load()
}

// Country returns the 2-letter ISO code for ip, "LOCAL" for private or
// loopback addresses, or "" when the IP is invalid or no database is loaded.
func (g *Lookup) Country(ip string) string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	if parsed.IsLoopback() || isPrivateIP(parsed) {
		return "LOCAL"
	}
	if g.db == nil {
		return ""
	}

	var rec countryRecord
	if err := g.db.Lookup(parsed, &rec); err != nil {
		return ""
	}
	return rec.Country.ISOCode
}

// Close releases the underlying reader.
func (g *Lookup) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.db != nil {
		_ = g.db.Close()
		g.db = nil
	}
}

func isPrivateIP(ip net.IP) bool {
	for _, cidr := range privateCIDRs {
		if cidr.Contains(ip) {
			return true
		}
	}
	return false
}
