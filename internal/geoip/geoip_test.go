// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package geoip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountryWithoutDatabase(t *testing.T) {
	g := NewLookup()
	require.NoError(t, g.Init(""))
	defer g.Close()

	tests := []struct {
		name string
		ip   string
		want string
	}{
		{"loopback", "127.0.0.1", "LOCAL"},
		{"ipv6 loopback", "::1", "LOCAL"},
		{"private 10/8", "10.1.2.3", "LOCAL"},
		{"private 192.168/16", "192.168.0.20", "LOCAL"},
		{"ipv6 unique local", "fc00::1", "LOCAL"},
		{"public without db", "8.8.8.8", ""},
		{"invalid", "not-an-ip", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Country(tt.ip))
		})
	}
}

func TestInitMissingFile(t *testing.T) {
	g := NewLookup()
	err := g.Init("/nonexistent/GeoLite2-Country.mmdb")
	require.Error(t, err)

	// Lookups stay safe after a failed init.
	assert.Equal(t, "", g.Country("8.8.8.8"))
	assert.Equal(t, "LOCAL", g.Country("127.0.0.1"))
}

func TestReloadWithoutPathIsNoop(t *testing.T) {
	g := NewLookup()
	require.NoError(t, g.Init(""))
	assert.NoError(t, g.Reload())
}
