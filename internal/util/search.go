// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeSearch lowercases a search term and strips diacritics so that
// "Resolución" matches "resolucion". Document search columns are stored in
// this normalized form.
func NormalizeSearch(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	return strings.ToLower(strings.TrimSpace(result))
}

// SearchText builds the normalized search column value for a document from
// its number, name and description.
func SearchText(parts ...string) string {
	joined := strings.Join(parts, " ")
	return NormalizeSearch(joined)
}
