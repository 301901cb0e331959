// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestNullInt64FromPtr(t *testing.T) {
	if got := NullInt64FromPtr(nil); got.Valid {
		t.Errorf("NullInt64FromPtr(nil) = %v, want invalid", got)
	}
	v := int64(42)
	got := NullInt64FromPtr(&v)
	if !got.Valid || got.Int64 != 42 {
		t.Errorf("NullInt64FromPtr(&42) = %v", got)
	}
}

func TestNullStringFromValue(t *testing.T) {
	if got := NullStringFromValue(""); got.Valid {
		t.Errorf("NullStringFromValue(\"\") = %v, want invalid", got)
	}
	got := NullStringFromValue("documentos/res.pdf")
	if !got.Valid || got.String != "documentos/res.pdf" {
		t.Errorf("NullStringFromValue = %v", got)
	}
}
