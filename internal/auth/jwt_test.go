// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/consejoregional/portal-go/internal/model"
)

func testJWT() JWT {
	return JWT{
		Secret:   []byte("test-secret-at-least-32-bytes-long!"),
		TokenTTL: time.Hour,
	}
}

func TestJWT_SignVerify(t *testing.T) {
	j := testJWT()

	token, expiresAt, err := j.Sign(Claims{UserUUID: "abc-123", Role: model.RoleAdmin})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if token == "" {
		t.Fatal("token should not be empty")
	}
	if time.Until(expiresAt) < 59*time.Minute {
		t.Errorf("expiresAt = %v, want ~1h from now", expiresAt)
	}

	claims, err := j.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserUUID != "abc-123" {
		t.Errorf("UserUUID = %q, want abc-123", claims.UserUUID)
	}
	if claims.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want %q", claims.Role, model.RoleAdmin)
	}
}

func TestJWT_VerifyWrongSecret(t *testing.T) {
	j := testJWT()
	token, _, err := j.Sign(Claims{UserUUID: "abc"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	other := JWT{Secret: []byte("a-completely-different-32-byte-key!"), TokenTTL: time.Hour}
	if _, err := other.Verify(token); err == nil {
		t.Error("expected verification failure with wrong secret")
	}
}

func TestJWT_VerifyExpired(t *testing.T) {
	j := testJWT()
	token, _, err := j.Sign(Claims{
		UserUUID: "abc",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if _, err := j.Verify(token); err == nil {
		t.Error("expected verification failure for expired token")
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"case insensitive scheme", "bearer token123", "token123"},
		{"empty", "", ""},
		{"missing token", "Bearer", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz", ""},
		{"padded", "  Bearer  spaced  ", "spaced"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BearerToken(tt.header); got != tt.want {
				t.Errorf("BearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
