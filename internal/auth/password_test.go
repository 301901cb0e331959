// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secreto123")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash has unexpected prefix: %q", hash)
	}

	ok, err := CheckPassword("secreto123", hash)
	if err != nil {
		t.Fatalf("CheckPassword() error: %v", err)
	}
	if !ok {
		t.Error("expected correct password to verify")
	}

	ok, err = CheckPassword("otro", hash)
	if err != nil {
		t.Fatalf("CheckPassword() error: %v", err)
	}
	if ok {
		t.Error("expected wrong password to fail verification")
	}
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	if _, err := CheckPassword("x", "not-a-hash"); err == nil {
		t.Error("expected error for malformed hash")
	}
	if _, err := CheckPassword("x", "$bcrypt$v=19$m=1,t=1,p=1$a$b"); err == nil {
		t.Error("expected error for unsupported hash type")
	}
}

func TestGeneratePassword(t *testing.T) {
	p1, err := GeneratePassword(24)
	if err != nil {
		t.Fatalf("GeneratePassword() error: %v", err)
	}
	if len(p1) != 24 {
		t.Errorf("len = %d, want 24", len(p1))
	}

	p2, err := GeneratePassword(24)
	if err != nil {
		t.Fatalf("GeneratePassword() error: %v", err)
	}
	if p1 == p2 {
		t.Error("expected two generated passwords to differ")
	}
}
