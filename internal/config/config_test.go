// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"testing"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	setEnv(t, "PORTAL_SESSION_SECRET", "test-secret-key-32-bytes-long!!!")
	setEnv(t, "PORTAL_JWT_SECRET", "test-jwt-secret-key-32-bytes-ok!")
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/portal.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/portal.db")
	}
	if cfg.ServerHost != "localhost" {
		t.Errorf("ServerHost = %q, want %q", cfg.ServerHost, "localhost")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.SGDYearThreshold != 2025 {
		t.Errorf("SGDYearThreshold = %d, want 2025", cfg.SGDYearThreshold)
	}
	if cfg.SGDStorageBaseURL != cfg.StorageBaseURL {
		t.Errorf("SGDStorageBaseURL should fall back to StorageBaseURL, got %q", cfg.SGDStorageBaseURL)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setRequired(t)
	setEnv(t, "PORTAL_DB_PATH", "/custom/path.db")
	setEnv(t, "PORTAL_SERVER_PORT", "3000")
	setEnv(t, "PORTAL_ENV", "production")
	setEnv(t, "PORTAL_STORAGE_BASE_URL", "https://cdn.example.gob.pe/archivos")
	setEnv(t, "PORTAL_SGD_STORAGE_BASE_URL", "https://sgd.example.gob.pe/ficheros")
	setEnv(t, "PORTAL_SGD_YEAR_THRESHOLD", "2026")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "/custom/path.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/custom/path.db")
	}
	if cfg.ServerPort != 3000 {
		t.Errorf("ServerPort = %d, want 3000", cfg.ServerPort)
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true in production")
	}
	if cfg.StorageBaseURL != "https://cdn.example.gob.pe/archivos" {
		t.Errorf("StorageBaseURL = %q", cfg.StorageBaseURL)
	}
	if cfg.SGDStorageBaseURL != "https://sgd.example.gob.pe/ficheros" {
		t.Errorf("SGDStorageBaseURL = %q", cfg.SGDStorageBaseURL)
	}
	if cfg.SGDYearThreshold != 2026 {
		t.Errorf("SGDYearThreshold = %d, want 2026", cfg.SGDYearThreshold)
	}
}

func TestLoad_MissingSessionSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "PORTAL_JWT_SECRET", "test-jwt-secret-key-32-bytes-ok!")

	if _, err := Load(); err == nil {
		t.Error("expected error for missing PORTAL_SESSION_SECRET")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "PORTAL_SESSION_SECRET", "short")
	setEnv(t, "PORTAL_JWT_SECRET", "test-jwt-secret-key-32-bytes-ok!")

	if _, err := Load(); err == nil {
		t.Error("expected error for short session secret")
	}
}

func TestServerAddr(t *testing.T) {
	cfg := Config{ServerHost: "0.0.0.0", ServerPort: 9090}
	if got := cfg.ServerAddr(); got != "0.0.0.0:9090" {
		t.Errorf("ServerAddr() = %q, want %q", got, "0.0.0.0:9090")
	}
}
