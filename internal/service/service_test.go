package service

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/consejoregional/portal-go/internal/model"
	"github.com/consejoregional/portal-go/internal/storage"
	"github.com/consejoregional/portal-go/internal/store"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp("", "portal-service-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		db.Close()
		os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

// testResolver builds a resolver with distinct local and SGD bases.
func testResolver() *storage.Resolver {
	return storage.NewResolver("http://files.local/archivos", "http://sgd.local/archivos", 2025)
}

func createServiceTestUser(t *testing.T, q *store.Queries, email string) model.User {
	t.Helper()
	now := time.Now()
	user, err := q.CreateUser(context.Background(), store.CreateUserParams{
		UUID:         "uuid-" + email,
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: "hash",
		Role:         model.RoleEditor,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}
