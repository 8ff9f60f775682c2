package testutil

import (
	"context"
	"testing"

	"github.com/oksasatya/digital-legacy/internal/domain/entity"
	"github.com/oksasatya/digital-legacy/internal/infrastructure/sqlite"
)

// NewTestStore creates an in-memory SQLite store with the schema applied.
// The store is closed when the test completes.
func NewTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	db, err := sqlite.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := sqlite.MigrateUp(db); err != nil {
		_ = db.Close()
		t.Fatalf("failed to migrate database: %v", err)
	}

	store := sqlite.NewStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// SeedUser inserts a user with a throwaway password hash.
func SeedUser(t *testing.T, store *sqlite.Store, name, email string) *entity.User {
	t.Helper()
	u := &entity.User{Name: name, Email: email, Password: "x"}
	if err := store.Repos().Users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

// SeedAccount inserts an account for userID with the given action.
func SeedAccount(t *testing.T, store *sqlite.Store, userID int64, service string, action entity.Action) *entity.Account {
	t.Helper()
	a := &entity.Account{
		UserID:      userID,
		ServiceName: service,
		Category:    "social",
		Identifier:  service + "-handle",
		Action:      action,
	}
	if err := store.Repos().Accounts.Create(context.Background(), a); err != nil {
		t.Fatalf("seed account %s: %v", service, err)
	}
	return a
}

// SeedContact inserts a trusted contact for userID.
func SeedContact(t *testing.T, store *sqlite.Store, userID int64, name, email string, primary bool) *entity.TrustedContact {
	t.Helper()
	c := &entity.TrustedContact{UserID: userID, Name: name, Relationship: "sibling", Email: email, IsPrimary: primary}
	if err := store.Repos().Contacts.Create(context.Background(), c); err != nil {
		t.Fatalf("seed contact %s: %v", email, err)
	}
	return c
}
