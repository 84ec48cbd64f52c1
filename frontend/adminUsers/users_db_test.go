package adminusers

import (
	"context"
	"path/filepath"
	"testing"

	"locator/frontend/login"
	"locator/infrastructure/sqlite"
)

func openUsersTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "users-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.ApplyMigrations(context.Background(), db, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestLoadUsers(t *testing.T) {
	db := openUsersTestDB(t)

	if err := login.UpsertUser(context.Background(), db, "admin", "admin", "", "Adm1n!Pass#2026"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if err := login.UpsertUser(context.Background(), db, "maria", "clerk", "Loja Centro", "Cl3rk!Pass#2026"); err != nil {
		t.Fatalf("seed clerk: %v", err)
	}

	users, err := LoadUsers(context.Background(), db)
	if err != nil {
		t.Fatalf("load users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].Username != "admin" || users[1].Username != "maria" {
		t.Fatalf("unexpected ordering: %+v", users)
	}
	if users[1].Store != "Loja Centro" || users[1].Role != "clerk" {
		t.Fatalf("clerk row wrong: %+v", users[1])
	}
}

func TestCreateUserPayloadValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload CreateUserPayload
		wantErr bool
	}{
		{"valid clerk", CreateUserPayload{Username: "maria", Password: "Cl3rk!Pass#2026", Role: "clerk", Store: "Loja Centro"}, false},
		{"valid admin without store", CreateUserPayload{Username: "admin", Password: "Adm1n!Pass#2026", Role: "admin"}, false},
		{"missing username", CreateUserPayload{Password: "x", Role: "clerk"}, true},
		{"short username", CreateUserPayload{Username: "ab", Password: "x", Role: "clerk"}, true},
		{"missing password", CreateUserPayload{Username: "maria", Role: "clerk"}, true},
		{"unknown role", CreateUserPayload{Username: "maria", Password: "x", Role: "manager"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validate.Struct(tc.payload)
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
