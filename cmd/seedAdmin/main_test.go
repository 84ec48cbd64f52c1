package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/uptrace/bun"

	"locator/infrastructure/sqlite"
)

func TestSeedAdmin(t *testing.T) {
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "seed-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.ApplyMigrations(context.Background(), db, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if err := seedAdmin(context.Background(), db, "Admin123!Locator"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	// Running the seed twice resets the password instead of failing.
	if err := seedAdmin(context.Background(), db, "Other456@Locator"); err != nil {
		t.Fatalf("reseed admin: %v", err)
	}

	var count int64
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM users WHERE username = 'admin' AND role = 'admin'`).Scan(ctx, &count)
	})
	if err != nil {
		t.Fatalf("count admin users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one admin row, got %d", count)
	}

	if err := seedAdmin(context.Background(), db, "weak"); err == nil {
		t.Fatal("expected password policy rejection")
	}
}
