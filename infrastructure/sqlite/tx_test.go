package sqlite

import (
	"context"
	"testing"

	"github.com/uptrace/bun"
)

func TestWithWriteTx_ReadBack(t *testing.T) {
	db := openTestDB(t)
	if err := ApplyMigrations(context.Background(), db, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO users (username, password_hash, role, store) VALUES ('maria', 'hash', 'clerk', 'Loja Centro')`)
		return err
	})
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}

	var store string
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT store FROM users WHERE username = 'maria'`).Scan(ctx, &store)
	})
	if err != nil {
		t.Fatalf("read user: %v", err)
	}
	if store != "Loja Centro" {
		t.Fatalf("expected store 'Loja Centro', got %q", store)
	}
}

func TestWithReadTx_RejectsWrites(t *testing.T) {
	db := openTestDB(t)
	if err := ApplyMigrations(context.Background(), db, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO users (username, password_hash, role) VALUES ('x', 'h', 'clerk')`)
		return err
	})
	if err == nil {
		t.Fatalf("expected write through read handle to fail")
	}
}
