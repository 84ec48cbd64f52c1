package adminusers

import (
	"context"

	"github.com/uptrace/bun"

	"locator/infrastructure/sqlite"
)

func LoadUsers(ctx context.Context, db *sqlite.DB) ([]UserView, error) {
	users := make([]UserView, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw("SELECT id, username, role, store FROM users ORDER BY id ASC").Scan(ctx, &users)
	})
	return users, err
}
