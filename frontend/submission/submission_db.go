package submission

import (
	"context"
	"encoding/json"
	"time"

	"github.com/uptrace/bun"

	"locator/infrastructure/audit"
	"locator/infrastructure/sqlite"
	"locator/models"
)

func recordRun(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, run models.SubmissionRun) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&run).Exec(ctx); err != nil {
			return err
		}
		if auditSvc != nil {
			after := map[string]any{
				"survey":    run.Survey,
				"rows":      run.RowCount,
				"ledger_ok": run.LedgerOK,
				"remote_ok": run.RemoteOK,
			}
			return auditSvc.Write(ctx, tx, run.UserID, "survey.submit", "submission_runs", run.ID, nil, after)
		}
		return nil
	})
}

func loadRun(ctx context.Context, db *sqlite.DB, id string) (models.SubmissionRun, error) {
	var run models.SubmissionRun
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&run).Where("id = ?", id).Limit(1).Scan(ctx)
	})
	return run, err
}

func markRemoteResult(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID int64, id string, ok bool, remoteErr string) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewRaw(`
UPDATE submission_runs
SET remote_ok = ?, remote_error = ?, updated_at = ?
WHERE id = ?`, ok, remoteErr, time.Now(), id).Exec(ctx)
		if err != nil {
			return err
		}
		if auditSvc != nil {
			after := map[string]any{"remote_ok": ok, "remote_error": remoteErr}
			return auditSvc.Write(ctx, tx, userID, "survey.replay", "submission_runs", id, nil, after)
		}
		return nil
	})
}

// ListRecentRuns returns the newest submission runs for the admin panel.
func ListRecentRuns(ctx context.Context, db *sqlite.DB, limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows := make([]RunRow, 0, limit)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT sr.id, u.username, sr.survey, sr.row_count, sr.ledger_ok, sr.remote_ok,
       sr.remote_error,
       strftime('%d/%m/%Y %H:%M', sr.created_at) AS created_at
FROM submission_runs sr
JOIN users u ON u.id = sr.user_id
ORDER BY sr.created_at DESC, sr.id DESC
LIMIT ?`, limit).Scan(ctx, &rows)
	})
	return rows, err
}

func marshalRecords(records []models.SubmissionRecord) (string, error) {
	b, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalRecords(payload string) ([]models.SubmissionRecord, error) {
	var records []models.SubmissionRecord
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, err
	}
	return records, nil
}
