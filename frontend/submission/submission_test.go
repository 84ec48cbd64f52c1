package submission

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"locator/infrastructure/ledger"
	"locator/infrastructure/sqlite"
	"locator/models"
)

func openSubmissionTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "submission-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.ApplyMigrations(context.Background(), db, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *sqlite.DB, id int64, username string) {
	t.Helper()
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, role, store) VALUES (?, ?, 'hash', 'clerk', 'Loja Centro')`, id, username)
		return err
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func inv1Items() []models.CatalogItem {
	return []models.CatalogItem{
		{Row: 0, SurveyID: "INV-1", Store: "Loja Centro", Description: "Arroz 5kg", InternalCode: "C1", EAN: "789C1", StockQty: 12},
		{Row: 1, SurveyID: "INV-1", Store: "Loja Centro", Description: "Feijao 1kg", InternalCode: "C2", EAN: "789C2", StockQty: 4},
		{Row: 2, SurveyID: "INV-1", Store: "Loja Centro", Description: "Oleo 900ml", InternalCode: "C3", EAN: "789C3", StockQty: 7},
	}
}

func TestBuildRecords_FlattensInCatalogOrder(t *testing.T) {
	entries := map[int]models.ProgressEntry{
		0: {Location: models.LocationSection},
		1: {Location: models.LocationWarehouse, Expiry: "11/2026"},
		2: {},
	}
	now := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	records := BuildRecords(inv1Items(), entries, "maria", "INV-1", now)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Location != models.LocationSection || records[1].Location != models.LocationWarehouse || records[2].Location != "" {
		t.Fatalf("locations out of order: %+v", records)
	}
	if records[1].Expiry != "11/2026" {
		t.Fatalf("expiry lost: %+v", records[1])
	}
	for _, r := range records {
		if r.User != "maria" || r.Date != "20/08/2026" || r.Survey != "INV-1" || r.Store != "Loja Centro" {
			t.Fatalf("flattened identity fields wrong: %+v", r)
		}
	}

	answered := 0
	for _, r := range records {
		if r.Answered() {
			answered++
		}
	}
	if answered != 2 {
		t.Fatalf("expected 2 answered records, got %d", answered)
	}
}

func TestSubmitBatch_AppendsExactlyBatchSize(t *testing.T) {
	led := ledger.New(filepath.Join(t.TempDir(), "respostas.xlsx"))
	now := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	prior := BuildRecords(inv1Items()[:1], map[int]models.ProgressEntry{0: {Location: models.LocationSection}}, "joao", "INV-1", now)
	if err := led.Append(prior); err != nil {
		t.Fatalf("seed ledger: %v", err)
	}

	batch := BuildRecords(inv1Items(), map[int]models.ProgressEntry{
		0: {Location: models.LocationSection},
		1: {Location: models.LocationWarehouse},
	}, "maria", "INV-1", now)
	if err := led.Append(batch); err != nil {
		t.Fatalf("append batch: %v", err)
	}

	all, err := led.ReadAll()
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(all) != len(prior)+len(batch) {
		t.Fatalf("expected %d rows, got %d", len(prior)+len(batch), len(all))
	}
	if all[0].User != "joao" {
		t.Fatalf("pre-existing row changed: %+v", all[0])
	}
}

func TestRecordRun_RoundTripWithPayload(t *testing.T) {
	db := openSubmissionTestDB(t)
	seedUser(t, db, 1, "maria")

	records := BuildRecords(inv1Items(), map[int]models.ProgressEntry{0: {Location: models.LocationSection}}, "maria", "INV-1", time.Now())
	payload, err := marshalRecords(records)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	run := models.SubmissionRun{
		ID:          "run-0001",
		UserID:      1,
		Survey:      "INV-1",
		RowCount:    3,
		LedgerOK:    true,
		RemoteOK:    false,
		RemoteError: "quota exceeded",
		PayloadJSON: payload,
	}
	if err := recordRun(context.Background(), db, nil, run); err != nil {
		t.Fatalf("record run: %v", err)
	}

	loaded, err := loadRun(context.Background(), db, "run-0001")
	if err != nil {
		t.Fatalf("load run: %v", err)
	}
	if loaded.Survey != "INV-1" || loaded.RemoteOK || !loaded.LedgerOK {
		t.Fatalf("unexpected run: %+v", loaded)
	}

	decoded, err := unmarshalRecords(loaded.PayloadJSON)
	if err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if len(decoded) != 3 || decoded[0].InternalCode != "C1" {
		t.Fatalf("payload round trip broken: %+v", decoded)
	}

	if err := markRemoteResult(context.Background(), db, nil, 1, "run-0001", true, ""); err != nil {
		t.Fatalf("mark remote: %v", err)
	}
	updated, err := loadRun(context.Background(), db, "run-0001")
	if err != nil {
		t.Fatalf("reload run: %v", err)
	}
	if !updated.RemoteOK || updated.RemoteError != "" {
		t.Fatalf("remote result not updated: %+v", updated)
	}
}

func TestListRecentRuns(t *testing.T) {
	db := openSubmissionTestDB(t)
	seedUser(t, db, 1, "maria")

	for i, id := range []string{"run-a", "run-b"} {
		run := models.SubmissionRun{ID: id, UserID: 1, Survey: "INV-1", RowCount: int64(i + 1), LedgerOK: true}
		if err := recordRun(context.Background(), db, nil, run); err != nil {
			t.Fatalf("record %s: %v", id, err)
		}
	}

	rows, err := ListRecentRuns(context.Background(), db, 10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(rows))
	}
	if rows[0].Username != "maria" {
		t.Fatalf("join with users broken: %+v", rows[0])
	}
	if !rows[0].CanReplay() {
		t.Fatalf("pending remote leg must be replayable: %+v", rows[0])
	}
}
