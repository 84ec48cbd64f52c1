package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"locator/infrastructure/audit"
	"locator/infrastructure/cache"
	httpserver "locator/infrastructure/http"
	"locator/infrastructure/ledger"
	"locator/infrastructure/progress"
	"locator/infrastructure/sheets"
	"locator/infrastructure/sqlite"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	addr := getenv("APP_ADDR", ":8080")
	dbPath := getenv("SQLITE_PATH", "locator.db")
	catalogPath := getenv("CATALOG_PATH", "catalogo.xlsx")
	ledgerPath := getenv("LEDGER_PATH", "respostas.xlsx")
	progressDir := getenv("PROGRESS_DIR", "rascunhos")

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db, ""); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	mirror := buildSheetsClient()

	server := httpserver.NewServer(addr, db,
		cache.NewUserSessionCache(), cache.NewUserCache(), audit.NewService(),
		catalogPath, progress.NewStore(progressDir), ledger.New(ledgerPath), mirror)
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	log.Printf("locator listening on %s", addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

// buildSheetsClient returns nil when the spreadsheet mirror is not
// configured; submissions then stay local-only.
func buildSheetsClient() *sheets.Client {
	credentialsPath := os.Getenv("SHEETS_CREDENTIALS")
	spreadsheetID := os.Getenv("SPREADSHEET_ID")
	if credentialsPath == "" || spreadsheetID == "" {
		slog.Warn("remote spreadsheet mirror disabled: SHEETS_CREDENTIALS or SPREADSHEET_ID not set")
		return nil
	}
	client, err := sheets.NewClient(context.Background(), credentialsPath, spreadsheetID)
	if err != nil {
		slog.Error("sheets client init failed; mirror disabled", slog.Any("err", err))
		return nil
	}
	return client
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
