package admin

import (
	"log/slog"
	"net/http"

	sessioncontext "locator/frontend/shared/context"
	"locator/frontend/shared/nav"
	"locator/frontend/submission"
	"locator/infrastructure/catalog"
	"locator/infrastructure/ledger"
	"locator/infrastructure/sqlite"
)

const recentRunLimit = 25

// AdminPageQueryHandler renders the response browser: filterable ledger
// rows, the per-store rollup, the survey completion board and the latest
// submission runs with their replay state.
func AdminPageQueryHandler(db *sqlite.DB, catalogPath string, led *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		data := PageData{
			Nav:     nav.BuildTopNavData(session),
			Filters: ParseFilters(r.URL.Query()),
			Status:  r.URL.Query().Get("status"),
			Error:   r.URL.Query().Get("error"),
		}

		records, err := led.ReadAll()
		if err != nil {
			slog.Error("ledger read failed", slog.String("path", led.Path), slog.Any("err", err))
			data.Error = "não foi possível ler o arquivo de respostas"
			renderAdminPage(w, r, data)
			return
		}
		data.Stores = DistinctStores(records)
		data.Records = data.Filters.Apply(records)
		data.Summaries = SummarizeByStore(data.Records)

		cat, err := catalog.Load(catalogPath)
		if err != nil {
			slog.Warn("catalog load failed, skipping status board",
				slog.String("path", catalogPath), slog.Any("err", err))
			data.Surveys = DistinctSurveys(nil, records)
		} else {
			data.Surveys = DistinctSurveys(cat.Surveys(), records)
			data.Board = BuildStatusBoard(cat, records)
		}

		runs, err := submission.ListRecentRuns(r.Context(), db, recentRunLimit)
		if err != nil {
			slog.Error("list submission runs failed", slog.Any("err", err))
		} else {
			data.RecentRuns = runs
		}

		renderAdminPage(w, r, data)
	}
}

// RecordsExportXLSXHandler downloads the ledger rows that pass the current
// filters as a spreadsheet.
func RecordsExportXLSXHandler(db *sqlite.DB, led *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := led.ReadAll()
		if err != nil {
			http.Error(w, "failed to read response ledger", http.StatusInternalServerError)
			return
		}
		filters := ParseFilters(r.URL.Query())
		filtered := filters.Apply(records)

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename=respostas-filtradas.xlsx")
		if err := writeRecordsXLSX(w, filtered); err != nil {
			http.Error(w, "failed to export xlsx", http.StatusInternalServerError)
			return
		}
		if err := recordExportRun(r.Context(), db, sessionUserIDFromContext(r), "records_xlsx"); err != nil {
			slog.Error("record export run failed", slog.String("type", "records_xlsx"), slog.Any("err", err))
		}
	}
}

// SummaryExportXLSXHandler downloads the per-store rollup of the filtered
// rows.
func SummaryExportXLSXHandler(db *sqlite.DB, led *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := led.ReadAll()
		if err != nil {
			http.Error(w, "failed to read response ledger", http.StatusInternalServerError)
			return
		}
		filters := ParseFilters(r.URL.Query())
		summaries := SummarizeByStore(filters.Apply(records))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename=resumo-lojas.xlsx")
		if err := writeSummaryXLSX(w, summaries); err != nil {
			http.Error(w, "failed to export xlsx", http.StatusInternalServerError)
			return
		}
		if err := recordExportRun(r.Context(), db, sessionUserIDFromContext(r), "summary_xlsx"); err != nil {
			slog.Error("record export run failed", slog.String("type", "summary_xlsx"), slog.Any("err", err))
		}
	}
}

// BoardExportXLSXHandler downloads the survey completion board.
func BoardExportXLSXHandler(db *sqlite.DB, catalogPath string, led *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cat, err := catalog.Load(catalogPath)
		if err != nil {
			http.Error(w, "failed to load product catalog", http.StatusInternalServerError)
			return
		}
		records, err := led.ReadAll()
		if err != nil {
			http.Error(w, "failed to read response ledger", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename=andamento-pesquisas.xlsx")
		if err := writeBoardXLSX(w, BuildStatusBoard(cat, records)); err != nil {
			http.Error(w, "failed to export xlsx", http.StatusInternalServerError)
			return
		}
		if err := recordExportRun(r.Context(), db, sessionUserIDFromContext(r), "board_xlsx"); err != nil {
			slog.Error("record export run failed", slog.String("type", "board_xlsx"), slog.Any("err", err))
		}
	}
}

func sessionUserIDFromContext(r *http.Request) *int64 {
	session, ok := sessioncontext.GetSessionFromContext(r.Context())
	if !ok || session.UserID <= 0 {
		return nil
	}
	id := session.UserID
	return &id
}

func renderAdminPage(w http.ResponseWriter, r *http.Request, data PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := AdminPage(data).Render(r.Context(), w); err != nil {
		http.Error(w, "failed to render admin page", http.StatusInternalServerError)
	}
}
