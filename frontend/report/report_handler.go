package report

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	sessioncontext "locator/frontend/shared/context"
	"locator/frontend/submission"
	"locator/infrastructure/catalog"
	"locator/infrastructure/progress"
	"locator/models"
)

// SurveyReportQueryHandler renders the current state of one survey as a
// printable PDF: summary counts first, then one block per catalog row with
// the internal code as a scannable barcode.
func SurveyReportQueryHandler(catalogPath string, store *progress.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		surveyID := chi.URLParam(r, "id")

		cat, err := catalog.Load(catalogPath)
		if err != nil {
			slog.Error("catalog load failed", slog.String("path", catalogPath), slog.Any("err", err))
			http.Error(w, "failed to load product catalog", http.StatusInternalServerError)
			return
		}
		items := cat.BySurvey(surveyID)
		if len(items) == 0 {
			http.Error(w, "survey not found: "+surveyID, http.StatusNotFound)
			return
		}

		user := session.User.Username
		prior, err := store.Load(user, surveyID)
		if err != nil {
			slog.Warn("progress load failed, reporting empty answers",
				slog.String("user", user), slog.String("survey", surveyID), slog.Any("err", err))
		}
		rows := progress.Reconcile(items, prior)

		now := time.Now()
		entries := make(map[int]models.ProgressEntry, len(rows))
		for _, row := range rows {
			entries[row.Item.Row] = models.ProgressEntry{Location: row.Location, Expiry: row.Expiry}
		}
		records := submission.BuildRecords(items, entries, user, surveyID, now)

		pdfBytes, err := renderSurveyReportPDF(surveyID, user, now, records)
		if err != nil {
			slog.Error("report render failed", slog.String("survey", surveyID), slog.Any("err", err))
			http.Error(w, "failed to build report pdf", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=relatorio-%s.pdf", surveyID))
		_, _ = w.Write(pdfBytes)
	}
}
