package submission

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"locator/frontend/survey"
	sessioncontext "locator/frontend/shared/context"
	"locator/infrastructure/audit"
	"locator/infrastructure/catalog"
	"locator/infrastructure/ledger"
	"locator/infrastructure/progress"
	"locator/infrastructure/sheets"
	"locator/infrastructure/sqlite"
	"locator/models"
)

// SubmitSurveyCommandHandler finalizes the posted answers: flushes the
// draft, appends the batch to the local ledger and mirrors it to the
// remote spreadsheet. The two sinks succeed or fail independently; a
// remote failure never rolls back ledger rows.
func SubmitSurveyCommandHandler(db *sqlite.DB, auditSvc *audit.Service, catalogPath string, store *progress.Store, led *ledger.Ledger, mirror *sheets.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		surveyID := chi.URLParam(r, "id")
		formURL := "/app/surveys/" + url.PathEscape(surveyID)

		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, formURL+"?error="+url.QueryEscape("invalid form data"), http.StatusSeeOther)
			return
		}

		cat, err := catalog.Load(catalogPath)
		if err != nil {
			slog.Error("catalog load failed on submit", slog.String("path", catalogPath), slog.Any("err", err))
			http.Redirect(w, r, formURL+"?error="+url.QueryEscape("não foi possível carregar o catálogo"), http.StatusSeeOther)
			return
		}
		items := cat.BySurvey(surveyID)
		if len(items) == 0 {
			http.Redirect(w, r, "/app/surveys", http.StatusSeeOther)
			return
		}

		now := time.Now()
		user := session.User.Username
		entries := survey.ParseFormEntries(r.PostForm, items, user, now)

		// Final checkpoint of the draft before it becomes a submission.
		if err := store.Save(user, surveyID, entries); err != nil {
			slog.Error("progress flush on submit failed", slog.String("user", user), slog.Any("err", err))
		}

		records := BuildRecords(items, entries, user, surveyID, now)

		run := models.SubmissionRun{
			ID:       uuid.NewString(),
			UserID:   session.UserID,
			Survey:   surveyID,
			RowCount: int64(len(records)),
		}
		for i := range records {
			records[i].SubmissionID = run.ID
		}
		if payload, err := marshalRecords(records); err == nil {
			run.PayloadJSON = payload
		} else {
			slog.Error("marshal submission payload failed", slog.String("run", run.ID), slog.Any("err", err))
		}

		if err := led.Append(records); err != nil {
			slog.Error("ledger append failed", slog.String("run", run.ID), slog.Any("err", err))
			if err := recordRun(r.Context(), db, auditSvc, run); err != nil {
				slog.Error("record submission run failed", slog.String("run", run.ID), slog.Any("err", err))
			}
			http.Redirect(w, r, formURL+"?error="+url.QueryEscape("falha ao gravar respostas no arquivo local"), http.StatusSeeOther)
			return
		}
		run.LedgerOK = true

		status := "respostas enviadas"
		if mirror == nil {
			run.RemoteError = "remote mirror disabled: no credentials"
			status += " (planilha remota desativada)"
		} else if err := mirror.MirrorRecords(r.Context(), records); err != nil {
			// Local rows stay; the remote leg can be replayed later.
			slog.Error("remote mirror failed", slog.String("run", run.ID), slog.Any("err", err))
			run.RemoteError = err.Error()
			status += " (falha na planilha remota; use reenviar no painel)"
		} else {
			run.RemoteOK = true
		}

		if err := recordRun(r.Context(), db, auditSvc, run); err != nil {
			slog.Error("record submission run failed", slog.String("run", run.ID), slog.Any("err", err))
		}

		http.Redirect(w, r, formURL+"?status="+url.QueryEscape(status), http.StatusSeeOther)
	}
}

// ReplaySubmissionCommandHandler retries the remote leg of a recorded run.
// Runs already mirrored are left untouched, and the mirror skips tabs that
// already carry the run's id, so a replay after a partial failure only
// fills in the tabs still missing.
func ReplaySubmissionCommandHandler(db *sqlite.DB, auditSvc *audit.Service, mirror *sheets.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		runID := chi.URLParam(r, "id")
		panelURL := "/app/admin"

		run, err := loadRun(r.Context(), db, runID)
		if err != nil {
			http.Redirect(w, r, panelURL+"?error="+url.QueryEscape("envio não encontrado"), http.StatusSeeOther)
			return
		}
		if session.User.Role != models.RoleAdmin && session.UserID != run.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		if run.RemoteOK {
			http.Redirect(w, r, panelURL+"?status="+url.QueryEscape("envio já espelhado"), http.StatusSeeOther)
			return
		}
		if mirror == nil {
			http.Redirect(w, r, panelURL+"?error="+url.QueryEscape("planilha remota desativada"), http.StatusSeeOther)
			return
		}

		records, err := unmarshalRecords(run.PayloadJSON)
		if err != nil || len(records) == 0 {
			http.Redirect(w, r, panelURL+"?error="+url.QueryEscape("envio sem dados para reenviar"), http.StatusSeeOther)
			return
		}

		if err := mirror.MirrorRecords(r.Context(), records); err != nil {
			slog.Error("replay mirror failed", slog.String("run", runID), slog.Any("err", err))
			if err := markRemoteResult(r.Context(), db, auditSvc, session.UserID, runID, false, err.Error()); err != nil {
				slog.Error("mark remote result failed", slog.String("run", runID), slog.Any("err", err))
			}
			http.Redirect(w, r, panelURL+"?error="+url.QueryEscape("falha ao reenviar para a planilha remota"), http.StatusSeeOther)
			return
		}

		if err := markRemoteResult(r.Context(), db, auditSvc, session.UserID, runID, true, ""); err != nil {
			slog.Error("mark remote result failed", slog.String("run", runID), slog.Any("err", err))
		}
		http.Redirect(w, r, panelURL+"?status="+url.QueryEscape("envio espelhado com sucesso"), http.StatusSeeOther)
	}
}

// BuildRecords flattens catalog rows and final answers into submission
// records, preserving catalog order.
func BuildRecords(items []models.CatalogItem, entries map[int]models.ProgressEntry, user, surveyID string, now time.Time) []models.SubmissionRecord {
	date := now.Format("02/01/2006")
	records := make([]models.SubmissionRecord, 0, len(items))
	for _, item := range items {
		entry := entries[item.Row]
		records = append(records, models.SubmissionRecord{
			User:           user,
			Date:           date,
			Survey:         surveyID,
			Store:          item.Store,
			Description:    item.Description,
			InternalCode:   item.InternalCode,
			EAN:            item.EAN,
			StockQty:       item.StockQty,
			DaysNoMovement: item.DaysNoMovement,
			Section:        item.Section,
			Location:       entry.Location,
			Expiry:         entry.Expiry,
		})
	}
	return records
}
