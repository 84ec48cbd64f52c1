package survey

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	sessioncontext "locator/frontend/shared/context"
	"locator/frontend/shared/nav"
	"locator/infrastructure/catalog"
	"locator/infrastructure/progress"
)

// SurveysPageQueryHandler renders the survey picker from the catalog file.
func SurveysPageQueryHandler(catalogPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		data := ListPageData{Nav: nav.BuildTopNavData(session)}

		cat, err := catalog.Load(catalogPath)
		if err != nil {
			// Missing file or missing PESQUISA column halts this page.
			slog.Error("catalog load failed", slog.String("path", catalogPath), slog.Any("err", err))
			data.Error = catalogErrorMessage(err)
			renderListPage(w, r, data)
			return
		}

		for _, id := range cat.Surveys() {
			data.Surveys = append(data.Surveys, SurveyOption{ID: id, ItemCount: len(cat.BySurvey(id))})
		}
		renderListPage(w, r, data)
	}
}

// SurveyFormPageQueryHandler renders the answer form for one survey: it
// merges catalog rows with prior progress and immediately persists the
// reconciled state so a fresh survey shows up in the scratch dir at once.
func SurveyFormPageQueryHandler(catalogPath string, store *progress.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		surveyID := chi.URLParam(r, "id")
		data := FormPageData{
			Nav:      nav.BuildTopNavData(session),
			SurveyID: surveyID,
			Status:   r.URL.Query().Get("status"),
			Error:    r.URL.Query().Get("error"),
		}

		cat, err := catalog.Load(catalogPath)
		if err != nil {
			slog.Error("catalog load failed", slog.String("path", catalogPath), slog.Any("err", err))
			data.Error = catalogErrorMessage(err)
			renderFormPage(w, r, data)
			return
		}
		items := cat.BySurvey(surveyID)
		if len(items) == 0 {
			data.Error = "pesquisa não encontrada no catálogo: " + surveyID
			renderFormPage(w, r, data)
			return
		}

		user := session.User.Username
		prior, err := store.Load(user, surveyID)
		if err != nil {
			if errors.Is(err, progress.ErrMalformed) {
				slog.Warn("malformed progress file, starting empty",
					slog.String("user", user), slog.String("survey", surveyID))
				data.Warning = "rascunho anterior ilegível; começando do zero"
			} else {
				slog.Error("progress load failed", slog.String("user", user), slog.Any("err", err))
				data.Warning = "não foi possível ler o rascunho anterior"
			}
		}

		data.Rows = progress.Reconcile(items, prior)
		for _, row := range data.Rows {
			if row.Location != "" {
				data.Answered++
			}
		}

		// Checkpoint flush of the reconciled batch.
		entries := InitialEntries(data.Rows, user, time.Now())
		if err := store.Save(user, surveyID, entries); err != nil {
			slog.Error("progress autosave failed", slog.String("user", user), slog.Any("err", err))
		}

		renderFormPage(w, r, data)
	}
}

// SaveProgressCommandHandler persists the posted draft and returns to the
// form.
func SaveProgressCommandHandler(catalogPath string, store *progress.Store) http.HandlerFunc {
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
			http.Redirect(w, r, formURL+"?error="+url.QueryEscape(catalogErrorMessage(err)), http.StatusSeeOther)
			return
		}
		items := cat.BySurvey(surveyID)
		if len(items) == 0 {
			http.Redirect(w, r, "/app/surveys", http.StatusSeeOther)
			return
		}

		entries := ParseFormEntries(r.PostForm, items, session.User.Username, time.Now())
		if err := store.Save(session.User.Username, surveyID, entries); err != nil {
			slog.Error("progress save failed", slog.String("user", session.User.Username), slog.Any("err", err))
			http.Redirect(w, r, formURL+"?error="+url.QueryEscape("falha ao salvar rascunho"), http.StatusSeeOther)
			return
		}

		http.Redirect(w, r, formURL+"?status="+url.QueryEscape("rascunho salvo"), http.StatusSeeOther)
	}
}

func catalogErrorMessage(err error) string {
	if errors.Is(err, catalog.ErrMissingSurveyColumn) {
		return "catálogo sem a coluna obrigatória PESQUISA"
	}
	return "não foi possível carregar o catálogo de produtos"
}

func renderListPage(w http.ResponseWriter, r *http.Request, data ListPageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := SurveysPage(data).Render(r.Context(), w); err != nil {
		http.Error(w, "failed to render surveys page", http.StatusInternalServerError)
	}
}

func renderFormPage(w http.ResponseWriter, r *http.Request, data FormPageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := SurveyFormPage(data).Render(r.Context(), w); err != nil {
		http.Error(w, "failed to render survey form", http.StatusInternalServerError)
	}
}
