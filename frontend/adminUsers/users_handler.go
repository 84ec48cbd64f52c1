package adminusers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"locator/frontend/login"
	sessioncontext "locator/frontend/shared/context"
	"locator/frontend/shared/nav"
	"locator/infrastructure/cache"
	"locator/infrastructure/sqlite"
)

var validate = validator.New()

// UsersPageQueryHandler renders the admin users list page.
func UsersPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessioncontext.GetSessionFromContext(r.Context())

		users, err := LoadUsers(r.Context(), db)
		if err != nil {
			slog.Error("admin users: failed to load data", slog.Any("err", err))
			http.Error(w, "failed to load users", http.StatusInternalServerError)
			return
		}

		data := PageData{
			Nav:          nav.BuildTopNavData(session),
			Users:        users,
			Status:       r.URL.Query().Get("status"),
			ErrorMessage: r.URL.Query().Get("error"),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := UsersListPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render users page", http.StatusInternalServerError)
			return
		}
	}
}

// CreateUserCommandHandler creates or resets an account from the admin form.
func CreateUserCommandHandler(db *sqlite.DB, userCache *cache.UserCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/app/admin/users?error="+url.QueryEscape("invalid form data"), http.StatusSeeOther)
			return
		}

		payload := CreateUserPayload{
			Username: strings.TrimSpace(r.FormValue("username")),
			Password: strings.TrimSpace(r.FormValue("password")),
			Role:     strings.TrimSpace(r.FormValue("role")),
			Store:    strings.TrimSpace(r.FormValue("store")),
		}
		if err := validate.Struct(payload); err != nil {
			http.Redirect(w, r, "/app/admin/users?error="+url.QueryEscape(payloadErrorMessage(err)), http.StatusSeeOther)
			return
		}

		if err := login.UpsertUser(r.Context(), db, payload.Username, payload.Role, payload.Store, payload.Password); err != nil {
			http.Redirect(w, r, "/app/admin/users?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}
		// A reset password must not leave a stale cached credential around.
		userCache.Delete(payload.Username)

		http.Redirect(w, r, "/app/admin/users?status="+url.QueryEscape("usuário salvo"), http.StatusSeeOther)
	}
}

func payloadErrorMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "invalid user data"
	}
	switch errs[0].Field() {
	case "Username":
		return "nome de usuário inválido (3 a 64 caracteres)"
	case "Password":
		return "senha é obrigatória"
	case "Role":
		return "perfil deve ser admin ou clerk"
	case "Store":
		return "nome de loja muito longo"
	}
	return "invalid user data"
}
