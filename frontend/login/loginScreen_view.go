package login

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	sharedhtml "locator/frontend/shared/html"
)

// GetLoginScreen builds the login page component.
func GetLoginScreen(errorMessage string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<main class="login-page"><h1>Localização de Produtos nas Lojas</h1>`)
		b.WriteString(sharedhtml.Flash("error", errorMessage))
		b.WriteString(`<form method="POST" action="/login" class="login-form">`)
		b.WriteString(`<label>Usuário<input type="text" name="username" autocomplete="username" required></label>`)
		b.WriteString(`<label>Senha<input type="password" name="password" autocomplete="current-password" required></label>`)
		b.WriteString(`<button type="submit">Entrar</button>`)
		b.WriteString(`</form></main>`)
		_, err := io.WriteString(w, sharedhtml.RenderLayout("Login", b.String()))
		return err
	})
}
