package adminusers

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	sharedhtml "locator/frontend/shared/html"
)

// UsersListPage builds the admin users screen.
func UsersListPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(data.Nav.Render())
		b.WriteString(`<main><h1>Usuários</h1>`)
		b.WriteString(sharedhtml.Flash("error", data.ErrorMessage))
		b.WriteString(sharedhtml.Flash("status", data.Status))

		b.WriteString(`<h2>Novo usuário</h2>`)
		b.WriteString(`<form method="POST" action="/app/admin/users">`)
		b.WriteString(`<label>Usuário<input type="text" name="username" required></label>`)
		b.WriteString(`<label>Senha<input type="password" name="password" required></label>`)
		b.WriteString(`<label>Perfil<select name="role">` +
			`<option value="clerk">Operador</option>` +
			`<option value="admin">Administrador</option>` +
			`</select></label>`)
		b.WriteString(`<label>Loja<input type="text" name="store" placeholder="Loja Centro"></label>`)
		b.WriteString(`<button type="submit">Salvar</button>`)
		b.WriteString(`</form>`)

		b.WriteString(`<h2>Cadastrados</h2>`)
		if len(data.Users) == 0 {
			b.WriteString(`<p>Nenhum usuário cadastrado.</p>`)
		} else {
			b.WriteString(`<table class="users"><thead><tr><th>ID</th><th>Usuário</th><th>Perfil</th><th>Loja</th></tr></thead><tbody>`)
			for _, u := range data.Users {
				b.WriteString(fmt.Sprintf(`<tr><td>%d</td>`, u.ID))
				b.WriteString(`<td>` + sharedhtml.Escape(u.Username) + `</td>`)
				b.WriteString(`<td>` + sharedhtml.Escape(u.Role) + `</td>`)
				b.WriteString(`<td>` + sharedhtml.Escape(u.Store) + `</td></tr>`)
			}
			b.WriteString(`</tbody></table>`)
		}

		b.WriteString(`</main>`)
		_, err := io.WriteString(w, sharedhtml.RenderLayout("Usuários", b.String()))
		return err
	})
}
