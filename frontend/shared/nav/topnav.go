package nav

import (
	"strings"

	sharedhtml "locator/frontend/shared/html"
	"locator/models"
)

// TopNavData is shared with page renderers.
type TopNavData struct {
	Username string
	Role     string
	Store    string
}

func BuildTopNavData(session models.Session) TopNavData {
	return TopNavData{
		Username: session.User.Username,
		Role:     session.User.Role,
		Store:    session.User.Store,
	}
}

// Render builds the shared top navigation bar. Admin-only links are shown
// for admin sessions.
func (d TopNavData) Render() string {
	var b strings.Builder
	b.WriteString(`<nav class="topnav"><span class="brand">Localização de Produtos</span><ul>`)
	b.WriteString(`<li><a href="/app/surveys">Pesquisas</a></li>`)
	if d.Role == models.RoleAdmin {
		b.WriteString(`<li><a href="/app/admin">Painel</a></li>`)
		b.WriteString(`<li><a href="/app/admin/users">Usuários</a></li>`)
	}
	b.WriteString(`</ul><form method="POST" action="/logout" class="logout"><span>`)
	b.WriteString(sharedhtml.Escape(d.Username))
	if d.Store != "" {
		b.WriteString(" · " + sharedhtml.Escape(d.Store))
	}
	b.WriteString(`</span><button type="submit">Sair</button></form></nav>`)
	return b.String()
}
