package admin

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	sharedhtml "locator/frontend/shared/html"
	"locator/models"
)

// AdminPage builds the response browser component.
func AdminPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(data.Nav.Render())
		b.WriteString(`<main><h1>Painel de Respostas</h1>`)
		b.WriteString(sharedhtml.Flash("error", data.Error))
		b.WriteString(sharedhtml.Flash("status", data.Status))

		writeFilterForm(&b, data)
		writeExportLinks(&b, data)
		writeStatusBoard(&b, data.Board)
		writeSummaryTable(&b, data.Summaries)
		writeRecordsTable(&b, data.Records)
		writeRecentRuns(&b, data)

		b.WriteString(`</main>`)
		_, err := io.WriteString(w, sharedhtml.RenderLayout("Painel de Respostas", b.String()))
		return err
	})
}

func writeFilterForm(b *strings.Builder, data PageData) {
	b.WriteString(`<form method="GET" action="/app/admin" class="filters"><fieldset><legend>Filtros</legend>`)

	b.WriteString(`<label>Lojas<select name="store" multiple size="4">`)
	for _, store := range data.Stores {
		b.WriteString(`<option value="` + sharedhtml.Escape(store) + `"`)
		if containsExact(data.Filters.Stores, store) {
			b.WriteString(` selected`)
		}
		b.WriteString(`>` + sharedhtml.Escape(store) + `</option>`)
	}
	b.WriteString(`</select></label>`)

	b.WriteString(`<label>Pesquisas<select name="survey" multiple size="4">`)
	for _, survey := range data.Surveys {
		b.WriteString(`<option value="` + sharedhtml.Escape(survey) + `"`)
		if containsExact(data.Filters.Surveys, survey) {
			b.WriteString(` selected`)
		}
		b.WriteString(`>` + sharedhtml.Escape(survey) + `</option>`)
	}
	b.WriteString(`</select></label>`)

	b.WriteString(`<label>De<input type="date" name="date_from" value="` + sharedhtml.Escape(data.Filters.DateFrom) + `"></label>`)
	b.WriteString(`<label>Até<input type="date" name="date_to" value="` + sharedhtml.Escape(data.Filters.DateTo) + `"></label>`)
	b.WriteString(`<label>Descrição<input type="text" name="description" value="` + sharedhtml.Escape(data.Filters.Description) + `" placeholder="contém..."></label>`)

	b.WriteString(`<button type="submit">Filtrar</button>`)
	b.WriteString(`<a href="/app/admin" class="clear">Limpar</a>`)
	b.WriteString(`</fieldset></form>`)
}

func writeExportLinks(b *strings.Builder, data PageData) {
	query := data.Filters.Encode()
	suffix := ""
	if query != "" {
		suffix = "?" + query
	}
	b.WriteString(`<p class="export-links">`)
	b.WriteString(`<a href="/app/admin/export/records.xlsx` + suffix + `">Baixar respostas filtradas (xlsx)</a> `)
	b.WriteString(`<a href="/app/admin/export/summary.xlsx` + suffix + `">Baixar resumo por loja (xlsx)</a> `)
	b.WriteString(`<a href="/app/admin/export/status.xlsx">Baixar andamento (xlsx)</a>`)
	b.WriteString(`</p>`)
}

func writeStatusBoard(b *strings.Builder, board []StatusRow) {
	if len(board) == 0 {
		return
	}
	b.WriteString(`<h2>Andamento das pesquisas</h2>`)
	b.WriteString(`<table class="status-board"><thead><tr><th>Pesquisa</th><th>Itens</th><th>Respondidos</th><th>Status</th></tr></thead><tbody>`)
	for _, row := range board {
		b.WriteString(`<tr><td>` + sharedhtml.Escape(row.Survey) + `</td>`)
		b.WriteString(fmt.Sprintf(`<td>%d</td><td>%d</td>`, row.Expected, row.Answered))
		b.WriteString(`<td class="status-` + strings.ToLower(row.Status) + `">` + row.Status + `</td></tr>`)
	}
	b.WriteString(`</tbody></table>`)
}

func writeSummaryTable(b *strings.Builder, summaries []StoreSummary) {
	if len(summaries) == 0 {
		return
	}
	b.WriteString(`<h2>Resumo por loja</h2>`)
	b.WriteString(`<table class="store-summary"><thead><tr><th>Loja</th><th>Total</th><th>Respondidos</th><th>Sem resposta</th><th>%</th></tr></thead><tbody>`)
	for _, summary := range summaries {
		b.WriteString(`<tr><td>` + sharedhtml.Escape(summary.Store) + `</td>`)
		b.WriteString(fmt.Sprintf(`<td>%d</td><td>%d</td><td>%d</td><td>%.1f%%</td></tr>`,
			summary.Total, summary.Answered, summary.Unanswered, summary.Percent))
	}
	b.WriteString(`</tbody></table>`)
}

func writeRecordsTable(b *strings.Builder, records []models.SubmissionRecord) {
	b.WriteString(fmt.Sprintf(`<h2>Respostas (%d)</h2>`, len(records)))
	if len(records) == 0 {
		b.WriteString(`<p>Nenhuma resposta para os filtros atuais.</p>`)
		return
	}
	b.WriteString(`<table class="records"><thead><tr>` +
		`<th>Usuário</th><th>Data</th><th>Pesquisa</th><th>Loja</th><th>Descrição</th>` +
		`<th>Código</th><th>EAN</th><th>Estoque</th><th>Local</th><th>Validade</th>` +
		`</tr></thead><tbody>`)
	for _, record := range records {
		b.WriteString(`<tr><td>` + sharedhtml.Escape(record.User) + `</td>`)
		b.WriteString(`<td>` + sharedhtml.Escape(record.Date) + `</td>`)
		b.WriteString(`<td>` + sharedhtml.Escape(record.Survey) + `</td>`)
		b.WriteString(`<td>` + sharedhtml.Escape(record.Store) + `</td>`)
		b.WriteString(`<td>` + sharedhtml.Escape(record.Description) + `</td>`)
		b.WriteString(`<td>` + sharedhtml.Escape(record.InternalCode) + `</td>`)
		b.WriteString(`<td>` + sharedhtml.Escape(record.EAN) + `</td>`)
		b.WriteString(fmt.Sprintf(`<td>%d</td>`, record.StockQty))
		b.WriteString(`<td>` + sharedhtml.Escape(record.Location) + `</td>`)
		b.WriteString(`<td>` + sharedhtml.Escape(record.Expiry) + `</td></tr>`)
	}
	b.WriteString(`</tbody></table>`)
}

func writeRecentRuns(b *strings.Builder, data PageData) {
	if len(data.RecentRuns) == 0 {
		return
	}
	b.WriteString(`<h2>Envios recentes</h2>`)
	b.WriteString(`<table class="runs"><thead><tr>` +
		`<th>Data</th><th>Usuário</th><th>Pesquisa</th><th>Linhas</th><th>Arquivo</th><th>Planilha</th><th></th>` +
		`</tr></thead><tbody>`)
	for _, run := range data.RecentRuns {
		b.WriteString(`<tr><td>` + sharedhtml.Escape(run.CreatedAt) + `</td>`)
		b.WriteString(`<td>` + sharedhtml.Escape(run.Username) + `</td>`)
		b.WriteString(`<td>` + sharedhtml.Escape(run.Survey) + `</td>`)
		b.WriteString(fmt.Sprintf(`<td>%d</td>`, run.RowCount))
		b.WriteString(`<td>` + runFlag(run.LedgerOK) + `</td>`)
		if run.RemoteOK {
			b.WriteString(`<td>OK</td>`)
		} else if run.RemoteError != "" {
			b.WriteString(`<td title="` + sharedhtml.Escape(run.RemoteError) + `">FALHOU</td>`)
		} else {
			b.WriteString(`<td>PENDENTE</td>`)
		}
		b.WriteString(`<td>`)
		if run.CanReplay() {
			b.WriteString(`<form method="POST" action="/app/submissions/` + sharedhtml.Escape(run.ID) + `/replay">` +
				`<button type="submit">Reenviar</button></form>`)
		}
		b.WriteString(`</td></tr>`)
	}
	b.WriteString(`</tbody></table>`)
}

func runFlag(ok bool) string {
	if ok {
		return "OK"
	}
	return "FALHOU"
}
