package survey

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	sharedhtml "locator/frontend/shared/html"
	"locator/infrastructure/progress"
	"locator/models"
)

// SurveysPage builds the survey picker component.
func SurveysPage(data ListPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(data.Nav.Render())
		b.WriteString(`<main><h1>Pesquisas de Localização</h1>`)
		b.WriteString(sharedhtml.Flash("error", data.Error))
		if data.Error == "" && len(data.Surveys) == 0 {
			b.WriteString(`<p>Nenhuma pesquisa encontrada no catálogo.</p>`)
		}
		if len(data.Surveys) > 0 {
			b.WriteString(`<ul class="survey-list">`)
			for _, s := range data.Surveys {
				b.WriteString(`<li><a href="/app/surveys/` + url.PathEscape(s.ID) + `">`)
				b.WriteString(sharedhtml.Escape(s.ID))
				b.WriteString(fmt.Sprintf(`</a><span class="count">%d itens</span></li>`, s.ItemCount))
			}
			b.WriteString(`</ul>`)
		}
		b.WriteString(`</main>`)
		_, err := io.WriteString(w, sharedhtml.RenderLayout("Pesquisas", b.String()))
		return err
	})
}

// SurveyFormPage builds the answer form for one survey.
func SurveyFormPage(data FormPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(data.Nav.Render())
		b.WriteString(`<main><h1>Pesquisa ` + sharedhtml.Escape(data.SurveyID) + `</h1>`)
		b.WriteString(sharedhtml.Flash("error", data.Error))
		b.WriteString(sharedhtml.Flash("warning", data.Warning))
		b.WriteString(sharedhtml.Flash("status", data.Status))

		if len(data.Rows) > 0 {
			b.WriteString(fmt.Sprintf(`<p class="progress-meter">%d de %d respondidos</p>`, data.Answered, len(data.Rows)))
			escapedID := url.PathEscape(data.SurveyID)
			b.WriteString(`<form method="POST" action="/app/surveys/` + escapedID + `/save">`)
			b.WriteString(`<table class="survey-form"><thead><tr>` +
				`<th>Descrição</th><th>Código</th><th>EAN</th><th>Estoque</th>` +
				`<th>Dias s/ mov.</th><th>Seção</th><th>Localização</th><th>Validade</th>` +
				`</tr></thead><tbody>`)
			for _, row := range data.Rows {
				writeFormRow(&b, row)
			}
			b.WriteString(`</tbody></table>`)
			b.WriteString(`<div class="actions">`)
			b.WriteString(`<button type="submit">Salvar rascunho</button>`)
			b.WriteString(`<button type="submit" formaction="/app/surveys/` + escapedID + `/submit" class="primary">Confirmar envio</button>`)
			b.WriteString(`</div></form>`)
			b.WriteString(`<p class="report-link"><a href="/app/surveys/` + escapedID + `/report.pdf">Baixar relatório (PDF)</a></p>`)
		}
		b.WriteString(`</main>`)
		_, err := io.WriteString(w, sharedhtml.RenderLayout("Pesquisa "+data.SurveyID, b.String()))
		return err
	})
}

var locationLabels = map[string]string{
	models.LocationSection:    "Seção",
	models.LocationWarehouse:  "Depósito",
	models.LocationStockError: "Erro de estoque",
}

func writeFormRow(b *strings.Builder, row progress.Initial) {
	item := row.Item
	locName, expName := FieldNames(item.Row)

	b.WriteString(`<tr><td>` + sharedhtml.Escape(item.Description) + `</td>`)
	b.WriteString(`<td>` + sharedhtml.Escape(item.InternalCode) + `</td>`)
	b.WriteString(`<td>` + sharedhtml.Escape(item.EAN) + `</td>`)
	b.WriteString(fmt.Sprintf(`<td>%d</td><td>%d</td>`, item.StockQty, item.DaysNoMovement))
	b.WriteString(`<td>` + sharedhtml.Escape(item.Section) + `</td>`)

	b.WriteString(`<td><select name="` + locName + `">`)
	b.WriteString(`<option value="">(sem resposta)</option>`)
	for _, loc := range models.Locations() {
		selected := ""
		if row.Location == loc {
			selected = ` selected`
		}
		b.WriteString(`<option value="` + loc + `"` + selected + `>` + locationLabels[loc] + `</option>`)
	}
	b.WriteString(`</select></td>`)

	b.WriteString(`<td><input type="text" name="` + expName + `" value="` + sharedhtml.Escape(row.Expiry) + `" placeholder="MM/AAAA"></td></tr>`)
}
