package report

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strconv"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"

	"locator/models"
)

var locationReportLabels = map[string]string{
	models.LocationSection:    "Seção",
	models.LocationWarehouse:  "Depósito",
	models.LocationStockError: "Erro de estoque",
}

func renderSurveyReportPDF(surveyID, username string, generatedAt time.Time, records []models.SubmissionRecord) ([]byte, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no records to report for survey %s", surveyID)
	}
	counts := CountRecords(records)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Relatório de Pesquisa "+surveyID, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, tr("Relatório de Pesquisa"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, tr("Pesquisa: "+surveyID), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, tr("Usuário: "+username), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, "Gerado em: "+generatedAt.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Resumo", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Itens no total: %d", counts.Total), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Respondidos: %d", counts.Answered), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Sem resposta: %d", counts.Unanswered)), "", 1, "L", false, 0, "")
	for _, loc := range models.Locations() {
		if n := counts.ByLocation[loc]; n > 0 {
			pdf.CellFormat(0, 6, tr(fmt.Sprintf("  %s: %d", locationReportLabels[loc], n)), "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(4)

	for i, record := range records {
		addRecordBlock(pdf, tr, record, i)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func addRecordBlock(pdf *gofpdf.Fpdf, tr func(string) string, record models.SubmissionRecord, index int) {
	blockH := 34.0
	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	if pdf.GetY()+blockH > pageH-bottom {
		pdf.AddPage()
	}

	left, _, right, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()
	x0 := left
	y0 := pdf.GetY()
	w0 := pageW - left - right

	pdf.SetLineWidth(0.25)
	pdf.Rect(x0, y0, w0, blockH, "")

	description := strings.TrimSpace(record.Description)
	if description == "" {
		description = "-"
	}
	location := tr(locationReportLabels[record.Location])
	if record.Location == "" {
		location = "(sem resposta)"
	}
	expiry := record.Expiry
	if expiry == "" {
		expiry = "-"
	}

	textW := w0 - 62
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(x0+3, y0+3)
	pdf.CellFormat(textW, 6, tr(description), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(x0+3, y0+10)
	pdf.CellFormat(textW, 5, tr("Código: ")+record.InternalCode+"  EAN: "+record.EAN, "", 0, "L", false, 0, "")
	pdf.SetXY(x0+3, y0+16)
	pdf.CellFormat(textW, 5, fmt.Sprintf("Estoque: %d  Dias sem venda: %d", record.StockQty, record.DaysNoMovement), "", 0, "L", false, 0, "")
	pdf.SetXY(x0+3, y0+22)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(textW, 5, tr("Local: ")+location+"  Validade: "+expiry, "", 0, "L", false, 0, "")

	if code := strings.TrimSpace(record.InternalCode); code != "" {
		if barcodePNG, err := renderCode128PNG(code, 600, 160); err == nil {
			opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
			imageName := "record-barcode-" + strconv.Itoa(index)
			pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
			pdf.ImageOptions(imageName, x0+w0-58, y0+5, 54, 16, false, opt, 0, "")
			pdf.SetFont("Helvetica", "", 8)
			pdf.SetXY(x0+w0-58, y0+22)
			pdf.CellFormat(54, 4, code, "", 0, "C", false, 0, "")
		}
	}

	pdf.SetY(y0 + blockH + 3)
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	normalized := toNRGBA(scaled)
	var barcodePNG bytes.Buffer
	if err := png.Encode(&barcodePNG, normalized); err != nil {
		return nil, err
	}
	return barcodePNG.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
