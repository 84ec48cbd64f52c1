package report

import (
	"bytes"
	"testing"
	"time"

	"locator/models"
)

func sampleRecords() []models.SubmissionRecord {
	return []models.SubmissionRecord{
		{User: "maria", Date: "20/08/2026", Survey: "INV-1", Store: "Loja Centro", Description: "Arroz 5kg", InternalCode: "C1", EAN: "789C1", StockQty: 12, Location: models.LocationSection},
		{User: "maria", Date: "20/08/2026", Survey: "INV-1", Store: "Loja Centro", Description: "Feijao 1kg", InternalCode: "C2", EAN: "789C2", StockQty: 4, Location: models.LocationWarehouse, Expiry: "11/2026"},
		{User: "maria", Date: "20/08/2026", Survey: "INV-1", Store: "Loja Centro", Description: "Oleo 900ml", InternalCode: "C3", EAN: "789C3", StockQty: 7},
	}
}

func TestCountRecords(t *testing.T) {
	counts := CountRecords(sampleRecords())

	if counts.Total != 3 || counts.Answered != 2 || counts.Unanswered != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
	if counts.Answered+counts.Unanswered != counts.Total {
		t.Fatalf("answered+unanswered must equal total: %+v", counts)
	}
	byLocation := 0
	for _, n := range counts.ByLocation {
		byLocation += n
	}
	if byLocation != counts.Answered {
		t.Fatalf("location breakdown must sum to answered: %+v", counts)
	}
	if counts.ByLocation[models.LocationSection] != 1 || counts.ByLocation[models.LocationWarehouse] != 1 {
		t.Fatalf("per-location counts wrong: %+v", counts.ByLocation)
	}
}

func TestCountRecords_Empty(t *testing.T) {
	counts := CountRecords(nil)
	if counts.Total != 0 || counts.Answered != 0 || counts.Unanswered != 0 || len(counts.ByLocation) != 0 {
		t.Fatalf("expected zero counts, got %+v", counts)
	}
}

func TestRenderSurveyReportPDF(t *testing.T) {
	now := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)

	pdfBytes, err := renderSurveyReportPDF("INV-1", "maria", now, sampleRecords())
	if err != nil {
		t.Fatalf("render report: %v", err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF-")) {
		t.Fatalf("output is not a pdf, starts with %q", pdfBytes[:8])
	}
}

func TestRenderSurveyReportPDF_NoRecords(t *testing.T) {
	if _, err := renderSurveyReportPDF("INV-1", "maria", time.Now(), nil); err == nil {
		t.Fatal("expected error for empty record set")
	}
}

func TestRenderCode128PNG(t *testing.T) {
	pngBytes, err := renderCode128PNG("C1", 600, 160)
	if err != nil {
		t.Fatalf("render barcode: %v", err)
	}
	if !bytes.HasPrefix(pngBytes, []byte("\x89PNG")) {
		t.Fatalf("output is not a png, starts with %q", pngBytes[:4])
	}
}
