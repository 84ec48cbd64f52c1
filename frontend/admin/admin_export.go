package admin

import (
	"context"
	"fmt"
	"io"

	"github.com/uptrace/bun"
	"github.com/xuri/excelize/v2"

	"locator/infrastructure/sqlite"
	"locator/models"
)

// writeRecordsXLSX streams the filtered ledger rows as a spreadsheet with
// the same column layout as the response ledger itself.
func writeRecordsXLSX(w io.Writer, records []models.SubmissionRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	f.SetSheetName(sheet, "RESPOSTAS")
	sheet = "RESPOSTAS"

	header := make([]any, 0, 13)
	for _, col := range models.LedgerHeader() {
		header = append(header, col)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			record.User, record.Date, record.Survey, record.Store,
			record.Description, record.InternalCode, record.EAN,
			record.StockQty, record.DaysNoMovement, record.Section,
			record.Location, record.Expiry, record.SubmissionID,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// writeSummaryXLSX streams the per-store rollup: counts plus the answered
// percentage.
func writeSummaryXLSX(w io.Writer, summaries []StoreSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	f.SetSheetName(sheet, "RESUMO")
	sheet = "RESUMO"

	header := []any{"LOJA", "TOTAL", "RESPONDIDOS", "SEM_RESPOSTA", "PERCENTUAL"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, summary := range summaries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			summary.Store, summary.Total, summary.Answered, summary.Unanswered,
			fmt.Sprintf("%.1f%%", summary.Percent),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// writeBoardXLSX streams the survey completion board.
func writeBoardXLSX(w io.Writer, board []StatusRow) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	f.SetSheetName(sheet, "ANDAMENTO")
	sheet = "ANDAMENTO"

	header := []any{"PESQUISA", "ITENS", "RESPONDIDOS", "STATUS"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range board {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{row.Survey, row.Expected, row.Answered, row.Status}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func recordExportRun(ctx context.Context, db *sqlite.DB, userID *int64, exportType string) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		run := models.ExportRun{UserID: userID, ExportType: exportType}
		_, err := tx.NewInsert().Model(&run).Exec(ctx)
		return err
	})
}
