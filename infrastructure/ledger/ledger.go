package ledger

import (
	"fmt"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"locator/models"
)

// SheetName is the answers sheet inside the ledger workbook.
const SheetName = "RESPOSTAS"

// Ledger is the local append-only record of submitted answers. The file is
// created with a header on first use; appends start at the first free row
// and never touch rows already present.
type Ledger struct {
	Path string
}

func New(path string) *Ledger {
	return &Ledger{Path: path}
}

// Append writes records to the end of the ledger sheet.
func (l *Ledger) Append(records []models.SubmissionRecord) error {
	if len(records) == 0 {
		return nil
	}

	f, created, err := l.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return fmt.Errorf("read ledger rows: %w", err)
	}
	next := len(rows) + 1

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, next+i)
		if err != nil {
			return err
		}
		row := recordRow(record)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write ledger row: %w", err)
		}
	}

	if created {
		return f.SaveAs(l.Path)
	}
	return f.Save()
}

// ReadAll returns every submitted record in sheet order. A missing ledger
// reads as empty.
func (l *Ledger) ReadAll() ([]models.SubmissionRecord, error) {
	if _, err := os.Stat(l.Path); os.IsNotExist(err) {
		return nil, nil
	}

	f, err := excelize.OpenFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", l.Path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("read ledger rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	records := make([]models.SubmissionRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, models.SubmissionRecord{
			User:           col(row, 0),
			Date:           col(row, 1),
			Survey:         col(row, 2),
			Store:          col(row, 3),
			Description:    col(row, 4),
			InternalCode:   col(row, 5),
			EAN:            col(row, 6),
			StockQty:       colInt(row, 7),
			DaysNoMovement: colInt(row, 8),
			Section:        col(row, 9),
			Location:       col(row, 10),
			Expiry:         col(row, 11),
			SubmissionID:   col(row, 12),
		})
	}
	return records, nil
}

// open returns the ledger workbook, creating it with a header sheet when
// the file does not exist yet.
func (l *Ledger) open() (*excelize.File, bool, error) {
	if _, err := os.Stat(l.Path); os.IsNotExist(err) {
		f := excelize.NewFile()
		if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
			return nil, false, err
		}
		if err := writeHeader(f); err != nil {
			return nil, false, err
		}
		return f, true, nil
	}

	f, err := excelize.OpenFile(l.Path)
	if err != nil {
		return nil, false, fmt.Errorf("open ledger %s: %w", l.Path, err)
	}
	if idx, err := f.GetSheetIndex(SheetName); err != nil || idx < 0 {
		if _, err := f.NewSheet(SheetName); err != nil {
			f.Close()
			return nil, false, err
		}
		if err := writeHeader(f); err != nil {
			f.Close()
			return nil, false, err
		}
	}
	return f, false, nil
}

func writeHeader(f *excelize.File) error {
	header := models.LedgerHeader()
	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
	}
	return f.SetSheetRow(SheetName, "A1", &row)
}

func recordRow(r models.SubmissionRecord) []any {
	return []any{
		r.User, r.Date, r.Survey, r.Store, r.Description, r.InternalCode,
		r.EAN, r.StockQty, r.DaysNoMovement, r.Section, r.Location, r.Expiry,
		r.SubmissionID,
	}
}

func col(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func colInt(row []string, idx int) int64 {
	raw := col(row, idx)
	if raw == "" {
		return 0
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if fl, err := strconv.ParseFloat(raw, 64); err == nil {
		return int64(fl)
	}
	return 0
}
