package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"locator/models"
)

// SurveyColumn is the one required catalog header.
const SurveyColumn = "PESQUISA"

// Optional catalog headers; absent columns fall back to zero values.
const (
	colStore          = "STORE"
	colDescription    = "DESCRIPTION"
	colInternalCode   = "INTERNAL_CODE"
	colEAN            = "EAN"
	colStockQty       = "STOCK_QTY"
	colDaysNoMovement = "DAYS_NO_MOVEMENT"
	colSection        = "SECTION"
)

var ErrMissingSurveyColumn = fmt.Errorf("catalog is missing required column %q", SurveyColumn)

// Catalog holds the immutable product list for the session. Items keep
// their row-origin index from the source file, which is the identity key
// used by progress tracking; rows with duplicate or blank internal codes
// therefore stay independent.
type Catalog struct {
	Path  string
	Items []models.CatalogItem
}

// Load reads the catalog workbook's first sheet. The header row is
// validated once; rows with a blank survey cell are skipped.
func Load(path string) (*Catalog, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("catalog has no worksheet")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read catalog rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("catalog worksheet is empty")
	}

	cols := headerIndex(rows[0])
	surveyIdx, ok := cols[SurveyColumn]
	if !ok {
		return nil, ErrMissingSurveyColumn
	}

	c := &Catalog{Path: path, Items: make([]models.CatalogItem, 0, len(rows)-1)}
	for i, row := range rows[1:] {
		surveyID := cell(row, surveyIdx)
		if surveyID == "" {
			continue
		}
		c.Items = append(c.Items, models.CatalogItem{
			Row:            i,
			SurveyID:       surveyID,
			Store:          cell(row, lookup(cols, colStore)),
			Description:    cell(row, lookup(cols, colDescription)),
			InternalCode:   cell(row, lookup(cols, colInternalCode)),
			EAN:            cell(row, lookup(cols, colEAN)),
			StockQty:       cellInt(row, lookup(cols, colStockQty)),
			DaysNoMovement: cellInt(row, lookup(cols, colDaysNoMovement)),
			Section:        cell(row, lookup(cols, colSection)),
		})
	}
	return c, nil
}

// Surveys returns distinct survey identifiers in file order.
func (c *Catalog) Surveys() []string {
	seen := make(map[string]struct{}, 8)
	out := make([]string, 0, 8)
	for _, item := range c.Items {
		if _, ok := seen[item.SurveyID]; ok {
			continue
		}
		seen[item.SurveyID] = struct{}{}
		out = append(out, item.SurveyID)
	}
	return out
}

// BySurvey returns the ordered, non-deduplicated rows of one survey.
func (c *Catalog) BySurvey(surveyID string) []models.CatalogItem {
	out := make([]models.CatalogItem, 0, 32)
	for _, item := range c.Items {
		if item.SurveyID == surveyID {
			out = append(out, item)
		}
	}
	return out
}

// ByRow looks an item up by its row-origin index.
func (c *Catalog) ByRow(row int) (models.CatalogItem, bool) {
	for _, item := range c.Items {
		if item.Row == row {
			return item, true
		}
	}
	return models.CatalogItem{}, false
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToUpper(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, ok := cols[name]; !ok {
			cols[name] = i
		}
	}
	return cols
}

func lookup(cols map[string]int, name string) int {
	if idx, ok := cols[name]; ok {
		return idx
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// cellInt tolerates excel float rendering ("12.0") and junk values.
func cellInt(row []string, idx int) int64 {
	raw := cell(row, idx)
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
