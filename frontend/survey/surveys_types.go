package survey

import (
	"fmt"
	"net/url"
	"time"

	"locator/frontend/shared/nav"
	"locator/infrastructure/progress"
	"locator/models"
)

// ListPageData feeds the survey picker.
type ListPageData struct {
	Nav     nav.TopNavData
	Surveys []SurveyOption
	Error   string
}

type SurveyOption struct {
	ID        string
	ItemCount int
}

// FormPageData feeds the survey answer form.
type FormPageData struct {
	Nav      nav.TopNavData
	SurveyID string
	Rows     []progress.Initial
	Answered int
	Warning  string
	Status   string
	Error    string
}

const (
	locationField = "location_%d"
	expiryField   = "expiry_%d"
)

// FieldNames returns the posted form field names for a catalog row.
func FieldNames(row int) (location, expiry string) {
	return fmt.Sprintf(locationField, row), fmt.Sprintf(expiryField, row)
}

// InitialEntries turns a reconciled render pass into the progress map that
// gets flushed at the end of the pass. Reconcile already normalized the
// values, so the same state always flushes the same file.
func InitialEntries(rows []progress.Initial, user string, now time.Time) map[int]models.ProgressEntry {
	date := now.Format("02/01/2006")
	entries := make(map[int]models.ProgressEntry, len(rows))
	for _, row := range rows {
		entries[row.Item.Row] = models.ProgressEntry{
			Location: row.Location,
			Expiry:   row.Expiry,
			LastUser: user,
			LastDate: date,
		}
	}
	return entries
}

// ParseFormEntries rebuilds the full progress map for a survey from posted
// form values. Every catalog row gets an entry, answered or not, so a save
// is a complete overwrite of the prior file.
func ParseFormEntries(form url.Values, items []models.CatalogItem, user string, now time.Time) map[int]models.ProgressEntry {
	date := now.Format("02/01/2006")
	entries := make(map[int]models.ProgressEntry, len(items))
	for _, item := range items {
		locName, expName := FieldNames(item.Row)
		loc := form.Get(locName)
		if !models.ValidLocation(loc) {
			loc = models.LocationNone
		}
		entries[item.Row] = models.ProgressEntry{
			Location: loc,
			Expiry:   progress.NormalizeExpiry(form.Get(expName)),
			LastUser: user,
			LastDate: date,
		}
	}
	return entries
}
