package admin

import (
	"net/url"
	"strings"
	"time"

	"locator/frontend/shared/nav"
	"locator/frontend/submission"
	"locator/models"
)

const recordDateLayout = "02/01/2006"
const filterDateLayout = "2006-01-02"

// Filters narrows the response ledger on the admin panel. All populated
// fields must match at once; empty fields do not constrain.
type Filters struct {
	Stores      []string
	Surveys     []string
	DateFrom    string
	DateTo      string
	Description string
}

// ParseFilters reads the filter form values as submitted by the admin page.
func ParseFilters(values url.Values) Filters {
	return Filters{
		Stores:      dropBlank(values["store"]),
		Surveys:     dropBlank(values["survey"]),
		DateFrom:    strings.TrimSpace(values.Get("date_from")),
		DateTo:      strings.TrimSpace(values.Get("date_to")),
		Description: strings.TrimSpace(values.Get("description")),
	}
}

// Empty reports whether no filter is active.
func (f Filters) Empty() bool {
	return len(f.Stores) == 0 && len(f.Surveys) == 0 &&
		f.DateFrom == "" && f.DateTo == "" && f.Description == ""
}

// Matches checks one ledger record against every active filter.
func (f Filters) Matches(record models.SubmissionRecord) bool {
	if len(f.Stores) > 0 && !containsExact(f.Stores, record.Store) {
		return false
	}
	if len(f.Surveys) > 0 && !containsExact(f.Surveys, record.Survey) {
		return false
	}
	if f.Description != "" &&
		!strings.Contains(strings.ToLower(record.Description), strings.ToLower(f.Description)) {
		return false
	}
	if f.DateFrom != "" || f.DateTo != "" {
		recordDate, err := time.Parse(recordDateLayout, record.Date)
		if err != nil {
			return false
		}
		if f.DateFrom != "" {
			from, err := time.Parse(filterDateLayout, f.DateFrom)
			if err != nil || recordDate.Before(from) {
				return false
			}
		}
		if f.DateTo != "" {
			to, err := time.Parse(filterDateLayout, f.DateTo)
			if err != nil || recordDate.After(to) {
				return false
			}
		}
	}
	return true
}

// Apply returns the records that pass every active filter, in input order.
func (f Filters) Apply(records []models.SubmissionRecord) []models.SubmissionRecord {
	if f.Empty() {
		return records
	}
	out := make([]models.SubmissionRecord, 0, len(records))
	for _, record := range records {
		if f.Matches(record) {
			out = append(out, record)
		}
	}
	return out
}

// Encode rebuilds the query string for the export links so a download
// carries the same filters as the page.
func (f Filters) Encode() string {
	values := url.Values{}
	for _, s := range f.Stores {
		values.Add("store", s)
	}
	for _, s := range f.Surveys {
		values.Add("survey", s)
	}
	if f.DateFrom != "" {
		values.Set("date_from", f.DateFrom)
	}
	if f.DateTo != "" {
		values.Set("date_to", f.DateTo)
	}
	if f.Description != "" {
		values.Set("description", f.Description)
	}
	return values.Encode()
}

func dropBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func containsExact(haystack []string, needle string) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

// Survey completion states shown on the status board.
const (
	StatusComplete = "COMPLETA"
	StatusPartial  = "PARCIAL"
	StatusPending  = "PENDENTE"
)

// StatusRow is one survey on the completion board: expected items from the
// catalog against distinct answered codes found in the ledger.
type StatusRow struct {
	Survey   string
	Expected int
	Answered int
	Status   string
}

// StoreSummary aggregates filtered ledger records for one store.
type StoreSummary struct {
	Store      string
	Total      int
	Answered   int
	Unanswered int
	Percent    float64
}

// PageData feeds the admin panel view.
type PageData struct {
	Nav        nav.TopNavData
	Filters    Filters
	Stores     []string
	Surveys    []string
	Records    []models.SubmissionRecord
	Summaries  []StoreSummary
	Board      []StatusRow
	RecentRuns []submission.RunRow
	Status     string
	Error      string
}
