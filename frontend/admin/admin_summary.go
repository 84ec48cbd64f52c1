package admin

import (
	"sort"

	"locator/infrastructure/catalog"
	"locator/models"
)

// SummarizeByStore groups records per store with answered counts and the
// answered percentage. Stores come out in first-seen record order.
func SummarizeByStore(records []models.SubmissionRecord) []StoreSummary {
	index := make(map[string]int)
	summaries := make([]StoreSummary, 0)

	for _, record := range records {
		i, ok := index[record.Store]
		if !ok {
			i = len(summaries)
			index[record.Store] = i
			summaries = append(summaries, StoreSummary{Store: record.Store})
		}
		summaries[i].Total++
		if record.Answered() {
			summaries[i].Answered++
		} else {
			summaries[i].Unanswered++
		}
	}

	for i := range summaries {
		if summaries[i].Total > 0 {
			summaries[i].Percent = 100 * float64(summaries[i].Answered) / float64(summaries[i].Total)
		}
	}
	return summaries
}

// BuildStatusBoard compares each catalog survey against the ledger: a survey
// is complete when every catalog item has at least one answered ledger row
// for its internal code.
func BuildStatusBoard(cat *catalog.Catalog, records []models.SubmissionRecord) []StatusRow {
	answeredCodes := make(map[string]map[string]struct{})
	for _, record := range records {
		if !record.Answered() {
			continue
		}
		codes, ok := answeredCodes[record.Survey]
		if !ok {
			codes = make(map[string]struct{})
			answeredCodes[record.Survey] = codes
		}
		codes[record.InternalCode] = struct{}{}
	}

	board := make([]StatusRow, 0)
	for _, surveyID := range cat.Surveys() {
		items := cat.BySurvey(surveyID)
		expected := make(map[string]struct{}, len(items))
		for _, item := range items {
			expected[item.InternalCode] = struct{}{}
		}
		answered := 0
		for code := range expected {
			if _, ok := answeredCodes[surveyID][code]; ok {
				answered++
			}
		}
		row := StatusRow{Survey: surveyID, Expected: len(expected), Answered: answered}
		switch {
		case answered == 0:
			row.Status = StatusPending
		case answered >= len(expected):
			row.Status = StatusComplete
		default:
			row.Status = StatusPartial
		}
		board = append(board, row)
	}
	return board
}

// DistinctSurveys merges the catalog survey ids with the survey ids present
// in the records, so rows for surveys since dropped from the catalog stay
// selectable. Catalog order comes first, ledger-only surveys follow sorted.
func DistinctSurveys(catalogSurveys []string, records []models.SubmissionRecord) []string {
	seen := make(map[string]struct{}, len(catalogSurveys))
	surveys := make([]string, 0, len(catalogSurveys))
	for _, id := range catalogSurveys {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			surveys = append(surveys, id)
		}
	}

	extra := make([]string, 0)
	for _, record := range records {
		if record.Survey == "" {
			continue
		}
		if _, ok := seen[record.Survey]; !ok {
			seen[record.Survey] = struct{}{}
			extra = append(extra, record.Survey)
		}
	}
	sort.Strings(extra)
	return append(surveys, extra...)
}

// DistinctStores lists the store values present in the records, sorted.
func DistinctStores(records []models.SubmissionRecord) []string {
	seen := make(map[string]struct{})
	for _, record := range records {
		if record.Store != "" {
			seen[record.Store] = struct{}{}
		}
	}
	stores := make([]string, 0, len(seen))
	for store := range seen {
		stores = append(stores, store)
	}
	sort.Strings(stores)
	return stores
}
