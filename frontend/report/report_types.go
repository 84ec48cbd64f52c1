package report

import "locator/models"

// Counts summarizes a batch of survey answers for the report header.
type Counts struct {
	Total      int
	Answered   int
	Unanswered int
	ByLocation map[string]int
}

// CountRecords tallies answered rows per location. Rows with an empty
// location are unanswered.
func CountRecords(records []models.SubmissionRecord) Counts {
	counts := Counts{ByLocation: make(map[string]int)}
	for _, record := range records {
		counts.Total++
		if !record.Answered() {
			counts.Unanswered++
			continue
		}
		counts.Answered++
		counts.ByLocation[record.Location]++
	}
	return counts
}
