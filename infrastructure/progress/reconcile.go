package progress

import (
	"strings"

	"locator/models"
)

// Initial is the pre-filled form state for one catalog row.
type Initial struct {
	Item     models.CatalogItem
	Location string
	Expiry   string
}

// Reconcile merges the ordered catalog rows of a survey with prior
// progress. Rows absent from the progress map, or carrying a location
// outside the enum, start unanswered; expiry values that render as
// NaN-ish text start empty. Identity is the row-origin index, so rows
// sharing an internal code are tracked independently.
func Reconcile(items []models.CatalogItem, prior map[int]models.ProgressEntry) []Initial {
	out := make([]Initial, 0, len(items))
	for _, item := range items {
		initial := Initial{Item: item}
		if entry, ok := prior[item.Row]; ok {
			if models.ValidLocation(entry.Location) {
				initial.Location = entry.Location
			}
			initial.Expiry = NormalizeExpiry(entry.Expiry)
		}
		out = append(out, initial)
	}
	return out
}

// NormalizeExpiry maps missing or NaN-like expiry text to the empty string.
func NormalizeExpiry(v string) string {
	trimmed := strings.TrimSpace(v)
	switch strings.ToLower(trimmed) {
	case "", "nan", "none", "null", "#n/a", "n/a", "-":
		return ""
	}
	return trimmed
}
