package models

// Location is where a surveyed product was physically found. The empty
// string means unanswered.
const (
	LocationNone       = ""
	LocationSection    = "SECTION"
	LocationWarehouse  = "WAREHOUSE"
	LocationStockError = "STOCK_ERROR"
)

// ValidLocation reports whether v is one of the three answered locations.
func ValidLocation(v string) bool {
	switch v {
	case LocationSection, LocationWarehouse, LocationStockError:
		return true
	}
	return false
}

// Locations lists the answered location values in display order.
func Locations() []string {
	return []string{LocationSection, LocationWarehouse, LocationStockError}
}

// CatalogItem is one product row belonging to a survey. Row is the
// row-origin index into the catalog file, assigned once at load time; it is
// the sole identity key for progress tracking, so duplicate or blank
// internal codes stay independent rows.
type CatalogItem struct {
	Row            int
	SurveyID       string
	Store          string
	Description    string
	InternalCode   string
	EAN            string
	StockQty       int64
	DaysNoMovement int64
	Section        string
}

// ProgressEntry is a user's in-flight answer for one catalog row.
type ProgressEntry struct {
	Location string
	Expiry   string
	LastUser string
	LastDate string
}

// SubmissionRecord is the flattened, finalized unit appended to the local
// ledger and mirrored to the remote spreadsheet tab named after the store.
// SubmissionID is the run identifier shared by every record of one submit;
// the mirror uses it to recognize tabs that already hold the batch.
type SubmissionRecord struct {
	User           string
	Date           string
	Survey         string
	Store          string
	Description    string
	InternalCode   string
	EAN            string
	StockQty       int64
	DaysNoMovement int64
	Section        string
	Location       string
	Expiry         string
	SubmissionID   string
}

// Answered reports whether the record carries a non-empty location.
func (r SubmissionRecord) Answered() bool {
	return ValidLocation(r.Location)
}

// LedgerHeader is the fixed ledger column order.
func LedgerHeader() []string {
	return []string{
		"USER", "DATE", "SURVEY", "STORE", "DESCRIPTION", "INTERNAL_CODE",
		"EAN", "STOCK_QTY", "DAYS_NO_MOVEMENT", "SECTION", "LOCATION", "EXPIRY",
		"SUBMISSION",
	}
}
