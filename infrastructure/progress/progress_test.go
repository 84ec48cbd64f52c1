package progress

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"locator/models"
)

func TestSave_Idempotent(t *testing.T) {
	store := NewStore(t.TempDir())
	entries := map[int]models.ProgressEntry{
		2: {Location: models.LocationWarehouse, Expiry: "12/2026", LastUser: "maria", LastDate: "20/08/2026"},
		0: {Location: models.LocationSection, Expiry: "", LastUser: "maria", LastDate: "20/08/2026"},
		7: {Location: "", Expiry: "", LastUser: "maria", LastDate: "20/08/2026"},
	}

	if err := store.Save("maria", "INV-1", entries); err != nil {
		t.Fatalf("first save: %v", err)
	}
	first, err := os.ReadFile(store.Path("maria", "INV-1"))
	if err != nil {
		t.Fatalf("read first: %v", err)
	}

	if err := store.Save("maria", "INV-1", entries); err != nil {
		t.Fatalf("second save: %v", err)
	}
	second, err := os.ReadFile(store.Path("maria", "INV-1"))
	if err != nil {
		t.Fatalf("read second: %v", err)
	}

	if string(first) != string(second) {
		t.Fatalf("saving identical state twice must produce identical files\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	entries := map[int]models.ProgressEntry{
		0: {Location: models.LocationSection, Expiry: "10/2026", LastUser: "joao", LastDate: "19/08/2026"},
		3: {Location: models.LocationStockError, Expiry: "", LastUser: "joao", LastDate: "19/08/2026"},
	}

	if err := store.Save("joao", "INV-2", entries); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := store.Load("joao", "INV-2")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(loaded))
	}
	if loaded[0] != entries[0] || loaded[3] != entries[3] {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	store := NewStore(t.TempDir())
	loaded, err := store.Load("noone", "INV-9")
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty map, got %d entries", len(loaded))
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	if err := os.WriteFile(store.Path("maria", "INV-1"), []byte("this is not a progress file"), 0o644); err != nil {
		t.Fatalf("write junk: %v", err)
	}

	loaded, err := store.Load("maria", "INV-1")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("malformed file must yield empty defaults, got %d entries", len(loaded))
	}
}

func TestPath_SanitizesUserAndSurvey(t *testing.T) {
	store := NewStore("/scratch")
	got := store.Path("Maria Silva", "INV 1/2026")
	want := filepath.Join("/scratch", "progress_Maria_Silva_INV_1_2026.csv")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestReconcile_LocationsAndExpiry(t *testing.T) {
	items := []models.CatalogItem{
		{Row: 0, SurveyID: "INV-1", InternalCode: "C1"},
		{Row: 1, SurveyID: "INV-1", InternalCode: "C2"},
		{Row: 2, SurveyID: "INV-1", InternalCode: "C3"},
	}
	prior := map[int]models.ProgressEntry{
		0: {Location: models.LocationSection, Expiry: "09/2026"},
		1: {Location: "CORRIDOR", Expiry: "nan"},
	}

	got := Reconcile(items, prior)
	if len(got) != 3 {
		t.Fatalf("expected 3 initials, got %d", len(got))
	}
	if got[0].Location != models.LocationSection || got[0].Expiry != "09/2026" {
		t.Fatalf("row 0: expected stored values, got %+v", got[0])
	}
	if got[1].Location != "" {
		t.Fatalf("row 1: invalid stored location must reset to empty, got %q", got[1].Location)
	}
	if got[1].Expiry != "" {
		t.Fatalf("row 1: NaN-like expiry must reset to empty, got %q", got[1].Expiry)
	}
	if got[2].Location != "" || got[2].Expiry != "" {
		t.Fatalf("row 2: absent rows must start unanswered, got %+v", got[2])
	}
}

func TestReconcile_DuplicateCodesTrackedByRow(t *testing.T) {
	items := []models.CatalogItem{
		{Row: 4, SurveyID: "INV-1", InternalCode: "C1", Description: "Arroz 5kg"},
		{Row: 5, SurveyID: "INV-1", InternalCode: "C1", Description: "Arroz 5kg"},
	}
	prior := map[int]models.ProgressEntry{
		5: {Location: models.LocationWarehouse},
	}

	got := Reconcile(items, prior)
	if got[0].Location != "" {
		t.Fatalf("first duplicate must stay unanswered, got %q", got[0].Location)
	}
	if got[1].Location != models.LocationWarehouse {
		t.Fatalf("second duplicate must keep its own answer, got %q", got[1].Location)
	}
}

func TestNormalizeExpiry(t *testing.T) {
	cases := map[string]string{
		"":          "",
		"nan":       "",
		"NaN":       "",
		"#N/A":      "",
		"-":         "",
		" 12/2026 ": "12/2026",
		"12/2026":   "12/2026",
	}
	for in, want := range cases {
		if got := NormalizeExpiry(in); got != want {
			t.Fatalf("NormalizeExpiry(%q) = %q, want %q", in, got, want)
		}
	}
}
