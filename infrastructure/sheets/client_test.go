package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"locator/models"
)

// fakeSheets implements just enough of the spreadsheet API for the client.
type fakeSheets struct {
	mu         sync.Mutex
	tabs       map[string][][]any
	tabOrder   []string
	failAppend string // tab name whose append calls fail
}

func newFakeSheets(existingTabs ...string) *fakeSheets {
	f := &fakeSheets{tabs: make(map[string][][]any)}
	for _, tab := range existingTabs {
		f.tabs[tab] = nil
		f.tabOrder = append(f.tabOrder, tab)
	}
	return f
}

func (f *fakeSheets) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/values/"):
			var out struct {
				Values [][]any `json:"values"`
			}
			out.Values = f.tabs[tabFromValuesPath(r.URL.Path)]
			_ = json.NewEncoder(w).Encode(out)

		case r.Method == http.MethodGet:
			type props struct {
				Properties struct {
					Title string `json:"title"`
				} `json:"properties"`
			}
			var out struct {
				Sheets []props `json:"sheets"`
			}
			for _, title := range f.tabOrder {
				var p props
				p.Properties.Title = title
				out.Sheets = append(out.Sheets, p)
			}
			_ = json.NewEncoder(w).Encode(out)

		case strings.Contains(r.URL.Path, ":batchUpdate"):
			var body struct {
				Requests []struct {
					AddSheet struct {
						Properties struct {
							Title string `json:"title"`
						} `json:"properties"`
					} `json:"addSheet"`
				} `json:"requests"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			for _, req := range body.Requests {
				title := req.AddSheet.Properties.Title
				if _, ok := f.tabs[title]; !ok {
					f.tabs[title] = nil
					f.tabOrder = append(f.tabOrder, title)
				}
			}
			fmt.Fprint(w, "{}")

		case strings.Contains(r.URL.Path, ":append"):
			tab := tabFromAppendPath(r.URL.Path)
			if tab == f.failAppend {
				http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
				return
			}
			var body struct {
				Values [][]any `json:"values"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			f.tabs[tab] = append(f.tabs[tab], body.Values...)
			fmt.Fprint(w, "{}")

		default:
			http.Error(w, "unexpected call", http.StatusNotFound)
		}
	})
}

// tabFromAppendPath extracts the tab name out of ".../values/'Tab'!A1:append".
func tabFromAppendPath(path string) string {
	idx := strings.Index(path, "/values/")
	if idx < 0 {
		return ""
	}
	ref := strings.TrimSuffix(path[idx+len("/values/"):], ":append")
	ref = strings.TrimSuffix(ref, "!A1")
	return strings.Trim(ref, "'")
}

// tabFromValuesPath extracts the tab name out of ".../values/'Tab'!A:M".
func tabFromValuesPath(path string) string {
	idx := strings.Index(path, "/values/")
	if idx < 0 {
		return ""
	}
	ref := path[idx+len("/values/"):]
	if bang := strings.Index(ref, "!"); bang >= 0 {
		ref = ref[:bang]
	}
	return strings.Trim(ref, "'")
}

func testClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	return NewClientWithHTTP(srv.Client(), srv.URL, "sheet-123")
}

func mirrorRecord(store, code, location string) models.SubmissionRecord {
	return models.SubmissionRecord{
		User:         "maria",
		Date:         "20/08/2026",
		Survey:       "INV-1",
		Store:        store,
		Description:  "Produto " + code,
		InternalCode: code,
		Location:     location,
	}
}

func TestMirrorRecords_PartitionsByStoreWithLazyHeaders(t *testing.T) {
	fake := newFakeSheets()
	client := testClient(t, fake)

	err := client.MirrorRecords(context.Background(), []models.SubmissionRecord{
		mirrorRecord("Loja Centro", "C1", models.LocationSection),
		mirrorRecord("Loja Norte", "C2", models.LocationWarehouse),
		mirrorRecord("Loja Centro", "C3", ""),
	})
	if err != nil {
		t.Fatalf("mirror: %v", err)
	}

	centro := fake.tabs["Loja Centro"]
	if len(centro) != 3 {
		t.Fatalf("expected header + 2 rows in Loja Centro, got %d", len(centro))
	}
	if centro[0][0] != "USER" {
		t.Fatalf("expected header row first, got %v", centro[0])
	}
	if centro[1][5] != "C1" || centro[2][5] != "C3" {
		t.Fatalf("input order not preserved: %v", centro[1:])
	}

	norte := fake.tabs["Loja Norte"]
	if len(norte) != 2 || norte[1][5] != "C2" {
		t.Fatalf("unexpected Loja Norte rows: %v", norte)
	}
}

func TestMirrorRecords_ExistingTabGetsNoSecondHeader(t *testing.T) {
	fake := newFakeSheets("Loja Centro")
	fake.tabs["Loja Centro"] = [][]any{{"USER"}, {"old row"}}
	client := testClient(t, fake)

	err := client.MirrorRecords(context.Background(), []models.SubmissionRecord{
		mirrorRecord("Loja Centro", "C9", models.LocationSection),
	})
	if err != nil {
		t.Fatalf("mirror: %v", err)
	}

	rows := fake.tabs["Loja Centro"]
	if len(rows) != 3 {
		t.Fatalf("expected old rows + 1 appended, got %d", len(rows))
	}
	headers := 0
	for _, row := range rows {
		if len(row) > 0 && row[0] == "USER" {
			headers++
		}
	}
	if headers != 1 {
		t.Fatalf("existing tab must not get another header, got %d", headers)
	}
}

func TestMirrorRecords_PartialFailureKeepsEarlierTabs(t *testing.T) {
	fake := newFakeSheets()
	fake.failAppend = "Loja Norte"
	client := testClient(t, fake)

	err := client.MirrorRecords(context.Background(), []models.SubmissionRecord{
		mirrorRecord("Loja Centro", "C1", models.LocationSection),
		mirrorRecord("Loja Norte", "C2", models.LocationWarehouse),
	})
	if err == nil {
		t.Fatalf("expected error from failing tab")
	}
	if !strings.Contains(err.Error(), "Loja Norte") {
		t.Fatalf("error should name the failing tab, got %v", err)
	}
	centro := fake.tabs["Loja Centro"]
	if len(centro) != 2 || centro[1][5] != "C1" {
		t.Fatalf("earlier tab writes must be kept, got %v", centro)
	}
}

func TestMirrorRecords_ReplaySkipsTabsAlreadyMirrored(t *testing.T) {
	fake := newFakeSheets()
	fake.failAppend = "Loja Norte"
	client := testClient(t, fake)

	batch := []models.SubmissionRecord{
		mirrorRecord("Loja Centro", "C1", models.LocationSection),
		mirrorRecord("Loja Norte", "C2", models.LocationWarehouse),
	}
	for i := range batch {
		batch[i].SubmissionID = "f6b6e1e2-run"
	}

	if err := client.MirrorRecords(context.Background(), batch); err == nil {
		t.Fatalf("expected error from failing tab")
	}

	fake.failAppend = ""
	if err := client.MirrorRecords(context.Background(), batch); err != nil {
		t.Fatalf("retry: %v", err)
	}

	seen := 0
	for _, row := range fake.tabs["Loja Centro"] {
		if len(row) > 5 && row[5] == "C1" {
			seen++
		}
	}
	if seen != 1 {
		t.Fatalf("retry duplicated rows: C1 appears %d times in Loja Centro", seen)
	}

	norte := fake.tabs["Loja Norte"]
	if len(norte) != 2 || norte[0][0] != "USER" || norte[1][5] != "C2" {
		t.Fatalf("failed tab must get header and rows on retry: %v", norte)
	}
}

func TestMirrorRecords_SameBatchTwiceWritesOnce(t *testing.T) {
	fake := newFakeSheets()
	client := testClient(t, fake)

	batch := []models.SubmissionRecord{
		mirrorRecord("Loja Centro", "C1", models.LocationSection),
	}
	batch[0].SubmissionID = "0a51c7d9-run"

	for i := 0; i < 2; i++ {
		if err := client.MirrorRecords(context.Background(), batch); err != nil {
			t.Fatalf("mirror %d: %v", i, err)
		}
	}

	if len(fake.tabs["Loja Centro"]) != 2 {
		t.Fatalf("expected header + 1 row after repeat, got %v", fake.tabs["Loja Centro"])
	}
}

func TestMirrorRecords_BlankStoreGetsFallbackTab(t *testing.T) {
	fake := newFakeSheets()
	client := testClient(t, fake)

	if err := client.MirrorRecords(context.Background(), []models.SubmissionRecord{
		mirrorRecord("", "C1", models.LocationSection),
	}); err != nil {
		t.Fatalf("mirror: %v", err)
	}
	if _, ok := fake.tabs["SEM_LOJA"]; !ok {
		t.Fatalf("expected fallback tab for blank store, tabs: %v", fake.tabOrder)
	}
}

func TestPartitionByStore_FirstSeenOrder(t *testing.T) {
	stores, groups := partitionByStore([]models.SubmissionRecord{
		mirrorRecord("B", "1", ""),
		mirrorRecord("A", "2", ""),
		mirrorRecord("B", "3", ""),
	})
	if len(stores) != 2 || stores[0] != "B" || stores[1] != "A" {
		t.Fatalf("unexpected store order: %v", stores)
	}
	if len(groups["B"]) != 2 || groups["B"][0].InternalCode != "1" || groups["B"][1].InternalCode != "3" {
		t.Fatalf("group order broken: %+v", groups["B"])
	}
}
