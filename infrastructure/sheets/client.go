package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/oauth2/google"

	"locator/models"
)

const (
	defaultBaseURL = "https://sheets.googleapis.com"
	scope          = "https://www.googleapis.com/auth/spreadsheets"
)

// Client mirrors submission batches to a remote spreadsheet, one tab per
// store. Calls are synchronous; callers surface a failure once and keep
// whatever the local ledger already holds.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	spreadsheetID string
}

// NewClient builds a client authenticated with a service-account JSON key.
func NewClient(ctx context.Context, credentialsPath, spreadsheetID string) (*Client, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	key, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read service account key: %w", err)
	}
	cfg, err := google.JWTConfigFromJSON(key, scope)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	httpClient := cfg.Client(ctx)
	httpClient.Timeout = 30 * time.Second
	return &Client{
		httpClient:    httpClient,
		baseURL:       defaultBaseURL,
		spreadsheetID: spreadsheetID,
	}, nil
}

// NewClientWithHTTP wires an explicit transport and endpoint; used by tests.
func NewClientWithHTTP(httpClient *http.Client, baseURL, spreadsheetID string) *Client {
	return &Client{httpClient: httpClient, baseURL: baseURL, spreadsheetID: spreadsheetID}
}

// MirrorRecords partitions records by store and appends each group to the
// tab named after the store, creating the tab with a header row when it
// does not exist yet. Input order is preserved inside each group. The
// first failing call aborts and is returned; tabs already written stay
// written. A tab already holding the batch's submission id is skipped, so
// retrying the same batch after a partial failure never duplicates rows.
func (c *Client) MirrorRecords(ctx context.Context, records []models.SubmissionRecord) error {
	if len(records) == 0 {
		return nil
	}

	// Every record of a batch belongs to the same submission run.
	submissionID := records[0].SubmissionID

	stores, groups := partitionByStore(records)

	existing, err := c.listTabs(ctx)
	if err != nil {
		return fmt.Errorf("list spreadsheet tabs: %w", err)
	}

	for _, store := range stores {
		needHeader := false
		if !existing[store] {
			if err := c.addTab(ctx, store); err != nil {
				return fmt.Errorf("create tab %q: %w", store, err)
			}
			existing[store] = true
			needHeader = true
		} else {
			mirrored, empty, err := c.tabState(ctx, store, submissionID)
			if err != nil {
				return fmt.Errorf("read tab %q: %w", store, err)
			}
			if mirrored {
				continue
			}
			// A tab created by a run that failed before its append is
			// still headerless.
			needHeader = empty
		}

		rows := make([][]any, 0, len(groups[store])+1)
		if needHeader {
			rows = append(rows, headerRow())
		}
		for _, record := range groups[store] {
			rows = append(rows, valueRow(record))
		}
		if err := c.appendRows(ctx, store, rows); err != nil {
			return fmt.Errorf("append rows to tab %q: %w", store, err)
		}
	}
	return nil
}

// partitionByStore groups records by store name, keeping first-seen store
// order and input order within each group.
func partitionByStore(records []models.SubmissionRecord) ([]string, map[string][]models.SubmissionRecord) {
	stores := make([]string, 0, 4)
	groups := make(map[string][]models.SubmissionRecord, 4)
	for _, record := range records {
		store := record.Store
		if store == "" {
			store = "SEM_LOJA"
		}
		if _, ok := groups[store]; !ok {
			stores = append(stores, store)
		}
		groups[store] = append(groups[store], record)
	}
	return stores, groups
}

func (c *Client) listTabs(ctx context.Context) (map[string]bool, error) {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s?fields=sheets.properties.title", c.baseURL, url.PathEscape(c.spreadsheetID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Sheets []struct {
			Properties struct {
				Title string `json:"title"`
			} `json:"properties"`
		} `json:"sheets"`
	}
	if err := c.do(req, &payload); err != nil {
		return nil, err
	}

	tabs := make(map[string]bool, len(payload.Sheets))
	for _, sheet := range payload.Sheets {
		tabs[sheet.Properties.Title] = true
	}
	return tabs, nil
}

// tabState reads an existing tab and reports whether the submission id is
// already present in its rows and whether the tab has no rows at all.
func (c *Client) tabState(ctx context.Context, tab, submissionID string) (mirrored, empty bool, err error) {
	rangeRef := fmt.Sprintf("'%s'!A:M", tab)
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s",
		c.baseURL, url.PathEscape(c.spreadsheetID), url.PathEscape(rangeRef))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, false, err
	}

	var payload struct {
		Values [][]any `json:"values"`
	}
	if err := c.do(req, &payload); err != nil {
		return false, false, err
	}
	if len(payload.Values) == 0 {
		return false, true, nil
	}
	if submissionID == "" {
		return false, false, nil
	}
	for _, row := range payload.Values {
		if len(row) > 12 && row[12] == submissionID {
			return true, false, nil
		}
	}
	return false, false, nil
}

func (c *Client) addTab(ctx context.Context, title string) error {
	body := map[string]any{
		"requests": []any{
			map[string]any{
				"addSheet": map[string]any{
					"properties": map[string]any{"title": title},
				},
			},
		},
	}
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s:batchUpdate", c.baseURL, url.PathEscape(c.spreadsheetID))
	req, err := jsonRequest(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) appendRows(ctx context.Context, tab string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	rangeRef := fmt.Sprintf("'%s'!A1", tab)
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:append?valueInputOption=RAW&insertDataOption=INSERT_ROWS",
		c.baseURL, url.PathEscape(c.spreadsheetID), url.PathEscape(rangeRef))
	req, err := jsonRequest(ctx, http.MethodPost, endpoint, map[string]any{"values": rows})
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sheets api %s: %s", resp.Status, bytes.TrimSpace(detail))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func jsonRequest(ctx context.Context, method, endpoint string, body any) (*http.Request, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func headerRow() []any {
	header := models.LedgerHeader()
	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
	}
	return row
}

func valueRow(r models.SubmissionRecord) []any {
	return []any{
		r.User, r.Date, r.Survey, r.Store, r.Description, r.InternalCode,
		r.EAN, r.StockQty, r.DaysNoMovement, r.Section, r.Location, r.Expiry,
		r.SubmissionID,
	}
}
