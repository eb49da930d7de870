// Package publish writes finished tables into a Google Sheets spreadsheet.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/logging"
)

// DefaultBaseURL is the Sheets API endpoint.
const DefaultBaseURL = "https://sheets.googleapis.com"

// ErrMissingToken means no bearer token was configured.
var ErrMissingToken = errors.New("sheets token is required")

// Client is a minimal Sheets v4 values client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient returns a client for baseURL (DefaultBaseURL when empty).
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type valueRange struct {
	Range          string  `json:"range,omitempty"`
	MajorDimension string  `json:"majorDimension,omitempty"`
	Values         [][]any `json:"values"`
}

// A1 quotes a sheet name and appends a cell range, e.g. 'Vertex-Face'!B3:S3.
func A1(sheet, cells string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'!" + cells
}

// ReadColumn returns the values of one column of sheet, top to bottom.
// Element i is row i+1; empty cells are "".
func (c *Client) ReadColumn(ctx context.Context, spreadsheetID, sheet, column string) ([]string, error) {
	rng := A1(sheet, column+":"+column)
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?majorDimension=COLUMNS",
		c.baseURL, url.PathEscape(spreadsheetID), url.PathEscape(rng))

	var vr valueRange
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &vr); err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	logging.LogRequest("IN", sheet, rng, vr.Values)

	if len(vr.Values) == 0 {
		return nil, nil
	}
	out := make([]string, len(vr.Values[0]))
	for i, v := range vr.Values[0] {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out, nil
}

// UpdateRow writes one row of values into rng with RAW input.
func (c *Client) UpdateRow(ctx context.Context, spreadsheetID, rng string, values []any) error {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?valueInputOption=RAW",
		c.baseURL, url.PathEscape(spreadsheetID), url.PathEscape(rng))
	body := valueRange{Range: rng, MajorDimension: "ROWS", Values: [][]any{values}}
	if err := c.do(ctx, http.MethodPut, endpoint, body, nil); err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload, out any) error {
	if c.token == "" {
		return ErrMissingToken
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sheets API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
