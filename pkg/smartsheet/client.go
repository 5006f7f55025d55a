// Package smartsheet is a read-side client for the Smartsheet REST API and
// the resolver that maps sheet names, column names and row numbers to the
// numeric IDs the API works with.
//
// Every call blocks until the HTTP exchange completes and re-fetches from
// the API; nothing is cached between calls.
package smartsheet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// DefaultBaseURL is the Smartsheet API 2.0 endpoint.
const DefaultBaseURL = "https://api.smartsheet.com/2.0/"

// DefaultChangeAgent is sent in the Smartsheet-Change-Agent header.
const DefaultChangeAgent = "leapsheet"

// Client talks to the Smartsheet API with a bearer token.
type Client struct {
	baseURL     string
	http        *http.Client
	logger      *slog.Logger
	changeAgent string
	timeout     time.Duration
	retry       RetryPolicy
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, e.g. for the EU region or a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if !strings.HasSuffix(u, "/") {
			u += "/"
		}
		c.baseURL = u
	}
}

// WithHTTPClient sets the HTTP client whose transport carries requests.
// The bearer token is layered on top of its transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger. Requests are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithChangeAgent sets the Smartsheet-Change-Agent header value.
func WithChangeAgent(agent string) Option {
	return func(c *Client) { c.changeAgent = agent }
}

// WithTimeout bounds each HTTP attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetry enables retries of rate-limited requests. Without it a 429
// response is returned to the caller immediately as a *StatusError.
func WithRetry(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// New creates a client authenticating with token.
func New(token string, opts ...Option) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		changeAgent: DefaultChangeAgent,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}

	base := http.DefaultClient
	if c.http != nil {
		base = c.http
	}
	timeout := base.Timeout
	if c.timeout > 0 {
		timeout = c.timeout
	}

	c.http = &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   base.Transport,
		},
		CheckRedirect: base.CheckRedirect,
		Jar:           base.Jar,
		Timeout:       timeout,
	}
	return c
}

// GetSheet fetches a sheet with all columns and rows.
func (c *Client) GetSheet(ctx context.Context, sheetID int64) (*Sheet, error) {
	var sheet Sheet
	path := "sheets/" + strconv.FormatInt(sheetID, 10)
	if err := c.get(ctx, path, url.Values{"includeAll": {"true"}}, &sheet); err != nil {
		return nil, err
	}
	return &sheet, nil
}

// ListSheets lists every sheet the token can access.
func (c *Client) ListSheets(ctx context.Context) ([]SheetSummary, error) {
	var p page[SheetSummary]
	if err := c.get(ctx, "sheets", url.Values{"includeAll": {"true"}}, &p); err != nil {
		return nil, err
	}
	return p.Data, nil
}

// SheetID finds the ID of the first sheet whose name matches exactly.
func (c *Client) SheetID(ctx context.Context, name string) (int64, error) {
	sheets, err := c.ListSheets(ctx)
	if err != nil {
		return 0, err
	}
	for _, s := range sheets {
		if s.Name == name {
			return s.ID, nil
		}
	}
	return 0, &KeyNotFoundError{Kind: "sheet", Key: name}
}

// GetSheetByName fetches the first sheet whose name matches exactly.
func (c *Client) GetSheetByName(ctx context.Context, name string) (*Sheet, error) {
	id, err := c.SheetID(ctx, name)
	if err != nil {
		return nil, err
	}
	return c.GetSheet(ctx, id)
}

// ResolveSheet accepts a numeric sheet ID or a sheet name and returns the ID.
// A numeric reference is checked against the API first. When no sheet has
// that ID, the reference is tried as a name, so all-digit sheet names still
// resolve. If neither matches, the NotFoundError for the ID is returned.
func (c *Client) ResolveSheet(ctx context.Context, ref string) (int64, error) {
	id, perr := strconv.ParseInt(ref, 10, 64)
	if perr != nil {
		return c.SheetID(ctx, ref)
	}

	_, err := c.GetSheetVersion(ctx, id)
	if err == nil {
		return id, nil
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		return 0, err
	}

	byName, nerr := c.SheetID(ctx, ref)
	if nerr == nil {
		return byName, nil
	}
	var kn *KeyNotFoundError
	if errors.As(nerr, &kn) {
		return 0, err
	}
	return 0, nerr
}

// GetSheetVersion returns the sheet's current version number.
func (c *Client) GetSheetVersion(ctx context.Context, sheetID int64) (int, error) {
	var v struct {
		Version int `json:"version"`
	}
	path := "sheets/" + strconv.FormatInt(sheetID, 10) + "/version"
	if err := c.get(ctx, path, nil, &v); err != nil {
		return 0, err
	}
	return v.Version, nil
}

// GetRow fetches a single row.
func (c *Client) GetRow(ctx context.Context, sheetID, rowID int64) (*Row, error) {
	var row Row
	path := fmt.Sprintf("sheets/%d/rows/%d", sheetID, rowID)
	if err := c.get(ctx, path, nil, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// SearchSheet searches one sheet for text. Enclose text in double quotes
// for an exact phrase match.
func (c *Client) SearchSheet(ctx context.Context, sheetID int64, text string) (*SearchResult, error) {
	var res SearchResult
	path := "search/sheets/" + strconv.FormatInt(sheetID, 10)
	if err := c.get(ctx, path, url.Values{"query": {text}}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SearchAll searches every sheet the token can access. scopes narrows the
// search to object kinds such as cellData or sheetNames; none searches all.
func (c *Client) SearchAll(ctx context.Context, text string, scopes ...string) (*SearchResult, error) {
	var res SearchResult
	q := url.Values{"query": {text}}
	if len(scopes) > 0 {
		q.Set("scopes", strings.Join(scopes, ","))
	}
	if err := c.get(ctx, "search", q, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetColumn fetches the metadata of one column.
func (c *Client) GetColumn(ctx context.Context, sheetID, columnID int64) (*Column, error) {
	var col Column
	path := fmt.Sprintf("sheets/%d/columns/%d", sheetID, columnID)
	if err := c.get(ctx, path, nil, &col); err != nil {
		return nil, err
	}
	return &col, nil
}

// CellHistory returns the history of one cell, newest first.
func (c *Client) CellHistory(ctx context.Context, sheetID, rowID, columnID int64) ([]CellHistoryEntry, error) {
	var p page[CellHistoryEntry]
	path := fmt.Sprintf("sheets/%d/rows/%d/columns/%d/history", sheetID, rowID, columnID)
	if err := c.get(ctx, path, url.Values{"include": {"columnType"}}, &p); err != nil {
		return nil, err
	}
	return p.Data, nil
}

// get performs a GET against path and decodes the JSON body into out.
// Rate-limited responses are retried according to the client's policy.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	for attempt := 0; ; attempt++ {
		resp, body, err := c.do(ctx, http.MethodGet, u)
		if err != nil {
			return err
		}

		if c.retry.shouldRetry(resp.StatusCode, attempt) {
			wait := c.retry.backoff(attempt, resp.Header)
			c.logger.Warn("rate limited, retrying",
				slog.String("url", u),
				slog.Int("attempt", attempt+1),
				slog.Duration("wait", wait))

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return &TransportError{Method: http.MethodGet, URL: u, Err: ctx.Err()}
			case <-timer.C:
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return responseError(resp.StatusCode, path, body)
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("smartsheet: decode %s: %w", path, err)
		}
		return nil
	}
}

// do sends one request and reads the whole response body.
func (c *Client) do(ctx context.Context, method, u string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("smartsheet: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	if c.changeAgent != "" {
		req.Header.Set("Smartsheet-Change-Agent", c.changeAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, &TransportError{Method: method, URL: u, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &TransportError{Method: method, URL: u, Err: err}
	}

	c.logger.Debug("smartsheet request",
		slog.String("method", method),
		slog.String("url", u),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))

	return resp, body, nil
}
