package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// FakeToken is the bearer token accepted by a FakeAPI.
const FakeToken = "test-token"

// Request is a request seen by a FakeAPI.
type Request struct {
	Method string
	Path   string
	Query  string
	Header http.Header
}

// FakeAPI is an in-process stand-in for the Smartsheet REST API. Sheets
// are registered as raw JSON and served by ID; rows, columns, search
// results and cell history are served from what has been registered.
type FakeAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	order    []int64
	sheets   map[int64]json.RawMessage
	names    map[int64]string
	search   map[int64]json.RawMessage
	global   map[string]json.RawMessage
	history  map[string]json.RawMessage
	failures []int
	requests []Request
}

// NewFakeAPI starts a fake API that is shut down when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		sheets:  make(map[int64]json.RawMessage),
		names:   make(map[int64]string),
		search:  make(map[int64]json.RawMessage),
		global:  make(map[string]json.RawMessage),
		history: make(map[string]json.RawMessage),
	}

	r := chi.NewRouter()
	r.Use(f.record, f.inject, f.auth)
	r.Get("/sheets", f.listSheets)
	r.Route("/sheets/{sheetID}", func(r chi.Router) {
		r.Get("/", f.getSheet)
		r.Get("/version", f.getVersion)
		r.Get("/columns/{columnID}", f.getColumn)
		r.Get("/rows/{rowID}", f.getRow)
		r.Get("/rows/{rowID}/columns/{columnID}/history", f.getHistory)
	})
	r.Get("/search", f.searchAll)
	r.Get("/search/sheets/{sheetID}", f.searchSheet)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL to configure a client with.
func (f *FakeAPI) URL() string {
	return f.Server.URL + "/"
}

// AddSheet registers a sheet given as JSON. The sheet's id and name are
// read from the document.
func (f *FakeAPI) AddSheet(t testing.TB, raw string) {
	t.Helper()

	var head struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(raw), &head); err != nil {
		t.Fatalf("fake api: invalid sheet json: %v", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sheets[head.ID]; !ok {
		f.order = append(f.order, head.ID)
	}
	f.sheets[head.ID] = json.RawMessage(raw)
	f.names[head.ID] = head.Name
}

// SetSearch registers the search response for a sheet.
func (f *FakeAPI) SetSearch(sheetID int64, raw string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.search[sheetID] = json.RawMessage(raw)
}

// SetSearchAll registers the response of an account-wide search for query.
func (f *FakeAPI) SetSearchAll(query, raw string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.global[query] = json.RawMessage(raw)
}

// SetHistory registers the cell history response for a cell.
func (f *FakeAPI) SetHistory(sheetID, rowID, columnID int64, raw string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history[historyKey(sheetID, rowID, columnID)] = json.RawMessage(raw)
}

// FailNext makes the next n requests fail with status.
func (f *FakeAPI) FailNext(status, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for range n {
		f.failures = append(f.failures, status)
	}
}

// Requests returns the requests received so far.
func (f *FakeAPI) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
		})
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		status := 0
		if len(f.failures) > 0 {
			status, f.failures = f.failures[0], f.failures[1:]
		}
		f.mu.Unlock()

		if status != 0 {
			writeError(w, status, 4003, http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+FakeToken {
			writeError(w, http.StatusUnauthorized, 1002, "Your Access Token is invalid.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) listSheets(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	data := make([]map[string]any, 0, len(f.order))
	for _, id := range f.order {
		data = append(data, map[string]any{"id": id, "name": f.names[id], "accessLevel": "OWNER"})
	}
	f.mu.Unlock()

	writeJSON(w, map[string]any{
		"pageNumber": 1,
		"totalPages": 1,
		"totalCount": len(data),
		"data":       data,
	})
}

func (f *FakeAPI) getSheet(w http.ResponseWriter, r *http.Request) {
	raw, ok := f.sheet(r)
	if !ok {
		writeError(w, http.StatusNotFound, 1006, "Not Found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

func (f *FakeAPI) getVersion(w http.ResponseWriter, r *http.Request) {
	raw, ok := f.sheet(r)
	if !ok {
		writeError(w, http.StatusNotFound, 1006, "Not Found")
		return
	}
	var v struct {
		Version int `json:"version"`
	}
	_ = json.Unmarshal(raw, &v)
	writeJSON(w, v)
}

func (f *FakeAPI) getColumn(w http.ResponseWriter, r *http.Request) {
	raw, ok := f.sheet(r)
	if !ok {
		writeError(w, http.StatusNotFound, 1006, "Not Found")
		return
	}

	var sheet struct {
		Columns []json.RawMessage `json:"columns"`
	}
	_ = json.Unmarshal(raw, &sheet)

	want := chi.URLParam(r, "columnID")
	for _, col := range sheet.Columns {
		var head struct {
			ID int64 `json:"id"`
		}
		_ = json.Unmarshal(col, &head)
		if strconv.FormatInt(head.ID, 10) == want {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(col)
			return
		}
	}
	writeError(w, http.StatusNotFound, 1006, "Not Found")
}

func (f *FakeAPI) getRow(w http.ResponseWriter, r *http.Request) {
	raw, ok := f.sheet(r)
	if !ok {
		writeError(w, http.StatusNotFound, 1006, "Not Found")
		return
	}

	var sheet struct {
		Rows []json.RawMessage `json:"rows"`
	}
	_ = json.Unmarshal(raw, &sheet)

	want := chi.URLParam(r, "rowID")
	for _, row := range sheet.Rows {
		var head struct {
			ID int64 `json:"id"`
		}
		_ = json.Unmarshal(row, &head)
		if strconv.FormatInt(head.ID, 10) == want {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(row)
			return
		}
	}
	writeError(w, http.StatusNotFound, 1006, "Not Found")
}

func (f *FakeAPI) getHistory(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "sheetID") + "/" + chi.URLParam(r, "rowID") + "/" + chi.URLParam(r, "columnID")

	f.mu.Lock()
	raw, ok := f.history[key]
	f.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, 1006, "Not Found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

func (f *FakeAPI) searchSheet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "sheetID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, 1018, "Invalid sheet ID")
		return
	}

	f.mu.Lock()
	raw, ok := f.search[id]
	f.mu.Unlock()

	if !ok {
		writeJSON(w, map[string]any{"totalCount": 0, "results": []any{}})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

func (f *FakeAPI) searchAll(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	raw, ok := f.global[r.URL.Query().Get("query")]
	f.mu.Unlock()

	if !ok {
		writeJSON(w, map[string]any{"totalCount": 0, "results": []any{}})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

func (f *FakeAPI) sheet(r *http.Request) (json.RawMessage, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "sheetID"), 10, 64)
	if err != nil {
		return nil, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.sheets[id]
	return raw, ok
}

func historyKey(sheetID, rowID, columnID int64) string {
	return fmt.Sprintf("%d/%d/%d", sheetID, rowID, columnID)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"errorCode": code,
		"message":   msg,
		"refId":     "test-ref",
	})
}
