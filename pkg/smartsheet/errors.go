package smartsheet

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// apiError is the error body returned by the Smartsheet API.
type apiError struct {
	ErrorCode int    `json:"errorCode"`
	Message   string `json:"message"`
	RefID     string `json:"refId"`
}

// AuthError is returned when the API rejects the token (401 or 403).
type AuthError struct {
	StatusCode int
	ErrorCode  int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("smartsheet: authentication failed (%d)", e.StatusCode)
	}
	return fmt.Sprintf("smartsheet: authentication failed (%d): %s", e.StatusCode, e.Message)
}

// NotFoundError is returned when the API answers 404 for a resource path.
type NotFoundError struct {
	Resource string
	Message  string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("smartsheet: %s not found", e.Resource)
	}
	return fmt.Sprintf("smartsheet: %s not found: %s", e.Resource, e.Message)
}

// TransportError wraps a network-level failure: the request never produced
// an HTTP response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("smartsheet: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is returned for any other non-2xx response, including 429
// once retries are exhausted.
type StatusError struct {
	StatusCode int
	ErrorCode  int
	Message    string
	RefID      string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.ErrorCode != 0 {
		return fmt.Sprintf("smartsheet: status %d (error %d): %s", e.StatusCode, e.ErrorCode, msg)
	}
	return fmt.Sprintf("smartsheet: status %d: %s", e.StatusCode, msg)
}

// KeyNotFoundError is returned when a human-readable name (sheet name or
// column name) has no match.
type KeyNotFoundError struct {
	Kind string // "sheet" or "column"
	Key  string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// IndexOutOfRangeError is returned when a 1-based row number is outside
// the sheet's rows.
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("row number %d out of range [1, %d]", e.Index, e.Len)
}

// responseError classifies a non-2xx response. The Smartsheet error body
// is decoded when present.
func responseError(status int, resource string, body []byte) error {
	var ae apiError
	_ = json.Unmarshal(body, &ae)

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{StatusCode: status, ErrorCode: ae.ErrorCode, Message: ae.Message}
	case http.StatusNotFound:
		return &NotFoundError{Resource: resource, Message: ae.Message}
	default:
		return &StatusError{StatusCode: status, ErrorCode: ae.ErrorCode, Message: ae.Message, RefID: ae.RefID}
	}
}
