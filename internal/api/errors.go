package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

// ErrSessionExpired is returned for requests that fail locally because
// the stored access token is expired, and for 401s whose refresh
// attempt failed. The transport has already cleared the stored tokens
// and notified the expiry observers by the time callers see it.
var ErrSessionExpired = errors.New("session expired")

// Error is a structured backend error response.
type Error struct {
	Status    int
	Code      string
	Message   string
	RequestID string
	// Fields holds field-level validation messages from 400 responses,
	// keyed by form field name.
	Fields map[string][]string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
	}
	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			names = append(names, k)
		}
		sort.Strings(names)
		return fmt.Sprintf("api: validation failed for %s (status %d)", strings.Join(names, ", "), e.Status)
	}
	return fmt.Sprintf("api: request failed (status %d)", e.Status)
}

// IsValidation reports whether this is a 400 with field-level messages,
// which views surface under the offending form fields rather than as a
// banner.
func (e *Error) IsValidation() bool {
	return e.Status == http.StatusBadRequest && len(e.Fields) > 0
}

// IsConflict reports a not-found/conflict class error such as
// "another company already default".
func (e *Error) IsConflict() bool {
	return e.Status == http.StatusNotFound || e.Status == http.StatusConflict
}

// parseError builds an *Error from a non-2xx response body. The backend
// emits three shapes: {"error": "..."}, {"detail": "..."}, and a bare
// field→messages map for validation failures.
func parseError(resp *http.Response) error {
	apiErr := &Error{
		Status:    resp.StatusCode,
		RequestID: resp.Header.Get("X-Request-ID"),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return apiErr
	}

	for _, key := range []string{"error", "detail", "message"} {
		var msg string
		if v, ok := raw[key]; ok && json.Unmarshal(v, &msg) == nil {
			apiErr.Message = msg
			delete(raw, key)
			break
		}
	}
	if v, ok := raw["code"]; ok {
		_ = json.Unmarshal(v, &apiErr.Code)
		delete(raw, "code")
	}
	delete(raw, "request_id")

	// Whatever remains is treated as field-level validation messages.
	// Values may be a single string or a list of strings.
	for field, v := range raw {
		var list []string
		if json.Unmarshal(v, &list) == nil {
			if apiErr.Fields == nil {
				apiErr.Fields = make(map[string][]string)
			}
			apiErr.Fields[field] = list
			continue
		}
		var single string
		if json.Unmarshal(v, &single) == nil {
			if apiErr.Fields == nil {
				apiErr.Fields = make(map[string][]string)
			}
			apiErr.Fields[field] = []string{single}
		}
	}

	return apiErr
}
