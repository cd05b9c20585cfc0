package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is returned for every non-2xx response. Validation and business
// failures arrive through the same type; callers branch on Status.
type Error struct {
	Status  int
	Message string
	TraceID string
	Detail  string
}

func (e *Error) Error() string {
	if e.TraceID != "" {
		return fmt.Sprintf("api status %d: %s (trace %s)", e.Status, e.Message, e.TraceID)
	}
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is an *Error with status 401.
func IsUnauthorized(err error) bool {
	return HasStatus(err, http.StatusUnauthorized)
}

// IsNotFound reports whether err is an *Error with status 404.
func IsNotFound(err error) bool {
	return HasStatus(err, http.StatusNotFound)
}

// HasStatus reports whether err wraps an *Error with the given status.
func HasStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// newError builds an *Error from a failed response body. Unparseable
// bodies fall back to the status text.
func newError(status int, path string, body []byte) *Error {
	apiErr := &Error{Status: status}

	var parsed errorBody
	if len(body) > 0 && json.Unmarshal(body, &parsed) == nil {
		apiErr.TraceID = parsed.TraceID
		apiErr.Detail = detailString(parsed.Detail)
		apiErr.Message = strings.TrimSpace(parsed.Error)
	}
	if apiErr.Message == "" {
		apiErr.Message = apiErr.Detail
	}
	if apiErr.Message == "" {
		text := http.StatusText(status)
		if text == "" {
			text = "request failed"
		}
		apiErr.Message = fmt.Sprintf("%s %s", path, strings.ToLower(text))
	}
	return apiErr
}

// detailString flattens a detail field. FastAPI emits a string for
// HTTPException and a list of objects for validation failures.
func detailString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return strings.TrimSpace(text)
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if m := strings.TrimSpace(item.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return strings.TrimSpace(string(raw))
}
